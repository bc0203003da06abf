package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotal(t *testing.T) {
	items := []OrderItem{
		{ProductID: "p1", Quantity: 2, Price: 10.5},
		{ProductID: "p2", Quantity: 1, Price: 4},
	}
	assert.InDelta(t, 25.0, Total(items), 1e-9)
	assert.Zero(t, Total(nil))
}

func TestUserViewHidesPassword(t *testing.T) {
	u := &User{ID: "usr-1", Email: "a@example.com", PasswordHash: "hash"}
	raw, err := json.Marshal(u.View())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hash")

	raw, err = json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hash")
}
