package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/apperr"
)

type signup struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	fields := Struct(signup{Username: "ab", Email: "nope", Quantity: 0})
	require.Len(t, fields, 3)

	grouped := Group(fields)
	assert.Equal(t, []string{"Must be at least 3 characters"}, grouped["username"])
	assert.Equal(t, []string{"Invalid email format"}, grouped["email"])
	assert.Equal(t, []string{"Value must be greater than or equal to 1"}, grouped["quantity"])
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(signup{Username: "alice", Email: "alice@example.com", Quantity: 2}))

	err := Check(signup{})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Contains(t, apperr.From(err).Fields, "username")
}
