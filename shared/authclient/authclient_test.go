package authclient

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/apperr"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/contracts"
)

type mockCaller struct {
	callFn func(service, command string, payload any) (any, error)
}

func (m *mockCaller) Call(_ context.Context, service, command string, payload, out any) error {
	res, err := m.callFn(service, command, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	raw, _ := json.Marshal(res)
	return json.Unmarshal(raw, out)
}

func TestVerifyToken(t *testing.T) {
	c := New(&mockCaller{callFn: func(service, command string, payload any) (any, error) {
		assert.Equal(t, "auth", service)
		assert.Equal(t, contracts.VerifyToken, command)
		if payload.(contracts.TokenRequest).Token == "live" {
			return contracts.Verification{UserID: "usr-1", Valid: true}, nil
		}
		return nil, apperr.InvalidToken("")
	}})

	id, err := c.VerifyToken(context.Background(), "live")
	require.NoError(t, err)
	assert.Equal(t, "usr-1", id)

	_, err = c.VerifyToken(context.Background(), "dead")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidToken))
}

func TestVerifyTokenRejectsInvalidReply(t *testing.T) {
	c := New(&mockCaller{callFn: func(string, string, any) (any, error) {
		return contracts.Verification{Valid: false}, nil
	}})
	_, err := c.VerifyToken(context.Background(), "x")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidToken))
}

func TestRevoke(t *testing.T) {
	var got string
	c := New(&mockCaller{callFn: func(_, command string, payload any) (any, error) {
		got = command
		return nil, nil
	}})
	require.NoError(t, c.Revoke(context.Background(), "tok"))
	assert.Equal(t, contracts.RevokeSession, got)
}
