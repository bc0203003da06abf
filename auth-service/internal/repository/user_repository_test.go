package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/apperr"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/contracts"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
)

type mockCaller struct {
	callFn func(service, command string, payload any) (any, error)
}

func (m *mockCaller) Call(_ context.Context, service, command string, payload, out any) error {
	res, err := m.callFn(service, command, payload)
	if err != nil {
		return err
	}
	raw, _ := json.Marshal(res)
	return json.Unmarshal(raw, out)
}

func TestCheckCredentialsPicksIdentifier(t *testing.T) {
	var seen contracts.ValidateUserRequest
	repo := NewUserRepository(&mockCaller{callFn: func(service, command string, payload any) (any, error) {
		assert.Equal(t, "user", service)
		assert.Equal(t, contracts.ValidateUser, command)
		seen = payload.(contracts.ValidateUserRequest)
		return models.UserView{ID: "usr-1"}, nil
	}})

	_, err := repo.CheckCredentials(context.Background(), "alice@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", seen.Email)
	assert.Empty(t, seen.Username)

	_, err = repo.CheckCredentials(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice", seen.Username)
	assert.Empty(t, seen.Email)
}

func TestCheckCredentialsHidesUnknownUser(t *testing.T) {
	for _, upstream := range []error{apperr.NotFound("User", ""), apperr.Unauthorized("bad password")} {
		repo := NewUserRepository(&mockCaller{callFn: func(string, string, any) (any, error) {
			return nil, upstream
		}})
		_, err := repo.CheckCredentials(context.Background(), "alice", "pw")
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
		assert.Equal(t, "Invalid credentials", apperr.From(err).Message)
	}
}

func TestCheckCredentialsPassesOutages(t *testing.T) {
	repo := NewUserRepository(&mockCaller{callFn: func(string, string, any) (any, error) {
		return nil, apperr.UpstreamTimeout("user", contracts.ValidateUser)
	}})
	_, err := repo.CheckCredentials(context.Background(), "alice", "pw")
	assert.True(t, apperr.IsKind(err, apperr.KindUpstreamTimeout))
}

func TestCreate(t *testing.T) {
	repo := NewUserRepository(&mockCaller{callFn: func(_, command string, payload any) (any, error) {
		assert.Equal(t, contracts.CreateUser, command)
		req := payload.(contracts.CreateUserRequest)
		return models.UserView{ID: "usr-1", Email: req.Email}, nil
	}})
	u, err := repo.Create(context.Background(), contracts.CreateUserRequest{Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", u.Email)
}
