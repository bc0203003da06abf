package repository

import (
	"context"
	"strings"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/apperr"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/config"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/contracts"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
)

// Caller is the subset of rpc.Dispatcher used here.
type Caller interface {
	Call(ctx context.Context, service, command string, payload, out any) error
}

// UserRepository reaches the user service's records over the command fabric.
// The auth service keeps no user table of its own.
type UserRepository struct {
	caller Caller
}

func NewUserRepository(caller Caller) *UserRepository {
	return &UserRepository{caller: caller}
}

func (r *UserRepository) Create(ctx context.Context, req contracts.CreateUserRequest) (*models.UserView, error) {
	var user models.UserView
	if err := r.caller.Call(ctx, config.User, contracts.CreateUser, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CheckCredentials returns the user if password matches. identifier is an
// email when it contains "@", a username otherwise. A wrong password and an
// unknown user look the same.
func (r *UserRepository) CheckCredentials(ctx context.Context, identifier, password string) (*models.UserView, error) {
	req := contracts.ValidateUserRequest{Password: password}
	if strings.Contains(identifier, "@") {
		req.Email = identifier
	} else {
		req.Username = identifier
	}

	var user models.UserView
	err := r.caller.Call(ctx, config.User, contracts.ValidateUser, req, &user)
	if apperr.IsKind(err, apperr.KindNotFound) || apperr.IsKind(err, apperr.KindUnauthorized) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
