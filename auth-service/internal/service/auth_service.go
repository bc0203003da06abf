// Package service orchestrates registration and login on top of the user
// service and the session manager.
package service

import (
	"context"

	"github.com/Nirob844/mini-e-commerce-microservices/auth-service/internal/session"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/contracts"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
)

// Users is the user directory the auth service depends on.
type Users interface {
	Create(ctx context.Context, req contracts.CreateUserRequest) (*models.UserView, error)
	CheckCredentials(ctx context.Context, identifier, password string) (*models.UserView, error)
}

// Sessions is the session lifecycle.
type Sessions interface {
	Issue(ctx context.Context, p session.Profile) (*session.Issued, error)
	Verify(ctx context.Context, token string) (*session.Verification, error)
	Revoke(ctx context.Context, token string) error
}

type AuthService struct {
	users    Users
	sessions Sessions
}

func NewAuthService(users Users, sessions Sessions) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// Register creates the user, then opens their first session.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*session.Issued, error) {
	user, err := s.users.Create(ctx, contracts.CreateUserRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	return s.sessions.Issue(ctx, session.Profile{ID: user.ID, Username: username, Email: user.Email})
}

func (s *AuthService) Login(ctx context.Context, identifier, password string) (*session.Issued, error) {
	user, err := s.users.CheckCredentials(ctx, identifier, password)
	if err != nil {
		return nil, err
	}
	username := user.Username
	if username == "" {
		username = identifier
	}
	return s.sessions.Issue(ctx, session.Profile{ID: user.ID, Username: username, Email: user.Email})
}

func (s *AuthService) CreateSession(ctx context.Context, p session.Profile) (*session.Issued, error) {
	return s.sessions.Issue(ctx, p)
}

func (s *AuthService) Verify(ctx context.Context, token string) (*session.Verification, error) {
	return s.sessions.Verify(ctx, token)
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}
