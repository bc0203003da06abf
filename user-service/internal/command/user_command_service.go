package command

import (
	"context"
	"fmt"
	"time"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/apperr"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/cqrs"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/utils"
)

// UserStore is the write model. *repository.UserWriteRepository satisfies it.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

// ViewCache keeps the read model current after writes.
type ViewCache interface {
	CacheUserView(ctx context.Context, view *models.UserView)
	InvalidateUserView(ctx context.Context, userID string)
}

// UserCommandService writes user state to PostgreSQL and keeps the Redis
// read model up to date.
type UserCommandService struct {
	store UserStore
	views ViewCache
	now   func() time.Time
}

func NewUserCommandService(store UserStore, views ViewCache) *UserCommandService {
	return &UserCommandService{
		store: store,
		views: views,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *UserCommandService) CreateUser(ctx context.Context, cmd cqrs.CreateUserCommand) (*models.UserView, error) {
	passwordHash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	now := s.now()
	user := &models.User{
		ID:           utils.GenerateID("usr"),
		Username:     cmd.Username,
		FirstName:    cmd.FirstName,
		LastName:     cmd.LastName,
		Email:        cmd.Email,
		PasswordHash: passwordHash,
		Phone:        cmd.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}
	view := user.View()
	s.views.CacheUserView(ctx, view)
	return view, nil
}

// UpdateUser only lets a user change their own record.
func (s *UserCommandService) UpdateUser(ctx context.Context, cmd cqrs.UpdateUserCommand) (*models.UserView, error) {
	if cmd.UserID != cmd.RequestingUserID {
		return nil, apperr.Forbidden("You can only update your own user details")
	}
	user, err := s.store.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if cmd.FirstName != nil {
		user.FirstName = *cmd.FirstName
	}
	if cmd.LastName != nil {
		user.LastName = *cmd.LastName
	}
	if cmd.Phone != nil {
		user.Phone = *cmd.Phone
	}
	user.UpdatedAt = s.now()
	if err := s.store.Update(ctx, user); err != nil {
		return nil, err
	}
	view := user.View()
	s.views.CacheUserView(ctx, view)
	return view, nil
}

func (s *UserCommandService) DeleteUser(ctx context.Context, cmd cqrs.DeleteUserCommand) error {
	if cmd.UserID != cmd.RequestingUserID {
		return apperr.Forbidden("You can only delete your own account")
	}
	if err := s.store.Delete(ctx, cmd.UserID); err != nil {
		return err
	}
	s.views.InvalidateUserView(ctx, cmd.UserID)
	return nil
}

// ValidateUser checks a password. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *UserCommandService) ValidateUser(ctx context.Context, cmd cqrs.ValidateUserCommand) (*models.UserView, error) {
	var (
		user *models.User
		err  error
	)
	if cmd.Email != "" {
		user, err = s.store.GetByEmail(ctx, cmd.Email)
	} else {
		user, err = s.store.GetByUsername(ctx, cmd.Username)
	}
	if apperr.IsKind(err, apperr.KindNotFound) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(cmd.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	return user.View(), nil
}
