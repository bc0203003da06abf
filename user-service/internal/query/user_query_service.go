package query

import (
	"context"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/cqrs"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/middleware"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
)

// UserViews is the read side. *repository.UserReadRepository satisfies it.
type UserViews interface {
	GetByID(ctx context.Context, id string) (*models.UserView, error)
	List(ctx context.Context, skip, take int) ([]*models.UserView, int, error)
}

// UserQueryService answers reads from the Redis-backed read model.
type UserQueryService struct {
	views UserViews
}

func NewUserQueryService(views UserViews) *UserQueryService {
	return &UserQueryService{views: views}
}

func (s *UserQueryService) GetUser(ctx context.Context, q cqrs.GetUserQuery) (*models.UserView, error) {
	return s.views.GetByID(ctx, q.UserID)
}

func (s *UserQueryService) ListUsers(ctx context.Context, q cqrs.ListUsersQuery) (*models.Page[*models.UserView], error) {
	skip, take := middleware.ClampPage(q.Skip, q.Take)
	users, total, err := s.views.List(ctx, skip, take)
	if err != nil {
		return nil, err
	}
	return &models.Page[*models.UserView]{Data: users, Total: total, Skip: skip, Take: take}, nil
}
