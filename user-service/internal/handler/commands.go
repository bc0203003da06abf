package handler

import (
	"context"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/contracts"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/cqrs"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/rpc"
)

// RegisterCommands answers user lookups and credential checks for the
// gateway and the auth service.
func (h *UserHandler) RegisterCommands(r *rpc.Router) {
	r.Handle(contracts.GetUser, rpc.Typed(func(ctx context.Context, req contracts.IDRequest) (*models.UserView, error) {
		return h.queries.GetUser(ctx, cqrs.GetUserQuery{UserID: req.ID})
	}))
	r.Handle(contracts.CreateUser, rpc.Typed(func(ctx context.Context, req contracts.CreateUserRequest) (*models.UserView, error) {
		return h.commands.CreateUser(ctx, createCommand(req))
	}))
	r.Handle(contracts.ValidateUser, rpc.Typed(func(ctx context.Context, req contracts.ValidateUserRequest) (*models.UserView, error) {
		return h.commands.ValidateUser(ctx, cqrs.ValidateUserCommand{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
		})
	}))
}
