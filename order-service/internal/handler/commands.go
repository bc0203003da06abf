package handler

import (
	"context"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/contracts"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/cqrs"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/rpc"
)

func (h *OrderHandler) RegisterCommands(r *rpc.Router) {
	r.Handle(contracts.GetOrder, rpc.Typed(func(ctx context.Context, req contracts.IDRequest) (*models.Order, error) {
		return h.queries.GetOrder(ctx, cqrs.GetOrderQuery{OrderID: req.ID})
	}))
	r.Handle(contracts.CreateOrder, rpc.Typed(func(ctx context.Context, req contracts.CreateOrderRequest) (*models.Order, error) {
		return h.commands.CreateOrder(ctx, createCommand(req))
	}))
	r.Handle(contracts.GetUserOrders, rpc.Typed(func(ctx context.Context, req contracts.UserOrdersRequest) (*models.Page[*models.Order], error) {
		return h.queries.ListUserOrders(ctx, cqrs.ListUserOrdersQuery{
			UserID:    req.UserID,
			PageQuery: cqrs.PageQuery{Skip: req.Skip, Take: req.Take},
		})
	}))
}
