package handler

import (
	"context"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/contracts"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/cqrs"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/rpc"
)

func (h *PaymentHandler) RegisterCommands(r *rpc.Router) {
	r.Handle(contracts.GetPayment, rpc.Typed(func(ctx context.Context, req contracts.IDRequest) (*models.Payment, error) {
		return h.queries.GetPayment(ctx, cqrs.GetPaymentQuery{PaymentID: req.ID})
	}))
	r.Handle(contracts.GetPaymentByOrder, rpc.Typed(func(ctx context.Context, req contracts.OrderIDRequest) (*models.Payment, error) {
		return h.queries.GetPaymentByOrder(ctx, cqrs.GetPaymentByOrderQuery{OrderID: req.OrderID})
	}))
	r.Handle(contracts.ProcessPayment, rpc.Typed(func(ctx context.Context, req contracts.ProcessPaymentRequest) (*models.Payment, error) {
		return h.commands.ProcessPayment(ctx, cqrs.ProcessPaymentCommand{
			OrderID:       req.OrderID,
			Amount:        req.Amount,
			PaymentMethod: req.PaymentMethod,
		})
	}))
}
