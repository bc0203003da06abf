package handler

import (
	"context"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/contracts"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/cqrs"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/rpc"
)

func (h *ProductHandler) RegisterCommands(r *rpc.Router) {
	r.Handle(contracts.GetProduct, rpc.Typed(func(ctx context.Context, req contracts.IDRequest) (*models.Product, error) {
		return h.queries.GetProduct(ctx, cqrs.GetProductQuery{ProductID: req.ID})
	}))
	r.Handle(contracts.ReduceStock, rpc.Typed(func(ctx context.Context, req contracts.ReduceStockRequest) (contracts.ReduceStockResult, error) {
		if _, err := h.commands.ReduceStock(ctx, cqrs.ReduceStockCommand{ProductID: req.ProductID, Quantity: req.Quantity}); err != nil {
			return contracts.ReduceStockResult{}, err
		}
		return contracts.ReduceStockResult{Success: true}, nil
	}))
}
