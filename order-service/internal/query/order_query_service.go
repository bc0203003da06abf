package query

import (
	"context"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/cqrs"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/middleware"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
)

// OrderReader is satisfied by *repository.OrderRepository.
type OrderReader interface {
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, userID string, skip, take int) ([]*models.Order, int, error)
}

type OrderQueryService struct {
	orders OrderReader
}

func NewOrderQueryService(orders OrderReader) *OrderQueryService {
	return &OrderQueryService{orders: orders}
}

func (s *OrderQueryService) GetOrder(ctx context.Context, q cqrs.GetOrderQuery) (*models.Order, error) {
	return s.orders.GetByID(ctx, q.OrderID)
}

func (s *OrderQueryService) ListOrders(ctx context.Context, q cqrs.ListOrdersQuery) (*models.Page[*models.Order], error) {
	return s.page(ctx, "", q.PageQuery)
}

// ListUserOrders returns an empty page, not an error, for a user without
// orders.
func (s *OrderQueryService) ListUserOrders(ctx context.Context, q cqrs.ListUserOrdersQuery) (*models.Page[*models.Order], error) {
	return s.page(ctx, q.UserID, q.PageQuery)
}

func (s *OrderQueryService) page(ctx context.Context, userID string, pq cqrs.PageQuery) (*models.Page[*models.Order], error) {
	skip, take := middleware.ClampPage(pq.Skip, pq.Take)
	orders, total, err := s.orders.List(ctx, userID, skip, take)
	if err != nil {
		return nil, err
	}
	return &models.Page[*models.Order]{Data: orders, Total: total, Skip: skip, Take: take}, nil
}
