package command

import (
	"context"
	"time"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/cqrs"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/utils"
)

// OrderStore is satisfied by *repository.OrderRepository.
type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	Update(ctx context.Context, o *models.Order) error
	Delete(ctx context.Context, id string) error
}

type OrderCommandService struct {
	store OrderStore
	now   func() time.Time
}

func NewOrderCommandService(store OrderStore) *OrderCommandService {
	return &OrderCommandService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrder prices the order from its items and opens it as PENDING.
// Stock and payment are handled by their own services.
func (s *OrderCommandService) CreateOrder(ctx context.Context, cmd cqrs.CreateOrderCommand) (*models.Order, error) {
	now := s.now()
	items := make([]models.OrderItem, len(cmd.Items))
	copy(items, cmd.Items)
	o := &models.Order{
		ID:              utils.GenerateID("ord"),
		UserID:          cmd.UserID,
		Items:           items,
		TotalAmount:     models.Total(items),
		Status:          models.OrderPending,
		ShippingAddress: cmd.ShippingAddress,
		Notes:           cmd.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderCommandService) UpdateOrder(ctx context.Context, cmd cqrs.UpdateOrderCommand) (*models.Order, error) {
	o, err := s.store.GetByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if cmd.Status != nil {
		o.Status = *cmd.Status
	}
	if cmd.ShippingAddress != nil {
		o.ShippingAddress = *cmd.ShippingAddress
	}
	if cmd.Notes != nil {
		o.Notes = *cmd.Notes
	}
	o.UpdatedAt = s.now()
	if err := s.store.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderCommandService) DeleteOrder(ctx context.Context, cmd cqrs.DeleteOrderCommand) error {
	return s.store.Delete(ctx, cmd.OrderID)
}
