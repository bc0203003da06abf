package command

import (
	"context"
	"fmt"
	"time"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/cqrs"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/utils"
)

// PaymentStore is satisfied by *repository.PaymentRepository.
type PaymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	Update(ctx context.Context, p *models.Payment) error
	Delete(ctx context.Context, id string) error
}

type PaymentCommandService struct {
	store PaymentStore
	now   func() time.Time
}

func NewPaymentCommandService(store PaymentStore) *PaymentCommandService {
	return &PaymentCommandService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// CreatePayment records a payment awaiting settlement.
func (s *PaymentCommandService) CreatePayment(ctx context.Context, cmd cqrs.CreatePaymentCommand) (*models.Payment, error) {
	return s.insert(ctx, cmd.OrderID, cmd.Amount, cmd.PaymentMethod, models.PaymentPending, cmd.TransactionID)
}

// ProcessPayment settles an order at once. No payment provider is involved;
// the transaction id is derived from the settlement time.
func (s *PaymentCommandService) ProcessPayment(ctx context.Context, cmd cqrs.ProcessPaymentCommand) (*models.Payment, error) {
	txn := fmt.Sprintf("TXN_%d", s.now().UnixMilli())
	return s.insert(ctx, cmd.OrderID, cmd.Amount, cmd.PaymentMethod, models.PaymentSuccess, txn)
}

func (s *PaymentCommandService) insert(ctx context.Context, orderID string, amount float64, method, status, txn string) (*models.Payment, error) {
	now := s.now()
	p := &models.Payment{
		ID:            utils.GenerateID("pay"),
		OrderID:       orderID,
		Amount:        amount,
		PaymentMethod: method,
		Status:        status,
		TransactionID: txn,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PaymentCommandService) UpdatePayment(ctx context.Context, cmd cqrs.UpdatePaymentCommand) (*models.Payment, error) {
	p, err := s.store.GetByID(ctx, cmd.PaymentID)
	if err != nil {
		return nil, err
	}
	if cmd.Status != nil {
		p.Status = *cmd.Status
	}
	if cmd.TransactionID != nil {
		p.TransactionID = *cmd.TransactionID
	}
	if cmd.Notes != nil {
		p.Notes = *cmd.Notes
	}
	p.UpdatedAt = s.now()
	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PaymentCommandService) DeletePayment(ctx context.Context, cmd cqrs.DeletePaymentCommand) error {
	return s.store.Delete(ctx, cmd.PaymentID)
}
