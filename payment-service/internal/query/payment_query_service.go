package query

import (
	"context"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/cqrs"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/middleware"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
)

// PaymentReader is satisfied by *repository.PaymentRepository.
type PaymentReader interface {
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	GetByOrderID(ctx context.Context, orderID string) (*models.Payment, error)
	List(ctx context.Context, skip, take int) ([]*models.Payment, int, error)
}

type PaymentQueryService struct {
	payments PaymentReader
}

func NewPaymentQueryService(payments PaymentReader) *PaymentQueryService {
	return &PaymentQueryService{payments: payments}
}

func (s *PaymentQueryService) GetPayment(ctx context.Context, q cqrs.GetPaymentQuery) (*models.Payment, error) {
	return s.payments.GetByID(ctx, q.PaymentID)
}

func (s *PaymentQueryService) GetPaymentByOrder(ctx context.Context, q cqrs.GetPaymentByOrderQuery) (*models.Payment, error) {
	return s.payments.GetByOrderID(ctx, q.OrderID)
}

func (s *PaymentQueryService) ListPayments(ctx context.Context, q cqrs.ListPaymentsQuery) (*models.Page[*models.Payment], error) {
	skip, take := middleware.ClampPage(q.Skip, q.Take)
	payments, total, err := s.payments.List(ctx, skip, take)
	if err != nil {
		return nil, err
	}
	return &models.Page[*models.Payment]{Data: payments, Total: total, Skip: skip, Take: take}, nil
}
