package query

import (
	"context"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/cqrs"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/middleware"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
)

// ProductViews is the read side. *repository.ProductReadRepository
// satisfies it.
type ProductViews interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, skip, take int) ([]*models.Product, int, error)
}

type ProductQueryService struct {
	views ProductViews
}

func NewProductQueryService(views ProductViews) *ProductQueryService {
	return &ProductQueryService{views: views}
}

func (s *ProductQueryService) GetProduct(ctx context.Context, q cqrs.GetProductQuery) (*models.Product, error) {
	return s.views.GetByID(ctx, q.ProductID)
}

func (s *ProductQueryService) ListProducts(ctx context.Context, q cqrs.ListProductsQuery) (*models.Page[*models.Product], error) {
	skip, take := middleware.ClampPage(q.Skip, q.Take)
	products, total, err := s.views.List(ctx, skip, take)
	if err != nil {
		return nil, err
	}
	return &models.Page[*models.Product]{Data: products, Total: total, Skip: skip, Take: take}, nil
}
