package command

import (
	"context"
	"time"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/cqrs"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/utils"
)

// ProductStore is the write model. *repository.ProductWriteRepository
// satisfies it.
type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id string) error
	ReduceStock(ctx context.Context, id string, quantity int, at time.Time) (*models.Product, error)
}

type ProductCache interface {
	CacheProduct(ctx context.Context, p *models.Product)
	InvalidateProduct(ctx context.Context, id string)
}

// ProductCommandService writes product state and keeps the read model in
// sync.
type ProductCommandService struct {
	store ProductStore
	cache ProductCache
	now   func() time.Time
}

func NewProductCommandService(store ProductStore, cache ProductCache) *ProductCommandService {
	return &ProductCommandService{
		store: store,
		cache: cache,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *ProductCommandService) CreateProduct(ctx context.Context, cmd cqrs.CreateProductCommand) (*models.Product, error) {
	now := s.now()
	p := &models.Product{
		ID:          utils.GenerateID("prd"),
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price,
		Stock:       cmd.Stock,
		SKU:         cmd.SKU,
		Category:    cmd.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	s.cache.CacheProduct(ctx, p)
	return p, nil
}

func (s *ProductCommandService) UpdateProduct(ctx context.Context, cmd cqrs.UpdateProductCommand) (*models.Product, error) {
	p, err := s.store.GetByID(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}
	if cmd.Name != nil {
		p.Name = *cmd.Name
	}
	if cmd.Description != nil {
		p.Description = *cmd.Description
	}
	if cmd.Price != nil {
		p.Price = *cmd.Price
	}
	if cmd.Stock != nil {
		p.Stock = *cmd.Stock
	}
	if cmd.SKU != nil {
		p.SKU = *cmd.SKU
	}
	if cmd.Category != nil {
		p.Category = *cmd.Category
	}
	p.UpdatedAt = s.now()
	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	s.cache.CacheProduct(ctx, p)
	return p, nil
}

func (s *ProductCommandService) DeleteProduct(ctx context.Context, cmd cqrs.DeleteProductCommand) error {
	if err := s.store.Delete(ctx, cmd.ProductID); err != nil {
		return err
	}
	s.cache.InvalidateProduct(ctx, cmd.ProductID)
	return nil
}

// ReduceStock fails with NotFound for an unknown product and with Conflict
// when stock is short; stock is never left negative.
func (s *ProductCommandService) ReduceStock(ctx context.Context, cmd cqrs.ReduceStockCommand) (*models.Product, error) {
	p, err := s.store.ReduceStock(ctx, cmd.ProductID, cmd.Quantity, s.now())
	if err != nil {
		return nil, err
	}
	s.cache.CacheProduct(ctx, p)
	return p, nil
}
