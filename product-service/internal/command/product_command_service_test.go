package command

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/apperr"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/cqrs"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
)

// memStore mirrors the conditional UPDATE used by the Postgres repository.
type memStore struct {
	mu       sync.Mutex
	products map[string]models.Product
}

func (m *memStore) Create(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = *p
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, apperr.NotFound("Product", id)
	}
	return &p, nil
}

func (m *memStore) Update(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return apperr.NotFound("Product", p.ID)
	}
	m.products[p.ID] = *p
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return apperr.NotFound("Product", id)
	}
	delete(m.products, id)
	return nil
}

func (m *memStore) ReduceStock(_ context.Context, id string, quantity int, at time.Time) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, apperr.NotFound("Product", id)
	}
	if p.Stock < quantity {
		return nil, apperr.ConflictCode("INSUFFICIENT_STOCK", "Insufficient stock")
	}
	p.Stock -= quantity
	p.UpdatedAt = at
	m.products[id] = p
	return &p, nil
}

type nopCache struct {
	mu     sync.Mutex
	cached map[string]models.Product
}

func (c *nopCache) CacheProduct(_ context.Context, p *models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached[p.ID] = *p
}

func (c *nopCache) InvalidateProduct(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cached, id)
}

func newService() (*ProductCommandService, *memStore, *nopCache) {
	store := &memStore{products: make(map[string]models.Product)}
	cache := &nopCache{cached: make(map[string]models.Product)}
	return NewProductCommandService(store, cache), store, cache
}

func TestReduceStockNeverOversells(t *testing.T) {
	s, store, cache := newService()
	ctx := context.Background()
	p, err := s.CreateProduct(ctx, cqrs.CreateProductCommand{Name: "Mug", Price: 5, Stock: 10})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var ok, short int
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ReduceStock(ctx, cqrs.ReduceStockCommand{ProductID: p.ID, Quantity: 1})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if apperr.IsKind(err, apperr.KindConflict) {
				short++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 15, short)
	stored, err := store.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.Stock)
	assert.Zero(t, cache.cached[p.ID].Stock)
}

func TestReduceStockUnknownProduct(t *testing.T) {
	s, _, _ := newService()
	_, err := s.ReduceStock(context.Background(), cqrs.ReduceStockCommand{ProductID: "prd-404", Quantity: 1})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	s, _, cache := newService()
	ctx := context.Background()
	p, err := s.CreateProduct(ctx, cqrs.CreateProductCommand{Name: "Mug", Price: 5, Stock: 1})
	require.NoError(t, err)

	price := 7.5
	updated, err := s.UpdateProduct(ctx, cqrs.UpdateProductCommand{ProductID: p.ID, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 7.5, updated.Price)
	assert.Equal(t, "Mug", updated.Name)

	require.NoError(t, s.DeleteProduct(ctx, cqrs.DeleteProductCommand{ProductID: p.ID}))
	assert.NotContains(t, cache.cached, p.ID)

	err = s.DeleteProduct(ctx, cqrs.DeleteProductCommand{ProductID: p.ID})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
