package repository

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
	sharedredis "github.com/Nirob844/mini-e-commerce-microservices/shared/redis"
)

const (
	productViewKeyPrefix = "product:view"
	// Stock moves often; a bounded TTL caps drift between replicas.
	productViewTTL = 10 * time.Minute
)

// ProductReadRepository treats Redis as the primary read store and falls
// back to PostgreSQL, warming the cache on every cold read.
type ProductReadRepository struct {
	write *ProductWriteRepository
	cache *sharedredis.ViewCache[models.Product]
}

func NewProductReadRepository(write *ProductWriteRepository, redisClient *goredis.Client, log zerolog.Logger) *ProductReadRepository {
	return &ProductReadRepository{
		write: write,
		cache: sharedredis.NewViewCache[models.Product](redisClient, productViewKeyPrefix, productViewTTL, log),
	}
}

func (r *ProductReadRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if p, ok := r.cache.Get(ctx, id); ok {
		return p, nil
	}
	p, err := r.write.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.CacheProduct(ctx, p)
	return p, nil
}

// List always reads PostgreSQL; pages are not cached.
func (r *ProductReadRepository) List(ctx context.Context, skip, take int) ([]*models.Product, int, error) {
	return r.write.List(ctx, skip, take)
}

func (r *ProductReadRepository) CacheProduct(ctx context.Context, p *models.Product) {
	r.cache.Set(ctx, p.ID, p)
}

func (r *ProductReadRepository) InvalidateProduct(ctx context.Context, id string) {
	r.cache.Delete(ctx, id)
}
