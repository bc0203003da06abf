package repository

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
	sharedredis "github.com/Nirob844/mini-e-commerce-microservices/shared/redis"
)

const userViewKeyPrefix = "user:view"

// UserReadRepository serves user views from Redis, falling back to
// PostgreSQL on a miss.
type UserReadRepository struct {
	write *UserWriteRepository
	cache *sharedredis.ViewCache[models.UserView]
}

// NewUserReadRepository works without Redis when redisClient is nil.
func NewUserReadRepository(write *UserWriteRepository, redisClient *goredis.Client, log zerolog.Logger) *UserReadRepository {
	return &UserReadRepository{
		write: write,
		cache: sharedredis.NewViewCache[models.UserView](redisClient, userViewKeyPrefix, 0, log),
	}
}

// GetByID returns a UserView from Redis first, then PostgreSQL.
func (r *UserReadRepository) GetByID(ctx context.Context, id string) (*models.UserView, error) {
	if view, ok := r.cache.Get(ctx, id); ok {
		return view, nil
	}
	user, err := r.write.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := user.View()
	r.CacheUserView(ctx, view)
	return view, nil
}

func (r *UserReadRepository) List(ctx context.Context, skip, take int) ([]*models.UserView, int, error) {
	users, total, err := r.write.List(ctx, skip, take)
	if err != nil {
		return nil, 0, err
	}
	views := make([]*models.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, u.View())
	}
	return views, total, nil
}

// CacheUserView stores or refreshes the read model after a mutation.
func (r *UserReadRepository) CacheUserView(ctx context.Context, view *models.UserView) {
	r.cache.Set(ctx, view.ID, view)
}

func (r *UserReadRepository) InvalidateUserView(ctx context.Context, userID string) {
	r.cache.Delete(ctx, userID)
}
