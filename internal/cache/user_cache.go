// Package cache holds read-through Redis caches in front of the relational repositories.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	userDomain "github.com/shareit-app/shareit/internal/domain/user"
	"github.com/shareit-app/shareit/internal/metrics"
	"go.uber.org/zap"
)

type cachedUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserRepository caches user lookups by id in Redis and delegates everything else.
// Writes go to the wrapped repository first and then evict the cached entry.
// Redis failures never fail a call: the wrapped repository answers instead.
type UserRepository struct {
	next   userDomain.Repository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewUserRepository wraps next with a Redis cache.
func NewUserRepository(next userDomain.Repository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *UserRepository {
	return &UserRepository{next: next, client: client, ttl: ttl, logger: logger}
}

// NewRedisClient creates a Redis client.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Ping checks the connection to Redis.
func Ping(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

func userKey(id int64) string {
	return fmt.Sprintf("shareit:user:%d", id)
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*userDomain.User, error) {
	val, err := r.client.Get(ctx, userKey(id)).Bytes()
	switch {
	case err == nil:
		var cu cachedUser
		if jsonErr := json.Unmarshal(val, &cu); jsonErr == nil {
			metrics.IncCacheLookup("hit")
			return userDomain.Reconstruct(cu.ID, cu.Name, cu.Email), nil
		}
		metrics.IncCacheLookup("error")
	case errors.Is(err, redis.Nil):
		metrics.IncCacheLookup("miss")
	default:
		metrics.IncCacheLookup("error")
		r.logger.Warn("user cache read failed", zap.Int64("user_id", id), zap.Error(err))
	}

	u, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, u)
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*userDomain.User, error) {
	return r.next.List(ctx)
}

func (r *UserRepository) Save(ctx context.Context, u *userDomain.User) (*userDomain.User, error) {
	return r.next.Save(ctx, u)
}

func (r *UserRepository) Update(ctx context.Context, u *userDomain.User) error {
	if err := r.next.Update(ctx, u); err != nil {
		return err
	}
	r.evict(ctx, u.ID())
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *UserRepository) store(ctx context.Context, u *userDomain.User) {
	data, err := json.Marshal(cachedUser{ID: u.ID(), Name: u.Name(), Email: u.Email()})
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, userKey(u.ID()), data, r.ttl).Err(); err != nil {
		r.logger.Warn("user cache write failed", zap.Int64("user_id", u.ID()), zap.Error(err))
	}
}

func (r *UserRepository) evict(ctx context.Context, id int64) {
	if err := r.client.Del(ctx, userKey(id)).Err(); err != nil {
		r.logger.Warn("user cache eviction failed", zap.Int64("user_id", id), zap.Error(err))
	}
}
