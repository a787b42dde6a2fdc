package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shareit-app/shareit/internal/domain"
	userDomain "github.com/shareit-app/shareit/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingRepo struct {
	users map[int64]*userDomain.User
	finds int
}

func (r *countingRepo) FindByID(_ context.Context, id int64) (*userDomain.User, error) {
	r.finds++
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("User", id)
	}
	return u, nil
}

func (r *countingRepo) List(context.Context) ([]*userDomain.User, error) { return nil, nil }

func (r *countingRepo) Save(_ context.Context, u *userDomain.User) (*userDomain.User, error) {
	saved := u.WithID(int64(len(r.users) + 1))
	r.users[saved.ID()] = saved
	return saved, nil
}

func (r *countingRepo) Update(_ context.Context, u *userDomain.User) error {
	r.users[u.ID()] = u
	return nil
}

func (r *countingRepo) Delete(_ context.Context, id int64) error {
	delete(r.users, id)
	return nil
}

func TestUserRepository(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	next := &countingRepo{users: map[int64]*userDomain.User{
		1: userDomain.Reconstruct(1, "Ann", "ann@example.com"),
	}}
	repo := NewUserRepository(next, client, time.Minute, zap.NewNop())
	ctx := context.Background()

	t.Run("ReadThrough", func(t *testing.T) {
		u, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Ann", u.Name())

		u, err = repo.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "ann@example.com", u.Email())
		assert.Equal(t, 1, next.finds)
		assert.True(t, s.Exists(userKey(1)))
	})

	t.Run("UpdateEvicts", func(t *testing.T) {
		require.NoError(t, repo.Update(ctx, userDomain.Reconstruct(1, "Anna", "ann@example.com")))
		assert.False(t, s.Exists(userKey(1)))

		u, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Anna", u.Name())
	})

	t.Run("NotFoundIsNotCached", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 42)
		assert.True(t, domain.IsKind(err, domain.KindNotFound))
		assert.False(t, s.Exists(userKey(42)))
	})

	t.Run("DeleteEvicts", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, 1))
		_, err = repo.FindByID(ctx, 1)
		assert.True(t, domain.IsKind(err, domain.KindNotFound))
	})

	t.Run("TTL", func(t *testing.T) {
		saved, err := repo.Save(ctx, userDomain.Reconstruct(0, "Bob", "bob@example.com"))
		require.NoError(t, err)
		_, err = repo.FindByID(ctx, saved.ID())
		require.NoError(t, err)
		s.FastForward(2 * time.Minute)
		assert.False(t, s.Exists(userKey(saved.ID())))
	})
}

func TestUserRepository_RedisDown(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: s.Addr(), MaxRetries: -1})
	defer client.Close()
	s.Close()

	next := &countingRepo{users: map[int64]*userDomain.User{
		1: userDomain.Reconstruct(1, "Ann", "ann@example.com"),
	}}
	repo := NewUserRepository(next, client, time.Minute, zap.NewNop())

	u, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.Name())
	require.NoError(t, repo.Update(context.Background(), u))
}
