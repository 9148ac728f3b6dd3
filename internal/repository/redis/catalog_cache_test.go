package redis

import (
	"alcyxob/workout-composer/internal/domain"
	"alcyxob/workout-composer/internal/logger"
	"alcyxob/workout-composer/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type countingCatalog struct {
	entries map[primitive.ObjectID]domain.Exercise
	calls   int
}

func (c *countingCatalog) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	c.calls++
	ex, ok := c.entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &ex, nil
}

func setup(t *testing.T) (*miniredis.Miniredis, *countingCatalog, repository.ExerciseCatalog, domain.Exercise) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ex := domain.Exercise{ID: primitive.NewObjectID(), Name: "Goblet squat", MetricType: domain.MetricRepetitions}
	backing := &countingCatalog{entries: map[primitive.ObjectID]domain.Exercise{ex.ID: ex}}
	return mr, backing, NewCatalogCache(logger.Nop(), rdb, backing, time.Minute), ex
}

func TestCatalogCacheReadsThrough(t *testing.T) {
	mr, backing, cache, ex := setup(t)
	ctx := context.Background()

	got, err := cache.GetByID(ctx, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, "Goblet squat", got.Name)
	assert.Equal(t, 1, backing.calls)
	assert.True(t, mr.Exists(cacheKey(ex.ID)))

	got, err = cache.GetByID(ctx, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, ex.ID, got.ID)
	assert.Equal(t, 1, backing.calls, "second lookup must be served from redis")
}

func TestCatalogCacheExpires(t *testing.T) {
	mr, backing, cache, ex := setup(t)
	ctx := context.Background()

	_, err := cache.GetByID(ctx, ex.ID)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	_, err = cache.GetByID(ctx, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, backing.calls)
}

func TestCatalogCacheDoesNotCacheMisses(t *testing.T) {
	mr, backing, cache, _ := setup(t)
	missing := primitive.NewObjectID()

	_, err := cache.GetByID(context.Background(), missing)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.False(t, mr.Exists(cacheKey(missing)))
	assert.Equal(t, 1, backing.calls)
}

func TestCatalogCacheFallsThroughWhenRedisIsDown(t *testing.T) {
	mr, backing, cache, ex := setup(t)
	mr.Close()

	got, err := cache.GetByID(context.Background(), ex.ID)
	require.NoError(t, err)
	assert.Equal(t, ex.Name, got.Name)
	assert.Equal(t, 1, backing.calls)
}

func TestCatalogCacheIgnoresCorruptEntries(t *testing.T) {
	mr, backing, cache, ex := setup(t)
	require.NoError(t, mr.Set(cacheKey(ex.ID), "{not json"))

	got, err := cache.GetByID(context.Background(), ex.ID)
	require.NoError(t, err)
	assert.Equal(t, ex.Name, got.Name)
	assert.Equal(t, 1, backing.calls)
}
