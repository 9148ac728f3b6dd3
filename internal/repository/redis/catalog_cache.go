// Package redis puts a read-through cache in front of the exercise catalog.
package redis

import (
	"alcyxob/workout-composer/internal/domain"
	"alcyxob/workout-composer/internal/logger"
	"alcyxob/workout-composer/internal/repository"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	keyPrefix  = "catalog:exercise:"
	defaultTTL = 10 * time.Minute
)

type catalogCache struct {
	log  *logger.Logger
	rdb  goredis.Cmdable
	next repository.ExerciseCatalog
	ttl  time.Duration
}

// NewCatalogCache wraps next. Cache failures are logged and fall through to next;
// only next decides whether an exercise exists.
func NewCatalogCache(log *logger.Logger, rdb goredis.Cmdable, next repository.ExerciseCatalog, ttl time.Duration) repository.ExerciseCatalog {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &catalogCache{
		log:  log.With("service", "CatalogCache"),
		rdb:  rdb,
		next: next,
		ttl:  ttl,
	}
}

// NewClient connects and pings.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func cacheKey(id primitive.ObjectID) string {
	return keyPrefix + id.Hex()
}

func (c *catalogCache) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	key := cacheKey(id)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var ex domain.Exercise
		jerr := json.Unmarshal(raw, &ex)
		if jerr == nil {
			return &ex, nil
		}
		c.log.Warn("discarding corrupt catalog entry", "key", key, "error", jerr)
	case errors.Is(err, goredis.Nil):
	default:
		c.log.Warn("catalog cache read failed", "key", key, "error", err)
	}

	ex, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(ex); err == nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.log.Warn("catalog cache write failed", "key", key, "error", err)
		}
	}
	return ex, nil
}
