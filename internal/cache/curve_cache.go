// Package cache keeps recent curve snapshots in redis in front of the indexer.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"curve-trade-sim-go/internal/config"
	"curve-trade-sim-go/internal/models"
	"curve-trade-sim-go/internal/subgraph"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient connects to redis and checks the connection.
func NewRedisClient(cfg *config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// CurveCache serves curve snapshots from redis and falls back to its source.
// Redis failures are logged and never surface to callers.
type CurveCache struct {
	source subgraph.CurveSource
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

var _ subgraph.CurveSource = (*CurveCache)(nil)

// NewCurveCache wraps source with a redis cache whose entries live for ttl.
func NewCurveCache(source subgraph.CurveSource, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CurveCache {
	return &CurveCache{
		source: source,
		redis:  client,
		ttl:    ttl,
		logger: logger.Named("curve-cache"),
	}
}

func curvesKey(first int) string {
	return "curves:" + strconv.Itoa(first)
}

func curveKey(id string) string {
	return "curve:" + strings.ToLower(id)
}

// FetchCurves returns the newest curves, from cache when fresh.
func (c *CurveCache) FetchCurves(ctx context.Context, first int) ([]models.Curve, error) {
	var curves []models.Curve
	if c.get(ctx, curvesKey(first), &curves) {
		return curves, nil
	}
	return c.Refresh(ctx, first)
}

// FetchCurveByID returns one curve, from cache when fresh. Unknown curves are not cached.
func (c *CurveCache) FetchCurveByID(ctx context.Context, id string) (*models.Curve, error) {
	var curve models.Curve
	if c.get(ctx, curveKey(id), &curve) {
		return &curve, nil
	}

	fetched, err := c.source.FetchCurveByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fetched != nil {
		c.set(ctx, curveKey(id), fetched)
	}
	return fetched, nil
}

// Refresh fetches the newest curves from the source and overwrites the cache,
// including the per-curve entries.
func (c *CurveCache) Refresh(ctx context.Context, first int) ([]models.Curve, error) {
	curves, err := c.source.FetchCurves(ctx, first)
	if err != nil {
		return nil, err
	}
	c.set(ctx, curvesKey(first), curves)
	for i := range curves {
		c.set(ctx, curveKey(curves[i].ID), &curves[i])
	}
	return curves, nil
}

func (c *CurveCache) get(ctx context.Context, key string, out interface{}) bool {
	raw, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *CurveCache) set(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Error("Failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
