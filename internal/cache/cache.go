// Package cache keeps computed aggregate views in Redis between requests.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bluewave-swim/backoffice/backend/internal/aggregate"
)

// AggregateCache stores aggregate results per (season, activity). Entries of
// a season are invalidated together by bumping the season's generation, so
// no key scan is needed.
type AggregateCache struct {
	rdb     *redis.Client
	ttl     time.Duration
	timeout time.Duration
}

func NewAggregateCache(rdb *redis.Client, ttl, timeout time.Duration) *AggregateCache {
	return &AggregateCache{rdb: rdb, ttl: ttl, timeout: timeout}
}

func (c *AggregateCache) Enabled() bool {
	return c != nil && c.rdb != nil && c.ttl > 0
}

func generationKey(season string) string {
	return fmt.Sprintf("aggregate:gen:%s", season)
}

func resultKey(season string, activityID int64, generation int64) string {
	return fmt.Sprintf("aggregate:%s:%d:%d", season, activityID, generation)
}

func (c *AggregateCache) generation(ctx context.Context, season string) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey(season)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get returns the cached result, or nil on a miss.
func (c *AggregateCache) Get(ctx context.Context, season string, activityID int64) (*aggregate.Result, error) {
	if !c.Enabled() {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	gen, err := c.generation(ctx, season)
	if err != nil {
		return nil, err
	}

	data, err := c.rdb.Get(ctx, resultKey(season, activityID, gen)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	res := &aggregate.Result{}
	if err := json.Unmarshal(data, res); err != nil {
		return nil, fmt.Errorf("decode cached aggregate: %w", err)
	}
	return res, nil
}

func (c *AggregateCache) Set(ctx context.Context, season string, activityID int64, res *aggregate.Result) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	gen, err := c.generation(ctx, season)
	if err != nil {
		return err
	}

	data, err := json.Marshal(res)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, resultKey(season, activityID, gen), data, c.ttl).Err()
}

// Invalidate drops every cached aggregate of the season.
func (c *AggregateCache) Invalidate(ctx context.Context, season string) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.rdb.Incr(ctx, generationKey(season)).Err()
}
