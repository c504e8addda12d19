package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"drone-route-service/internal/platform/obs"

	redis "github.com/redis/go-redis/v9"
)

// RedisDistanceCache keeps one hash per origin ("distance:<origin>") whose
// fields are destination keys and values are metres.
type RedisDistanceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisDistanceCache wraps rdb; a ttl of zero keeps entries forever.
func NewRedisDistanceCache(rdb *redis.Client, ttl time.Duration) *RedisDistanceCache {
	return &RedisDistanceCache{rdb: rdb, ttl: ttl}
}

// NewRedisDistanceCacheFromURL parses a redis:// URL.
func NewRedisDistanceCacheFromURL(url string, ttl time.Duration) (*RedisDistanceCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis distance cache: parse url: %w", err)
	}
	return NewRedisDistanceCache(redis.NewClient(opt), ttl), nil
}

func (c *RedisDistanceCache) key(origin string) string { return "distance:" + origin }

func (c *RedisDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]float64, err error) {
	defer obs.Time(ctx, "distance.cache.redis.GetMany")(&err)

	if c.rdb == nil {
		return nil, errors.New("distance cache: redis client is nil")
	}
	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]float64{}, nil
	}

	vals, err := c.rdb.HMGet(ctx, c.key(origin), uniq...).Result()
	if err != nil {
		return nil, fmt.Errorf("get distance cache: hmget: %w", err)
	}

	out := make(map[string]float64, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		meters, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("get distance cache: dest=%q: %w", uniq[i], err)
		}
		out[uniq[i]] = meters
	}
	return out, nil
}

func (c *RedisDistanceCache) PutMany(ctx context.Context, origin string, results map[string]float64) (err error) {
	defer obs.Time(ctx, "distance.cache.redis.PutMany")(&err)

	if c.rdb == nil {
		return errors.New("distance cache: redis client is nil")
	}
	if origin == "" {
		return errors.New("insert distance cache: origin must not be empty")
	}
	if len(results) == 0 {
		return nil
	}

	fields := make([]any, 0, 2*len(results))
	for dest, meters := range results {
		if dest == "" {
			return fmt.Errorf("insert distance cache: empty destination key")
		}
		fields = append(fields, dest, strconv.FormatFloat(meters, 'g', -1, 64))
	}

	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, c.key(origin), fields...)
	if c.ttl > 0 {
		pipe.Expire(ctx, c.key(origin), c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert distance cache: %w", err)
	}
	return nil
}

func (c *RedisDistanceCache) Close() error { return c.rdb.Close() }
