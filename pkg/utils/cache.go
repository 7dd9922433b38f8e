package utils

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bookstore/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// GetCachedData returns the cached value under key. A nil client, a miss
// or an undecodable entry all report false.
func GetCachedData[K any](ctx context.Context, cache *redis.Client, logger zerolog.Logger, key string) (*K, bool) {
	if cache == nil {
		return nil, false
	}
	data, err := cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var obj K
	if err := json.Unmarshal(data, &obj); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("error unpacking cache data")
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return &obj, true
}

var errStaleGeneration = errors.New("cache generation changed")

// CacheGeneration reads the counter under genKey that InvalidateGeneration
// bumps. A missing counter is generation 0. ok is false when the counter
// cannot be read, and the caller must then skip caching.
func CacheGeneration(ctx context.Context, cache *redis.Client, logger zerolog.Logger, genKey string) (int64, bool) {
	if cache == nil {
		return 0, false
	}
	gen, err := cache.Get(ctx, genKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		logger.Warn().Err(err).Str("key", genKey).Msg("cache generation read failed")
		return 0, false
	}
	return gen, true
}

// SetCachedData stores value under key only while genKey still holds gen.
// It reports whether the value was written.
func SetCachedData[K any](ctx context.Context, cache *redis.Client, logger zerolog.Logger, genKey string, gen int64, key string, value K, ttl time.Duration) bool {
	if cache == nil {
		return false
	}
	bytes, err := json.Marshal(value)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("error packing cache data")
		return false
	}

	err = cache.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, bytes, ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
		return true
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		logger.Debug().Str("key", key).Int64("generation", gen).Msg("cache write skipped, data changed")
	default:
		logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return false
}

// InvalidateGeneration bumps genKey and deletes keys in one transaction, so
// readers that computed a value before the bump cannot write it back.
func InvalidateGeneration(ctx context.Context, cache *redis.Client, logger zerolog.Logger, genKey string, keys ...string) {
	if cache == nil {
		return
	}
	_, err := cache.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		if len(keys) > 0 {
			pipe.Del(ctx, keys...)
		}
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}
