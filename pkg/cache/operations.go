package cache

import (
	"context"
	"encoding/json"
	"time"

	"campus-sublets/pkg/logger"
	"campus-sublets/pkg/metrics"
)

func observe(operation string, start time.Time, err error) {
	metrics.RedisOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil && !IsMiss(err) {
		metrics.RedisErrorsTotal.WithLabelValues(operation).Inc()
	}
}

// store a value in the cache with the given key and expiration time.
func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("set_marshal").Inc()
		logger.GlobalLogger.Errorf("failed to marshal value for key %s: %v", key, err)
		return NewCacheError("marshal", err, false)
	}
	start := time.Now()
	err = RedisClient.Set(ctx, key, data, expiration).Err()
	observe("set", start, err)
	if err != nil {
		logger.GlobalLogger.Errorf("failed to set key %s: %v", key, err)
		return NewCacheError("set", err, true)
	}
	return nil
}

// SetTracked stores a value and records its key in setKey so the whole
// group can be invalidated at once.
func SetTracked(ctx context.Context, key, setKey string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("set_marshal").Inc()
		return NewCacheError("marshal", err, false)
	}
	start := time.Now()
	err = setTrackedScript.Run(ctx, RedisClient, []string{key, setKey}, data, int(expiration.Seconds())).Err()
	observe("set_tracked", start, err)
	if err != nil {
		logger.GlobalLogger.Errorf("failed to set tracked key %s in %s: %v", key, setKey, err)
		return NewCacheError("set_tracked", err, true)
	}
	return nil
}

// retrieve a value from the cache and unmarshal it into the provided destination.
// A missing key yields a CacheError wrapping redis.Nil; check with IsMiss.
func Get(ctx context.Context, key string, dest interface{}) error {
	start := time.Now()
	val, err := RedisClient.Get(ctx, key).Result()
	observe("get", start, err)
	if err != nil {
		if !IsMiss(err) {
			logger.GlobalLogger.Errorf("failed to get key %s: %v", key, err)
		}
		return NewCacheError("get", err, !IsMiss(err))
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("get_unmarshal").Inc()
		logger.GlobalLogger.Errorf("failed to unmarshal value for key %s: %v", key, err)
		return NewCacheError("unmarshal", err, false)
	}
	return nil
}

// remove keys from the cache.
func Delete(ctx context.Context, keys ...string) error {
	start := time.Now()
	err := RedisClient.Del(ctx, keys...).Err()
	observe("delete", start, err)
	if err != nil {
		logger.GlobalLogger.Errorf("failed to delete keys %v: %v", keys, err)
		return NewCacheError("delete", err, true)
	}
	return nil
}

// check if a key exists in the cache.
func Exists(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	count, err := RedisClient.Exists(ctx, key).Result()
	observe("exists", start, err)
	if err != nil {
		logger.GlobalLogger.Errorf("failed to check existence of key %s: %v", key, err)
		return false, NewCacheError("exists", err, true)
	}
	return count > 0, nil
}

// InvalidateSet deletes every key tracked in setKey and returns how many were removed.
func InvalidateSet(ctx context.Context, setKey string) (int64, error) {
	start := time.Now()
	removed, err := invalidateSetScript.Run(ctx, RedisClient, []string{setKey}).Int64()
	observe("invalidate_set", start, err)
	if err != nil {
		logger.GlobalLogger.Errorf("failed to invalidate cache keys in %s: %v", setKey, err)
		return 0, NewCacheError("invalidate_set", err, true)
	}
	return removed, nil
}
