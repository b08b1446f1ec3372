package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/cj-tomlin/skate-project/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultTTL = 5 * time.Minute

// Accessor is a read-through, write-invalidate helper over a Store.
// A nil Accessor or one without a Store passes every call straight to the loader.
//
// generation is bumped by every Invalidate. A load that overlaps an
// invalidation does not leave its result in the store.
type Accessor struct {
	store      Store
	ttl        time.Duration
	log        *zap.Logger
	generation atomic.Uint64
}

func NewAccessor(store Store, ttl time.Duration, log *zap.Logger) *Accessor {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Accessor{store: store, ttl: ttl, log: log}
}

func (a *Accessor) enabled() bool {
	return a != nil && a.store != nil
}

// GetOrLoad returns the cached value for key, or calls load and caches its result.
// Backend failures are logged and fall through to load; loader errors are never cached.
func GetOrLoad[T any](ctx context.Context, a *Accessor, key string, load func(context.Context) (T, error)) (T, error) {
	if !a.enabled() {
		return load(ctx)
	}

	raw, err := a.store.Get(ctx, key)
	switch {
	case err == nil:
		var v T
		jsonErr := json.Unmarshal(raw, &v)
		if jsonErr == nil {
			requestsTotal.WithLabelValues(resultHit).Inc()
			return v, nil
		}
		requestsTotal.WithLabelValues(resultError).Inc()
		a.log.Warn("cache decode failed", zap.String("key", key), zap.Error(jsonErr))
	case errors.Is(err, ErrMiss):
		requestsTotal.WithLabelValues(resultMiss).Inc()
	default:
		requestsTotal.WithLabelValues(resultError).Inc()
		a.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}

	gen := a.generation.Load()
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if a.generation.Load() != gen {
		return v, nil
	}

	payload, err := json.Marshal(v)
	if err != nil {
		a.log.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return v, nil
	}
	if err := a.store.Set(ctx, key, payload, a.ttl); err != nil {
		requestsTotal.WithLabelValues(resultError).Inc()
		a.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		return v, nil
	}
	// An Invalidate may have landed between the check above and Set.
	if a.generation.Load() != gen {
		if err := a.store.Delete(ctx, key); err != nil {
			a.log.Warn("cache invalidate failed", zap.String("key", key), zap.Error(err))
		}
	}
	return v, nil
}

// Invalidate removes keys. Failures are logged, never returned.
func (a *Accessor) Invalidate(ctx context.Context, keys ...string) {
	if !a.enabled() || len(keys) == 0 {
		return
	}
	a.generation.Add(1)
	if err := a.store.Delete(ctx, keys...); err != nil {
		requestsTotal.WithLabelValues(resultError).Inc()
		a.log.Warn("cache invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// FromConfig picks the backend named by CACHE_BACKEND. Redis falls back to the
// in-process store when no client is available; "none" disables caching.
func FromConfig(cfg config.Config, rdb *redis.Client, log *zap.Logger) *Accessor {
	switch cfg.CacheBackend {
	case "none":
		return NewAccessor(nil, cfg.CacheTTL, log)
	case "memory":
		return NewAccessor(NewMemoryStore(cfg.CacheTTL), cfg.CacheTTL, log)
	default:
		if rdb == nil {
			return NewAccessor(NewMemoryStore(cfg.CacheTTL), cfg.CacheTTL, log)
		}
		return NewAccessor(NewRedisStore(rdb), cfg.CacheTTL, log)
	}
}
