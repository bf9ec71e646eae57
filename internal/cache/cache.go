// Package cache implements the read-through cache for derived cell data.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mohammed-shakir/meshcode/internal/core/observability"
	"github.com/mohammed-shakir/meshcode/internal/logger"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

const (
	TierLRU   = "lru"
	TierRedis = "redis"
)

type Options struct {
	TTL       time.Duration
	OpTimeout time.Duration
}

// Tiered looks up the in-process front store first and the optional shared
// back store second. Back store failures degrade to a recompute.
type Tiered struct {
	front Store
	back  Store
	opts  Options
	log   *slog.Logger
}

func NewTiered(front, back Store, opts Options, log *slog.Logger) (*Tiered, error) {
	if front == nil {
		return nil, errors.New("cache: front store is required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = 250 * time.Millisecond
	}
	return &Tiered{front: front, back: back, opts: opts, log: log}, nil
}

// GetOrCompute returns the cached value for key, calling compute and storing
// its result on a miss. Errors from compute are returned as is.
func (t *Tiered) GetOrCompute(ctx context.Context, key string, compute func(context.Context) ([]byte, error)) ([]byte, error) {
	if v, ok, err := t.front.Get(ctx, key); err == nil && ok {
		observability.IncCacheHit(TierLRU)
		return v, nil
	}
	observability.IncCacheMiss(TierLRU)

	if t.back != nil {
		opCtx, cancel := context.WithTimeout(ctx, t.opts.OpTimeout)
		v, ok, err := t.back.Get(opCtx, key)
		cancel()
		switch {
		case err != nil:
			t.log.WarnContext(logger.WithCacheTier(ctx, TierRedis), "cache get failed", "key", key, "err", err)
		case ok:
			observability.IncCacheHit(TierRedis)
			_ = t.front.Set(ctx, key, v, t.opts.TTL)
			return v, nil
		default:
			observability.IncCacheMiss(TierRedis)
		}
	}

	v, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	_ = t.front.Set(ctx, key, v, t.opts.TTL)
	if t.back != nil {
		opCtx, cancel := context.WithTimeout(ctx, t.opts.OpTimeout)
		if err := t.back.Set(opCtx, key, v, t.opts.TTL); err != nil {
			t.log.WarnContext(logger.WithCacheTier(ctx, TierRedis), "cache set failed", "key", key, "err", err)
		}
		cancel()
	}
	return v, nil
}

// Ping reports whether the shared store is reachable. Without one the cache
// is always ready.
func (t *Tiered) Ping(ctx context.Context) error {
	if t.back == nil {
		return nil
	}
	opCtx, cancel := context.WithTimeout(ctx, t.opts.OpTimeout)
	defer cancel()
	return t.back.Ping(opCtx)
}

func (t *Tiered) Close() error {
	err := t.front.Close()
	if t.back != nil {
		err = errors.Join(err, t.back.Close())
	}
	return err
}
