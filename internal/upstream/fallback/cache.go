// Package fallback provides the last-good-value cache that sits between the
// pollers/read paths and the upstream adapters. A fresh value is served
// within its TTL without refetching; after a failed fetch the prior value is
// served stale, however old it is. The only unrecoverable case is a failure
// before the first success.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kanopolanes/lakehub-backend/internal/pkg/metrics"
)

// ErrNoData means the upstream fetch failed and no prior value exists.
var ErrNoData = errors.New("no data available")

// Cache holds the last successful value for one upstream source.
// State: empty -> fresh -> stale-but-valid; a failed fetch never clears it.
type Cache[T any] struct {
	source string
	ttl    time.Duration
	log    *slog.Logger

	mu        sync.Mutex
	value     T
	populated bool
	expiresAt time.Time
}

func New[T any](source string, ttl time.Duration, log *slog.Logger) *Cache[T] {
	return &Cache[T]{source: source, ttl: ttl, log: log}
}

// GetOrFetch returns the cached value while fresh, otherwise calls fetch.
// On fetch failure it falls back to the existing value if one was ever
// stored (an explicit, logged fallback), or returns ErrNoData. The lock is
// held across fetch so concurrent callers do not stampede the upstream.
func (c *Cache[T]) GetOrFetch(ctx context.Context, fetch func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.populated && time.Now().Before(c.expiresAt) {
		return c.value, nil
	}

	v, err := fetch(ctx)
	if err != nil {
		if c.populated {
			c.log.Warn("returning stale cached data", "source", c.source, "error", err)
			metrics.StaleCacheServedTotal.WithLabelValues(c.source).Inc()
			return c.value, nil
		}
		var zero T
		return zero, fmt.Errorf("%s: %w: %v", c.source, ErrNoData, err)
	}

	c.value = v
	c.populated = true
	c.expiresAt = time.Now().Add(c.ttl)
	return v, nil
}

// Invalidate drops the freshness window but keeps the value for fallback.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expiresAt = time.Time{}
}
