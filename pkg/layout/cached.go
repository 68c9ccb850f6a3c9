package layout

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dottex/pkg/cache"
	"github.com/matzehuels/dottex/pkg/observability"
)

const cacheKeyType = "layout"

// Cached stores the results of another positioner. Cache failures are
// logged and otherwise ignored: a broken cache slows layouts down but never
// fails them.
type Cached struct {
	inner  Positioner
	cache  cache.Cache
	ttl    time.Duration
	logger *log.Logger
}

// NewCached wraps inner. A nil logger discards cache warnings.
func NewCached(inner Positioner, c cache.Cache, ttl time.Duration, logger *log.Logger) *Cached {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Cached{inner: inner, cache: c, ttl: ttl, logger: logger}
}

// Name returns the wrapped positioner's name; cached and fresh results
// are interchangeable.
func (c *Cached) Name() string { return c.inner.Name() }

// Positions returns the cached positions for dot, computing and storing
// them on a miss. Errors are never cached, and the probe graph always
// reaches the inner positioner.
func (c *Cached) Positions(ctx context.Context, dot string) (Positions, error) {
	if dot == ProbeGraph {
		return c.inner.Positions(ctx, dot)
	}

	key := cache.LayoutKey(c.inner.Name(), dot)
	hooks := observability.Cache()

	data, hit, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("layout cache read failed", "err", err)
	}
	if hit {
		var pos Positions
		if err := json.Unmarshal(data, &pos); err == nil && pos != nil {
			hooks.OnCacheHit(ctx, cacheKeyType)
			return pos, nil
		}
		c.logger.Warn("discarding corrupt layout cache entry", "key", key)
	}
	hooks.OnCacheMiss(ctx, cacheKeyType)

	pos, err := c.inner.Positions(ctx, dot)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(pos)
	if err != nil {
		return pos, nil
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("layout cache write failed", "err", err)
		return pos, nil
	}
	hooks.OnCacheSet(ctx, cacheKeyType, len(data))
	c.logger.Debug("cached layout", "positioner", c.inner.Name(), "nodes", len(pos))
	return pos, nil
}

var _ Positioner = (*Cached)(nil)
