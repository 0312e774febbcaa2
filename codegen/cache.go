package codegen

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cache memoizes compiled programs by configuration key.
//
// The cache has process lifetime and no eviction. Concurrent lookups
// of the same key are collapsed into a single build: late arrivals
// wait for the in-flight build instead of compiling again (a duplicate
// build would be correctness-neutral but wasteful).
type Cache struct {
	mu       sync.RWMutex
	programs map[string]*Program
	group    singleflight.Group
	logger   *zap.Logger
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithLogger sets the logger used to report program builds.
func WithLogger(l *zap.Logger) CacheOption {
	return func(c *Cache) { c.logger = l }
}

// NewCache returns an empty program cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		programs: make(map[string]*Program),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCache = NewCache()

// Default returns the shared process-wide program cache.
func Default() *Cache { return defaultCache }

// Lookup returns the program stored under key, building and storing it
// with build on a miss. build runs at most once per key, even under
// concurrent lookups.
func (c *Cache) Lookup(key string, build func() (*Program, error)) (*Program, error) {
	c.mu.RLock()
	p, ok := c.programs[key]
	c.mu.RUnlock()
	if ok {
		return p, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A finished build may have landed between the read lock and
		// the flight start.
		c.mu.RLock()
		p, ok := c.programs[key]
		c.mu.RUnlock()
		if ok {
			return p, nil
		}

		start := time.Now()
		p, err := build()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.programs[key] = p
		c.mu.Unlock()

		c.logger.Debug("compiled pair program",
			zap.String("key", key),
			zap.Int("instructions", len(p.instrs)),
			zap.Duration("elapsed", time.Since(start)))
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Program), nil
}

// Len reports the number of cached programs.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.programs)
}
