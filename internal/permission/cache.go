package permission

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is how long a resolved set is served before it is recomputed.
const DefaultCacheTTL = 60 * time.Second

// Cache serves effective permission sets, resolving on miss or expiry.
type Cache interface {
	// Get returns the effective set of userID. An expired entry is never returned.
	Get(ctx context.Context, userID uint64) (Set, error)
	// Invalidate drops the entries of the given users.
	Invalidate(ctx context.Context, userIDs ...uint64) error
}

type cacheEntry struct {
	set        Set
	computedAt time.Time
}

// MemoryCache is a process-local Cache with a fixed TTL.
type MemoryCache struct {
	resolver SetResolver
	ttl      time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	entries map[uint64]cacheEntry
	// generation is bumped on every invalidation so a resolve that started
	// before the invalidation cannot store its result afterwards.
	generation map[uint64]uint64

	group singleflight.Group
}

// MemoryCacheOption configures a MemoryCache.
type MemoryCacheOption func(*MemoryCache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) MemoryCacheOption {
	return func(c *MemoryCache) {
		c.now = now
	}
}

// NewMemoryCache creates a cache in front of resolver. A non-positive ttl selects DefaultCacheTTL.
func NewMemoryCache(resolver SetResolver, ttl time.Duration, opts ...MemoryCacheOption) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	c := &MemoryCache{
		resolver:   resolver,
		ttl:        ttl,
		now:        time.Now,
		entries:    make(map[uint64]cacheEntry),
		generation: make(map[uint64]uint64),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get implements Cache.
func (c *MemoryCache) Get(ctx context.Context, userID uint64) (Set, error) {
	c.mu.RLock()
	entry, ok := c.entries[userID]
	gen := c.generation[userID]
	c.mu.RUnlock()

	if ok && c.now().Sub(entry.computedAt) < c.ttl {
		cacheLookups.WithLabelValues("memory", "hit").Inc()
		return entry.set, nil
	}

	cacheLookups.WithLabelValues("memory", "miss").Inc()

	// Shared by every caller waiting on userID; only the caller itself observes its cancellation.
	resolveCtx := context.WithoutCancel(ctx)

	ch := c.group.DoChan(strconv.FormatUint(userID, 10), func() (interface{}, error) {
		set, err := c.resolver.Resolve(resolveCtx, userID)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.generation[userID] == gen {
			c.entries[userID] = cacheEntry{set: set, computedAt: c.now()}
		}
		c.mu.Unlock()

		return set, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		return res.Val.(Set), nil //nolint:forcetypeassert
	}
}

// Invalidate implements Cache.
func (c *MemoryCache) Invalidate(_ context.Context, userIDs ...uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range userIDs {
		delete(c.entries, id)
		c.generation[id]++
		c.group.Forget(strconv.FormatUint(id, 10))
	}

	return nil
}

// Len returns the number of cached entries, fresh or stale.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
