package permission_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoAbsensi/GoAbsensi/internal/permission"
)

func newTestCache(store *fakeStore, ttl time.Duration) (*permission.MemoryCache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 5, 7, 0, 0, 0, time.UTC)}
	cache := permission.NewMemoryCache(permission.NewResolver(store), ttl, permission.WithClock(clock.Now))

	return cache, clock
}

func TestMemoryCache_TTL(t *testing.T) {
	ctx := context.Background()
	store := guruStore()
	cache, clock := newTestCache(store, time.Minute)

	_, err := cache.Get(ctx, userGuru)
	require.NoError(t, err)
	assert.Equal(t, 1, store.resolutions())

	clock.Advance(time.Minute - time.Second)

	_, err = cache.Get(ctx, userGuru)
	require.NoError(t, err)
	assert.Equal(t, 1, store.resolutions(), "fresh entry must be served from cache")

	clock.Advance(2 * time.Second)

	_, err = cache.Get(ctx, userGuru)
	require.NoError(t, err)
	assert.Equal(t, 2, store.resolutions(), "expired entry must be recomputed")
}

func TestMemoryCache_ExpiredEntryReflectsStore(t *testing.T) {
	ctx := context.Background()
	store := guruStore()
	cache, clock := newTestCache(store, time.Minute)

	set, err := cache.Get(ctx, userGuru)
	require.NoError(t, err)
	assert.True(t, set.Can("izin", "read"))

	store.mu.Lock()
	store.overrides[userGuru] = []permission.Override{permission.NewOverride("izin", "read", false)}
	store.mu.Unlock()

	set, err = cache.Get(ctx, userGuru)
	require.NoError(t, err)
	assert.True(t, set.Can("izin", "read"), "within the TTL the old set is still served")

	clock.Advance(time.Minute)

	set, err = cache.Get(ctx, userGuru)
	require.NoError(t, err)
	assert.False(t, set.Can("izin", "read"))
}

func TestMemoryCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	store := guruStore()
	cache, _ := newTestCache(store, time.Minute)

	_, err := cache.Get(ctx, userGuru)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	require.NoError(t, cache.Invalidate(ctx, userGuru, userNobody))
	assert.Equal(t, 0, cache.Len())

	_, err = cache.Get(ctx, userGuru)
	require.NoError(t, err)
	assert.Equal(t, 2, store.resolutions())
}

func TestMemoryCache_ErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	store := guruStore()
	store.fail = true
	cache, _ := newTestCache(store, time.Minute)

	_, err := cache.Get(ctx, userGuru)
	require.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, 0, cache.Len())

	store.mu.Lock()
	store.fail = false
	store.mu.Unlock()

	set, err := cache.Get(ctx, userGuru)
	require.NoError(t, err)
	assert.True(t, set.Can("izin", "create"))
}

func TestMemoryCache_ConcurrentGet(t *testing.T) {
	ctx := context.Background()
	store := guruStore()
	cache, _ := newTestCache(store, time.Minute)

	var wg sync.WaitGroup

	for range 32 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			set, err := cache.Get(ctx, userGuru)
			assert.NoError(t, err)
			assert.True(t, set.Can("izin", "read"))
		}()
	}

	wg.Wait()

	assert.LessOrEqual(t, store.resolutions(), 32)
	assert.Equal(t, 1, cache.Len())
}

func TestMemoryCache_DefaultTTL(t *testing.T) {
	ctx := context.Background()
	store := guruStore()
	cache, clock := newTestCache(store, 0)

	_, err := cache.Get(ctx, userGuru)
	require.NoError(t, err)

	clock.Advance(permission.DefaultCacheTTL - time.Millisecond)

	_, err = cache.Get(ctx, userGuru)
	require.NoError(t, err)
	assert.Equal(t, 1, store.resolutions())
}

// gatedResolver blocks until release is closed and remembers the context it last ran under.
type gatedResolver struct {
	set     permission.Set
	started chan struct{}
	release chan struct{}
	once    sync.Once

	mu  sync.Mutex
	ctx context.Context //nolint:containedctx
}

func newGatedResolver(set permission.Set) *gatedResolver {
	return &gatedResolver{set: set, started: make(chan struct{}), release: make(chan struct{})}
}

func (r *gatedResolver) Resolve(ctx context.Context, _ uint64) (permission.Set, error) {
	r.mu.Lock()
	r.ctx = ctx
	r.mu.Unlock()

	r.once.Do(func() { close(r.started) })

	select {
	case <-r.release:
		return r.set, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *gatedResolver) lastContext() context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.ctx
}

func TestMemoryCache_CancelledCallerDoesNotFailSharedLookup(t *testing.T) {
	resolver := newGatedResolver(permission.NewSet(permission.NewKey("izin", "read")))
	cache := permission.NewMemoryCache(resolver, time.Minute)

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)

	go func() {
		_, err := cache.Get(first, userGuru)
		firstErr <- err
	}()

	<-resolver.started
	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)
	require.NoError(t, resolver.lastContext().Err())

	type result struct {
		set permission.Set
		err error
	}

	second := make(chan result, 1)

	go func() {
		set, err := cache.Get(context.Background(), userGuru)
		second <- result{set: set, err: err}
	}()

	close(resolver.release)

	got := <-second
	require.NoError(t, got.err)
	assert.True(t, got.set.Can("izin", "read"))
	assert.Equal(t, 1, cache.Len())
}

// hookResolver runs before ahead of every resolve.
type hookResolver struct {
	inner  permission.SetResolver
	before func()
}

func (r *hookResolver) Resolve(ctx context.Context, userID uint64) (permission.Set, error) {
	if r.before != nil {
		r.before()
	}

	return r.inner.Resolve(ctx, userID)
}

func TestMemoryCache_InvalidationDuringResolveIsNotOverwritten(t *testing.T) {
	ctx := context.Background()
	store := guruStore()
	resolver := &hookResolver{inner: permission.NewResolver(store)}
	cache := permission.NewMemoryCache(resolver, time.Minute)

	resolver.before = func() { require.NoError(t, cache.Invalidate(ctx, userGuru)) }

	_, err := cache.Get(ctx, userGuru)
	require.NoError(t, err)
	assert.Zero(t, cache.Len())

	resolver.before = nil

	_, err = cache.Get(ctx, userGuru)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())
}
