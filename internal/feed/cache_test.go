package feed

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nijal-AI/brest-mcp-server/internal/metrics"
)

func testRegistry(interval time.Duration) *Registry {
	return &Registry{feeds: map[string]*Feed{
		"parkings": {Key: "parkings", URL: "http://upstream/parkings", Kind: KindJSON, RefreshInterval: interval},
	}}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestCache(interval time.Duration, fetch FetchFunc) (*Cache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	c := NewCache(testRegistry(interval), fetch, time.Second, metrics.NewNoopMetrics())
	c.now = clock.Now
	return c, clock
}

func TestCacheFetchesOncePerInterval(t *testing.T) {
	var fetches atomic.Int32
	fetch := func(ctx context.Context, fd *Feed) (any, error) {
		fetches.Add(1)
		return "payload", nil
	}
	c, clock := newTestCache(30*time.Second, fetch)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		res, err := c.Get(ctx, "parkings")
		require.NoError(t, err)
		assert.Equal(t, "payload", res.Data)
		assert.False(t, res.Stale)
	}
	assert.Equal(t, int32(1), fetches.Load())

	clock.Advance(31 * time.Second)
	_, err := c.Get(ctx, "parkings")
	require.NoError(t, err)
	assert.Equal(t, int32(2), fetches.Load())
}

func TestCacheServesStaleOnFailure(t *testing.T) {
	var fail atomic.Bool
	fetch := func(ctx context.Context, fd *Feed) (any, error) {
		if fail.Load() {
			return nil, errors.New("connection refused")
		}
		return "good", nil
	}
	c, clock := newTestCache(30*time.Second, fetch)
	ctx := context.Background()

	res, err := c.Get(ctx, "parkings")
	require.NoError(t, err)
	first := res.FetchedAt

	fail.Store(true)
	clock.Advance(time.Minute)

	res, err = c.Get(ctx, "parkings")
	require.NoError(t, err)
	assert.Equal(t, "good", res.Data)
	assert.True(t, res.Stale)
	assert.Equal(t, first, res.FetchedAt)

	// Recovery replaces the stale payload.
	fail.Store(false)
	clock.Advance(time.Minute)
	res, err = c.Get(ctx, "parkings")
	require.NoError(t, err)
	assert.False(t, res.Stale)
	assert.True(t, res.FetchedAt.After(first))
}

func TestCacheFirstFetchFailure(t *testing.T) {
	fetch := func(ctx context.Context, fd *Feed) (any, error) {
		return nil, errors.New("boom")
	}
	c, _ := newTestCache(30*time.Second, fetch)

	_, err := c.Get(context.Background(), "parkings")
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)

	_, ok := c.Snapshot("parkings")
	assert.False(t, ok)
}

func TestCacheUnknownFeed(t *testing.T) {
	c, _ := newTestCache(30*time.Second, nil)
	_, err := c.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrFeedNotFound)
}

func TestCacheCollapsesConcurrentFetches(t *testing.T) {
	var fetches atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context, fd *Feed) (any, error) {
		fetches.Add(1)
		<-release
		return "payload", nil
	}
	c, _ := newTestCache(30*time.Second, fetch)
	ctx := context.Background()

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Get(ctx, "parkings")
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), fetches.Load())
}

func TestCacheCallerCancellation(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context, fd *Feed) (any, error) {
		close(started)
		<-release
		return "payload", nil
	}
	c, _ := newTestCache(30*time.Second, fetch)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx, "parkings")
		done <- err
	}()

	<-started
	cancel()

	// The aborting caller returns promptly even though the fetch is
	// still in flight.
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	// The detached fetch still completes and populates the cache.
	close(release)
	assert.Eventually(t, func() bool {
		_, ok := c.Snapshot("parkings")
		return ok
	}, time.Second, 10*time.Millisecond)
}
