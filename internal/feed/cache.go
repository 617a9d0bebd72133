package feed

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Nijal-AI/brest-mcp-server/internal/metrics"
)

// FetchFunc downloads and decodes one feed.
type FetchFunc func(ctx context.Context, fd *Feed) (any, error)

// Result is what the cache hands to a consumer.
type Result struct {
	Data      any
	FetchedAt time.Time
	// Stale is set when the upstream failed and Data is the last good
	// payload.
	Stale bool
}

// Cache is the read-through cache over the feed registry. Concurrent
// requests for the same expired feed collapse into a single upstream fetch.
type Cache struct {
	registry *Registry
	fetch    FetchFunc
	timeout  time.Duration
	metrics  metrics.Recorder

	mu      sync.RWMutex
	entries map[string]*entry
	group   singleflight.Group

	now func() time.Time
}

type entry struct {
	data      any
	fetchedAt time.Time
}

// NewCache builds an empty cache. timeout bounds each upstream fetch.
func NewCache(registry *Registry, fetch FetchFunc, timeout time.Duration, m metrics.Recorder) *Cache {
	return &Cache{
		registry: registry,
		fetch:    fetch,
		timeout:  timeout,
		metrics:  m,
		entries:  make(map[string]*entry),
		now:      time.Now,
	}
}

// Get returns the feed payload, refreshing from upstream when the cached
// copy is older than the feed's refresh interval. A failed refresh never
// evicts: the previous payload is returned marked stale. Only when no
// payload was ever fetched does a failure surface as an error.
func (c *Cache) Get(ctx context.Context, key string) (*Result, error) {
	fd, err := c.registry.Get(key)
	if err != nil {
		return nil, err
	}

	if e := c.lookup(key); e != nil && c.fresh(e, fd) {
		c.metrics.RecordFeedCacheHit(key)
		return &Result{Data: e.data, FetchedAt: e.fetchedAt}, nil
	}

	// DoChan rather than Do: an aborting caller must not block on the
	// shared fetch, and the fetch itself must not die with the caller's
	// context, so it runs detached and still populates the cache.
	ch := c.group.DoChan(key, func() (any, error) {
		return c.refresh(ctx, fd)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Result), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Snapshot returns the cached payload without triggering a fetch, for
// health reporting.
func (c *Cache) Snapshot(key string) (*Result, bool) {
	e := c.lookup(key)
	if e == nil {
		return nil, false
	}
	return &Result{Data: e.data, FetchedAt: e.fetchedAt}, true
}

func (c *Cache) lookup(key string) *entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[key]
}

func (c *Cache) fresh(e *entry, fd *Feed) bool {
	return c.now().Sub(e.fetchedAt) < fd.RefreshInterval
}

func (c *Cache) refresh(ctx context.Context, fd *Feed) (*Result, error) {
	// A queued caller may arrive just after the previous flight finished.
	if e := c.lookup(fd.Key); e != nil && c.fresh(e, fd) {
		return &Result{Data: e.data, FetchedAt: e.fetchedAt}, nil
	}

	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	start := c.now()
	data, err := c.fetch(fetchCtx, fd)
	elapsed := time.Since(start)

	if err != nil {
		c.metrics.RecordFeedFetch(fd.Key, "failure", elapsed)

		if e := c.lookup(fd.Key); e != nil {
			log.Printf("[FeedCache] %s: refresh failed, serving stale data from %s: %v",
				fd.Key, e.fetchedAt.Format(time.RFC3339), err)
			c.metrics.RecordFeedServedStale(fd.Key)
			return &Result{Data: e.data, FetchedAt: e.fetchedAt, Stale: true}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	c.metrics.RecordFeedFetch(fd.Key, "success", elapsed)

	fetchedAt := c.now()
	c.mu.Lock()
	c.entries[fd.Key] = &entry{data: data, fetchedAt: fetchedAt}
	c.mu.Unlock()

	return &Result{Data: data, FetchedAt: fetchedAt}, nil
}
