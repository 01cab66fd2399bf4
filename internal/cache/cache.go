package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Stats is a point-in-time view of cache counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int
}

type entry[V any] struct {
	value    V
	accessed atomic.Int64 // unix nanos of the last read or write
}

// Cache maps string keys to values of type V with sliding expiration.
// It is safe for concurrent use.
type Cache[V any] struct {
	mu        sync.RWMutex
	items     map[string]*entry[V]
	group     singleflight.Group
	window    time.Duration
	now       func() time.Time
	gen       atomic.Uint64 // bumped by Clear so in-flight results from before are dropped
	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// New creates a cache.
func New[V any](opts ...Option) *Cache[V] {
	o := options{
		window: DefaultExpiryWindow,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Cache[V]{
		items:  make(map[string]*entry[V]),
		window: o.window,
		now:    o.clock,
		done:   make(chan struct{}),
	}

	if o.interval > 0 {
		c.wg.Add(1)
		go c.janitor(o.interval)
	}

	return c
}

// Window returns the configured expiry window.
func (c *Cache[V]) Window() time.Duration { return c.window }

// Get returns the cached value for key if present and not expired.
// A successful Get refreshes the entry's access time.
func (c *Cache[V]) Get(key string) (V, bool) {
	now := c.now().UnixNano()

	c.mu.RLock()
	e, ok := c.items[key]
	if ok && now-e.accessed.Load() < int64(c.window) {
		e.accessed.Store(now)
		v := e.value
		c.mu.RUnlock()
		return v, true
	}
	c.mu.RUnlock()

	if ok {
		c.evict(key, e)
	}

	var zero V
	return zero, false
}

// GetOrCompute returns the cached value for key, or runs fn and caches its
// result. Concurrent callers with the same key wait for a single fn call.
// Errors are returned to every waiter and are not cached. The bool result
// reports whether the value came from the cache.
//
// fn runs on a context detached from the caller's cancellation, so one
// waiter leaving does not fail the others. A waiter whose ctx is done
// returns ctx.Err() immediately.
func (c *Cache[V]) GetOrCompute(ctx context.Context, key string, fn func(ctx context.Context) (V, error)) (V, bool, error) {
	if v, ok := c.Get(key); ok {
		c.hits.Add(1)
		return v, true, nil
	}
	c.misses.Add(1)

	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		// A flight that finished just before this one may have stored it.
		if v, ok := c.Get(key); ok {
			return v, nil
		}

		gen := c.gen.Load()

		v, err := fn(flightCtx)
		if err != nil {
			return v, err
		}

		c.set(key, v, gen)

		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			var zero V
			return zero, false, res.Err
		}
		v, _ := res.Val.(V)
		return v, false, nil
	case <-ctx.Done():
		var zero V
		return zero, false, ctx.Err()
	}
}

// Set stores v under key, replacing any existing entry.
func (c *Cache[V]) Set(key string, v V) {
	c.set(key, v, c.gen.Load())
}

func (c *Cache[V]) set(key string, v V, gen uint64) {
	e := &entry[V]{value: v}
	e.accessed.Store(c.now().UnixNano())

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen.Load() != gen {
		return
	}

	c.items[key] = e
}

func (c *Cache[V]) evict(key string, e *entry[V]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Only drop the exact entry we saw expire; a fresh Set may have replaced it.
	if cur, ok := c.items[key]; ok && cur == e {
		delete(c.items, key)
		c.evictions.Add(1)
	}
}

// Purge removes all expired entries and returns how many were removed.
func (c *Cache[V]) Purge() int {
	now := c.now().UnixNano()

	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, e := range c.items {
		if now-e.accessed.Load() >= int64(c.window) {
			delete(c.items, k)
			n++
		}
	}
	c.evictions.Add(int64(n))

	return n
}

// Clear removes every entry. Computations already in flight will not store
// their results.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen.Add(1)
	clear(c.items)
}

// Len returns the number of stored entries, including expired ones not yet purged.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Stats returns the current counters.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Entries:   c.Len(),
	}
}

// Close stops the janitor. The cache remains usable afterwards.
func (c *Cache[V]) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	c.wg.Wait()

	return nil
}

func (c *Cache[V]) janitor(interval time.Duration) {
	defer c.wg.Done()

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			c.Purge()
		case <-c.done:
			return
		}
	}
}
