package mount

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrymomot/volunteerform/internal/signup"
)

// cache holds live stores with a last-access TTL. Stores that leave the
// cache are still tracked until their submissions finish.
type cache struct {
	mu     sync.RWMutex
	items  map[string]*item
	ttl    time.Duration
	closed bool

	ticker    *time.Ticker
	done      chan struct{}
	closeOnce sync.Once

	retired sync.WaitGroup
	now     func() time.Time
}

type item struct {
	store    *signup.Store
	lastSeen time.Time
	release  func()
}

func newCache(ttl, cleanupInterval time.Duration) *cache {
	c := &cache{
		items: make(map[string]*item),
		ttl:   ttl,
		done:  make(chan struct{}),
		now:   time.Now,
	}
	if cleanupInterval > 0 {
		c.ticker = time.NewTicker(cleanupInterval)
		go c.cleanupLoop()
	}
	return c
}

// put adds a store. release, when not nil, runs once the store leaves the
// cache, under the cache lock.
func (c *cache) put(id string, s *signup.Store, release func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrRegistryClosed
	}
	c.items[id] = &item{store: s, lastSeen: c.now(), release: release}
	return nil
}

// get returns a live store and marks it as used.
func (c *cache) get(id string) (*signup.Store, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.items[id]
	if !ok {
		return nil, false
	}
	now := c.now()
	if now.Sub(it.lastSeen) > c.ttl {
		c.retireLocked(id, it)
		return nil, false
	}
	it.lastSeen = now
	return it.store, true
}

func (c *cache) remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.items[id]
	if ok {
		c.retireLocked(id, it)
	}
	return ok
}

// deleteExpired evicts idle stores and returns their ids.
func (c *cache) deleteExpired() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	var ids []string
	for id, it := range c.items {
		if now.Sub(it.lastSeen) > c.ttl {
			c.retireLocked(id, it)
			ids = append(ids, id)
		}
	}
	return ids
}

func (c *cache) retireLocked(id string, it *item) {
	delete(c.items, id)
	if it.release != nil {
		it.release()
	}
	if c.closed {
		// close already holds this store in its live set
		return
	}
	c.retired.Add(1)
	go func() {
		defer c.retired.Done()
		it.store.Wait()
	}()
}

func (c *cache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// close stops the cleanup loop and waits for submissions of live and
// retired stores, bounded by ctx.
func (c *cache) close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		if c.ticker != nil {
			c.ticker.Stop()
		}
		close(c.done)
	})

	c.mu.Lock()
	c.closed = true
	live := make([]*signup.Store, 0, len(c.items))
	for _, it := range c.items {
		live = append(live, it.store)
	}
	c.mu.Unlock()

	var errs []error
	for _, s := range live {
		if err := s.WaitContext(ctx); err != nil {
			errs = append(errs, err)
			break
		}
	}

	retired := make(chan struct{})
	go func() {
		c.retired.Wait()
		close(retired)
	}()
	select {
	case <-retired:
	case <-ctx.Done():
		if len(errs) == 0 {
			errs = append(errs, ctx.Err())
		}
	}
	return errors.Join(errs...)
}

func (c *cache) cleanupLoop() {
	for {
		select {
		case <-c.ticker.C:
			c.deleteExpired()
		case <-c.done:
			return
		}
	}
}
