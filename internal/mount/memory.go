package mount

import (
	"context"
	"time"

	"github.com/dmitrymomot/volunteerform/internal/signup"
	"github.com/dmitrymomot/volunteerform/pkg/logger"
)

// MemoryRegistry keeps mounted stores in process memory.
type MemoryRegistry struct {
	cache *cache
	opts  *options
}

var _ Registry = (*MemoryRegistry)(nil)

// NewMemoryRegistry creates a registry. Idle mounts are evicted by a
// background loop; call Close to stop it.
func NewMemoryRegistry(opts ...Option) *MemoryRegistry {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &MemoryRegistry{
		cache: newCache(o.ttl, o.cleanupInterval),
		opts:  o,
	}
}

func (m *MemoryRegistry) Mount(ctx context.Context) (string, *signup.Store, error) {
	id := newID()
	store := signup.NewStore(m.opts.storeOpts...)
	if err := m.cache.put(id, store, nil); err != nil {
		return "", nil, err
	}
	m.opts.log.DebugContext(ctx, "form mounted", logger.MountID(id), logger.Event("mounted"))
	return id, store, nil
}

func (m *MemoryRegistry) Get(ctx context.Context, id string) (*signup.Store, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}
	store, ok := m.cache.get(id)
	if !ok {
		return nil, ErrMountNotFound
	}
	return store, nil
}

func (m *MemoryRegistry) Unmount(ctx context.Context, id string) error {
	if err := parseID(id); err != nil {
		return err
	}
	if !m.cache.remove(id) {
		return ErrMountNotFound
	}
	m.opts.log.DebugContext(ctx, "form unmounted", logger.MountID(id), logger.Event("unmounted"))
	return nil
}

// DeleteExpired evicts every mount idle for longer than the TTL.
func (m *MemoryRegistry) DeleteExpired(ctx context.Context) error {
	for _, id := range m.cache.deleteExpired() {
		m.opts.log.DebugContext(ctx, "form expired", logger.MountID(id), logger.Event("expired"))
	}
	return nil
}

// Len returns the number of live mounts.
func (m *MemoryRegistry) Len() int {
	return m.cache.len()
}

func (m *MemoryRegistry) Close(ctx context.Context) error {
	return m.cache.close(ctx)
}

// TTL returns the idle timeout.
func (m *MemoryRegistry) TTL() time.Duration {
	return m.opts.ttl
}
