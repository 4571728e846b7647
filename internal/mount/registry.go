package mount

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/volunteerform/internal/signup"
	"github.com/dmitrymomot/volunteerform/pkg/logger"
)

// Registry maps mount ids to live form stores.
type Registry interface {
	// Mount creates a blank store under a new id.
	Mount(ctx context.Context) (string, *signup.Store, error)

	// Get returns the store for id and refreshes its TTL.
	Get(ctx context.Context, id string) (*signup.Store, error)

	// Unmount forgets id. In-flight submissions of the store still finish.
	Unmount(ctx context.Context, id string) error

	// Close stops background work and waits for pending submissions.
	Close(ctx context.Context) error
}

const (
	DefaultTTL             = 30 * time.Minute
	DefaultCleanupInterval = time.Minute
	DefaultKeyPrefix       = "volunteerform:mount:"
)

// Option configures a registry.
type Option func(*options)

type options struct {
	ttl             time.Duration
	cleanupInterval time.Duration
	keyPrefix       string
	storeOpts       []signup.Option
	log             *slog.Logger
}

func defaultOptions() *options {
	return &options{
		ttl:             DefaultTTL,
		cleanupInterval: DefaultCleanupInterval,
		keyPrefix:       DefaultKeyPrefix,
		log:             logger.Discard(),
	}
}

// WithTTL sets how long an idle mount is kept.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithCleanupInterval sets how often expired mounts are evicted.
// Zero disables the cleanup goroutine.
func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.cleanupInterval = d
		}
	}
}

// WithKeyPrefix sets the Redis key prefix. Ignored by MemoryRegistry.
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.keyPrefix = prefix
		}
	}
}

// WithStoreOptions sets the options every mounted store is built with.
func WithStoreOptions(opts ...signup.Option) Option {
	return func(o *options) {
		o.storeOpts = append(o.storeOpts, opts...)
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func newID() string {
	return uuid.NewString()
}

func parseID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.Join(ErrInvalidMountID, err)
	}
	return nil
}
