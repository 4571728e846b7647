package mount

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend names a Registry implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
)

// Config selects and tunes the registry.
type Config struct {
	Backend         Backend       `env:"MOUNT_BACKEND" envDefault:"memory"`
	TTL             time.Duration `env:"MOUNT_TTL" envDefault:"30m"`
	CleanupInterval time.Duration `env:"MOUNT_CLEANUP_INTERVAL" envDefault:"1m"`
	KeyPrefix       string        `env:"MOUNT_REDIS_PREFIX" envDefault:"volunteerform:mount:"`
}

// NewFromConfig builds the registry cfg names. The redis backend needs a
// client; opts are applied after the config.
func NewFromConfig(cfg Config, client redis.UniversalClient, opts ...Option) (Registry, error) {
	all := append([]Option{
		WithTTL(cfg.TTL),
		WithCleanupInterval(cfg.CleanupInterval),
		WithKeyPrefix(cfg.KeyPrefix),
	}, opts...)

	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemoryRegistry(all...), nil
	case BackendRedis:
		if client == nil {
			return nil, fmt.Errorf("%w: redis backend needs a client", ErrInvalidBackend)
		}
		return NewRedisRegistry(client, all...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidBackend, cfg.Backend)
	}
}
