package mount

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/volunteerform/internal/signup"
	"github.com/dmitrymomot/volunteerform/pkg/logger"
)

const (
	persistTimeout = 5 * time.Second
	// saves give up after this many lost races with other replicas
	maxSaveAttempts = 5
)

// RedisRegistry serves live stores from a local cache and mirrors each of
// them to Redis as a versioned JSON snapshot. A replica that gets a request
// for a mount it does not hold rebuilds the store from the snapshot, and a
// replica that holds a stale copy catches up on the next Get.
//
// Saves are compare-and-set on the snapshot version. A replica that lost a
// race merges the newer snapshot with its own edits field by field and
// tries again, so the last edit of each field wins across replicas.
//
// Any signup.OnChange given through WithStoreOptions is replaced.
type RedisRegistry struct {
	client redis.UniversalClient
	cache  *cache
	opts   *options

	persisters sync.Map // id -> *persister
	loadMu     sync.Mutex
}

var _ Registry = (*RedisRegistry)(nil)

// stored is the Redis value of one mount.
type stored struct {
	Version uint64 `json:"version"`
	signup.Snapshot
}

func NewRedisRegistry(client redis.UniversalClient, opts ...Option) *RedisRegistry {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &RedisRegistry{
		client: client,
		cache:  newCache(o.ttl, o.cleanupInterval),
		opts:   o,
	}
}

func (r *RedisRegistry) Mount(ctx context.Context) (string, *signup.Store, error) {
	id := newID()
	p, store, err := r.build(id, func(opts ...signup.Option) (*signup.Store, error) {
		return signup.NewStore(opts...), nil
	})
	if err != nil {
		return "", nil, err
	}
	p.base = stored{Version: 1, Snapshot: store.Snapshot()}
	if err := r.save(ctx, id, p.base); err != nil {
		return "", nil, err
	}
	if err := r.track(id, p, store); err != nil {
		return "", nil, err
	}
	r.opts.log.DebugContext(ctx, "form mounted", logger.MountID(id), logger.Event("mounted"))
	return id, store, nil
}

func (r *RedisRegistry) Get(ctx context.Context, id string) (*signup.Store, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}

	if store, ok := r.cache.get(id); ok {
		remote, err := decodeStored(r.client.GetEx(ctx, r.key(id), r.opts.ttl))
		if errors.Is(err, ErrMountNotFound) {
			// unmounted or expired elsewhere
			r.cache.remove(id)
			return nil, err
		}
		if err != nil {
			return nil, err
		}
		if v, ok := r.persisters.Load(id); ok {
			if err := v.(*persister).catchUp(remote); err != nil {
				return nil, err
			}
		}
		return store, nil
	}

	r.loadMu.Lock()
	defer r.loadMu.Unlock()
	if store, ok := r.cache.get(id); ok {
		return store, nil
	}

	remote, err := decodeStored(r.client.GetEx(ctx, r.key(id), r.opts.ttl))
	if err != nil {
		return nil, err
	}
	p, store, err := r.build(id, func(opts ...signup.Option) (*signup.Store, error) {
		return signup.Restore(remote.Snapshot, opts...)
	})
	if err != nil {
		return nil, err
	}
	p.base = remote
	if err := r.track(id, p, store); err != nil {
		return nil, err
	}
	r.opts.log.DebugContext(ctx, "form rehydrated", logger.MountID(id), logger.Event("rehydrated"))
	return store, nil
}

func (r *RedisRegistry) Unmount(ctx context.Context, id string) error {
	if err := parseID(id); err != nil {
		return err
	}

	var p *persister
	if v, ok := r.persisters.Load(id); ok {
		p = v.(*persister)
	}
	local := r.cache.remove(id)
	if p != nil {
		// a save in progress must not recreate the key
		p.halt()
	}

	n, err := r.client.Del(ctx, r.key(id)).Result()
	if err != nil {
		return fmt.Errorf("delete mount snapshot: %w", err)
	}
	if !local && n == 0 {
		return ErrMountNotFound
	}
	r.opts.log.DebugContext(ctx, "form unmounted", logger.MountID(id), logger.Event("unmounted"))
	return nil
}

// Close stops the local cleanup loop and waits for pending submissions.
// Snapshots stay in Redis until their TTL runs out; the client is not closed.
func (r *RedisRegistry) Close(ctx context.Context) error {
	return r.cache.close(ctx)
}

// Len returns the number of locally cached mounts.
func (r *RedisRegistry) Len() int {
	return r.cache.len()
}

func (r *RedisRegistry) key(id string) string {
	return r.opts.keyPrefix + id
}

func (r *RedisRegistry) build(id string, fn func(...signup.Option) (*signup.Store, error)) (*persister, *signup.Store, error) {
	p := &persister{reg: r, id: id}
	opts := append(slices.Clone(r.opts.storeOpts), signup.OnChange(p.changed))
	store, err := fn(opts...)
	if err != nil {
		return nil, nil, err
	}
	p.store = store
	return p, store, nil
}

func (r *RedisRegistry) track(id string, p *persister, store *signup.Store) error {
	r.persisters.Store(id, p)
	return r.cache.put(id, store, func() {
		p.stop()
		r.persisters.Delete(id)
	})
}

func decodeStored(cmd *redis.StringCmd) (stored, error) {
	data, err := cmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return stored{}, ErrMountNotFound
	}
	if err != nil {
		return stored{}, fmt.Errorf("load mount snapshot: %w", err)
	}
	var s stored
	if err := json.Unmarshal(data, &s); err != nil {
		return stored{}, fmt.Errorf("%w: %w", signup.ErrInvalidSnapshot, err)
	}
	return s, nil
}

func (r *RedisRegistry) save(ctx context.Context, id string, s stored) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Join(ErrPersistFailed, err)
	}
	if err := r.client.Set(ctx, r.key(id), data, r.opts.ttl).Err(); err != nil {
		return errors.Join(ErrPersistFailed, err)
	}
	return nil
}

// compareAndSave writes next only while Redis still holds version expect.
// Otherwise it returns the newer value and writes nothing. A write racing
// between the read and the commit fails with redis.TxFailedErr.
func (r *RedisRegistry) compareAndSave(ctx context.Context, id string, expect uint64, next stored) (*stored, error) {
	data, err := json.Marshal(next)
	if err != nil {
		return nil, errors.Join(ErrPersistFailed, err)
	}
	key := r.key(id)

	var newer *stored
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := decodeStored(tx.Get(ctx, key))
		if err != nil {
			return err
		}
		if cur.Version != expect {
			newer = &cur
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.opts.ttl)
			return nil
		})
		return err
	}, key)
	if err != nil {
		return nil, err
	}
	return newer, nil
}

// persister writes the state of one store after every change. base is the
// last version this replica read from or wrote to Redis; local edits are
// the fields that differ from it.
type persister struct {
	reg   *RedisRegistry
	id    string
	store *signup.Store

	mu   sync.Mutex
	base stored
	gone atomic.Bool
}

func (p *persister) changed(signup.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gone.Load() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	err := p.syncLocked(ctx)
	if errors.Is(err, ErrMountNotFound) {
		// unmounted elsewhere, the next Get drops the local copy
		p.gone.Store(true)
		return
	}
	if err != nil {
		p.reg.opts.log.ErrorContext(ctx, "failed to persist form state",
			logger.MountID(p.id),
			logger.Error(err),
			logger.Event("persist_failed"),
		)
	}
}

func (p *persister) syncLocked(ctx context.Context) error {
	for range maxSaveAttempts {
		local := p.store.Snapshot()
		next := stored{Version: p.base.Version + 1, Snapshot: local}

		newer, err := p.reg.compareAndSave(ctx, p.id, p.base.Version, next)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return err
		}
		if newer == nil {
			p.base = next
			return nil
		}
		if err := p.rebaseLocked(local, *newer); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: version kept moving after %d attempts", ErrPersistFailed, maxSaveAttempts)
}

// catchUp loads a snapshot another replica wrote, keeping local edits.
func (p *persister) catchUp(remote stored) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if remote.Version <= p.base.Version {
		return nil
	}
	return p.rebaseLocked(p.store.Snapshot(), remote)
}

func (p *persister) rebaseLocked(local signup.Snapshot, remote stored) error {
	if err := p.store.Rebase(local, merge(p.base.Snapshot, local, remote.Snapshot)); err != nil {
		return err
	}
	p.base = remote
	return nil
}

// merge takes remote and overlays the fields local changed since base.
func merge(base, local, remote signup.Snapshot) signup.Snapshot {
	out := signup.Snapshot{
		Entries:   maps.Clone(remote.Entries),
		Revisions: maps.Clone(local.Revisions),
	}
	for f, e := range local.Entries {
		if e != base.Entries[f] {
			out.Entries[f] = e
		}
	}
	return out
}

func (p *persister) stop() {
	p.gone.Store(true)
}

// halt stops future saves once a save in progress has finished.
func (p *persister) halt() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gone.Store(true)
}
