// Package memory is an in-process db.Store with per-key expiry.
package memory

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/bestnight/bestnight/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// DefaultSweepInterval is how often expired entries are purged.
const DefaultSweepInterval = 10 * time.Minute

// Store keeps values in a ttlcache. Entries expire a fixed ttl after they
// are written; reads never extend them. Expired entries are invisible to
// reads and purged by a periodic sweep.
type Store struct {
	cache  *ttlcache.Cache[string, []byte]
	closed atomic.Bool

	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
}

// Option configures a Store.
type Option func(*Store)

// WithSweepInterval sets the sweeper period. Zero or negative disables it.
func WithSweepInterval(d time.Duration) Option {
	return func(s *Store) { s.interval = d }
}

// NewStore creates a store and starts its sweeper.
func NewStore(opts ...Option) *Store {
	s := &Store{
		cache: ttlcache.New[string, []byte](
			ttlcache.WithTTL[string, []byte](ttlcache.NoTTL),
			ttlcache.WithDisableTouchOnHit[string, []byte](),
		),
		interval: DefaultSweepInterval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.interval > 0 {
		go s.sweepLoop()
	} else {
		close(s.done)
	}
	return s
}

// Ping fails once the store is closed.
func (s *Store) Ping(_ context.Context) error {
	if s.closed.Load() {
		return db.ErrClosed
	}
	return nil
}

// WaitForReady returns immediately: an open memory store is always ready.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// Close stops the sweeper and drops all entries. Safe to call twice.
func (s *Store) Close() {
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.stop)
		<-s.done
		s.cache.DeleteAll()
	})
}

// Get returns a copy of the stored value.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, &db.Error{Op: db.OpGet, Err: db.ErrClosed}
	}
	item := s.cache.Get(key)
	if item == nil {
		return nil, db.ErrKeyNotFound
	}
	return append([]byte(nil), item.Value()...), nil
}

// Set stores a value without expiry.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	return s.put(db.OpSet, key, value, ttlcache.NoTTL)
}

// SetWithTTL stores a value that expires after ttl. A non-positive ttl
// stores without expiry.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = ttlcache.NoTTL
	}
	return s.put(db.OpSet, key, value, ttl)
}

// Del removes a key. Missing keys are not an error.
func (s *Store) Del(_ context.Context, key string) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpDel, Err: db.ErrClosed}
	}
	s.cache.Delete(key)
	return nil
}

// Flush removes every live key starting with prefix. An empty prefix clears the store.
func (s *Store) Flush(_ context.Context, prefix string) (int, error) {
	if s.closed.Load() {
		return 0, &db.Error{Op: db.OpDel, Err: db.ErrClosed}
	}

	// Range must not mutate the cache, so collect first.
	var keys []string
	s.cache.Range(func(item *ttlcache.Item[string, []byte]) bool {
		if strings.HasPrefix(item.Key(), prefix) {
			keys = append(keys, item.Key())
		}
		return true
	})
	for _, k := range keys {
		s.cache.Delete(k)
	}
	return len(keys), nil
}

// Stats reports live keys and lifetime counters. Evictions counts every
// removed entry, whether expired, deleted or flushed.
func (s *Store) Stats(_ context.Context) (db.Stats, error) {
	if s.closed.Load() {
		return db.Stats{}, &db.Error{Op: db.OpDBSize, Err: db.ErrClosed}
	}
	m := s.cache.Metrics()
	return db.Stats{
		Keys:      int64(s.cache.Len()),
		Hits:      int64(m.Hits),
		Misses:    int64(m.Misses),
		Sets:      int64(m.Insertions + m.Updates),
		Evictions: int64(m.Evictions),
	}, nil
}

// Sweep purges expired entries.
func (s *Store) Sweep() {
	s.cache.DeleteExpired()
}

func (s *Store) put(op, key string, value []byte, ttl time.Duration) error {
	if s.closed.Load() {
		return &db.Error{Op: op, Err: db.ErrClosed}
	}
	s.cache.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

func (s *Store) sweepLoop() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
