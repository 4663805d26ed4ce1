package db

import (
	"context"
	"time"
)

// Store is the main cache facade combining all sub-interfaces.
//
//nolint:interfacebloat // consumers depend on the narrow sub-interfaces
type Store interface {
	Pinger
	KVStore
	Flusher
	StatsReader
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Flusher removes every key under a prefix and reports how many went.
type Flusher interface {
	Flush(ctx context.Context, prefix string) (int, error)
}

// StatsReader reports store counters.
type StatsReader interface {
	Stats(ctx context.Context) (Stats, error)
}

// Stats is a point-in-time snapshot of store counters. Hits and misses count
// Get calls since the store was opened.
type Stats struct {
	Keys      int64
	Hits      int64
	Misses    int64
	Sets      int64
	Evictions int64
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
