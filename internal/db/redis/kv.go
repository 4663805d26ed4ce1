package redis

import (
	"context"
	"time"

	"github.com/redis/rueidis"

	"github.com/bestnight/bestnight/internal/db"
)

// scanBatch is the SCAN COUNT hint and the DEL batch size for Flush.
const scanBatch = 100

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := s.b().Get().Key(key).Build()
	data, err := s.do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			s.misses.Add(1)
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	s.hits.Add(1)
	return data, nil
}

// Set stores a value at the given key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	cmd := s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	s.sets.Add(1)
	return nil
}

// SetWithTTL stores a value with an expiration. A non-positive ttl stores
// without expiry.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return s.Set(ctx, key, value)
	}
	cmd := s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Ex(ttl).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	s.sets.Add(1)
	return nil
}

// Del deletes a key.
func (s *Store) Del(ctx context.Context, key string) error {
	cmd := s.b().Del().Key(key).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

// Flush deletes every key under prefix, one SCAN page at a time.
func (s *Store) Flush(ctx context.Context, prefix string) (int, error) {
	var cursor uint64
	deleted := 0

	for {
		cmd := s.b().Scan().Cursor(cursor).Match(prefix + "*").Count(scanBatch).Build()
		res, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return deleted, &db.Error{Op: db.OpScan, Err: err}
		}
		if len(res.Elements) > 0 {
			n, err := s.do(ctx, s.b().Del().Key(res.Elements...).Build()).AsInt64()
			if err != nil {
				return deleted, &db.Error{Op: db.OpDel, Err: err}
			}
			deleted += int(n)
		}
		cursor = res.Cursor
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// Stats counts keys under the configured prefix and reports client-side
// lookup counters. Server-side expiry is not observable, so Evictions is 0.
func (s *Store) Stats(ctx context.Context) (db.Stats, error) {
	var cursor uint64
	var keys int64

	for {
		cmd := s.b().Scan().Cursor(cursor).Match(s.keyPrefix + "*").Count(scanBatch).Build()
		res, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return db.Stats{}, &db.Error{Op: db.OpScan, Err: err}
		}
		keys += int64(len(res.Elements))
		cursor = res.Cursor
		if cursor == 0 {
			break
		}
	}

	return db.Stats{
		Keys:   keys,
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
		Sets:   s.sets.Load(),
	}, nil
}
