package placecache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/bestnight/bestnight/internal/db"
	"github.com/bestnight/bestnight/internal/domain/geo"
	"github.com/bestnight/bestnight/internal/domain/venue"
)

// mockProvider counts calls per operation.
type mockProvider struct {
	nearby      []venue.Venue
	coordinate  geo.Coordinate
	name        string
	details     venue.Details
	err         error
	nearbyCalls int
	geoCalls    int
	revCalls    int
	detCalls    int
}

func (m *mockProvider) Nearby(_ context.Context, _ geo.Coordinate, _ int, _ venue.Category) ([]venue.Venue, error) {
	m.nearbyCalls++
	return m.nearby, m.err
}

func (m *mockProvider) Geocode(_ context.Context, _ string) (geo.Coordinate, error) {
	m.geoCalls++
	return m.coordinate, m.err
}

func (m *mockProvider) ReverseGeocode(_ context.Context, _ geo.Coordinate) (string, error) {
	m.revCalls++
	return m.name, m.err
}

func (m *mockProvider) Details(_ context.Context, _ string) (venue.Details, error) {
	m.detCalls++
	return m.details, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestProvider(t *testing.T, inner *mockProvider) (*Provider, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	p := New(inner, ms, time.Hour, nil, zap.NewNop())
	return p, ms
}
