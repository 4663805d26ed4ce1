package placecache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/bestnight/bestnight/internal/db/memory"
	"github.com/bestnight/bestnight/internal/domain"
	"github.com/bestnight/bestnight/internal/domain/geo"
	"github.com/bestnight/bestnight/internal/domain/venue"
)

var london = geo.Coordinate{Lat: 51.50736, Lng: -0.12776}

func sampleVenues() []venue.Venue {
	return []venue.Venue{
		venue.New(venue.Attrs{
			ID: "r1", Name: "Trattoria", Rating: venue.Rated(4.6), ReviewCount: 120,
			Types: []string{"italian_restaurant"}, PriceTier: 2,
			Position: geo.Coordinate{Lat: 51.5, Lng: -0.12}, Vicinity: "1 High St",
		}),
		venue.New(venue.Attrs{ID: "r2", Name: "Unrated"}),
	}
}

func TestKeys(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{NearbyKey(london, 1000, venue.Bar), "bestnight:nearby:51.5074:-0.1278:1000:bar"},
		{GeocodeKey("  Soho Square "), "bestnight:geocode:soho square"},
		{ReverseKey(london), "bestnight:reverse:51.5074:-0.1278"},
		{DetailsKey("ChIJ123"), "bestnight:details:ChIJ123"},
	}
	for _, tc := range tests {
		if tc.got != tc.want {
			t.Errorf("got %q, want %q", tc.got, tc.want)
		}
	}
}

func TestNearby_MissThenPut(t *testing.T) {
	inner := &mockProvider{nearby: sampleVenues()}
	p, ms := newTestProvider(t, inner)

	var setKey string
	var setTTL time.Duration
	ms.setFn = func(_ context.Context, key string, _ []byte, ttl time.Duration) error {
		setKey, setTTL = key, ttl
		return nil
	}

	got, err := p.Nearby(context.Background(), london, 1000, venue.Restaurant)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || inner.nearbyCalls != 1 {
		t.Fatalf("expected inner call and 2 venues, got %d venues, %d calls", len(got), inner.nearbyCalls)
	}
	if setKey != NearbyKey(london, 1000, venue.Restaurant) || setTTL != time.Hour {
		t.Errorf("unexpected put: key=%q ttl=%v", setKey, setTTL)
	}
}

func TestNearby_RoundTripThroughStore(t *testing.T) {
	store := memory.NewStore(memory.WithSweepInterval(0))
	t.Cleanup(store.Close)

	inner := &mockProvider{nearby: sampleVenues()}
	p := New(inner, store, time.Hour, nil, zap.NewNop())
	ctx := context.Background()

	first, err := p.Nearby(ctx, london, 1000, venue.Restaurant)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := p.Nearby(ctx, london, 1000, venue.Restaurant)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if inner.nearbyCalls != 1 {
		t.Fatalf("expected second call served from cache, inner called %d times", inner.nearbyCalls)
	}
	if len(second) != len(first) {
		t.Fatalf("length mismatch: %d vs %d", len(second), len(first))
	}
	a, b := first[0].Attrs(), second[0].Attrs()
	if a.ID != b.ID || *a.Rating != *b.Rating || a.PriceTier != b.PriceTier || a.Position != b.Position {
		t.Errorf("cached venue differs: %+v vs %+v", a, b)
	}
	if _, ok := second[1].Rating(); ok {
		t.Error("absent rating must survive the cache round trip")
	}
}

func TestNearby_CacheHitCountsMetric(t *testing.T) {
	store := memory.NewStore(memory.WithSweepInterval(0))
	t.Cleanup(store.Close)

	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"kind", "result"})
	p := New(&mockProvider{nearby: sampleVenues()}, store, time.Hour, counter, zap.NewNop())
	ctx := context.Background()

	_, _ = p.Nearby(ctx, london, 500, venue.Bar)
	_, _ = p.Nearby(ctx, london, 500, venue.Bar)

	if v := testutil.ToFloat64(counter.WithLabelValues("nearby", "miss")); v != 1 {
		t.Errorf("misses: got %v, want 1", v)
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("nearby", "hit")); v != 1 {
		t.Errorf("hits: got %v, want 1", v)
	}
}

func TestNearby_DistinctKeysPerCategoryAndRadius(t *testing.T) {
	store := memory.NewStore(memory.WithSweepInterval(0))
	t.Cleanup(store.Close)

	inner := &mockProvider{nearby: sampleVenues()}
	p := New(inner, store, time.Hour, nil, zap.NewNop())
	ctx := context.Background()

	_, _ = p.Nearby(ctx, london, 1000, venue.Restaurant)
	_, _ = p.Nearby(ctx, london, 1000, venue.Bar)
	_, _ = p.Nearby(ctx, london, 1500, venue.Bar)

	if inner.nearbyCalls != 3 {
		t.Errorf("expected 3 distinct lookups, got %d", inner.nearbyCalls)
	}
}

func TestNearby_FailureNotCached(t *testing.T) {
	inner := &mockProvider{err: fmt.Errorf("places down: %w", domain.ErrUpstream)}
	p, ms := newTestProvider(t, inner)

	setCalled := false
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		setCalled = true
		return nil
	}

	_, err := p.Nearby(context.Background(), london, 1000, venue.Bar)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if setCalled {
		t.Error("failed lookup must not be cached")
	}
}

func TestNearby_StoreErrorsDegradeToMiss(t *testing.T) {
	inner := &mockProvider{nearby: sampleVenues()}
	p, ms := newTestProvider(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("connection refused")
	}
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		return errors.New("connection refused")
	}

	got, err := p.Nearby(context.Background(), london, 1000, venue.Bar)
	if err != nil {
		t.Fatalf("store failure must not fail the lookup: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected provider result, got %d venues", len(got))
	}
}

func TestNearby_CorruptEntryIsMiss(t *testing.T) {
	inner := &mockProvider{nearby: sampleVenues()}
	p, ms := newTestProvider(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte("{not json"), nil
	}

	if _, err := p.Nearby(context.Background(), london, 1000, venue.Bar); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.nearbyCalls != 1 {
		t.Errorf("corrupt entry should fall through to provider")
	}
}

func TestGeocode_CachedAndNotFoundNotCached(t *testing.T) {
	store := memory.NewStore(memory.WithSweepInterval(0))
	t.Cleanup(store.Close)
	ctx := context.Background()

	inner := &mockProvider{coordinate: london}
	p := New(inner, store, time.Hour, nil, zap.NewNop())

	for i := 0; i < 2; i++ {
		got, err := p.Geocode(ctx, "London")
		if err != nil || got != london {
			t.Fatalf("geocode: %v, %v", got, err)
		}
	}
	if _, err := p.Geocode(ctx, "  london "); err != nil {
		t.Fatalf("normalized geocode: %v", err)
	}
	if inner.geoCalls != 1 {
		t.Errorf("expected 1 upstream geocode, got %d", inner.geoCalls)
	}

	missing := &mockProvider{err: fmt.Errorf("no results: %w", domain.ErrLocationNotFound)}
	pm := New(missing, store, time.Hour, nil, zap.NewNop())
	for i := 0; i < 2; i++ {
		if _, err := pm.Geocode(ctx, "Atlantis"); !errors.Is(err, domain.ErrLocationNotFound) {
			t.Fatalf("expected ErrLocationNotFound, got %v", err)
		}
	}
	if missing.geoCalls != 2 {
		t.Errorf("not-found results must not be cached, got %d calls", missing.geoCalls)
	}
}

func TestReverseGeocode_Cached(t *testing.T) {
	store := memory.NewStore(memory.WithSweepInterval(0))
	t.Cleanup(store.Close)
	ctx := context.Background()

	inner := &mockProvider{name: "Westminster"}
	p := New(inner, store, time.Hour, nil, zap.NewNop())

	for i := 0; i < 2; i++ {
		got, err := p.ReverseGeocode(ctx, london)
		if err != nil || got != "Westminster" {
			t.Fatalf("reverse: %q, %v", got, err)
		}
	}
	if inner.revCalls != 1 {
		t.Errorf("expected 1 upstream call, got %d", inner.revCalls)
	}
}

func TestDetails_Cached(t *testing.T) {
	store := memory.NewStore(memory.WithSweepInterval(0))
	t.Cleanup(store.Close)
	ctx := context.Background()

	d := venue.NewDetails(sampleVenues()[0], venue.Info{
		Address: "1 High St, London", Phone: "020 1234", Website: "https://t.example", HoursToday: "Monday: 12-11 PM",
	})
	inner := &mockProvider{details: d}
	p := New(inner, store, time.Hour, nil, zap.NewNop())

	_, _ = p.Details(ctx, "r1")
	got, err := p.Details(ctx, "r1")
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if inner.detCalls != 1 {
		t.Errorf("expected 1 upstream call, got %d", inner.detCalls)
	}
	if got.Info() != d.Info() || got.ID() != "r1" || got.Name() != "Trattoria" {
		t.Errorf("cached details differ: %+v", got.Info())
	}
}

func TestNearby_ExpiredEntryRefetches(t *testing.T) {
	store := memory.NewStore(memory.WithSweepInterval(0))
	t.Cleanup(store.Close)
	ctx := context.Background()

	inner := &mockProvider{nearby: sampleVenues()}
	p := New(inner, store, 30*time.Millisecond, nil, zap.NewNop())

	_, _ = p.Nearby(ctx, london, 1000, venue.Bar)
	time.Sleep(60 * time.Millisecond)
	_, _ = p.Nearby(ctx, london, 1000, venue.Bar)

	if inner.nearbyCalls != 2 {
		t.Errorf("expected refetch after ttl, got %d calls", inner.nearbyCalls)
	}
}

func TestPrefixes_CoverAllKeys(t *testing.T) {
	keys := []string{
		NearbyKey(london, 1, venue.Bar), GeocodeKey("x"), ReverseKey(london), DetailsKey("y"),
	}
	for i, k := range keys {
		if k[:len(Prefixes()[i])] != Prefixes()[i] {
			t.Errorf("key %q does not start with %q", k, Prefixes()[i])
		}
	}
}
