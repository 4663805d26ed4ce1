// Package placecache caches provider lookups in a key-value store with a TTL.
package placecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/bestnight/bestnight/internal/db"
	"github.com/bestnight/bestnight/internal/domain"
	"github.com/bestnight/bestnight/internal/domain/geo"
	"github.com/bestnight/bestnight/internal/domain/venue"
)

// DefaultTTL is how long a successful lookup stays cached.
const DefaultTTL = time.Hour

// Key prefixes, one per cached lookup kind.
var (
	NearbyPrefix  = domain.KeyPrefix + "nearby:"
	GeocodePrefix = domain.KeyPrefix + "geocode:"
	ReversePrefix = domain.KeyPrefix + "reverse:"
	DetailsPrefix = domain.KeyPrefix + "details:"
)

// Prefixes lists every key prefix written by the cache, for flushing.
func Prefixes() []string {
	return []string{NearbyPrefix, GeocodePrefix, ReversePrefix, DetailsPrefix}
}

// Cache kinds, used as the "kind" metric label.
const (
	kindNearby  = "nearby"
	kindGeocode = "geocode"
	kindReverse = "reverse"
	kindDetails = "details"
)

// store is the consumer interface for the result cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Compile-time check: Provider decorates venue.Provider.
var _ venue.Provider = (*Provider)(nil)

// Provider serves provider lookups from the cache and fills it on miss.
// Failed lookups are never cached, and cache failures degrade to misses.
type Provider struct {
	inner      venue.Provider
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with labels "kind" and "result" ("hit"/"miss"), passed explicitly.
func New(
	inner venue.Provider,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Provider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Provider{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// NearbyKey derives the cache key for a venue search.
func NearbyKey(center geo.Coordinate, radiusMeters int, cat venue.Category) string {
	return NearbyPrefix + center.Key() + ":" + strconv.Itoa(radiusMeters) + ":" + string(cat)
}

// GeocodeKey derives the cache key for an address lookup.
func GeocodeKey(address string) string {
	return GeocodePrefix + strings.ToLower(strings.TrimSpace(address))
}

// ReverseKey derives the cache key for a reverse geocode.
func ReverseKey(at geo.Coordinate) string {
	return ReversePrefix + at.Key()
}

// DetailsKey derives the cache key for venue details.
func DetailsKey(venueID string) string {
	return DetailsPrefix + venueID
}

// Nearby returns cached venues or searches the inner provider.
func (p *Provider) Nearby(
	ctx context.Context, center geo.Coordinate, radiusMeters int, cat venue.Category,
) ([]venue.Venue, error) {
	vs, err := lookup(ctx, p, kindNearby, NearbyKey(center, radiusMeters, cat),
		func() ([]venue.Venue, error) { return p.inner.Nearby(ctx, center, radiusMeters, cat) },
		func(vs []venue.Venue) []venueDTO {
			out := make([]venueDTO, len(vs))
			for i, v := range vs {
				out[i] = toVenueDTO(v)
			}
			return out
		},
		func(ds []venueDTO) []venue.Venue {
			out := make([]venue.Venue, len(ds))
			for i, d := range ds {
				out[i] = d.toDomain()
			}
			return out
		},
	)
	if err != nil {
		return nil, fmt.Errorf("nearby %s: %w", cat, err)
	}
	return vs, nil
}

// Geocode returns a cached coordinate or resolves the address.
func (p *Provider) Geocode(ctx context.Context, address string) (geo.Coordinate, error) {
	c, err := lookup(ctx, p, kindGeocode, GeocodeKey(address),
		func() (geo.Coordinate, error) { return p.inner.Geocode(ctx, address) },
		func(c geo.Coordinate) coordinateDTO { return coordinateDTO{Lat: c.Lat, Lng: c.Lng} },
		func(d coordinateDTO) geo.Coordinate { return geo.Coordinate{Lat: d.Lat, Lng: d.Lng} },
	)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("geocode: %w", err)
	}
	return c, nil
}

// ReverseGeocode returns a cached display name or resolves the point.
func (p *Provider) ReverseGeocode(ctx context.Context, at geo.Coordinate) (string, error) {
	name, err := lookup(ctx, p, kindReverse, ReverseKey(at),
		func() (string, error) { return p.inner.ReverseGeocode(ctx, at) },
		func(s string) nameDTO { return nameDTO{Name: s} },
		func(d nameDTO) string { return d.Name },
	)
	if err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}
	return name, nil
}

// Details returns cached venue details or fetches them.
func (p *Provider) Details(ctx context.Context, venueID string) (venue.Details, error) {
	d, err := lookup(ctx, p, kindDetails, DetailsKey(venueID),
		func() (venue.Details, error) { return p.inner.Details(ctx, venueID) },
		toDetailsDTO,
		func(d detailsDTO) venue.Details { return d.toDomain() },
	)
	if err != nil {
		return venue.Details{}, fmt.Errorf("details %s: %w", venueID, err)
	}
	return d, nil
}

// lookup reads key from the cache, falling back to fetch and storing its
// result on success. D is the cached JSON form of T.
func lookup[T, D any](
	ctx context.Context,
	p *Provider,
	kind, key string,
	fetch func() (T, error),
	encode func(T) D,
	decode func(D) T,
) (T, error) {
	var dto D
	if p.getFromCache(ctx, key, &dto) {
		p.incCache(kind, "hit")
		return decode(dto), nil
	}
	p.incCache(kind, "miss")

	v, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}

	p.putToCache(ctx, key, encode(v))
	return v, nil
}

func (p *Provider) incCache(kind, result string) {
	if p.cacheTotal != nil {
		p.cacheTotal.WithLabelValues(kind, result).Inc()
	}
}

func (p *Provider) getFromCache(ctx context.Context, key string, dst any) bool {
	data, err := p.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			p.logger.Warn("Failed to get cached lookup", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if len(data) == 0 {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		p.logger.Warn("Failed to parse cached lookup", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (p *Provider) putToCache(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		p.logger.Warn("Failed to encode lookup for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := p.store.SetWithTTL(ctx, key, data, p.ttl); err != nil {
		p.logger.Warn("Failed to cache lookup", zap.String("key", key), zap.Error(err))
	}
}
