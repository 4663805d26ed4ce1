package bestnight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/zap"

	"github.com/bestnight/bestnight/internal/db"
	"github.com/bestnight/bestnight/internal/db/memory"
	dbRedis "github.com/bestnight/bestnight/internal/db/redis"
	"github.com/bestnight/bestnight/internal/domain"
	domcombo "github.com/bestnight/bestnight/internal/domain/combo"
	"github.com/bestnight/bestnight/internal/domain/combo/refine"
	"github.com/bestnight/bestnight/internal/domain/geo"
	"github.com/bestnight/bestnight/internal/domain/venue"
	"github.com/bestnight/bestnight/internal/repository/placecache"
	"github.com/bestnight/bestnight/internal/transport/places"
	combouc "github.com/bestnight/bestnight/internal/usecase/combo"
)

const readinessTimeout = 10 * time.Second

// comboUseCase is the combo service surface the client delegates to.
type comboUseCase interface {
	Request(center geo.Coordinate, radiusMeters int) (domcombo.SearchRequest, error)
	FindCombos(ctx context.Context, req domcombo.SearchRequest) ([]domcombo.Combo, error)
	RefineCombos(combos []domcombo.Combo, f refine.Filter, key refine.SortKey) ([]domcombo.Combo, error)
	GetDetails(ctx context.Context, c domcombo.Combo) (domcombo.Enriched, error)
	Geocode(ctx context.Context, address string) (geo.Coordinate, error)
	ReverseGeocode(ctx context.Context, at geo.Coordinate) (string, error)
	Nearby(ctx context.Context, center geo.Coordinate, radiusMeters int, cat venue.Category) ([]venue.Venue, error)
}

// Client is the main entry point for the BestNight SDK.
type Client struct {
	combos comboUseCase
	places *places.Client
	store  db.Store
	obs    *observer
}

// New creates a Client. WithAPIKey is required; the cache defaults to an
// in-process store.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{driver: "memory"}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.apiKey == "" {
		return nil, errors.New("bestnight: api key is required, use WithAPIKey")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("bestnight: %w", err)
	}
	if err := store.WaitForReady(ctx, readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("bestnight: %s not ready: %w", cfg.driver, err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	nop := zap.NewNop()
	pc := places.NewClient(&places.Config{
		APIKey:     cfg.apiKey,
		BaseURL:    cfg.baseURL,
		Timeout:    cfg.timeout,
		HTTPClient: cfg.httpClient,
		Logger:     nop,
	})
	cached := placecache.New(pc, store, cfg.cacheTTL, nil, nop)

	mc := combouc.DefaultConfig()
	if cfg.minRating > 0 {
		mc.MinRating = cfg.minRating
	}
	if cfg.maxWalkKm > 0 {
		mc.Match.MaxWalkKm = cfg.maxWalkKm
	}
	if cfg.topN != 0 {
		mc.Match.TopN = cfg.topN
	}

	if cfg.logger != nil {
		cfg.logger.Info("bestnight client ready", slog.String("cache", cfg.driver))
	}

	return &Client{
		combos: combouc.New(cached, mc, nil, nop),
		places: pc,
		store:  store,
		obs:    obs,
	}, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "memory":
		return memory.NewStore(), nil
	case "redis", "valkey":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.addrs,
			Password:  cfg.password,
			KeyPrefix: domain.KeyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("%s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.driver)
	}
}

// Close releases the cache connection.
func (c *Client) Close() {
	c.store.Close()
}

// FindCombos pairs restaurants and bars around a point. radiusMeters 0 uses
// the default search radius.
func (c *Client) FindCombos(ctx context.Context, lat, lng float64, radiusMeters int) (_ []Combo, err error) {
	defer func(start time.Time) { c.obs.observe("find_combos", start, err) }(time.Now())

	req, err := c.combos.Request(geo.Coordinate{Lat: lat, Lng: lng}, radiusMeters)
	if err != nil {
		return nil, err
	}
	cs, err := c.combos.FindCombos(ctx, req)
	if err != nil {
		return nil, err
	}
	return fromCombos(cs), nil
}

// FindCombosNear geocodes address and pairs venues around it.
func (c *Client) FindCombosNear(ctx context.Context, address string, radiusMeters int) (_ []Combo, err error) {
	defer func(start time.Time) { c.obs.observe("find_combos_near", start, err) }(time.Now())

	at, err := c.combos.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}
	req, err := c.combos.Request(at, radiusMeters)
	if err != nil {
		return nil, err
	}
	cs, err := c.combos.FindCombos(ctx, req)
	if err != nil {
		return nil, err
	}
	return fromCombos(cs), nil
}

// Refine filters and reorders combos returned by an earlier search.
// An empty sort order ranks by combo score.
func (c *Client) Refine(combos []Combo, f Filter, sortBy SortBy) (_ []Combo, err error) {
	defer func(start time.Time) { c.obs.observe("refine", start, err) }(time.Now())

	key, err := refine.ParseSortKey(string(sortBy))
	if err != nil {
		return nil, err
	}
	out, err := c.combos.RefineCombos(toCombos(combos), toFilter(f), key)
	if err != nil {
		return nil, err
	}
	return fromCombos(out), nil
}

// Details fetches contact details for both venues of a combo.
func (c *Client) Details(ctx context.Context, combo Combo) (_ EnrichedCombo, err error) {
	defer func(start time.Time) { c.obs.observe("details", start, err) }(time.Now())

	e, err := c.combos.GetDetails(ctx, toCombo(combo))
	if err != nil {
		return EnrichedCombo{}, err
	}
	return fromEnriched(e, combo), nil
}

// Geocode resolves an address to a location.
func (c *Client) Geocode(ctx context.Context, address string) (_ Location, err error) {
	defer func(start time.Time) { c.obs.observe("geocode", start, err) }(time.Now())

	at, err := c.combos.Geocode(ctx, address)
	if err != nil {
		return Location{}, err
	}
	return fromCoordinate(at), nil
}

// ReverseGeocode names the locality at a point.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (_ string, err error) {
	defer func(start time.Time) { c.obs.observe("reverse_geocode", start, err) }(time.Now())

	return c.combos.ReverseGeocode(ctx, geo.Coordinate{Lat: lat, Lng: lng})
}

// Nearby lists qualified venues of one category, "restaurant" or "bar".
func (c *Client) Nearby(
	ctx context.Context, lat, lng float64, radiusMeters int, category string,
) (_ []Venue, err error) {
	defer func(start time.Time) { c.obs.observe("nearby", start, err) }(time.Now())

	cat, err := venue.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	vs, err := c.combos.Nearby(ctx, geo.Coordinate{Lat: lat, Lng: lng}, radiusMeters, cat)
	if err != nil {
		return nil, err
	}
	out := make([]Venue, len(vs))
	for i, v := range vs {
		out[i] = fromVenue(v)
	}
	return out, nil
}

// CacheStats reports result cache counters.
func (c *Client) CacheStats(ctx context.Context) (_ CacheStats, err error) {
	defer func(start time.Time) { c.obs.observe("cache_stats", start, err) }(time.Now())

	s, err := c.store.Stats(ctx)
	if err != nil {
		return CacheStats{}, err
	}
	return CacheStats{
		Keys:      s.Keys,
		Hits:      s.Hits,
		Misses:    s.Misses,
		Sets:      s.Sets,
		Evictions: s.Evictions,
		HitRate:   s.HitRate(),
	}, nil
}

// ClearCache drops every cached provider result and reports how many keys went.
func (c *Client) ClearCache(ctx context.Context) (_ int, err error) {
	defer func(start time.Time) { c.obs.observe("clear_cache", start, err) }(time.Now())

	removed := 0
	for _, p := range placecache.Prefixes() {
		n, err := c.store.Flush(ctx, p)
		removed += n
		if err != nil {
			return removed, err
		}
	}
	return removed, nil
}
