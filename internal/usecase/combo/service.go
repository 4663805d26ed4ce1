package combo

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bestnight/bestnight/internal/domain"
	domcombo "github.com/bestnight/bestnight/internal/domain/combo"
	"github.com/bestnight/bestnight/internal/domain/combo/refine"
	"github.com/bestnight/bestnight/internal/domain/geo"
	"github.com/bestnight/bestnight/internal/domain/venue"
)

// Config tunes matching.
type Config struct {
	MinRating           float64
	Match               domcombo.Options
	DefaultRadiusMeters int
}

// DefaultConfig returns the standard matching settings.
func DefaultConfig() Config {
	return Config{
		MinRating:           venue.DefaultMinRating,
		Match:               domcombo.DefaultOptions(),
		DefaultRadiusMeters: domcombo.DefaultRadiusMeters,
	}
}

// Service finds, refines and enriches restaurant and bar combos.
type Service struct {
	provider       Provider
	cfg            Config
	combosReturned prometheus.Observer
	logger         *zap.Logger
}

// New creates a combo service. combosReturned may be nil.
func New(p Provider, cfg Config, combosReturned prometheus.Observer, logger *zap.Logger) *Service {
	if cfg.DefaultRadiusMeters <= 0 {
		cfg.DefaultRadiusMeters = domcombo.DefaultRadiusMeters
	}
	return &Service{provider: p, cfg: cfg, combosReturned: combosReturned, logger: logger}
}

// Request builds a search request, using the default radius when radiusMeters is 0.
func (s *Service) Request(center geo.Coordinate, radiusMeters int) (domcombo.SearchRequest, error) {
	if radiusMeters == 0 {
		radiusMeters = s.cfg.DefaultRadiusMeters
	}
	req, err := domcombo.NewSearchRequest(center, radiusMeters)
	if err != nil {
		return domcombo.SearchRequest{}, fmt.Errorf("search request: %w", err)
	}
	return req, nil
}

// FindCombos searches restaurants and bars concurrently, qualifies both sets
// and pairs them. A failed category fails the whole search. No walkable pair
// is an empty result, not an error.
func (s *Service) FindCombos(ctx context.Context, req domcombo.SearchRequest) ([]domcombo.Combo, error) {
	var restaurants, bars []venue.Venue

	// Both lookups run to completion so a successful one is still cached.
	var g errgroup.Group
	g.Go(func() error {
		vs, err := s.provider.Nearby(ctx, req.Center(), req.RadiusMeters(), venue.Restaurant)
		if err != nil {
			return fmt.Errorf("search restaurants: %w", err)
		}
		restaurants = vs
		return nil
	})
	g.Go(func() error {
		vs, err := s.provider.Nearby(ctx, req.Center(), req.RadiusMeters(), venue.Bar)
		if err != nil {
			return fmt.Errorf("search bars: %w", err)
		}
		bars = vs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	restaurants = venue.Qualify(restaurants, s.cfg.MinRating)
	bars = venue.Qualify(bars, s.cfg.MinRating)
	combos := domcombo.Match(restaurants, bars, s.cfg.Match)

	if s.combosReturned != nil {
		s.combosReturned.Observe(float64(len(combos)))
	}
	s.logger.Debug("Combos matched",
		zap.String("center", req.Center().String()),
		zap.Int("radius_m", req.RadiusMeters()),
		zap.Int("restaurants", len(restaurants)),
		zap.Int("bars", len(bars)),
		zap.Int("combos", len(combos)),
	)
	return combos, nil
}

// RefineCombos filters and reorders a previously returned combo list.
func (s *Service) RefineCombos(
	combos []domcombo.Combo, f refine.Filter, key refine.SortKey,
) ([]domcombo.Combo, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("refine: %w", err)
	}
	return refine.Apply(combos, f, key), nil
}

// GetDetails fetches details for both venues of a combo concurrently.
// Both lookups must succeed.
func (s *Service) GetDetails(ctx context.Context, c domcombo.Combo) (domcombo.Enriched, error) {
	if c.Restaurant().ID() == "" || c.Bar().ID() == "" {
		return domcombo.Enriched{}, fmt.Errorf("%w: combo needs restaurant and bar ids", domain.ErrInvalidInput)
	}

	var rd, bd venue.Details
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := s.provider.Details(gctx, c.Restaurant().ID())
		if err != nil {
			return fmt.Errorf("restaurant details: %w", err)
		}
		rd = d
		return nil
	})
	g.Go(func() error {
		d, err := s.provider.Details(gctx, c.Bar().ID())
		if err != nil {
			return fmt.Errorf("bar details: %w", err)
		}
		bd = d
		return nil
	})
	if err := g.Wait(); err != nil {
		return domcombo.Enriched{}, err
	}

	return domcombo.Enrich(c, rd, bd), nil
}

// Geocode resolves an address to coordinates.
func (s *Service) Geocode(ctx context.Context, address string) (geo.Coordinate, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return geo.Coordinate{}, fmt.Errorf("%w: address is required", domain.ErrInvalidInput)
	}
	c, err := s.provider.Geocode(ctx, address)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("geocode: %w", err)
	}
	return c, nil
}

// ReverseGeocode names the locality at a point.
func (s *Service) ReverseGeocode(ctx context.Context, at geo.Coordinate) (string, error) {
	if err := at.Validate(); err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}
	name, err := s.provider.ReverseGeocode(ctx, at)
	if err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}
	return name, nil
}

// Nearby lists qualified venues of one category around a point.
func (s *Service) Nearby(
	ctx context.Context, center geo.Coordinate, radiusMeters int, cat venue.Category,
) ([]venue.Venue, error) {
	req, err := s.Request(center, radiusMeters)
	if err != nil {
		return nil, err
	}
	vs, err := s.provider.Nearby(ctx, req.Center(), req.RadiusMeters(), cat)
	if err != nil {
		return nil, fmt.Errorf("nearby %s: %w", cat, err)
	}
	return venue.Qualify(vs, s.cfg.MinRating), nil
}

// PlaceDetails fetches details for one venue.
func (s *Service) PlaceDetails(ctx context.Context, venueID string) (venue.Details, error) {
	venueID = strings.TrimSpace(venueID)
	if venueID == "" {
		return venue.Details{}, fmt.Errorf("%w: place id is required", domain.ErrInvalidInput)
	}
	d, err := s.provider.Details(ctx, venueID)
	if err != nil {
		return venue.Details{}, fmt.Errorf("place details: %w", err)
	}
	return d, nil
}
