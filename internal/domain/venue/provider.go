package venue

import (
	"context"

	"github.com/bestnight/bestnight/internal/domain/geo"
)

// Provider is the external venue search and geocoding source.
type Provider interface {
	Nearby(ctx context.Context, center geo.Coordinate, radiusMeters int, cat Category) ([]Venue, error)
	Geocode(ctx context.Context, address string) (geo.Coordinate, error)
	ReverseGeocode(ctx context.Context, at geo.Coordinate) (string, error)
	Details(ctx context.Context, venueID string) (Details, error)
}

// HealthChecker verifies provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
