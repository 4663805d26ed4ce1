package combo

import (
	"context"

	"github.com/bestnight/bestnight/internal/domain/geo"
	"github.com/bestnight/bestnight/internal/domain/venue"
)

// VenueSearcher finds venues by category near a point.
type VenueSearcher interface {
	Nearby(ctx context.Context, center geo.Coordinate, radiusMeters int, cat venue.Category) ([]venue.Venue, error)
}

// Geocoder resolves addresses and points.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (geo.Coordinate, error)
	ReverseGeocode(ctx context.Context, at geo.Coordinate) (string, error)
}

// DetailsFetcher loads contact details for a venue.
type DetailsFetcher interface {
	Details(ctx context.Context, venueID string) (venue.Details, error)
}

// Provider is the full provider surface the service consumes.
type Provider interface {
	VenueSearcher
	Geocoder
	DetailsFetcher
}
