package combo

import (
	"fmt"

	"github.com/bestnight/bestnight/internal/domain"
	"github.com/bestnight/bestnight/internal/domain/geo"
)

// Search radius bounds in metres.
const (
	DefaultRadiusMeters = 1000
	MaxRadiusMeters     = 50000
)

// SearchRequest is a validated combo search around a point.
type SearchRequest struct {
	center       geo.Coordinate
	radiusMeters int
}

// NewSearchRequest validates the center and radius.
func NewSearchRequest(center geo.Coordinate, radiusMeters int) (SearchRequest, error) {
	if err := center.Validate(); err != nil {
		return SearchRequest{}, fmt.Errorf("center: %w", err)
	}
	if radiusMeters <= 0 || radiusMeters > MaxRadiusMeters {
		return SearchRequest{}, fmt.Errorf("%w: radius %d out of range (0,%d]",
			domain.ErrInvalidInput, radiusMeters, MaxRadiusMeters)
	}
	return SearchRequest{center: center, radiusMeters: radiusMeters}, nil
}

// Center returns the search center.
func (r SearchRequest) Center() geo.Coordinate { return r.center }

// RadiusMeters returns the search radius.
func (r SearchRequest) RadiusMeters() int { return r.radiusMeters }
