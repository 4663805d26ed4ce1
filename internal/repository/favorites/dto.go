package favorites

import (
	"github.com/bestnight/bestnight/internal/domain/combo"
	"github.com/bestnight/bestnight/internal/domain/geo"
	"github.com/bestnight/bestnight/internal/domain/venue"
)

type venueDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount int      `json:"review_count,omitempty"`
	Types       []string `json:"types,omitempty"`
	PriceTier   int      `json:"price_tier,omitempty"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Vicinity    string   `json:"vicinity,omitempty"`
}

// comboDTO is a stored favorite. Metrics are kept as computed at save time.
type comboDTO struct {
	Restaurant  venueDTO `json:"restaurant"`
	Bar         venueDTO `json:"bar"`
	DistanceKm  float64  `json:"distance_km"`
	WalkMinutes int      `json:"walk_minutes"`
	Score       float64  `json:"score"`
}

func toVenueDTO(v venue.Venue) venueDTO {
	a := v.Attrs()
	return venueDTO{
		ID:          a.ID,
		Name:        a.Name,
		Rating:      a.Rating,
		ReviewCount: a.ReviewCount,
		Types:       a.Types,
		PriceTier:   a.PriceTier,
		Lat:         a.Position.Lat,
		Lng:         a.Position.Lng,
		Vicinity:    a.Vicinity,
	}
}

func (d venueDTO) toDomain() venue.Venue {
	return venue.New(venue.Attrs{
		ID:          d.ID,
		Name:        d.Name,
		Rating:      d.Rating,
		ReviewCount: d.ReviewCount,
		Types:       d.Types,
		PriceTier:   d.PriceTier,
		Position:    geo.Coordinate{Lat: d.Lat, Lng: d.Lng},
		Vicinity:    d.Vicinity,
	})
}

func toComboDTO(c combo.Combo) comboDTO {
	return comboDTO{
		Restaurant:  toVenueDTO(c.Restaurant()),
		Bar:         toVenueDTO(c.Bar()),
		DistanceKm:  c.DistanceKm(),
		WalkMinutes: c.WalkMinutes(),
		Score:       c.Score(),
	}
}

func (d comboDTO) toDomain() combo.Combo {
	return combo.Reconstruct(d.Restaurant.toDomain(), d.Bar.toDomain(), d.DistanceKm, d.WalkMinutes, d.Score)
}
