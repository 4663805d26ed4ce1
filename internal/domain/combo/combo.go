// Package combo pairs qualified restaurants with walkable bars and ranks the pairs.
package combo

import (
	"math"

	"github.com/bestnight/bestnight/internal/domain/geo"
	"github.com/bestnight/bestnight/internal/domain/venue"
)

// Combo is an immutable restaurant and bar pairing with derived metrics.
type Combo struct {
	id          string
	restaurant  venue.Venue
	bar         venue.Venue
	distanceKm  float64
	walkMinutes int
	score       float64
}

// ID builds the composite combo identifier.
func ID(restaurantID, barID string) string {
	return restaurantID + "_" + barID
}

// New pairs two venues and derives distance, walk time and score.
// Unrated venues contribute 0 to the score.
func New(restaurant, bar venue.Venue) Combo {
	d := geo.DistanceKm(restaurant.Position(), bar.Position())
	rr, _ := restaurant.Rating()
	br, _ := bar.Rating()
	return Combo{
		id:          ID(restaurant.ID(), bar.ID()),
		restaurant:  restaurant,
		bar:         bar,
		distanceKm:  d,
		walkMinutes: geo.WalkMinutes(d),
		score:       Score(rr, br),
	}
}

// Reconstruct restores a combo from a stored snapshot without re-deriving metrics.
func Reconstruct(restaurant, bar venue.Venue, distanceKm float64, walkMinutes int, score float64) Combo {
	return Combo{
		id:          ID(restaurant.ID(), bar.ID()),
		restaurant:  restaurant,
		bar:         bar,
		distanceKm:  distanceKm,
		walkMinutes: walkMinutes,
		score:       score,
	}
}

// Score averages two ratings to one decimal place, halves away from zero.
func Score(restaurantRating, barRating float64) float64 {
	return math.Round((restaurantRating+barRating)/2*10) / 10
}

// ID returns restaurant id + "_" + bar id.
func (c Combo) ID() string { return c.id }

// Restaurant returns the restaurant side.
func (c Combo) Restaurant() venue.Venue { return c.restaurant }

// Bar returns the bar side.
func (c Combo) Bar() venue.Venue { return c.bar }

// DistanceKm returns the great-circle distance between the two venues.
func (c Combo) DistanceKm() float64 { return c.distanceKm }

// WalkMinutes returns the walk time between the two venues.
func (c Combo) WalkMinutes() int { return c.walkMinutes }

// Score returns the combo score (0.0-5.0).
func (c Combo) Score() float64 { return c.score }

// Enriched is a combo with contact details for both venues.
type Enriched struct {
	Combo
	restaurant venue.Details
	bar        venue.Details
}

// Enrich attaches details fetched for the combo's venues.
func Enrich(c Combo, restaurant, bar venue.Details) Enriched {
	return Enriched{Combo: c, restaurant: restaurant, bar: bar}
}

// RestaurantDetails returns the enriched restaurant.
func (e Enriched) RestaurantDetails() venue.Details { return e.restaurant }

// BarDetails returns the enriched bar.
func (e Enriched) BarDetails() venue.Details { return e.bar }
