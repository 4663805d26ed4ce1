// Package venue models places returned by the provider and the rating
// threshold that qualifies them for pairing.
package venue

import (
	"fmt"
	"strings"

	"github.com/bestnight/bestnight/internal/domain"
	"github.com/bestnight/bestnight/internal/domain/geo"
)

// Category is the provider place type searched for.
type Category string

// Searchable categories.
const (
	Restaurant Category = "restaurant"
	Bar        Category = "bar"
)

// ParseCategory validates a provider category name. Empty means Restaurant.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case "", Restaurant:
		return Restaurant, nil
	case Bar:
		return Bar, nil
	default:
		return "", fmt.Errorf("%w: unknown place type %q", domain.ErrInvalidInput, s)
	}
}

// MaxPriceTier is the highest provider price level.
const MaxPriceTier = 4

// Attrs carries the raw fields of a venue. Rating is nil when the provider
// has no rating for the place.
type Attrs struct {
	ID          string
	Name        string
	Rating      *float64
	ReviewCount int
	Types       []string
	PriceTier   int
	Position    geo.Coordinate
	Vicinity    string
}

// Venue is an immutable place snapshot.
type Venue struct {
	id          string
	name        string
	rating      float64
	rated       bool
	reviewCount int
	types       []string
	priceTier   int
	position    geo.Coordinate
	vicinity    string
}

// New creates a Venue, clamping review count and price tier into range.
func New(a Attrs) Venue {
	v := Venue{
		id:          a.ID,
		name:        a.Name,
		reviewCount: max(a.ReviewCount, 0),
		priceTier:   min(max(a.PriceTier, 0), MaxPriceTier),
		position:    a.Position,
		vicinity:    a.Vicinity,
	}
	if a.Rating != nil {
		v.rating = *a.Rating
		v.rated = true
	}
	if len(a.Types) > 0 {
		v.types = append([]string(nil), a.Types...)
	}
	return v
}

// Rated is a helper for building Attrs with a present rating.
func Rated(r float64) *float64 { return &r }

// ID returns the provider key.
func (v Venue) ID() string { return v.id }

// Name returns the display name.
func (v Venue) Name() string { return v.name }

// Rating returns the rating and whether it is present.
func (v Venue) Rating() (float64, bool) { return v.rating, v.rated }

// ReviewCount returns the number of user ratings.
func (v Venue) ReviewCount() int { return v.reviewCount }

// Types returns a copy of the provider type tags.
func (v Venue) Types() []string { return append([]string(nil), v.types...) }

// PriceTier returns the provider price level, 0 when unknown.
func (v Venue) PriceTier() int { return v.priceTier }

// Position returns the venue location.
func (v Venue) Position() geo.Coordinate { return v.position }

// Vicinity returns the short address.
func (v Venue) Vicinity() string { return v.vicinity }

// Attrs returns the raw fields, for persistence and transport.
func (v Venue) Attrs() Attrs {
	a := Attrs{
		ID:          v.id,
		Name:        v.name,
		ReviewCount: v.reviewCount,
		Types:       v.Types(),
		PriceTier:   v.priceTier,
		Position:    v.position,
		Vicinity:    v.vicinity,
	}
	if v.rated {
		a.Rating = Rated(v.rating)
	}
	return a
}

// Cuisine labels a restaurant by its first specific type tag, e.g. "Fast Food".
func (v Venue) Cuisine() string {
	for _, t := range v.types {
		if _, generic := genericRestaurantTypes[t]; !generic {
			return formatType(t)
		}
	}
	return "Restaurant"
}

// Features lists up to three specific type tags of a bar.
func (v Venue) Features() []string {
	out := make([]string, 0, maxFeatures)
	for _, t := range v.types {
		if _, generic := genericBarTypes[t]; generic {
			continue
		}
		out = append(out, formatType(t))
		if len(out) == maxFeatures {
			break
		}
	}
	return out
}

const maxFeatures = 3

var genericRestaurantTypes = map[string]struct{}{
	"restaurant":        {},
	"food":              {},
	"point_of_interest": {},
	"establishment":     {},
}

var genericBarTypes = map[string]struct{}{
	"bar":               {},
	"point_of_interest": {},
	"establishment":     {},
}

// formatType turns "fast_food" into "Fast Food".
func formatType(t string) string {
	words := strings.Split(t, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
