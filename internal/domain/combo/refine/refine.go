// Package refine narrows and reorders an already ranked combo list.
package refine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bestnight/bestnight/internal/domain"
	"github.com/bestnight/bestnight/internal/domain/combo"
	"github.com/bestnight/bestnight/internal/domain/geo"
)

// AllCuisines matches any cuisine.
const AllCuisines = "all"

// SortKey selects the ordering of refined combos.
type SortKey string

// Sort keys, using the mobile client's names.
const (
	SortScore      SortKey = "rating"
	SortWalk       SortKey = "distance"
	SortRestaurant SortKey = "restaurant"
	SortBar        SortKey = "bar"
)

// ParseSortKey validates a sort key. Empty selects SortScore.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortScore, nil
	case SortScore, SortWalk, SortRestaurant, SortBar:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown sort key %q", domain.ErrInvalidInput, s)
	}
}

// Filter holds optional constraints, combined with AND. Zero values are unset.
type Filter struct {
	// Cuisine matches the restaurant cuisine label, case-insensitively.
	Cuisine string
	// PriceTier matches the restaurant price level (1-4).
	PriceTier int
	// MinScore is the lowest combo score kept.
	MinScore float64
	// Origin and MaxDistanceKm bound the searcher-to-restaurant distance.
	Origin        *geo.Coordinate
	MaxDistanceKm float64
	// MaxWalkMinutes bounds the restaurant-to-bar walk.
	MaxWalkMinutes int
}

// Validate rejects out-of-range constraints.
func (f Filter) Validate() error {
	if f.PriceTier < 0 || f.PriceTier > 4 {
		return fmt.Errorf("%w: price tier %d out of range [0,4]", domain.ErrInvalidInput, f.PriceTier)
	}
	if f.MinScore < 0 || f.MinScore > 5 {
		return fmt.Errorf("%w: min score %v out of range [0,5]", domain.ErrInvalidInput, f.MinScore)
	}
	if f.MaxDistanceKm < 0 || f.MaxWalkMinutes < 0 {
		return fmt.Errorf("%w: distance and walk limits must not be negative", domain.ErrInvalidInput)
	}
	if f.MaxDistanceKm > 0 && f.Origin == nil {
		return fmt.Errorf("%w: max distance requires an origin", domain.ErrInvalidInput)
	}
	if f.Origin != nil {
		if err := f.Origin.Validate(); err != nil {
			return fmt.Errorf("origin: %w", err)
		}
	}
	return nil
}

// Match reports whether c satisfies every set constraint.
func (f Filter) Match(c combo.Combo) bool {
	if f.Cuisine != "" && !strings.EqualFold(f.Cuisine, AllCuisines) &&
		!strings.EqualFold(c.Restaurant().Cuisine(), f.Cuisine) {
		return false
	}
	if f.PriceTier > 0 && c.Restaurant().PriceTier() != f.PriceTier {
		return false
	}
	if f.MinScore > 0 && c.Score() < f.MinScore {
		return false
	}
	if f.Origin != nil && f.MaxDistanceKm > 0 &&
		geo.DistanceKm(*f.Origin, c.Restaurant().Position()) > f.MaxDistanceKm {
		return false
	}
	if f.MaxWalkMinutes > 0 && c.WalkMinutes() > f.MaxWalkMinutes {
		return false
	}
	return true
}

// Apply returns the combos matching f, ordered by key. The input is not
// modified and the result depends only on the input set, f and key.
func Apply(combos []combo.Combo, f Filter, key SortKey) []combo.Combo {
	out := make([]combo.Combo, 0, len(combos))
	for _, c := range combos {
		if f.Match(c) {
			out = append(out, c)
		}
	}

	primary := comparator(key)
	sort.Slice(out, func(i, j int) bool {
		if d := primary(out[i], out[j]); d != 0 {
			return d < 0
		}
		return combo.Less(out[i], out[j])
	})
	return out
}

// Cuisines lists distinct restaurant cuisine labels in first-seen order.
func Cuisines(combos []combo.Combo) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, c := range combos {
		label := c.Restaurant().Cuisine()
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}

// comparator returns a three-way compare for the primary sort key.
func comparator(key SortKey) func(a, b combo.Combo) int {
	switch key {
	case SortWalk:
		return func(a, b combo.Combo) int {
			return a.WalkMinutes() - b.WalkMinutes()
		}
	case SortRestaurant:
		return func(a, b combo.Combo) int {
			return desc(rating(a.Restaurant().Rating()), rating(b.Restaurant().Rating()))
		}
	case SortBar:
		return func(a, b combo.Combo) int {
			return desc(rating(a.Bar().Rating()), rating(b.Bar().Rating()))
		}
	default:
		return func(a, b combo.Combo) int {
			return desc(a.Score(), b.Score())
		}
	}
}

func rating(r float64, _ bool) float64 { return r }

func desc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}
