package combo

import (
	"sort"

	"github.com/bestnight/bestnight/internal/domain/venue"
)

// Matching defaults.
const (
	DefaultMaxWalkKm = 0.5
	DefaultTopN      = 10
)

// Options tunes the matcher.
//
// TopN caps each side to its best-rated venues before pairing, bounding the
// cross product to TopN² candidates. A walkable pair is missed when both of
// its venues rank outside the cap. TopN <= 0 disables the cap.
type Options struct {
	MaxWalkKm float64
	TopN      int
}

// DefaultOptions returns the matcher defaults.
func DefaultOptions() Options {
	return Options{MaxWalkKm: DefaultMaxWalkKm, TopN: DefaultTopN}
}

// Match pairs every capped restaurant with every capped bar, keeps walkable
// pairs and ranks them by score desc, distance asc, restaurant id, bar id.
// Venues without a rating are not paired.
func Match(restaurants, bars []venue.Venue, opts Options) []Combo {
	rs := topRated(restaurants, opts.TopN)
	bs := topRated(bars, opts.TopN)

	combos := make([]Combo, 0, len(rs)*len(bs))
	seen := make(map[string]struct{}, len(rs)*len(bs))

	for _, r := range rs {
		for _, b := range bs {
			c := New(r, b)
			if !Walkable(c, opts.MaxWalkKm) {
				continue
			}
			if _, dup := seen[c.ID()]; dup {
				continue
			}
			seen[c.ID()] = struct{}{}
			combos = append(combos, c)
		}
	}

	Rank(combos)
	return combos
}

// Rank sorts combos in place in canonical order.
func Rank(combos []Combo) {
	sort.Slice(combos, func(i, j int) bool {
		return Less(combos[i], combos[j])
	})
}

// Less reports whether a ranks before b in canonical order.
func Less(a, b Combo) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if a.distanceKm != b.distanceKm {
		return a.distanceKm < b.distanceKm
	}
	if a.restaurant.ID() != b.restaurant.ID() {
		return a.restaurant.ID() < b.restaurant.ID()
	}
	return a.bar.ID() < b.bar.ID()
}

// topRated drops unrated venues and keeps the n best-rated, ties in input order.
func topRated(vs []venue.Venue, n int) []venue.Venue {
	out := make([]venue.Venue, 0, len(vs))
	for _, v := range vs {
		if _, ok := v.Rating(); ok {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, _ := out[i].Rating()
		rj, _ := out[j].Rating()
		return ri > rj
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Walkable reports whether the combo distance is within maxWalkKm, inclusive.
func Walkable(c Combo, maxWalkKm float64) bool {
	return c.DistanceKm() <= maxWalkKm
}
