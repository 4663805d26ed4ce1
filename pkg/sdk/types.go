package bestnight

import (
	domcombo "github.com/bestnight/bestnight/internal/domain/combo"
	"github.com/bestnight/bestnight/internal/domain/combo/refine"
	"github.com/bestnight/bestnight/internal/domain/geo"
	"github.com/bestnight/bestnight/internal/domain/venue"
)

// Location is a WGS84 point in degrees.
type Location struct {
	Lat float64
	Lng float64
}

// Venue is a restaurant or bar returned by the provider.
type Venue struct {
	ID          string
	Name        string
	Rating      float64
	Rated       bool
	ReviewCount int
	PriceTier   int // 0 when unknown, 1-4 otherwise
	Types       []string
	Location    Location
	Vicinity    string
	Cuisine     string   // restaurants only
	Features    []string // bars only
}

// VenueDetails is a Venue with contact information.
type VenueDetails struct {
	Venue
	Address    string
	Phone      string
	Website    string
	HoursToday string
}

// Combo pairs a restaurant with a bar within walking distance.
type Combo struct {
	ID          string
	Restaurant  Venue
	Bar         Venue
	DistanceKm  float64
	WalkMinutes int
	Score       float64
}

// EnrichedCombo is a Combo with details for both venues.
type EnrichedCombo struct {
	Combo
	Restaurant VenueDetails
	Bar        VenueDetails
}

// SortBy selects the ordering of refined combos.
type SortBy string

// Sort orders accepted by Refine.
const (
	SortByRating     SortBy = SortBy(refine.SortScore)
	SortByWalk       SortBy = SortBy(refine.SortWalk)
	SortByRestaurant SortBy = SortBy(refine.SortRestaurant)
	SortByBar        SortBy = SortBy(refine.SortBar)
)

// Filter narrows a combo list. Zero values are unset.
type Filter struct {
	Cuisine        string
	PriceTier      int
	MinScore       float64
	Origin         *Location
	MaxDistanceKm  float64
	MaxWalkMinutes int
}

// CacheStats reports result cache counters.
type CacheStats struct {
	Keys      int64
	Hits      int64
	Misses    int64
	Sets      int64
	Evictions int64
	HitRate   float64
}

func toCoordinate(l Location) geo.Coordinate {
	return geo.Coordinate{Lat: l.Lat, Lng: l.Lng}
}

func fromCoordinate(c geo.Coordinate) Location {
	return Location{Lat: c.Lat, Lng: c.Lng}
}

func fromVenue(v venue.Venue) Venue {
	rating, rated := v.Rating()
	return Venue{
		ID:          v.ID(),
		Name:        v.Name(),
		Rating:      rating,
		Rated:       rated,
		ReviewCount: v.ReviewCount(),
		PriceTier:   v.PriceTier(),
		Types:       v.Types(),
		Location:    fromCoordinate(v.Position()),
		Vicinity:    v.Vicinity(),
		Cuisine:     v.Cuisine(),
		Features:    v.Features(),
	}
}

func toVenue(v Venue) venue.Venue {
	a := venue.Attrs{
		ID:          v.ID,
		Name:        v.Name,
		ReviewCount: v.ReviewCount,
		Types:       v.Types,
		PriceTier:   v.PriceTier,
		Position:    toCoordinate(v.Location),
		Vicinity:    v.Vicinity,
	}
	if v.Rated {
		a.Rating = venue.Rated(v.Rating)
	}
	return venue.New(a)
}

func fromDetails(d venue.Details) VenueDetails {
	return VenueDetails{
		Venue:      fromVenue(d.Venue),
		Address:    d.Address(),
		Phone:      d.Phone(),
		Website:    d.Website(),
		HoursToday: d.HoursToday(),
	}
}

func fromCombo(c domcombo.Combo) Combo {
	return Combo{
		ID:          c.ID(),
		Restaurant:  fromVenue(c.Restaurant()),
		Bar:         fromVenue(c.Bar()),
		DistanceKm:  c.DistanceKm(),
		WalkMinutes: c.WalkMinutes(),
		Score:       c.Score(),
	}
}

func fromCombos(cs []domcombo.Combo) []Combo {
	out := make([]Combo, len(cs))
	for i, c := range cs {
		out[i] = fromCombo(c)
	}
	return out
}

func toCombo(c Combo) domcombo.Combo {
	return domcombo.Reconstruct(toVenue(c.Restaurant), toVenue(c.Bar), c.DistanceKm, c.WalkMinutes, c.Score)
}

func toCombos(cs []Combo) []domcombo.Combo {
	out := make([]domcombo.Combo, len(cs))
	for i, c := range cs {
		out[i] = toCombo(c)
	}
	return out
}

func fromEnriched(e domcombo.Enriched, c Combo) EnrichedCombo {
	return EnrichedCombo{
		Combo:      c,
		Restaurant: fromDetails(e.RestaurantDetails()),
		Bar:        fromDetails(e.BarDetails()),
	}
}

func toFilter(f Filter) refine.Filter {
	rf := refine.Filter{
		Cuisine:        f.Cuisine,
		PriceTier:      f.PriceTier,
		MinScore:       f.MinScore,
		MaxDistanceKm:  f.MaxDistanceKm,
		MaxWalkMinutes: f.MaxWalkMinutes,
	}
	if f.Origin != nil {
		o := toCoordinate(*f.Origin)
		rf.Origin = &o
	}
	return rf
}
