package chi

import (
	"github.com/bestnight/bestnight/internal/db"
	domcombo "github.com/bestnight/bestnight/internal/domain/combo"
	"github.com/bestnight/bestnight/internal/domain/combo/refine"
	"github.com/bestnight/bestnight/internal/domain/geo"
	"github.com/bestnight/bestnight/internal/domain/venue"
)

// ErrorCode is the machine-readable error identifier in error responses.
type ErrorCode string

// Error codes returned to clients.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeInvalidInput     ErrorCode = "invalid_input"
	CodeLocationNotFound ErrorCode = "location_not_found"
	CodeUpstream         ErrorCode = "upstream_error"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeForbidden        ErrorCode = "forbidden"
	CodeNotFound         ErrorCode = "not_found"
	CodeRateLimited      ErrorCode = "rate_limited"
	CodeInternal         ErrorCode = "internal_error"
)

type errorResponse struct {
	Success bool      `json:"success"`
	Code    ErrorCode `json:"code"`
	Error   string    `json:"error"`
}

type locationDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type geometryDTO struct {
	Location locationDTO `json:"location"`
}

type venueDTO struct {
	PlaceID          string      `json:"place_id"`
	Name             string      `json:"name"`
	Rating           *float64    `json:"rating,omitempty"`
	UserRatingsTotal int         `json:"user_ratings_total"`
	PriceLevel       int         `json:"price_level,omitempty"`
	Vicinity         string      `json:"vicinity,omitempty"`
	Types            []string    `json:"types,omitempty"`
	Geometry         geometryDTO `json:"geometry"`
	Cuisine          string      `json:"cuisine,omitempty"`
	Features         []string    `json:"features,omitempty"`
}

type detailsDTO struct {
	venueDTO
	FormattedAddress string `json:"formatted_address,omitempty"`
	Phone            string `json:"formatted_phone_number,omitempty"`
	Website          string `json:"website,omitempty"`
	HoursToday       string `json:"hours_today"`
}

type comboDTO struct {
	ID          string   `json:"id"`
	Restaurant  venueDTO `json:"restaurant"`
	Bar         venueDTO `json:"bar"`
	Distance    float64  `json:"distance"`
	WalkTime    int      `json:"walkTime"`
	ComboRating float64  `json:"comboRating"`
}

type enrichedDTO struct {
	ID          string     `json:"id"`
	Restaurant  detailsDTO `json:"restaurant"`
	Bar         detailsDTO `json:"bar"`
	Distance    float64    `json:"distance"`
	WalkTime    int        `json:"walkTime"`
	ComboRating float64    `json:"comboRating"`
}

// --- Requests ---

type searchRequest struct {
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`
	Radius int      `json:"radius"`
}

type refineFiltersDTO struct {
	Cuisine        string       `json:"cuisine"`
	PriceLevel     int          `json:"price_level"`
	MinRating      float64      `json:"min_rating"`
	MaxDistanceKm  float64      `json:"max_distance_km"`
	Origin         *locationDTO `json:"origin"`
	MaxWalkMinutes int          `json:"max_walk_minutes"`
}

type refineRequest struct {
	Combos  []comboDTO       `json:"combos"`
	Filters refineFiltersDTO `json:"filters"`
	SortBy  string           `json:"sort_by"`
}

// --- Responses ---

type combosResponse struct {
	Success  bool       `json:"success"`
	Count    int        `json:"count"`
	Combos   []comboDTO `json:"combos"`
	Cuisines []string   `json:"cuisines,omitempty"`
}

type enrichedResponse struct {
	Success bool        `json:"success"`
	Combo   enrichedDTO `json:"combo"`
}

type geocodeResponse struct {
	Success  bool        `json:"success"`
	Address  string      `json:"address"`
	Location locationDTO `json:"location"`
}

type reverseGeocodeResponse struct {
	Success bool        `json:"success"`
	Name    string      `json:"name"`
	Point   locationDTO `json:"location"`
}

type nearbyResponse struct {
	Success bool       `json:"success"`
	Count   int        `json:"count"`
	Results []venueDTO `json:"results"`
}

type placeDetailsResponse struct {
	Success bool       `json:"success"`
	Result  detailsDTO `json:"result"`
}

type cacheStatsResponse struct {
	Keys      int64   `json:"keys"`
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Sets      int64   `json:"sets"`
	Evictions int64   `json:"evictions"`
	HitRate   float64 `json:"hit_rate"`
}

type cacheClearResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Removed int    `json:"removed"`
}

type favoritesResponse struct {
	Success   bool       `json:"success"`
	Count     int        `json:"count"`
	Favorites []comboDTO `json:"favorites"`
}

type healthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp string            `json:"timestamp"`
}

// --- Converters ---

func locationToDTO(c geo.Coordinate) locationDTO {
	return locationDTO{Lat: c.Lat, Lng: c.Lng}
}

func (l locationDTO) toDomain() geo.Coordinate {
	return geo.Coordinate{Lat: l.Lat, Lng: l.Lng}
}

func venueToDTO(v venue.Venue, cat venue.Category) venueDTO {
	d := venueDTO{
		PlaceID:          v.ID(),
		Name:             v.Name(),
		UserRatingsTotal: v.ReviewCount(),
		PriceLevel:       v.PriceTier(),
		Vicinity:         v.Vicinity(),
		Types:            v.Types(),
		Geometry:         geometryDTO{Location: locationToDTO(v.Position())},
	}
	if r, ok := v.Rating(); ok {
		d.Rating = &r
	}
	switch cat {
	case venue.Restaurant:
		d.Cuisine = v.Cuisine()
	case venue.Bar:
		d.Features = v.Features()
	}
	return d
}

func (d venueDTO) toDomain() venue.Venue {
	return venue.New(venue.Attrs{
		ID:          d.PlaceID,
		Name:        d.Name,
		Rating:      d.Rating,
		ReviewCount: d.UserRatingsTotal,
		Types:       d.Types,
		PriceTier:   d.PriceLevel,
		Position:    d.Geometry.Location.toDomain(),
		Vicinity:    d.Vicinity,
	})
}

func detailsToDTO(d venue.Details, cat venue.Category) detailsDTO {
	return detailsDTO{
		venueDTO:         venueToDTO(d.Venue, cat),
		FormattedAddress: d.Address(),
		Phone:            d.Phone(),
		Website:          d.Website(),
		HoursToday:       d.HoursToday(),
	}
}

func comboToDTO(c domcombo.Combo) comboDTO {
	return comboDTO{
		ID:          c.ID(),
		Restaurant:  venueToDTO(c.Restaurant(), venue.Restaurant),
		Bar:         venueToDTO(c.Bar(), venue.Bar),
		Distance:    c.DistanceKm(),
		WalkTime:    c.WalkMinutes(),
		ComboRating: c.Score(),
	}
}

func combosToDTO(cs []domcombo.Combo) []comboDTO {
	out := make([]comboDTO, len(cs))
	for i, c := range cs {
		out[i] = comboToDTO(c)
	}
	return out
}

// toDomain restores a combo echoed back by the client, keeping the metrics
// it was served with.
func (d comboDTO) toDomain() domcombo.Combo {
	return domcombo.Reconstruct(d.Restaurant.toDomain(), d.Bar.toDomain(), d.Distance, d.WalkTime, d.ComboRating)
}

func combosFromDTO(ds []comboDTO) []domcombo.Combo {
	out := make([]domcombo.Combo, len(ds))
	for i, d := range ds {
		out[i] = d.toDomain()
	}
	return out
}

func enrichedToDTO(e domcombo.Enriched) enrichedDTO {
	return enrichedDTO{
		ID:          e.ID(),
		Restaurant:  detailsToDTO(e.RestaurantDetails(), venue.Restaurant),
		Bar:         detailsToDTO(e.BarDetails(), venue.Bar),
		Distance:    e.DistanceKm(),
		WalkTime:    e.WalkMinutes(),
		ComboRating: e.Score(),
	}
}

func (f refineFiltersDTO) toDomain() refine.Filter {
	out := refine.Filter{
		Cuisine:        f.Cuisine,
		PriceTier:      f.PriceLevel,
		MinScore:       f.MinRating,
		MaxDistanceKm:  f.MaxDistanceKm,
		MaxWalkMinutes: f.MaxWalkMinutes,
	}
	if f.Origin != nil {
		o := f.Origin.toDomain()
		out.Origin = &o
	}
	return out
}

func statsToDTO(s db.Stats) cacheStatsResponse {
	return cacheStatsResponse{
		Keys:      s.Keys,
		Hits:      s.Hits,
		Misses:    s.Misses,
		Sets:      s.Sets,
		Evictions: s.Evictions,
		HitRate:   s.HitRate(),
	}
}
