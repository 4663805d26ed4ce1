package placecache

import (
	"github.com/bestnight/bestnight/internal/domain/geo"
	"github.com/bestnight/bestnight/internal/domain/venue"
)

// venueDTO is the cached JSON form of a venue.
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

// detailsDTO is the cached JSON form of venue details.
type detailsDTO struct {
	Venue      venueDTO `json:"venue"`
	Address    string   `json:"address,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Website    string   `json:"website,omitempty"`
	HoursToday string   `json:"hours_today,omitempty"`
}

func toDetailsDTO(d venue.Details) detailsDTO {
	info := d.Info()
	return detailsDTO{
		Venue:      toVenueDTO(d.Venue),
		Address:    info.Address,
		Phone:      info.Phone,
		Website:    info.Website,
		HoursToday: info.HoursToday,
	}
}

func (d detailsDTO) toDomain() venue.Details {
	return venue.NewDetails(d.Venue.toDomain(), venue.Info{
		Address:    d.Address,
		Phone:      d.Phone,
		Website:    d.Website,
		HoursToday: d.HoursToday,
	})
}

type coordinateDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type nameDTO struct {
	Name string `json:"name"`
}
