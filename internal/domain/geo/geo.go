package geo

import (
	"fmt"
	"math"

	"github.com/bestnight/bestnight/internal/domain"
)

// EarthRadiusKm is the mean radius of Earth used for Haversine distance.
const EarthRadiusKm = 6371.0

// WalkSpeedKmh is the average walking speed used to derive walk time.
const WalkSpeedKmh = 5.0

// Coordinate is a WGS84 point in degrees.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Validate checks that latitude is in [-90,90] and longitude in [-180,180].
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return fmt.Errorf("%w: coordinate is not a finite number", domain.ErrInvalidInput)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90,90]", domain.ErrInvalidInput, c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180,180]", domain.ErrInvalidInput, c.Lng)
	}
	return nil
}

// Key renders the coordinate rounded to 4 decimals (~11 m), so nearby
// lookups from almost the same spot share a cache entry.
func (c Coordinate) Key() string {
	return fmt.Sprintf("%.4f:%.4f", c.Lat, c.Lng)
}

// String implements fmt.Stringer in the provider's "lat,lng" form.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}

// DistanceKm returns the great-circle distance in kilometers between two points.
func DistanceKm(a, b Coordinate) float64 {
	lat1r := a.Lat * math.Pi / 180
	lat2r := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// WalkMinutes converts a distance to whole walking minutes at WalkSpeedKmh.
// Halves round away from zero; negative distances yield 0.
func WalkMinutes(distanceKm float64) int {
	if distanceKm <= 0 {
		return 0
	}
	return int(math.Round(distanceKm / WalkSpeedKmh * 60))
}
