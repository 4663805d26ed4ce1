package places

// Google Maps Platform JSON shapes. Only the fields read by the client are declared.

// Provider status values.
const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type geometry struct {
	Location latLng `json:"location"`
}

type place struct {
	PlaceID              string   `json:"place_id"`
	Name                 string   `json:"name"`
	Rating               *float64 `json:"rating"`
	UserRatingsTotal     int      `json:"user_ratings_total"`
	PriceLevel           int      `json:"price_level"`
	Vicinity             string   `json:"vicinity"`
	Types                []string `json:"types"`
	Geometry             geometry `json:"geometry"`
	FormattedAddress     string   `json:"formatted_address"`
	FormattedPhoneNumber string   `json:"formatted_phone_number"`
	Website              string   `json:"website"`
	OpeningHours         *struct {
		OpenNow     bool     `json:"open_now"`
		WeekdayText []string `json:"weekday_text"`
	} `json:"opening_hours"`
}

type nearbyResponse struct {
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message"`
	Results      []place `json:"results"`
}

type detailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       place  `json:"result"`
}

type addressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

type geocodeResult struct {
	FormattedAddress  string             `json:"formatted_address"`
	AddressComponents []addressComponent `json:"address_components"`
	Geometry          geometry           `json:"geometry"`
}

type geocodeResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message"`
	Results      []geocodeResult `json:"results"`
}
