// Package places is a venue.Provider backed by the Google Maps Platform
// Places and Geocoding web services.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bestnight/bestnight/internal/domain"
	"github.com/bestnight/bestnight/internal/domain/geo"
	"github.com/bestnight/bestnight/internal/domain/venue"
	"github.com/bestnight/bestnight/internal/metrics"
)

// DefaultBaseURL is the Google Maps web service root.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api"

// DefaultTimeout bounds each upstream call.
const DefaultTimeout = 10 * time.Second

// detailsFields is the field mask for place details requests.
const detailsFields = "place_id,name,rating,user_ratings_total,price_level,opening_hours," +
	"formatted_address,geometry,types,website,formatted_phone_number,vicinity"

// maxErrorBody caps how much of an error response is kept for diagnostics.
const maxErrorBody = 512

// Operation labels for metrics and errors.
const (
	opNearby  = "nearby"
	opGeocode = "geocode"
	opReverse = "reverse_geocode"
	opDetails = "details"
)

// Compile-time check: Client implements venue.Provider.
var _ venue.Provider = (*Client)(nil)

// Client calls the Places and Geocoding APIs.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	logger  *zap.Logger
	now     func() time.Time
}

// Config holds the provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
	// HTTPClient overrides the default client. Its Timeout is left as is.
	HTTPClient *http.Client
}

// NewClient creates a places client.
func NewClient(cfg *Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		http:    hc,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.APIKey,
		logger:  logger,
		now:     time.Now,
	}
}

// Nearby lists places of the given category within radiusMeters of center.
// No results is an empty list, not an error.
func (c *Client) Nearby(
	ctx context.Context, center geo.Coordinate, radiusMeters int, cat venue.Category,
) ([]venue.Venue, error) {
	params := url.Values{}
	params.Set("location", center.String())
	params.Set("radius", strconv.Itoa(radiusMeters))
	params.Set("type", string(cat))

	var resp nearbyResponse
	if err := c.get(ctx, opNearby, "/place/nearbysearch/json", params, &resp); err != nil {
		return nil, err
	}
	if err := c.checkStatus(opNearby, resp.Status, resp.ErrorMessage, false); err != nil {
		return nil, err
	}

	out := make([]venue.Venue, 0, len(resp.Results))
	for i := range resp.Results {
		out = append(out, toVenue(&resp.Results[i]))
	}
	return out, nil
}

// Geocode resolves an address to the coordinates of the best match.
func (c *Client) Geocode(ctx context.Context, address string) (geo.Coordinate, error) {
	params := url.Values{}
	params.Set("address", address)

	var resp geocodeResponse
	if err := c.get(ctx, opGeocode, "/geocode/json", params, &resp); err != nil {
		return geo.Coordinate{}, err
	}
	if err := c.checkStatus(opGeocode, resp.Status, resp.ErrorMessage, true); err != nil {
		return geo.Coordinate{}, err
	}
	if len(resp.Results) == 0 {
		return geo.Coordinate{}, fmt.Errorf("geocode %q: %w", address, domain.ErrLocationNotFound)
	}

	loc := resp.Results[0].Geometry.Location
	return geo.Coordinate{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// ReverseGeocode names the locality at a point. It falls back to the
// formatted address, then to venue.UnknownLocation.
func (c *Client) ReverseGeocode(ctx context.Context, at geo.Coordinate) (string, error) {
	params := url.Values{}
	params.Set("latlng", at.String())

	var resp geocodeResponse
	if err := c.get(ctx, opReverse, "/geocode/json", params, &resp); err != nil {
		return "", err
	}
	if err := c.checkStatus(opReverse, resp.Status, resp.ErrorMessage, true); err != nil {
		return "", err
	}
	if len(resp.Results) == 0 {
		return "", fmt.Errorf("reverse geocode %s: %w", at, domain.ErrLocationNotFound)
	}

	return displayName(&resp.Results[0]), nil
}

// Details fetches contact information and today's opening hours for a place.
func (c *Client) Details(ctx context.Context, venueID string) (venue.Details, error) {
	params := url.Values{}
	params.Set("place_id", venueID)
	params.Set("fields", detailsFields)

	var resp detailsResponse
	if err := c.get(ctx, opDetails, "/place/details/json", params, &resp); err != nil {
		return venue.Details{}, err
	}
	if err := c.checkStatus(opDetails, resp.Status, resp.ErrorMessage, false); err != nil {
		return venue.Details{}, err
	}

	p := &resp.Result
	if p.PlaceID == "" {
		p.PlaceID = venueID
	}
	info := venue.Info{
		Address: p.FormattedAddress,
		Phone:   p.FormattedPhoneNumber,
		Website: p.Website,
	}
	if p.OpeningHours != nil {
		info.HoursToday = hoursOn(p.OpeningHours.WeekdayText, c.now().Weekday())
	}
	return venue.NewDetails(toVenue(p), info), nil
}

// HealthCheck verifies the API key with a cheap geocode call.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.apiKey == "" {
		return fmt.Errorf("places api key not set: %w", domain.ErrUpstream)
	}
	if _, err := c.Geocode(ctx, "London"); err != nil && !errors.Is(err, domain.ErrLocationNotFound) {
		return fmt.Errorf("geocode probe: %w", err)
	}
	return nil
}

// get issues a GET request and decodes the JSON body into out. Transport
// failures and non-2xx statuses wrap domain.ErrUpstream.
func (c *Client) get(ctx context.Context, op, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	metrics.PlacesRequestDuration.WithLabelValues(op).Observe(duration.Seconds())

	if err != nil {
		c.fail(op, "transport")
		msg := redactKey(err.Error(), c.apiKey)
		c.logger.Warn("places request failed",
			zap.String("op", op), zap.Duration("duration", duration), zap.String("error", msg))
		return fmt.Errorf("%s request failed: %s: %w", op, msg, domain.ErrUpstream)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.fail(op, "http_"+strconv.Itoa(resp.StatusCode))
		return fmt.Errorf("%s API error %d: %s: %w",
			op, resp.StatusCode, strings.TrimSpace(string(body)), domain.ErrUpstream)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.fail(op, "decode")
		return fmt.Errorf("%s: decode response: %v: %w", op, err, domain.ErrUpstream)
	}
	return nil
}

// checkStatus maps the provider's in-body status. ZERO_RESULTS is success
// for list lookups; notFound turns it into domain.ErrLocationNotFound.
func (c *Client) checkStatus(op, status, message string, notFound bool) error {
	switch status {
	case statusOK, "":
		metrics.PlacesRequestsTotal.WithLabelValues(op, "success").Inc()
		return nil
	case statusZeroResults:
		metrics.PlacesRequestsTotal.WithLabelValues(op, "success").Inc()
		if notFound {
			return fmt.Errorf("%s: no results: %w", op, domain.ErrLocationNotFound)
		}
		return nil
	default:
		c.fail(op, strings.ToLower(status))
		if message != "" {
			return fmt.Errorf("%s API status %s: %s: %w", op, status, message, domain.ErrUpstream)
		}
		return fmt.Errorf("%s API status %s: %w", op, status, domain.ErrUpstream)
	}
}

func (c *Client) fail(op, errType string) {
	metrics.PlacesRequestsTotal.WithLabelValues(op, "error").Inc()
	metrics.PlacesErrorsTotal.WithLabelValues(op, errType).Inc()
}

func toVenue(p *place) venue.Venue {
	return venue.New(venue.Attrs{
		ID:          p.PlaceID,
		Name:        p.Name,
		Rating:      p.Rating,
		ReviewCount: p.UserRatingsTotal,
		Types:       p.Types,
		PriceTier:   p.PriceLevel,
		Position:    geo.Coordinate{Lat: p.Geometry.Location.Lat, Lng: p.Geometry.Location.Lng},
		Vicinity:    p.Vicinity,
	})
}

func displayName(r *geocodeResult) string {
	for _, comp := range r.AddressComponents {
		for _, t := range comp.Types {
			if t == "locality" && comp.LongName != "" {
				return comp.LongName
			}
		}
	}
	if r.FormattedAddress != "" {
		return r.FormattedAddress
	}
	return venue.UnknownLocation
}

// hoursOn picks the weekday line from a Monday-first weekday_text list.
func hoursOn(weekdayText []string, day time.Weekday) string {
	if len(weekdayText) != 7 {
		return ""
	}
	return weekdayText[(int(day)+6)%7]
}

// redactKey strips the API key from url.Error messages.
func redactKey(msg, key string) string {
	if key == "" {
		return msg
	}
	return strings.ReplaceAll(msg, key, "REDACTED")
}
