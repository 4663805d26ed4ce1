package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bestnight/bestnight/internal/domain"
	"github.com/bestnight/bestnight/internal/domain/combo/refine"
	"github.com/bestnight/bestnight/internal/domain/geo"
	"github.com/bestnight/bestnight/internal/domain/venue"
	cacheuc "github.com/bestnight/bestnight/internal/usecase/cache"
	combouc "github.com/bestnight/bestnight/internal/usecase/combo"
	favoritesuc "github.com/bestnight/bestnight/internal/usecase/favorites"
	healthuc "github.com/bestnight/bestnight/internal/usecase/health"
)

// maxBodyBytes bounds JSON request bodies; refine echoes a full combo list.
const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// RateLimit bounds /api requests per client IP. Requests <= 0 disables it.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// Server serves the BestNight HTTP API.
type Server struct {
	combos        *combouc.Service
	cache         *cacheuc.Service
	favorites     *favoritesuc.Service
	health        *healthuc.Service
	rateLimit     RateLimit
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	combos *combouc.Service,
	cache *cacheuc.Service,
	favorites *favoritesuc.Service,
	health *healthuc.Service,
	rateLimit RateLimit,
	logger *zap.Logger,
) *Server {
	s := &Server{
		combos:    combos,
		cache:     cache,
		favorites: favorites,
		health:    health,
		rateLimit: rateLimit,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, CodeInvalidInput),
		sentinelHandler(domain.ErrLocationNotFound, http.StatusNotFound, CodeLocationNotFound),
		sentinelHandler(domain.ErrUpstream, http.StatusBadGateway, CodeUpstream),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized),
		sentinelHandler(domain.ErrForbidden, http.StatusForbidden, CodeForbidden),
	}
	return s
}

// Routes mounts every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		if s.rateLimit.Requests > 0 {
			api.Use(httprate.Limit(s.rateLimit.Requests, s.rateLimit.Window,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
					writeError(w, http.StatusTooManyRequests, CodeRateLimited, "too many requests, try again later")
				}),
			))
		}

		api.Post("/combos/search", s.SearchCombos)
		api.Post("/combos/refine", s.RefineCombos)
		api.Post("/combos/details", s.ComboDetails)

		api.Get("/geocode", s.Geocode)
		api.Get("/reverse-geocode", s.ReverseGeocode)
		api.Get("/places/nearby", s.NearbyPlaces)
		api.Get("/places/details", s.PlaceDetails)

		api.Get("/cache/stats", s.CacheStats)
		api.Post("/cache/clear", s.CacheClear)

		api.Route("/favorites", func(fav chi.Router) {
			fav.Use(RequireClientID)
			fav.Get("/", s.ListFavorites)
			fav.Post("/", s.AddFavorite)
			fav.Delete("/{id}", s.RemoveFavorite)
		})
	})
}

// SearchCombos handles POST /api/combos/search.
func (s *Server) SearchCombos(w http.ResponseWriter, r *http.Request) {
	var body searchRequest
	if !s.decodeBody(w, r, &body) {
		return
	}
	if body.Lat == nil || body.Lng == nil {
		writeError(w, http.StatusBadRequest, CodeInvalidInput, "lat and lng are required")
		return
	}

	req, err := s.combos.Request(geo.Coordinate{Lat: *body.Lat, Lng: *body.Lng}, body.Radius)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	combos, err := s.combos.FindCombos(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, combosResponse{Success: true, Count: len(combos), Combos: combosToDTO(combos)})
}

// RefineCombos handles POST /api/combos/refine.
func (s *Server) RefineCombos(w http.ResponseWriter, r *http.Request) {
	var body refineRequest
	if !s.decodeBody(w, r, &body) {
		return
	}
	key, err := refine.ParseSortKey(body.SortBy)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	combos := combosFromDTO(body.Combos)
	refined, err := s.combos.RefineCombos(combos, body.Filters.toDomain(), key)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, combosResponse{
		Success:  true,
		Count:    len(refined),
		Combos:   combosToDTO(refined),
		Cuisines: refine.Cuisines(combos),
	})
}

// ComboDetails handles POST /api/combos/details.
func (s *Server) ComboDetails(w http.ResponseWriter, r *http.Request) {
	var body comboDTO
	if !s.decodeBody(w, r, &body) {
		return
	}

	enriched, err := s.combos.GetDetails(r.Context(), body.toDomain())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, enrichedResponse{Success: true, Combo: enrichedToDTO(enriched)})
}

// Geocode handles GET /api/geocode.
func (s *Server) Geocode(w http.ResponseWriter, r *http.Request) {
	var address string
	if err := runtime.BindQueryParameter("form", true, true, "address", r.URL.Query(), &address); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	loc, err := s.combos.Geocode(r.Context(), address)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, geocodeResponse{Success: true, Address: address, Location: locationToDTO(loc)})
}

// ReverseGeocode handles GET /api/reverse-geocode.
func (s *Server) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	at, ok := bindCoordinate(w, r)
	if !ok {
		return
	}

	name, err := s.combos.ReverseGeocode(r.Context(), at)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, reverseGeocodeResponse{Success: true, Name: name, Point: locationToDTO(at)})
}

// NearbyPlaces handles GET /api/places/nearby.
func (s *Server) NearbyPlaces(w http.ResponseWriter, r *http.Request) {
	center, ok := bindCoordinate(w, r)
	if !ok {
		return
	}
	var radius *int
	var placeType *string
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "radius", q, &radius); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "type", q, &placeType); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	cat, err := venue.ParseCategory(derefString(placeType))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	venues, err := s.combos.Nearby(r.Context(), center, derefInt(radius), cat)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	results := make([]venueDTO, len(venues))
	for i, v := range venues {
		results[i] = venueToDTO(v, cat)
	}
	writeJSON(w, http.StatusOK, nearbyResponse{Success: true, Count: len(results), Results: results})
}

// PlaceDetails handles GET /api/places/details.
func (s *Server) PlaceDetails(w http.ResponseWriter, r *http.Request) {
	var placeID string
	if err := runtime.BindQueryParameter("form", true, true, "place_id", r.URL.Query(), &placeID); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	d, err := s.combos.PlaceDetails(r.Context(), placeID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, placeDetailsResponse{Success: true, Result: detailsToDTO(d, "")})
}

// CacheStats handles GET /api/cache/stats.
func (s *Server) CacheStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.cache.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsToDTO(st))
}

// CacheClear handles POST /api/cache/clear.
func (s *Server) CacheClear(w http.ResponseWriter, r *http.Request) {
	n, err := s.cache.Clear(r.Context(), adminKey(r))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cacheClearResponse{Success: true, Message: "Cache cleared", Removed: n})
}

// ListFavorites handles GET /api/favorites.
func (s *Server) ListFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := s.favorites.List(r.Context(), clientID(r))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, favoritesResponse{Success: true, Count: len(favs), Favorites: combosToDTO(favs)})
}

// AddFavorite handles POST /api/favorites.
func (s *Server) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var body comboDTO
	if !s.decodeBody(w, r, &body) {
		return
	}

	favs, err := s.favorites.Add(r.Context(), clientID(r), body.toDomain())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, favoritesResponse{Success: true, Count: len(favs), Favorites: combosToDTO(favs)})
}

// RemoveFavorite handles DELETE /api/favorites/{id}.
func (s *Server) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	favs, err := s.favorites.Remove(r.Context(), clientID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, favoritesResponse{Success: true, Count: len(favs), Favorites: combosToDTO(favs)})
}

// HealthCheck handles GET /health. A degraded cache still answers 200.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:    string(report.Status),
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func bindCoordinate(w http.ResponseWriter, r *http.Request) (geo.Coordinate, bool) {
	var c geo.Coordinate
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, true, "lat", q, &c.Lat); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return geo.Coordinate{}, false
	}
	if err := runtime.BindQueryParameter("form", true, true, "lng", q, &c.Lng); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return geo.Coordinate{}, false
	}
	return c, true
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, errorResponse{
		Success: false,
		Code:    code,
		Error:   message,
	})
}

// safeDomainMessage returns a client-facing message without exposing internals.
// Validation messages describe caller input and are passed through.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidInput) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrLocationNotFound,
		domain.ErrUpstream,
		domain.ErrUnauthorized,
		domain.ErrForbidden,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := s.logger.With(zap.String("request_id", chiMiddleware.GetReqID(r.Context())))
	logger.Warn("domain error", zap.Error(err), zap.String("kind", string(domain.KindOf(err))))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternal, "internal error")
}
