package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the cache is down; lookups still reach the provider.
	Degraded Status = "degraded"
	// Unhealthy indicates the provider is unreachable and searches will fail.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names used as report keys.
const (
	ComponentCache  = "cache"
	ComponentPlaces = "places"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	cache  CachePinger
	places PlacesChecker
}

// New creates a Service. places can be nil to skip the upstream probe.
func New(cache CachePinger, places PlacesChecker) *Service {
	return &Service{cache: cache, places: places}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.cache.Ping(ctx); err != nil {
		checks[ComponentCache] = CheckError
		status = Degraded
	} else {
		checks[ComponentCache] = CheckOK
	}

	if s.places != nil {
		if err := s.places.HealthCheck(ctx); err != nil {
			checks[ComponentPlaces] = CheckError
			status = Unhealthy
		} else {
			checks[ComponentPlaces] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
