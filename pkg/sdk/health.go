package bestnight

import (
	"context"

	healthuc "github.com/bestnight/bestnight/internal/usecase/health"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

// Health checks the cache and, with probe set, the provider.
// The probe is a billed geocode request.
func (c *Client) Health(ctx context.Context, probe bool) HealthStatus {
	var places healthuc.PlacesChecker
	if probe {
		places = c.places
	}
	report := healthuc.New(c.store, places).Check(ctx)

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
