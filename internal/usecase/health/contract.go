package health

import "context"

// CachePinger checks result cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// PlacesChecker checks places provider availability.
type PlacesChecker interface {
	HealthCheck(ctx context.Context) error
}
