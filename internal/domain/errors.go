package domain

import (
	"errors"
)

// KeyPrefix namespaces every key the service writes to a shared store.
const KeyPrefix = "bestnight:"

var (
	// ErrInvalidInput signals missing or malformed caller input (coordinates, address, filters).
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstream signals a failed or non-success provider call.
	ErrUpstream = errors.New("upstream error")
	// ErrLocationNotFound signals that geocoding yielded no results.
	ErrLocationNotFound = errors.New("location not found")
	// ErrUnauthorized signals a missing or wrong admin credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden signals an operation that is disabled by configuration.
	ErrForbidden = errors.New("forbidden")
)

// Kind is a stable, machine-readable error category.
type Kind string

// Error kinds reported to callers.
const (
	KindInvalidInput     Kind = "invalid_input"
	KindUpstream         Kind = "upstream_error"
	KindLocationNotFound Kind = "location_not_found"
	KindUnauthorized     Kind = "unauthorized"
	KindForbidden        Kind = "forbidden"
	KindInternal         Kind = "internal"
)

// KindOf maps an error chain to its Kind so the caller can decide between retry
// and a user-facing message.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrLocationNotFound):
		return KindLocationNotFound
	case errors.Is(err, ErrUpstream):
		return KindUpstream
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	default:
		return KindInternal
	}
}

// Retryable reports whether retrying the same call may succeed.
func Retryable(err error) bool {
	return KindOf(err) == KindUpstream
}
