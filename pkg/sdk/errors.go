package bestnight

import "github.com/bestnight/bestnight/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput     = domain.ErrInvalidInput
	ErrUpstream         = domain.ErrUpstream
	ErrLocationNotFound = domain.ErrLocationNotFound
)

// Retryable reports whether retrying the same call may succeed.
func Retryable(err error) bool {
	return domain.Retryable(err)
}
