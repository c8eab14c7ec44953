package storefront

import (
	"errors"
	"fmt"
)

// Sentinel errors for the storefront client
var (
	// ErrRateLimited indicates the upstream API rejected a request with a
	// rate-limit signal (HTTP 429). First-page fetches retry on this error.
	ErrRateLimited = errors.New("storefront: rate limited by upstream API")

	// ErrMissingBaseURL indicates the client was constructed without an
	// upstream base URL.
	ErrMissingBaseURL = errors.New("storefront: base URL is required")
)

// StatusError represents a non-rate-limit HTTP error response from the
// upstream API. These propagate immediately without retry.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("storefront: %s returned HTTP %d", e.Endpoint, e.StatusCode)
}
