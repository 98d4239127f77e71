package notion

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrRateLimited matches an APIError for HTTP 429 after retries ran out.
var ErrRateLimited = errors.New("notion: rate limited")

// APIError is the error object returned by the API for non-2xx responses.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion: HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("notion: HTTP %d %s: %s", e.Status, e.Code, e.Message)
}

// Is reports whether target is ErrRateLimited and e is a 429.
func (e *APIError) Is(target error) bool {
	return target == ErrRateLimited && e.Status == http.StatusTooManyRequests
}
