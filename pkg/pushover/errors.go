package pushover

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

var (
	// ErrConfiguration marks invalid client construction input. It is never
	// returned for a network or service failure.
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")

	ErrMissingToken   = fmt.Errorf("%w: application token is required", ErrConfiguration)
	ErrMissingUserKey = fmt.Errorf("%w: user key is required", ErrConfiguration)
	ErrEmptyMessage   = fmt.Errorf("%w: message is required", ErrValidation)
)

// APIError is returned when the HTTPS call fails or the service answers with a
// non-2xx status. StatusCode is zero when no response was received.
type APIError struct {
	StatusCode int
	Errors     []string
	Request    string
	Body       string
	Cause      error
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}

	parts := make([]string, 0, 4)
	parts = append(parts, "pushover api error")

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	if len(e.Errors) > 0 {
		parts = append(parts, strings.Join(e.Errors, "; "))
	} else if body := strings.TrimSpace(e.Body); body != "" {
		parts = append(parts, body)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}

	return strings.Join(parts, ": ")
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// IsTransient reports whether a failed send may succeed if repeated later.
// The client never repeats a call on its own.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrConfiguration) || errors.Is(err, ErrValidation) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode > 0 {
		return isTransientHTTPStatus(apiErr.StatusCode)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}

func isTransientHTTPStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || (statusCode >= http.StatusInternalServerError && statusCode <= 599)
}
