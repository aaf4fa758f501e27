package supportapi

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the uniform failure shape for support API calls. Transport
// errors and non-2xx responses both end up here so callers never have to
// distinguish how a call failed, only that it did and what to show the user.
type APIError struct {
	// StatusCode is the HTTP status when the backend answered, or zero for
	// transport-level failures.
	StatusCode int
	// Message is a human-readable description safe to surface in an error
	// banner.
	Message string
	// Cause is the underlying error for transport failures.
	Cause error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("support api: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("support api: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err is a support API 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a support API 401 or 403.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

// PublicMessage extracts the user-facing message from a support API error,
// falling back to err.Error() for foreign errors.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
