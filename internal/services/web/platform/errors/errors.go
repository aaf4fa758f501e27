// Package errors defines web typed application errors.
package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/helpdeck-io/helpdeck/internal/supportapi"
)

// Kind classifies application failures for consistent HTTP mapping.
type Kind string

const (
	KindUnknown      Kind = "unknown"
	KindInvalidInput Kind = "invalid_input"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindUnavailable  Kind = "unavailable"
	KindNotFound     Kind = "not_found"
)

// Error is a typed web application failure.
type Error struct {
	Kind    Kind
	Message string
}

// Error renders the human-readable message.
func (e Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// E builds a typed Error.
func E(kind Kind, message string) error {
	return Error{Kind: kind, Message: message}
}

// FromSupportAPI converts a support API failure into a typed web error so
// handlers map backend outcomes to pages uniformly.
func FromSupportAPI(err error) error {
	if err == nil {
		return nil
	}
	var appErr Error
	if stderrors.As(err, &appErr) {
		return appErr
	}
	var apiErr *supportapi.APIError
	if !stderrors.As(err, &apiErr) {
		return Error{Kind: KindUnknown, Message: err.Error()}
	}
	message := apiErr.Message
	switch {
	case apiErr.StatusCode == 0:
		return Error{Kind: KindUnavailable, Message: "Support service is unreachable"}
	case apiErr.StatusCode == http.StatusNotFound:
		return Error{Kind: KindNotFound, Message: message}
	case apiErr.StatusCode == http.StatusUnauthorized:
		return Error{Kind: KindUnauthorized, Message: message}
	case apiErr.StatusCode == http.StatusForbidden:
		return Error{Kind: KindForbidden, Message: message}
	case apiErr.StatusCode == http.StatusBadRequest || apiErr.StatusCode == http.StatusUnprocessableEntity:
		return Error{Kind: KindInvalidInput, Message: message}
	case apiErr.StatusCode >= http.StatusInternalServerError:
		return Error{Kind: KindUnavailable, Message: "Support service failed to answer"}
	default:
		return Error{Kind: KindUnknown, Message: message}
	}
}

// HTTPStatus maps an error to an HTTP status code.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var appErr Error
	if !stderrors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
