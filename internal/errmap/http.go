// Package errmap maps domain errors onto transport error shapes.
package errmap

import (
	"errors"
	"net/http"

	"github.com/voxmesh/rtc-token-service/internal/domain"
)

// HTTPError represents an HTTP error response.
type HTTPError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e HTTPError) Error() string {
	return e.Message
}

// httpMapping defines a domain error to HTTP status/code mapping.
type httpMapping struct {
	err        error
	statusCode int
	code       string
}

// httpMappings maps domain errors to HTTP status codes and error codes.
// Order matters: first match wins (via errors.Is).
var httpMappings = []httpMapping{
	// Validation errors — 400, recovered at the boundary as client errors
	{domain.ErrEmptyChannel, http.StatusBadRequest, "INVALID_ARGUMENT"},
	{domain.ErrChannelTooLong, http.StatusBadRequest, "INVALID_ARGUMENT"},
	{domain.ErrInvalidRole, http.StatusBadRequest, "INVALID_ARGUMENT"},
	{domain.ErrInvalidUID, http.StatusBadRequest, "INVALID_ARGUMENT"},

	// Encoding errors — the caller supplied a value the wire format cannot
	// carry (negative lifetime, oversize string); fatal for the request
	{domain.ErrValueOutOfRange, http.StatusBadRequest, "VALUE_OUT_OF_RANGE"},
	{domain.ErrStringTooLong, http.StatusBadRequest, "STRING_TOO_LONG"},

	// Configuration errors — deployment defects, never auto-retried
	{domain.ErrCredentialMissing, http.StatusInternalServerError, "MISCONFIGURED"},
	{domain.ErrConfigRequired, http.StatusInternalServerError, "MISCONFIGURED"},

	// Crypto errors
	{domain.ErrSigningUnavailable, http.StatusInternalServerError, "SIGNING_FAILED"},
}

// ToHTTPError converts a domain error to an HTTP error.
func ToHTTPError(err error) HTTPError {
	if err == nil {
		return HTTPError{StatusCode: http.StatusOK}
	}
	for _, m := range httpMappings {
		if errors.Is(err, m.err) {
			return HTTPError{StatusCode: m.statusCode, Code: m.code, Message: err.Error()}
		}
	}
	// Never expose internal error details to clients
	return HTTPError{StatusCode: http.StatusInternalServerError, Code: "INTERNAL", Message: "internal error"}
}

// ToHTTPStatusCode extracts just the HTTP status code for a domain error.
func ToHTTPStatusCode(err error) int {
	return ToHTTPError(err).StatusCode
}
