package domain

import "errors"

// Sentinel errors for domain error conditions.
// Use errors.Is() for matching - never compare error strings.
var (
	// Validation errors (recoverable at the boundary as client errors)
	ErrEmptyChannel   = errors.New("channel name cannot be empty")
	ErrChannelTooLong = errors.New("channel name exceeds maximum length")
	ErrInvalidRole    = errors.New("role must be publisher or subscriber")
	ErrInvalidUID     = errors.New("uid must fit an unsigned 32-bit integer")

	// Configuration errors (deployment defects - fatal, never retried)
	ErrCredentialMissing = errors.New("app ID or app certificate not configured")
	ErrConfigRequired    = errors.New("required configuration key missing")

	// Encoding errors (fatal for the request - no silent truncation or wraparound)
	ErrValueOutOfRange = errors.New("integer value outside unsigned range")
	ErrStringTooLong   = errors.New("string exceeds u16 length-prefix capacity")

	// Crypto errors (signing primitive unavailable or failed)
	ErrSigningUnavailable = errors.New("signing primitive failed")
)

// clientErrors enumerates all domain errors that represent client-side issues.
var clientErrors = []error{
	ErrEmptyChannel,
	ErrChannelTooLong,
	ErrInvalidRole,
	ErrInvalidUID,
}

// IsClientError returns true if the error represents a client-side issue
// that will not succeed on retry without client-side changes.
func IsClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsConfigError returns true if the error signals a deployment defect.
// These surface as server errors and must never be auto-retried.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrCredentialMissing) || errors.Is(err, ErrConfigRequired)
}
