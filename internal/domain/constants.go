package domain

import "time"

// Normative limits for token issuance.
// These are compiled defaults that can be overridden via configuration
// where a config key exists.
const (
	// Channel limits
	MaxChannelNameBytes = 64 // Max UTF-8 byte length of a channel name

	// Token configuration
	DefaultTokenTTL = 3600 * time.Second // Default token validity when the caller omits expireTime

	// Wire limits
	MaxPrefixedStringBytes = 65535 // u16 length prefix capacity; longer strings fail hard

	// Graceful shutdown
	ShutdownDrainDelay  = 2 * time.Second  // Let load balancers propagate endpoint removal
	ShutdownHTTPTimeout = 10 * time.Second // Max time to drain in-flight HTTP requests
	ShutdownOTELTimeout = 5 * time.Second  // Max time to flush telemetry on exit

	// GracefulShutdownTimeout is the total budget for a clean exit.
	GracefulShutdownTimeout = ShutdownDrainDelay + ShutdownHTTPTimeout + ShutdownOTELTimeout
)
