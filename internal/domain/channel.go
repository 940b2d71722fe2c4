// Package domain contains pure business logic and types.
// No external dependencies allowed - this is the innermost ring of Clean Architecture.
package domain

import "fmt"

// ChannelName is a value object representing an RTC channel identifier.
// Always valid in memory - use NewChannelName to construct.
type ChannelName struct {
	value string
}

// NewChannelName creates a ChannelName from a raw string, validating that it
// is between 1 and MaxChannelNameBytes UTF-8 bytes.
func NewChannelName(raw string) (ChannelName, error) {
	if raw == "" {
		return ChannelName{}, ErrEmptyChannel
	}
	if len(raw) > MaxChannelNameBytes {
		return ChannelName{}, fmt.Errorf("channel name is %d bytes: %w", len(raw), ErrChannelTooLong)
	}
	return ChannelName{value: raw}, nil
}

// MustChannelName creates a ChannelName, panicking on invalid input. Use only in tests.
func MustChannelName(raw string) ChannelName {
	cn, err := NewChannelName(raw)
	if err != nil {
		panic(err)
	}
	return cn
}

func (cn ChannelName) String() string { return cn.value }
func (cn ChannelName) IsZero() bool   { return cn.value == "" }

// Role determines which privileges a token grants.
type Role string

const (
	// RolePublisher may join the channel and publish audio, video, and data streams.
	RolePublisher Role = "publisher"

	// RoleSubscriber may only join the channel.
	RoleSubscriber Role = "subscriber"
)

// ParseRole converts a raw role string into a Role.
// An empty string defaults to RolePublisher.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case "":
		return RolePublisher, nil
	case RolePublisher:
		return RolePublisher, nil
	case RoleSubscriber:
		return RoleSubscriber, nil
	default:
		return "", fmt.Errorf("role %q: %w", raw, ErrInvalidRole)
	}
}

func (r Role) String() string { return string(r) }
