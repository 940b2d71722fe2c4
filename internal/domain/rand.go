package domain

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// RandomSource provides random 32-bit values for token salts.
// The salt is a replay-diversifier, not a secret, but production
// implementations must still draw from a CSPRNG so concurrent issuances
// cannot produce correlated values.
type RandomSource interface {
	// Uint32 returns a uniformly distributed random value.
	Uint32() (uint32, error)
}

// CryptoRandomSource implements RandomSource using crypto/rand.
// Safe for unrestricted concurrent use.
type CryptoRandomSource struct{}

// Uint32 reads four bytes from crypto/rand.Reader.
func (CryptoRandomSource) Uint32() (uint32, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("read random salt: %w", err)
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// Ensure CryptoRandomSource implements RandomSource at compile time.
var _ RandomSource = CryptoRandomSource{}
