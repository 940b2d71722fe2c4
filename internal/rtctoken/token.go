package rtctoken

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/voxmesh/rtc-token-service/internal/domain"
)

// Version is the three-character tag prefixed to every encoded token.
const Version = "007"

// Credential identifies the issuing application. The certificate is the
// HMAC key shared with the consuming media platform; it is never logged.
type Credential struct {
	AppID       string
	Certificate domain.SecretBytes
}

// Token is the decoded form of an access token. Builder produces one per
// request; Verifier recovers one from the wire form. Tokens are stateless
// and never mutated after construction.
type Token struct {
	AppID      string
	IssuedAt   uint32 // Unix seconds
	TTLOffset  uint32 // ExpiresAt - IssuedAt
	Salt       uint32
	Channel    string
	UID        uint32
	Privileges []PrivilegeGrant
	Signature  []byte
}

// ExpiresAt returns the token's expiry as Unix seconds.
func (t *Token) ExpiresAt() int64 {
	return int64(t.IssuedAt) + int64(t.TTLOffset)
}

// BuildResult holds the outcome of building a token.
type BuildResult struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Builder creates signed access tokens for a single credential.
// Safe for unrestricted concurrent use: every build is self-contained.
type Builder struct {
	credential Credential
	clock      domain.Clock
	random     domain.RandomSource
}

// BuilderConfig holds configuration for creating a Builder.
type BuilderConfig struct {
	Credential Credential
	Clock      domain.Clock
	Random     domain.RandomSource
}

// NewBuilder creates a token builder.
func NewBuilder(cfg BuilderConfig) *Builder {
	return &Builder{
		credential: cfg.Credential,
		clock:      cfg.Clock,
		random:     cfg.Random,
	}
}

// BuildRequest describes one token to mint.
type BuildRequest struct {
	Channel domain.ChannelName
	UID     uint32
	Role    domain.Role
	TTL     time.Duration
}

// Build mints a signed token: draws a fresh salt, stamps the issue time,
// derives the privilege table from the role, signs, and encodes the
// envelope. A non-positive TTL is not clamped; a zero TTL yields an
// immediately expired but structurally valid token, and a negative TTL
// fails the u32 range check in the encoder.
func (b *Builder) Build(req BuildRequest) (BuildResult, error) {
	if b.credential.AppID == "" || b.credential.Certificate.IsEmpty() {
		return BuildResult{}, fmt.Errorf("build token: %w", domain.ErrCredentialMissing)
	}

	salt, err := b.random.Uint32()
	if err != nil {
		return BuildResult{}, fmt.Errorf("%w: %w", domain.ErrSigningUnavailable, err)
	}

	issuedAt := b.clock.Now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(req.TTL.Truncate(time.Second))

	tok := Token{
		AppID:    b.credential.AppID,
		IssuedAt: uint32(issuedAt.Unix()),
		Salt:     salt,
		Channel:  req.Channel.String(),
		UID:      req.UID,
	}

	// The range check below rejects a negative offset; it never wraps.
	ttlOffset := expiresAt.Unix() - issuedAt.Unix()
	var offsetPacker Packer
	offsetPacker.WriteUint32(ttlOffset)
	if _, err := offsetPacker.Bytes(); err != nil {
		return BuildResult{}, fmt.Errorf("ttl offset: %w", err)
	}
	tok.TTLOffset = uint32(ttlOffset)
	tok.Privileges = PrivilegesForRole(req.Role, uint32(expiresAt.Unix()))

	message, err := signedMessage(tok.Salt, tok.IssuedAt, tok.TTLOffset, tok.Privileges)
	if err != nil {
		return BuildResult{}, fmt.Errorf("assemble message: %w", err)
	}

	tok.Signature, err = Sign(b.credential.Certificate, tok.AppID, tok.Channel, tok.UID, message)
	if err != nil {
		return BuildResult{}, err
	}

	encoded, err := Encode(&tok)
	if err != nil {
		return BuildResult{}, err
	}

	return BuildResult{
		Token:     encoded,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// signedMessage assembles the bytes the signature covers: salt, issue time,
// ttl offset, then the service descriptor and privilege table via the same
// encoders the envelope uses.
func signedMessage(salt, issuedAt, ttlOffset uint32, grants []PrivilegeGrant) ([]byte, error) {
	var p Packer
	p.WriteUint32(int64(salt))
	p.WriteUint32(int64(issuedAt))
	p.WriteUint32(int64(ttlOffset))
	writeServiceHeader(&p)
	writePrivilegeTable(&p, grants)
	return p.Bytes()
}

// Encode serializes a token (including its signature) into the wire form:
// the "007" version tag followed by standard padded base64 of the binary
// envelope. Encoding the same token twice is byte-identical.
func Encode(t *Token) (string, error) {
	var p Packer
	p.WriteString(t.AppID)
	p.WriteUint32(int64(t.IssuedAt))
	p.WriteUint32(int64(t.TTLOffset))
	p.WriteUint32(int64(t.Salt))
	writeServiceHeader(&p)
	p.WriteString(t.Channel)
	p.WriteUint32(int64(t.UID))
	writePrivilegeTable(&p, t.Privileges)
	p.WriteUint16(int64(len(t.Signature)))
	p.WriteRaw(t.Signature)

	envelope, err := p.Bytes()
	if err != nil {
		return "", fmt.Errorf("encode envelope: %w", err)
	}
	return Version + base64.StdEncoding.EncodeToString(envelope), nil
}
