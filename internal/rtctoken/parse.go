package rtctoken

import (
	"crypto/hmac"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/voxmesh/rtc-token-service/internal/domain"
)

// Sentinel errors for structurally invalid tokens. Match with errors.Is.
var (
	ErrVersionMismatch = errors.New("unsupported token version")
	ErrMalformedBase64 = errors.New("malformed base64 payload")
	ErrTruncated       = errors.New("truncated token buffer")
)

// Parse strips the version tag, base64-decodes the envelope, and recovers
// every field in the fixed wire order. It performs no signature or expiry
// checking; use a Verifier for that.
func Parse(token string) (*Token, error) {
	if len(token) < len(Version) || token[:len(Version)] != Version {
		return nil, fmt.Errorf("parse token: %w", ErrVersionMismatch)
	}

	envelope, err := base64.StdEncoding.DecodeString(token[len(Version):])
	if err != nil {
		return nil, fmt.Errorf("parse token: %w: %w", ErrMalformedBase64, err)
	}

	u := NewUnpacker(envelope)
	t := &Token{}
	t.AppID = u.ReadString()
	t.IssuedAt = u.ReadUint32()
	t.TTLOffset = u.ReadUint32()
	t.Salt = u.ReadUint32()
	serviceCount := u.ReadUint16()
	serviceType := u.ReadUint16()
	t.Channel = u.ReadString()
	t.UID = u.ReadUint32()
	t.Privileges = readPrivilegeTable(u)
	sigLen := u.ReadUint16()
	t.Signature = u.ReadBytes(int(sigLen))

	if err := u.Err(); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if serviceCount != 1 || serviceType != ServiceTypeRTC {
		return nil, fmt.Errorf("parse token: service descriptor %d/%d: %w", serviceCount, serviceType, ErrTruncated)
	}
	return t, nil
}

// Reason names why a token was rejected. Rejecting untrusted tokens is the
// expected common case, so these are values returned to the caller rather
// than errors.
type Reason string

const (
	ReasonOK                Reason = "ok"
	ReasonVersionMismatch   Reason = "version_mismatch"
	ReasonMalformedBase64   Reason = "malformed_base64"
	ReasonTruncated         Reason = "truncated"
	ReasonSignatureMismatch Reason = "signature_mismatch"
	ReasonExpired           Reason = "expired"
)

// VerifyResult is the typed outcome of verifying a token.
// Token is populated whenever the envelope could be decoded, including for
// signature and expiry rejections.
type VerifyResult struct {
	Valid  bool
	Reason Reason
	Token  *Token
}

// Verifier checks tokens against a credential. It is the inverse of Builder
// and exists for round-trip testing and compatibility checking; production
// verification is owned by the consuming media platform.
type Verifier struct {
	credential Credential
	clock      domain.Clock
}

// VerifierConfig holds configuration for creating a Verifier.
type VerifierConfig struct {
	Credential Credential
	Clock      domain.Clock
}

// NewVerifier creates a token verifier.
func NewVerifier(cfg VerifierConfig) *Verifier {
	return &Verifier{
		credential: cfg.Credential,
		clock:      cfg.Clock,
	}
}

// Verify decodes the token, recomputes the expected signature from the
// decoded fields, compares in constant time, and rejects tokens whose
// expiry has passed. Malformed, forged, or expired input yields a typed
// result; the returned error is reserved for verifier misconfiguration.
func (v *Verifier) Verify(token string) (VerifyResult, error) {
	if v.credential.Certificate.IsEmpty() {
		return VerifyResult{}, fmt.Errorf("verify token: %w", domain.ErrCredentialMissing)
	}

	t, err := Parse(token)
	if err != nil {
		switch {
		case errors.Is(err, ErrVersionMismatch):
			return VerifyResult{Reason: ReasonVersionMismatch}, nil
		case errors.Is(err, ErrMalformedBase64):
			return VerifyResult{Reason: ReasonMalformedBase64}, nil
		default:
			return VerifyResult{Reason: ReasonTruncated}, nil
		}
	}

	message, err := signedMessage(t.Salt, t.IssuedAt, t.TTLOffset, t.Privileges)
	if err != nil {
		return VerifyResult{Reason: ReasonTruncated, Token: t}, nil
	}
	expected, err := Sign(v.credential.Certificate, t.AppID, t.Channel, t.UID, message)
	if err != nil {
		return VerifyResult{}, err
	}

	if !hmac.Equal(expected, t.Signature) {
		return VerifyResult{Reason: ReasonSignatureMismatch, Token: t}, nil
	}

	if t.ExpiresAt() < v.clock.Now().UTC().Unix() {
		return VerifyResult{Reason: ReasonExpired, Token: t}, nil
	}

	return VerifyResult{Valid: true, Reason: ReasonOK, Token: t}, nil
}
