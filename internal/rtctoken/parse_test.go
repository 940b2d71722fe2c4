package rtctoken_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxmesh/rtc-token-service/internal/domain"
	"github.com/voxmesh/rtc-token-service/internal/domain/domaintest"
	"github.com/voxmesh/rtc-token-service/internal/rtctoken"
)

func testVerifier(clock domain.Clock) *rtctoken.Verifier {
	return rtctoken.NewVerifier(rtctoken.VerifierConfig{
		Credential: testCredential,
		Clock:      clock,
	})
}

func mintToken(t *testing.T) string {
	t.Helper()
	builder := testBuilder(domaintest.NewFakeClock(testStart), domaintest.NewFakeRandomSource(goldenSalt))
	result, err := builder.Build(buildRequest())
	require.NoError(t, err)
	return result.Token
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty input", "", rtctoken.ErrVersionMismatch},
		{"wrong version tag", "006" + mintTokenPayload(t), rtctoken.ErrVersionMismatch},
		{"tag only", "007", rtctoken.ErrTruncated},
		{"invalid base64", "007!!!not-base64!!!", rtctoken.ErrMalformedBase64},
		{"truncated envelope", "007" + base64.StdEncoding.EncodeToString([]byte{0x02, 0x00, 'A'}), rtctoken.ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rtctoken.Parse(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func mintTokenPayload(t *testing.T) string {
	t.Helper()
	return mintToken(t)[len(rtctoken.Version):]
}

func TestParseRejectsTruncationAtEveryBoundary(t *testing.T) {
	envelope, err := base64.StdEncoding.DecodeString(mintTokenPayload(t))
	require.NoError(t, err)

	for cut := 0; cut < len(envelope); cut++ {
		short := rtctoken.Version + base64.StdEncoding.EncodeToString(envelope[:cut])
		_, parseErr := rtctoken.Parse(short)
		assert.ErrorIs(t, parseErr, rtctoken.ErrTruncated, "cut at byte %d", cut)
	}
}

func TestVerifyReasons(t *testing.T) {
	clock := domaintest.NewFakeClock(testStart)
	verifier := testVerifier(clock)
	token := mintToken(t)

	tests := []struct {
		name  string
		token string
		want  rtctoken.Reason
	}{
		{"valid token", token, rtctoken.ReasonOK},
		{"version mismatch", "008" + token[3:], rtctoken.ReasonVersionMismatch},
		{"malformed base64", "007***", rtctoken.ReasonMalformedBase64},
		// 60 base64 chars decode cleanly but carry only part of the envelope.
		{"truncated", rtctoken.Version + token[3:63], rtctoken.ReasonTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vr, err := verifier.Verify(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, vr.Reason)
			assert.Equal(t, tt.want == rtctoken.ReasonOK, vr.Valid)
		})
	}
}

func TestVerifyWrongCertificate(t *testing.T) {
	clock := domaintest.NewFakeClock(testStart)
	verifier := rtctoken.NewVerifier(rtctoken.VerifierConfig{
		Credential: rtctoken.Credential{
			AppID:       testCredential.AppID,
			Certificate: domain.SecretBytes("not-the-secret"),
		},
		Clock: clock,
	})

	vr, err := verifier.Verify(mintToken(t))
	require.NoError(t, err)
	assert.False(t, vr.Valid)
	assert.Equal(t, rtctoken.ReasonSignatureMismatch, vr.Reason)
	assert.NotNil(t, vr.Token, "decoded fields are still returned for diagnostics")
}

func TestVerifyTamperedEnvelope(t *testing.T) {
	// Flipping any single byte of the envelope must make verification fail:
	// either the recomputed signature no longer matches, or the envelope no
	// longer parses.
	clock := domaintest.NewFakeClock(testStart)
	verifier := testVerifier(clock)

	envelope, err := base64.StdEncoding.DecodeString(mintTokenPayload(t))
	require.NoError(t, err)

	for i := range envelope {
		tampered := make([]byte, len(envelope))
		copy(tampered, envelope)
		tampered[i] ^= 0x01

		vr, verifyErr := verifier.Verify(rtctoken.Version + base64.StdEncoding.EncodeToString(tampered))
		require.NoError(t, verifyErr)
		assert.False(t, vr.Valid, "byte %d flipped but token still verified", i)
	}
}

func TestVerifyExpired(t *testing.T) {
	clock := domaintest.NewFakeClock(testStart)
	verifier := testVerifier(clock)
	token := mintToken(t) // one hour lifetime

	// Valid right up to the encoded expiry.
	clock.Set(testStart.Add(time.Hour))
	vr, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.True(t, vr.Valid, "reason: %s", vr.Reason)

	// Rejected once the expiry has passed, despite the valid signature.
	clock.Advance(time.Second)
	vr, err = verifier.Verify(token)
	require.NoError(t, err)
	assert.False(t, vr.Valid)
	assert.Equal(t, rtctoken.ReasonExpired, vr.Reason)
}

func TestVerifyEmptyCertificate(t *testing.T) {
	verifier := rtctoken.NewVerifier(rtctoken.VerifierConfig{
		Credential: rtctoken.Credential{AppID: "A1"},
		Clock:      domaintest.NewFakeClock(testStart),
	})

	_, err := verifier.Verify(mintToken(t))
	assert.ErrorIs(t, err, domain.ErrCredentialMissing)
}
