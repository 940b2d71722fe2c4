package rtctoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/voxmesh/rtc-token-service/internal/domain"
)

// Sign computes HMAC-SHA256 over appID ‖ channel ‖ u32le(uid) ‖ message,
// keyed by the app certificate. appID and channel are raw UTF-8 with no
// length prefix: position in the fixed-order concatenation substitutes for
// framing, which is safe only because signer and verifier share the
// identical deterministic construction. This asymmetry with the
// length-prefixed envelope encoding is inherited from the target protocol
// and must not be corrected.
func Sign(certificate domain.SecretBytes, appID, channel string, uid uint32, message []byte) ([]byte, error) {
	if certificate.IsEmpty() {
		return nil, fmt.Errorf("sign token: %w", domain.ErrCredentialMissing)
	}

	mac := hmac.New(sha256.New, certificate.Expose())
	mac.Write([]byte(appID))
	mac.Write([]byte(channel))

	var uidLE [4]byte
	binary.LittleEndian.PutUint32(uidLE[:], uid)
	mac.Write(uidLE[:])

	mac.Write(message)
	return mac.Sum(nil), nil
}
