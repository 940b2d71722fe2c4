package rtctoken

import "github.com/voxmesh/rtc-token-service/internal/domain"

// Privilege identifies one authorized capability within a service block.
type Privilege uint16

// Privilege ids are fixed by the consuming media platform's verifier.
const (
	PrivilegeJoinChannel  Privilege = 1
	PrivilegePublishAudio Privilege = 2
	PrivilegePublishVideo Privilege = 3
	PrivilegePublishData  Privilege = 4
)

// ServiceTypeRTC is the service type of the single service block carried
// by every token.
const ServiceTypeRTC = 1

// PrivilegeGrant is one privilege with its own expiry.
type PrivilegeGrant struct {
	ID        Privilege
	ExpiresAt uint32 // Unix seconds
}

// PrivilegesForRole maps a role to its ordered privilege list.
//
// The ordering is a hard contract: JoinChannel first, then for publishers
// PublishAudio, PublishVideo, PublishData in that order. Reordering changes
// the signed bytes and breaks verification on the consuming side even though
// the meaning is unchanged. Ids are unique by construction; this is the sole
// producer of privilege lists.
func PrivilegesForRole(role domain.Role, expiresAt uint32) []PrivilegeGrant {
	grants := []PrivilegeGrant{
		{ID: PrivilegeJoinChannel, ExpiresAt: expiresAt},
	}
	if role == domain.RolePublisher {
		grants = append(grants,
			PrivilegeGrant{ID: PrivilegePublishAudio, ExpiresAt: expiresAt},
			PrivilegeGrant{ID: PrivilegePublishVideo, ExpiresAt: expiresAt},
			PrivilegeGrant{ID: PrivilegePublishData, ExpiresAt: expiresAt},
		)
	}
	return grants
}

// writeServiceHeader writes the service descriptor: one service block of
// type RTC. Both the signed message and the final envelope carry it.
func writeServiceHeader(p *Packer) {
	p.WriteUint16(1) // service count
	p.WriteUint16(ServiceTypeRTC)
}

// writePrivilegeTable writes the privilege count followed by each grant in
// list order. This is the single shared encoder for both the signed message
// and the envelope: the two serializations must stay structurally identical
// (order, widths) or a correctly signed token will fail verification.
func writePrivilegeTable(p *Packer, grants []PrivilegeGrant) {
	p.WriteUint16(int64(len(grants)))
	for _, g := range grants {
		p.WriteUint16(int64(g.ID))
		p.WriteUint32(int64(g.ExpiresAt))
	}
}

// readPrivilegeTable is the inverse of writePrivilegeTable.
func readPrivilegeTable(u *Unpacker) []PrivilegeGrant {
	n := u.ReadUint16()
	grants := make([]PrivilegeGrant, 0, n)
	for i := 0; i < int(n); i++ {
		id := u.ReadUint16()
		exp := u.ReadUint32()
		if u.Err() != nil {
			return nil
		}
		grants = append(grants, PrivilegeGrant{ID: Privilege(id), ExpiresAt: exp})
	}
	return grants
}
