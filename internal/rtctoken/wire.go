// Package rtctoken implements the "007" RTC access token format: a binary
// envelope of little-endian primitives, HMAC-SHA256 signed, base64 encoded,
// and prefixed with a three-character version tag. The encoder output feeds
// a MAC, so every function here is deterministic byte-for-byte.
package rtctoken

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/voxmesh/rtc-token-service/internal/domain"
)

// Packer accumulates the little-endian wire form of a token.
// The first encoding failure latches; subsequent writes are no-ops and
// Bytes returns the latched error. There is no silent truncation or
// wraparound: out-of-range values fail the whole encoding.
type Packer struct {
	buf []byte
	err error
}

// WriteUint16 appends n as a little-endian u16.
// Fails if n is outside the unsigned 16-bit range.
func (p *Packer) WriteUint16(n int64) {
	if p.err != nil {
		return
	}
	if n < 0 || n > math.MaxUint16 {
		p.err = fmt.Errorf("u16 value %d: %w", n, domain.ErrValueOutOfRange)
		return
	}
	p.buf = binary.LittleEndian.AppendUint16(p.buf, uint16(n))
}

// WriteUint32 appends n as a little-endian u32.
// Fails if n is outside the unsigned 32-bit range.
func (p *Packer) WriteUint32(n int64) {
	if p.err != nil {
		return
	}
	if n < 0 || n > math.MaxUint32 {
		p.err = fmt.Errorf("u32 value %d: %w", n, domain.ErrValueOutOfRange)
		return
	}
	p.buf = binary.LittleEndian.AppendUint32(p.buf, uint32(n))
}

// WriteString appends the UTF-8 bytes of s prefixed with their byte length
// as a little-endian u16. Fails if the string exceeds the prefix capacity.
func (p *Packer) WriteString(s string) {
	if p.err != nil {
		return
	}
	if len(s) > domain.MaxPrefixedStringBytes {
		p.err = fmt.Errorf("string of %d bytes: %w", len(s), domain.ErrStringTooLong)
		return
	}
	p.WriteUint16(int64(len(s)))
	p.buf = append(p.buf, s...)
}

// WriteRaw appends b without any framing. Position in the fixed-order
// concatenation substitutes for a length prefix.
func (p *Packer) WriteRaw(b []byte) {
	if p.err != nil {
		return
	}
	p.buf = append(p.buf, b...)
}

// Bytes returns the accumulated buffer, or the first encoding error.
func (p *Packer) Bytes() ([]byte, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.buf, nil
}

// Unpacker is the mirror image of Packer: it reads fixed-width little-endian
// integers and length-prefixed strings from a decoded envelope. A short read
// latches ErrTruncated; subsequent reads return zero values.
type Unpacker struct {
	buf []byte
	off int
	err error
}

// NewUnpacker creates an Unpacker over buf.
func NewUnpacker(buf []byte) *Unpacker {
	return &Unpacker{buf: buf}
}

func (u *Unpacker) take(n int) []byte {
	if u.err != nil {
		return nil
	}
	if u.off+n > len(u.buf) {
		u.err = fmt.Errorf("need %d bytes at offset %d of %d: %w", n, u.off, len(u.buf), ErrTruncated)
		return nil
	}
	b := u.buf[u.off : u.off+n]
	u.off += n
	return b
}

// ReadUint16 reads a little-endian u16.
func (u *Unpacker) ReadUint16() uint16 {
	b := u.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// ReadUint32 reads a little-endian u32.
func (u *Unpacker) ReadUint32() uint32 {
	b := u.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// ReadString reads a u16-length-prefixed UTF-8 string.
func (u *Unpacker) ReadString() string {
	n := u.ReadUint16()
	b := u.take(int(n))
	if b == nil {
		return ""
	}
	return string(b)
}

// ReadBytes reads n raw bytes.
func (u *Unpacker) ReadBytes(n int) []byte {
	b := u.take(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// Err returns the first read error, if any.
func (u *Unpacker) Err() error {
	return u.err
}
