// Package envelope implements the authenticated downstream framing layer:
// a small header (length, flags, client/message counter, truncated
// HMAC-MD5) wrapped around an arbitrary payload, the whole thing carried
// through one of a handful of byte-safe alphabet encodings so it survives
// a DNS resource record. See [Encode] and [Decode].
package envelope

import "strconv"

// Flags is the envelope's single flags byte as it actually travels on the
// wire: only the low 5 bits are meaningful, since the whole byte is carried
// as one base32-alphabet character (a 5-bit symbol) in the clear ahead of
// the encoded remainder. Bits [0:3) select the codec (or, when FlagError is
// set, an error code); FlagHMAC32 and FlagError are independent of that and
// of each other.
type Flags uint8

const (
	// FlagCodecMask isolates the 3-bit codec/error-code field.
	FlagCodecMask Flags = 0x07
	// FlagHMAC32 selects a 4-byte truncated HMAC instead of the default 12.
	// Forced clear whenever FlagError is set (error envelopes always carry
	// the full-width HMAC).
	FlagHMAC32 Flags = 1 << 3
	// FlagError marks this envelope as an in-band protocol error response
	// rather than ordinary payload. The codec field is then read as one of
	// the ErrCode values instead of a CodecTag.
	FlagError Flags = 1 << 4

	flagsMask = 0x1f // the 5 bits that actually travel on the wire
)

// Codec extracts the 3-bit codec/error-code field.
func (f Flags) Codec() CodecTag { return CodecTag(f & FlagCodecMask) }

// HMACLen returns the truncated HMAC width this flag set selects: 4 bytes
// for FlagHMAC32, 12 otherwise. Error envelopes always report 12, since
// FlagHMAC32 is meaningless (and forced clear) on them.
func (f Flags) HMACLen() int {
	if f&FlagError == 0 && f&FlagHMAC32 != 0 {
		return 4
	}
	return 12
}

func (f Flags) String() string {
	s := "[codec=" + strconv.Itoa(int(f.Codec()))
	if f&FlagHMAC32 != 0 {
		s += ",hmac32"
	}
	if f&FlagError != 0 {
		s += ",error"
	}
	return s + "]"
}
