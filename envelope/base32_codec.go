package envelope

import "encoding/base32"

// dnsBase32 is the lowercase RFC4648 base32 alphabet without padding: every
// character is a valid DNS label octet and label case is typically folded
// by resolvers along the way, so we never emit uppercase.
var dnsBase32 = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

// base32Encoder is the default, most carrier-compatible codec: any DNS
// label byte-position accepts its alphabet.
type base32Encoder struct{}

func (base32Encoder) Encode(dst, src []byte) []byte {
	n := dnsBase32.EncodedLen(len(src))
	buf := make([]byte, n)
	dnsBase32.Encode(buf, src)
	return append(dst, buf...)
}

func (base32Encoder) Decode(dst, src []byte) ([]byte, error) {
	n := dnsBase32.DecodedLen(len(src))
	buf := make([]byte, n)
	written, err := dnsBase32.Decode(buf, src)
	if err != nil {
		return dst, err
	}
	return append(dst, buf[:written]...), nil
}

func (base32Encoder) EncodedLen(rawLen int) int { return dnsBase32.EncodedLen(rawLen) }

func (base32Encoder) MaxDecodedLen(encLen int) int { return dnsBase32.DecodedLen(encLen) }

// encodeFlagsByte encodes the low 5 bits of f as a single dnsBase32 symbol,
// matching the protocol's convention of carrying the flags nibble as one
// clear-text character ahead of the encoded envelope remainder.
func encodeFlagsByte(f Flags) byte {
	var buf [8]byte
	dnsBase32.Encode(buf[:], []byte{byte(f&flagsMask) << 3})
	return buf[0]
}

// decodeFlagsByte is the inverse of encodeFlagsByte.
func decodeFlagsByte(b byte) (Flags, error) {
	var out [5]byte
	n, err := dnsBase32.Decode(out[:], []byte{b, 'a', 'a', 'a', 'a', 'a', 'a', 'a'})
	if err != nil || n < 1 {
		return 0, ErrTooShort
	}
	return Flags(out[0]>>3) & flagsMask, nil
}
