package envelope

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/binary"
)

// Encode frames data behind an authenticated envelope and returns the
// encoded bytes. flags selects the codec (via its low 3 bits) and whether
// a 4- or 12-byte HMAC truncation is used; cmc is the caller's
// client/message counter value, carried in the envelope and covered by the
// HMAC so a peer can detect a stale or replayed envelope. key authenticates the
// envelope with hmacFn (nil uses [DefaultHMAC]); a nil key produces an
// envelope with random filler in place of an HMAC, for transports running
// without a shared secret.
//
// If maxOutLen is nonzero and the encoded result would exceed it, Encode
// fails with [ErrBudget] instead of silently truncating: the caller is
// expected to split data into smaller fragments first (see [Window]'s
// MaxFragLen), not to rely on this layer to do it.
func Encode(data []byte, flags Flags, cmc uint32, key []byte, hmacFn HMACFunc, maxOutLen int) ([]byte, error) {
	if flags&FlagError != 0 {
		flags &^= FlagHMAC32
	}
	hmaclen := flags.HMACLen()
	datalen := len(data)
	length := 1 + 4 + hmaclen + datalen // flags + cmc + hmac + data, as carried in the length field
	total := length + 4                 // plus the length field itself

	var enc Encoder
	if flags&FlagError != 0 {
		enc = registry[CodecBase32]
	} else {
		var ok bool
		enc, ok = lookup(flags.Codec())
		if !ok {
			return nil, ErrUnknownCodec
		}
	}

	if maxOutLen > 0 && 1+enc.EncodedLen(length-1) > maxOutLen {
		return nil, ErrBudget
	}

	buf := make([]byte, total)
	binary.BigEndian.PutUint32(buf[0:4], uint32(length))
	buf[4] = encodeFlagsByte(flags)
	binary.BigEndian.PutUint32(buf[5:9], cmc)
	// buf[9:9+hmaclen] stays zeroed while the HMAC is computed over the
	// whole buffer, then gets overwritten with the real (or random) value.
	copy(buf[9+hmaclen:], data)

	if key != nil {
		if hmacFn == nil {
			hmacFn = DefaultHMAC
		}
		mac := hmacFn(key, buf)
		copy(buf[9:9+hmaclen], mac[:hmaclen])
	} else if _, err := rand.Read(buf[9 : 9+hmaclen]); err != nil {
		return nil, err
	}

	out := make([]byte, 0, 1+enc.EncodedLen(length-1))
	out = append(out, buf[4])
	out = enc.Encode(out, buf[5:])
	return out, nil
}

// Decode reverses [Encode]. It returns the decoded payload, the flags byte
// that was carried in the clear, and the CMC value. With [ErrBadHMAC] or an
// [*IsAnsError] it still returns all three, so a caller diagnosing a bad
// envelope (logging, counting protocol violations) gets the
// partially-trusted fields alongside the failure reason. Failures found
// before the body is decoded (short input, bad flags, unknown codec, body
// decode error) return a nil payload and a CMC of 0, plus the flags once
// they have been decoded.
//
// A nil key skips HMAC verification entirely, matching the unauthenticated
// mode Encode produces for a nil key.
func Decode(raw []byte, key []byte, hmacFn HMACFunc) ([]byte, Flags, uint32, error) {
	if len(raw) < 1 {
		return nil, 0, 0, ErrTooShort
	}
	flagsByte := raw[0]
	flags, err := decodeFlagsByte(flagsByte)
	if err != nil {
		return nil, 0, 0, err
	}
	if flags&FlagError != 0 && flags&FlagHMAC32 != 0 {
		// Error envelopes are always 96-bit HMAC; a wire flags byte claiming
		// both is never one Encode produced (it forces FlagHMAC32 clear
		// whenever FlagError is set) and is rejected outright rather than
		// read as a width-4 HMAC, independent of whether a key is supplied.
		return nil, flags, 0, ErrBadHMAC
	}
	hmaclen := flags.HMACLen()

	var enc Encoder
	if flags&FlagError != 0 {
		enc = registry[CodecBase32]
	} else {
		var ok bool
		enc, ok = lookup(flags.Codec())
		if !ok {
			return nil, flags, 0, ErrUnknownCodec
		}
	}

	dec, err := enc.Decode(nil, raw[1:])
	if err != nil {
		return nil, flags, 0, err
	}
	if len(dec) < 4+hmaclen {
		return nil, flags, 0, ErrTooShort
	}
	cmc := binary.BigEndian.Uint32(dec[0:4])
	gotHMAC := dec[4 : 4+hmaclen]
	data := dec[4+hmaclen:]

	if key != nil {
		total := 5 + len(dec)
		buf := make([]byte, total)
		binary.BigEndian.PutUint32(buf[0:4], uint32(len(dec)+1))
		buf[4] = flagsByte
		copy(buf[5:], dec)
		for i := range buf[9 : 9+hmaclen] {
			buf[9+i] = 0
		}
		if hmacFn == nil {
			hmacFn = DefaultHMAC
		}
		want := hmacFn(key, buf)
		if !hmac.Equal(want[:hmaclen], gotHMAC) {
			return data, flags, cmc, ErrBadHMAC
		}
	}

	if flags&FlagError != 0 {
		return data, flags, cmc, &IsAnsError{Code: ErrCode(flags.Codec())}
	}
	return data, flags, cmc, nil
}
