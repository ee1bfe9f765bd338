package envelope

import (
	"crypto/hmac"
	"crypto/md5" //nolint:gosec // protocol-mandated digest, not used for anything security-sensitive beyond tamper detection
)

// HMACFunc computes a 16-byte MAC over msg keyed by key. Callers needing a
// different digest (or a hardware-backed key) can supply their own instead
// of [DefaultHMAC].
type HMACFunc func(key, msg []byte) [16]byte

// DefaultHMAC is HMAC-MD5, the digest this protocol's wire format is fixed
// to: the envelope only ever carries a 4- or 12-byte truncation of it.
func DefaultHMAC(key, msg []byte) [16]byte {
	mac := hmac.New(md5.New, key)
	mac.Write(msg)
	var out [16]byte
	copy(out[:], mac.Sum(nil))
	return out
}
