package envelope

import "encoding/base64"

// base64Encoder uses the standard (non-URL) alphabet without padding, for
// carriers that tolerate '+' and '/' (e.g. a TXT-record transport).
type base64Encoder struct{}

func (base64Encoder) Encode(dst, src []byte) []byte {
	n := base64.RawStdEncoding.EncodedLen(len(src))
	buf := make([]byte, n)
	base64.RawStdEncoding.Encode(buf, src)
	return append(dst, buf...)
}

func (base64Encoder) Decode(dst, src []byte) ([]byte, error) {
	n := base64.RawStdEncoding.DecodedLen(len(src))
	buf := make([]byte, n)
	written, err := base64.RawStdEncoding.Decode(buf, src)
	if err != nil {
		return dst, err
	}
	return append(dst, buf[:written]...), nil
}

func (base64Encoder) EncodedLen(rawLen int) int { return base64.RawStdEncoding.EncodedLen(rawLen) }

func (base64Encoder) MaxDecodedLen(encLen int) int { return base64.RawStdEncoding.DecodedLen(encLen) }

// base64uEncoder uses the URL-safe alphabet ('-', '_' in place of '+', '/'),
// the variant that survives a DNS label's character-set restrictions.
type base64uEncoder struct{}

func (base64uEncoder) Encode(dst, src []byte) []byte {
	n := base64.RawURLEncoding.EncodedLen(len(src))
	buf := make([]byte, n)
	base64.RawURLEncoding.Encode(buf, src)
	return append(dst, buf...)
}

func (base64uEncoder) Decode(dst, src []byte) ([]byte, error) {
	n := base64.RawURLEncoding.DecodedLen(len(src))
	buf := make([]byte, n)
	written, err := base64.RawURLEncoding.Decode(buf, src)
	if err != nil {
		return dst, err
	}
	return append(dst, buf[:written]...), nil
}

func (base64uEncoder) EncodedLen(rawLen int) int { return base64.RawURLEncoding.EncodedLen(rawLen) }

func (base64uEncoder) MaxDecodedLen(encLen int) int {
	return base64.RawURLEncoding.DecodedLen(encLen)
}
