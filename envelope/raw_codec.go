package envelope

// rawEncoder is the identity codec, used over carriers (TCP/TLS framing,
// or a DNS transport variant that permits arbitrary octets in the record)
// that need no alphabet restriction at all.
type rawEncoder struct{}

func (rawEncoder) Encode(dst, src []byte) []byte { return append(dst, src...) }

func (rawEncoder) Decode(dst, src []byte) ([]byte, error) { return append(dst, src...), nil }

func (rawEncoder) EncodedLen(rawLen int) int { return rawLen }

func (rawEncoder) MaxDecodedLen(encLen int) int { return encLen }
