package envelope

// CodecTag is the 3-bit value carried in the low bits of a non-error
// envelope's flags byte, naming which byte-safe alphabet the remainder of
// the envelope is encoded with.
type CodecTag uint8

const (
	CodecRaw CodecTag = iota
	CodecBase32
	CodecBase64
	CodecBase64U
	CodecBase128
)

// Flags returns c as a bare Flags value (no HMAC32/Error bits set), a
// convenience for callers building up flags from a codec choice.
func (c CodecTag) Flags() Flags { return Flags(c) }

func (c CodecTag) String() string {
	switch c {
	case CodecRaw:
		return "raw"
	case CodecBase32:
		return "base32"
	case CodecBase64:
		return "base64"
	case CodecBase64U:
		return "base64u"
	case CodecBase128:
		return "base128"
	default:
		return "unknown"
	}
}

// Encoder converts between raw bytes and one of the channel-safe alphabets
// a DNS label/resource record can carry unharmed. Implementations are
// pure and stateless; EncodedLen/MaxDecodedLen must agree exactly with what
// Decode/Encode actually produce, since callers use them to size buffers
// and enforce the carrier's length budget before ever calling Encode.
type Encoder interface {
	// Encode appends the encoded form of src to dst, returning the extended slice.
	Encode(dst, src []byte) []byte
	// Decode appends the decoded form of src to dst, returning the extended
	// slice and an error if src is not validly encoded.
	Decode(dst, src []byte) ([]byte, error)
	// EncodedLen returns the exact encoded byte count for a message of rawLen bytes.
	EncodedLen(rawLen int) int
	// MaxDecodedLen returns an upper bound on the decoded byte count for an
	// encoded input of encLen bytes (exact for fixed-ratio alphabets).
	MaxDecodedLen(encLen int) int
}

// registry holds the default Encoder for each CodecTag. Indexed directly by
// CodecTag; a nil entry means no default is registered for that tag.
var registry [8]Encoder

func init() {
	registry[CodecRaw] = rawEncoder{}
	registry[CodecBase32] = base32Encoder{}
	registry[CodecBase64] = base64Encoder{}
	registry[CodecBase64U] = base64uEncoder{}
	registry[CodecBase128] = base128Encoder{}
}

// RegisterEncoder overrides the default Encoder used for tag. Exposed so a
// caller can swap in a carrier-specific alphabet (e.g. one avoiding a
// particular resolver's label-case folding) without forking this package.
func RegisterEncoder(tag CodecTag, enc Encoder) { registry[tag&CodecTag(FlagCodecMask)] = enc }

// lookup returns the registered Encoder for tag, or (nil, false).
func lookup(tag CodecTag) (Encoder, bool) {
	if int(tag) >= len(registry) {
		return nil, false
	}
	enc := registry[tag]
	return enc, enc != nil
}
