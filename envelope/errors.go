package envelope

import "errors"

var (
	// ErrTooShort is returned by Decode when the raw input is shorter than
	// the minimum possible envelope (one flags char plus an encoded empty body).
	ErrTooShort = errors.New("envelope: input shorter than minimum frame")
	// ErrBadHMAC is returned by Decode when the recomputed HMAC doesn't
	// match the one carried in the envelope: either the key is wrong, a
	// byte was corrupted in transit, or the data was tampered with.
	ErrBadHMAC = errors.New("envelope: HMAC mismatch")
	// ErrUnknownCodec is returned when the flags byte names a CodecTag with
	// no registered Encoder.
	ErrUnknownCodec = errors.New("envelope: no encoder registered for codec")
	// ErrBudget is returned by Encode when the caller's output budget is
	// too small to hold the framed, encoded message.
	ErrBudget = errors.New("envelope: output budget exceeded")
)

// ErrCode is the sub-code an in-band error envelope (FlagError set) carries
// in its codec/error-code field, naming what the server rejected about the
// request this error answers.
type ErrCode uint8

const (
	ErrCodeBadAuth  ErrCode = iota // login/auth failed
	ErrCodeBadLen                  // request length invalid for its stated kind
	ErrCodeBadLogin                // login sequence out of order or unrecognized
	ErrCodeBadOpts                 // option negotiation failed
)

func (c ErrCode) String() string {
	switch c {
	case ErrCodeBadAuth:
		return "BADAUTH"
	case ErrCodeBadLen:
		return "BADLEN"
	case ErrCodeBadLogin:
		return "BADLOGIN"
	case ErrCodeBadOpts:
		return "BADOPTS"
	default:
		return "BADUNKNOWN"
	}
}

// IsAnsError reports a protocol-level rejection surfaced through an in-band
// error envelope, as opposed to a local decode failure.
type IsAnsError struct {
	Code ErrCode
}

func (e *IsAnsError) Error() string { return "envelope: server rejected request: " + e.Code.String() }
