package dnscore

import "time"

// Fragment is the metadata of one protocol fragment together with a view
// of its payload bytes, which always alias a [Window]'s backing buffer.
//
// A Fragment with Len==0 represents a free slot; every field other than
// Len is meaningless in that state.
type Fragment struct {
	// Payload is a view into the owning Window's backing buffer; it is only
	// valid while the slot it came from remains populated.
	Payload []byte
	// Len is the number of valid bytes in Payload. Len==0 means the slot is free.
	Len int
	// SeqID is this fragment's sequence number in [0, MaxSeqID).
	SeqID SeqID
	// LastSent is the time of the most recent (re)transmission; zero if never sent.
	LastSent time.Time
	// Retries counts transmission attempts on the send side, or duplicate
	// arrivals on the receive side.
	Retries int
	// Acks is the cumulative count of ACKs received for this fragment (send side only).
	Acks int
	// AckOther carries a piggybacked opposite-direction ACK sequence ID, or
	// -1 if none is piggybacked.
	AckOther int
	// Compressed marks the fragment's payload (and by extension, the whole
	// message it belongs to) as compressed.
	Compressed bool
	// Start marks this as the first fragment of a message.
	Start bool
	// End marks this as the last fragment of a message.
	End bool
}

// free reports whether the fragment's slot is unoccupied.
func (f *Fragment) free() bool { return f.Len == 0 }

// flagBits packs Compressed/Start/End into a single bitfield for structured
// logging, in the protocol's own bit order (Compressed, Start, End from
// low to high).
func (f *Fragment) flagBits() uint8 {
	var b uint8
	if f.Compressed {
		b |= 1 << 0
	}
	if f.Start {
		b |= 1 << 1
	}
	if f.End {
		b |= 1 << 2
	}
	return b
}

// reset clears a fragment slot back to its free state without touching
// the backing payload storage (callers must not read Payload afterwards).
func (f *Fragment) reset() {
	*f = Fragment{Payload: f.Payload[:0], AckOther: -1}
}
