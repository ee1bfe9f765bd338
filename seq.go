// Package dnscore implements the reliable-delivery engine for a
// DNS-tunneling protocol: a bidirectional sliding-window fragmentation
// layer (this package) and an authenticated downstream framing layer
// (package envelope) that carries arbitrary payloads across a lossy,
// reordering, low-MTU channel.
//
// The package is single-threaded and cooperative: no operation blocks
// or spawns goroutines. Callers own scheduling and must serialize
// calls into a given [Window] themselves if driven from multiple
// goroutines, exactly as a bare TCB would (see [soypat/lneto/tcp.ControlBlock]
// for the pattern this package is modeled on).
package dnscore

import "fmt"

// Wire constants, fixed by the protocol's compatibility boundary.
const (
	// MaxSeqID is the size of the sequence ID ring: IDs wrap modulo this value.
	MaxSeqID = 256
	// MaxFragsizeDown bounds payload size of a single down-direction (server->client) fragment.
	MaxFragsizeDown = 2048
	// MaxFragsizeUp bounds payload size of a single up-direction (client->server) fragment.
	MaxFragsizeUp = 255
	// MaxSeqAhead is the half-ring lookahead limit: a fragment whose forward
	// distance from the window's start sequence ID is >= this is stale, never future.
	MaxSeqAhead = 128
)

// SeqID is a sequence number living in ℤ/256ℤ. It is kept distinct from
// [SlotIndex] (a different modulus, the ring length) so the two moduli
// can never be confused at a call site, per the protocol's own design notes.
type SeqID uint8

// String implements fmt.Stringer.
func (s SeqID) String() string { return fmt.Sprintf("seq(%d)", uint8(s)) }

// AddSeqID returns s advanced by delta, wrapping modulo [MaxSeqID].
func AddSeqID(s SeqID, delta uint8) SeqID { return SeqID(uint8(s) + delta) }

// Offset computes the forward distance from start to a within the 256-entry
// sequence-ID ring, i.e. (a - start) mod 256. The result is always in [0,255].
//
// Property: for all s,delta in [0,256), Offset(s, AddSeqID(s, delta)) == delta.
func Offset(start, a SeqID) uint8 { return uint8(a) - uint8(start) }

// InWindowSeq reports whether a lies in the half-open sequence range
// [start,end), wrapping if end < start.
func InWindowSeq(start, end, a SeqID) bool {
	if start <= end {
		return a >= start && a < end
	}
	return a >= start || a < end
}

// SlotIndex is an index into a [Window]'s ring of fragment slots, distinct
// from [SeqID] because it wraps modulo the ring length, not modulo 256.
type SlotIndex int

// String implements fmt.Stringer.
func (i SlotIndex) String() string { return fmt.Sprintf("slot(%d)", int(i)) }

// Wrap reduces x into [0,length) assuming length > 0.
func Wrap(x, length int) int {
	x %= length
	if x < 0 {
		x += length
	}
	return x
}

// DistForward returns the forward distance from a to b around a ring of
// length L: b-a if a<=b, else L-a+b.
func DistForward(L, a, b int) int {
	if a <= b {
		return b - a
	}
	return L - a + b
}

// slotForSeq computes the slot index holding sequence ID s, given the slot
// index of startSeqID (chunkStart) and the ring length, per invariant I2:
//
//	slot(s) = (chunkStart + ((s - startSeqID) mod 256)) mod length
func slotForSeq(chunkStart SlotIndex, startSeqID, s SeqID, length int) SlotIndex {
	delta := Offset(startSeqID, s)
	return SlotIndex(Wrap(int(chunkStart)+int(delta), length))
}
