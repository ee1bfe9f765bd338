package dnscore

import "testing"

// A seqID collision (a different, unrelated fragment occupying the slot an
// incoming fragment's own seqID maps to) is a protocol violation distinct
// from a duplicate: it means the peer's chunkStart/startSeqID view has
// diverged from ours. Exercised here by directly seeding a stale resident
// fragment, since a well-behaved peer (and our own windowsize/MaxSeqAhead
// gating) never produces one on its own.
func TestProcessIncomingFragment_Collision(t *testing.T) {
	var w Window
	if err := w.Init(16, 8, 4, Recving); err != nil {
		t.Fatalf("Init: %v", err)
	}
	idx := slotForSeq(w.windowStart, w.startSeqID, SeqID(2), w.length)
	w.frags[idx].Payload = append(w.frags[idx].Payload[:0], "zzzz"...)
	w.frags[idx].Len = 4
	w.frags[idx].SeqID = SeqID(99) // stale/unrelated resident seqID
	w.numitems++

	_, err := w.ProcessIncomingFragment(Fragment{Payload: []byte("abcd"), Len: 4, SeqID: 2})
	if err != errCollision {
		t.Fatalf("err = %v, want errCollision", err)
	}
}

func TestSlide_FreesSlotsWhenDeleting(t *testing.T) {
	var w Window
	if err := w.Init(8, 8, 4, Sending); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := w.AddOutgoingData([]byte("ab"), false); err != nil {
		t.Fatalf("AddOutgoingData: %v", err)
	}
	if w.numitems != 1 {
		t.Fatalf("numitems = %d, want 1", w.numitems)
	}
	w.slide(1, true)
	if w.numitems != 0 {
		t.Fatalf("numitems = %d after deleting slide, want 0", w.numitems)
	}
	if w.windowStart != 1 {
		t.Fatalf("windowStart = %v, want 1", w.windowStart)
	}
}
