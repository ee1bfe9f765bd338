package dnscore

import "testing"

// P1: for all s,delta in [0,256), Offset(s, AddSeqID(s, delta)) == delta.
func TestSeqOffsetRoundTrip(t *testing.T) {
	for s := 0; s < MaxSeqID; s++ {
		for delta := 0; delta < MaxSeqID; delta++ {
			got := Offset(SeqID(s), AddSeqID(SeqID(s), uint8(delta)))
			if int(got) != delta {
				t.Fatalf("Offset(%d, AddSeqID(%d,%d)) = %d, want %d", s, s, delta, got, delta)
			}
		}
	}
}

func TestInWindowSeq(t *testing.T) {
	if !InWindowSeq(10, 20, 15) {
		t.Error("15 should be in [10,20)")
	}
	if InWindowSeq(10, 20, 20) {
		t.Error("20 should not be in [10,20)")
	}
	// wrapping case: start > end
	if !InWindowSeq(250, 5, 252) {
		t.Error("252 should be in wrapping range [250,5)")
	}
	if !InWindowSeq(250, 5, 2) {
		t.Error("2 should be in wrapping range [250,5)")
	}
	if InWindowSeq(250, 5, 100) {
		t.Error("100 should not be in wrapping range [250,5)")
	}
}

func TestWrap(t *testing.T) {
	cases := []struct{ x, length, want int }{
		{0, 8, 0},
		{7, 8, 7},
		{8, 8, 0},
		{-1, 8, 7},
		{-9, 8, 7},
	}
	for _, c := range cases {
		if got := Wrap(c.x, c.length); got != c.want {
			t.Errorf("Wrap(%d,%d) = %d, want %d", c.x, c.length, got, c.want)
		}
	}
}

func TestSlotForSeq(t *testing.T) {
	// I2: slot(s) = (chunkStart + ((s - startSeqID) mod 256)) mod length
	const length = 16
	chunkStart := SlotIndex(3)
	startSeqID := SeqID(100)
	got := slotForSeq(chunkStart, startSeqID, SeqID(103), length)
	want := SlotIndex(Wrap(3+3, length))
	if got != want {
		t.Errorf("slotForSeq = %v, want %v", got, want)
	}
	// Wrapping past the ring length.
	got = slotForSeq(chunkStart, startSeqID, SeqID(115), length)
	want = SlotIndex(Wrap(3+15, length))
	if got != want {
		t.Errorf("slotForSeq wrap = %v, want %v", got, want)
	}
}
