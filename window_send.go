package dnscore

import (
	"log/slog"
	"time"

	"github.com/lowmtu/dnscore/internal"
)

// AddOutgoingData splits data into ceil(len(data)/maxfraglen) fragments and
// admits them into the window as a single atomic operation: if there isn't
// room for every fragment the call is rejected and no state changes at all
// (I5: consecutive fragments of one message get consecutive seqIDs mod 256).
// It returns the number of fragments queued.
func (w *Window) AddOutgoingData(data []byte, compressed bool) (int, error) {
	n := len(data)
	if n == 0 {
		// Len==0 is reserved to mean "free slot" (I3), so a zero-byte message
		// has no representable fragment; callers must not pass empty data.
		return 0, &AdmissionError{Err: errTooLarge, Requested: 0, Available: w.Available()}
	}
	nfrags := (n + w.maxfraglen - 1) / w.maxfraglen
	if nfrags > w.Available() {
		return 0, &AdmissionError{Err: errFull, Requested: nfrags, Available: w.Available()}
	}

	// Fragment i goes to the slot invariant I2 maps seqID curSeqID+i to, the
	// same mapping Ack and tick use.
	base := int(slotForSeq(w.windowStart, w.startSeqID, w.curSeqID, w.length))

	// Atomicity check: walk the slots we'd need and make sure every one is free
	// before mutating anything.
	for i := 0; i < nfrags; i++ {
		idx := Wrap(base+i, w.length)
		if !w.frags[idx].free() {
			return 0, &AdmissionError{Err: errFull, Requested: nfrags, Available: w.Available()}
		}
	}

	curSeqID := w.curSeqID
	off := 0
	for i := 0; i < nfrags; i++ {
		idx := Wrap(base+i, w.length)
		end := off + w.maxfraglen
		if end > n {
			end = n
		}
		flen := end - off
		if flen > w.maxfraglen {
			return 0, &AdmissionError{Err: errTooLarge, Requested: nfrags, Available: w.Available()}
		}
		f := &w.frags[idx]
		f.Payload = f.Payload[:flen]
		copy(f.Payload, data[off:end])
		f.Len = flen
		f.SeqID = curSeqID
		f.Retries = 0
		f.Acks = 0
		f.AckOther = -1
		f.Compressed = compressed
		f.Start = i == 0
		f.End = i == nfrags-1
		curSeqID = AddSeqID(curSeqID, 1)
		off = end
	}
	w.trace("window:add-outgoing", slog.Int("nfrags", nfrags), slog.Uint64("seq-start", uint64(w.curSeqID)))
	w.lastWrite = SlotIndex(Wrap(base+nfrags-1, w.length))
	w.curSeqID = curSeqID
	w.numitems += nfrags
	w.tick()
	return nfrags, nil
}

// sendEligible reports whether slot f is due to be (re)sent at time now,
// per the Sending predicate of spec §4.3: len>0, never ACKed, and either
// never sent or past the resend deadline.
func (w *Window) sendEligible(f *Fragment, now time.Time) bool {
	if f.free() || f.Acks != 0 {
		return false
	}
	if f.Retries == 0 {
		return true
	}
	return now.Sub(f.LastSent) >= w.timeout
}

// Sending counts fragments eligible to be (re)sent at time now.
func (w *Window) Sending(now time.Time) int {
	count := 0
	for n := 0; n < w.windowsize; n++ {
		idx := Wrap(int(w.windowStart)+n, w.length)
		if w.sendEligible(&w.frags[idx], now) {
			count++
		}
	}
	return count
}

// GetNextSendingFragment scans the active window from windowStart forward
// for the first fragment due to be sent, marks it sent (bumping Retries and
// LastSent), and piggybacks otherAck (the most recent seqID the caller wants
// ACKed in the reverse direction, or -1 for none) onto the returned
// fragment's AckOther field. Fragments that have exceeded MaxRetries are
// dropped (freed) as the scan passes them, per property P7: a fragment is
// freed after exactly MaxRetries+1 total send attempts. Returns nil when no
// fragment is due.
func (w *Window) GetNextSendingFragment(now time.Time, otherAck int) *Fragment {
	n := 0
	for n < w.windowsize {
		idx := Wrap(int(w.windowStart)+n, w.length)
		f := &w.frags[idx]
		if f.free() {
			n++
			continue
		}
		if f.Acks == 0 && f.Retries > w.maxRetries {
			w.trace("window:drop-max-retries", internal.SlogSeqID("seq", uint8(f.SeqID)))
			f.reset()
			w.numitems--
			w.tick()
			continue // slot is free now; re-examine same position without advancing n.
		}
		if w.sendEligible(f, now) {
			f.LastSent = now
			f.Retries++
			f.AckOther = otherAck
			w.trace("window:send", internal.SlogSeqID("seq", uint8(f.SeqID)), internal.SlogFlags("flags", f.flagBits()), slog.Int("retries", f.Retries))
			return f
		}
		n++
	}
	return nil
}

// Ack applies an acknowledgement for seqid. If the slot it maps to is
// outside the active window or unpopulated, the ACK is silently ignored
// (late or duplicate ACK, per spec §4.3). Calling Ack repeatedly for the
// same seqid is idempotent (property P5): tick only slides once the
// prefix is actually ACKed, and re-acking an already-freed slot is a no-op.
func (w *Window) Ack(seqid SeqID) {
	idx := slotForSeq(w.windowStart, w.startSeqID, seqid, w.length)
	delta := DistForward(w.length, int(w.windowStart), int(idx))
	if delta >= w.windowsize {
		return // outside the active window.
	}
	f := &w.frags[idx]
	if f.free() || f.SeqID != seqid {
		return
	}
	f.Acks++
	w.trace("window:ack", internal.SlogSeqID("seq", uint8(seqid)), slog.Int("acks", f.Acks))
	w.tick()
}
