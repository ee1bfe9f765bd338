package dnscore

import (
	"log/slog"

	"github.com/lowmtu/dnscore/internal"
)

// ProcessIncomingFragment inserts an arriving fragment into the window,
// deduplicating and counting out-of-sequence arrivals as it goes. It
// returns the number of bytes accepted: 0 for a dropped or duplicate
// fragment, else the fragment's length.
//
// Δ = Offset(startSeqID, f.SeqID) classifies the arrival per spec §4.4:
//   - Δ >= MaxSeqAhead: stale. If the slot it would occupy already holds a
//     matching seqID, this is a duplicate (Retries++, resends++); otherwise
//     it's dropped as too-far-behind (oos++).
//   - windowsize <= Δ < MaxSeqAhead: ahead of the admissible lookahead for
//     this ring; rejected to avoid overrunning unacked slots (oos++). This
//     resolves the ambiguity spec §9 flags around recv-side window growth.
//   - Δ < windowsize: within the active window. Empty slot -> insert.
//     Matching seqID already present -> duplicate. Different seqID present
//     -> protocol violation (seqID collision), dropped (oos++).
func (w *Window) ProcessIncomingFragment(f Fragment) (int, error) {
	delta := Offset(w.startSeqID, f.SeqID)
	idx := slotForSeq(w.windowStart, w.startSeqID, f.SeqID, w.length)

	if delta >= MaxSeqAhead {
		slot := &w.frags[idx]
		if !slot.free() && slot.SeqID == f.SeqID {
			slot.Retries++
			w.resends++
			w.trace("window:dup-stale", internal.SlogSeqID("seq", uint8(f.SeqID)))
			return 0, nil
		}
		w.oos++
		w.trace("window:drop-stale", internal.SlogSeqID("seq", uint8(f.SeqID)))
		return 0, nil
	}

	if int(delta) >= w.windowsize {
		w.oos++
		w.trace("window:drop-too-far-ahead", internal.SlogSeqID("seq", uint8(f.SeqID)))
		return 0, nil
	}

	slot := &w.frags[idx]
	switch {
	case slot.free():
		slot.Payload = slot.Payload[:0]
		slot.Payload = append(slot.Payload, f.Payload[:f.Len]...)
		slot.Len = f.Len
		slot.SeqID = f.SeqID
		slot.Compressed = f.Compressed
		slot.Start = f.Start
		slot.End = f.End
		slot.Acks = 0
		slot.Retries = 0
		slot.AckOther = -1
		w.numitems++
		w.trace("window:insert", internal.SlogSeqID("seq", uint8(f.SeqID)), internal.SlogFlags("flags", slot.flagBits()))
		return f.Len, nil
	case slot.SeqID == f.SeqID:
		slot.Retries++
		w.resends++
		w.trace("window:dup", internal.SlogSeqID("seq", uint8(f.SeqID)))
		return 0, nil
	default:
		w.oos++
		w.logerr("window:collision", internal.SlogSeqID("seq", uint8(f.SeqID)), internal.SlogSeqID("resident", uint8(slot.SeqID)))
		return 0, errCollision
	}
}

// ReassembleData scans forward from the window's oldest slot looking for a
// maximal contiguous populated run that starts with a Start fragment and
// ends with an End fragment. On a complete run it concatenates the
// fragments' payloads into out (bounded by len(out)), frees the consumed
// slots, slides the window past them, and returns the bytes written plus
// the run's compression flag (uniform across the message, per protocol
// guarantee). On an incomplete run it returns 0 and leaves buffered data
// untouched, except for discarding leading orphan fragments: if the scan
// finds populated, non-Start fragments before locating a Start (the tail
// of a message whose own Start/earlier fragments were already consumed or
// lost), those orphans are freed so the window can make forward progress
// once a genuine Start fragment arrives.
func (w *Window) ReassembleData(out []byte) (int, bool, error) {
	discarded := 0
	for discarded < w.windowsize {
		f := &w.frags[w.windowStart]
		if f.free() {
			return 0, false, nil // incomplete: hit a gap before any Start.
		}
		if f.Start {
			break
		}
		// Orphan fragment sitting at the window's oldest slot with no
		// preceding Start: discard it and slide past it so chunk_start
		// tracks the oldest *relevant* slot instead of wedging forever.
		w.trace("window:discard-orphan", internal.SlogSeqID("seq", uint8(f.SeqID)))
		f.reset()
		w.numitems--
		w.slide(1, false)
		discarded++
	}
	if discarded >= w.windowsize {
		return 0, false, nil // incomplete: no Start found within the window.
	}

	budget := w.windowsize - discarded
	for runLen := 0; runLen < budget; runLen++ {
		idx := Wrap(int(w.windowStart)+runLen, w.length)
		f := &w.frags[idx]
		if f.free() {
			return 0, false, nil // incomplete: hit a gap mid-run.
		}
		if f.End {
			return w.emitRun(out, int(w.windowStart), 0, runLen)
		}
	}
	return 0, false, nil // incomplete: exceeded windowsize slots examined.
}

// emitRun concatenates the contiguous run [runStart,runEnd] (both relative
// to base) into out, frees the slots, and slides the window past them.
func (w *Window) emitRun(out []byte, base, runStart, runEnd int) (int, bool, error) {
	n := 0
	compressed := true
	first := true
	for i := runStart; i <= runEnd; i++ {
		idx := Wrap(base+i, w.length)
		f := &w.frags[idx]
		if n+f.Len > len(out) {
			// Truncate per *maxlen contract; still consume the run so the
			// window doesn't wedge on an oversized message.
			copy(out[n:], f.Payload[:len(out)-n])
			n = len(out)
		} else {
			copy(out[n:], f.Payload[:f.Len])
			n += f.Len
		}
		if first {
			compressed = f.Compressed
			first = false
		}
		f.reset()
		w.numitems--
	}
	runLen := runEnd + 1
	w.slide(runLen, false)
	w.trace("window:reassembled", slog.Int("bytes", n), slog.Bool("compressed", compressed))
	return n, compressed, nil
}
