package dnscore

import (
	"context"
	"log/slog"
	"time"

	"github.com/lowmtu/dnscore/internal"
)

// Direction selects whether a Window plays the sending or receiving role.
// A single Window struct multiplexes both behaviors, the way the teacher's
// TCB multiplexes send/receive sequence spaces with one struct: direction
// only changes which of AddOutgoingData/GetNextSendingFragment/Ack versus
// ProcessIncomingFragment/ReassembleData are meaningful to call.
type Direction uint8

const (
	Sending Direction = iota
	Recving
)

func (d Direction) String() string {
	if d == Sending {
		return "sending"
	}
	return "recving"
}

// Window is a ring of fragment slots parameterized for either the sending
// or receiving role. See the package doc and spec §3 for the full data
// model; this file holds construction and the operations common to both
// directions (Available, Clear, Resize, slide, tick).
type Window struct {
	frags []Fragment
	data  []byte

	windowStart SlotIndex
	curSeqID    SeqID
	startSeqID  SeqID
	lastWrite   SlotIndex

	length     int
	windowsize int
	maxfraglen int
	timeout    time.Duration
	maxRetries int

	numitems int
	resends  int
	oos      int

	direction Direction

	log *slog.Logger
}

// Init (re)initializes a Window to a ring of length slots, each holding up
// to maxfraglen payload bytes, playing the given direction's role. length
// must be >= windowsize; the teacher's convention (and this protocol's) is
// length = 2*windowsize so retransmitted-but-not-yet-ACKed fragments never
// collide with newly admitted ones.
func (w *Window) Init(length, windowsize, maxfraglen int, direction Direction) error {
	if length <= 0 || length < windowsize {
		return errBadLength
	}
	*w = Window{
		frags:      make([]Fragment, length),
		data:       make([]byte, length*maxfraglen),
		length:     length,
		windowsize: windowsize,
		maxfraglen: maxfraglen,
		timeout:    100 * time.Millisecond,
		maxRetries: 5,
		direction:  direction,
		log:        w.log,
	}
	for i := range w.frags {
		w.frags[i].Payload = w.data[i*maxfraglen : i*maxfraglen : (i+1)*maxfraglen]
		w.frags[i].AckOther = -1
	}
	return nil
}

// SetLogger sets the logger used for trace/error logging of window state
// transitions. Passing nil disables logging (the zero value already has this effect).
func (w *Window) SetLogger(log *slog.Logger) { w.log = log }

// SetTimeout sets the per-fragment resend deadline.
func (w *Window) SetTimeout(d time.Duration) { w.timeout = d }

// SetMaxRetries sets the number of resend attempts tolerated before a
// send-side fragment is dropped (see property P7: freed after exactly
// MaxRetries+1 total send attempts).
func (w *Window) SetMaxRetries(n int) { w.maxRetries = n }

// Windowsize returns the maximum number of fragments considered in flight.
func (w *Window) Windowsize() int { return w.windowsize }

// MaxFragLen returns the configured maximum payload size per fragment.
func (w *Window) MaxFragLen() int { return w.maxfraglen }

// Direction returns the role this Window was configured for.
func (w *Window) Direction() Direction { return w.direction }

// NumItems returns the number of currently populated slots.
func (w *Window) NumItems() int { return w.numitems }

// Resends returns the cumulative count of duplicate-fragment arrivals observed.
func (w *Window) Resends() int { return w.resends }

// OOS returns the cumulative count of out-of-sequence drops observed
// (stale arrivals with no matching slot, arrivals too far ahead of the
// window, or seqID collisions).
func (w *Window) OOS() int { return w.oos }

// Available returns the number of free fragment slots (not bytes).
func (w *Window) Available() int { return w.length - w.numitems }

// Clear zeros all slot state and resets counters/indices, preserving the
// ring's shape (length, windowsize, maxfraglen, direction, timeout, max retries).
func (w *Window) Clear() {
	for i := range w.frags {
		w.frags[i].reset()
	}
	w.windowStart = 0
	w.curSeqID = 0
	w.startSeqID = 0
	w.lastWrite = 0
	w.numitems = 0
	w.resends = 0
	w.oos = 0
}

// Resize reallocates backing storage for a new ring shape and clears all
// data (data-destructive by contract, matching the source protocol's
// resize semantics).
func (w *Window) Resize(newLength, newMaxfraglen int) error {
	if newLength <= 0 || newLength < w.windowsize {
		return errBadLength
	}
	var frags []Fragment
	internal.SliceReuse(&frags, newLength)
	frags = frags[:newLength]
	data := make([]byte, newLength*newMaxfraglen)
	w.frags = frags
	w.data = data
	w.length = newLength
	w.maxfraglen = newMaxfraglen
	for i := range w.frags {
		w.frags[i].Payload = w.data[i*newMaxfraglen : i*newMaxfraglen : (i+1)*newMaxfraglen]
	}
	w.Clear()
	return nil
}

// slide advances windowStart by n slots (mod length) and startSeqID by n
// (mod 256). When delete is set, every slot passed over is freed; otherwise
// its contents are left untouched (used when the caller has already
// consumed/freed the slots itself, as reassemble does).
func (w *Window) slide(n int, delete bool) {
	for i := 0; i < n; i++ {
		if delete {
			idx := Wrap(int(w.windowStart)+i, w.length)
			if !w.frags[idx].free() {
				w.frags[idx].reset()
				w.numitems--
			}
		}
	}
	w.windowStart = SlotIndex(Wrap(int(w.windowStart)+n, w.length))
	w.startSeqID = AddSeqID(w.startSeqID, uint8(n))
}

// tick is the post-processing hook invoked after any state-changing call.
// On the sending side it slides forward across any contiguous prefix of
// fully-ACKed slots at windowStart, freeing them. On the receiving side it
// is a no-op: reassembly drives sliding there.
func (w *Window) tick() {
	if w.direction != Sending {
		return
	}
	n := 0
	for n < w.length {
		idx := Wrap(int(w.windowStart)+n, w.length)
		f := &w.frags[idx]
		if f.free() || f.Acks == 0 {
			break
		}
		n++
	}
	if n > 0 {
		w.slide(n, true)
		w.trace("window:tick-slide", slog.Int("n", n))
	}
}

func (w *Window) logEnabled(lvl slog.Level) bool {
	return internal.HeapAllocDebugging || (w.log != nil && w.log.Handler().Enabled(context.Background(), lvl))
}

func (w *Window) trace(msg string, attrs ...slog.Attr) {
	if w.logEnabled(internal.LevelTrace) {
		internal.LogAttrs(w.log, internal.LevelTrace, msg, attrs...)
	}
}

func (w *Window) logerr(msg string, attrs ...slog.Attr) {
	internal.LogAttrs(w.log, slog.LevelError, msg, attrs...)
}
