// eventring.go - lock-free SPSC ring delivering state-change events to
// the application thread.

/*
License: GPLv3 or later
*/

package alcore

import "sync/atomic"

// EventKind tags an Event's payload.
type EventKind int

const (
	EventKillThread EventKind = iota
	EventSourceState
	EventBufferComplete
	EventEffectRelease
	EventDisconnect
)

// SourceState mirrors a voice's lifecycle for SourceStateEvent.
type SourceState int

const (
	SourceStatePlaying SourceState = iota
	SourceStatePaused
	SourceStateStopped
)

// Event is the tagged variant delivered through the ring.
type Event struct {
	Kind EventKind

	SourceID uint32      // SourceState, BufferComplete
	State    SourceState // SourceState

	Count int // BufferComplete: number of buffers that finished this cycle

	ReleasedEffect EffectState // EffectRelease: owned by the consumer now

	Message string // Disconnect
}

// EventRing is a single-producer single-consumer ring buffer. The
// mixer is the sole producer; exactly one application-side goroutine
// must be the consumer.
type EventRing struct {
	buf      []Event
	mask     uint64
	writePos atomic.Uint64
	readPos  atomic.Uint64
	notify   chan struct{}
}

// NewEventRing allocates a ring whose capacity is rounded up to the
// next power of two.
func NewEventRing(capacity int) *EventRing {
	n := 1
	for n < capacity {
		n <<= 1
	}
	return &EventRing{
		buf:    make([]Event, n),
		mask:   uint64(n - 1),
		notify: make(chan struct{}, 1),
	}
}

// Write appends one event; if the ring is full the oldest unread event
// is silently overwritten (the consumer has fallen behind — state
// events are not safety-critical to the audio path) and the drop is
// logged.
func (r *EventRing) Write(e Event) {
	w := r.writePos.Load()
	read := r.readPos.Load()
	if w-read >= uint64(len(r.buf)) {
		logger.Warn("event ring overflow, dropping oldest", "kind", e.Kind)
		r.readPos.Store(read + 1)
	}
	r.buf[w&r.mask] = e
	r.writePos.Store(w + 1)
	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// ReadSpace reports how many events are waiting.
func (r *EventRing) ReadSpace() int {
	return int(r.writePos.Load() - r.readPos.Load())
}

// Read drains up to len(dst) events, returning how many were copied.
func (r *EventRing) Read(dst []Event) int {
	n := 0
	for n < len(dst) {
		read := r.readPos.Load()
		if read == r.writePos.Load() {
			break
		}
		dst[n] = r.buf[read&r.mask]
		r.readPos.Store(read + 1)
		n++
	}
	return n
}

// Notify returns the channel the consumer should select on to wake up
// when new events are available (the spec's "futex/condvar" signal).
func (r *EventRing) Notify() <-chan struct{} {
	return r.notify
}
