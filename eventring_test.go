
/*
License: GPLv3 or later
*/
package alcore

import "testing"

func TestEventRingWriteReadOrder(t *testing.T) {
	r := NewEventRing(4)
	r.Write(Event{Kind: EventSourceState, SourceID: 1})
	r.Write(Event{Kind: EventSourceState, SourceID: 2})

	dst := make([]Event, 2)
	n := r.Read(dst)
	if n != 2 {
		t.Fatalf("expected 2 events, got %d", n)
	}
	if dst[0].SourceID != 1 || dst[1].SourceID != 2 {
		t.Errorf("expected FIFO order, got %+v", dst)
	}
}

func TestEventRingRoundsCapacityToPowerOfTwo(t *testing.T) {
	r := NewEventRing(5)
	if len(r.buf) != 8 {
		t.Errorf("expected capacity rounded to 8, got %d", len(r.buf))
	}
}

func TestEventRingOverflowDropsOldest(t *testing.T) {
	r := NewEventRing(2)
	r.Write(Event{SourceID: 1})
	r.Write(Event{SourceID: 2})
	r.Write(Event{SourceID: 3}) // overflow, should drop SourceID 1

	dst := make([]Event, 4)
	n := r.Read(dst)
	if n != 2 {
		t.Fatalf("expected 2 remaining events, got %d", n)
	}
	if dst[0].SourceID != 2 {
		t.Errorf("expected oldest surviving event to be SourceID 2, got %d", dst[0].SourceID)
	}
}

func TestEventRingNotifySignals(t *testing.T) {
	r := NewEventRing(4)
	r.Write(Event{})
	select {
	case <-r.Notify():
	default:
		t.Fatal("expected notify channel to have a pending signal")
	}
}
