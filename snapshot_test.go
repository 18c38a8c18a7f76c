// snapshot_test.go - race-detector-as-oracle test for Mailbox/FreeList,
// in the style of the teacher's concurrent chip-state test.

/*
License: GPLv3 or later
*/

package alcore

import (
	"sync"
	"testing"
)

func TestMailboxPublishTakeConcurrent(t *testing.T) {
	var mb Mailbox[int]
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			v := i
			mb.Publish(&v)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			mb.Take()
		}
	}()
	wg.Wait()
}

func TestMailboxTakeOnceSemantics(t *testing.T) {
	var mb Mailbox[string]
	if v := mb.Take(); v != nil {
		t.Fatalf("expected nil from empty mailbox, got %v", *v)
	}
	s := "hello"
	mb.Publish(&s)
	if !mb.Peek() {
		t.Fatal("expected Peek true after Publish")
	}
	got := mb.Take()
	if got == nil || *got != "hello" {
		t.Fatalf("expected hello, got %v", got)
	}
	if mb.Take() != nil {
		t.Fatal("expected second Take to return nil")
	}
}

func TestFreeListGetPutConcurrent(t *testing.T) {
	fl := NewFreeList(voiceChangeNext)
	for i := 0; i < 16; i++ {
		fl.Put(&voiceChange{})
	}

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				v := fl.Get()
				if v == nil {
					v = &voiceChange{}
				}
				fl.Put(v)
			}
		}()
	}
	wg.Wait()
}
