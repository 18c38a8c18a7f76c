// voicechange.go - the queued voice-transition record and its
// lock-free intrusive singly-linked list.

/*
License: GPLv3 or later
*/

package alcore

import "sync/atomic"

// VoiceChangeState identifies what transition a voiceChange requests.
type VoiceChangeState int

const (
	VoiceChangeReset VoiceChangeState = iota
	VoiceChangeStop
	VoiceChangePlay
	VoiceChangePause
	VoiceChangeRestart
)

// voiceChange is one queued transition. The API thread appends to the
// tail with an atomic store (see enqueueVoiceChange); the mixer
// advances Context.currentVoiceChange after each cycle. Consumed
// records are not recycled.
type voiceChange struct {
	next     atomic.Pointer[voiceChange]
	oldVoice *Voice
	newVoice *Voice
	state    VoiceChangeState
	sourceID uint32
}

func voiceChangeNext(v *voiceChange) *atomic.Pointer[voiceChange] { return &v.next }

// enqueueVoiceChange appends vc to the tail of the list rooted at tail,
// returning the new tail. Safe for a single appending goroutine at a
// time per context (the API thread serializes via its own context
// lock).
func enqueueVoiceChange(tail *voiceChange, vc *voiceChange) *voiceChange {
	vc.next.Store(nil)
	tail.next.Store(vc)
	return vc
}
