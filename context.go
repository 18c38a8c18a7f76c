// context.go - one application's view of a Device: its listener,
// voice pool, and effect-slot graph.

/*
License: GPLv3 or later
*/

package alcore

import "sync"

// Context owns a fixed voice pool and effect-slot set attached to one
// Device. Multiple contexts may share a device (e.g. separate audio
// "scenes"); the voice pool is sized up front so the mixer never
// allocates mid-cycle.
type Context struct {
	mu sync.Mutex

	Config   ContextConfig
	listener Mailbox[ListenerProps]
	curListener ListenerProps

	voices      []*Voice
	effectSlots []*EffectSlot
	sortedSlots []*EffectSlot

	voiceChangeTail *voiceChange
	currentVoiceChange *voiceChange

	events *EventRing

	blockSize int
}

// NewContext allocates a fixed pool of maxSources voices; effect slots
// are created by the application on demand via NewEffectSlot and
// registered with AddEffectSlot, so only the voice pool is
// preallocated here.
func NewContext(cfg ContextConfig, maxSources, blockSize int) *Context {
	c := &Context{
		Config:      cfg,
		curListener: DefaultListenerProps(),
		blockSize:   blockSize,
		events:      NewEventRing(256),
	}
	c.voices = make([]*Voice, maxSources)
	for i := range c.voices {
		c.voices[i] = NewVoice()
	}
	root := &voiceChange{}
	c.voiceChangeTail = root
	c.currentVoiceChange = root
	return c
}

// Events returns the event ring the application reads state-change
// notifications from (via its Read/ReadSpace methods, with Notify
// signalling new events).
func (c *Context) Events() *EventRing { return c.events }

// PublishListener hands the mixer a new listener snapshot.
func (c *Context) PublishListener(p ListenerProps) {
	c.listener.Publish(&p)
}

// AddEffectSlot registers slot with this context, invalidating the
// cached topological sort so it is recomputed before the next mix.
func (c *Context) AddEffectSlot(slot *EffectSlot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.effectSlots = append(c.effectSlots, slot)
	c.sortedSlots = nil
}

// AllocateVoice returns a stopped voice from the fixed pool, or nil if
// every voice is currently playing (the application must wait for one
// to finish; the pool never grows mid-cycle).
func (c *Context) AllocateVoice() *Voice {
	for _, v := range c.voices {
		if PlayState(v.PlayState.Load()) == Stopped {
			return v
		}
	}
	return nil
}

// EnqueueVoiceChange appends a lifecycle transition request for the
// mixer to apply at the top of its next cycle.
func (c *Context) EnqueueVoiceChange(target *Voice, state VoiceChangeState) {
	c.enqueueVoiceChange(nil, target, state)
}

// EnqueueVoiceChangeReplace is EnqueueVoiceChange for the Play and
// Restart states where an existing voice on the same source is being
// handed off to a freshly allocated one: old is stopped (and, for
// Restart, its prior play state mirrored onto target) as part of the
// same commit-phase entry.
func (c *Context) EnqueueVoiceChangeReplace(old, target *Voice, state VoiceChangeState) {
	c.enqueueVoiceChange(old, target, state)
}

func (c *Context) enqueueVoiceChange(old, target *Voice, state VoiceChangeState) {
	vc := &voiceChange{oldVoice: old, newVoice: target, state: state, sourceID: target.SourceID.Load()}
	c.mu.Lock()
	c.voiceChangeTail = enqueueVoiceChange(c.voiceChangeTail, vc)
	c.mu.Unlock()
}

// releaseVoice clears v's buffer queue (head and loop position) and
// CAS's its sourceID to 0, then transitions Playing to Stopping,
// idempotent on any other current state. target records the state the
// mix loop should settle the voice into once it has produced its
// final (fading) block: Stopped for a hard stop, Pending for a pause.
// Returns whether a sourceID was actually cleared.
func releaseVoice(v *Voice, target PlayState) bool {
	v.ResetQueue()
	v.stopTarget = target
	cleared := false
	for {
		id := v.SourceID.Load()
		if id == 0 {
			break
		}
		if v.SourceID.CompareAndSwap(id, 0) {
			cleared = true
			break
		}
	}
	for {
		s := PlayState(v.PlayState.Load())
		if s != Playing {
			break
		}
		if v.PlayState.CompareAndSwap(int32(Playing), int32(Stopping)) {
			break
		}
	}
	return cleared
}

// pauseVoice transitions v from Playing to Stopping without touching
// its buffer queue or sourceID, recording Pending as the state the mix
// loop settles into once the final block fades out. Returns whether
// the transition actually occurred.
func pauseVoice(v *Voice) bool {
	v.stopTarget = Pending
	for {
		s := PlayState(v.PlayState.Load())
		if s != Playing {
			return false
		}
		if v.PlayState.CompareAndSwap(int32(Playing), int32(Stopping)) {
			return true
		}
	}
}

// applyVoiceChanges walks any newly queued transitions and applies
// them to their target voice's PlayState, emitting a SourceState event
// for each transition that actually changed anything (Reset always
// emits; Restart never does).
func (c *Context) applyVoiceChanges() {
	for {
		next := c.currentVoiceChange.next.Load()
		if next == nil {
			return
		}
		c.currentVoiceChange = next
		v := next.newVoice

		switch next.state {
		case VoiceChangeStop:
			if v == nil {
				continue
			}
			if releaseVoice(v, Stopped) {
				c.events.Write(Event{Kind: EventSourceState, SourceID: next.sourceID, State: SourceStateStopped})
			}
		case VoiceChangeReset:
			if v == nil {
				continue
			}
			releaseVoice(v, Stopped)
			c.events.Write(Event{Kind: EventSourceState, SourceID: next.sourceID, State: SourceStateStopped})
		case VoiceChangePause:
			if v == nil {
				continue
			}
			if pauseVoice(v) {
				c.events.Write(Event{Kind: EventSourceState, SourceID: next.sourceID, State: SourceStatePaused})
			}
		case VoiceChangePlay:
			emit := true
			if old := next.oldVoice; old != nil {
				wasStopped := PlayState(old.PlayState.Load()) == Stopped
				releaseVoice(old, Stopped)
				emit = !wasStopped
			}
			if v != nil {
				v.PlayState.Store(int32(Playing))
			}
			if emit {
				c.events.Write(Event{Kind: EventSourceState, SourceID: next.sourceID, State: SourceStatePlaying})
			}
		case VoiceChangeRestart:
			old := next.oldVoice
			if old == nil {
				continue
			}
			hadSource := old.SourceID.Load() != 0
			prior := PlayState(old.PlayState.Load())
			releaseVoice(old, Stopped)
			if v != nil {
				if hadSource && (prior == Playing || prior == Stopping) {
					v.PlayState.Store(int32(Playing))
				} else {
					v.PlayState.Store(int32(Stopped))
				}
			}
		}
	}
}

// processContext runs this context's full per-cycle pipeline: apply
// queued voice changes, commit listener/voice/slot property snapshots,
// mix every playing voice into the device Dry buffer and slot wet
// buffers, then run each effect slot's algorithm in dependency order.
func (c *Context) processContext(device *Device, frames int) {
	c.applyVoiceChanges()

	if p := c.listener.Take(); p != nil {
		c.curListener = *p
	}

	c.mu.Lock()
	if c.sortedSlots == nil {
		c.sortedSlots = SortEffectSlots(c.effectSlots)
	}
	sorted := c.sortedSlots
	slots := c.effectSlots
	mixRate := device.Config.SampleRate
	layout := device.layout
	mu := c.Config
	c.mu.Unlock()

	for _, slot := range slots {
		slot.ClearWet()
		CalcEffectSlotParams(device, slot, c.blockSize, mixRate)
	}

	scratch := newVoiceMixScratch(MixerChannelsMax, frames)
	for _, v := range c.voices {
		if !v.IsPlaying() {
			continue
		}
		wasStopping := PlayState(v.PlayState.Load()) == Stopping
		v.takeProps()
		if v.currentBuffer == nil || v.currentBuffer.buf == nil {
			continue
		}
		srcRate := v.currentBuffer.buf.SampleRate
		mp := CalcVoiceParams(&v.cur, &c.curListener, &mu, layout, mixRate, srcRate)
		if wasStopping {
			// Ramp every gain to zero over this last block instead of
			// cutting the signal at its current amplitude.
			mp.Gain = 0
			for i := range mp.DirectGains {
				mp.DirectGains[i] = 0
			}
			for s := range mp.SendGains {
				for i := range mp.SendGains[s] {
					mp.SendGains[s][i] = 0
				}
			}
		}

		var sends [NumSends]*EffectSlot
		for s := 0; s < NumSends; s++ {
			sends[s] = v.cur.Send[s].Slot
		}
		v.mix(&mp, scratch, frames, device.Dry[:], sends, device)

		if v.currentBuffer == nil {
			c.events.Write(Event{Kind: EventBufferComplete, SourceID: v.SourceID.Load(), Count: 1})
			v.PlayState.Store(int32(Stopped))
		} else if wasStopping && PlayState(v.PlayState.Load()) == Stopping {
			// A Stopping voice gets exactly one more (fading) block, then
			// settles into whatever the triggering Stop/Reset/Pause
			// recorded as its target.
			v.PlayState.Store(int32(v.stopTarget))
		}
	}

	for _, slot := range sorted {
		var input [][]float32
		if slot.Target >= 0 && int(slot.Target) < len(slots) {
			target := slots[slot.Target]
			input = slot.WetBuffer[:]
			slot.State.Process(input, target.WetBuffer[:])
			continue
		}
		input = slot.WetBuffer[:]
		slot.State.Process(input, device.Dry[:])
	}
}
