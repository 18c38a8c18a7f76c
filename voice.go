// voice.go - the per-source mixing state.

/*
License: GPLv3 or later
*/

package alcore

import "sync/atomic"

// VoiceProps is the atomically-published, API-thread-writable subset
// of a voice's parameters; CalcVoiceParams derives the mixer-internal
// target gains/filters from this each cycle.
type VoiceProps struct {
	Pitch float32

	Gain, GainRangeMin, GainRangeMax float32
	OuterGain, OuterGainHF           float32

	RefDistance, MaxDistance, RolloffFactor float32

	Position    [3]float32
	Velocity    [3]float32
	Direction   [3]float32
	OrientAt    [3]float32
	OrientUp    [3]float32

	InnerAngle, OuterAngle float32

	RadiusMeters float32 // source radius, for near-field/ambi-source spread
	StereoPan    float32

	DopplerFactor float32

	HeadRelative bool
	SourceRelative bool

	DirectChannels bool // bypass panning: the direct path feeds output channel 0 only, at the voice gain; source channels are not mapped 1:1 to outputs
	Spatialize     bool

	DirectFilterGain, DirectFilterGainHF, DirectFilterGainLF float32

	// StartTime, in device-clock seconds, defers the voice's first
	// audible sample until the device clock reaches it; 0 means play
	// immediately.
	StartTime float64

	Send [NumSends]SendProps
}

// SendProps is one auxiliary-send's routing and filter state.
type SendProps struct {
	Slot                     *EffectSlot
	Gain, GainHF, GainLF     float32
}

// voiceBufferItem is one queued Buffer plus the playback cursor fields
// needed to advance through it.
type voiceBufferItem struct {
	buf        *Buffer
	next       *voiceBufferItem
	frameIndex int // next frame to read, reset to LoopStart on wrap
}

// Voice is the mixer's per-playing-source state; allocated from a
// fixed pool at context creation and recycled as sources stop, since
// the pool cannot be resized without pausing the mixer.
type Voice struct {
	SourceID atomic.Uint32 // 0 when the voice slot is free

	PlayState atomic.Int32 // PlayState, set by the mixer, read by the API

	props Mailbox[VoiceProps]
	cur   VoiceProps

	bufferQueue   *voiceBufferItem
	currentBuffer *voiceBufferItem

	cursor ResampleCursor

	resampler ResamplerKind

	direct  directState
	sendsSt [NumSends]sendState

	nfc *NFCFilter

	hrtf hrtfVoiceState

	Offset uint64 // total source frames consumed since (re)start, for AL_SEC_OFFSET-style queries

	chans int // source channel count, derived from currentBuffer.buf.NumChans

	// stopTarget is the PlayState a Stopping voice settles into once it
	// has produced its last (fading) block: Stopped for Stop/Reset/a
	// naturally ended buffer, Pending for Pause (so a later Play resumes
	// rather than restarting).
	stopTarget PlayState
}

// directState is the per-channel direct-path gain/filter state a voice
// carries into Device.Dry.
type directState struct {
	targetGains [MixerChannelsMax]float32
	curGains    [MixerChannelsMax]float32
	filters     [MixerChannelsMax]BiquadState
}

// sendState mirrors directState for one auxiliary send.
type sendState struct {
	targetGains [MixerChannelsMax]float32
	curGains    [MixerChannelsMax]float32
	filter      BiquadState
}

// NewVoice allocates a stopped voice ready to be claimed.
func NewVoice() *Voice {
	v := &Voice{resampler: ResamplerLinear}
	v.PlayState.Store(int32(Stopped))
	return v
}

// IsPlaying reports whether the mixer should still advance this voice.
func (v *Voice) IsPlaying() bool {
	s := PlayState(v.PlayState.Load())
	return s == Playing || s == Stopping
}

// PublishProps hands the mixer a new parameter snapshot to pick up at
// the top of its next cycle.
func (v *Voice) PublishProps(p VoiceProps) {
	cp := p
	v.props.Publish(&cp)
}

// takeProps applies any pending snapshot, returning true if one was
// consumed.
func (v *Voice) takeProps() bool {
	if p := v.props.Take(); p != nil {
		v.cur = *p
		return true
	}
	return false
}

// QueueBuffer appends buf to this voice's playback queue (a linked
// list of queued buffers for streaming sources).
func (v *Voice) QueueBuffer(buf *Buffer) {
	item := &voiceBufferItem{buf: buf}
	if v.bufferQueue == nil {
		v.bufferQueue = item
		v.currentBuffer = item
		return
	}
	tail := v.bufferQueue
	for tail.next != nil {
		tail = tail.next
	}
	tail.next = item
}

// ResetQueue clears all queued buffers and rewinds playback state,
// used by AL_RESET/stop-then-requeue transitions.
func (v *Voice) ResetQueue() {
	v.bufferQueue = nil
	v.currentBuffer = nil
	v.cursor = ResampleCursor{}
	v.Offset = 0
}
