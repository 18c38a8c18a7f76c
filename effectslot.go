// effectslot.go - auxiliary effect slots: the device-side DAG nodes
// voices send to and that may themselves send to other slots.

/*
License: GPLv3 or later
*/

package alcore

import "sync/atomic"

// EffectKind tags which algorithm an EffectState implements.
type EffectKind int

const (
	EffectNull EffectKind = iota
	EffectReverb
	EffectChorus
	EffectEcho
	EffectDistortion
	EffectCompressor
	EffectEqualizer
	EffectAutowah
	EffectRingModulator
	EffectFrequencyShifter
	EffectPitchShifter
	EffectVocalMorpher
	EffectDedicatedLFE
	EffectDedicatedDialog
	EffectConvolutionReverb
)

// EffectState is the tagged-union behavior every effect algorithm
// implements: compute its per-channel output mixing matrix against the
// device's current Dry/ambisonic format, then consume input samples
// and accumulate into the target buffer it is handed.
type EffectState interface {
	Kind() EffectKind

	// Update recomputes any internal coefficients from slot properties
	// and the device's mix format; called on the mixer thread whenever
	// a new EffectProps snapshot is taken from the slot's mailbox.
	Update(device *Device, props *EffectProps)

	// Process reads samplesIn (one mix block, channel-major) and adds
	// its contribution into target (the device Dry buffer or another
	// slot's wet buffer), per the slot's Target routing.
	Process(samplesIn [][]float32, target [][]float32)
}

// EffectProps is the atomically-published parameter snapshot for one
// slot; only the fields relevant to Kind are meaningful, mirroring the
// original implementation's single tagged-union properties struct.
type EffectProps struct {
	Kind EffectKind

	// Reverb / EAX reverb
	Density, Diffusion, Gain, GainHF, GainLF     float32
	DecayTime, DecayHFRatio, DecayLFRatio        float32
	ReflectionsGain, ReflectionsDelay            float32
	LateReverbGain, LateReverbDelay              float32
	EchoTime, EchoDepth, ModulationTime          float32
	ModulationDepth, AirAbsorptionGainHF         float32
	HFReference, LFReference, RoomRolloffFactor  float32
	DecayHFLimit                                 bool

	// Chorus / Flanger
	WaveformSine bool
	Phase        int
	Rate         float32
	Depth        float32
	Feedback     float32
	Delay        float32

	// Echo
	EchoDelay, EchoLRDelay float32
	EchoDamping, EchoSpread float32

	// Distortion
	Edge, LowpassCutoff, EqCenter, EqBandwidth float32

	// Compressor
	CompressorOnOff bool

	// Equalizer
	LowGain, LowCutoff           float32
	Mid1Gain, Mid1Center, Mid1Width float32
	Mid2Gain, Mid2Center, Mid2Width float32
	HighGain, HighCutoff        float32

	// Autowah
	AttackTime, ReleaseTime, Resonance, PeakGain float32

	// Ring modulator / frequency shifter / pitch shifter / vocal morpher
	Frequency          float32
	HighpassCutoff     float32
	Waveform           int
	LeftDirection      int
	RightDirection     int
	CoarseTune         int
	FineTune           int
	PhonemeA, PhonemeB int
	PhonemeACoarseTune int
	PhonemeBCoarseTune int
	MorpherWaveform    int
	MorpherRate        float32

	// Convolution reverb
	ConvolutionBuffer *Buffer
}

// EffectSlot is one node of the effect graph. Voices route their send
// gains into it; its EffectState consumes the accumulated wet input
// and writes into Target (another slot, chained) or directly into the
// device Dry buffer when Target is -1.
type EffectSlot struct {
	ID uint32

	// Target names the downstream slot this slot's output is summed
	// into, by index into Context.effectSlots rather than a pointer, so
	// effectsort.go can reorder the backing slice without invalidating
	// references.
	Target int32

	State EffectState

	// props is the atomic handoff for a freshly published EffectProps,
	// taken and applied to State by the mixer at the top of each cycle.
	props Mailbox[EffectProps]

	// WetBuffer accumulates all voice sends plus any upstream slots
	// whose Target points here, for the current mix cycle.
	WetBuffer [MixerChannelsMax][]float32

	RefCount atomic.Int32

	needsUpdate atomic.Bool
}

// NewEffectSlot allocates a slot with the null (pass-through) effect
// active, matching a freshly created OpenAL aux effect slot's default.
func NewEffectSlot(id uint32, blockSize int) *EffectSlot {
	s := &EffectSlot{ID: id, Target: -1, State: &nullEffectState{}}
	for i := range s.WetBuffer {
		s.WetBuffer[i] = make([]float32, blockSize)
	}
	return s
}

// PublishProps stores a new parameter snapshot for the mixer to pick
// up on its next cycle.
func (s *EffectSlot) PublishProps(p EffectProps) {
	cp := p
	s.props.Publish(&cp)
	s.needsUpdate.Store(true)
}

// ClearWet zeroes the slot's wet accumulator at the start of a mix
// cycle.
func (s *EffectSlot) ClearWet() {
	for _, ch := range s.WetBuffer {
		for i := range ch {
			ch[i] = 0
		}
	}
}

type nullEffectState struct{}

func (n *nullEffectState) Kind() EffectKind                            { return EffectNull }
func (n *nullEffectState) Update(_ *Device, _ *EffectProps)            {}
func (n *nullEffectState) Process(samplesIn [][]float32, target [][]float32) {
	for c, ch := range samplesIn {
		if c < len(target) {
			mixAdd(target[c], ch, 1)
		}
	}
}
