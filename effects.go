// effects.go - shared helpers for constructing and updating the
// per-slot EffectState implementations.

/*
License: GPLv3 or later
*/

package alcore

// NewEffectState builds a fresh, zeroed EffectState for kind, sized
// for the device's current mix block.
func NewEffectState(kind EffectKind, blockSize, mixRate int) EffectState {
	switch kind {
	case EffectReverb:
		return newReverbState(blockSize, mixRate)
	case EffectConvolutionReverb:
		return newConvolutionState(blockSize, mixRate)
	case EffectChorus:
		return newChorusState(blockSize, mixRate, false)
	case EffectEcho:
		return newEchoState(blockSize, mixRate)
	case EffectDistortion:
		return newDistortionState(mixRate)
	case EffectCompressor:
		return newCompressorState(mixRate)
	case EffectEqualizer:
		return newEqualizerState(mixRate)
	case EffectAutowah:
		return newAutowahState(mixRate)
	case EffectRingModulator:
		return newRingModulatorState(mixRate)
	case EffectFrequencyShifter:
		return newFrequencyShifterState(mixRate)
	case EffectPitchShifter:
		return newPitchShifterState(blockSize, mixRate)
	case EffectVocalMorpher:
		return newVocalMorpherState(mixRate)
	case EffectDedicatedLFE, EffectDedicatedDialog:
		return newDedicatedState(kind)
	default:
		return &nullEffectState{}
	}
}

// ApplyPendingProps takes any snapshot waiting in slot's mailbox and
// feeds it to its current EffectState, swapping in a new EffectState
// entirely if the Kind changed.
func ApplyPendingProps(device *Device, slot *EffectSlot, blockSize, mixRate int) {
	props := slot.props.Take()
	if props == nil {
		return
	}
	if slot.State == nil || slot.State.Kind() != props.Kind {
		slot.State = NewEffectState(props.Kind, blockSize, mixRate)
	}
	slot.State.Update(device, props)
}

// mixAdd accumulates src into dst, used by every effect's Process to
// sum into the target buffer rather than overwrite it.
func mixAdd(dst, src []float32, gain float32) {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i] += src[i] * gain
	}
}
