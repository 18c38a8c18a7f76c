
/*
License: GPLv3 or later
*/
package alcore

import "testing"

func TestNewEffectSlotDefaultsToNull(t *testing.T) {
	s := NewEffectSlot(1, 64)
	if s.State.Kind() != EffectNull {
		t.Errorf("expected null effect by default, got %v", s.State.Kind())
	}
	if s.Target != -1 {
		t.Errorf("expected no target by default, got %d", s.Target)
	}
}

func TestEffectSlotClearWetZeroes(t *testing.T) {
	s := NewEffectSlot(1, 4)
	for i := range s.WetBuffer[0] {
		s.WetBuffer[0][i] = 1
	}
	s.ClearWet()
	for i, v := range s.WetBuffer[0] {
		if v != 0 {
			t.Errorf("expected zeroed wet buffer at %d, got %v", i, v)
		}
	}
}

func TestApplyPendingPropsSwapsStateOnKindChange(t *testing.T) {
	s := NewEffectSlot(1, 64)
	s.PublishProps(EffectProps{Kind: EffectReverb, Density: 1, DecayTime: 1.5, Gain: 1})
	ApplyPendingProps(nil, s, 64, 48000)
	if s.State.Kind() != EffectReverb {
		t.Errorf("expected reverb state after publish, got %v", s.State.Kind())
	}
}

func TestNewEffectStateCoversAllKinds(t *testing.T) {
	kinds := []EffectKind{
		EffectNull, EffectReverb, EffectConvolutionReverb, EffectChorus, EffectEcho,
		EffectDistortion, EffectCompressor, EffectEqualizer, EffectAutowah,
		EffectRingModulator, EffectFrequencyShifter, EffectPitchShifter,
		EffectVocalMorpher, EffectDedicatedLFE, EffectDedicatedDialog,
	}
	for _, k := range kinds {
		st := NewEffectState(k, 64, 48000)
		if st == nil {
			t.Errorf("expected non-nil state for kind %v", k)
		}
	}
}
