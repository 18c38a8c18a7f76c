
/*
License: GPLv3 or later
*/
package alcore

import "testing"

func TestDistanceGainInverseDecreasesWithDistance(t *testing.T) {
	near := DistanceGain(DistanceInverse, 1, 1, 100, 1)
	far := DistanceGain(DistanceInverse, 10, 1, 100, 1)
	if far >= near {
		t.Errorf("expected gain to fall off with distance: near=%v far=%v", near, far)
	}
}

func TestDistanceGainDisableIsUnity(t *testing.T) {
	if g := DistanceGain(DistanceDisable, 1000, 1, 100, 1); g != 1 {
		t.Errorf("expected unity gain for DistanceDisable, got %v", g)
	}
}

func TestDistanceGainLinearClampedFloorsAtZero(t *testing.T) {
	g := DistanceGain(DistanceLinearClamped, 1000, 1, 10, 1)
	if g < 0 || g > 1 {
		t.Errorf("expected gain in [0,1], got %v", g)
	}
}

func TestConeGainInsideInnerIsUnity(t *testing.T) {
	if g := ConeGain(10, 90, 180, 0.5); g != 1 {
		t.Errorf("expected unity gain inside inner cone, got %v", g)
	}
}

func TestConeGainOutsideOuterIsOuterGain(t *testing.T) {
	if g := ConeGain(170, 90, 180, 0.3); g != 0.3 {
		t.Errorf("expected outer gain 0.3 outside outer cone, got %v", g)
	}
}

func TestDopplerPitchMultiplierApproachingRaisesPitch(t *testing.T) {
	sourceVel := [3]float32{0, 0, -10}
	listenerVel := [3]float32{0, 0, 0}
	dir := [3]float32{0, 0, -1}
	m := DopplerPitchMultiplier(sourceVel, listenerVel, dir, 1, SpeedOfSoundDefault)
	if m <= 1 {
		t.Errorf("expected pitch raise for approaching source, got %v", m)
	}
}

func TestDopplerPitchMultiplierClampedToMaxPitch(t *testing.T) {
	sourceVel := [3]float32{0, 0, -100000}
	listenerVel := [3]float32{0, 0, 0}
	dir := [3]float32{0, 0, -1}
	m := DopplerPitchMultiplier(sourceVel, listenerVel, dir, 1, SpeedOfSoundDefault)
	if m > MaxPitch {
		t.Errorf("expected clamp to MaxPitch, got %v", m)
	}
}

func TestCalcVoiceParamsDirectChannelsBypassesPan(t *testing.T) {
	v := DefaultVoiceProps()
	v.DirectChannels = true
	l := DefaultListenerProps()
	cfg := DefaultContextConfig()
	layout := SpeakerLayoutAngles(LayoutStereo)
	mp := CalcVoiceParams(&v, &l, &cfg, layout, 48000, 48000)
	if mp.DirectGains[0] == 0 {
		t.Error("expected channel 0 gain set for direct-channels mode")
	}
	if mp.DirectGains[1] != 0 {
		t.Error("expected channel 1 untouched for direct-channels mode")
	}
}
