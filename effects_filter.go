// effects_filter.go - four-band Equalizer and envelope-following
// Autowah, both built from biquad.go's RBJ filters.

/*
License: GPLv3 or later
*/

package alcore

import "math"

type equalizerState struct {
	mixRate int
	low     BiquadState
	mid1    BiquadState
	mid2    BiquadState
	high    BiquadState
}

func newEqualizerState(mixRate int) *equalizerState {
	return &equalizerState{mixRate: mixRate}
}

func (e *equalizerState) Kind() EffectKind { return EffectEqualizer }

func (e *equalizerState) Update(_ *Device, props *EffectProps) {
	sr := float64(e.mixRate)
	e.low.SetTarget(LowShelf(float64(props.LowCutoff)/sr, dbFromLinear(props.LowGain)))
	e.mid1.SetTarget(Peaking(float64(props.Mid1Center)/sr, dbFromLinear(props.Mid1Gain), float64(props.Mid1Width)))
	e.mid2.SetTarget(Peaking(float64(props.Mid2Center)/sr, dbFromLinear(props.Mid2Gain), float64(props.Mid2Width)))
	e.high.SetTarget(HighShelf(float64(props.HighCutoff)/sr, dbFromLinear(props.HighGain)))
}

func dbFromLinear(g float32) float64 {
	if g <= 0 {
		return -100
	}
	return 20 * math.Log10(float64(g))
}

func (e *equalizerState) Process(samplesIn [][]float32, target [][]float32) {
	for ci, ch := range samplesIn {
		if ci >= len(target) {
			break
		}
		buf := append([]float32(nil), ch...)
		e.low.Process(buf)
		e.mid1.Process(buf)
		e.mid2.Process(buf)
		e.high.Process(buf)
		mixAdd(target[ci], buf, 1)
	}
}

// autowahState is an envelope-following bandpass sweep: the input's
// amplitude envelope drives a peaking filter's center frequency
// between its resting and resonant-peak positions.
type autowahState struct {
	mixRate    int
	attack, release float32
	resonance  float32
	peakGain   float32
	envelope   float32
	filter     BiquadState
}

func newAutowahState(mixRate int) *autowahState {
	return &autowahState{mixRate: mixRate}
}

func (a *autowahState) Kind() EffectKind { return EffectAutowah }

func (a *autowahState) Update(_ *Device, props *EffectProps) {
	a.attack = attackCoeff(props.AttackTime, a.mixRate)
	a.release = attackCoeff(props.ReleaseTime, a.mixRate)
	a.resonance = props.Resonance
	a.peakGain = props.PeakGain
}

func attackCoeff(timeSec float32, rate int) float32 {
	if timeSec <= 0 {
		return 1
	}
	return float32(1 - math.Exp(-1/(float64(timeSec)*float64(rate))))
}

func (a *autowahState) Process(samplesIn [][]float32, target [][]float32) {
	n := 0
	if len(samplesIn) > 0 {
		n = len(samplesIn[0])
	}
	for i := 0; i < n; i++ {
		var mono float32
		for _, ch := range samplesIn {
			mono += ch[i]
		}
		abs := mono
		if abs < 0 {
			abs = -abs
		}
		if abs > a.envelope {
			a.envelope += (abs - a.envelope) * a.attack
		} else {
			a.envelope += (abs - a.envelope) * a.release
		}

		freqNorm := 0.05 + a.envelope*0.4
		if freqNorm > 0.49 {
			freqNorm = 0.49
		}
		a.filter.SetTarget(Peaking(float64(freqNorm), float64(a.peakGain), float64(1+a.resonance*10)))

		buf := [1]float32{mono}
		a.filter.Process(buf[:])
		for _, ch := range target {
			if i < len(ch) {
				ch[i] += buf[0]
			}
		}
	}
}
