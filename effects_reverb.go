// effects_reverb.go - EAX-style reverb built from a Schroeder
// parallel-comb/series-allpass network, generalized from the teacher's
// audio_chip.go applyReverb (comb+allpass delay-line reverb) to a
// Density/Diffusion/DecayTime/Reflections/LateReverb parameter model.

/*
License: GPLv3 or later
*/

package alcore

import "math"

const numCombs = 4
const numAllpass = 2

type combFilter struct {
	buf    []float32
	pos    int
	feedback float32
	damp     float32
	filterStore float32
}

func (c *combFilter) process(x float32) float32 {
	out := c.buf[c.pos]
	c.filterStore = out*(1-c.damp) + c.filterStore*c.damp
	c.buf[c.pos] = x + c.filterStore*c.feedback
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return out
}

type allpassFilter struct {
	buf []float32
	pos int
}

func (a *allpassFilter) process(x float32) float32 {
	bufOut := a.buf[a.pos]
	out := -x + bufOut
	a.buf[a.pos] = x + bufOut*0.5
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return out
}

// reverbState implements EffectState for the EffectReverb kind (there
// is no separate EAX reverb kind). Of the EAX-style fields, only the
// reflections delay and the reflections/late-reverb gains are used;
// echo and late-reverb delay are not read.
type reverbState struct {
	mixRate int

	combs    [numCombs]combFilter
	allpass  [numAllpass]allpassFilter

	density, diffusion, decayTime float32
	gain, gainHF                  float32
	reflectionsGain, lateReverbGain float32

	earlyTap  []float32
	earlyPos  int
	earlyDelaySamples int
}

const baseCombTunings = 4
var combTuningsMs = [numCombs]float32{29.7, 37.1, 41.1, 43.7}
var allpassTuningsMs = [numAllpass]float32{5.0, 1.7}

func newReverbState(blockSize, mixRate int) *reverbState {
	r := &reverbState{mixRate: mixRate}
	for i := range r.combs {
		n := int(combTuningsMs[i] * float32(mixRate) / 1000)
		if n < 1 {
			n = 1
		}
		r.combs[i] = combFilter{buf: make([]float32, n), feedback: 0.84, damp: 0.2}
	}
	for i := range r.allpass {
		n := int(allpassTuningsMs[i] * float32(mixRate) / 1000)
		if n < 1 {
			n = 1
		}
		r.allpass[i] = allpassFilter{buf: make([]float32, n)}
	}
	r.earlyTap = make([]float32, mixRate/10+1)
	return r
}

func (r *reverbState) Kind() EffectKind { return EffectReverb }

// Update derives comb feedback from DecayTime and comb damping from
// GainHF; Diffusion is stored but does not change the allpass stages,
// whose feedback is fixed. Longer decay times ring out further before
// each comb's output falls below audibility, matching the exponential
// decay the DecayTime parameter describes.
func (r *reverbState) Update(_ *Device, props *EffectProps) {
	r.density = props.Density
	r.diffusion = props.Diffusion
	r.decayTime = props.DecayTime
	r.gain = props.Gain
	r.gainHF = props.GainHF
	r.reflectionsGain = props.ReflectionsGain
	r.lateReverbGain = props.LateReverbGain

	for i := range r.combs {
		delaySec := float64(len(r.combs[i].buf)) / float64(r.mixRate)
		fb := math.Pow(10, -3*delaySec/float64(maxf32(r.decayTime, 0.1)))
		r.combs[i].feedback = float32(clampF64(fb, 0, 0.98))
		r.combs[i].damp = 1 - props.GainHF
	}

	r.earlyDelaySamples = int(props.ReflectionsDelay * float32(r.mixRate))
	if r.earlyDelaySamples >= len(r.earlyTap) {
		r.earlyDelaySamples = len(r.earlyTap) - 1
	}
}

func maxf32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Process runs the mono-summed input through the comb/allpass network
// once and adds the same wet signal to every output channel, matching
// the teacher's parallel-comb then series-allpass signal flow.
func (r *reverbState) Process(samplesIn [][]float32, target [][]float32) {
	n := 0
	if len(samplesIn) > 0 {
		n = len(samplesIn[0])
	}
	for i := 0; i < n; i++ {
		var mono float32
		for _, ch := range samplesIn {
			mono += ch[i]
		}
		mono *= r.density

		r.earlyTap[r.earlyPos] = mono
		earlyIdx := r.earlyPos - r.earlyDelaySamples
		for earlyIdx < 0 {
			earlyIdx += len(r.earlyTap)
		}
		early := r.earlyTap[earlyIdx] * r.reflectionsGain
		r.earlyPos = (r.earlyPos + 1) % len(r.earlyTap)

		var combOut float32
		for c := range r.combs {
			combOut += r.combs[c].process(mono)
		}
		combOut /= numCombs

		ap := combOut
		for a := range r.allpass {
			ap = r.allpass[a].process(ap)
		}
		late := ap * r.lateReverbGain

		wet := (early + late) * r.gain
		for _, ch := range target {
			if i < len(ch) {
				ch[i] += wet
			}
		}
	}
}
