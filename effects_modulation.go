// effects_modulation.go - Ring Modulator, Frequency Shifter, Pitch
// Shifter, and Vocal Morpher. All four modulate a
// carrier or formant against the input; the ring modulator and
// frequency shifter reuse lut.go's sin/cos tables the way the
// teacher's oscillator-driven effects do.

/*
License: GPLv3 or later
*/

package alcore

import "math"

type ringModulatorState struct {
	mixRate   int
	frequency float32
	highpass  BiquadState
	phase     float32
	waveform  int
}

func newRingModulatorState(mixRate int) *ringModulatorState {
	return &ringModulatorState{mixRate: mixRate}
}

func (r *ringModulatorState) Kind() EffectKind { return EffectRingModulator }

func (r *ringModulatorState) Update(_ *Device, props *EffectProps) {
	r.frequency = props.Frequency
	r.waveform = props.Waveform
	r.highpass.SetTarget(HighShelf(float64(props.HighpassCutoff)/float64(r.mixRate), 0))
}

func (r *ringModulatorState) Process(samplesIn [][]float32, target [][]float32) {
	n := 0
	if len(samplesIn) > 0 {
		n = len(samplesIn[0])
	}
	step := TwoPi * r.frequency / float32(r.mixRate)
	for i := 0; i < n; i++ {
		var mono float32
		for _, ch := range samplesIn {
			mono += ch[i]
		}
		buf := [1]float32{mono}
		r.highpass.Process(buf[:])

		var carrier float32
		switch r.waveform {
		case 1: // sawtooth
			carrier = 2*(r.phase/TwoPi) - 1
		case 2: // square
			if r.phase < math.Pi {
				carrier = 1
			} else {
				carrier = -1
			}
		default:
			carrier = fastSin(r.phase)
		}
		r.phase += step
		if r.phase > TwoPi {
			r.phase -= TwoPi
		}

		wet := buf[0] * carrier
		for _, ch := range target {
			if i < len(ch) {
				ch[i] += wet
			}
		}
	}
}

type frequencyShifterState struct {
	mixRate        int
	frequency      float32
	leftDirection  int
	rightDirection int
	phase          float32
}

func newFrequencyShifterState(mixRate int) *frequencyShifterState {
	return &frequencyShifterState{mixRate: mixRate}
}

func (f *frequencyShifterState) Kind() EffectKind { return EffectFrequencyShifter }

func (f *frequencyShifterState) Update(_ *Device, props *EffectProps) {
	f.frequency = props.Frequency
	f.leftDirection = props.LeftDirection
	f.rightDirection = props.RightDirection
}

// Process performs a single-sideband style shift approximated with a
// sin/cos quadrature carrier rather than a true Hilbert transform,
// noted as a simplification in DESIGN.md.
func (f *frequencyShifterState) Process(samplesIn [][]float32, target [][]float32) {
	n := 0
	if len(samplesIn) > 0 {
		n = len(samplesIn[0])
	}
	step := TwoPi * f.frequency / float32(f.mixRate)
	for i := 0; i < n; i++ {
		var mono float32
		for _, ch := range samplesIn {
			mono += ch[i]
		}
		c := fastCos(f.phase)
		s := fastSin(f.phase)
		f.phase += step
		if f.phase > TwoPi {
			f.phase -= TwoPi
		}
		for ci, ch := range target {
			dir := f.leftDirection
			if ci == 1 {
				dir = f.rightDirection
			}
			wet := mono * c
			if dir != 0 {
				wet = mono * s
			}
			if i < len(ch) {
				ch[i] += wet
			}
		}
	}
}

type pitchShifterState struct {
	mixRate    int
	coarseTune int
	fineTune   int

	buf      []float32
	writePos int
	readPos  float32
	step     float32
}

func newPitchShifterState(blockSize, mixRate int) *pitchShifterState {
	return &pitchShifterState{mixRate: mixRate, buf: make([]float32, mixRate/4), step: 1}
}

func (p *pitchShifterState) Kind() EffectKind { return EffectPitchShifter }

func (p *pitchShifterState) Update(_ *Device, props *EffectProps) {
	p.coarseTune = props.CoarseTune
	p.fineTune = props.FineTune
	semis := float64(p.coarseTune) + float64(p.fineTune)/100
	p.step = float32(math.Pow(2, semis/12))
}

// Process resamples through a circular buffer at p.step, a granular
// pitch-shift approximation of the spec's PSOLA-based shifter.
func (p *pitchShifterState) Process(samplesIn [][]float32, target [][]float32) {
	n := 0
	if len(samplesIn) > 0 {
		n = len(samplesIn[0])
	}
	bl := len(p.buf)
	for i := 0; i < n; i++ {
		var mono float32
		for _, ch := range samplesIn {
			mono += ch[i]
		}
		p.buf[p.writePos] = mono
		p.writePos = (p.writePos + 1) % bl

		i0 := int(p.readPos) % bl
		i1 := (i0 + 1) % bl
		frac := p.readPos - float32(int(p.readPos))
		wet := p.buf[i0] + (p.buf[i1]-p.buf[i0])*frac

		p.readPos += p.step
		for p.readPos >= float32(bl) {
			p.readPos -= float32(bl)
		}

		for _, ch := range target {
			if i < len(ch) {
				ch[i] += wet
			}
		}
	}
}

type vocalMorpherState struct {
	mixRate      int
	formantA, formantB BiquadState
	rate         float32
	phase        float32
}

func newVocalMorpherState(mixRate int) *vocalMorpherState {
	return &vocalMorpherState{mixRate: mixRate}
}

func (v *vocalMorpherState) Kind() EffectKind { return EffectVocalMorpher }

// Update approximates each phoneme by a fixed formant-band peaking
// filter center frequency, chosen from the phoneme index, rather than
// the spec's full measured-formant tables.
func (v *vocalMorpherState) Update(_ *Device, props *EffectProps) {
	v.rate = props.MorpherRate
	sr := float64(v.mixRate)
	v.formantA.SetTarget(Peaking(phonemeFreq(props.PhonemeA)/sr, 12, 5))
	v.formantB.SetTarget(Peaking(phonemeFreq(props.PhonemeB)/sr, 12, 5))
}

func phonemeFreq(p int) float64 {
	base := 300.0
	return base + float64(p%20)*150
}

func (v *vocalMorpherState) Process(samplesIn [][]float32, target [][]float32) {
	n := 0
	if len(samplesIn) > 0 {
		n = len(samplesIn[0])
	}
	step := TwoPi * v.rate / float32(v.mixRate)
	for i := 0; i < n; i++ {
		var mono float32
		for _, ch := range samplesIn {
			mono += ch[i]
		}
		a := [1]float32{mono}
		b := [1]float32{mono}
		v.formantA.Process(a[:])
		v.formantB.Process(b[:])

		blend := (fastSin(v.phase) + 1) / 2
		v.phase += step
		if v.phase > TwoPi {
			v.phase -= TwoPi
		}
		wet := a[0]*(1-blend) + b[0]*blend
		for _, ch := range target {
			if i < len(ch) {
				ch[i] += wet
			}
		}
	}
}
