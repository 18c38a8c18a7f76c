// postprocess.go - the device's final stage: ambisonic decode to
// speakers, HRTF binaural decode, UHJ stereo encode, BS2B crossfeed,
// a peak stabilizer/limiter, and dither.

/*
License: GPLv3 or later
*/

package alcore

// AmbiDecode projects an ambisonic Dry buffer down to a fixed speaker
// layout using each speaker's direction coefficients (the inverse of
// ComputePanGains' encode direction).
func AmbiDecode(ambi [][]float32, layout []SpeakerAngle, out [][]float32) {
	n := 0
	if len(ambi) > 0 {
		n = len(ambi[0])
	}
	for s, spk := range layout {
		if s >= len(out) {
			break
		}
		coeffs := ambiDirectionCoeffs(spk.Azimuth, spk.Elevation)
		dst := out[s]
		for i := 0; i < n && i < len(dst); i++ {
			var v float32
			for c := 0; c < 4 && c < len(ambi); c++ {
				v += ambi[c][i] * coeffs[c]
			}
			dst[i] = v
		}
	}
}

// UhjEncode folds a W/X/Y ambisonic signal down to 2-channel UHJ
// stereo using the classic static-matrix UHJ encode. This is the
// simplified non-phase-shifted variant; a full UHJ2 encode needs a
// 90-degree all-pass network omitted here (see DESIGN.md).
func UhjEncode(w, x, y []float32, left, right []float32) {
	n := len(w)
	for i := 0; i < n; i++ {
		s := 0.9396926*w[i] + 0.1855740*x[i]
		d := 0.3420201 * y[i]
		j := 0.7071068 * (d + s)
		left[i] = s + j
		right[i] = s - j
	}
}

// Bs2bCrossfeed applies a simple headphone crossfeed: each ear mixes
// in a low-passed, attenuated copy of the opposite channel (no separate
// delay stage), a simplified form of the bs2b DSP topology.
type Bs2bState struct {
	lpL, lpR  float32
	feedLevel float32
	cutoff    float32
}

func NewBs2bState(feedLevel, cutoffNorm float32) *Bs2bState {
	return &Bs2bState{feedLevel: feedLevel, cutoff: cutoffNorm}
}

func (b *Bs2bState) Process(left, right []float32) {
	for i := range left {
		b.lpL += b.cutoff * (left[i] - b.lpL)
		b.lpR += b.cutoff * (right[i] - b.lpR)
		l := left[i] + b.lpR*b.feedLevel
		r := right[i] + b.lpL*b.feedLevel
		left[i] = l
		right[i] = r
	}
}

// Stabilizer is a lookahead-free soft limiter applied to the final
// output to prevent inter-channel phase cancellation from clipping the
// front center image; simplified to a per-sample tanh ceiling rather
// than true lookahead limiting.
func Stabilizer(channels [][]float32, ceiling float32) {
	for _, ch := range channels {
		for i, v := range ch {
			if v > ceiling || v < -ceiling {
				ch[i] = ceiling * fastTanh(v/ceiling)
			}
		}
	}
}

// DitherState applies triangular-PDF (RPDG) dither before quantizing
// to an integer output format.
type DitherState struct {
	prevNoise [MixerChannelsMax]float32
	rngState  uint32
}

func NewDitherState(seed uint32) *DitherState {
	if seed == 0 {
		seed = 0x9e3779b9
	}
	return &DitherState{rngState: seed}
}

func (d *DitherState) nextNoise() float32 {
	d.rngState ^= d.rngState << 13
	d.rngState ^= d.rngState >> 17
	d.rngState ^= d.rngState << 5
	return (float32(d.rngState)*dithRTPDGain - 0.5)
}

// Apply adds triangular dither noise (current minus previous uniform
// sample, per channel) to each sample before downstream quantization.
func (d *DitherState) Apply(channels [][]float32) {
	for c, ch := range channels {
		if c >= len(d.prevNoise) {
			break
		}
		for i := range ch {
			n := d.nextNoise()
			ch[i] += n - d.prevNoise[c]
			d.prevNoise[c] = n
		}
	}
}

// DistanceCompensation scales and delays per-speaker output so that
// speakers placed at different physical distances from the listener
// arrive in phase.
type DistanceCompensation struct {
	delayLines [][]float32
	pos        []int
	gains      []float32
}

func NewDistanceCompensation(speakerDelays []int, maxDelay int) *DistanceCompensation {
	dc := &DistanceCompensation{
		delayLines: make([][]float32, len(speakerDelays)),
		pos:        make([]int, len(speakerDelays)),
		gains:      make([]float32, len(speakerDelays)),
	}
	for i := range dc.delayLines {
		n := maxDelay - speakerDelays[i] + 1
		if n < 1 {
			n = 1
		}
		dc.delayLines[i] = make([]float32, n)
		dc.gains[i] = 1
	}
	return dc
}

func (dc *DistanceCompensation) Process(channels [][]float32) {
	for c, line := range dc.delayLines {
		if c >= len(channels) {
			break
		}
		ch := channels[c]
		for i := range ch {
			out := line[dc.pos[c]]
			line[dc.pos[c]] = ch[i]
			dc.pos[c] = (dc.pos[c] + 1) % len(line)
			ch[i] = out * dc.gains[c]
		}
	}
}
