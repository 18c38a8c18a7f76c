// biquad.go - second-order IIR filters used for the direct/send
// high-shelf+low-shelf pair and near-field
// compensation, via the RBJ audio-EQ cookbook formulas.

/*
License: GPLv3 or later
*/

package alcore

import "math"

// BiquadCoeffs holds a biquad's normalized coefficients, applied by
// BiquadState.Process in transposed direct-form-II.
type BiquadCoeffs struct {
	b0, b1, b2 float32
	a1, a2     float32
}

// BiquadState carries one channel's delay elements; coefficients are
// interpolated toward target across a fade to avoid zipper noise.
type BiquadState struct {
	cur, target BiquadCoeffs
	z1, z2      float32
}

// rcpQFromSlope implements the RBJ cookbook's reciprocal-Q-from-shelf-
// slope formula: 1/Q = sqrt((A+1/A)*(1/slope-1)+2).
func rcpQFromSlope(gainDB, slope float64) float64 {
	a := math.Pow(10, gainDB/40)
	return math.Sqrt((a+1/a)*(1/slope-1) + 2)
}

// HighShelf computes RBJ high-shelf coefficients for cutoff freqNorm
// (= f/sampleRate) and gain in dB.
func HighShelf(freqNorm float64, gainDB float64) BiquadCoeffs {
	a := math.Pow(10, gainDB/40)
	w0 := 2 * math.Pi * freqNorm
	cosW0, sinW0 := math.Cos(w0), math.Sin(w0)
	rcpQ := rcpQFromSlope(gainDB, 1.0)
	alpha := sinW0 / 2 * rcpQ
	sqrtA := math.Sqrt(a)

	b0 := a * ((a + 1) + (a-1)*cosW0 + 2*sqrtA*alpha)
	b1 := -2 * a * ((a - 1) + (a+1)*cosW0)
	b2 := a * ((a + 1) + (a-1)*cosW0 - 2*sqrtA*alpha)
	a0 := (a + 1) - (a-1)*cosW0 + 2*sqrtA*alpha
	a1 := 2 * ((a - 1) - (a+1)*cosW0)
	a2 := (a + 1) - (a-1)*cosW0 - 2*sqrtA*alpha

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// LowShelf computes RBJ low-shelf coefficients.
func LowShelf(freqNorm float64, gainDB float64) BiquadCoeffs {
	a := math.Pow(10, gainDB/40)
	w0 := 2 * math.Pi * freqNorm
	cosW0, sinW0 := math.Cos(w0), math.Sin(w0)
	rcpQ := rcpQFromSlope(gainDB, 1.0)
	alpha := sinW0 / 2 * rcpQ
	sqrtA := math.Sqrt(a)

	b0 := a * ((a + 1) - (a-1)*cosW0 + 2*sqrtA*alpha)
	b1 := 2 * a * ((a - 1) - (a+1)*cosW0)
	b2 := a * ((a + 1) - (a-1)*cosW0 - 2*sqrtA*alpha)
	a0 := (a + 1) + (a-1)*cosW0 + 2*sqrtA*alpha
	a1 := -2 * ((a - 1) + (a+1)*cosW0)
	a2 := (a + 1) + (a-1)*cosW0 - 2*sqrtA*alpha

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// Peaking computes an RBJ peaking-EQ biquad, used by the Equalizer
// effect.
func Peaking(freqNorm, gainDB, q float64) BiquadCoeffs {
	a := math.Pow(10, gainDB/40)
	w0 := 2 * math.Pi * freqNorm
	cosW0, sinW0 := math.Cos(w0), math.Sin(w0)
	alpha := sinW0 / (2 * q)

	b0 := 1 + alpha*a
	b1 := -2 * cosW0
	b2 := 1 - alpha*a
	a0 := 1 + alpha/a
	a1 := -2 * cosW0
	a2 := 1 - alpha/a
	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) BiquadCoeffs {
	return BiquadCoeffs{
		b0: float32(b0 / a0),
		b1: float32(b1 / a0),
		b2: float32(b2 / a0),
		a1: float32(a1 / a0),
		a2: float32(a2 / a0),
	}
}

// SetTarget schedules coefficients to interpolate toward over the next
// Process calls, driving the direct-path dual-biquad fade.
func (s *BiquadState) SetTarget(c BiquadCoeffs) {
	s.target = c
}

// SetImmediate snaps both current and target to c (used at voice
// start, where there is no prior state to fade from).
func (s *BiquadState) SetImmediate(c BiquadCoeffs) {
	s.cur = c
	s.target = c
}

// Process filters buf in place, interpolating s.cur toward
// s.target linearly across len(buf) samples.
func (s *BiquadState) Process(buf []float32) {
	n := len(buf)
	if n == 0 {
		return
	}
	step := 1.0 / float32(n)
	for i, x := range buf {
		t := float32(i+1) * step
		c := BiquadCoeffs{
			b0: lerp32(s.cur.b0, s.target.b0, t),
			b1: lerp32(s.cur.b1, s.target.b1, t),
			b2: lerp32(s.cur.b2, s.target.b2, t),
			a1: lerp32(s.cur.a1, s.target.a1, t),
			a2: lerp32(s.cur.a2, s.target.a2, t),
		}
		y := c.b0*x + s.z1
		s.z1 = c.b1*x - c.a1*y + s.z2
		s.z2 = c.b2*x - c.a2*y
		buf[i] = y
	}
	s.cur = s.target
}

func lerp32(a, b, t float32) float32 { return a + (b-a)*t }

// NFCFilter is a near-field compensation filter for higher ambisonic
// orders. It stores the requested order, but the order does not change
// the filtering (see Process).
type NFCFilter struct {
	order  int
	z      float32
	gain   float32
	cutoff float32
}

// NewNFCFilter builds an order-N NFC filter for the given distance
// scale (device.NfcDistanceScale / listener distance ratio).
func NewNFCFilter(order int, cutoffNorm float32) *NFCFilter {
	return &NFCFilter{order: order, cutoff: cutoffNorm}
}

// Process applies a single one-pole low-pass at the configured cutoff,
// whatever the order; no additional poles are cascaded for higher
// orders and OpenAL-Soft's exact transfer function is not reproduced.
func (f *NFCFilter) Process(buf []float32) {
	a := f.cutoff
	for i := range buf {
		f.z += a * (buf[i] - f.z)
		buf[i] = f.z
	}
}
