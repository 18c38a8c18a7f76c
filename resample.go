// resample.go - fixed-point fractional resampling cursor and
// interpolation kernels.

/*
License: GPLv3 or later
*/

package alcore

import "math"

// ResamplerKind selects the interpolation kernel a voice uses to
// convert its buffer's native rate to the mix rate.
type ResamplerKind int

const (
	ResamplerPoint ResamplerKind = iota
	ResamplerLinear
	ResamplerCubic
	ResamplerGaussian
	ResamplerBSinc12
	ResamplerBSinc24
	ResamplerFastBSinc12
	ResamplerFastBSinc24
)

// resamplerPadding reports how many history/lookahead samples a kernel
// needs on each side of the interpolation point.
func resamplerPadding(k ResamplerKind) (before, after int) {
	switch k {
	case ResamplerPoint:
		return 0, 0
	case ResamplerLinear:
		return 0, 1
	case ResamplerCubic:
		return 1, 2
	case ResamplerGaussian:
		return 2, 3
	case ResamplerBSinc12, ResamplerFastBSinc12:
		return 5, 6
	case ResamplerBSinc24, ResamplerFastBSinc24:
		return 11, 12
	default:
		return 0, 1
	}
}

// ResampleCursor tracks a voice's fractional read position through its
// source samples, in MixerFracBits fixed point position format.
type ResampleCursor struct {
	Step uint32 // fixed-point samples advanced per output sample
	Frac uint32 // fractional part of current position, [0, MixerFracOne)
}

// NewResampleCursor derives Step from the ratio of source to mix rate.
func NewResampleCursor(srcRate, mixRate int) ResampleCursor {
	step := uint32((uint64(srcRate) << MixerFracBits) / uint64(mixRate))
	if step < 1 {
		step = 1
	}
	return ResampleCursor{Step: step}
}

// Advance moves the cursor forward one output sample, returning how
// many whole source samples were consumed.
func (c *ResampleCursor) Advance() uint32 {
	pos := c.Frac + c.Step
	whole := pos >> MixerFracBits
	c.Frac = pos & MixerFracMask
	return whole
}

var gaussianTable [256]float32
var cubicTable [256][4]float32

func init() {
	for i := range gaussianTable {
		x := (float64(i)/256 - 0.5) * 2
		gaussianTable[i] = float32(math.Exp(-x * x * 4))
	}
	for i := range cubicTable {
		t := float64(i) / 256
		t2 := t * t
		t3 := t2 * t
		cubicTable[i] = [4]float32{
			float32(-0.5*t3 + t2 - 0.5*t),
			float32(1.5*t3 - 2.5*t2 + 1),
			float32(-1.5*t3 + 2*t2 + 0.5*t),
			float32(0.5*t3 - 0.5*t2),
		}
	}
}

// ResamplePoint performs nearest-sample (zero-order) resampling.
func ResamplePoint(src []float32, frac uint32, out []float32, step uint32) {
	pos := uint32(0)
	f := frac
	for i := range out {
		out[i] = src[pos]
		np := f + step
		pos += np >> MixerFracBits
		f = np & MixerFracMask
	}
}

// ResampleLinear performs linear interpolation between adjacent
// samples; src must have one sample of lookahead past the last needed
// integer position.
func ResampleLinear(src []float32, frac uint32, out []float32, step uint32) {
	pos := uint32(0)
	f := frac
	for i := range out {
		t := float32(f) / float32(MixerFracOne)
		out[i] = src[pos] + (src[pos+1]-src[pos])*t
		np := f + step
		pos += np >> MixerFracBits
		f = np & MixerFracMask
	}
}

// ResampleCubic performs 4-point cubic Hermite interpolation; src must
// have one sample of history and two of lookahead relative to pos.
func ResampleCubic(src []float32, frac uint32, out []float32, step uint32) {
	pos := uint32(1)
	f := frac
	for i := range out {
		idx := (f >> (MixerFracBits - 8)) & 0xFF
		w := cubicTable[idx]
		out[i] = w[0]*src[pos-1] + w[1]*src[pos] + w[2]*src[pos+1] + w[3]*src[pos+2]
		np := f + step
		pos += np >> MixerFracBits
		f = np & MixerFracMask
	}
}

// ResampleGaussian performs a 3-point Gaussian-weighted interpolation
// (pos-1, pos, pos+1) using the precomputed window LUT.
func ResampleGaussian(src []float32, frac uint32, out []float32, step uint32) {
	pos := uint32(2)
	f := frac
	for i := range out {
		idx := (f >> (MixerFracBits - 8)) & 0xFF
		w := gaussianTable[idx]
		out[i] = (src[pos-1] + src[pos+1]) * 0.5 * w
		out[i] += src[pos] * (1 - w)
		np := f + step
		pos += np >> MixerFracBits
		f = np & MixerFracMask
	}
}

// bsincTap holds one filter order's Kaiser-windowed sinc tap table,
// generated at init rather than reproduced bit-exact from OpenAL-Soft
// (see DESIGN.md simplifications).
type bsincTap struct {
	halfWidth int
	taps      [][]float32 // [phase][tap]
}

var bsinc12Taps, bsinc24Taps bsincTap

const bsincPhases = 256

func init() {
	bsinc12Taps = buildBSincTaps(6)
	bsinc24Taps = buildBSincTaps(12)
}

func buildBSincTaps(halfWidth int) bsincTap {
	width := halfWidth * 2
	t := bsincTap{halfWidth: halfWidth, taps: make([][]float32, bsincPhases)}
	beta := 8.0
	for p := 0; p < bsincPhases; p++ {
		frac := float64(p) / float64(bsincPhases)
		row := make([]float32, width)
		var sum float64
		for j := 0; j < width; j++ {
			x := float64(j-halfWidth) + 1 - frac
			sinc := sincDouble(x)
			win := kaiserWindow(x/float64(halfWidth), beta)
			v := sinc * win
			row[j] = float32(v)
			sum += v
		}
		if sum != 0 {
			for j := range row {
				row[j] = float32(float64(row[j]) / sum)
			}
		}
		t.taps[p] = row
	}
	return t
}

func sincDouble(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

func kaiserWindow(x, beta float64) float64 {
	if x < -1 || x > 1 {
		return 0
	}
	return bessel0(beta*math.Sqrt(1-x*x)) / bessel0(beta)
}

func bessel0(x float64) float64 {
	sum := 1.0
	term := 1.0
	for k := 1; k < 25; k++ {
		term *= (x / (2 * float64(k))) * (x / (2 * float64(k)))
		sum += term
	}
	return sum
}

// ResampleBSinc performs windowed-sinc interpolation using the given
// tap table; src must be padded with tap.halfWidth samples of history
// and tap.halfWidth samples of lookahead relative to pos.
func ResampleBSinc(tap *bsincTap, src []float32, frac uint32, out []float32, step uint32) {
	pos := tap.halfWidth
	f := frac
	width := tap.halfWidth * 2
	for i := range out {
		phase := (f >> (MixerFracBits - 8)) & (bsincPhases - 1)
		row := tap.taps[phase]
		var acc float32
		for j := 0; j < width; j++ {
			acc += row[j] * src[pos-tap.halfWidth+j]
		}
		out[i] = acc
		np := f + step
		pos += int(np >> MixerFracBits)
		f = np & MixerFracMask
	}
}

// SelectResampler maps a ResamplerKind to the function implementing it.
func SelectResampler(k ResamplerKind) func(src []float32, frac uint32, out []float32, step uint32) {
	switch k {
	case ResamplerPoint:
		return ResamplePoint
	case ResamplerLinear:
		return ResampleLinear
	case ResamplerCubic:
		return ResampleCubic
	case ResamplerGaussian:
		return ResampleGaussian
	case ResamplerBSinc12, ResamplerFastBSinc12:
		return func(src []float32, frac uint32, out []float32, step uint32) {
			ResampleBSinc(&bsinc12Taps, src, frac, out, step)
		}
	case ResamplerBSinc24, ResamplerFastBSinc24:
		return func(src []float32, frac uint32, out []float32, step uint32) {
			ResampleBSinc(&bsinc24Taps, src, frac, out, step)
		}
	default:
		return ResampleLinear
	}
}
