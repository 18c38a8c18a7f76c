// lut.go - lookup tables for fast transcendental approximations.
//
// Adapted from the teacher module's audio_lut.go (sinLUT/tanhLUT with
// linear interpolation); the table sizes and interpolation scheme are
// unchanged, only the call sites moved from oscillator generation to
// the LFO/waveshaper code that needs them here.

/*
License: GPLv3 or later
*/

package alcore

import "math"

const (
	sinLUTSize  = 8192
	sinLUTMask  = sinLUTSize - 1
	tanhLUTSize = 4096
	tanhLUTMin  = float32(-4.0)
	tanhLUTMax  = float32(4.0)
)

const (
	sinLUTScale  = float32(sinLUTSize) / (2 * math.Pi)
	tanhLUTScale = float32(tanhLUTSize-1) / (tanhLUTMax - tanhLUTMin)
)

var sinLUT [sinLUTSize]float32
var tanhLUT [tanhLUTSize]float32

func init() {
	for i := 0; i < sinLUTSize; i++ {
		phase := float64(i) * 2 * math.Pi / float64(sinLUTSize)
		sinLUT[i] = float32(math.Sin(phase))
	}
	for i := 0; i < tanhLUTSize; i++ {
		x := float64(tanhLUTMin) + float64(i)*float64(tanhLUTMax-tanhLUTMin)/float64(tanhLUTSize-1)
		tanhLUT[i] = float32(math.Tanh(x))
	}
}

// fastSin returns sin(phase) via table lookup with linear interpolation.
func fastSin(phase float32) float32 {
	if phase < 0 {
		phase += TwoPi * float32(int(-phase/TwoPi)+1)
	} else if phase >= TwoPi {
		phase -= TwoPi * float32(int(phase/TwoPi))
	}
	indexF := phase * sinLUTScale
	index := int(indexF)
	frac := indexF - float32(index)
	index &= sinLUTMask
	nextIndex := (index + 1) & sinLUTMask
	return sinLUT[index] + frac*(sinLUT[nextIndex]-sinLUT[index])
}

func fastCos(phase float32) float32 {
	return fastSin(phase + float32(math.Pi/2))
}

// fastTanh returns tanh(x) via table lookup with linear interpolation,
// clamped outside [-4, 4] where tanh has already saturated.
func fastTanh(x float32) float32 {
	if x <= tanhLUTMin {
		return -1.0
	}
	if x >= tanhLUTMax {
		return 1.0
	}
	indexF := (x - tanhLUTMin) * tanhLUTScale
	index := int(indexF)
	frac := indexF - float32(index)
	if index >= tanhLUTSize-1 {
		return tanhLUT[tanhLUTSize-1]
	}
	return tanhLUT[index] + frac*(tanhLUT[index+1]-tanhLUT[index])
}
