// format.go - device output sample conversion.
//
// Conversion is bit-exact: signed formats use an asymmetric clamp
// [-N, N-1] for N-bit; unsigned formats add the midpoint; float passes
// through; i32 uses 2147483648 as the scale but clamps to 2147483520 to
// compensate for float32's 24-bit mantissa.

/*
License: GPLv3 or later
*/

package alcore

import (
	"encoding/binary"
	"math"
)

// DeviceSampleType is the output PCM representation a backend expects.
type DeviceSampleType int

const (
	DevU8 DeviceSampleType = iota
	DevI16
	DevI32
	DevF32
)

const i32ConvClamp = 2147483520

func convSampleU8(x float32) byte {
	v := int32(x*127.5 + 128.5)
	if v < 0 {
		v = 0
	} else if v > 255 {
		v = 255
	}
	return byte(v)
}

func convSampleI16(x float32) int16 {
	v := int32(x * 32767.5)
	if v < -32768 {
		v = -32768
	} else if v > 32767 {
		v = 32767
	}
	return int16(v)
}

func convSampleI32(x float32) int32 {
	v64 := float64(x) * 2147483648.0
	if v64 > i32ConvClamp {
		v64 = i32ConvClamp
	} else if v64 < -2147483648 {
		v64 = -2147483648
	}
	return int32(v64)
}

// interleaveConvert writes nframes frames of chans planar float32
// channels into out in the requested device format, interleaved with
// stride frameStep (which may exceed len(chans); extra channels are
// zeroed).
func interleaveConvert(out []byte, chans [][]float32, nframes, frameStep int, typ DeviceSampleType) {
	bps := bytesPerDeviceSample(typ)
	stride := frameStep * bps
	for f := 0; f < nframes; f++ {
		base := f * stride
		for c := 0; c < frameStep; c++ {
			var v float32
			if c < len(chans) {
				v = chans[c][f]
			}
			off := base + c*bps
			switch typ {
			case DevU8:
				out[off] = convSampleU8(v)
			case DevI16:
				binary.LittleEndian.PutUint16(out[off:], uint16(convSampleI16(v)))
			case DevI32:
				binary.LittleEndian.PutUint32(out[off:], uint32(convSampleI32(v)))
			case DevF32:
				binary.LittleEndian.PutUint32(out[off:], math.Float32bits(v))
			}
		}
	}
}

func bytesPerDeviceSample(typ DeviceSampleType) int {
	switch typ {
	case DevU8:
		return 1
	case DevI16:
		return 2
	default:
		return 4
	}
}

