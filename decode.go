// decode.go - per-sample-format decoders used while resampling a voice
//.
//
// Malformed blocks (e.g. an out-of-range ADPCM step index) are clamped
// defensively rather than causing a panic.

/*
License: GPLv3 or later
*/

package alcore

import (
	"encoding/binary"
	"math"
)

var imaIndexAdjust = [16]int32{-1, -1, -1, -1, 2, 4, 6, 8, -1, -1, -1, -1, 2, 4, 6, 8}

var imaStepTable = [89]int32{
	7, 8, 9, 10, 11, 12, 13, 14, 16, 17, 19, 21, 23, 25, 28, 31, 34, 37, 41, 45,
	50, 55, 60, 66, 73, 80, 88, 97, 107, 118, 130, 143, 157, 173, 190, 209, 230,
	253, 279, 307, 337, 371, 408, 449, 494, 544, 598, 658, 724, 796, 876, 963,
	1060, 1166, 1282, 1411, 1552, 1707, 1878, 2066, 2272, 2499, 2749, 3024, 3327,
	3660, 4026, 4428, 4871, 5358, 5894, 6484, 7132, 7845, 8630, 9493, 10442,
	11487, 12635, 13899, 15289, 16818, 18500, 20350, 22385, 24623, 27086, 29794,
	32767,
}

var msAdaptionTable = [16]int32{768, 768, 768, 768, 0, -256, -512, -1024, 768, 768, 768, 768, 0, -256, -512, -1024}

// msAdaptCoeff1/2 are the two coefficient columns of the standard
// 7-predictor MS ADPCM coefficient table, one entry per predictor.
var msAdaptCoeff1 = [7]int32{256, 512, 0, 192, 240, 460, 392}
var msAdaptCoeff2 = [7]int32{0, -256, 0, 64, 0, -208, -232}

func clampI16(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

func muLawToLinear(u byte) int16 {
	u = ^u
	sign := u & 0x80
	exponent := (u >> 4) & 0x07
	mantissa := u & 0x0F
	sample := int32(mantissa)<<3 + 0x84
	sample <<= exponent
	sample -= 0x84
	if sign != 0 {
		sample = -sample
	}
	return clampI16(sample)
}

func aLawToLinear(a byte) int16 {
	a ^= 0x55
	sign := a & 0x80
	exponent := (a >> 4) & 0x07
	mantissa := a & 0x0F
	var sample int32
	if exponent == 0 {
		sample = int32(mantissa)<<4 + 8
	} else {
		sample = (int32(mantissa)<<4 + 0x108) << (exponent - 1)
	}
	if sign == 0 {
		sample = -sample
	}
	return clampI16(sample)
}

// decodePCMFrame reads one interleaved frame (numChans samples) at byte
// offset off and writes normalized float32 samples into dst.
func decodePCMFrame(data []byte, format SampleFormat, numChans, off int, dst []float32) {
	for c := 0; c < numChans; c++ {
		switch format {
		case FormatU8:
			dst[c] = (float32(data[off+c]) - 128) / 128
		case FormatI16:
			v := int16(binary.LittleEndian.Uint16(data[off+2*c:]))
			dst[c] = float32(v) / 32768
		case FormatI32:
			v := int32(binary.LittleEndian.Uint32(data[off+4*c:]))
			dst[c] = float32(v) / 2147483648
		case FormatF32:
			bits := binary.LittleEndian.Uint32(data[off+4*c:])
			dst[c] = math.Float32frombits(bits)
		case FormatF64:
			bits := binary.LittleEndian.Uint64(data[off+8*c:])
			dst[c] = float32(math.Float64frombits(bits))
		case FormatMuLaw:
			dst[c] = float32(muLawToLinear(data[off+c])) / 32768
		case FormatALaw:
			dst[c] = float32(aLawToLinear(data[off+c])) / 32768
		}
	}
}

// ima4BlockSamples is the number of output samples an IMA4 block of the
// given byte size produces for one channel (4-byte header + 4-byte
// interleaved nibble words per channel).
func ima4BlockSamples(blockAlign int) int {
	return 1 + (blockAlign-4)*2
}

// decodeIMA4Block decodes one channel's IMA4-ADPCM block into out
// (length ima4BlockSamples(len(block))).
func decodeIMA4Block(block []byte, out []float32) {
	sample := int32(int16(binary.LittleEndian.Uint16(block[0:2])))
	stepIdx := int32(int8(block[2]))
	if stepIdx < 0 {
		stepIdx = 0
	}
	if stepIdx > 88 {
		stepIdx = 88
	}
	out[0] = float32(sample) / 32768
	oi := 1
	for i := 4; i < len(block) && oi < len(out); i++ {
		byteVal := block[i]
		for _, nibble := range [2]uint8{byteVal & 0x0F, byteVal >> 4} {
			if oi >= len(out) {
				break
			}
			step := imaStepTable[stepIdx]
			diff := step >> 3
			if nibble&1 != 0 {
				diff += step >> 2
			}
			if nibble&2 != 0 {
				diff += step >> 1
			}
			if nibble&4 != 0 {
				diff += step
			}
			if nibble&8 != 0 {
				sample -= diff
			} else {
				sample += diff
			}
			if sample > 32767 {
				sample = 32767
			} else if sample < -32768 {
				sample = -32768
			}
			stepIdx += imaIndexAdjust[nibble]
			if stepIdx < 0 {
				stepIdx = 0
			} else if stepIdx > 88 {
				stepIdx = 88
			}
			out[oi] = float32(sample) / 32768
			oi++
		}
	}
}

// msAdpcmBlockSamples returns the number of output samples a 7-byte
// header MS-ADPCM block of the given size produces.
func msAdpcmBlockSamples(blockAlign int) int {
	return 2 + (blockAlign-7)*2
}

// decodeMSADPCMBlock decodes one channel's MS-ADPCM block into out.
func decodeMSADPCMBlock(block []byte, out []float32) {
	predictor := int(block[0])
	if predictor >= len(msAdaptCoeff1) {
		predictor = 0
	}
	c1 := msAdaptCoeff1[predictor]
	c2 := msAdaptCoeff2[predictor]
	scale := int32(int16(binary.LittleEndian.Uint16(block[1:3])))
	h0 := int32(int16(binary.LittleEndian.Uint16(block[3:5])))
	h1 := int32(int16(binary.LittleEndian.Uint16(block[5:7])))

	out[0] = float32(h1) / 32768
	out[1] = float32(h0) / 32768
	oi := 2

	for i := 7; i < len(block) && oi < len(out); i++ {
		byteVal := block[i]
		for _, nibble := range [2]uint8{byteVal >> 4, byteVal & 0x0F} {
			if oi >= len(out) {
				break
			}
			signed := int32(nibble)
			if signed >= 8 {
				signed -= 16
			}
			pred := (h0*c1 + h1*c2) / 256
			diff := signed * scale
			out2 := pred + diff
			if out2 > 32767 {
				out2 = 32767
			} else if out2 < -32768 {
				out2 = -32768
			}
			h1 = h0
			h0 = out2
			scale = (scale * msAdaptionTable[nibble]) / 256
			if scale < 16 {
				scale = 16
			}
			out[oi] = float32(out2) / 32768
			oi++
		}
	}
}
