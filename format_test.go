
/*
License: GPLv3 or later
*/
package alcore

import "testing"

func TestConvSampleI16RoundTrip(t *testing.T) {
	cases := []float32{-1, -0.5, 0, 0.5, 0.999}
	for _, c := range cases {
		v := convSampleI16(c)
		back := float32(v) / 32768
		if diff := back - c; diff > 0.001 || diff < -0.001 {
			t.Errorf("convSampleI16(%v) round-trip off by %v", c, diff)
		}
	}
}

func TestConvSampleI16Clamp(t *testing.T) {
	if v := convSampleI16(2.0); v != 32767 {
		t.Errorf("expected clamp to 32767, got %d", v)
	}
	if v := convSampleI16(-2.0); v != -32768 {
		t.Errorf("expected clamp to -32768, got %d", v)
	}
}

func TestConvSampleU8Midpoint(t *testing.T) {
	if v := convSampleU8(0); v != 128 && v != 129 {
		t.Errorf("expected midpoint near 128, got %d", v)
	}
}

func TestInterleaveConvertZerosExtraChannels(t *testing.T) {
	chans := [][]float32{{0.5, -0.5}}
	out := make([]byte, 2*4*2) // 2 frames, 4-wide stride, i16
	interleaveConvert(out, chans, 2, 4, DevI16)
	for f := 0; f < 2; f++ {
		for c := 1; c < 4; c++ {
			off := f*4*2 + c*2
			if out[off] != 0 || out[off+1] != 0 {
				t.Errorf("expected zeroed channel %d at frame %d", c, f)
			}
		}
	}
}
