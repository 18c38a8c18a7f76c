
/*
License: GPLv3 or later
*/
package alcore

import "testing"

func TestResampleCursorUnityStep(t *testing.T) {
	c := NewResampleCursor(48000, 48000)
	if c.Step != MixerFracOne {
		t.Errorf("expected unity step %d, got %d", MixerFracOne, c.Step)
	}
}

func TestResampleCursorAdvanceWraps(t *testing.T) {
	c := ResampleCursor{Step: MixerFracOne / 2}
	var total uint32
	for i := 0; i < 4; i++ {
		total += c.Advance()
	}
	if total != 2 {
		t.Errorf("expected 2 whole samples consumed over 4 half-steps, got %d", total)
	}
}

func TestResamplePointNearest(t *testing.T) {
	src := []float32{1, 2, 3, 4, 5}
	out := make([]float32, 3)
	ResamplePoint(src, 0, out, MixerFracOne)
	want := []float32{1, 2, 3}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("index %d: got %v want %v", i, out[i], want[i])
		}
	}
}

func TestResampleLinearInterpolates(t *testing.T) {
	src := []float32{0, 10, 20, 30}
	out := make([]float32, 1)
	ResampleLinear(src, MixerFracOne/2, out, MixerFracOne)
	if out[0] < 4.9 || out[0] > 5.1 {
		t.Errorf("expected ~5, got %v", out[0])
	}
}

func TestBSincTapsAreNormalized(t *testing.T) {
	for _, tap := range []bsincTap{bsinc12Taps, bsinc24Taps} {
		for p, row := range tap.taps {
			var sum float32
			for _, v := range row {
				sum += v
			}
			if sum < 0.9 || sum > 1.1 {
				t.Errorf("phase %d: taps do not sum near 1 (%v)", p, sum)
			}
		}
	}
}
