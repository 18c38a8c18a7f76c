
/*
License: GPLv3 or later
*/
package alcore

import "testing"

func TestAcnChannelsMatchesOrderFormula(t *testing.T) {
	cases := map[int]int{0: 1, 1: 4, 2: 9, 3: 16}
	for order, want := range cases {
		if got := AcnChannels(order); got != want {
			t.Errorf("order %d: got %d want %d", order, got, want)
		}
	}
}

func TestAmbiRotatorPreservesOrderOneEnergy(t *testing.T) {
	r := NewAmbiRotator(1)
	r.SetFromForwardUp([3]float32{0, 0, -1}, [3]float32{0, 1, 0})

	chans := make([][]float32, 4)
	for i := range chans {
		chans[i] = make([]float32, 1)
	}
	chans[1][0], chans[2][0], chans[3][0] = 0.3, 0.4, 0.5
	var before float64
	for i := 1; i <= 3; i++ {
		before += float64(chans[i][0]) * float64(chans[i][0])
	}
	r.Rotate(chans)
	var after float64
	for i := 1; i <= 3; i++ {
		after += float64(chans[i][0]) * float64(chans[i][0])
	}
	if diff := after - before; diff > 1e-3 || diff < -1e-3 {
		t.Errorf("expected energy-preserving rotation, before=%v after=%v", before, after)
	}
}

func TestAmbiUpsampleMatrixZeroFillsHigherOrders(t *testing.T) {
	m := AmbiUpsampleMatrix(1, 2)
	if len(m) != AcnChannels(2) {
		t.Fatalf("expected %d rows, got %d", AcnChannels(2), len(m))
	}
	for i := AcnChannels(1); i < len(m); i++ {
		for _, v := range m[i] {
			if v != 0 {
				t.Errorf("row %d should be all zero, got %v", i, m[i])
			}
		}
	}
	for i := 0; i < AcnChannels(1); i++ {
		if m[i][i] != 1 {
			t.Errorf("expected identity passthrough at row %d", i)
		}
	}
}

func TestComputePanGainsCenteredSourceReachesBothStereoChannels(t *testing.T) {
	layout := SpeakerLayoutAngles(LayoutStereo)
	out := make([]float32, 2)
	ComputePanGains(layout, 0, 0, 1, out)
	if out[0] <= 0 || out[1] <= 0 {
		t.Errorf("expected both stereo channels to receive a centered source, got %v", out)
	}
}
