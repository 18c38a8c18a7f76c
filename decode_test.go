
/*
License: GPLv3 or later
*/
package alcore

import "testing"

func TestMuLawSilenceRoundsToZero(t *testing.T) {
	v := muLawToLinear(0xFF)
	if v < -8 || v > 8 {
		t.Errorf("expected near-zero for mu-law silence byte, got %d", v)
	}
}

func TestALawSilenceRoundsToZero(t *testing.T) {
	v := aLawToLinear(0xD5)
	if v < -8 || v > 8 {
		t.Errorf("expected near-zero for A-law silence byte, got %d", v)
	}
}

func TestDecodePCMFrameI16(t *testing.T) {
	data := []byte{0x00, 0x40, 0x00, 0xC0} // two i16 samples: 0x4000, 0xC000 (stereo frame)
	dst := make([]float32, 2)
	decodePCMFrame(data, FormatI16, 2, 0, dst)
	if dst[0] <= 0 {
		t.Errorf("expected positive first sample, got %v", dst[0])
	}
	if dst[1] >= 0 {
		t.Errorf("expected negative second sample, got %v", dst[1])
	}
}

func TestIMA4BlockSamplesMatchesSpec(t *testing.T) {
	n := ima4BlockSamples(36)
	if n != 1+(36-4)*2 {
		t.Errorf("unexpected ima4 sample count: %d", n)
	}
}

func TestDecodeIMA4BlockStaysInRange(t *testing.T) {
	block := make([]byte, 36)
	block[0], block[1] = 0x00, 0x00
	block[2] = 0
	for i := 4; i < len(block); i++ {
		block[i] = 0x55
	}
	out := make([]float32, ima4BlockSamples(36))
	decodeIMA4Block(block, out)
	for i, v := range out {
		if v < -1.01 || v > 1.01 {
			t.Fatalf("sample %d out of range: %v", i, v)
		}
	}
}

func TestMSADPCMBlockSamplesMatchesSpec(t *testing.T) {
	n := msAdpcmBlockSamples(14)
	if n != 2+(14-7)*2 {
		t.Errorf("unexpected ms-adpcm sample count: %d", n)
	}
}
