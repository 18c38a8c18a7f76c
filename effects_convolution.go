// effects_convolution.go - segmented overlap-add convolution reverb
// against a loaded impulse-response Buffer, using gonum/fourier for the per-segment FFT.

/*
License: GPLv3 or later
*/

package alcore

import (
	"gonum.org/v1/gonum/fourier"
)

// convolutionSegmentSize bounds each overlap-add segment; longer
// impulse responses are split into multiple segments rather than a
// single huge FFT. Every segment is accumulated for every input chunk,
// and the number of segments is not capped.
const convolutionSegmentSize = 128

type convolutionState struct {
	mixRate int
	fft     *fourier.FFT

	segments  [][]complex128 // frequency-domain IR segments
	inputHist [][]complex128 // ring of past input FFT frames, one per segment delay
	histPos   int

	overlap []float32
	gain    float32

	irLoaded bool
}

func newConvolutionState(blockSize, mixRate int) *convolutionState {
	n := convolutionSegmentSize * 2
	return &convolutionState{
		mixRate: mixRate,
		fft:     fourier.NewFFT(n),
		overlap: make([]float32, convolutionSegmentSize),
		gain:    1,
	}
}

func (c *convolutionState) Kind() EffectKind { return EffectConvolutionReverb }

// Update (re)builds the segmented frequency-domain representation of
// the impulse response whenever a new ConvolutionBuffer is published.
func (c *convolutionState) Update(_ *Device, props *EffectProps) {
	c.gain = props.Gain
	if props.ConvolutionBuffer == nil {
		return
	}
	ir := decodeMonoFloat(props.ConvolutionBuffer)
	segLen := convolutionSegmentSize
	n := c.fft.Len()
	numSegs := (len(ir) + segLen - 1) / segLen
	if numSegs < 1 {
		numSegs = 1
	}
	c.segments = make([][]complex128, numSegs)
	c.inputHist = make([][]complex128, numSegs)
	for s := 0; s < numSegs; s++ {
		td := make([]float64, n)
		start := s * segLen
		for i := 0; i < segLen && start+i < len(ir); i++ {
			td[i] = float64(ir[start+i])
		}
		c.segments[s] = c.fft.Coefficients(nil, td)
		c.inputHist[s] = make([]complex128, len(c.segments[s]))
	}
	c.histPos = 0
	c.irLoaded = true
}

// decodeMonoFloat flattens a buffer's first channel to float32,
// reusing the shared PCM decoder.
func decodeMonoFloat(buf *Buffer) []float32 {
	out := make([]float32, buf.FrameCount)
	stride := buf.BytesPerFrame()
	if stride == 0 {
		return out
	}
	frame := make([]float32, buf.NumChans)
	for i := 0; i < buf.FrameCount; i++ {
		decodePCMFrame(buf.Data, buf.Format, buf.NumChans, i*stride, frame)
		out[i] = frame[0]
	}
	return out
}

// Process performs segmented overlap-add convolution of the summed
// mono input against the loaded IR's frequency-domain segments.
func (c *convolutionState) Process(samplesIn [][]float32, target [][]float32) {
	if !c.irLoaded || len(c.segments) == 0 {
		return
	}
	n := 0
	if len(samplesIn) > 0 {
		n = len(samplesIn[0])
	}
	segLen := convolutionSegmentSize
	fftLen := c.fft.Len()
	numSegs := len(c.segments)

	for base := 0; base < n; base += segLen {
		chunk := segLen
		if base+chunk > n {
			chunk = n - base
		}
		td := make([]float64, fftLen)
		for i := 0; i < chunk; i++ {
			var mono float32
			for _, ch := range samplesIn {
				mono += ch[base+i]
			}
			td[i] = float64(mono)
		}
		freq := c.fft.Coefficients(nil, td)
		c.inputHist[c.histPos] = freq

		acc := make([]complex128, len(freq))
		for s := 0; s < numSegs; s++ {
			histIdx := (c.histPos - s + numSegs) % numSegs
			h := c.inputHist[histIdx]
			ir := c.segments[s]
			for k := range acc {
				if k < len(h) && k < len(ir) {
					acc[k] += h[k] * ir[k]
				}
			}
		}
		c.histPos = (c.histPos + 1) % numSegs

		out := c.fft.Sequence(nil, acc)
		for i := 0; i < chunk; i++ {
			wet := float32(out[i])/float32(fftLen) + c.overlap[i]
			for _, ch := range target {
				if base+i < len(ch) {
					ch[base+i] += wet * c.gain
				}
			}
		}
		for i := 0; i < segLen; i++ {
			if chunk+i < len(out) {
				c.overlap[i] = float32(out[chunk+i]) / float32(fftLen)
			} else {
				c.overlap[i] = 0
			}
		}
	}
}
