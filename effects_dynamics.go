// effects_dynamics.go - Distortion (tanh waveshaping, adapted from the
// teacher's fastTanh soft clipper) and Compressor (feed-forward
// envelope gain reduction).

/*
License: GPLv3 or later
*/

package alcore

type distortionState struct {
	mixRate int
	edge    float32
	gain    float32
	lowpass BiquadState
	bandpass BiquadState
}

func newDistortionState(mixRate int) *distortionState {
	return &distortionState{mixRate: mixRate, gain: 1}
}

func (d *distortionState) Kind() EffectKind { return EffectDistortion }

func (d *distortionState) Update(_ *Device, props *EffectProps) {
	d.edge = props.Edge
	d.gain = props.Gain
	sr := float64(d.mixRate)
	d.lowpass.SetTarget(LowShelf(float64(props.LowpassCutoff)/sr, 0))
	d.bandpass.SetTarget(Peaking(float64(props.EqCenter)/sr, 6, float64(maxf32(props.EqBandwidth, 0.1))))
}

// Process drives the input through a pre-shaping bandpass, then a
// tanh soft-clip scaled by Edge, matching the teacher's waveshaper
// saturation curve but parameterized by the effect's Edge property
// instead of a fixed per-channel drive constant.
func (d *distortionState) Process(samplesIn [][]float32, target [][]float32) {
	n := 0
	if len(samplesIn) > 0 {
		n = len(samplesIn[0])
	}
	drive := 1 + d.edge*50
	for i := 0; i < n; i++ {
		var mono float32
		for _, ch := range samplesIn {
			mono += ch[i]
		}
		buf := [1]float32{mono}
		d.bandpass.Process(buf[:])
		shaped := fastTanh(buf[0] * drive)
		buf[0] = shaped
		d.lowpass.Process(buf[:])
		wet := buf[0] * d.gain
		for _, ch := range target {
			if i < len(ch) {
				ch[i] += wet
			}
		}
	}
}

type compressorState struct {
	mixRate int
	enabled bool
	envelope float32
	attack, release float32
}

func newCompressorState(mixRate int) *compressorState {
	return &compressorState{mixRate: mixRate, attack: 0.01, release: 0.1, envelope: 1}
}

func (c *compressorState) Kind() EffectKind { return EffectCompressor }

func (c *compressorState) Update(_ *Device, props *EffectProps) {
	c.enabled = props.CompressorOnOff
}

// Process applies a simple feed-forward limiter: gain reduction is the
// reciprocal of the envelope once the signal exceeds unity, smoothed
// by attack/release time constants.
func (c *compressorState) Process(samplesIn [][]float32, target [][]float32) {
	if !c.enabled {
		for ci, ch := range samplesIn {
			if ci < len(target) {
				mixAdd(target[ci], ch, 1)
			}
		}
		return
	}
	n := 0
	if len(samplesIn) > 0 {
		n = len(samplesIn[0])
	}
	for i := 0; i < n; i++ {
		var peak float32
		for _, ch := range samplesIn {
			a := ch[i]
			if a < 0 {
				a = -a
			}
			if a > peak {
				peak = a
			}
		}
		gainTarget := float32(1)
		if peak > 1 {
			gainTarget = 1 / peak
		}
		if gainTarget < c.envelope {
			c.envelope += (gainTarget - c.envelope) * c.attack
		} else {
			c.envelope += (gainTarget - c.envelope) * c.release
		}
		for ci, ch := range samplesIn {
			if ci < len(target) && i < len(target[ci]) {
				target[ci][i] += ch[i] * c.envelope
			}
		}
	}
}
