// effects_delay.go - Chorus/Flanger (modulated short delay) and Echo
// (tapped feedback delay), both generalized from the teacher's single
// delay-line comb building block in audio_chip.go.

/*
License: GPLv3 or later
*/

package alcore

import "math"

type chorusState struct {
	mixRate int
	buf     []float32
	pos     int
	rate    float32
	depth   float32
	feedback float32
	baseDelay float32
	phase   float32
	isFlanger bool
}

func newChorusState(blockSize, mixRate int, flanger bool) *chorusState {
	maxDelayMs := float32(16)
	if flanger {
		maxDelayMs = 4
	}
	n := int(maxDelayMs*float32(mixRate)/1000) + 4
	return &chorusState{mixRate: mixRate, buf: make([]float32, n), isFlanger: flanger, baseDelay: maxDelayMs / 2}
}

func (c *chorusState) Kind() EffectKind { return EffectChorus }

func (c *chorusState) Update(_ *Device, props *EffectProps) {
	c.rate = props.Rate
	c.depth = props.Depth
	c.feedback = props.Feedback
	c.baseDelay = props.Delay * 1000
}

func (c *chorusState) Process(samplesIn [][]float32, target [][]float32) {
	n := 0
	if len(samplesIn) > 0 {
		n = len(samplesIn[0])
	}
	for i := 0; i < n; i++ {
		var mono float32
		for _, ch := range samplesIn {
			mono += ch[i]
		}

		c.phase += c.rate * TwoPi / float32(c.mixRate)
		if c.phase > TwoPi {
			c.phase -= TwoPi
		}
		mod := float32(math.Sin(float64(c.phase))) * c.depth
		delaySamples := (c.baseDelay + mod) * float32(c.mixRate) / 1000
		if delaySamples < 1 {
			delaySamples = 1
		}
		if int(delaySamples)+1 >= len(c.buf) {
			delaySamples = float32(len(c.buf) - 2)
		}

		readPos := float32(c.pos) - delaySamples
		for readPos < 0 {
			readPos += float32(len(c.buf))
		}
		i0 := int(readPos) % len(c.buf)
		i1 := (i0 + 1) % len(c.buf)
		frac := readPos - float32(int(readPos))
		wet := c.buf[i0] + (c.buf[i1]-c.buf[i0])*frac

		c.buf[c.pos] = mono + wet*c.feedback
		c.pos = (c.pos + 1) % len(c.buf)

		for _, ch := range target {
			if i < len(ch) {
				ch[i] += wet
			}
		}
	}
}

type echoState struct {
	mixRate int
	buf     []float32
	lrBuf   []float32
	pos     int
	lrPos   int
	feedback float32
	damping  float32
	spread   float32
	mix      float32
	filterStore float32
}

func newEchoState(blockSize, mixRate int) *echoState {
	return &echoState{
		mixRate: mixRate,
		buf:     make([]float32, mixRate), // one second of delay
		lrBuf:   make([]float32, mixRate),
	}
}

func (e *echoState) Kind() EffectKind { return EffectEcho }

func (e *echoState) Update(_ *Device, props *EffectProps) {
	e.feedback = props.Feedback
	e.damping = props.EchoDamping
	e.spread = props.EchoSpread
	e.mix = props.Gain
}

func (e *echoState) Process(samplesIn [][]float32, target [][]float32) {
	n := 0
	if len(samplesIn) > 0 {
		n = len(samplesIn[0])
	}
	for i := 0; i < n; i++ {
		var mono float32
		for _, ch := range samplesIn {
			mono += ch[i]
		}

		tap := e.buf[e.pos]
		e.filterStore = tap*(1-e.damping) + e.filterStore*e.damping
		e.buf[e.pos] = mono + e.filterStore*e.feedback
		e.pos = (e.pos + 1) % len(e.buf)

		lrTap := e.lrBuf[e.lrPos]
		e.lrBuf[e.lrPos] = tap
		e.lrPos = (e.lrPos + 1) % len(e.lrBuf)

		wet := (tap + lrTap*e.spread) * e.mix
		for _, ch := range target {
			if i < len(ch) {
				ch[i] += wet
			}
		}
	}
}
