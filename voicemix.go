// voicemix.go - Voice.mix: the per-voice resample -> filter ->
// pan/HRTF -> direct+send accumulation pipeline.

/*
License: GPLv3 or later
*/

package alcore

// voiceMixScratch holds the reusable buffers one mix cycle's worth of
// voice processing needs, sized once per device and reused across
// voices and cycles to avoid per-cycle allocation.
type voiceMixScratch struct {
	sourceWindow [][]float32 // per source channel, padded resample window
	resampled    [][]float32 // per source channel, mix-rate samples for this cycle
	hrtfMono     []float32   // scratch mono input to the HRTF path
}

func newVoiceMixScratch(maxChans, blockSize int) *voiceMixScratch {
	s := &voiceMixScratch{
		sourceWindow: make([][]float32, maxChans),
		resampled:    make([][]float32, maxChans),
		hrtfMono:     make([]float32, blockSize),
	}
	for c := 0; c < maxChans; c++ {
		s.sourceWindow[c] = make([]float32, blockSize+MaxResamplerPadding)
		s.resampled[c] = make([]float32, blockSize)
	}
	return s
}

// mix advances v by blockSize output samples, writing its direct-path
// contribution into dry (or dev's binaural HRTF accumulator, when the
// device is configured for PostHrtf) and its auxiliary-send
// contributions into the corresponding slot wet buffers, per mp (this
// cycle's CalcVoiceParams output). dev may be nil (e.g. in isolated
// unit tests exercising only the resample/pan path), in which case
// HRTF and deferred-start are skipped; the zero-step early-stop check
// runs either way.
func (v *Voice) mix(mp *VoiceMixParams, scratch *voiceMixScratch, blockSize int, dry [][]float32, sends [NumSends]*EffectSlot, dev *Device) {
	if v.currentBuffer == nil {
		return
	}
	if mp.PitchStep.Step == 0 {
		// No pitch: the voice would never advance again and produces
		// nothing. A Stopping voice that reaches this has played its last
		// real sample, so it settles to Stopped here rather than a voice
		// actively waiting to start (Playing) staying stuck forever.
		if PlayState(v.PlayState.Load()) == Stopping {
			v.PlayState.Store(int32(Stopped))
		}
		return
	}
	if dev != nil && v.cur.StartTime > dev.deviceTime() {
		remaining := v.cur.StartTime - dev.deviceTime()
		outPos := int(remaining*float64(dev.Config.SampleRate) + 0.5)
		if outPos >= blockSize || remaining > 1.0 {
			// Scheduled to start later than this block; produce nothing and
			// leave the buffer cursor untouched.
			return
		}
		// The start time lands inside this block; begin the whole block
		// now rather than sample-accurately zero-filling the leading
		// outPos samples (a documented simplification, see DESIGN.md).
	}

	chans := v.currentBuffer.buf.NumChans
	if chans == 0 {
		return
	}
	v.chans = chans

	before, after := resamplerPadding(v.resampler)
	needed := before + after + int((uint64(mp.PitchStep.Step)*uint64(blockSize))>>MixerFracBits) + 2

	window := scratch.sourceWindow
	for c := 0; c < chans; c++ {
		if cap(window[c]) < needed {
			window[c] = make([]float32, needed)
		}
		window[c] = window[c][:needed]
		for i := range window[c] {
			window[c][i] = 0
		}
	}
	fillTargets := make([][]float32, chans)
	for c := range fillTargets {
		fillTargets[c] = window[c][before:]
	}
	fillSourceWindow(v, fillTargets, needed-before)

	resampleFn := SelectResampler(v.resampler)
	out := scratch.resampled
	for c := 0; c < chans; c++ {
		resampleFn(window[c], v.cursor.Frac, out[c][:blockSize], mp.PitchStep.Step)
	}

	tmp := v.cursor
	for i := 0; i < blockSize; i++ {
		tmp.Advance()
	}
	v.cursor.Frac = tmp.Frac
	v.cursor.Step = mp.PitchStep.Step

	useHrtf := dev != nil && dev.Config.PostProcess == PostHrtf && dev.hrir != nil

	if useHrtf {
		v.mixHrtf(mp, dev, out, chans, blockSize, scratch.hrtfMono)
	} else {
		v.mixDirect(mp, out, chans, blockSize, dry)
	}

	for s := 0; s < NumSends; s++ {
		slot := sends[s]
		if slot == nil {
			continue
		}
		v.mixSend(mp, s, slot, out, chans, blockSize)
	}
}

// mixDirect ramps the direct-path gains linearly from their current
// value to mp.DirectGains over exactly blockSize samples (matching
// biquad.go's per-sample coefficient ramp) and filters+accumulates
// each source channel into dry. The ramp's start/end snapshot is taken
// once per call so every source channel rides the same envelope,
// rather than each channel restarting its own partial ramp.
func (v *Voice) mixDirect(mp *VoiceMixParams, out [][]float32, chans, blockSize int, dry [][]float32) {
	startGains := v.direct.curGains
	v.direct.targetGains = mp.DirectGains

	for c := 0; c < chans && c < len(out); c++ {
		buf := append([]float32(nil), out[c][:blockSize]...)
		v.direct.filters[c%MixerChannelsMax].SetTarget(mp.DirectFilter)
		v.direct.filters[c%MixerChannelsMax].Process(buf)

		for ch := 0; ch < len(dry) && ch < MixerChannelsMax; ch++ {
			rampMixAdd(dry[ch], buf, startGains[ch], v.direct.targetGains[ch])
		}
	}
	v.direct.curGains = v.direct.targetGains
}

// mixSend mirrors mixDirect for one auxiliary send slot.
func (v *Voice) mixSend(mp *VoiceMixParams, s int, slot *EffectSlot, out [][]float32, chans, blockSize int) {
	st := &v.sendsSt[s]
	startGains := st.curGains
	st.targetGains = mp.SendGains[s]

	for c := 0; c < chans && c < len(out); c++ {
		buf := append([]float32(nil), out[c][:blockSize]...)
		st.filter.SetTarget(mp.SendFilters[s])
		st.filter.Process(buf)

		for ch := range slot.WetBuffer {
			if ch >= MixerChannelsMax {
				break
			}
			rampMixAdd(slot.WetBuffer[ch], buf, startGains[ch], st.targetGains[ch])
		}
	}
	st.curGains = st.targetGains
}

// mixHrtf feeds the voice's (scaled, mono-summed) signal through its
// per-voice HRTF convolution state into dev's binaural accumulator,
// updating the crossfade target only when the nearest measured
// direction actually changes so an in-flight blend is never reset
// mid-fade.
func (v *Voice) mixHrtf(mp *VoiceMixParams, dev *Device, out [][]float32, chans, blockSize int, mono []float32) {
	for i := 0; i < blockSize; i++ {
		mono[i] = 0
	}
	for c := 0; c < chans && c < len(out); c++ {
		for i := 0; i < blockSize; i++ {
			mono[i] += out[c][i]
		}
	}
	if chans > 1 {
		inv := float32(1) / float32(chans)
		for i := range mono {
			mono[i] *= inv
		}
	}
	for i := range mono {
		mono[i] *= mp.Gain
	}

	azDeg := float32(mp.Azimuth) * 180 / piF32
	elDeg := float32(mp.Elevation) * 180 / piF32
	if p := NearestHrir(dev.hrir, azDeg, elDeg); p != nil && p != v.hrtf.targetLeft {
		v.hrtf.SetTargetDirection(p)
	}
	if len(dev.hrtfOut[0]) >= blockSize && len(dev.hrtfOut[1]) >= blockSize {
		MixHrtf(&v.hrtf, mono[:blockSize], dev.hrtfOut[0][:blockSize], dev.hrtfOut[1][:blockSize])
	}
}

const piF32 = 3.14159265358979323846

// rampMixAdd adds src into dst, scaled by a gain that ramps linearly
// from startGain to endGain over len(src) samples, reaching endGain
// exactly on the last sample (t = (i+1)/n, the same convention
// BiquadState.Process uses for its coefficient ramp). Avoids both the
// zipper noise of a single-step gain jump and the wrong-shaped decay
// of exponential smoothing.
func rampMixAdd(dst, src []float32, startGain, endGain float32) {
	n := len(src)
	if len(dst) < n {
		n = len(dst)
	}
	if n == 0 {
		return
	}
	if startGain == endGain {
		mixAdd(dst[:n], src[:n], endGain)
		return
	}
	step := 1.0 / float32(n)
	for i := 0; i < n; i++ {
		t := float32(i+1) * step
		g := lerp32(startGain, endGain, t)
		dst[i] += src[i] * g
	}
}
