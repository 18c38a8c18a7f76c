// device.go - the top-level render entry point: one audio output, one
// mix thread, any number of attached Contexts.

/*
License: GPLv3 or later
*/

package alcore

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Device owns the output backend, the ambisonic Dry mix buffer, and
// the postprocess chain that turns it into interleaved output bytes.
// RenderSamples is the sole entry point the application thread calls
// (directly, for a pull-model backend, or indirectly via a feeder
// goroutine for a push-model one like oto).
type Device struct {
	mu sync.Mutex

	Config DeviceConfig
	layout []SpeakerAngle

	Dry [MixerChannelsMax][]float32

	ambiRotator *AmbiRotator

	contexts []*Context

	hrir    *HrirSet
	hrtfOut [2][]float32 // binaural accumulator, populated by voice.mix in PostHrtf mode

	bs2b      *Bs2bState
	dither    *DitherState
	distComp  *DistanceCompensation

	// samplesDone/clockBaseSec split the device sample clock into a
	// sub-second sample count and a whole-seconds base, advanced once
	// per RenderPlanar call, to avoid precision loss at long uptimes.
	samplesDone  int
	clockBaseSec float64

	disconnected atomic.Bool
	disconnectMsg atomic.Value // string

	backend RenderDevice

	outScratch [][]float32
	interleaveBuf []byte
}

// NewDevice allocates a Device per cfg, ready to have Contexts
// attached. backend may be nil for an application that only wants to
// call RenderPlanar/RenderSamples itself (e.g. to write to a file).
func NewDevice(cfg DeviceConfig, backend RenderDevice) (*Device, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			logger.Warn("device config clamped", "err", e)
		}
	}
	d := &Device{
		Config:      cfg,
		layout:      SpeakerLayoutAngles(cfg.OutputLayout),
		ambiRotator: NewAmbiRotator(cfg.MaxAmbiOrder),
		backend:     backend,
		dither:      NewDitherState(0),
	}
	for i := range d.Dry {
		d.Dry[i] = make([]float32, cfg.UpdateSize)
	}
	numOut := len(d.layout)
	if numOut < 1 {
		numOut = 1
	}
	d.outScratch = make([][]float32, numOut)
	for i := range d.outScratch {
		d.outScratch[i] = make([]float32, cfg.UpdateSize)
	}
	d.hrtfOut[0] = make([]float32, cfg.UpdateSize)
	d.hrtfOut[1] = make([]float32, cfg.UpdateSize)
	if cfg.PostProcess == PostBs2b {
		d.bs2b = NewBs2bState(0.4, 0.3)
	}
	if cfg.PostProcess == PostHrtf && cfg.HrtfPath == "" {
		d.hrir = NewDefaultHrirSet(cfg.SampleRate)
	}
	// Speaker distance compensation needs each output's physical
	// distance from the listener, which SpeakerAngle does not carry;
	// instantiate with all-equal (zero) delays so the stage is real and
	// wired. Every channel then passes through the same one-sample delay
	// line at unity gain, so channel alignment is unchanged.
	speakerDelays := make([]int, numOut)
	d.distComp = NewDistanceCompensation(speakerDelays, 0)
	return d, nil
}

// deviceTime returns the device's current playback position, in
// seconds, as tracked by the split sample clock.
func (d *Device) deviceTime() float64 {
	return d.clockBaseSec + float64(d.samplesDone)/float64(d.Config.SampleRate)
}

// advanceClock moves the sample clock forward by frames samples,
// carrying whole seconds into clockBaseSec to keep samplesDone bounded
// and avoid float precision loss over long uptimes.
func (d *Device) advanceClock(frames int) {
	d.samplesDone += frames
	rate := d.Config.SampleRate
	if rate <= 0 {
		return
	}
	d.clockBaseSec += float64(d.samplesDone / rate)
	d.samplesDone %= rate
}

// AttachContext registers ctx with this device so its voices and
// effect slots are included in future RenderSamples calls.
func (d *Device) AttachContext(ctx *Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.contexts = append(d.contexts, ctx)
}

// DetachContext removes ctx from this device's render set.
func (d *Device) DetachContext(ctx *Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, c := range d.contexts {
		if c == ctx {
			d.contexts = append(d.contexts[:i], d.contexts[i+1:]...)
			break
		}
	}
}

func (d *Device) clearDry() {
	for _, ch := range d.Dry {
		for i := range ch {
			ch[i] = 0
		}
	}
	for _, ch := range d.hrtfOut {
		for i := range ch {
			ch[i] = 0
		}
	}
}

// RenderPlanar mixes frames samples of every attached context's voices
// and effect slots into out (channel-major, out[c] sized frames): zero
// the dry mix, advance the sample clock, commit params, mix voices,
// process effect slots in topological order, then post-process.
func (d *Device) RenderPlanar(out [][]float32, frames int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if frames > d.Config.UpdateSize {
		frames = d.Config.UpdateSize
	}
	d.clearDry()
	d.advanceClock(frames)

	for _, ctx := range d.contexts {
		ctx.processContext(d, frames)
	}

	d.postProcess(frames)

	for c := range out {
		if c >= len(d.outScratch) {
			break
		}
		n := frames
		if n > len(out[c]) {
			n = len(out[c])
		}
		copy(out[c][:n], d.outScratch[c][:n])
	}
}

// postProcess runs the configured decode/crossfeed/stabilizer/dither
// chain on d.Dry into d.outScratch. When MaxAmbiOrder > 1 the ambisonic
// rotator is applied to Dry first, before any decode. The device's
// rotator starts as the identity and nothing in the render path sets
// its orientation (voices are already panned in listener space), so
// this pass leaves Dry unchanged unless SetFromForwardUp is called on
// it. The limiter and per-speaker distance-compensation delay then run
// unconditionally on every post-process path, matching the fixed tail
// of the render pipeline, before dither.
func (d *Device) postProcess(frames int) {
	if d.Config.MaxAmbiOrder > 1 {
		d.ambiRotator.Rotate(d.Dry[:])
	}

	switch d.Config.PostProcess {
	case PostHrtf:
		if d.hrir != nil {
			// Voice.mix already accumulated each voice's binaural
			// contribution into d.hrtfOut during the mix phase above;
			// copy it out rather than re-deriving it from Dry.
			for c := 0; c < 2 && c < len(d.outScratch); c++ {
				copy(d.outScratch[c][:frames], d.hrtfOut[c][:frames])
			}
			break
		}
		AmbiDecode(d.Dry[:], d.layout, d.outScratch)
	case PostAmbiDec, PostTsme:
		AmbiDecode(d.Dry[:], d.layout, d.outScratch)
	case PostUhj:
		if len(d.outScratch) >= 2 {
			UhjEncode(d.Dry[0], d.Dry[3], d.Dry[1], d.outScratch[0], d.outScratch[1])
		}
	case PostBs2b:
		AmbiDecode(d.Dry[:], d.layout, d.outScratch)
		if d.bs2b != nil && len(d.outScratch) >= 2 {
			d.bs2b.Process(d.outScratch[0][:frames], d.outScratch[1][:frames])
		}
	case PostStabilizer:
		AmbiDecode(d.Dry[:], d.layout, d.outScratch)
	}

	Stabilizer(d.outScratch, 0.98)
	if d.distComp != nil {
		d.distComp.Process(d.outScratch)
	}
	d.dither.Apply(d.outScratch)
}

// RenderSamples renders frames frames and writes them interleaved,
// device-native-format, to out; frameStep is the number of sample
// slots per frame (channel stride, which may exceed the output
// layout's channel count — extra slots are zeroed). This is the
// primary render entry point the application or feeder goroutine
// calls each cycle.
func (d *Device) RenderSamples(out []byte, frames, frameStep int) error {
	if d.disconnected.Load() {
		return fmt.Errorf("alcore: device disconnected: %v", d.disconnectMsg.Load())
	}
	bps := bytesPerDeviceSample(DevI16)
	need := frames * frameStep * bps
	if need > len(out) {
		frames = len(out) / (frameStep * bps)
		need = frames * frameStep * bps
	}
	for done := 0; done < frames; {
		n := frames - done
		if n > d.Config.UpdateSize {
			n = d.Config.UpdateSize
		}
		d.RenderPlanar(d.outScratch, n)
		interleaveConvert(out[done*frameStep*bps:], d.outScratch, n, frameStep, DevI16)
		done += n
	}
	if d.backend != nil {
		return d.backend.Write(out[:need])
	}
	return nil
}

// Disconnect marks the device as lost (output hardware removed, etc.);
// subsequent RenderSamples calls return an error and any attached
// context should surface an EventDisconnect to its application thread.
func (d *Device) Disconnect(msg string) {
	d.disconnectMsg.Store(msg)
	d.disconnected.Store(true)
	for _, ctx := range d.contexts {
		ctx.events.Write(Event{Kind: EventDisconnect, Message: msg})
	}
}
