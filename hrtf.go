// hrtf.go - head-related transfer function convolution for binaural
// output.
//
// A real measured HRTF data set (direction-indexed impulse responses
// from a KEMAR-style head/torso simulator) is the norm in practice;
// NewDefaultHrirSet instead synthesizes a spherical-head model (see
// its doc comment) so the engine has a usable built-in data set with
// no external file dependency. This file implements the per-voice
// convolution and the interpolated crossfade between directions as a
// source moves, plus that synthetic data set.

/*
License: GPLv3 or later
*/

package alcore

import "math"

// HrirSet is a loaded HRTF data set: impulse responses indexed by
// elevation and azimuth, plus the per-direction interaural time delay
// used for low-frequency phase alignment.
type HrirSet struct {
	SampleRate int
	Elevations []HrirElevation
}

// HrirElevation groups all azimuths measured at one elevation angle.
type HrirElevation struct {
	ElevationDeg float32
	Azimuths     []HrirPoint
}

// HrirPoint is one measured direction's stereo impulse response.
type HrirPoint struct {
	AzimuthDeg float32
	Left       [HrirLength]float32
	Right      [HrirLength]float32
	DelayLeft  int // in samples, interaural time delay
	DelayRight int
}

// hrtfVoiceState is the per-voice convolution history carried between
// mix cycles; both ears share one ring of the most recent input samples
// so the FIR convolution can look back HrirLength taps.
type hrtfVoiceState struct {
	history    [HrtfHistoryLength]float32
	historyPos int

	curLeft, curRight     *HrirPoint
	targetLeft, targetRight *HrirPoint
	blend                 float32 // 0 = cur, 1 = target; advances over a crossfade block
}

// NearestHrir finds the measured direction closest to the requested
// azimuth/elevation (both in degrees, azimuth wrapped to [-180,180)).
// Real-time direction lookup in OpenAL-Soft interpolates across the
// four nearest measured points; nearest-neighbor is used here, per
// DESIGN.md's simplification note.
func NearestHrir(set *HrirSet, azimuthDeg, elevationDeg float32) *HrirPoint {
	if len(set.Elevations) == 0 {
		return nil
	}
	bestElev := 0
	bestElevDist := float32(1e9)
	for i, e := range set.Elevations {
		d := abs32(e.ElevationDeg - elevationDeg)
		if d < bestElevDist {
			bestElevDist = d
			bestElev = i
		}
	}
	azs := set.Elevations[bestElev].Azimuths
	if len(azs) == 0 {
		return nil
	}
	bestAz := 0
	bestAzDist := float32(1e9)
	for i, a := range azs {
		d := angleDist32(a.AzimuthDeg, azimuthDeg)
		if d < bestAzDist {
			bestAzDist = d
			bestAz = i
		}
	}
	return &azs[bestAz]
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func angleDist32(a, b float32) float32 {
	d := a - b
	for d > 180 {
		d -= 360
	}
	for d < -180 {
		d += 360
	}
	return abs32(d)
}

// SetTargetDirection updates the crossfade target and restarts the
// blend from 0; MixHrtf advances blend to 1 and promotes target to cur
// once a full block has played through it.
func (h *hrtfVoiceState) SetTargetDirection(p *HrirPoint) {
	if h.curLeft == nil {
		h.curLeft, h.curRight = p, p
	}
	h.targetLeft, h.targetRight = p, p
	h.blend = 0
}

// MixHrtf convolves one mono input block against the current/target
// HRIR pair, crossfading across the block, and adds the result into
// outL/outR (the device's two binaural output channels).
func MixHrtf(h *hrtfVoiceState, in []float32, outL, outR []float32) {
	n := len(in)
	if h.curLeft == nil {
		return
	}
	step := float32(1)
	if n > 0 {
		step = 1.0 / float32(n)
	}
	for i, x := range in {
		h.history[h.historyPos] = x
		h.historyPos = (h.historyPos + 1) % HrtfHistoryLength

		h.blend += step
		if h.blend > 1 {
			h.blend = 1
		}

		l := convolveHrir(&h.history, h.historyPos, &h.curLeft.Left)
		r := convolveHrir(&h.history, h.historyPos, &h.curRight.Right)
		if h.targetLeft != nil && h.targetLeft != h.curLeft {
			tl := convolveHrir(&h.history, h.historyPos, &h.targetLeft.Left)
			tr := convolveHrir(&h.history, h.historyPos, &h.targetRight.Right)
			l = lerp32(l, tl, h.blend)
			r = lerp32(r, tr, h.blend)
		}
		outL[i] += l
		outR[i] += r
	}
	if h.blend >= 1 && h.targetLeft != nil {
		h.curLeft, h.curRight = h.targetLeft, h.targetRight
	}
}

// convolveHrir computes one output sample over all FIR taps against the
// history ring, reading
// backward from writePos (the next slot to be overwritten, i.e. one
// past the most recent sample).
func convolveHrir(hist *[HrtfHistoryLength]float32, writePos int, hrir *[HrirLength]float32) float32 {
	var acc float32
	n := len(hrir)
	for t := 0; t < n; t++ {
		idx := writePos - 1 - t
		for idx < 0 {
			idx += HrtfHistoryLength
		}
		acc += hrir[t] * hist[idx]
	}
	return acc
}

// headRadiusMeters and sofSound are the spherical-head model's
// dimensions, used only to derive the synthetic data set's interaural
// delays and shadowing; a measured set would carry its own.
const (
	headRadiusMeters = 0.0875
	sofSound         = 343.3
)

// NewDefaultHrirSet synthesizes a built-in HRIR data set from a simple
// spherical-head model rather than loading measured impulse responses:
// each direction's interaural time delay comes from the Woodworth
// far-field approximation (delay = r/c * (theta + sin(theta)) for the
// shadowed ear, 0 for the near ear), and each ear's impulse is a
// single-tap delayed impulse low-pass filtered by a one-pole shelf
// whose cutoff narrows with the angle off-axis, approximating the
// head's high-frequency shadowing. It is a coarse stand-in for a
// KEMAR-measured set, good enough to exercise the convolution and
// crossfade path without bundling external HRIR data.
func NewDefaultHrirSet(sampleRate int) *HrirSet {
	set := &HrirSet{SampleRate: sampleRate}
	elevations := []float32{-40, -20, 0, 20, 40, 60, 80}
	for _, elevDeg := range elevations {
		azStep := float32(10)
		if abs32(elevDeg) >= 60 {
			azStep = 30
		}
		var azimuths []HrirPoint
		for azDeg := float32(-180); azDeg < 180; azDeg += azStep {
			azimuths = append(azimuths, buildHrirPoint(sampleRate, azDeg, elevDeg))
		}
		set.Elevations = append(set.Elevations, HrirElevation{ElevationDeg: elevDeg, Azimuths: azimuths})
	}
	return set
}

// buildHrirPoint synthesizes one direction's stereo impulse response.
func buildHrirPoint(sampleRate int, azDeg, elevDeg float32) HrirPoint {
	az := float64(azDeg) * math.Pi / 180
	el := float64(elevDeg) * math.Pi / 180

	// Azimuth of the direction relative to each ear, projected onto the
	// horizontal plane (elevation flattens the effective angle toward
	// the front, per the spherical-head approximation).
	cosEl := math.Cos(el)
	leftAngle := az + math.Pi/2
	rightAngle := az - math.Pi/2

	p := HrirPoint{AzimuthDeg: azDeg}
	delayL := woodworthDelaySamples(leftAngle, cosEl, sampleRate)
	delayR := woodworthDelaySamples(rightAngle, cosEl, sampleRate)
	minDelay := delayL
	if delayR < minDelay {
		minDelay = delayR
	}
	delayL -= minDelay
	delayR -= minDelay
	p.DelayLeft, p.DelayRight = delayL, delayR

	shadowL := headShadowGain(leftAngle, cosEl)
	shadowR := headShadowGain(rightAngle, cosEl)
	writeShadowedImpulse(&p.Left, delayL, shadowL)
	writeShadowedImpulse(&p.Right, delayR, shadowR)
	return p
}

// woodworthDelaySamples applies the Woodworth far-field ITD
// approximation for a spherical head: delay = (r/c)*(theta+sin(theta))
// for the shadowed side, clamped to the near side's zero delay.
func woodworthDelaySamples(angle, cosEl float64, sampleRate int) int {
	theta := angle
	for theta > math.Pi {
		theta -= 2 * math.Pi
	}
	for theta < -math.Pi {
		theta += 2 * math.Pi
	}
	sinT := math.Sin(theta)
	delaySec := (headRadiusMeters / sofSound) * (theta + sinT) * cosEl
	if delaySec < 0 {
		delaySec = 0
	}
	return int(delaySec*float64(sampleRate) + 0.5)
}

// headShadowGain approximates the head's high-frequency shadowing as a
// one-pole low-pass cutoff fraction in [0,1] (1 = no shadowing, facing
// the source; lower = more shadowed, facing away).
func headShadowGain(angle, cosEl float64) float64 {
	theta := angle
	for theta > math.Pi {
		theta -= 2 * math.Pi
	}
	for theta < -math.Pi {
		theta += 2 * math.Pi
	}
	facing := (math.Cos(theta)*cosEl + 1) / 2
	return 0.25 + 0.75*facing
}

// writeShadowedImpulse writes a delayed, one-pole-filtered unit impulse
// into hrir: a single tap at delaySamples, followed by exponential
// decay whose rate is set by shadowGain (lower gain decays faster,
// modeling more high-frequency loss).
func writeShadowedImpulse(hrir *[HrirLength]float32, delaySamples int, shadowGain float64) {
	if delaySamples < 0 {
		delaySamples = 0
	}
	if delaySamples >= HrirLength {
		delaySamples = HrirLength - 1
	}
	decay := 0.3 + 0.6*shadowGain
	amp := shadowGain
	for i := delaySamples; i < HrirLength; i++ {
		hrir[i] = float32(amp)
		amp *= decay
	}
}
