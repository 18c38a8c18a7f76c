// params.go - per-cycle parameter derivation: distance attenuation,
// cone gain, air absorption, doppler pitch, and the direct/send gain
// and filter targets a voice's mix step consumes.

/*
License: GPLv3 or later
*/

package alcore

import "math"

// DistanceGain applies the context's DistanceModel to (distance,
// RefDistance, MaxDistance, RolloffFactor), returning a non-negative
// linear gain multiplier. The result is not clamped to GainMixMax here;
// CalcVoiceParams clamps the combined gain.
func DistanceGain(model DistanceModel, distance, refDistance, maxDistance, rolloff float32) float32 {
	switch model {
	case DistanceDisable:
		return 1
	case DistanceInverse, DistanceInverseClamped:
		d := distance
		if model == DistanceInverseClamped {
			d = clampF32(d, refDistance, maxDistance)
		}
		denom := refDistance + rolloff*(d-refDistance)
		if denom <= 0 {
			return 1
		}
		return refDistance / denom
	case DistanceLinear, DistanceLinearClamped:
		d := distance
		if model == DistanceLinearClamped {
			d = clampF32(d, refDistance, maxDistance)
		}
		span := maxDistance - refDistance
		if span <= 0 {
			return 1
		}
		g := 1 - rolloff*(d-refDistance)/span
		return clampF32(g, 0, 1)
	case DistanceExponent, DistanceExponentClamped:
		d := distance
		if model == DistanceExponentClamped {
			d = clampF32(d, refDistance, maxDistance)
		}
		if refDistance <= 0 || d <= 0 {
			return 1
		}
		return float32(math.Pow(float64(d/refDistance), float64(-rolloff)))
	default:
		return 1
	}
}

// ConeGain derives the directional attenuation for a source with an
// inner/outer cone. angle is the angle in degrees between the
// source's Direction and the vector to the listener.
func ConeGain(angleDeg, innerAngle, outerAngle, outerGain float32) float32 {
	if innerAngle >= 360 {
		return 1
	}
	half := angleDeg
	if half <= innerAngle/2 {
		return 1
	}
	if half >= outerAngle/2 {
		return outerGain
	}
	span := outerAngle/2 - innerAngle/2
	if span <= 0 {
		return outerGain
	}
	t := (half - innerAngle/2) / span
	return 1 + t*(outerGain-1)
}

// AirAbsorptionGainHF returns the high-frequency attenuation factor
// for the given distance and per-meter absorption coefficient, an
// exp(-gainHF * distance) model.
func AirAbsorptionGainHF(distance, gainHFPerMeter float32) float32 {
	if gainHFPerMeter <= 0 {
		return 1
	}
	return float32(math.Exp(float64(-gainHFPerMeter * distance)))
}

// DopplerPitchMultiplier computes the Doppler pitch scale from source
// and listener velocities projected along the line between them.
func DopplerPitchMultiplier(sourceVel, listenerVel, dirToListener [3]float32, dopplerFactor, speedOfSound float32) float32 {
	if dopplerFactor <= 0 || speedOfSound <= 0 {
		return 1
	}
	svProj := dot3(sourceVel, dirToListener)
	lvProj := dot3(listenerVel, dirToListener)

	ss := speedOfSound / dopplerFactor
	if ss-svProj <= 0 {
		svProj = ss - 1
	}
	mult := (ss - lvProj) / (ss - svProj)
	return clampF32(mult, 1.0/MaxPitch, MaxPitch)
}

func dot3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func sub3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func length3(v [3]float32) float32 {
	return float32(math.Sqrt(float64(dot3(v, v))))
}

// VoiceMixParams is everything CalcVoiceParams derives for one cycle,
// consumed by voicemix.go's Voice.mix.
type VoiceMixParams struct {
	PitchStep    ResampleCursor
	Gain         float32 // overall distance x cone x listener gain, before per-channel panning
	DirectGains  [MixerChannelsMax]float32
	DirectFilter BiquadCoeffs
	SendGains    [NumSends][MixerChannelsMax]float32
	SendFilters  [NumSends]BiquadCoeffs
	NfcDistance  float32
	Azimuth, Elevation float64
	Spread       float64
}

// CalcVoiceParams derives a voice's per-cycle mix parameters from its
// current VoiceProps, the listener pose, and the device's output
// layout.
func CalcVoiceParams(v *VoiceProps, listener *ListenerProps, ctxCfg *ContextConfig, layout []SpeakerAngle, mixRate, srcRate int) VoiceMixParams {
	var mp VoiceMixParams

	pos := v.Position
	if v.HeadRelative {
		pos = [3]float32{pos[0] + listener.Position[0], pos[1] + listener.Position[1], pos[2] + listener.Position[2]}
	}
	toSource := sub3(pos, listener.Position)
	distance := length3(toSource)

	distGain := DistanceGain(ctxCfg.DistanceModel, distance, v.RefDistance, v.MaxDistance, v.RolloffFactor)

	coneGain := float32(1)
	if length3(v.Direction) > 1e-6 {
		dirToListener := sub3(listener.Position, pos)
		if length3(dirToListener) > 1e-6 {
			cosAngle := dot3(normalize3(v.Direction), normalize3(dirToListener))
			angleDeg := float32(math.Acos(float64(clampF32(cosAngle, -1, 1)))) * 180 / math.Pi
			coneGain = ConeGain(angleDeg, v.InnerAngle, v.OuterAngle, v.OuterGain)
		}
	}

	gain := clampF32(v.Gain, v.GainRangeMin, maxf32(v.GainRangeMax, v.GainRangeMin)) * distGain * coneGain * listener.Gain
	gain = clampF32(gain, 0, GainMixMax)
	mp.Gain = gain

	azimuth, elevation := 0.0, 0.0
	if distance > 1e-6 {
		dir := normalize3(toSource)
		rel := rotateIntoListenerSpace(dir, listener.Forward, listener.Up)
		azimuth = math.Atan2(float64(-rel[0]), float64(rel[2]))
		elevation = math.Asin(float64(clampF32(rel[1], -1, 1)))
	}
	mp.Azimuth, mp.Elevation = azimuth, elevation
	mp.Spread = float64(v.RadiusMeters) / maxf64(float64(distance), 0.01)

	if v.DirectChannels {
		for i := range mp.DirectGains {
			if i == 0 {
				mp.DirectGains[i] = gain
			}
		}
	} else {
		ComputePanGains(layout, azimuth, elevation, gain, mp.DirectGains[:len(layout)])
	}

	hf := AirAbsorptionGainHF(distance, 0) * v.DirectFilterGainHF
	mp.DirectFilter = HighShelf(0.25, dbFromLinear(hf))

	for s := 0; s < NumSends; s++ {
		sendGain := gain * v.Send[s].Gain
		ComputePanGains(layout, azimuth, elevation, sendGain, mp.SendGains[s][:len(layout)])
		mp.SendFilters[s] = HighShelf(0.25, dbFromLinear(v.Send[s].GainHF))
	}

	pitch := clampF32(v.Pitch, 1.0/MaxPitch, MaxPitch)
	pitch *= DopplerPitchMultiplier(v.Velocity, listener.Velocity, normalize3(sub3(listener.Position, pos)), v.DopplerFactor*ctxCfg.DopplerFactor, ctxCfg.SpeedOfSound)
	effectiveSrcRate := int(float32(srcRate) * pitch)
	if effectiveSrcRate < 1 {
		effectiveSrcRate = 1
	}
	mp.PitchStep = NewResampleCursor(effectiveSrcRate, mixRate)

	mp.NfcDistance = distance

	return mp
}

func maxf64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// rotateIntoListenerSpace expresses dir (world space) in the
// listener's right/up/forward basis.
func rotateIntoListenerSpace(dir, forward, up [3]float32) [3]float32 {
	f := normalize3(forward)
	u := normalize3(up)
	r := normalize3(cross3(f, u))
	u = normalize3(cross3(r, f))
	return [3]float32{dot3(dir, r), dot3(dir, u), dot3(dir, f)}
}

// CalcEffectSlotParams applies a slot's pending properties to its
// effect state via ApplyPendingProps; it does not validate or clamp
// the property values.
func CalcEffectSlotParams(device *Device, slot *EffectSlot, blockSize, mixRate int) {
	ApplyPendingProps(device, slot, blockSize, mixRate)
}

// CalcContextParams re-derives nothing on its own beyond what the
// caller already has in ListenerProps/ContextConfig; it exists as a
// named seam so device.go's cycle can call a consistent set of three
// Calc* functions even though, for this engine, context-level state is
// already flattened into ListenerProps/ContextConfig by the time the
// mixer reads it.
func CalcContextParams(_ *ListenerProps, _ *ContextConfig) {}
