// pan.go - fixed-speaker panning and direction-to-ambisonic coefficient
// math.

/*
License: GPLv3 or later
*/

package alcore

import "math"

// SpeakerAngle is a fixed output channel's horizontal position, in
// radians, 0 = front, positive = counter-clockwise (left).
type SpeakerAngle struct {
	Azimuth   float64
	Elevation float64
}

var monoLayout = []SpeakerAngle{{0, 0}}
var stereoLayout = []SpeakerAngle{{math.Pi / 6, 0}, {-math.Pi / 6, 0}}
var quadLayout = []SpeakerAngle{
	{math.Pi / 4, 0}, {-math.Pi / 4, 0},
	{3 * math.Pi / 4, 0}, {-3 * math.Pi / 4, 0},
}
var layout51 = []SpeakerAngle{
	{math.Pi / 6, 0}, {-math.Pi / 6, 0}, {0, 0}, {0, 0}, // LFE placeholder
	{110 * math.Pi / 180, 0}, {-110 * math.Pi / 180, 0},
}

// SpeakerLayoutAngles returns the fixed azimuth/elevation table for a
// non-ambisonic ChannelLayout.
func SpeakerLayoutAngles(layout ChannelLayout) []SpeakerAngle {
	switch layout {
	case LayoutMono:
		return monoLayout
	case LayoutStereo:
		return stereoLayout
	case LayoutQuad, LayoutRear:
		return quadLayout
	case Layout51, Layout61, Layout71:
		return layout51
	default:
		return monoLayout
	}
}

// ambiDirectionCoeffs returns first-order spherical-harmonic (ACN
// order) coefficients {W, Y, Z, X} for a direction given by azimuth
// (radians, CCW from front) and elevation (radians, up positive).
// Y/Z/X are at SN3D unit scale; W is fixed at 1/sqrt(2) rather than
// SN3D's 1.
func ambiDirectionCoeffs(azimuth, elevation float64) [4]float32 {
	ce := math.Cos(elevation)
	x := math.Cos(azimuth) * ce
	y := math.Sin(azimuth) * ce
	z := math.Sin(elevation)
	const sqrt1_2 = 0.7071067811865476
	return [4]float32{
		float32(sqrt1_2),
		float32(y),
		float32(z),
		float32(x),
	}
}

// ComputePanGains projects a direction's first-order ambisonic
// coefficients onto a fixed speaker layout's per-channel gains: the
// first-order spherical harmonics of the direction, multiplied by each
// speaker's output mix.
func ComputePanGains(layout []SpeakerAngle, azimuth, elevation float64, gain float32, out []float32) {
	src := ambiDirectionCoeffs(azimuth, elevation)
	for i, spk := range layout {
		if i >= len(out) {
			break
		}
		spkCoeffs := ambiDirectionCoeffs(spk.Azimuth, spk.Elevation)
		dot := src[0]*spkCoeffs[0] + src[1]*spkCoeffs[1] + src[2]*spkCoeffs[2] + src[3]*spkCoeffs[3]
		if dot < 0 {
			dot = 0
		}
		out[i] = dot * gain
	}
}

// frontStretchAzimuth widens azimuths inside +/-30deg to +/-90deg for
// stereo-pair outputs.
func frontStretchAzimuth(az float64) float64 {
	const inner = math.Pi / 6
	const outer = math.Pi / 2
	a := math.Abs(az)
	if a > inner {
		return az
	}
	sign := 1.0
	if az < 0 {
		sign = -1.0
	}
	return sign * (a / inner) * outer
}

// warpTowardSource blends between the source direction (spread 0) and
// a channel's natural pan angle, moving toward the natural angle as
// spread grows and reaching it at spread >= pi/2.
func warpTowardSource(naturalAz, sourceAz, spread float64) float64 {
	a := 1 - (2/math.Pi)*spread
	if a < 0 {
		a = 0
	}
	return a*sourceAz + (1-a)*naturalAz
}
