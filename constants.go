// constants.go - fixed engine-wide constants for the mix core
//
// License: GPLv3 or later (retained from the teacher module this engine
// was developed from; see DESIGN.md)

package alcore

import "math"

const (
	// BufferLineSize is the maximum number of samples processed per
	// device render block.
	BufferLineSize = 1024

	// MixerChannelsMax bounds the ambisonic channel count a device's
	// Dry mix can carry (3rd order 3D = 16 channels).
	MixerChannelsMax = 16

	// MixerFracBits is the fractional precision of a voice's resample
	// cursor; MixerFracOne is 1.0 in that fixed-point representation.
	MixerFracBits = 16
	MixerFracOne  = 1 << MixerFracBits
	MixerFracMask = MixerFracOne - 1

	// MaxResamplerPadding/Edge bound how much history a resampler may
	// need before/after the samples it is about to produce.
	MaxResamplerEdge    = 4
	MaxResamplerPadding = MaxResamplerEdge * 2

	// NumSends is the number of auxiliary effect-slot sends a voice may
	// route to simultaneously.
	NumSends = 4

	// HrtfHistoryLength is the ring length (in samples) kept per ear for
	// HRTF convolution history.
	HrtfHistoryLength = 128
	HrirLength        = 128

	// MaxAmbiOrder is the highest ambisonic order a device may decode.
	MaxAmbiOrder = 3

	// GainMixMax upper-bounds any computed linear gain to avoid runaway
	// feedback loops between effect slots.
	GainMixMax = 1000.0

	// MaxPitch bounds the pitch multiplier applied by Doppler before it
	// is converted to a fixed-point resample step.
	MaxPitch = 10.0

	// SpeedOfSoundDefault matches the OpenAL default (343.3 m/s).
	SpeedOfSoundDefault = 343.3

	dithRTPDGain = 1.0 / 2147483648.0
)

// TwoPi is used throughout the DSP code for phase wrapping.
const TwoPi = 2 * math.Pi

// PlayState is a voice's atomically published lifecycle state.
type PlayState int32

const (
	Stopped PlayState = iota
	Playing
	Stopping
	Pending
)

func (s PlayState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Stopping:
		return "stopping"
	case Pending:
		return "pending"
	default:
		return "unknown"
	}
}

// DistanceModel selects the attenuation curve used by CalcVoiceParams.
type DistanceModel int

const (
	DistanceInverse DistanceModel = iota
	DistanceInverseClamped
	DistanceLinear
	DistanceLinearClamped
	DistanceExponent
	DistanceExponentClamped
	DistanceDisable
)

// PostProcessKind selects the device's final decode stage.
type PostProcessKind int

const (
	PostAmbiDec PostProcessKind = iota
	PostHrtf
	PostUhj
	PostBs2b
	PostStabilizer
	PostTsme
)
