// config.go - device/context configuration structs and their
// Validate() defensive-clamping methods, generalized from the
// teacher's HandleRegisterWrite bounds-checking into a config-object
// shape.

/*
License: GPLv3 or later
*/

package alcore

// DeviceConfig describes how a Device should be opened.
type DeviceConfig struct {
	SampleRate   int
	UpdateSize   int // frames per RenderSamples call the caller commits to
	NumUpdates   int // ring depth on backends that buffer multiple periods
	OutputLayout ChannelLayout
	MaxAmbiOrder int
	PostProcess  PostProcessKind
	ResamplerDefault ResamplerKind
	MaxSources   int
	MaxAuxSends  int
	HrtfPath     string // empty disables HRTF even if PostProcess requests it
}

// DefaultDeviceConfig matches common desktop defaults: 48kHz, 1024
// frame periods, stereo, no HRTF.
func DefaultDeviceConfig() DeviceConfig {
	return DeviceConfig{
		SampleRate:       48000,
		UpdateSize:       BufferLineSize,
		NumUpdates:       3,
		OutputLayout:     LayoutStereo,
		MaxAmbiOrder:     1,
		PostProcess:      PostAmbiDec,
		ResamplerDefault: ResamplerLinear,
		MaxSources:       256,
		MaxAuxSends:      2,
	}
}

// Validate defensively clamps out-of-range fields rather than
// rejecting the whole config outright, matching the teacher's register
// clamping philosophy; each clamp is reported as an EffectError so
// callers can log what was silently adjusted.
func (c *DeviceConfig) Validate() []error {
	var errs []error
	if c.SampleRate < 8000 || c.SampleRate > 192000 {
		v, err := clampRangeF32("SampleRate", float32(c.SampleRate), 8000, 192000)
		c.SampleRate = int(v)
		errs = append(errs, err)
	}
	if c.UpdateSize < 64 {
		errs = append(errs, &EffectError{Kind: OutOfRange, Name: "UpdateSize", Min: 64, Got: float64(c.UpdateSize)})
		c.UpdateSize = 64
	}
	if c.NumUpdates < 2 {
		errs = append(errs, &EffectError{Kind: OutOfRange, Name: "NumUpdates", Min: 2, Got: float64(c.NumUpdates)})
		c.NumUpdates = 2
	}
	if c.MaxAmbiOrder < 1 || c.MaxAmbiOrder > MaxAmbiOrder {
		v, err := clampRangeF32("MaxAmbiOrder", float32(c.MaxAmbiOrder), 1, MaxAmbiOrder)
		c.MaxAmbiOrder = int(v)
		errs = append(errs, err)
	}
	if c.MaxSources < 1 {
		errs = append(errs, &EffectError{Kind: OutOfRange, Name: "MaxSources", Min: 1, Got: float64(c.MaxSources)})
		c.MaxSources = 1
	}
	if c.MaxAuxSends < 0 || c.MaxAuxSends > NumSends {
		v, err := clampRangeF32("MaxAuxSends", float32(c.MaxAuxSends), 0, NumSends)
		c.MaxAuxSends = int(v)
		errs = append(errs, err)
	}
	return errs
}

// ContextConfig holds per-context tuning that CalcContextParams reads.
type ContextConfig struct {
	DistanceModel DistanceModel
	DopplerFactor float32
	SpeedOfSound  float32
}

// DefaultContextConfig matches OpenAL's stated defaults.
func DefaultContextConfig() ContextConfig {
	return ContextConfig{
		DistanceModel: DistanceInverseClamped,
		DopplerFactor: 1,
		SpeedOfSound:  SpeedOfSoundDefault,
	}
}

func (c *ContextConfig) Validate() []error {
	var errs []error
	if c.DopplerFactor < 0 {
		errs = append(errs, &EffectError{Kind: OutOfRange, Name: "DopplerFactor", Min: 0, Got: float64(c.DopplerFactor)})
		c.DopplerFactor = 0
	}
	if c.SpeedOfSound <= 0 {
		errs = append(errs, &EffectError{Kind: InvalidValue, Name: "SpeedOfSound", Got: float64(c.SpeedOfSound)})
		c.SpeedOfSound = SpeedOfSoundDefault
	}
	return errs
}

// DefaultVoiceProps matches OpenAL source defaults.
func DefaultVoiceProps() VoiceProps {
	return VoiceProps{
		Pitch:          1,
		Gain:           1,
		GainRangeMax:   1,
		OuterGainHF:    1,
		RefDistance:    1,
		MaxDistance:    3.4e38,
		RolloffFactor:  1,
		Direction:      [3]float32{0, 0, 0},
		InnerAngle:     360,
		OuterAngle:     360,
		DopplerFactor:  1,
		Spatialize:     true,
		DirectFilterGainHF: 1,
	}
}
