// buffer.go - immutable sample storage shared between the publishing
// thread and the mixer.

/*
License: GPLv3 or later
*/

package alcore

// SampleFormat identifies the on-disk encoding of a Buffer's raw bytes.
type SampleFormat int

const (
	FormatU8 SampleFormat = iota
	FormatI16
	FormatI32
	FormatF32
	FormatF64
	FormatMuLaw
	FormatALaw
	FormatIMA4
	FormatMSADPCM
)

// ChannelLayout identifies how a Buffer's channels map to speakers or
// ambisonic components.
type ChannelLayout int

const (
	LayoutMono ChannelLayout = iota
	LayoutStereo
	LayoutRear
	LayoutQuad
	Layout51
	Layout61
	Layout71
	LayoutBFormat2D
	LayoutBFormat3D
)

// AmbiScaling selects the normalization convention used by an ambisonic
// buffer's channels (SN3D/N3D/FuMa).
type AmbiScaling int

const (
	AmbiScaleNone AmbiScaling = iota
	AmbiScaleSN3D
	AmbiScaleN3D
	AmbiScaleFuMa
)

// Buffer is an immutable, reference-counted sample store. Once created
// it is never mutated; the mixer holds a strong reference through the
// voice that is playing it.
type Buffer struct {
	Data       []byte
	Format     SampleFormat
	Layout     ChannelLayout
	SampleRate int
	NumChans   int
	FrameCount int // total decodable frames, independent of byte layout

	AmbiOrder   int
	AmbiScaling AmbiScaling

	LoopStart int // inclusive frame index, -1 if not looped
	LoopEnd   int // exclusive frame index

	BlockAlign int // ADPCM formats only: compressed block size in bytes

	// Callback, if non-nil, is consulted instead of Data: the buffer is
	// a coroutine-style streaming source.
	Callback SampleCallback
}

// SampleCallback is the trait a streaming/procedural source implements.
// Fill must write into dest and return the number of bytes written;
// fewer than len(dest) signals end-of-stream, negative signals error.
type SampleCallback interface {
	Fill(dest []byte) int32
}

// Looping reports whether the buffer has a valid, non-empty loop range.
// loopEnd <= loopStart defensively means "no loop".
func (b *Buffer) Looping() bool {
	return b.LoopStart >= 0 && b.LoopEnd > b.LoopStart
}

// BytesPerFrame returns the byte stride of one frame across all
// channels for fixed-size PCM formats; ADPCM formats are block-based
// and return 0 (callers must use the codec's own block math).
func (b *Buffer) BytesPerFrame() int {
	switch b.Format {
	case FormatU8, FormatMuLaw, FormatALaw:
		return b.NumChans
	case FormatI16:
		return 2 * b.NumChans
	case FormatI32, FormatF32:
		return 4 * b.NumChans
	case FormatF64:
		return 8 * b.NumChans
	default:
		return 0
	}
}
