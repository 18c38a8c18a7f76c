// backend_oto.go - the default cross-platform RenderDevice, built on
// ebitengine/oto/v3, the teacher's audio_backend_oto.go own backend
// choice. A Device writes finished interleaved int16 frames into an
// io.Pipe that oto's Player streams from.

/*
License: GPLv3 or later
*/

//go:build !headless

package alcore

import (
	"io"

	"github.com/ebitengine/oto/v3"
)

// otoDevice adapts oto's push-a-reader model to RenderDevice's
// push-a-buffer model via an in-process pipe, the same adapter shape
// the teacher used to bridge its chip's pull-based mixer to oto.
type otoDevice struct {
	ctx        *oto.Context
	player     *oto.Player
	pw         *io.PipeWriter
	sampleRate int
	channels   int
}

// NewOtoDevice opens an oto context at the requested rate/channels and
// starts playback of a feeder pipe, returning a RenderDevice ready for
// Device to drive.
func NewOtoDevice(sampleRate, channels int) (*otoDevice, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	pr, pw := io.Pipe()
	player := ctx.NewPlayer(pr)
	player.Play()

	return &otoDevice{ctx: ctx, player: player, pw: pw, sampleRate: sampleRate, channels: channels}, nil
}

func (d *otoDevice) Write(out []byte) error {
	_, err := d.pw.Write(out)
	return err
}

func (d *otoDevice) SampleRate() int { return d.sampleRate }
func (d *otoDevice) Channels() int   { return d.channels }

func (d *otoDevice) Close() error {
	d.player.Close()
	return d.pw.Close()
}
