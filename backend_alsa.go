// backend_alsa.go - ALSA RenderDevice stub.
//
// The teacher's audio_backend_alsa.go wired ALSA through cgo
// (snd_pcm_open/writei). Reproducing that cgo surface is out of scope
// here: this file documents the adapter shape a real ALSA backend
// would fill in, so RenderDevice has a named non-oto implementation
// path, without vendoring a fake ALSA binding (see DESIGN.md).

/*
License: GPLv3 or later
*/

//go:build linux && alsa

package alcore

import "fmt"

// alsaDevice would wrap an opened ALSA PCM handle; left unimplemented
// because the cgo bindings the teacher used are not part of any
// example module's dependency graph.
type alsaDevice struct {
	sampleRate int
	channels   int
}

// NewAlsaDevice always fails: build with the alsa tag only once a real
// cgo ALSA binding is vendored.
func NewAlsaDevice(sampleRate, channels int) (*alsaDevice, error) {
	return nil, fmt.Errorf("alcore: alsa backend not implemented, use oto or headless")
}

func (d *alsaDevice) Write(out []byte) error { return fmt.Errorf("alcore: alsa backend not implemented") }
func (d *alsaDevice) SampleRate() int        { return d.sampleRate }
func (d *alsaDevice) Channels() int          { return d.channels }
func (d *alsaDevice) Close() error           { return nil }
