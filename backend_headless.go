// backend_headless.go - a RenderDevice that discards output, used for
// CI/test environments with no audio hardware.

/*
License: GPLv3 or later
*/

package alcore

// headlessDevice accepts and discards rendered audio, tracking how
// many bytes it would have played for test assertions.
type headlessDevice struct {
	sampleRate int
	channels   int
	written    uint64
}

// NewHeadlessDevice builds a RenderDevice that never blocks and never
// produces sound, matching the teacher's headless fallback for
// environments without an audio device.
func NewHeadlessDevice(sampleRate, channels int) *headlessDevice {
	return &headlessDevice{sampleRate: sampleRate, channels: channels}
}

func (d *headlessDevice) Write(out []byte) error {
	d.written += uint64(len(out))
	return nil
}

func (d *headlessDevice) SampleRate() int { return d.sampleRate }
func (d *headlessDevice) Channels() int   { return d.channels }
func (d *headlessDevice) Close() error    { return nil }

// BytesWritten reports the cumulative byte count accepted so far,
// useful for tests that drive RenderSamples directly.
func (d *headlessDevice) BytesWritten() uint64 { return d.written }
