
/*
License: GPLv3 or later
*/
package alcore

import "testing"

func TestNewDeviceClampsInvalidConfig(t *testing.T) {
	cfg := DeviceConfig{SampleRate: 1, UpdateSize: 1024, NumUpdates: 3, OutputLayout: LayoutStereo, MaxAmbiOrder: 1, MaxSources: 4}
	d, err := NewDevice(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Config.SampleRate < 8000 {
		t.Errorf("expected sample rate clamped up, got %d", d.Config.SampleRate)
	}
}

func TestDeviceRenderPlanarSilentWithNoContexts(t *testing.T) {
	cfg := DefaultDeviceConfig()
	cfg.UpdateSize = 64
	d, err := NewDevice(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	out := [][]float32{make([]float32, 64), make([]float32, 64)}
	d.RenderPlanar(out, 64)
	for _, ch := range out {
		for i, v := range ch {
			if v != 0 {
				t.Fatalf("expected silence with no contexts, sample %d = %v", i, v)
			}
		}
	}
}

func TestDeviceRenderSamplesProducesBytes(t *testing.T) {
	cfg := DefaultDeviceConfig()
	cfg.UpdateSize = 32
	backend := NewHeadlessDevice(cfg.SampleRate, 2)
	d, err := NewDevice(cfg, backend)
	if err != nil {
		t.Fatal(err)
	}
	out := make([]byte, 32*2*2)
	if err := d.RenderSamples(out, 32, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.BytesWritten() == 0 {
		t.Error("expected backend to receive bytes")
	}
}

func TestDeviceDisconnectRejectsFurtherRender(t *testing.T) {
	cfg := DefaultDeviceConfig()
	cfg.UpdateSize = 32
	d, err := NewDevice(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	d.Disconnect("hardware removed")
	out := make([]byte, 32*2*2)
	if err := d.RenderSamples(out, 32, 2); err == nil {
		t.Error("expected error after disconnect")
	}
}

func TestDeviceVoiceRendersAudibleSignal(t *testing.T) {
	cfg := DefaultDeviceConfig()
	cfg.UpdateSize = 256
	cfg.MaxSources = 4
	d, err := NewDevice(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctxCfg := DefaultContextConfig()
	ctx := NewContext(ctxCfg, cfg.MaxSources, cfg.UpdateSize)
	d.AttachContext(ctx)
	ctx.PublishListener(DefaultListenerProps())

	data := make([]byte, 512*2)
	for i := 0; i < 512; i++ {
		v := int16(10000)
		if i%2 == 0 {
			v = -v
		}
		data[i*2] = byte(v)
		data[i*2+1] = byte(v >> 8)
	}
	buf := &Buffer{Data: data, Format: FormatI16, NumChans: 1, SampleRate: cfg.SampleRate, FrameCount: 512, LoopStart: 0, LoopEnd: 512}

	v := ctx.AllocateVoice()
	v.QueueBuffer(buf)
	v.PublishProps(DefaultVoiceProps())
	v.SourceID.Store(1)
	ctx.EnqueueVoiceChange(v, VoiceChangePlay)

	out := [][]float32{make([]float32, cfg.UpdateSize), make([]float32, cfg.UpdateSize)}
	d.RenderPlanar(out, cfg.UpdateSize)

	var sawNonzero bool
	for _, ch := range out {
		for _, s := range ch {
			if s != 0 {
				sawNonzero = true
			}
		}
	}
	if !sawNonzero {
		t.Error("expected an audible contribution from the playing voice")
	}
}
