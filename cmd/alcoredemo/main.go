// Command alcoredemo drives the alcore mixer headlessly and writes the
// result to a WAV file, for exercising the render path without a live
// audio device.

/*
License: GPLv3 or later
*/
package main

import (
	"fmt"
	"math"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/go-openal/alcore"
)

func boilerPlate() string {
	return "alcoredemo - alcore render smoke test\n" +
		"  renders a synthesized tone through the mixer and writes a WAV file\n"
}

func main() {
	out := flag.StringP("out", "o", "alcoredemo.wav", "output WAV path")
	seconds := flag.Float64P("seconds", "s", 2.0, "duration to render")
	sampleRate := flag.IntP("rate", "r", 48000, "sample rate")
	freq := flag.Float64P("freq", "f", 440.0, "tone frequency in Hz")
	verbose := flag.BoolP("verbose", "v", false, "log each render block")
	flag.Parse()

	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprint(os.Stderr, boilerPlate())
	}

	if *verbose {
		l := charmlog.NewWithOptions(os.Stderr, charmlog.Options{Prefix: "alcoredemo", Level: charmlog.DebugLevel})
		alcore.SetLogger(l)
	}

	cfg := alcore.DefaultDeviceConfig()
	cfg.SampleRate = *sampleRate
	headless := alcore.NewHeadlessDevice(*sampleRate, 2)
	device, err := alcore.NewDevice(cfg, headless)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open device:", err)
		os.Exit(1)
	}

	ctxCfg := alcore.DefaultContextConfig()
	ctx := alcore.NewContext(ctxCfg, cfg.MaxSources, cfg.UpdateSize)
	device.AttachContext(ctx)
	ctx.PublishListener(alcore.DefaultListenerProps())

	buf := makeToneBuffer(*sampleRate, *freq, *seconds)
	voice := ctx.AllocateVoice()
	if voice == nil {
		fmt.Fprintln(os.Stderr, "no free voice")
		os.Exit(1)
	}
	voice.QueueBuffer(buf)
	props := alcore.DefaultVoiceProps()
	props.Position = [3]float32{0, 0, -1}
	voice.PublishProps(props)
	voice.SourceID.Store(1)
	ctx.EnqueueVoiceChange(voice, alcore.VoiceChangePlay)

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintln(os.Stderr, "create output:", err)
		os.Exit(1)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, *sampleRate, 16, 2, 1)
	defer enc.Close()

	totalFrames := int(*seconds * float64(*sampleRate))
	block := cfg.UpdateSize
	planar := make([][]float32, 2)
	for i := range planar {
		planar[i] = make([]float32, block)
	}
	pcmBuf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: 2, SampleRate: *sampleRate},
		Data:   make([]int, block*2),
	}

	for rendered := 0; rendered < totalFrames; rendered += block {
		n := block
		if rendered+n > totalFrames {
			n = totalFrames - rendered
		}
		device.RenderPlanar(planar, n)
		if *verbose {
			fmt.Fprintf(os.Stderr, "rendered %d/%d frames\n", rendered+n, totalFrames)
		}
		for i := 0; i < n; i++ {
			l := int(planar[0][i] * 32767)
			r := int(planar[1][i] * 32767)
			pcmBuf.Data[i*2] = l
			pcmBuf.Data[i*2+1] = r
		}
		if err := enc.Write(&audio.IntBuffer{Format: pcmBuf.Format, Data: pcmBuf.Data[:n*2]}); err != nil {
			fmt.Fprintln(os.Stderr, "write wav:", err)
			os.Exit(1)
		}
	}

	fmt.Printf("wrote %s (%d frames at %dHz)\n", *out, totalFrames, *sampleRate)
}

// makeToneBuffer synthesizes a mono sine-tone Buffer at the given
// frequency for use as a self-contained demo source.
func makeToneBuffer(sampleRate int, freq, seconds float64) *alcore.Buffer {
	frames := int(seconds * float64(sampleRate))
	data := make([]byte, frames*2)
	for i := 0; i < frames; i++ {
		phase := 2 * 3.14159265 * freq * float64(i) / float64(sampleRate)
		v := int16(sine(phase) * 20000)
		data[i*2] = byte(v)
		data[i*2+1] = byte(v >> 8)
	}
	return &alcore.Buffer{
		Data:       data,
		Format:     alcore.FormatI16,
		Layout:     alcore.LayoutMono,
		SampleRate: sampleRate,
		NumChans:   1,
		FrameCount: frames,
		LoopStart:  0,
		LoopEnd:    frames,
	}
}

func sine(x float64) float64 {
	return math.Sin(x)
}
