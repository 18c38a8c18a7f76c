
/*
License: GPLv3 or later
*/
package alcore

import "testing"

func TestNewVoiceStartsStopped(t *testing.T) {
	v := NewVoice()
	if v.IsPlaying() {
		t.Error("expected new voice to not be playing")
	}
	if PlayState(v.PlayState.Load()) != Stopped {
		t.Errorf("expected Stopped, got %v", PlayState(v.PlayState.Load()))
	}
}

func TestVoiceQueueBufferAppendsInOrder(t *testing.T) {
	v := NewVoice()
	b1 := &Buffer{FrameCount: 10}
	b2 := &Buffer{FrameCount: 20}
	v.QueueBuffer(b1)
	v.QueueBuffer(b2)

	if v.currentBuffer.buf != b1 {
		t.Fatal("expected first buffer to become current")
	}
	if v.currentBuffer.next.buf != b2 {
		t.Fatal("expected second buffer queued after first")
	}
}

func TestVoiceResetQueueClearsState(t *testing.T) {
	v := NewVoice()
	v.QueueBuffer(&Buffer{FrameCount: 10})
	v.Offset = 42
	v.ResetQueue()
	if v.bufferQueue != nil || v.currentBuffer != nil {
		t.Error("expected queue cleared")
	}
	if v.Offset != 0 {
		t.Errorf("expected offset reset, got %d", v.Offset)
	}
}

func TestVoicePublishAndTakeProps(t *testing.T) {
	v := NewVoice()
	p := DefaultVoiceProps()
	p.Gain = 0.5
	v.PublishProps(p)
	if !v.takeProps() {
		t.Fatal("expected a pending snapshot")
	}
	if v.cur.Gain != 0.5 {
		t.Errorf("expected gain 0.5, got %v", v.cur.Gain)
	}
	if v.takeProps() {
		t.Error("expected no further pending snapshot")
	}
}

func TestFillSourceWindowStopsAtBufferEnd(t *testing.T) {
	v := NewVoice()
	data := make([]byte, 8*2) // 8 mono i16 frames
	for i := 0; i < 8; i++ {
		data[i*2] = byte(i)
	}
	buf := &Buffer{Data: data, Format: FormatI16, NumChans: 1, FrameCount: 8, LoopStart: -1}
	v.QueueBuffer(buf)

	dst := [][]float32{make([]float32, 20)}
	got := fillSourceWindow(v, dst, 20)
	if got != 8 {
		t.Errorf("expected 8 frames produced before running dry, got %d", got)
	}
}

func TestFillSourceWindowLoops(t *testing.T) {
	v := NewVoice()
	data := make([]byte, 4*2)
	buf := &Buffer{Data: data, Format: FormatI16, NumChans: 1, FrameCount: 4, LoopStart: 0, LoopEnd: 4}
	v.QueueBuffer(buf)

	dst := [][]float32{make([]float32, 10)}
	got := fillSourceWindow(v, dst, 10)
	if got != 10 {
		t.Errorf("expected looping buffer to fully satisfy request, got %d", got)
	}
}
