// bufferqueue.go - decodes and advances a voice's queued buffers into
// a flat resample-ready scratch window.

/*
License: GPLv3 or later
*/

package alcore

// fillSourceWindow decodes up to want frames of source-rate samples
// from the voice's current buffer position (and any subsequent queued
// buffers, for gapless looping/streaming), writing interleaved-then-
// deinterleaved float32 per channel into dst[chan]. Returns the number
// of frames actually produced; fewer than want means the queue ran dry.
func fillSourceWindow(v *Voice, dst [][]float32, want int) int {
	produced := 0
	for produced < want {
		item := v.currentBuffer
		if item == nil {
			break
		}
		buf := item.buf

		if buf.Callback != nil {
			n := fillFromCallback(buf, dst, produced, want-produced)
			if n == 0 {
				v.currentBuffer = item.next
				continue
			}
			produced += n
			continue
		}

		remaining := buf.FrameCount - item.frameIndex
		if remaining <= 0 {
			if buf.Looping() {
				item.frameIndex = buf.LoopStart
				remaining = buf.FrameCount - item.frameIndex
			} else {
				v.currentBuffer = item.next
				continue
			}
		}

		chunk := want - produced
		if chunk > remaining {
			chunk = remaining
		}
		if buf.Looping() && item.frameIndex+chunk > buf.LoopEnd {
			chunk = buf.LoopEnd - item.frameIndex
		}
		if chunk <= 0 {
			v.currentBuffer = item.next
			continue
		}

		decodeBufferRange(buf, item.frameIndex, chunk, dst, produced)
		item.frameIndex += chunk
		v.Offset += uint64(chunk)
		produced += chunk

		if buf.Looping() && item.frameIndex >= buf.LoopEnd {
			item.frameIndex = buf.LoopStart
		}
	}
	return produced
}

// decodeBufferRange decodes [start, start+count) frames of buf into
// dst[chan][dstOffset:dstOffset+count]. ADPCM formats (IMA4,
// MS-ADPCM) are treated as single-channel, matching how these codecs
// are used in practice; multi-channel ADPCM buffers are not supported.
func decodeBufferRange(buf *Buffer, start, count int, dst [][]float32, dstOffset int) {
	switch buf.Format {
	case FormatIMA4:
		decodeBlockedRange(buf, start, count, dst[0], dstOffset, ima4BlockSamples, decodeIMA4Block)
		return
	case FormatMSADPCM:
		decodeBlockedRange(buf, start, count, dst[0], dstOffset, msAdpcmBlockSamples, decodeMSADPCMBlock)
		return
	}

	chans := buf.NumChans
	stride := buf.BytesPerFrame()
	frame := make([]float32, chans)
	for i := 0; i < count; i++ {
		frameStart := (start + i) * stride
		decodePCMFrame(buf.Data, buf.Format, chans, frameStart, frame)
		for c := 0; c < chans; c++ {
			dst[c][dstOffset+i] = frame[c]
		}
	}
}

// decodeBlockedRange handles the ADPCM codecs' block-oriented layout:
// it decodes whole blocks into a scratch buffer and copies out the
// requested frame window, since IMA4/MS-ADPCM blocks cannot be
// randomly addressed mid-block.
func decodeBlockedRange(buf *Buffer, start, count int, dst []float32, dstOffset int,
	samplesPerBlock func(int) int, decodeBlock func([]byte, []float32)) {

	blockBytes := buf.BlockAlign
	perBlock := samplesPerBlock(blockBytes)
	if perBlock <= 0 || blockBytes <= 0 {
		return
	}

	produced := 0
	frame := start
	for produced < count {
		blockIdx := frame / perBlock
		offsetInBlock := frame % perBlock
		blockOff := blockIdx * blockBytes
		if blockOff+blockBytes > len(buf.Data) {
			break
		}
		scratch := make([]float32, perBlock)
		decodeBlock(buf.Data[blockOff:blockOff+blockBytes], scratch)

		avail := perBlock - offsetInBlock
		n := count - produced
		if n > avail {
			n = avail
		}
		copy(dst[dstOffset+produced:dstOffset+produced+n], scratch[offsetInBlock:offsetInBlock+n])
		produced += n
		frame += n
	}
}

// fillFromCallback pulls raw bytes from a SampleCallback source and
// decodes them into dst; used for procedural/streaming buffers.
func fillFromCallback(buf *Buffer, dst [][]float32, dstOffset, want int) int {
	stride := buf.BytesPerFrame()
	if stride == 0 {
		return 0
	}
	raw := make([]byte, want*stride)
	n := buf.Callback.Fill(raw)
	if n <= 0 {
		return 0
	}
	frames := int(n) / stride
	frame := make([]float32, buf.NumChans)
	for i := 0; i < frames; i++ {
		frameStart := i * stride
		decodePCMFrame(raw, buf.Format, buf.NumChans, frameStart, frame)
		for c := 0; c < buf.NumChans; c++ {
			dst[c][dstOffset+i] = frame[c]
		}
	}
	return frames
}
