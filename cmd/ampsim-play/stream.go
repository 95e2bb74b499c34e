package main

import (
	"encoding/binary"
	"math"

	"github.com/cwbudde/algo-ampsim/dsp/amp"
	"github.com/tphakala/simd/f32"
)

const bytesPerFrame = 4 * amp.NumChannels

// stream renders engine output on demand as interleaved float32 little
// endian frames. Read is called from the audio goroutine only.
type stream struct {
	engine *amp.Engine
	src    source

	left, right []float32
	frames      []float32
}

func newStream(engine *amp.Engine, src source) *stream {
	n := engine.Spec().MaxBlockSize

	return &stream{
		engine: engine,
		src:    src,
		left:   make([]float32, n),
		right:  make([]float32, n),
		frames: make([]float32, amp.NumChannels*n),
	}
}

// Read fills p with whole frames. A request shorter than one frame is
// answered with silence.
func (s *stream) Read(p []byte) (int, error) {
	total := len(p) / bytesPerFrame
	if total == 0 {
		clear(p)
		return len(p), nil
	}

	block := len(s.left)
	off := 0

	for done := 0; done < total; {
		n := min(block, total-done)
		left, right, frames := s.left[:n], s.right[:n], s.frames[:amp.NumChannels*n]

		s.src.fill(left, right)
		f32.Interleave2(frames, left, right)
		s.engine.ProcessInterleaved(frames)

		for _, v := range frames {
			binary.LittleEndian.PutUint32(p[off:], math.Float32bits(v))
			off += 4
		}

		done += n
	}

	return off, nil
}
