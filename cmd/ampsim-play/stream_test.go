package main

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cwbudde/algo-ampsim/dsp/amp"
	"github.com/cwbudde/algo-ampsim/dsp/core"
	"github.com/cwbudde/algo-ampsim/dsp/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func preparedEngine(t *testing.T, block int) *amp.Engine {
	t.Helper()

	engine, err := amp.New()
	require.NoError(t, err)
	require.NoError(t, engine.Prepare(core.NewSpec(
		core.WithSampleRate(48000),
		core.WithMaxBlockSize(block),
		core.WithChannels(amp.NumChannels),
	)))

	return engine
}

func decodeFrames(p []byte) []float32 {
	out := make([]float32, len(p)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(p[4*i:]))
	}

	return out
}

func TestStreamMatchesInterleavedProcessing(t *testing.T) {
	const frames = 300

	s := newStream(preparedEngine(t, 64), newToneSource(440, 48000, 0.5))

	p := make([]byte, frames*bytesPerFrame)
	n, err := s.Read(p)
	require.NoError(t, err)
	require.Equal(t, len(p), n)

	want := make([]float32, amp.NumChannels*frames)
	left, right := make([]float32, frames), make([]float32, frames)
	newToneSource(440, 48000, 0.5).fill(left, right)

	for i := range frames {
		want[2*i], want[2*i+1] = left[i], right[i]
	}

	preparedEngine(t, 64).ProcessInterleaved(want)

	got := decodeFrames(p)
	for i := range want {
		require.InDelta(t, want[i], got[i], 1e-6, "sample %d", i)
	}
}

func TestStreamPartialFrames(t *testing.T) {
	s := newStream(preparedEngine(t, 32), newToneSource(100, 48000, 0.5))

	p := make([]byte, 3*bytesPerFrame+5)
	n, err := s.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 3*bytesPerFrame, n)

	tiny := []byte{1, 2, 3}
	n, err = s.Read(tiny)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte{0, 0, 0}, tiny)
}

func TestLoopSourceWraps(t *testing.T) {
	resp, err := ir.New(48000, []float64{1, 2, 3})
	require.NoError(t, err)

	src, err := newLoopSource(resp, 0.5)
	require.NoError(t, err)

	left, right := make([]float32, 7), make([]float32, 7)
	src.fill(left, right)

	assert.Equal(t, []float32{0.5, 1, 1.5, 0.5, 1, 1.5, 0.5}, left)
	assert.Equal(t, left, right)
}

func TestSweepSourceIsBounded(t *testing.T) {
	src, err := newSweepSource(8000, 0.5, 0.25)
	require.NoError(t, err)
	assert.Len(t, src.left, 4000+8000)

	left, right := make([]float32, 12500), make([]float32, 12500)
	src.fill(left, right)

	for i, v := range left {
		require.LessOrEqual(t, math.Abs(float64(v)), 0.25+1e-6, "sample %d", i)
	}
}

func TestOpenSourceRejectsUnknownSignal(t *testing.T) {
	_, _, err := openSource(options{signal: "noise", rate: 48000})
	require.Error(t, err)
}
