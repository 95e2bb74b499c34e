package main

import (
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-ampsim/dsp/amp"
	"github.com/cwbudde/algo-ampsim/dsp/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagName(t *testing.T) {
	assert.Equal(t, "peak-gain", flagName(amp.IDPeakGain))
	assert.Equal(t, "highcut-slope", flagName(amp.IDHighCutSlope))
}

func TestParseParamValue(t *testing.T) {
	gain, _ := amp.LookupParam(amp.IDPeakGain)
	v, err := parseParamValue(gain, " 6.5 ")
	require.NoError(t, err)
	assert.InDelta(t, 6.5, v, 0)

	_, err = parseParamValue(gain, "loud")
	require.Error(t, err)

	slope, _ := amp.LookupParam(amp.IDLowCutSlope)

	for in, want := range map[string]amp.Slope{
		"12":        amp.Slope12,
		"24dB":      amp.Slope24,
		"36 db/oct": amp.Slope36,
		"48":        amp.Slope48,
	} {
		v, err := parseParamValue(slope, in)
		require.NoError(t, err, in)
		assert.InDelta(t, float64(want), v, 0, in)
	}

	_, err = parseParamValue(slope, "30")
	require.ErrorIs(t, err, amp.ErrInvalidSlope)
}

func TestApplyPreset(t *testing.T) {
	store := amp.NewParamStore()

	err := applyPreset([]byte(`{
		"Peak Freq": 1000,
		"Peak Gain": 6,
		"LowCut Slope": 48,
		"HighCut Slope": "24 db/Oct"
	}`), store)
	require.NoError(t, err)

	p := store.Snapshot()
	assert.InDelta(t, 1000, p.PeakFreq, 0)
	assert.InDelta(t, 6, p.PeakGainDB, 0)
	assert.Equal(t, amp.Slope48, p.LowCutSlope)
	assert.Equal(t, amp.Slope24, p.HighCutSlope)
	assert.InDelta(t, 20, p.LowCutFreq, 0)
}

func TestApplyPresetErrors(t *testing.T) {
	store := amp.NewParamStore()

	require.ErrorIs(t, applyPreset([]byte(`{"Volume": 3}`), store), amp.ErrUnknownParameter)
	require.ErrorIs(t, applyPreset([]byte(`{"LowCut Slope": 18}`), store), amp.ErrInvalidSlope)
	require.Error(t, applyPreset([]byte(`{"Peak Gain": true}`), store))
	require.Error(t, applyPreset([]byte(`[1, 2]`), store))
}

func TestWriteWAVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	left := []float64{0, 0.5, -0.5, 1, 2}
	right := []float64{0.25, -0.25, 0, -1, -2}

	require.NoError(t, writeWAV(path, 44100, 16, left, right))

	resp, err := ir.LoadWAV(path, ir.WithMaxLength(0), ir.WithNormalize(false))
	require.NoError(t, err)
	require.Equal(t, 2, resp.NumChannels())
	assert.InDelta(t, 44100, resp.SampleRate, 0)

	const tol = 1.0 / 16384

	wantLeft := []float64{0, 0.5, -0.5, 1, 1}
	wantRight := []float64{0.25, -0.25, 0, -1, -1}

	for i := range wantLeft {
		assert.InDelta(t, wantLeft[i], resp.Channel(0)[i], tol, "left %d", i)
		assert.InDelta(t, wantRight[i], resp.Channel(1)[i], tol, "right %d", i)
	}
}

func TestWriteWAVRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	require.Error(t, writeWAV(filepath.Join(dir, "a.wav"), 48000, 16))
	require.Error(t, writeWAV(filepath.Join(dir, "b.wav"), 48000, 12, []float64{0}))
}

func TestRunSweepWithImpulseResponse(t *testing.T) {
	dir := t.TempDir()

	opts := options{
		output:        filepath.Join(dir, "sweep.wav"),
		irOutput:      filepath.Join(dir, "ir.wav"),
		blockSize:     256,
		bitDepth:      24,
		sampleRate:    8000,
		sweepDuration: 0.25,
		irLength:      256,
		overrides:     map[string]float64{amp.IDPeakGain: 6},
	}

	require.NoError(t, run(opts))

	out, err := ir.LoadWAV(opts.output, ir.WithMaxLength(0), ir.WithNormalize(false))
	require.NoError(t, err)
	assert.Equal(t, 2, out.NumChannels())
	assert.Equal(t, 2000, out.Len())

	resp, err := ir.LoadWAV(opts.irOutput, ir.WithMaxLength(0), ir.WithNormalize(false))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.NumChannels())
	assert.Equal(t, 256, resp.Len())
}

func TestRunValidatesOptions(t *testing.T) {
	require.Error(t, run(options{}))
	require.Error(t, run(options{output: "x.wav", irOutput: "ir.wav", input: "in.wav"}))
}
