package main

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tphakala/simd/f64"
)

const wavFormatPCM = 1

// writeWAV writes one or two planar channels as an integer PCM WAV file.
// Samples are clipped to [-1, 1].
func writeWAV(path string, sampleRate, bitDepth int, channels ...[]float64) error {
	if len(channels) == 0 || len(channels) > 2 {
		return fmt.Errorf("write %s: unsupported channel count %d", path, len(channels))
	}

	switch bitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("write %s: unsupported bit depth %d", path, bitDepth)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	enc := wav.NewEncoder(f, sampleRate, bitDepth, len(channels), wavFormatPCM)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: len(channels), SampleRate: sampleRate},
		Data:           quantize(interleave(channels), bitDepth),
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize %s: %w", path, err)
	}

	return f.Close()
}

func interleave(channels [][]float64) []float64 {
	if len(channels) == 1 {
		return channels[0]
	}

	left, right := channels[0], channels[1]
	n := min(len(left), len(right))
	out := make([]float64, 2*n)
	f64.Interleave2(out, left[:n], right[:n])

	return out
}

func quantize(samples []float64, bitDepth int) []int {
	scale := math.Ldexp(1, bitDepth-1) - 1
	out := make([]int, len(samples))

	for i, v := range samples {
		if math.IsNaN(v) {
			continue
		}

		v = min(max(v, -1), 1)
		out[i] = int(math.Round(v * scale))
	}

	return out
}
