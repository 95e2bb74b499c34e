package main

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-ampsim/dsp/ir"
	"github.com/cwbudde/algo-ampsim/measure/sweep"
)

// source produces the dry signal fed to the engine.
type source interface {
	fill(left, right []float32)
}

type toneSource struct {
	phase float64
	inc   float64
	level float64
}

func newToneSource(freq, sampleRate, level float64) *toneSource {
	return &toneSource{inc: 2 * math.Pi * freq / sampleRate, level: level}
}

func (s *toneSource) fill(left, right []float32) {
	for i := range left {
		v := float32(s.level * math.Sin(s.phase))
		left[i], right[i] = v, v

		s.phase += s.inc
		if s.phase >= 2*math.Pi {
			s.phase -= 2 * math.Pi
		}
	}
}

// loopSource repeats a stereo recording. A mono recording feeds both sides.
type loopSource struct {
	left, right []float64
	level       float64
	pos         int
}

var errEmptySource = errors.New("source has no samples")

func newLoopSource(resp *ir.Response, level float64) (*loopSource, error) {
	if resp.Len() == 0 {
		return nil, errEmptySource
	}

	left, right := resp.Channel(0), resp.Channel(1)
	n := min(len(left), len(right))

	return &loopSource{left: left[:n], right: right[:n], level: level}, nil
}

func (s *loopSource) fill(left, right []float32) {
	for i := range left {
		left[i] = float32(s.level * s.left[s.pos])
		right[i] = float32(s.level * s.right[s.pos])

		s.pos++
		if s.pos == len(s.left) {
			s.pos = 0
		}
	}
}

// newSweepSource loops a log sweep followed by a second of silence.
func newSweepSource(sampleRate, duration, level float64) (*loopSource, error) {
	sw := &sweep.LogSweep{
		StartFreq:  20,
		EndFreq:    sampleRate / 2 * 0.95,
		Duration:   duration,
		SampleRate: sampleRate,
		Amplitude:  1,
		Fade:       0.01,
	}

	signal, err := sw.Generate()
	if err != nil {
		return nil, err
	}

	signal = append(signal, make([]float64, int(sampleRate))...)

	resp, err := ir.New(sampleRate, signal)
	if err != nil {
		return nil, err
	}

	return newLoopSource(resp, level)
}
