package sweep

import (
	"errors"
	"math"
	"testing"
)

func TestLogSweepValidation(t *testing.T) {
	tests := []struct {
		name    string
		sweep   LogSweep
		wantErr error
	}{
		{"valid", LogSweep{StartFreq: 20, EndFreq: 20000, Duration: 1, SampleRate: 48000}, nil},
		{"zero start freq", LogSweep{StartFreq: 0, EndFreq: 20000, Duration: 1, SampleRate: 48000}, ErrInvalidFrequency},
		{"negative end freq", LogSweep{StartFreq: 20, EndFreq: -1, Duration: 1, SampleRate: 48000}, ErrInvalidFrequency},
		{"start >= end", LogSweep{StartFreq: 1000, EndFreq: 100, Duration: 1, SampleRate: 48000}, ErrFrequencyOrder},
		{"zero duration", LogSweep{StartFreq: 20, EndFreq: 20000, Duration: 0, SampleRate: 48000}, ErrInvalidDuration},
		{"zero sample rate", LogSweep{StartFreq: 20, EndFreq: 20000, Duration: 1, SampleRate: 0}, ErrInvalidSampleRate},
		{"fade too long", LogSweep{StartFreq: 20, EndFreq: 20000, Duration: 1, SampleRate: 48000, Fade: 0.6}, ErrInvalidFade},
		{"negative fade", LogSweep{StartFreq: 20, EndFreq: 20000, Duration: 1, SampleRate: 48000, Fade: -1}, ErrInvalidFade},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sweep.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogSweepGenerate(t *testing.T) {
	s := &LogSweep{StartFreq: 20, EndFreq: 20000, Duration: 1, SampleRate: 44100}

	sweep, err := s.Generate()
	if err != nil {
		t.Fatal(err)
	}

	if len(sweep) != 44100 || s.Len() != 44100 {
		t.Fatalf("length = %d, want 44100", len(sweep))
	}

	for i, v := range sweep {
		if math.Abs(v) > 1 {
			t.Fatalf("sample[%d] = %f, out of [-1, 1] range", i, v)
		}
	}

	if math.Abs(sweep[0]) > 1e-10 {
		t.Errorf("first sample = %g, want ~0", sweep[0])
	}
}

func TestLogSweepAmplitudeAndFade(t *testing.T) {
	s := &LogSweep{StartFreq: 100, EndFreq: 1000, Duration: 0.1, SampleRate: 8000, Amplitude: 0.25, Fade: 0.01}

	sweep, err := s.Generate()
	if err != nil {
		t.Fatal(err)
	}

	peak := 0.0
	for _, v := range sweep {
		peak = max(peak, math.Abs(v))
	}

	if peak > 0.25+1e-12 || peak < 0.2 {
		t.Errorf("peak = %g, want close to 0.25", peak)
	}

	if sweep[0] != 0 || sweep[len(sweep)-1] != 0 {
		t.Errorf("faded edges = %g, %g, want 0", sweep[0], sweep[len(sweep)-1])
	}
}

func TestLogSweepInverseFilter(t *testing.T) {
	s := &LogSweep{StartFreq: 100, EndFreq: 4000, Duration: 0.5, SampleRate: 16000}

	inv, err := s.InverseFilter()
	if err != nil {
		t.Fatal(err)
	}

	if len(inv) != s.Len() {
		t.Fatalf("inverse filter length = %d, want %d", len(inv), s.Len())
	}

	// The envelope decays toward the end of the reversed sweep (its low-frequency start).
	head, tail := 0.0, 0.0
	for i := range 400 {
		head = max(head, math.Abs(inv[i]))
		tail = max(tail, math.Abs(inv[len(inv)-1-i]))
	}

	if head >= tail {
		t.Errorf("envelope head %g should be below tail %g", head, tail)
	}
}

func TestLogSweepDeconvolveIdentity(t *testing.T) {
	s := &LogSweep{StartFreq: 100, EndFreq: 4000, Duration: 0.25, SampleRate: 16000}

	sweep, err := s.Generate()
	if err != nil {
		t.Fatal(err)
	}

	ir, err := s.Deconvolve(sweep)
	if err != nil {
		t.Fatal(err)
	}

	peakIdx := 0
	for i, v := range ir {
		if math.Abs(v) > math.Abs(ir[peakIdx]) {
			peakIdx = i
		}
	}

	if d := peakIdx - (s.Len() - 1); d < -2 || d > 2 {
		t.Errorf("peak at %d, want near %d", peakIdx, s.Len()-1)
	}
}

func TestLogSweepImpulseResponseKnownSystem(t *testing.T) {
	s := &LogSweep{StartFreq: 100, EndFreq: 4000, Duration: 0.5, SampleRate: 16000, Amplitude: 0.5}

	sweep, err := s.Generate()
	if err != nil {
		t.Fatal(err)
	}

	// Direct path plus a reflection 100 samples later at 0.3.
	response := make([]float64, len(sweep)+100)
	for i, v := range sweep {
		response[i] += v
		response[i+100] += 0.3 * v
	}

	ir, err := s.ImpulseResponse(response, 200)
	if err != nil {
		t.Fatal(err)
	}

	if len(ir) != 200 {
		t.Fatalf("len = %d, want 200", len(ir))
	}

	direct := 0.0
	for i := range 3 {
		direct = max(direct, math.Abs(ir[i]))
	}

	reflection := 0.0
	for i := 97; i < 104; i++ {
		reflection = max(reflection, math.Abs(ir[i]))
	}

	ratio := reflection / direct
	if ratio < 0.15 || ratio > 0.5 {
		t.Errorf("reflection ratio = %.3f, want ~0.3", ratio)
	}
}

func TestLogSweepDeconvolveErrors(t *testing.T) {
	s := &LogSweep{StartFreq: 100, EndFreq: 4000, Duration: 0.5, SampleRate: 16000}

	if _, err := s.Deconvolve(nil); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("Deconvolve(nil) = %v, want ErrEmptyResponse", err)
	}

	if _, err := s.ImpulseResponse([]float64{1}, 0); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("ImpulseResponse(len 0) = %v, want ErrInvalidLength", err)
	}

	bad := &LogSweep{StartFreq: 100, EndFreq: 10, Duration: 1, SampleRate: 8000}
	if _, err := bad.Generate(); !errors.Is(err, ErrFrequencyOrder) {
		t.Errorf("Generate() = %v, want ErrFrequencyOrder", err)
	}
}
