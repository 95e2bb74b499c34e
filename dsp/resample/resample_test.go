package resample

import (
	"errors"
	"math"
	"testing"
)

func sine(freq, sampleRate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}

	return out
}

func argMaxAbs(x []float64) int {
	best := 0
	for i, v := range x {
		if math.Abs(v) > math.Abs(x[best]) {
			best = i
		}
	}

	return best
}

func TestNewRationalValidation(t *testing.T) {
	if _, err := NewRational(0, 1); !errors.Is(err, ErrInvalidRatio) {
		t.Fatalf("up=0: err = %v, want ErrInvalidRatio", err)
	}
	if _, err := NewRational(1, -2); !errors.Is(err, ErrInvalidRatio) {
		t.Fatalf("down=-2: err = %v, want ErrInvalidRatio", err)
	}
}

func TestRatioReduction(t *testing.T) {
	r, err := NewRational(320, 294)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}
	if up, down := r.Ratio(); up != 160 || down != 147 {
		t.Fatalf("ratio = %d/%d, want 160/147", up, down)
	}
}

func TestNewForRatesCommon(t *testing.T) {
	tests := []struct {
		in, out  float64
		up, down int
	}{
		{44100, 48000, 160, 147},
		{48000, 44100, 147, 160},
		{48000, 96000, 2, 1},
		{96000, 48000, 1, 2},
	}
	for _, tc := range tests {
		r, err := NewForRates(tc.in, tc.out)
		if err != nil {
			t.Fatalf("NewForRates(%v, %v) error = %v", tc.in, tc.out, err)
		}
		if up, down := r.Ratio(); up != tc.up || down != tc.down {
			t.Fatalf("%v -> %v: ratio = %d/%d, want %d/%d", tc.in, tc.out, up, down, tc.up, tc.down)
		}
	}
}

func TestInvalidRates(t *testing.T) {
	for _, rate := range []float64{0, -48000, math.NaN(), math.Inf(1)} {
		if _, err := NewForRates(rate, 48000); !errors.Is(err, ErrInvalidRate) {
			t.Fatalf("NewForRates(%v) err = %v, want ErrInvalidRate", rate, err)
		}
		if _, err := Convert([]float64{1}, 48000, rate); !errors.Is(err, ErrInvalidRate) {
			t.Fatalf("Convert(out=%v) err = %v, want ErrInvalidRate", rate, err)
		}
	}
}

func TestConvertSameRateCopies(t *testing.T) {
	in := []float64{1, 2, 3}
	out, err := Convert(in, 48000, 48000)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	out[0] = 9
	if in[0] != 1 {
		t.Fatal("Convert at equal rates must not alias its input")
	}
}

func TestOutputLen(t *testing.T) {
	tests := []struct {
		in, out float64
		n, want int
	}{
		{48000, 96000, 64, 128},
		{48000, 44100, 64, 59},
		{44100, 48000, 441, 480},
		{48000, 96000, 0, 0},
	}
	for _, tc := range tests {
		r, err := NewForRates(tc.in, tc.out)
		if err != nil {
			t.Fatalf("NewForRates() error = %v", err)
		}
		if got := r.OutputLen(tc.n); got != tc.want {
			t.Fatalf("%v -> %v: OutputLen(%d) = %d, want %d", tc.in, tc.out, tc.n, got, tc.want)
		}
		if tc.n > 0 {
			if got := len(r.Process(make([]float64, tc.n))); got != tc.want {
				t.Fatalf("%v -> %v: len(Process) = %d, want %d", tc.in, tc.out, got, tc.want)
			}
		}
	}
}

func TestConvertKeepsEventTime(t *testing.T) {
	in := make([]float64, 64)
	in[48] = 1 // 1 ms at 48 kHz

	for _, tc := range []struct {
		rate float64
		want int
	}{
		{96000, 96},
		{44100, 44},
		{32000, 32},
	} {
		out, err := Convert(in, 48000, tc.rate)
		if err != nil {
			t.Fatalf("Convert(%v) error = %v", tc.rate, err)
		}
		if got := argMaxAbs(out); got != tc.want {
			t.Fatalf("%v Hz: peak at %d, want %d", tc.rate, got, tc.want)
		}
	}
}

func TestConvertPreservesDC(t *testing.T) {
	in := make([]float64, 2000)
	for i := range in {
		in[i] = 1
	}

	for _, rates := range [][2]float64{{48000, 44100}, {44100, 48000}, {48000, 96000}} {
		out, err := Convert(in, rates[0], rates[1])
		if err != nil {
			t.Fatalf("Convert(%v) error = %v", rates, err)
		}
		for i := 200; i < len(out)-200; i++ {
			if math.Abs(out[i]-1) > 1e-3 {
				t.Fatalf("%v: out[%d] = %v, want 1", rates, i, out[i])
			}
		}
	}
}

func TestConvertSineIsPhaseAligned(t *testing.T) {
	in := sine(1000, 48000, 4800)

	for _, rate := range []float64{96000, 44100} {
		out, err := Convert(in, 48000, rate)
		if err != nil {
			t.Fatalf("Convert(%v) error = %v", rate, err)
		}
		want := sine(1000, rate, len(out))
		for i := 64; i < len(out)-64; i++ {
			if math.Abs(out[i]-want[i]) > 1e-3 {
				t.Fatalf("%v Hz: out[%d] = %v, want %v", rate, i, out[i], want[i])
			}
		}
	}
}

func TestQualityModesTaps(t *testing.T) {
	for _, tc := range []struct {
		q    Quality
		taps int
	}{
		{QualityFast, 16},
		{QualityBalanced, 32},
		{QualityBest, 64},
	} {
		r, err := NewRational(2, 1, WithQuality(tc.q))
		if err != nil {
			t.Fatalf("NewRational() error = %v", err)
		}
		// The prototype is made odd, so branch 0 carries one extra tap.
		if got := r.TapsPerPhase(); got != tc.taps+1 {
			t.Fatalf("quality %d: TapsPerPhase = %d, want %d", tc.q, got, tc.taps+1)
		}
	}
}

func TestApproximateRatioRespectsMaxDenominator(t *testing.T) {
	num, den := approximateRatio(math.Pi, 100)
	if num != 22 || den != 7 {
		t.Fatalf("approximateRatio(pi, 100) = %d/%d, want 22/7", num, den)
	}
}
