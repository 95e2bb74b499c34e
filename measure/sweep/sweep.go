package sweep

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/tphakala/simd/c128"

	"github.com/cwbudde/algo-ampsim/dsp/core"
)

// Errors returned by sweep functions.
var (
	ErrInvalidFrequency  = errors.New("sweep: frequency must be positive")
	ErrInvalidDuration   = errors.New("sweep: duration must be positive")
	ErrInvalidSampleRate = errors.New("sweep: sample rate must be positive")
	ErrFrequencyOrder    = errors.New("sweep: start frequency must be less than end frequency")
	ErrInvalidFade       = errors.New("sweep: fade must be non-negative and at most half the duration")
	ErrEmptyResponse     = errors.New("sweep: response signal is empty")
	ErrInvalidLength     = errors.New("sweep: impulse response length must be positive")
)

// LogSweep describes an exponential sine sweep.
type LogSweep struct {
	StartFreq  float64 // start frequency in Hz
	EndFreq    float64 // end frequency in Hz
	Duration   float64 // sweep duration in seconds
	SampleRate float64 // sample rate in Hz

	// Amplitude scales the generated signal; zero means 1.
	Amplitude float64
	// Fade is the length in seconds of the raised-cosine fade applied to
	// both ends of the generated signal. Zero disables fading.
	Fade float64
}

// Validate checks that the LogSweep parameters are valid.
func (s *LogSweep) Validate() error {
	if s.StartFreq <= 0 || s.EndFreq <= 0 {
		return ErrInvalidFrequency
	}

	if s.StartFreq >= s.EndFreq {
		return ErrFrequencyOrder
	}

	if s.Duration <= 0 {
		return ErrInvalidDuration
	}

	if s.SampleRate <= 0 {
		return ErrInvalidSampleRate
	}

	if s.Fade < 0 || s.Fade > s.Duration/2 {
		return ErrInvalidFade
	}

	return nil
}

func (s *LogSweep) samples() int {
	return int(math.Round(s.Duration * s.SampleRate))
}

func (s *LogSweep) amplitude() float64 {
	if s.Amplitude == 0 {
		return 1
	}

	return s.Amplitude
}

// Len returns the number of samples Generate produces.
func (s *LogSweep) Len() int { return s.samples() }

// Generate creates the sweep signal.
//
// The instantaneous frequency rises exponentially from StartFreq to EndFreq:
//
//	x(t) = A * sin(2π * f1 * T / ln(f2/f1) * (exp(t/T * ln(f2/f1)) - 1))
func (s *LogSweep) Generate() ([]float64, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	out := s.unitSweep()
	amp := s.amplitude()

	fadeLen := int(math.Round(s.Fade * s.SampleRate))
	n := len(out)

	for i := range out {
		g := amp
		if fadeLen > 0 {
			switch {
			case i < fadeLen:
				g *= raisedCosine(i, fadeLen)
			case i >= n-fadeLen:
				g *= raisedCosine(n-1-i, fadeLen)
			}
		}

		out[i] *= g
	}

	return out, nil
}

func (s *LogSweep) unitSweep() []float64 {
	out := make([]float64, s.samples())

	T := s.Duration
	lnRatio := math.Log(s.EndFreq / s.StartFreq)

	for i := range out {
		t := float64(i) / s.SampleRate
		phase := 2 * math.Pi * s.StartFreq * T / lnRatio * (math.Exp(t/T*lnRatio) - 1)
		out[i] = math.Sin(phase)
	}

	return out
}

func raisedCosine(i, n int) float64 {
	return 0.5 - 0.5*math.Cos(math.Pi*float64(i)/float64(n))
}

// InverseFilter returns the time-reversed unit sweep with a 6 dB/octave
// amplitude envelope, scaled so that the sweep convolved with it peaks near 1.
func (s *LogSweep) InverseFilter() ([]float64, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	sweep := s.unitSweep()
	n := len(sweep)

	T := s.Duration
	lnRatio := math.Log(s.EndFreq / s.StartFreq)
	scale := lnRatio / (T * s.StartFreq * s.SampleRate)

	inv := make([]float64, n)
	for i := range inv {
		j := n - 1 - i
		t := float64(j) / s.SampleRate
		// f1/f(t) compensates the sweep's pink energy distribution.
		env := math.Exp(-t / T * lnRatio)
		inv[i] = sweep[j] * env * scale
	}

	return inv, nil
}

// Deconvolve convolves response with the inverse filter. The linear impulse
// response starts at index Len()-1 of the result; harmonic distortion
// products appear before it.
func (s *LogSweep) Deconvolve(response []float64) ([]float64, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	if len(response) == 0 {
		return nil, ErrEmptyResponse
	}

	inv, err := s.InverseFilter()
	if err != nil {
		return nil, err
	}

	n := len(response) + len(inv) - 1
	fftSize := core.NextPowerOfTwo(n)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("sweep: failed to create FFT plan: %w", err)
	}

	respFreq, err := forward(plan, response, fftSize)
	if err != nil {
		return nil, err
	}

	invFreq, err := forward(plan, inv, fftSize)
	if err != nil {
		return nil, err
	}

	product := make([]complex128, fftSize)
	c128.Mul(product, respFreq, invFreq)

	resultTime := make([]complex128, fftSize)
	if err := plan.Inverse(resultTime, product); err != nil {
		return nil, fmt.Errorf("sweep: inverse FFT failed: %w", err)
	}

	gain := 1 / s.amplitude()
	result := make([]float64, n)
	for i := range result {
		result[i] = real(resultTime[i]) * gain
	}

	return result, nil
}

// ImpulseResponse deconvolves response and returns the first length samples
// of the linear impulse response, zero-padded if the response is short.
func (s *LogSweep) ImpulseResponse(response []float64, length int) ([]float64, error) {
	if length <= 0 {
		return nil, ErrInvalidLength
	}

	deconv, err := s.Deconvolve(response)
	if err != nil {
		return nil, err
	}

	out := make([]float64, length)
	start := s.samples() - 1
	if start < len(deconv) {
		copy(out, deconv[start:])
	}

	return out, nil
}

func forward(plan *algofft.Plan[complex128], x []float64, size int) ([]complex128, error) {
	padded := make([]complex128, size)
	for i, v := range x {
		padded[i] = complex(v, 0)
	}

	out := make([]complex128, size)
	if err := plan.Forward(out, padded); err != nil {
		return nil, fmt.Errorf("sweep: forward FFT failed: %w", err)
	}

	return out, nil
}
