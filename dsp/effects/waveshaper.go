package effects

import (
	"math"

	"github.com/meko-christian/algo-approx"

	"github.com/cwbudde/algo-ampsim/dsp/core"
)

// ShaperFunc is a memoryless transfer function.
type ShaperFunc func(x float64) float64

// SoftClip is x/(|x|+1). It is odd, monotonic, and bounded by (-1, 1).
func SoftClip(x float64) float64 {
	return x / (math.Abs(x) + 1)
}

// Tanh is the hyperbolic tangent.
func Tanh(x float64) float64 {
	return math.Tanh(x)
}

// FastTanh evaluates tanh through a fast exponential. Inputs beyond ±9 are
// saturated.
func FastTanh(x float64) float64 {
	if x > 9 {
		return 1
	}

	if x < -9 {
		return -1
	}

	e := approx.FastExp(2 * x)

	return (e - 1) / (e + 1)
}

// HardClip limits x to [-1, 1].
func HardClip(x float64) float64 {
	return clampUnit(x)
}

// Waveshaper applies a ShaperFunc per sample.
type Waveshaper struct {
	shape ShaperFunc
}

// NewWaveshaper returns a waveshaper stage. A nil shape selects SoftClip.
func NewWaveshaper(shape ShaperFunc) *Waveshaper {
	if shape == nil {
		shape = SoftClip
	}

	return &Waveshaper{shape: shape}
}

// Prepare validates spec; the transfer function is stateless.
func (w *Waveshaper) Prepare(spec core.Spec) error { return spec.Validate() }

// Process shapes block in place. Non-finite results become 0.
func (w *Waveshaper) Process(block []float64) {
	for i, x := range block {
		y := w.shape(x)
		if !core.IsFinite(y) {
			y = 0
		}

		block[i] = y
	}
}

// Reset is a no-op.
func (w *Waveshaper) Reset() {}

// ProcessSample shapes one sample.
func (w *Waveshaper) ProcessSample(x float64) float64 { return w.shape(x) }

func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}

	if x < -1 {
		return -1
	}

	return x
}
