package effects

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-ampsim/dsp/conv"
	"github.com/cwbudde/algo-ampsim/dsp/core"
	"github.com/cwbudde/algo-ampsim/dsp/resample"
)

// ErrEmptyKernel is returned when a convolution stage has no kernel.
var ErrEmptyKernel = errors.New("effects: empty convolution kernel")

// Convolution convolves blocks with a fixed kernel. The partition size is the
// next power of two at or above the prepared maximum block size.
//
// A kernel recorded at a known rate is resampled to the host rate in Prepare,
// so its timing in seconds and its passband gain do not depend on the host.
type Convolution struct {
	kernel     []float64
	kernelRate float64
	active     []float64
	engine     *conv.Partitioned
}

// NewConvolution returns a convolution stage whose kernel is taken to be at
// the host rate. The kernel is copied.
func NewConvolution(kernel []float64) (*Convolution, error) {
	return NewConvolutionAt(kernel, 0)
}

// NewConvolutionAt returns a convolution stage for a kernel sampled at
// kernelRate. A zero kernelRate means the host rate. The kernel is copied.
func NewConvolutionAt(kernel []float64, kernelRate float64) (*Convolution, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}

	if kernelRate < 0 || !core.IsFinite(kernelRate) {
		return nil, fmt.Errorf("%w: %v", resample.ErrInvalidRate, kernelRate)
	}

	k := append([]float64(nil), kernel...)

	return &Convolution{kernel: k, kernelRate: kernelRate, active: k}, nil
}

// Prepare resamples the kernel to spec.SampleRate when needed and builds the
// convolver for spec.MaxBlockSize.
func (c *Convolution) Prepare(spec core.Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	active, err := c.kernelAt(spec.SampleRate)
	if err != nil {
		return fmt.Errorf("effects: convolution kernel: %w", err)
	}

	partition := core.NextPowerOfTwo(spec.MaxBlockSize)

	engine, err := conv.NewPartitioned(active, partition)
	if err != nil {
		return fmt.Errorf("effects: convolution engine: %w", err)
	}

	c.active = active
	c.engine = engine

	return nil
}

// Process convolves block in place.
func (c *Convolution) Process(block []float64) {
	if c.engine == nil {
		return
	}

	// Lengths match and the plan is fixed, so ProcessBlock cannot fail.
	_ = c.engine.ProcessBlock(block, block)
}

// Reset clears the convolution history.
func (c *Convolution) Reset() {
	if c.engine != nil {
		c.engine.Reset()
	}
}

// kernelAt returns the kernel at hostRate. Resampling by out/in raises the
// tap sum by the same factor, so the taps are scaled back by in/out.
func (c *Convolution) kernelAt(hostRate float64) ([]float64, error) {
	if c.kernelRate == 0 || c.kernelRate == hostRate {
		return c.kernel, nil
	}

	out, err := resample.Convert(c.kernel, c.kernelRate, hostRate)
	if err != nil {
		return nil, err
	}

	gain := c.kernelRate / hostRate
	for i := range out {
		out[i] *= gain
	}

	return out, nil
}

// KernelLen returns the length in samples of the kernel in use: the
// resampled kernel after Prepare, the original before.
func (c *Convolution) KernelLen() int { return len(c.active) }

// KernelRate returns the rate the kernel was recorded at, or 0 when it
// follows the host rate.
func (c *Convolution) KernelRate() float64 { return c.kernelRate }

// Latency returns the input-to-output delay in samples.
func (c *Convolution) Latency() int {
	if c.engine == nil {
		return 0
	}

	return c.engine.Latency()
}
