package effects

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-ampsim/dsp/core"
	"github.com/cwbudde/algo-ampsim/dsp/filter/biquad"
	"github.com/cwbudde/algo-ampsim/dsp/filter/design"
	"github.com/cwbudde/algo-ampsim/dsp/ir"
)

// ErrMissingImpulseResponse is returned when a cabinet has no usable response.
var ErrMissingImpulseResponse = errors.New("effects: missing cabinet impulse response")

const (
	defaultNotchHz = 1300.0
	defaultNotchQ  = 0.1
)

// CabinetOption configures a Cabinet.
type CabinetOption func(*cabinetConfig) error

type cabinetConfig struct {
	notchHz float64
	notchQ  float64
	notch   bool
}

// WithNotch sets the post-convolution notch frequency and quality.
func WithNotch(hz, q float64) CabinetOption {
	return func(cfg *cabinetConfig) error {
		if hz <= 0 || q <= 0 || math.IsNaN(hz) || math.IsNaN(q) || math.IsInf(hz, 0) || math.IsInf(q, 0) {
			return fmt.Errorf("cabinet notch must have positive finite frequency and Q: %f, %f", hz, q)
		}

		cfg.notchHz = hz
		cfg.notchQ = q
		cfg.notch = true

		return nil
	}
}

// WithoutNotch disables the post-convolution notch.
func WithoutNotch() CabinetOption {
	return func(cfg *cabinetConfig) error {
		cfg.notch = false
		return nil
	}
}

// Cabinet convolves with one channel of a speaker impulse response and then
// applies a broad notch.
type Cabinet struct {
	cfg     cabinetConfig
	channel int
	conv    *Convolution
	notch   *Filter
	seq     *Sequence
}

// NewCabinet creates a cabinet stage from channel ch of resp. A mono response
// serves every channel.
func NewCabinet(resp *ir.Response, ch int, opts ...CabinetOption) (*Cabinet, error) {
	kernel := resp.Channel(ch)
	if len(kernel) == 0 {
		return nil, ErrMissingImpulseResponse
	}

	cfg := cabinetConfig{notchHz: defaultNotchHz, notchQ: defaultNotchQ, notch: true}
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	convolution, err := NewConvolutionAt(kernel, resp.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("cabinet: %w", err)
	}

	hz, q := cfg.notchHz, cfg.notchQ
	notch := NewFilter(func(sr float64) biquad.Coefficients {
		return design.Notch(sr, design.ClampFrequency(hz, sr), q)
	})

	c := &Cabinet{
		cfg:     cfg,
		channel: ch,
		conv:    convolution,
		notch:   notch,
		seq:     NewSequence(convolution, notch),
	}
	c.seq.SetBypassed(1, !cfg.notch)

	return c, nil
}

// Prepare resamples the response to the host rate, builds the convolver and
// designs the notch.
func (c *Cabinet) Prepare(spec core.Spec) error {
	if err := c.seq.Prepare(spec); err != nil {
		return fmt.Errorf("cabinet: %w", err)
	}

	return nil
}

// Process applies the cabinet to block in place.
func (c *Cabinet) Process(block []float64) { c.seq.Process(block) }

// Reset clears convolution history and notch state.
func (c *Cabinet) Reset() { c.seq.Reset() }

// Latency returns the cabinet delay in samples.
func (c *Cabinet) Latency() int { return c.conv.Latency() }

// Channel returns the response channel this cabinet convolves with.
func (c *Cabinet) Channel() int { return c.channel }

// KernelLen returns the impulse response length at the prepared rate.
func (c *Cabinet) KernelLen() int { return c.conv.KernelLen() }

// NotchCoefficients returns the prepared notch coefficients. It fails with
// ErrNotPrepared before Prepare has succeeded.
func (c *Cabinet) NotchCoefficients() (biquad.Coefficients, error) {
	if !c.notch.Prepared() {
		return biquad.Coefficients{}, ErrNotPrepared
	}

	return c.notch.Coefficients(), nil
}
