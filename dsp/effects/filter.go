package effects

import (
	"github.com/cwbudde/algo-ampsim/dsp/core"
	"github.com/cwbudde/algo-ampsim/dsp/filter/biquad"
)

// Designer produces biquad coefficients for a sample rate.
type Designer func(sampleRate float64) biquad.Coefficients

// Filter is a single biquad section whose coefficients are designed in Prepare.
type Filter struct {
	design   Designer
	section  biquad.Section
	prepared bool
}

// NewFilter returns a filter stage using design. A nil designer yields an
// identity filter.
func NewFilter(design Designer) *Filter {
	f := &Filter{design: design}
	f.section.SetCoefficients(biquad.Identity())

	return f
}

// Prepare designs the coefficients for spec.SampleRate and clears state.
func (f *Filter) Prepare(spec core.Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	coeffs := biquad.Identity()
	if f.design != nil {
		coeffs = f.design(spec.SampleRate)
	}

	f.section.SetCoefficients(coeffs)
	f.section.Reset()
	f.prepared = true

	return nil
}

// Process filters block in place.
func (f *Filter) Process(block []float64) {
	if !f.prepared {
		return
	}

	f.section.ProcessBlock(block)
}

// Reset clears the filter state.
func (f *Filter) Reset() { f.section.Reset() }

// Coefficients returns the active coefficients.
func (f *Filter) Coefficients() biquad.Coefficients { return f.section.Coefficients }

// Prepared reports whether Prepare has succeeded.
func (f *Filter) Prepared() bool { return f.prepared }
