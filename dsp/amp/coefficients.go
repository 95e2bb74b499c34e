package amp

import (
	"github.com/cwbudde/algo-ampsim/dsp/core"
	"github.com/cwbudde/algo-ampsim/dsp/filter/biquad"
	"github.com/cwbudde/algo-ampsim/dsp/filter/design"
)

// CoefficientSet is every coefficient a Channel needs for one parameter
// snapshot. It is a plain value; copying it copies all coefficients.
type CoefficientSet struct {
	LowCut        [biquad.MaxCascadeStages]biquad.Coefficients
	LowCutStages  int
	Peak          biquad.Coefficients
	HighCut       [biquad.MaxCascadeStages]biquad.Coefficients
	HighCutStages int
}

// DesignCoefficients sanitizes p and designs the full set for sampleRate.
func DesignCoefficients(p Parameters, sampleRate float64) CoefficientSet {
	var set CoefficientSet
	set.Design(p, sampleRate)

	return set
}

// Design fills set in place without allocating.
func (set *CoefficientSet) Design(p Parameters, sampleRate float64) {
	p = p.Sanitize()

	set.LowCutStages = design.ButterworthHPInto(
		set.LowCut[:],
		design.ClampFrequency(p.LowCutFreq, sampleRate),
		sampleRate,
		p.LowCutSlope.Order(),
	)

	set.Peak = design.Peak(
		sampleRate,
		design.ClampFrequency(p.PeakFreq, sampleRate),
		p.PeakQuality,
		core.DBToLinear(p.PeakGainDB),
	)

	set.HighCutStages = design.ButterworthLPInto(
		set.HighCut[:],
		design.ClampFrequency(p.HighCutFreq, sampleRate),
		sampleRate,
		p.HighCutSlope.Order(),
	)
}
