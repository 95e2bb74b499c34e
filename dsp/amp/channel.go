package amp

import (
	"fmt"

	"github.com/cwbudde/algo-ampsim/dsp/core"
	"github.com/cwbudde/algo-ampsim/dsp/effects"
	"github.com/cwbudde/algo-ampsim/dsp/filter/biquad"
)

// Position names a slot in the channel chain, in processing order.
type Position int

const (
	PositionLowCut Position = iota
	PositionPeak
	PositionHighCut
	PositionDistortion
	PositionCabinet
)

func (p Position) String() string {
	switch p {
	case PositionLowCut:
		return "low-cut"
	case PositionPeak:
		return "peak"
	case PositionHighCut:
		return "high-cut"
	case PositionDistortion:
		return "distortion"
	case PositionCabinet:
		return "cabinet"
	default:
		return fmt.Sprintf("Position(%d)", int(p))
	}
}

// Channel is one mono processing chain: low-cut cascade, peak filter,
// high-cut cascade and the optional distortion and cabinet stages.
type Channel struct {
	lowCut  biquad.Cascade
	peak    biquad.Section
	highCut biquad.Cascade

	distortion *effects.Distortion
	cabinet    *effects.Cabinet

	spec     core.Spec
	prepared bool

	coeffs     CoefficientSet
	lastParams Parameters
	haveParams bool
}

// NewChannel returns a tone-shaping chain. distortion and cabinet may be nil.
func NewChannel(distortion *effects.Distortion, cabinet *effects.Cabinet) *Channel {
	c := &Channel{distortion: distortion, cabinet: cabinet}
	c.lowCut.ApplySlope(0, nil)
	c.highCut.ApplySlope(0, nil)
	c.peak.SetCoefficients(biquad.Identity())

	return c
}

// Prepare validates spec, prepares the amp stages and clears all state.
// Coefficients are redesigned on the next update.
func (c *Channel) Prepare(spec core.Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	if c.distortion != nil {
		if err := c.distortion.Prepare(spec); err != nil {
			return err
		}
	}

	if c.cabinet != nil {
		if err := c.cabinet.Prepare(spec); err != nil {
			return err
		}
	}

	c.spec = spec
	c.prepared = true
	c.haveParams = false
	c.Reset()

	return nil
}

// UpdateFromParameters designs coefficients for p and applies them. The
// design is skipped when p equals the last applied snapshot.
func (c *Channel) UpdateFromParameters(p Parameters) {
	if !c.prepared {
		return
	}

	if !c.haveParams || p != c.lastParams {
		c.coeffs.Design(p, c.spec.SampleRate)
		c.lastParams = p
		c.haveParams = true
	}

	c.ApplyCoefficients(&c.coeffs)
}

// ApplyCoefficients copies set into the filters. Delay state is kept.
func (c *Channel) ApplyCoefficients(set *CoefficientSet) {
	c.lowCut.ApplySlope(set.LowCutStages, set.LowCut[:])
	c.peak.SetCoefficients(set.Peak)
	c.highCut.ApplySlope(set.HighCutStages, set.HighCut[:])
}

// Process runs block through the chain in place. An unprepared channel leaves
// the block untouched.
func (c *Channel) Process(block []float64) {
	if !c.prepared {
		return
	}

	c.lowCut.ProcessBlock(block)
	c.peak.ProcessBlock(block)
	c.highCut.ProcessBlock(block)

	if c.distortion != nil {
		c.distortion.Process(block)
	}

	if c.cabinet != nil {
		c.cabinet.Process(block)
	}
}

// Reset clears the state of every stage.
func (c *Channel) Reset() {
	c.lowCut.Reset()
	c.peak.Reset()
	c.highCut.Reset()

	if c.distortion != nil {
		c.distortion.Reset()
	}

	if c.cabinet != nil {
		c.cabinet.Reset()
	}
}

// LowCut returns the low-cut cascade.
func (c *Channel) LowCut() *biquad.Cascade { return &c.lowCut }

// HighCut returns the high-cut cascade.
func (c *Channel) HighCut() *biquad.Cascade { return &c.highCut }

// Peak returns the peak filter section.
func (c *Channel) Peak() *biquad.Section { return &c.peak }

// Distortion returns the distortion stage, or nil on the tone-only path.
func (c *Channel) Distortion() *effects.Distortion { return c.distortion }

// Cabinet returns the cabinet stage, or nil on the tone-only path.
func (c *Channel) Cabinet() *effects.Cabinet { return c.cabinet }

// Positions lists the active chain slots in processing order.
func (c *Channel) Positions() []Position {
	out := []Position{PositionLowCut, PositionPeak, PositionHighCut}
	if c.distortion != nil {
		out = append(out, PositionDistortion)
	}

	if c.cabinet != nil {
		out = append(out, PositionCabinet)
	}

	return out
}

// Latency returns the chain delay in samples.
func (c *Channel) Latency() int {
	if c.cabinet == nil {
		return 0
	}

	return c.cabinet.Latency()
}
