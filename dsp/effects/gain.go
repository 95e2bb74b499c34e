package effects

import (
	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-ampsim/dsp/core"
)

// Gain scales blocks by a fixed gain given in dB.
type Gain struct {
	db     float64
	linear float64
}

// NewGain returns a gain stage. Non-finite gains are treated as 0 dB.
func NewGain(db float64) *Gain {
	if !core.IsFinite(db) {
		db = 0
	}

	return &Gain{db: db, linear: core.DBToLinear(db)}
}

// Prepare is a no-op; the factor does not depend on the sample rate.
func (g *Gain) Prepare(spec core.Spec) error { return spec.Validate() }

// Process scales block in place.
func (g *Gain) Process(block []float64) {
	vecmath.ScaleBlockInPlace(block, g.linear)
}

// Reset is a no-op.
func (g *Gain) Reset() {}

// DB returns the gain in dB.
func (g *Gain) DB() float64 { return g.db }

// Linear returns the linear gain factor.
func (g *Gain) Linear() float64 { return g.linear }
