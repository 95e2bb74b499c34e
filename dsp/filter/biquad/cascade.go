package biquad

// MaxCascadeStages is the number of biquad slots in a cut-filter cascade.
// Four slots cover the steepest slope (48 dB/oct, eighth order).
const MaxCascadeStages = 4

// Cascade is a fixed array of biquad stages with a bypass flag per stage.
// Only non-bypassed stages run, in index order. Bypassed stages keep
// whatever coefficients and state they last had.
//
// The zero value has every stage active with zero coefficients; call
// [Cascade.ApplySlope] or [NewCascade] before processing.
type Cascade struct {
	stages   [MaxCascadeStages]Section
	bypassed [MaxCascadeStages]bool
}

// NewCascade returns a cascade with the first len(coeffs) stages active
// and the rest bypassed.
func NewCascade(coeffs []Coefficients) *Cascade {
	c := &Cascade{}
	c.ApplySlope(len(coeffs), coeffs)

	return c
}

// ApplySlope bypasses every stage, then assigns coeffs[i] to stage i and
// un-bypasses it for i < stages. stages is clamped to [0, MaxCascadeStages]
// and to len(coeffs). Delay state of reassigned stages is kept.
func (c *Cascade) ApplySlope(stages int, coeffs []Coefficients) {
	for i := range c.bypassed {
		c.bypassed[i] = true
	}

	stages = min(max(stages, 0), MaxCascadeStages, len(coeffs))
	for i := range stages {
		c.stages[i].SetCoefficients(coeffs[i])
		c.bypassed[i] = false
	}
}

// ProcessSample runs x through every active stage.
func (c *Cascade) ProcessSample(x float64) float64 {
	for i := range c.stages {
		if c.bypassed[i] {
			continue
		}
		x = c.stages[i].ProcessSample(x)
	}

	return x
}

// ProcessBlock filters buf in place through every active stage.
func (c *Cascade) ProcessBlock(buf []float64) {
	for i := range c.stages {
		if c.bypassed[i] {
			continue
		}
		c.stages[i].ProcessBlock(buf)
	}
}

// Reset clears the delay state of every stage, bypassed or not.
func (c *Cascade) Reset() {
	for i := range c.stages {
		c.stages[i].Reset()
	}
}

// ActiveStages returns the number of non-bypassed stages.
func (c *Cascade) ActiveStages() int {
	n := 0
	for _, b := range c.bypassed {
		if !b {
			n++
		}
	}

	return n
}

// IsBypassed reports whether stage i is skipped.
func (c *Cascade) IsBypassed(i int) bool {
	return c.bypassed[i]
}

// SetBypassed toggles the bypass flag of stage i.
func (c *Cascade) SetBypassed(i int, bypassed bool) {
	c.bypassed[i] = bypassed
}

// Stage returns a pointer to the i-th stage for inspection.
func (c *Cascade) Stage(i int) *Section {
	return &c.stages[i]
}

// Coefficients returns the coefficients of every slot, including stale
// coefficients held by bypassed stages.
func (c *Cascade) Coefficients() [MaxCascadeStages]Coefficients {
	var out [MaxCascadeStages]Coefficients
	for i := range c.stages {
		out[i] = c.stages[i].Coefficients
	}

	return out
}
