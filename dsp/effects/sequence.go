package effects

import (
	"fmt"

	"github.com/cwbudde/algo-ampsim/dsp/core"
)

// Sequence runs stages in order. Each stage carries a bypass flag; bypassed
// stages are still prepared so they can be re-enabled without allocating.
type Sequence struct {
	stages   []Stage
	bypassed []bool
}

// NewSequence returns a sequence of the given stages, all active.
func NewSequence(stages ...Stage) *Sequence {
	return &Sequence{
		stages:   stages,
		bypassed: make([]bool, len(stages)),
	}
}

// Prepare prepares every stage in order.
func (s *Sequence) Prepare(spec core.Spec) error {
	for i, st := range s.stages {
		if err := st.Prepare(spec); err != nil {
			return fmt.Errorf("effects: prepare stage %d: %w", i, err)
		}
	}

	return nil
}

// Process runs every non-bypassed stage over block.
func (s *Sequence) Process(block []float64) {
	for i, st := range s.stages {
		if s.bypassed[i] {
			continue
		}

		st.Process(block)
	}
}

// Reset resets every stage, bypassed or not.
func (s *Sequence) Reset() {
	for _, st := range s.stages {
		st.Reset()
	}
}

// Len returns the number of stages.
func (s *Sequence) Len() int { return len(s.stages) }

// Stage returns stage i, or nil when out of range.
func (s *Sequence) Stage(i int) Stage {
	if i < 0 || i >= len(s.stages) {
		return nil
	}

	return s.stages[i]
}

// SetBypassed sets the bypass flag of stage i. Out-of-range indices are ignored.
func (s *Sequence) SetBypassed(i int, bypassed bool) {
	if i < 0 || i >= len(s.bypassed) {
		return
	}

	s.bypassed[i] = bypassed
}

// IsBypassed reports whether stage i is bypassed. Out-of-range indices report true.
func (s *Sequence) IsBypassed(i int) bool {
	if i < 0 || i >= len(s.bypassed) {
		return true
	}

	return s.bypassed[i]
}
