package effects

import (
	"errors"

	"github.com/cwbudde/algo-ampsim/dsp/core"
)

// ErrNotPrepared is returned by accessors that require a prepared stage.
var ErrNotPrepared = errors.New("effects: stage not prepared")

// Stage is a mono block processor.
//
// Prepare may allocate and may be called repeatedly; the last call wins.
// Process and Reset must not allocate. Process on an unprepared stage leaves
// the block untouched.
type Stage interface {
	Prepare(spec core.Spec) error
	Process(block []float64)
	Reset()
}
