package amp

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-ampsim/dsp/filter/design"
)

// ErrInvalidSlope is returned for slopes outside 12/24/36/48 dB/oct.
var ErrInvalidSlope = errors.New("amp: slope must be 12, 24, 36 or 48 dB/oct")

// Slope is the roll-off steepness of a cut filter.
type Slope int

const (
	Slope12 Slope = iota
	Slope24
	Slope36
	Slope48
)

var slopeLabels = [...]string{"12 db/Oct", "24 db/Oct", "36 db/Oct", "48 db/Oct"}

// SlopeFromDB maps 12, 24, 36 or 48 to a Slope.
func SlopeFromDB(db int) (Slope, error) {
	if db%12 != 0 || db < 12 || db > 48 {
		return Slope12, fmt.Errorf("%w: %d", ErrInvalidSlope, db)
	}

	return Slope(db/12 - 1), nil
}

// Valid reports whether s is one of the four defined slopes.
func (s Slope) Valid() bool { return s >= Slope12 && s <= Slope48 }

// Clamp returns s limited to the defined range.
func (s Slope) Clamp() Slope { return min(max(s, Slope12), Slope48) }

// DBPerOctave returns the roll-off in dB per octave.
func (s Slope) DBPerOctave() int { return 12 * (int(s.Clamp()) + 1) }

// Order returns the Butterworth order, 2*(index+1).
func (s Slope) Order() int { return design.CascadeOrder(int(s)) }

// Stages returns the number of active biquad stages, Order/2.
func (s Slope) Stages() int { return s.Order() / 2 }

func (s Slope) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Slope(%d)", int(s))
	}

	return slopeLabels[s]
}
