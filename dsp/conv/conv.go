package conv

import (
	"errors"

	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput       = errors.New("conv: empty input")
	ErrEmptyKernel      = errors.New("conv: empty kernel")
	ErrLengthMismatch   = errors.New("conv: buffer length mismatch")
	ErrInvalidBlockSize = errors.New("conv: invalid block size")
)

// Direct performs direct time-domain linear convolution of a and b.
// Returns a new slice of length len(a) + len(b) - 1.
func Direct(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}

	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	result := make([]float64, len(a)+len(b)-1)
	DirectTo(result, a, b, make([]float64, len(b)))

	return result, nil
}

// DirectTo convolves a with b into dst, which must hold len(a)+len(b)-1
// samples. scratch must hold len(b) samples.
func DirectTo(dst, a, b, scratch []float64) {
	clear(dst)

	m := len(b)
	for i, x := range a {
		if x == 0 {
			continue
		}

		vecmath.ScaleBlock(scratch[:m], b, x)
		vecmath.AddBlockInPlace(dst[i:i+m], scratch[:m])
	}
}
