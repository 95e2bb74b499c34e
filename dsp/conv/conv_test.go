package conv

import (
	"errors"
	"math"
	"testing"
)

func TestDirect_KnownResult(t *testing.T) {
	got, err := Direct([]float64{1, 2, 3}, []float64{0, 1, 0.5, 0.25, 0.125})
	if err != nil {
		t.Fatalf("Direct: %v", err)
	}

	want := []float64{0, 1, 2.5, 4.25, 2.125, 1, 0.375}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDirect_Errors(t *testing.T) {
	if _, err := Direct(nil, []float64{1}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
	if _, err := Direct([]float64{1}, nil); !errors.Is(err, ErrEmptyKernel) {
		t.Errorf("expected ErrEmptyKernel, got %v", err)
	}
}
