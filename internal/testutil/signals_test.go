package testutil

import (
	"math"
	"testing"
)

func TestSine(t *testing.T) {
	s := Sine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	if math.Abs(s[12]-1) > 1e-12 {
		t.Fatalf("s[12] = %v, want 1", s[12])
	}
}

func TestNoiseReproducible(t *testing.T) {
	a := Noise(42, 1.0, 64)
	b := Noise(42, 1.0, 64)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
		if math.Abs(a[i]) > 1 {
			t.Fatalf("a[%d] = %v out of range", i, a[i])
		}
	}

	c := Noise(43, 1.0, 64)
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestImpulse(t *testing.T) {
	x := Impulse(8, 3)
	for i, v := range x {
		want := 0.0
		if i == 3 {
			want = 1
		}
		if v != want {
			t.Fatalf("x[%d] = %v, want %v", i, v, want)
		}
	}
	if PeakAbs(Impulse(4, 9)) != 0 {
		t.Fatal("out-of-range impulse position should yield silence")
	}
}

func TestPlanarCopies(t *testing.T) {
	mono := []float64{1, 2}
	p := Planar(mono, 2)
	p[0][0] = 9
	if p[1][0] != 1 || mono[0] != 1 {
		t.Fatal("Planar channels must not alias")
	}
}

func TestRMSAndPeak(t *testing.T) {
	if got := RMS(Sine(1000, 48000, 1, 48000)); math.Abs(got-math.Sqrt2/2) > 1e-9 {
		t.Fatalf("RMS = %v, want %v", got, math.Sqrt2/2)
	}
	if RMS(nil) != 0 {
		t.Fatal("RMS(nil) should be 0")
	}
	if got := PeakAbs([]float64{0.5, -2, 1}); got != 2 {
		t.Fatalf("PeakAbs = %v, want 2", got)
	}
}
