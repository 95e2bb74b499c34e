package testutil

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// PowerSpectrum returns |X(k)|^2 for bins k = 0..len(x)/2.
func PowerSpectrum(x []float64) []float64 {
	if len(x) == 0 {
		return nil
	}
	fft := fourier.NewFFT(len(x))
	coeffs := fft.Coefficients(nil, x)
	out := make([]float64, len(coeffs))
	for i, c := range coeffs {
		out[i] = real(c)*real(c) + imag(c)*imag(c)
	}
	return out
}

// BandPower sums the bins of a power spectrum of an n-point signal whose
// centre frequency lies in [loHz, hiHz].
func BandPower(power []float64, n int, sampleRate, loHz, hiHz float64) float64 {
	binHz := sampleRate / float64(n)
	sum := 0.0
	for k, p := range power {
		f := float64(k) * binHz
		if f >= loHz && f <= hiHz {
			sum += p
		}
	}
	return sum
}

// BandGainDB estimates the gain of a linear system over [loHz, hiHz] from
// its input and output: 10*log10(sum|Y|^2 / sum|X|^2). in and out must have
// the same length. Returns -Inf when the band of out is silent.
func BandGainDB(in, out []float64, sampleRate, loHz, hiHz float64) float64 {
	n := len(in)
	px := BandPower(PowerSpectrum(in), n, sampleRate, loHz, hiHz)
	py := BandPower(PowerSpectrum(out), n, sampleRate, loHz, hiHz)
	if px == 0 {
		return math.NaN()
	}
	return 10 * math.Log10(py/px)
}
