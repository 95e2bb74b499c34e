package design

import (
	"math"

	"github.com/cwbudde/algo-ampsim/dsp/filter/biquad"
)

// MaxOrder is the highest Butterworth order the cut filters use (48 dB/oct).
const MaxOrder = 2 * biquad.MaxCascadeStages

// SectionCount returns ceil(order/2), the number of sections an order needs.
func SectionCount(order int) int {
	if order <= 0 {
		return 0
	}

	return (order + 1) / 2
}

// ButterworthHP designs a highpass Butterworth cascade of the given order.
// Even orders yield order/2 biquads; odd orders append a first-order section.
func ButterworthHP(cutoff, sampleRate float64, order int) []biquad.Coefficients {
	if order <= 0 {
		return nil
	}

	out := make([]biquad.Coefficients, SectionCount(order))
	ButterworthHPInto(out, cutoff, sampleRate, order)

	return out
}

// ButterworthLP designs a lowpass Butterworth cascade of the given order.
func ButterworthLP(cutoff, sampleRate float64, order int) []biquad.Coefficients {
	if order <= 0 {
		return nil
	}

	out := make([]biquad.Coefficients, SectionCount(order))
	ButterworthLPInto(out, cutoff, sampleRate, order)

	return out
}

// ButterworthHPInto writes the highpass cascade into dst without allocating
// and returns the number of sections written. dst must hold SectionCount(order)
// entries; extra sections are dropped.
func ButterworthHPInto(dst []biquad.Coefficients, cutoff, sampleRate float64, order int) int {
	return butterworthInto(dst, cutoff, sampleRate, order, Highpass, FirstOrderHighpass)
}

// ButterworthLPInto is the lowpass counterpart of [ButterworthHPInto].
func ButterworthLPInto(dst []biquad.Coefficients, cutoff, sampleRate float64, order int) int {
	return butterworthInto(dst, cutoff, sampleRate, order, Lowpass, FirstOrderLowpass)
}

func butterworthInto(
	dst []biquad.Coefficients,
	cutoff, sampleRate float64,
	order int,
	second func(sampleRate, freq, q float64) biquad.Coefficients,
	first func(sampleRate, freq float64) biquad.Coefficients,
) int {
	n := min(SectionCount(order), len(dst))

	i := 0
	for ; i < order/2 && i < n; i++ {
		dst[i] = second(sampleRate, cutoff, butterworthQ(order, i))
	}

	if order%2 != 0 && i < n {
		dst[i] = first(sampleRate, cutoff)
		i++
	}

	return i
}

// butterworthQ returns the quality factor of biquad section index for an
// analog Butterworth prototype of the given order.
func butterworthQ(order, index int) float64 {
	s := math.Sin(math.Pi * float64(2*index+1) / (2 * float64(order)))
	if s == 0 {
		return defaultQ
	}

	return 1 / (2 * s)
}
