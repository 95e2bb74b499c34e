package design

import "math"

// minFrequency is the lower clamp bound; the open interval (0, Nyquist)
// excludes zero itself.
const minFrequency = 1e-3

// nyquistMargin keeps designed frequencies strictly below Nyquist.
const nyquistMargin = 0.999

// ClampFrequency limits freq to (0, sampleRate/2 * 0.999]. NaN and +Inf map to
// the upper bound, non-positive values and -Inf to a small positive floor.
func ClampFrequency(freq, sampleRate float64) float64 {
	upper := sampleRate / 2 * nyquistMargin
	if !(upper > minFrequency) {
		return minFrequency
	}

	switch {
	case math.IsNaN(freq), freq > upper:
		return upper
	case freq < minFrequency:
		return minFrequency
	default:
		return freq
	}
}

// CascadeOrder maps a slope index in {0, 1, 2, 3} to the Butterworth order
// 2*(slopeIndex+1). Indices are clamped into range.
func CascadeOrder(slopeIndex int) int {
	slopeIndex = min(max(slopeIndex, 0), MaxOrder/2-1)

	return 2 * (slopeIndex + 1)
}
