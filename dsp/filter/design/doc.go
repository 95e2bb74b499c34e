// Package design provides the coefficient designers of the amp's tone
// stack and distortion filters.
//
// Every function here is pure and deterministic: identical inputs yield
// bit-identical [biquad.Coefficients]. Designers assume a frequency inside
// (0, Nyquist); callers clamp with [ClampFrequency] first. Out-of-range
// input yields pass-through coefficients rather than NaN.
package design
