// Package biquad provides the second-order IIR runtime used by every tone
// filter of the amp chain.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. A [Cascade] holds a fixed
// number of sections with a runtime bypass flag per slot and realizes the
// 12/24/36/48 dB/oct cut filters.
//
// Coefficient synthesis lives in dsp/filter/design; this package only runs
// and inspects filters.
package biquad
