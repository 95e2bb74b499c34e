// Package resample converts finite signals such as impulse responses between
// sample rates with a windowed-sinc polyphase FIR.
//
// Conversion is zero-phase: the prototype filter has odd length and its
// group delay is removed, so an event at t seconds in the input stays at t
// seconds in the output.
//
// Quality modes:
//
//	mode            taps/phase   kaiser beta
//	QualityFast     16           5.0
//	QualityBalanced 32           7.5
//	QualityBest     64           9.0
package resample
