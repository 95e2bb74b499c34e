// Package ir loads and conditions impulse responses for convolution stages.
//
// Responses are decoded from PCM WAV files via go-audio/wav, deinterleaved into
// per-channel float64 slices, optionally trimmed of leading silence, truncated to
// a maximum length, and peak-normalized.
package ir
