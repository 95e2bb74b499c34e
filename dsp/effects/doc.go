// Package effects provides the processing stages used by the amplifier chain.
//
// Every stage implements Stage: it is prepared once with a core.Spec, then
// processes mono blocks in place without allocating.
//
// Building blocks:
//   - Filter: one biquad section designed from the sample rate at Prepare.
//   - Gain: fixed gain in dB.
//   - Waveshaper: memoryless transfer function (SoftClip, Tanh, FastTanh, HardClip).
//   - Convolution: zero-latency partitioned convolution with a fixed kernel.
//   - Sequence: ordered stages with per-stage bypass.
//
// Composite stages:
//   - Distortion: pre-filter, pre-gain, waveshaper, post-filter, post-gain.
//   - Cabinet: impulse-response convolution followed by a notch.
package effects
