// Package conv provides the convolution engines behind the cabinet simulator.
//
// [Partitioned] runs a long impulse response against a live stream with zero
// input-to-output latency. The kernel is split into equal partitions whose
// spectra are multiplied against a frequency-domain delay line of past input
// frames (uniformly partitioned overlap-save). Blocks of any length up to and
// beyond the partition size are accepted; a partially filled partition is
// transformed immediately so each output sample is available in the same
// call that delivered its input sample.
//
// [Direct] is the O(N*M) reference used for short kernels and tests.
package conv
