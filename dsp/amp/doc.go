// Package amp implements the stereo amplifier engine.
//
// An Engine owns two Channel chains. Each chain runs
// low-cut cascade, peak filter, high-cut cascade and, when amp simulation is
// enabled, distortion and cabinet stages. Coefficients are designed once per
// block from a single parameter snapshot and copied into both chains, so the
// left and right filters are always bit-identical.
//
// Parameters are published through a lock-free ParamStore that any goroutine
// may write while the audio goroutine reads snapshots.
package amp
