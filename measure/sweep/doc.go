// Package sweep generates logarithmic sine sweeps and recovers impulse
// responses from a system's response to them.
//
// A logarithmic sweep spends equal time per octave, which makes it a good
// excitation for measuring the amp engine: run the sweep through the chain,
// then deconvolve the output to obtain the chain's linear impulse response.
//
//	s := &sweep.LogSweep{
//	    StartFreq: 20, EndFreq: 20000,
//	    Duration: 1, SampleRate: 48000,
//	}
//	excitation, _ := s.Generate()
//	// ... process excitation ...
//	ir, _ := s.ImpulseResponse(response, 4096)
package sweep
