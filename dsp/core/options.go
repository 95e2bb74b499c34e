package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSampleRate is returned for non-positive or non-finite sample rates.
	ErrInvalidSampleRate = errors.New("core: sample rate must be > 0")
	// ErrInvalidBlockSize is returned for non-positive maximum block sizes.
	ErrInvalidBlockSize = errors.New("core: max block size must be > 0")
	// ErrInvalidChannels is returned for a non-positive channel count.
	ErrInvalidChannels = errors.New("core: channel count must be > 0")
)

// Spec describes the processing context handed to every stage on prepare.
type Spec struct {
	SampleRate   float64
	MaxBlockSize int
	NumChannels  int
}

// SpecOption mutates a Spec.
type SpecOption func(*Spec)

// DefaultSpec returns a stereo 48 kHz spec with 512-sample blocks.
func DefaultSpec() Spec {
	return Spec{
		SampleRate:   48000,
		MaxBlockSize: 512,
		NumChannels:  2,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) SpecOption {
	return func(s *Spec) {
		if sampleRate > 0 {
			s.SampleRate = sampleRate
		}
	}
}

// WithMaxBlockSize sets the largest block the host will deliver.
func WithMaxBlockSize(blockSize int) SpecOption {
	return func(s *Spec) {
		if blockSize > 0 {
			s.MaxBlockSize = blockSize
		}
	}
}

// WithChannels sets the channel count.
func WithChannels(n int) SpecOption {
	return func(s *Spec) {
		if n > 0 {
			s.NumChannels = n
		}
	}
}

// NewSpec applies zero or more options to the default spec.
func NewSpec(opts ...SpecOption) Spec {
	s := DefaultSpec()
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	return s
}

// Validate reports the first invalid field.
func (s Spec) Validate() error {
	if !(s.SampleRate > 0) || !IsFinite(s.SampleRate) {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRate, s.SampleRate)
	}

	if s.MaxBlockSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, s.MaxBlockSize)
	}

	if s.NumChannels <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChannels, s.NumChannels)
	}

	return nil
}

// Nyquist returns half the sample rate.
func (s Spec) Nyquist() float64 {
	return s.SampleRate / 2
}
