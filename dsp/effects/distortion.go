package effects

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-ampsim/dsp/core"
	"github.com/cwbudde/algo-ampsim/dsp/filter/biquad"
	"github.com/cwbudde/algo-ampsim/dsp/filter/design"
)

const (
	defaultPreFilterHz  = 15000.0
	defaultPreGainDB    = 40.0
	defaultPostFilterHz = 400.0
	defaultPostGainDB   = 20.0

	minDistortionGainDB = -60.0
	maxDistortionGainDB = 60.0
	minDistortionHz     = 10.0
	maxDistortionHz     = 40000.0
)

// Positions of the sub-stages inside a Distortion.
const (
	DistortionPreFilter = iota
	DistortionPreGain
	DistortionShaper
	DistortionPostFilter
	DistortionPostGain
)

// DistortionOption mutates construction-time parameters.
type DistortionOption func(*distortionConfig) error

type distortionConfig struct {
	preFilterHz  float64
	preGainDB    float64
	shaper       ShaperFunc
	postFilterHz float64
	postGainDB   float64
}

func defaultDistortionConfig() distortionConfig {
	return distortionConfig{
		preFilterHz:  defaultPreFilterHz,
		preGainDB:    defaultPreGainDB,
		shaper:       SoftClip,
		postFilterHz: defaultPostFilterHz,
		postGainDB:   defaultPostGainDB,
	}
}

// WithPreFilterHz sets the first-order lowpass cutoff ahead of the shaper.
func WithPreFilterHz(hz float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if hz < minDistortionHz || hz > maxDistortionHz || math.IsNaN(hz) {
			return fmt.Errorf("distortion pre-filter must be in [%g, %g] Hz: %f", minDistortionHz, maxDistortionHz, hz)
		}

		cfg.preFilterHz = hz

		return nil
	}
}

// WithPreGainDB sets the drive applied before the shaper.
func WithPreGainDB(db float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if db < minDistortionGainDB || db > maxDistortionGainDB || math.IsNaN(db) {
			return fmt.Errorf("distortion pre-gain must be in [%g, %g] dB: %f", minDistortionGainDB, maxDistortionGainDB, db)
		}

		cfg.preGainDB = db

		return nil
	}
}

// WithShaper selects the transfer function.
func WithShaper(shape ShaperFunc) DistortionOption {
	return func(cfg *distortionConfig) error {
		if shape == nil {
			return errors.New("distortion shaper must not be nil")
		}

		cfg.shaper = shape

		return nil
	}
}

// WithPostFilterHz sets the first-order highpass cutoff after the shaper.
func WithPostFilterHz(hz float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if hz < minDistortionHz || hz > maxDistortionHz || math.IsNaN(hz) {
			return fmt.Errorf("distortion post-filter must be in [%g, %g] Hz: %f", minDistortionHz, maxDistortionHz, hz)
		}

		cfg.postFilterHz = hz

		return nil
	}
}

// WithPostGainDB sets the makeup gain applied after the post-filter.
func WithPostGainDB(db float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if db < minDistortionGainDB || db > maxDistortionGainDB || math.IsNaN(db) {
			return fmt.Errorf("distortion post-gain must be in [%g, %g] dB: %f", minDistortionGainDB, maxDistortionGainDB, db)
		}

		cfg.postGainDB = db

		return nil
	}
}

// Distortion is an amp-style overdrive: band-limit, drive, shape, remove the
// low end, and make up level.
type Distortion struct {
	cfg distortionConfig
	seq *Sequence
}

// NewDistortion creates a distortion stage with validated options.
func NewDistortion(opts ...DistortionOption) (*Distortion, error) {
	cfg := defaultDistortionConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	pre, post := cfg.preFilterHz, cfg.postFilterHz

	d := &Distortion{
		cfg: cfg,
		seq: NewSequence(
			NewFilter(func(sr float64) biquad.Coefficients {
				return design.FirstOrderLowpass(sr, design.ClampFrequency(pre, sr))
			}),
			NewGain(cfg.preGainDB),
			NewWaveshaper(cfg.shaper),
			NewFilter(func(sr float64) biquad.Coefficients {
				return design.FirstOrderHighpass(sr, design.ClampFrequency(post, sr))
			}),
			NewGain(cfg.postGainDB),
		),
	}

	return d, nil
}

// Prepare designs the filters for spec.SampleRate.
func (d *Distortion) Prepare(spec core.Spec) error {
	if err := d.seq.Prepare(spec); err != nil {
		return fmt.Errorf("distortion: %w", err)
	}

	return nil
}

// Process distorts block in place.
func (d *Distortion) Process(block []float64) { d.seq.Process(block) }

// Reset clears filter state.
func (d *Distortion) Reset() { d.seq.Reset() }

// Sequence exposes the sub-stages, indexed by the Distortion* constants.
func (d *Distortion) Sequence() *Sequence { return d.seq }

// PreFilterHz returns the pre-filter cutoff.
func (d *Distortion) PreFilterHz() float64 { return d.cfg.preFilterHz }

// PreGainDB returns the drive in dB.
func (d *Distortion) PreGainDB() float64 { return d.cfg.preGainDB }

// PostFilterHz returns the post-filter cutoff.
func (d *Distortion) PostFilterHz() float64 { return d.cfg.postFilterHz }

// PostGainDB returns the makeup gain in dB.
func (d *Distortion) PostGainDB() float64 { return d.cfg.postGainDB }
