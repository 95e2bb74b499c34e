package resample

import (
	"errors"
	"math"
)

var (
	// ErrInvalidRatio indicates an invalid up/down ratio.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates an invalid input/output sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
)

// Quality selects the anti-aliasing filter.
type Quality int

const (
	// QualityFast uses short branches.
	QualityFast Quality = iota
	// QualityBalanced is the default.
	QualityBalanced
	// QualityBest uses long branches and a steep window.
	QualityBest
)

// Profile holds the filter parameters of a quality mode.
type Profile struct {
	TapsPerPhase int
	CutoffScale  float64
	KaiserBeta   float64
}

// QualityProfile returns the profile used by quality mode q.
func QualityProfile(q Quality) Profile {
	switch q {
	case QualityFast:
		return Profile{TapsPerPhase: 16, CutoffScale: 0.88, KaiserBeta: 5.0}
	case QualityBest:
		return Profile{TapsPerPhase: 64, CutoffScale: 0.96, KaiserBeta: 9.0}
	default:
		return Profile{TapsPerPhase: 32, CutoffScale: 0.92, KaiserBeta: 7.5}
	}
}

type config struct {
	profile Profile
	maxDen  int
}

// Option configures a Resampler.
type Option func(*config)

// WithQuality selects a quality mode.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.profile = QualityProfile(q)
	}
}

// WithMaxDenominator caps the denominator when approximating a rate ratio.
func WithMaxDenominator(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxDen = n
		}
	}
}

func defaultConfig() config {
	return config{profile: QualityProfile(QualityBalanced), maxDen: 4096}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Resampler converts by the rational factor up/down.
type Resampler struct {
	up     int
	down   int
	center int
	phases [][]float64
}

// NewRational creates a resampler for ratio up/down. The ratio is reduced.
func NewRational(up, down int, opts ...Option) (*Resampler, error) {
	if up <= 0 || down <= 0 {
		return nil, ErrInvalidRatio
	}

	g := gcd(up, down)
	up /= g
	down /= g

	phases, center, err := designPolyphase(up, down, applyOptions(opts).profile)
	if err != nil {
		return nil, err
	}

	return &Resampler{up: up, down: down, center: center, phases: phases}, nil
}

// NewForRates creates a resampler by approximating outRate/inRate as a
// ratio.
func NewForRates(inRate, outRate float64, opts ...Option) (*Resampler, error) {
	if !validRate(inRate) || !validRate(outRate) {
		return nil, ErrInvalidRate
	}

	up, down := approximateRatio(outRate/inRate, applyOptions(opts).maxDen)

	return NewRational(up, down, opts...)
}

// Convert resamples input from inRate to outRate. Equal rates return a copy.
func Convert(input []float64, inRate, outRate float64, opts ...Option) ([]float64, error) {
	if !validRate(inRate) || !validRate(outRate) {
		return nil, ErrInvalidRate
	}

	if inRate == outRate {
		return append([]float64(nil), input...), nil
	}

	r, err := NewForRates(inRate, outRate, opts...)
	if err != nil {
		return nil, err
	}

	return r.Process(input), nil
}

// Process returns input at the new rate. The output has OutputLen samples
// and no added delay; input outside its bounds is treated as zero.
func (r *Resampler) Process(input []float64) []float64 {
	out := make([]float64, r.OutputLen(len(input)))

	for j := range out {
		m := j*r.down + r.center
		idx, phase := m/r.up, m%r.up

		var y float64
		for k, c := range r.phases[phase] {
			i := idx - k
			if i < 0 {
				break
			}

			if i < len(input) {
				y += c * input[i]
			}
		}

		out[j] = y
	}

	return out
}

// OutputLen returns ceil(n*up/down), the length Process produces for n
// input samples.
func (r *Resampler) OutputLen(n int) int {
	if n <= 0 {
		return 0
	}

	return (n*r.up + r.down - 1) / r.down
}

// Ratio returns the reduced up/down factors.
func (r *Resampler) Ratio() (up, down int) {
	return r.up, r.down
}

// TapsPerPhase returns the length of the longest polyphase branch.
func (r *Resampler) TapsPerPhase() int {
	n := 0
	for _, p := range r.phases {
		n = max(n, len(p))
	}

	return n
}

func validRate(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 0)
}
