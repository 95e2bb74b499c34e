package amp

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-ampsim/dsp/core"
	"github.com/cwbudde/algo-ampsim/dsp/effects"
	"github.com/cwbudde/algo-ampsim/dsp/filter/biquad"
	"github.com/cwbudde/algo-ampsim/dsp/ir"
)

// NumChannels is the only channel count the engine prepares for.
const NumChannels = 2

// ErrUnsupportedChannels is returned by Prepare for channel counts other
// than NumChannels.
var ErrUnsupportedChannels = errors.New("amp: engine requires exactly 2 channels")

// Option configures an Engine.
type Option func(*config) error

type config struct {
	response       *ir.Response
	distortionOpts []effects.DistortionOption
	cabinetOpts    []effects.CabinetOption
	logger         logrus.FieldLogger
	params         *ParamStore
}

func defaultConfig() config {
	return config{logger: logrus.StandardLogger()}
}

// WithAmpSimulation appends distortion and cabinet stages to both chains. The
// left chain convolves with channel 0 of resp and the right chain with
// channel 1; a mono response feeds both.
func WithAmpSimulation(resp *ir.Response) Option {
	return func(cfg *config) error {
		if resp.Len() == 0 {
			return effects.ErrMissingImpulseResponse
		}

		cfg.response = resp

		return nil
	}
}

// WithDistortionOptions configures the distortion stage of the amp path.
func WithDistortionOptions(opts ...effects.DistortionOption) Option {
	return func(cfg *config) error {
		cfg.distortionOpts = append(cfg.distortionOpts, opts...)
		return nil
	}
}

// WithCabinetOptions configures the cabinet stage of the amp path.
func WithCabinetOptions(opts ...effects.CabinetOption) Option {
	return func(cfg *config) error {
		cfg.cabinetOpts = append(cfg.cabinetOpts, opts...)
		return nil
	}
}

// WithLogger sets the logger used at construction and Prepare.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(cfg *config) error {
		if logger == nil {
			return errors.New("amp: logger must not be nil")
		}

		cfg.logger = logger

		return nil
	}
}

// WithParamStore shares an existing parameter store with the engine.
func WithParamStore(store *ParamStore) Option {
	return func(cfg *config) error {
		if store == nil {
			return errors.New("amp: param store must not be nil")
		}

		cfg.params = store

		return nil
	}
}

// Engine drives two coefficient-synchronized channel chains.
type Engine struct {
	log    logrus.FieldLogger
	params *ParamStore

	left  *Channel
	right *Channel

	spec     core.Spec
	prepared bool

	coeffs     CoefficientSet
	lastParams Parameters
	haveParams bool

	planar [NumChannels][]float64
}

// New builds an engine. The chains are not usable until Prepare.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if cfg.params == nil {
		cfg.params = NewParamStore()
	}

	e := &Engine{log: cfg.logger, params: cfg.params}

	if cfg.response == nil {
		e.left = NewChannel(nil, nil)
		e.right = NewChannel(nil, nil)
	} else {
		var chains [NumChannels]*Channel

		for ch := range chains {
			dist, err := effects.NewDistortion(cfg.distortionOpts...)
			if err != nil {
				return nil, fmt.Errorf("amp: distortion: %w", err)
			}

			cab, err := effects.NewCabinet(cfg.response, ch, cfg.cabinetOpts...)
			if err != nil {
				return nil, fmt.Errorf("amp: cabinet: %w", err)
			}

			chains[ch] = NewChannel(dist, cab)
		}

		e.left, e.right = chains[0], chains[1]
	}

	e.log.WithFields(logrus.Fields{
		"function":       "New",
		"amp_simulation": cfg.response != nil,
		"ir_channels":    cfg.response.NumChannels(),
		"ir_length":      cfg.response.Len(),
	}).Debug("Created amp engine")

	return e, nil
}

// Prepare sizes every buffer for spec and clears state. It must be called
// before Process and again whenever the sample rate or block size changes.
func (e *Engine) Prepare(spec core.Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	if spec.NumChannels != NumChannels {
		return fmt.Errorf("%w: got %d", ErrUnsupportedChannels, spec.NumChannels)
	}

	e.prepared = false

	for _, ch := range []*Channel{e.left, e.right} {
		if err := ch.Prepare(spec); err != nil {
			return fmt.Errorf("amp: prepare channel: %w", err)
		}
	}

	for i := range e.planar {
		e.planar[i] = make([]float64, spec.MaxBlockSize)
	}

	e.spec = spec
	e.haveParams = false
	e.prepared = true

	e.log.WithFields(logrus.Fields{
		"function":       "Engine.Prepare",
		"sample_rate":    spec.SampleRate,
		"max_block_size": spec.MaxBlockSize,
		"biquad_kernel":  biquad.KernelName(),
		"latency":        e.Latency(),
	}).Info("Prepared amp engine")

	return nil
}

// Process runs buffer through the chains in place using the store's current
// values. buffer is planar: buffer[ch][frame].
func (e *Engine) Process(buffer [][]float64) {
	e.ProcessWithParameters(buffer, e.params.Snapshot())
}

// ProcessWithParameters is Process with an explicit parameter snapshot.
//
// An unprepared engine leaves buffer untouched. A single channel runs
// through the left chain; channels beyond the second are silenced. Frames
// beyond the prepared block size are processed in slices.
func (e *Engine) ProcessWithParameters(buffer [][]float64, p Parameters) {
	if !e.prepared || len(buffer) == 0 {
		return
	}

	e.update(p)

	for ch := NumChannels; ch < len(buffer); ch++ {
		clear(buffer[ch])
	}

	chains := [NumChannels]*Channel{e.left, e.right}
	for ch := 0; ch < min(len(buffer), NumChannels); ch++ {
		block := buffer[ch]
		for len(block) > 0 {
			n := min(len(block), e.spec.MaxBlockSize)
			chains[ch].Process(block[:n])
			block = block[n:]
		}
	}
}

// ProcessInterleaved processes interleaved stereo float32 frames in place.
// A trailing partial frame is left untouched.
func (e *Engine) ProcessInterleaved(buf []float32) {
	if !e.prepared {
		return
	}

	frames := len(buf) / NumChannels
	p := e.params.Snapshot()

	for start := 0; start < frames; start += e.spec.MaxBlockSize {
		n := min(frames-start, e.spec.MaxBlockSize)
		left, right := e.planar[0][:n], e.planar[1][:n]

		for i := range n {
			left[i] = float64(buf[(start+i)*NumChannels])
			right[i] = float64(buf[(start+i)*NumChannels+1])
		}

		e.update(p)
		e.left.Process(left)
		e.right.Process(right)

		for i := range n {
			buf[(start+i)*NumChannels] = float32(left[i])
			buf[(start+i)*NumChannels+1] = float32(right[i])
		}
	}
}

// update designs coefficients once and copies them into both chains.
func (e *Engine) update(p Parameters) {
	if !e.haveParams || p != e.lastParams {
		e.coeffs.Design(p, e.spec.SampleRate)
		e.lastParams = p
		e.haveParams = true
	}

	e.left.ApplyCoefficients(&e.coeffs)
	e.right.ApplyCoefficients(&e.coeffs)
}

// Reset clears the state of both chains.
func (e *Engine) Reset() {
	e.left.Reset()
	e.right.Reset()
}

// Spec returns the prepared spec.
func (e *Engine) Spec() core.Spec { return e.spec }

// Prepared reports whether Prepare has succeeded.
func (e *Engine) Prepared() bool { return e.prepared }

// Params returns the live parameter store.
func (e *Engine) Params() *ParamStore { return e.params }

// Coefficients returns the last designed coefficient set.
func (e *Engine) Coefficients() CoefficientSet { return e.coeffs }

// Latency returns the engine delay in samples.
func (e *Engine) Latency() int { return e.left.Latency() }

// Left returns the left chain.
func (e *Engine) Left() *Channel { return e.left }

// Right returns the right chain.
func (e *Engine) Right() *Channel { return e.right }
