// Command ampsim-render runs a WAV file or a generated log sweep through the
// amp engine and writes the processed stereo result.
//
// Usage:
//
//	ampsim-render [flags] -out output.wav [input.wav]
//
// Without an input file a logarithmic sweep is rendered. With -ir-out the
// sweep response of the left channel is deconvolved and written as an
// impulse response.
//
// Examples:
//
//	ampsim-render -out out.wav guitar.wav
//	ampsim-render -preset crunch.json -cabinet cab.wav -out out.wav guitar.wav
//	ampsim-render -peak-gain 6 -lowcut-slope 48 -out sweep.wav -ir-out ir.wav
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-ampsim/dsp/amp"
	"github.com/cwbudde/algo-ampsim/dsp/core"
	"github.com/cwbudde/algo-ampsim/dsp/ir"
	"github.com/cwbudde/algo-ampsim/measure/sweep"
	"github.com/sirupsen/logrus"
)

type options struct {
	input     string
	output    string
	irOutput  string
	preset    string
	cabinet   string
	blockSize int
	bitDepth  int
	verbose   bool

	sampleRate    float64
	sweepDuration float64
	irLength      int

	overrides map[string]float64
}

func main() {
	opts := options{overrides: make(map[string]float64)}

	flag.StringVar(&opts.output, "out", "", "output WAV path (required)")
	flag.StringVar(&opts.irOutput, "ir-out", "", "write the deconvolved sweep response to this WAV path")
	flag.StringVar(&opts.preset, "preset", "", "JSON file mapping parameter IDs to values")
	flag.StringVar(&opts.cabinet, "cabinet", "", "cabinet impulse response WAV; enables amp simulation")
	flag.IntVar(&opts.blockSize, "block", 512, "processing block size in frames")
	flag.IntVar(&opts.bitDepth, "bits", 24, "output bit depth (16, 24 or 32)")
	flag.Float64Var(&opts.sampleRate, "rate", 48000, "sample rate for the generated sweep")
	flag.Float64Var(&opts.sweepDuration, "sweep", 3, "generated sweep duration in seconds")
	flag.IntVar(&opts.irLength, "ir-length", 8192, "length of the deconvolved impulse response")
	flag.BoolVar(&opts.verbose, "v", false, "verbose logging")

	for _, info := range amp.ParamInfos() {
		flag.Func(flagName(info.ID), fmt.Sprintf("override %q (%g..%g)", info.ID, info.Min, info.Max), func(s string) error {
			v, err := parseParamValue(info, s)
			if err != nil {
				return err
			}

			opts.overrides[info.ID] = v

			return nil
		})
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ampsim-render [flags] -out output.wav [input.wav]\n\n")
		fmt.Fprintf(os.Stderr, "Renders audio through the amp engine.\n")
		fmt.Fprintf(os.Stderr, "Without an input file a logarithmic sweep is rendered.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  ampsim-render -out out.wav guitar.wav\n")
		fmt.Fprintf(os.Stderr, "  ampsim-render -preset crunch.json -cabinet cab.wav -out out.wav guitar.wav\n")
		fmt.Fprintf(os.Stderr, "  ampsim-render -peak-gain 6 -lowcut-slope 48 -out sweep.wav -ir-out ir.wav\n")
	}
	flag.Parse()

	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}

	opts.input = flag.Arg(0)

	if opts.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := run(opts); err != nil {
		logrus.WithError(err).Error("Render failed")
		os.Exit(1)
	}
}

func run(opts options) error {
	if opts.output == "" {
		return errors.New("missing -out path")
	}

	if opts.irOutput != "" && opts.input != "" {
		return errors.New("-ir-out requires a generated sweep; drop the input file")
	}

	store := amp.NewParamStore()

	if opts.preset != "" {
		if err := loadPreset(opts.preset, store); err != nil {
			return err
		}
	}

	for id, v := range opts.overrides {
		if err := store.Set(id, v); err != nil {
			return err
		}
	}

	engineOpts := []amp.Option{amp.WithParamStore(store)}

	if opts.cabinet != "" {
		cab, err := ir.LoadWAV(opts.cabinet)
		if err != nil {
			return err
		}

		engineOpts = append(engineOpts, amp.WithAmpSimulation(cab))
	}

	engine, err := amp.New(engineOpts...)
	if err != nil {
		return err
	}

	var (
		source *ir.Response
		sw     *sweep.LogSweep
	)

	if opts.input != "" {
		source, err = ir.LoadWAV(opts.input, ir.WithMaxLength(0), ir.WithNormalize(false))
		if err != nil {
			return err
		}
	} else {
		sw, source, err = generateSweep(opts.sampleRate, opts.sweepDuration)
		if err != nil {
			return err
		}
	}

	spec := core.NewSpec(
		core.WithSampleRate(source.SampleRate),
		core.WithMaxBlockSize(opts.blockSize),
		core.WithChannels(amp.NumChannels),
	)

	if err := engine.Prepare(spec); err != nil {
		return err
	}

	left, right := render(engine, source)

	logrus.WithFields(logrus.Fields{
		"function":    "run",
		"input":       inputLabel(opts.input),
		"frames":      len(left),
		"sample_rate": source.SampleRate,
		"params":      fmt.Sprintf("%+v", store.Snapshot()),
	}).Info("Rendered audio")

	if err := writeWAV(opts.output, int(source.SampleRate), opts.bitDepth, left, right); err != nil {
		return err
	}

	if opts.irOutput != "" {
		resp, err := sw.ImpulseResponse(left, opts.irLength)
		if err != nil {
			return fmt.Errorf("deconvolve sweep: %w", err)
		}

		if err := writeWAV(opts.irOutput, int(source.SampleRate), opts.bitDepth, resp); err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"function": "run",
			"path":     opts.irOutput,
			"length":   len(resp),
		}).Info("Wrote impulse response")
	}

	return nil
}

// render processes src through engine in place on a stereo copy. A mono
// source feeds both channels.
func render(engine *amp.Engine, src *ir.Response) (left, right []float64) {
	left = append([]float64(nil), src.Channel(0)...)
	right = append([]float64(nil), src.Channel(1)...)

	engine.Process([][]float64{left, right})

	return left, right
}

func generateSweep(sampleRate, duration float64) (*sweep.LogSweep, *ir.Response, error) {
	sw := &sweep.LogSweep{
		StartFreq:  20,
		EndFreq:    sampleRate / 2 * 0.95,
		Duration:   duration,
		SampleRate: sampleRate,
		Amplitude:  0.5,
		Fade:       0.01,
	}

	signal, err := sw.Generate()
	if err != nil {
		return nil, nil, fmt.Errorf("generate sweep: %w", err)
	}

	src, err := ir.New(sampleRate, signal)
	if err != nil {
		return nil, nil, err
	}

	return sw, src, nil
}

func inputLabel(path string) string {
	if path == "" {
		return "log sweep"
	}

	return path
}
