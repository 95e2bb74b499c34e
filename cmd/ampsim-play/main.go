// Command ampsim-play plays a test signal or a looped WAV file through the
// amp engine on the default audio device. Parameters are adjusted live from
// the keyboard.
//
// Usage:
//
//	ampsim-play [flags] [input.wav]
//
// Without an input file a tone or a repeating log sweep is played.
//
// Examples:
//
//	ampsim-play -signal sweep
//	ampsim-play -signal tone -freq 220
//	ampsim-play -cabinet cab.wav guitar.wav
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/cwbudde/algo-ampsim/dsp/amp"
	"github.com/cwbudde/algo-ampsim/dsp/core"
	"github.com/cwbudde/algo-ampsim/dsp/ir"
	"github.com/ebitengine/oto/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

type options struct {
	input     string
	cabinet   string
	signal    string
	freq      float64
	level     float64
	rate      int
	blockSize int
	duration  time.Duration
	verbose   bool
}

func main() {
	var opts options

	flag.StringVar(&opts.cabinet, "cabinet", "", "cabinet impulse response WAV; enables amp simulation")
	flag.StringVar(&opts.signal, "signal", "sweep", "test signal when no input file is given: sweep or tone")
	flag.Float64Var(&opts.freq, "freq", 440, "tone frequency in Hz")
	flag.Float64Var(&opts.level, "level", 0.25, "input level (linear)")
	flag.IntVar(&opts.rate, "rate", 48000, "sample rate for test signals")
	flag.IntVar(&opts.blockSize, "block", 256, "processing block size in frames")
	flag.DurationVar(&opts.duration, "duration", 0, "stop after this long; 0 plays until quit")
	flag.BoolVar(&opts.verbose, "v", false, "verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ampsim-play [flags] [input.wav]\n\n")
		fmt.Fprintf(os.Stderr, "Plays audio through the amp engine in real time.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\n%s\n", keyHelp)
	}
	flag.Parse()

	opts.input = flag.Arg(0)

	if opts.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := run(opts); err != nil {
		logrus.WithError(err).Error("Playback failed")
		os.Exit(1)
	}
}

func run(opts options) error {
	src, sampleRate, err := openSource(opts)
	if err != nil {
		return err
	}

	var engineOpts []amp.Option

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

	spec := core.NewSpec(
		core.WithSampleRate(float64(sampleRate)),
		core.WithMaxBlockSize(opts.blockSize),
		core.WithChannels(amp.NumChannels),
	)

	if err := engine.Prepare(spec); err != nil {
		return err
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: amp.NumChannels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(opts.blockSize) * time.Second / time.Duration(sampleRate),
	})
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(newStream(engine, src))
	defer player.Close()

	player.Play()

	logrus.WithFields(logrus.Fields{
		"function":    "run",
		"sample_rate": sampleRate,
		"block_size":  opts.blockSize,
		"latency":     engine.Latency(),
	}).Info("Playing")

	return control(engine.Params(), opts.duration)
}

func openSource(opts options) (source, int, error) {
	if opts.input != "" {
		resp, err := ir.LoadWAV(opts.input, ir.WithMaxLength(0), ir.WithNormalize(false))
		if err != nil {
			return nil, 0, err
		}

		src, err := newLoopSource(resp, opts.level)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", opts.input, err)
		}

		return src, int(resp.SampleRate), nil
	}

	switch opts.signal {
	case "tone":
		return newToneSource(opts.freq, float64(opts.rate), opts.level), opts.rate, nil
	case "sweep":
		src, err := newSweepSource(float64(opts.rate), 5, opts.level)
		return src, opts.rate, err
	default:
		return nil, 0, fmt.Errorf("unknown signal %q", opts.signal)
	}
}

// control reads keys until quit, interrupt or the optional timeout. Without
// a terminal on stdin it only waits.
func control(store *amp.ParamStore, duration time.Duration) error {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	var timeout <-chan time.Time
	if duration > 0 {
		timer := time.NewTimer(duration)
		defer timer.Stop()
		timeout = timer.C
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		select {
		case <-interrupt:
		case <-timeout:
		}

		return nil
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw terminal: %w", err)
	}
	defer func() { _ = term.Restore(fd, state) }()

	keys := make(chan byte)
	stop := make(chan struct{})
	defer close(stop)

	go readKeys(os.Stdin, keys, stop)

	printStatus(keyHelp)
	printStatus(formatParams(store.Snapshot()))

	for {
		select {
		case <-interrupt:
			return nil
		case <-timeout:
			return nil
		case key, ok := <-keys:
			if !ok {
				return nil
			}

			status, keepGoing := handleKey(store, key)
			if !keepGoing {
				return nil
			}

			if status != "" {
				printStatus(status)
			}
		}
	}
}

func readKeys(r io.Reader, keys chan<- byte, stop <-chan struct{}) {
	defer close(keys)

	buf := make([]byte, 1)

	for {
		n, err := r.Read(buf)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logrus.WithError(err).Debug("Keyboard read stopped")
			}

			return
		}

		if n == 0 {
			continue
		}

		select {
		case keys <- buf[0]:
		case <-stop:
			return
		}
	}
}

// printStatus writes text line by line. Raw mode needs explicit carriage
// returns.
func printStatus(line string) {
	for _, l := range strings.Split(line, "\n") {
		fmt.Fprintf(os.Stderr, "%s\r\n", l)
	}
}
