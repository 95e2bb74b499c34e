package ir

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// DefaultMaxLength is the default truncation length in samples.
const DefaultMaxLength = 1024

// DefaultSilenceThreshold is the absolute level below which leading samples
// are considered silent when trimming is enabled.
const DefaultSilenceThreshold = 1e-4

var (
	// ErrInvalidWAV is returned when the input is not a readable PCM WAV stream.
	ErrInvalidWAV = errors.New("ir: invalid wav data")
	// ErrEmptyResponse is returned when decoding yields no samples.
	ErrEmptyResponse = errors.New("ir: empty impulse response")
	// ErrInvalidSampleRate is returned when a response has a non-positive rate.
	ErrInvalidSampleRate = errors.New("ir: invalid sample rate")
)

// Response is a decoded multi-channel impulse response.
type Response struct {
	SampleRate float64
	Channels   [][]float64
}

// New builds a Response from already decoded channel data. Each channel is
// copied.
func New(sampleRate float64, channels ...[]float64) (*Response, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	if len(channels) == 0 || len(channels[0]) == 0 {
		return nil, ErrEmptyResponse
	}

	resp := &Response{SampleRate: sampleRate, Channels: make([][]float64, len(channels))}
	for i, ch := range channels {
		resp.Channels[i] = append([]float64(nil), ch...)
	}

	return resp, nil
}

// NumChannels returns the number of channels.
func (r *Response) NumChannels() int {
	if r == nil {
		return 0
	}

	return len(r.Channels)
}

// Len returns the length of the longest channel.
func (r *Response) Len() int {
	if r == nil {
		return 0
	}

	n := 0
	for _, ch := range r.Channels {
		n = max(n, len(ch))
	}

	return n
}

// Channel returns channel i. Out-of-range indices are clamped, so a mono
// response serves every requested channel.
func (r *Response) Channel(i int) []float64 {
	if r.NumChannels() == 0 {
		return nil
	}

	i = min(max(i, 0), len(r.Channels)-1)

	return r.Channels[i]
}

// Option configures decoding.
type Option func(*config)

type config struct {
	maxLength        int
	normalize        bool
	trimSilence      bool
	silenceThreshold float64
}

func defaultConfig() config {
	return config{
		maxLength:        DefaultMaxLength,
		normalize:        true,
		silenceThreshold: DefaultSilenceThreshold,
	}
}

// WithMaxLength truncates every channel to n samples. n <= 0 disables
// truncation.
func WithMaxLength(n int) Option {
	return func(c *config) { c.maxLength = n }
}

// WithNormalize enables or disables peak normalization to 1.0.
func WithNormalize(enabled bool) Option {
	return func(c *config) { c.normalize = enabled }
}

// WithTrimSilence drops leading samples whose magnitude is below threshold in
// every channel. A non-positive threshold uses DefaultSilenceThreshold.
func WithTrimSilence(threshold float64) Option {
	return func(c *config) {
		c.trimSilence = true
		if threshold > 0 {
			c.silenceThreshold = threshold
		}
	}
}

// LoadWAV opens and decodes the WAV file at path.
func LoadWAV(path string, opts ...Option) (*Response, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ir: open %s: %w", path, err)
	}
	defer f.Close()

	resp, err := Decode(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("ir: decode %s: %w", path, err)
	}

	return resp, nil
}

// Decode reads a PCM WAV stream and returns the conditioned response.
func Decode(r io.ReadSeeker, opts ...Option) (*Response, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidWAV, err)
		}

		return nil, ErrInvalidWAV
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWAV, err)
	}

	channels := deinterleave(buf, int(dec.NumChans), int(dec.BitDepth))
	if len(channels) == 0 || len(channels[0]) == 0 {
		return nil, ErrEmptyResponse
	}

	resp := &Response{SampleRate: float64(dec.SampleRate), Channels: channels}
	resp.condition(cfg)

	return resp, nil
}

// Condition applies trimming, truncation and normalization in place.
func (r *Response) Condition(opts ...Option) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	r.condition(cfg)
}

func (r *Response) condition(cfg config) {
	if cfg.trimSilence {
		r.trimLeading(cfg.silenceThreshold)
	}

	if cfg.maxLength > 0 {
		for i, ch := range r.Channels {
			if len(ch) > cfg.maxLength {
				r.Channels[i] = ch[:cfg.maxLength]
			}
		}
	}

	if cfg.normalize {
		r.Normalize()
	}
}

// Normalize scales all channels by a common factor so the largest absolute
// sample is 1. Silent responses are left untouched.
func (r *Response) Normalize() {
	peak := 0.0
	for _, ch := range r.Channels {
		peak = max(peak, vecmath.MaxAbs(ch))
	}

	if peak == 0 || math.IsNaN(peak) || math.IsInf(peak, 0) {
		return
	}

	for _, ch := range r.Channels {
		vecmath.ScaleBlockInPlace(ch, 1/peak)
	}
}

func (r *Response) trimLeading(threshold float64) {
	start := r.Len()
	for _, ch := range r.Channels {
		for i, v := range ch {
			if math.Abs(v) >= threshold {
				start = min(start, i)
				break
			}
		}
	}

	if start == 0 || start >= r.Len() {
		return
	}

	for i, ch := range r.Channels {
		if start < len(ch) {
			r.Channels[i] = ch[start:]
		} else {
			r.Channels[i] = ch[:0]
		}
	}
}

func deinterleave(buf *audio.IntBuffer, numChans, bitDepth int) [][]float64 {
	if buf == nil || numChans < 1 {
		return nil
	}

	frames := len(buf.Data) / numChans
	channels := make([][]float64, numChans)
	for ch := range channels {
		channels[ch] = make([]float64, frames)
	}

	scale, offset := sampleScale(bitDepth)
	for i := 0; i < frames; i++ {
		base := i * numChans
		for ch := 0; ch < numChans; ch++ {
			channels[ch][i] = (float64(buf.Data[base+ch]) - offset) * scale
		}
	}

	return channels
}

// sampleScale maps integer PCM of the given depth to [-1, 1). 8-bit WAV data
// is unsigned and centred on 128.
func sampleScale(bitDepth int) (scale, offset float64) {
	if bitDepth <= 8 {
		return 1.0 / 128, 128
	}

	return 1 / math.Ldexp(1, bitDepth-1), 0
}
