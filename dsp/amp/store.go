package amp

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
)

// ErrUnknownParameter is returned for IDs not in the parameter table.
var ErrUnknownParameter = errors.New("amp: unknown parameter")

// ParamStore holds the live control values. Each value is an atomic float64
// bit pattern, so writers on any goroutine never block the audio goroutine.
// A snapshot reads each value atomically; values written concurrently with a
// snapshot may land in this block or the next.
type ParamStore struct {
	values [numParams]atomic.Uint64
}

// NewParamStore returns a store initialized to DefaultParameters.
func NewParamStore() *ParamStore {
	s := &ParamStore{}
	s.Store(DefaultParameters())

	return s
}

func (s *ParamStore) load(i int) float64 {
	return math.Float64frombits(s.values[i].Load())
}

func (s *ParamStore) store(i int, v float64) {
	s.values[i].Store(math.Float64bits(v))
}

// Snapshot returns the current values. It does not allocate. The result is
// not sanitized.
func (s *ParamStore) Snapshot() Parameters {
	return Parameters{
		LowCutFreq:   s.load(paramLowCutFreq),
		HighCutFreq:  s.load(paramHighCutFreq),
		PeakFreq:     s.load(paramPeakFreq),
		PeakGainDB:   s.load(paramPeakGain),
		PeakQuality:  s.load(paramPeakQuality),
		LowCutSlope:  slopeFromValue(s.load(paramLowCutSlope)),
		HighCutSlope: slopeFromValue(s.load(paramHighCutSlope)),
	}
}

// Store publishes every field of p.
func (s *ParamStore) Store(p Parameters) {
	s.store(paramLowCutFreq, p.LowCutFreq)
	s.store(paramHighCutFreq, p.HighCutFreq)
	s.store(paramPeakFreq, p.PeakFreq)
	s.store(paramPeakGain, p.PeakGainDB)
	s.store(paramPeakQuality, p.PeakQuality)
	s.store(paramLowCutSlope, float64(p.LowCutSlope))
	s.store(paramHighCutSlope, float64(p.HighCutSlope))
}

// SetLowCutFreq sets the low-cut frequency in Hz.
func (s *ParamStore) SetLowCutFreq(hz float64) { s.store(paramLowCutFreq, hz) }

// SetHighCutFreq sets the high-cut frequency in Hz.
func (s *ParamStore) SetHighCutFreq(hz float64) { s.store(paramHighCutFreq, hz) }

// SetPeakFreq sets the peak centre frequency in Hz.
func (s *ParamStore) SetPeakFreq(hz float64) { s.store(paramPeakFreq, hz) }

// SetPeakGainDB sets the peak gain in dB.
func (s *ParamStore) SetPeakGainDB(db float64) { s.store(paramPeakGain, db) }

// SetPeakQuality sets the peak Q.
func (s *ParamStore) SetPeakQuality(q float64) { s.store(paramPeakQuality, q) }

// SetLowCutSlope sets the low-cut slope.
func (s *ParamStore) SetLowCutSlope(slope Slope) { s.store(paramLowCutSlope, float64(slope)) }

// SetHighCutSlope sets the high-cut slope.
func (s *ParamStore) SetHighCutSlope(slope Slope) { s.store(paramHighCutSlope, float64(slope)) }

// Set assigns a value by parameter ID. Slopes take the choice index 0..3.
func (s *ParamStore) Set(id string, value float64) error {
	i, ok := paramIndex[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, id)
	}

	s.store(i, value)

	return nil
}

// Get returns a value by parameter ID.
func (s *ParamStore) Get(id string) (float64, error) {
	i, ok := paramIndex[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, id)
	}

	return s.load(i), nil
}

// Nudge adds delta to the parameter, clamped to its range, and returns the
// new value.
func (s *ParamStore) Nudge(id string, delta float64) (float64, error) {
	i, ok := paramIndex[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, id)
	}

	info := paramTable[i]

	for {
		oldBits := s.values[i].Load()
		v := math.Float64frombits(oldBits) + delta
		v = min(max(v, info.Min), info.Max)

		if s.values[i].CompareAndSwap(oldBits, math.Float64bits(v)) {
			return v, nil
		}
	}
}

func slopeFromValue(v float64) Slope {
	if math.IsNaN(v) {
		return Slope12
	}

	return Slope(math.Round(min(max(v, 0), 3)))
}
