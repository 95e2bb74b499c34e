package amp

import (
	"github.com/cwbudde/algo-ampsim/dsp/core"
)

// Parameter IDs as exposed to hosts and presets.
const (
	IDLowCutFreq   = "LowCut Freq"
	IDHighCutFreq  = "HighCut Freq"
	IDPeakFreq     = "Peak Freq"
	IDPeakGain     = "Peak Gain"
	IDPeakQuality  = "Peak Quality"
	IDLowCutSlope  = "LowCut Slope"
	IDHighCutSlope = "HighCut Slope"
)

// Parameter ranges.
const (
	MinFrequency   = 20.0
	MaxFrequency   = 20000.0
	MinPeakGainDB  = -24.0
	MaxPeakGainDB  = 24.0
	MinPeakQuality = 0.1
	MaxPeakQuality = 10.0
)

// Parameters is one snapshot of the control values.
type Parameters struct {
	LowCutFreq   float64
	HighCutFreq  float64
	PeakFreq     float64
	PeakGainDB   float64
	PeakQuality  float64
	LowCutSlope  Slope
	HighCutSlope Slope
}

// DefaultParameters returns a flat response: cuts at the band edges with the
// gentlest slope and a 0 dB peak.
func DefaultParameters() Parameters {
	return Parameters{
		LowCutFreq:   20,
		HighCutFreq:  20000,
		PeakFreq:     750,
		PeakGainDB:   0,
		PeakQuality:  1,
		LowCutSlope:  Slope12,
		HighCutSlope: Slope12,
	}
}

// Sanitize clamps every field into its range. NaN and infinite values are
// replaced by the default.
func (p Parameters) Sanitize() Parameters {
	def := DefaultParameters()

	p.LowCutFreq = core.ClampFinite(p.LowCutFreq, MinFrequency, MaxFrequency, def.LowCutFreq)
	p.HighCutFreq = core.ClampFinite(p.HighCutFreq, MinFrequency, MaxFrequency, def.HighCutFreq)
	p.PeakFreq = core.ClampFinite(p.PeakFreq, MinFrequency, MaxFrequency, def.PeakFreq)
	p.PeakGainDB = core.ClampFinite(p.PeakGainDB, MinPeakGainDB, MaxPeakGainDB, def.PeakGainDB)
	p.PeakQuality = core.ClampFinite(p.PeakQuality, MinPeakQuality, MaxPeakQuality, def.PeakQuality)
	p.LowCutSlope = p.LowCutSlope.Clamp()
	p.HighCutSlope = p.HighCutSlope.Clamp()

	return p
}

// ParamInfo describes one host-visible parameter.
type ParamInfo struct {
	ID      string
	Min     float64
	Max     float64
	Default float64
	Step    float64
	// Skew is the range skew factor hosts use for knob mapping; 1 is linear.
	Skew    float64
	Choices []string
}

// IsChoice reports whether the parameter is an enumerated choice.
func (i ParamInfo) IsChoice() bool { return len(i.Choices) > 0 }

// Parameter slots in store order.
const (
	paramLowCutFreq = iota
	paramHighCutFreq
	paramPeakFreq
	paramPeakGain
	paramPeakQuality
	paramLowCutSlope
	paramHighCutSlope
	numParams
)

var paramTable = [numParams]ParamInfo{
	paramLowCutFreq:   {ID: IDLowCutFreq, Min: MinFrequency, Max: MaxFrequency, Default: 20, Step: 1, Skew: 0.5},
	paramHighCutFreq:  {ID: IDHighCutFreq, Min: MinFrequency, Max: MaxFrequency, Default: 20000, Step: 1, Skew: 0.5},
	paramPeakFreq:     {ID: IDPeakFreq, Min: MinFrequency, Max: MaxFrequency, Default: 750, Step: 1, Skew: 0.5},
	paramPeakGain:     {ID: IDPeakGain, Min: MinPeakGainDB, Max: MaxPeakGainDB, Default: 0, Step: 0.5, Skew: 1},
	paramPeakQuality:  {ID: IDPeakQuality, Min: MinPeakQuality, Max: MaxPeakQuality, Default: 1, Step: 0.05, Skew: 1},
	paramLowCutSlope:  {ID: IDLowCutSlope, Min: 0, Max: 3, Default: 0, Step: 1, Skew: 1, Choices: slopeLabels[:]},
	paramHighCutSlope: {ID: IDHighCutSlope, Min: 0, Max: 3, Default: 0, Step: 1, Skew: 1, Choices: slopeLabels[:]},
}

var paramIndex = func() map[string]int {
	m := make(map[string]int, numParams)
	for i, info := range paramTable {
		m[info.ID] = i
	}

	return m
}()

// ParamInfos returns the parameter table in host order.
func ParamInfos() []ParamInfo {
	out := make([]ParamInfo, numParams)
	copy(out, paramTable[:])

	return out
}

// LookupParam returns the description of the parameter with the given ID.
func LookupParam(id string) (ParamInfo, bool) {
	i, ok := paramIndex[id]
	if !ok {
		return ParamInfo{}, false
	}

	return paramTable[i], true
}
