package main

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-ampsim/dsp/amp"
)

// Frequencies move by a semitone per key press.
const semitone = 1.0594630943592953

type binding struct {
	id   string
	up   bool
	freq bool
}

var keymap = map[byte]binding{
	'q': {id: amp.IDLowCutFreq, up: true, freq: true},
	'a': {id: amp.IDLowCutFreq, freq: true},
	'w': {id: amp.IDHighCutFreq, up: true, freq: true},
	's': {id: amp.IDHighCutFreq, freq: true},
	'e': {id: amp.IDPeakFreq, up: true, freq: true},
	'd': {id: amp.IDPeakFreq, freq: true},
	'r': {id: amp.IDPeakGain, up: true},
	'f': {id: amp.IDPeakGain},
	't': {id: amp.IDPeakQuality, up: true},
	'g': {id: amp.IDPeakQuality},
	'y': {id: amp.IDLowCutSlope, up: true},
	'h': {id: amp.IDLowCutSlope},
	'u': {id: amp.IDHighCutSlope, up: true},
	'j': {id: amp.IDHighCutSlope},
}

const keyHelp = `keys:
  q/a  low cut freq     w/s  high cut freq
  e/d  peak freq        r/f  peak gain
  t/g  peak quality     y/h  low cut slope
  u/j  high cut slope   p    show parameters
  0    reset            x    quit`

// handleKey applies key to store and returns a status line. The boolean is
// false when the key asks to quit.
func handleKey(store *amp.ParamStore, key byte) (string, bool) {
	switch key {
	case 'x', 'X', 3, 27:
		return "", false
	case 'p':
		return formatParams(store.Snapshot()), true
	case '0':
		store.Store(amp.DefaultParameters())
		return formatParams(store.Snapshot()), true
	}

	b, ok := keymap[key]
	if !ok {
		return "", true
	}

	info, _ := amp.LookupParam(b.id)
	delta := info.Step

	if b.freq {
		cur, err := store.Get(b.id)
		if err != nil {
			return err.Error(), true
		}

		if b.up {
			delta = cur * (semitone - 1)
		} else {
			delta = cur * (1/semitone - 1)
		}
	} else if !b.up {
		delta = -delta
	}

	v, err := store.Nudge(b.id, delta)
	if err != nil {
		return err.Error(), true
	}

	if info.IsChoice() {
		return fmt.Sprintf("%s: %s", b.id, amp.Slope(int(v)).String()), true
	}

	return fmt.Sprintf("%s: %.2f", b.id, v), true
}

func formatParams(p amp.Parameters) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "low cut %.0f Hz %s | ", p.LowCutFreq, p.LowCutSlope)
	fmt.Fprintf(&sb, "peak %.0f Hz %+.1f dB Q %.2f | ", p.PeakFreq, p.PeakGainDB, p.PeakQuality)
	fmt.Fprintf(&sb, "high cut %.0f Hz %s", p.HighCutFreq, p.HighCutSlope)

	return sb.String()
}
