package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-ampsim/dsp/amp"
)

// flagName turns a parameter ID such as "Peak Gain" into "peak-gain".
func flagName(id string) string {
	return strings.ReplaceAll(strings.ToLower(id), " ", "-")
}

// parseParamValue parses s for the given parameter. Slopes accept a dB
// figure ("24") or a label ("24 db/Oct").
func parseParamValue(info amp.ParamInfo, s string) (float64, error) {
	s = strings.TrimSpace(s)

	if !info.IsChoice() {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", info.ID, err)
		}

		return v, nil
	}

	for i, label := range info.Choices {
		if strings.EqualFold(label, s) {
			return float64(i), nil
		}
	}

	db, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(s), "db"))
	if err != nil {
		return 0, fmt.Errorf("%s: unknown choice %q", info.ID, s)
	}

	slope, err := amp.SlopeFromDB(db)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", info.ID, err)
	}

	return float64(slope), nil
}

// loadPreset reads a JSON object mapping parameter IDs to values into store.
// Values may be numbers or strings; choice parameters also take labels.
func loadPreset(path string, store *amp.ParamStore) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read preset: %w", err)
	}

	return applyPreset(data, store)
}

func applyPreset(data []byte, store *amp.ParamStore) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse preset: %w", err)
	}

	for id, msg := range raw {
		info, ok := amp.LookupParam(id)
		if !ok {
			return fmt.Errorf("preset: %w: %q", amp.ErrUnknownParameter, id)
		}

		var num float64
		if err := json.Unmarshal(msg, &num); err == nil {
			if info.IsChoice() {
				// Numeric slopes in presets are dB figures.
				slope, err := amp.SlopeFromDB(int(num))
				if err != nil {
					return fmt.Errorf("preset: %s: %w", id, err)
				}

				num = float64(slope)
			}

			if err := store.Set(id, num); err != nil {
				return err
			}

			continue
		}

		var text string
		if err := json.Unmarshal(msg, &text); err != nil {
			return fmt.Errorf("preset: %s: value must be a number or string", id)
		}

		v, err := parseParamValue(info, text)
		if err != nil {
			return fmt.Errorf("preset: %w", err)
		}

		if err := store.Set(id, v); err != nil {
			return err
		}
	}

	return nil
}
