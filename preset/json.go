// Package preset loads JSON presets onto oscillator engine parameters.
package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cwbudde/algo-wtosc/wtosc"
)

// File is the JSON schema for oscillator presets.
type File struct {
	WaveTableWavPath string             `json:"wavetable_wav_path"`
	SmoothingTimeMs  *float32           `json:"smoothing_time_ms"`
	FrameSpread      *float32           `json:"frame_spread"`
	StartingPhases   []float32          `json:"starting_phases"`
	Params           map[string]float32 `json:"params"`
}

// LoadJSON loads a preset JSON file and applies it on top of default params.
func LoadJSON(path string) (*wtosc.Params, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}

	p := wtosc.NewDefaultParams()
	if err := ApplyFile(p, &f); err != nil {
		return nil, err
	}

	if p.WaveTableWavPath != "" && !filepath.IsAbs(p.WaveTableWavPath) {
		base := filepath.Dir(path)
		p.WaveTableWavPath = filepath.Clean(filepath.Join(base, p.WaveTableWavPath))
	}
	return p, nil
}

// ApplyFile applies a parsed preset file onto an existing params object.
func ApplyFile(dst *wtosc.Params, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination params")
	}
	if f == nil {
		return nil
	}

	if f.WaveTableWavPath != "" {
		dst.WaveTableWavPath = strings.TrimSpace(f.WaveTableWavPath)
	}
	if f.SmoothingTimeMs != nil {
		if *f.SmoothingTimeMs < 0 {
			return fmt.Errorf("smoothing_time_ms must be >= 0")
		}
		dst.SmoothingTimeMs = *f.SmoothingTimeMs
	}
	if f.FrameSpread != nil {
		dst.FrameSpread = *f.FrameSpread
	}
	if len(f.StartingPhases) > wtosc.MaxUnison {
		return fmt.Errorf("starting_phases has %d entries (max %d)", len(f.StartingPhases), wtosc.MaxUnison)
	}
	for i, ph := range f.StartingPhases {
		if ph < 0 || ph >= 1 {
			return fmt.Errorf("starting_phases[%d] must be in [0,1)", i)
		}
	}
	if f.StartingPhases != nil {
		dst.StartingPhases = append([]float32(nil), f.StartingPhases...)
	}

	keys := make([]string, 0, len(f.Params))
	for k := range f.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		id, ok := wtosc.ParamByName(k)
		if !ok {
			return fmt.Errorf("unknown param %q", k)
		}
		v := f.Params[k]
		if v < 0 || v > 1 {
			return fmt.Errorf("params.%s must be in [0,1]", k)
		}
		dst.Values[id] = v
	}
	return nil
}
