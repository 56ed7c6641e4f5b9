package wtosc

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-wtosc/dsp"
)

const (
	// MaxUnison is the largest number of detuned copies one voice can stack.
	MaxUnison = 16
	// NumVoiceOscillators is the number of oscillator vectors needed to hold
	// MaxUnison lanes.
	NumVoiceOscillators = (MaxUnison + dsp.FloatsPerVector - 1) / dsp.FloatsPerVector

	// DetuneRange is the detune spread in semitones at a normalized detune
	// range of 1.
	DetuneRange = 48
	// TransposeRange is the full transpose span in semitones, centered on 0.
	TransposeRange = 96

	// DefaultSmoothingTimeMs is the ramp length used for smoothed parameter
	// changes when a preset does not say otherwise.
	DefaultSmoothingTimeMs = 20
)

// ParamID identifies one host parameter. All parameters take normalized
// values in [0, 1].
type ParamID uint32

const (
	ParamDetune ParamID = iota
	ParamDetuneRange
	ParamTranspose
	ParamFrame
	ParamRandom
	ParamLevel
	ParamStereo
	ParamPan
	ParamUnisonVoices

	// NumParams is the number of recognized parameter ids.
	NumParams = int(ParamUnisonVoices) + 1
)

var paramNames = [NumParams]string{
	ParamDetune:       "detune",
	ParamDetuneRange:  "detune_range",
	ParamTranspose:    "transpose",
	ParamFrame:        "frame",
	ParamRandom:       "random",
	ParamLevel:        "level",
	ParamStereo:       "stereo",
	ParamPan:          "pan",
	ParamUnisonVoices: "unison_voices",
}

// String returns the preset key of the parameter.
func (id ParamID) String() string {
	if int(id) < NumParams {
		return paramNames[id]
	}
	return "unknown"
}

// ParamByName looks up a parameter by its preset key.
func ParamByName(name string) (ParamID, bool) {
	for i, n := range paramNames {
		if n == name {
			return ParamID(i), true
		}
	}
	return 0, false
}

// Params holds engine configuration and the initial parameter values of
// every cluster.
type Params struct {
	WaveTableWavPath string

	// Values are normalized initial parameter values indexed by ParamID.
	Values [NumParams]float32

	SmoothingTimeMs float32

	// FrameSpread is the frame offset applied to the outermost unison lanes.
	// Inner lanes get a share proportional to their detune; 0 disables it.
	FrameSpread float32

	// StartingPhases overrides the per-unison-lane starting phases (cycle
	// fractions). Missing entries keep the defaults.
	StartingPhases []float32
}

// NewDefaultParams creates default parameters.
func NewDefaultParams() *Params {
	p := &Params{
		SmoothingTimeMs: DefaultSmoothingTimeMs,
		FrameSpread:     0,
	}
	p.Values[ParamDetune] = 0
	p.Values[ParamDetuneRange] = 2.0 / DetuneRange
	p.Values[ParamTranspose] = 0.5
	p.Values[ParamFrame] = 0
	p.Values[ParamRandom] = 1
	p.Values[ParamLevel] = 1
	p.Values[ParamStereo] = 1
	p.Values[ParamPan] = 0.5
	p.Values[ParamUnisonVoices] = 0
	return p
}

// SmoothingSamples converts the smoothing time to samples at sampleRate.
func (p *Params) SmoothingSamples(sampleRate float32) float32 {
	return p.SmoothingTimeMs * 0.001 * sampleRate
}

// DefaultStartingPhases spreads unison lanes over the cycle using the golden
// ratio sequence so no two lanes start in phase.
func DefaultStartingPhases() [MaxUnison]float32 {
	const golden = 0.6180339887498949
	var out [MaxUnison]float32
	for i := range out {
		_, frac := math.Modf(float64(i) * golden)
		out[i] = float32(frac)
	}
	return out
}

// UnisonCount maps a normalized unison parameter to a voice count in
// [1, MaxUnison].
func UnisonCount(norm float32) uint32 {
	n := clamp01(norm)*(MaxUnison-0.02) + 1
	return uint32(core.Clamp(math.Floor(float64(n)), 1, MaxUnison))
}

// UnisonNorm returns a normalized unison value that UnisonCount maps back to
// n voices. n is clamped to 1..MaxUnison.
func UnisonNorm(n int) float32 {
	n = int(core.Clamp(float64(n), 1, MaxUnison))
	return (float32(n) - 0.5) / (MaxUnison - 0.02)
}

// mapParam converts a normalized host value into the unit the cluster
// smoothers hold.
func mapParam(id ParamID, norm float32) float32 {
	switch id {
	case ParamDetuneRange:
		return clamp01(norm) * DetuneRange
	case ParamTranspose:
		return (clamp01(norm) - 0.5) * TransposeRange
	default:
		return clamp01(norm)
	}
}

func clamp01(v float32) float32 {
	if v != v {
		return 0
	}
	return float32(core.Clamp(float64(v), 0, 1))
}
