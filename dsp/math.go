package dsp

import (
	"math"

	"github.com/cwbudde/algo-approx"
)

const (
	ln2 = 0.69314718055994530942
	// fxpOne is 1.0 in 0.32 unsigned fixed point.
	fxpOne = 4294967296.0
	// fractScale maps the top 24 bits of a 0.32 value onto [0,1).
	fractScale = 1.0 / (1 << 24)
)

// Pow2 returns 2^x.
func Pow2(x float32) float32 {
	return approx.FastExp(x * ln2)
}

// SemitonesToRatio converts semitone offsets to frequency ratios (2^(st/12)).
func SemitonesToRatio(st Float) Float {
	for i, v := range st {
		st[i] = Pow2(v / 12)
	}
	return st
}

// MidiNoteToFreq converts a (fractional) MIDI note number to Hz.
func MidiNoteToFreq(note float32) float32 {
	const a4Freq = 440.0
	const a4Note = 69
	return a4Freq * Pow2((note-a4Note)/12)
}

// Lerp interpolates between a and b by t lane-wise.
func Lerp(a, b, t Float) Float {
	for i := range a {
		a[i] += (b[i] - a[i]) * t[i]
	}
	return a
}

// FlpToFxp converts a cycle fraction to 0.32 fixed point, wrapping at one
// cycle. Negative values map to zero.
func FlpToFxp(v Float) UInt {
	var out UInt
	for i, x := range v {
		out[i] = flpToFxp(x)
	}
	return out
}

func flpToFxp(x float32) uint32 {
	if !(x > 0) {
		return 0
	}
	f := float64(x)
	f -= math.Floor(f)
	return uint32(uint64(f * fxpOne))
}

// FxpToFlp converts 0.32 fixed point values to floats in [0,1).
func FxpToFlp(u UInt) Float {
	var out Float
	for i, x := range u {
		out[i] = float32(x>>8) * fractScale
	}
	return out
}

// TriangularPanWeights returns per-lane power weights for a normalized pan
// position (0 = left, 0.5 = center, 1 = right). Left lanes get 2*(1-pan),
// right lanes 2*pan, so the pair always sums to 2.
func TriangularPanWeights(pan Float) Float {
	var out Float
	for i := 0; i < FloatsPerVector; i += 2 {
		out[i] = 2 * (1 - pan[i])
		out[i+1] = 2 * pan[i+1]
	}
	return out
}

// Sqrt returns the lane-wise square root, treating negative lanes as zero.
func Sqrt(v Float) Float {
	for i, x := range v {
		if x <= 0 {
			v[i] = 0
			continue
		}
		v[i] = float32(math.Sqrt(float64(x)))
	}
	return v
}
