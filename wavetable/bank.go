// Package wavetable builds and reads band-limited, mipmapped wavetable banks.
package wavetable

import (
	"fmt"
	"math/bits"

	"github.com/cwbudde/algo-wtosc/dsp"
)

const (
	// NumOctaves is the number of octaves of frequency content held by each
	// frame; it is also log2 of the number of samples per table.
	NumOctaves = 11
	// TableSize is the number of samples in each mipmap table.
	TableSize = 1 << NumOctaves
	// NumMipmaps is the number of band-limited variants stored per frame.
	NumMipmaps = NumOctaves + 1

	fractBits = 32 - NumOctaves
	phaseMask = TableSize - 1
	frameLen  = NumMipmaps * TableSize
)

// Bank holds NumMipmaps band-limited tables for each frame. Level k holds no
// harmonics above 2^(k-1); level NumOctaves is the unfiltered waveform.
// A Bank is immutable once returned by a constructor.
type Bank struct {
	data      []float32
	numFrames int
}

func newBank(numFrames int) *Bank {
	return &Bank{
		data:      make([]float32, numFrames*frameLen),
		numFrames: numFrames,
	}
}

// NumFrames returns the number of selectable frames.
func (b *Bank) NumFrames() int {
	if b == nil {
		return 0
	}
	return b.numFrames
}

// Table returns the samples of one mipmap level of one frame. The returned
// slice aliases the bank and must not be modified.
func (b *Bank) Table(frame, level int) []float32 {
	start := (frame*NumMipmaps + level) * TableSize
	return b.data[start : start+TableSize]
}

// FromFrames builds a bank from full-bandwidth frames of TableSize samples.
func FromFrames(frames [][]float32) (*Bank, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	b := newBank(len(frames))
	for i, f := range frames {
		if len(f) != TableSize {
			return nil, fmt.Errorf("%w: frame %d has %d samples, want %d", ErrInvalidLength, i, len(f), TableSize)
		}
		copy(b.Table(i, NumOctaves), f)
	}
	if err := b.createMipmaps(); err != nil {
		return nil, err
	}
	return b, nil
}

// FromSamples builds a bank from consecutive frames stored back to back. The
// sample count must be a non-zero multiple of TableSize.
func FromSamples(samples []float32) (*Bank, error) {
	if len(samples) == 0 {
		return nil, ErrNoFrames
	}
	if len(samples)%TableSize != 0 {
		return nil, fmt.Errorf("%w: %d samples is not a multiple of %d", ErrInvalidLength, len(samples), TableSize)
	}
	numFrames := len(samples) / TableSize
	b := newBank(numFrames)
	for i := 0; i < numFrames; i++ {
		copy(b.Table(i, NumOctaves), samples[i*TableSize:(i+1)*TableSize])
	}
	if err := b.createMipmaps(); err != nil {
		return nil, err
	}
	return b, nil
}

// MipLevel returns the mipmap level used for a 0.32 fixed-point phase
// increment. Larger increments select levels with fewer harmonics.
func MipLevel(phaseDelta uint32) int {
	lz := bits.LeadingZeros32(phaseDelta)
	if lz > NumOctaves {
		return NumOctaves
	}
	return lz
}

func tableIndices(phaseDelta, frame, phase uint32) (a, b int) {
	level := uint32(MipLevel(phaseDelta))
	start := (level + frame*NumMipmaps) << NumOctaves
	i0 := phase >> fractBits
	i1 := (i0 + 1) & phaseMask
	return int(start + i0), int(start + i1)
}

// fractions returns the position of every phase between its two table
// samples.
func fractions(phase dsp.UInt) dsp.Float {
	for i := range phase {
		phase[i] <<= NumOctaves
	}
	return dsp.FxpToFlp(phase)
}

// Resample reads every lane at its phase from the mipmap level matching its
// phase increment, interpolating linearly between neighbouring samples.
func (b *Bank) Resample(phaseDelta, frame, phase dsp.UInt) dsp.Float {
	var lo, hi dsp.Float
	data := b.data
	for i := range lo {
		ia, ib := tableIndices(phaseDelta[i], frame[i], phase[i])
		lo[i], hi[i] = data[ia], data[ib]
	}
	return dsp.Lerp(lo, hi, fractions(phase))
}

// ResampleSelect is Resample for the lanes set in mask; other lanes read as
// zero without touching the table.
func (b *Bank) ResampleSelect(phaseDelta, frame, phase dsp.UInt, mask dsp.Mask) dsp.Float {
	var lo, hi dsp.Float
	if !mask.Any() {
		return lo
	}
	data := b.data
	for i, set := range mask {
		if !set {
			continue
		}
		ia, ib := tableIndices(phaseDelta[i], frame[i], phase[i])
		lo[i], hi[i] = data[ia], data[ib]
	}
	return dsp.Lerp(lo, hi, fractions(phase))
}
