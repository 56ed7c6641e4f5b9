package wavetable

import "fmt"

// Morph builds a bank of n frames that crossfade linearly from one
// full-bandwidth frame to another. Both frames must hold TableSize samples.
func Morph(from, to []float32, n int) (*Bank, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: morph needs at least 2 frames, got %d", ErrInvalidLength, n)
	}
	if len(from) != TableSize || len(to) != TableSize {
		return nil, fmt.Errorf("%w: morph frames have %d and %d samples, want %d", ErrInvalidLength, len(from), len(to), TableSize)
	}
	frames := make([][]float32, n)
	for f := range frames {
		t := float32(f) / float32(n-1)
		frame := make([]float32, TableSize)
		for i := range frame {
			frame[i] = from[i] + (to[i]-from[i])*t
		}
		frames[f] = frame
	}
	return FromFrames(frames)
}
