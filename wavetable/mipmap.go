package wavetable

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
)

// createMipmaps fills levels 0..NumOctaves-1 of every frame from the
// full-bandwidth table at level NumOctaves. Each level down halves the number
// of harmonics kept; level 0 holds only the DC component.
func (b *Bank) createMipmaps() error {
	plan, err := algofft.NewPlan64(TableSize)
	if err != nil {
		return fmt.Errorf("wavetable: failed to create FFT plan: %w", err)
	}

	wave := make([]complex128, TableSize)
	spectrum := make([]complex128, TableSize)
	passBand := make([]complex128, TableSize)
	mipmap := make([]complex128, TableSize)

	for frame := 0; frame < b.numFrames; frame++ {
		full := b.Table(frame, NumOctaves)
		for i, v := range full {
			wave[i] = complex(float64(v), 0)
		}
		if err := plan.Forward(spectrum, wave); err != nil {
			return fmt.Errorf("wavetable: forward FFT failed: %w", err)
		}

		partials := TableSize / 2
		for level := NumOctaves - 1; level >= 0; level-- {
			keep := partials / 2
			for i := range passBand {
				passBand[i] = 0
			}
			passBand[0] = spectrum[0]
			for k := 1; k <= keep; k++ {
				passBand[k] = spectrum[k]
				passBand[TableSize-k] = spectrum[TableSize-k]
			}

			// The inverse transform is normalized by 1/TableSize.
			if err := plan.Inverse(mipmap, passBand); err != nil {
				return fmt.Errorf("wavetable: inverse FFT failed: %w", err)
			}

			dst := b.Table(frame, level)
			for i := range dst {
				dst[i] = float32(real(mipmap[i]))
			}
			partials /= 2
		}
	}
	return nil
}
