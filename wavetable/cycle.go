package wavetable

import (
	"fmt"
	"math"

	dspresample "github.com/cwbudde/algo-dsp/dsp/resample"
	"github.com/cwbudde/algo-vecmath"
)

// FromCycle builds a single-frame bank from one period of a waveform of any
// length. The period is resampled to TableSize and peak-normalized to 1.
func FromCycle(cycle []float32) (*Bank, error) {
	frame, err := ResampleCycle(cycle)
	if err != nil {
		return nil, err
	}
	return FromFrames([][]float32{frame})
}

// ResampleCycle resamples one waveform period to exactly TableSize samples.
// The period is tiled three times so the resampling filter sees a periodic
// signal, and one period from the middle is kept.
func ResampleCycle(cycle []float32) ([]float32, error) {
	n := len(cycle)
	if n < 2 {
		return nil, fmt.Errorf("%w: cycle of %d samples", ErrInvalidLength, n)
	}

	tiled := make([]float64, 3*n)
	for i := range tiled {
		tiled[i] = float64(cycle[i%n])
	}

	var period []float64
	if n == TableSize {
		period = tiled[n : 2*n]
	} else {
		r, err := dspresample.NewForRates(
			float64(n),
			float64(TableSize),
			dspresample.WithQuality(dspresample.QualityBest),
		)
		if err != nil {
			return nil, err
		}
		out := r.Process(tiled)
		if len(out) < 2*TableSize {
			return nil, fmt.Errorf("%w: resampler returned %d samples", ErrInvalidLength, len(out))
		}
		period = out[TableSize : 2*TableSize]
	}

	peak := 0.0
	for _, v := range period {
		peak = math.Max(peak, math.Abs(v))
	}
	scaled := make([]float64, TableSize)
	if peak > 0 {
		vecmath.ScaleBlock(scaled, period, 1/peak)
	}

	frame := make([]float32, TableSize)
	for i, v := range scaled {
		frame[i] = float32(v)
	}
	return frame, nil
}
