package wavetable

import (
	"sync"

	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-dsp/dsp/signal"
)

// Frame indices of the BasicShapes bank.
const (
	ShapeSine = iota
	ShapeTriangle
	ShapeSaw
	ShapeSquare
	numShapes
)

var (
	basicShapesOnce sync.Once
	basicShapes     [numShapes][]float32
)

// shapeTables returns the full-bandwidth single-cycle basic waveforms. They
// are generated once and shared.
func shapeTables() [numShapes][]float32 {
	basicShapesOnce.Do(func() {
		gen := signal.NewGenerator(core.WithSampleRate(TableSize))
		sine, err := gen.Sine(1, 1, TableSize)
		if err != nil {
			panic(err)
		}
		for i := range basicShapes {
			basicShapes[i] = make([]float32, TableSize)
		}
		for i := 0; i < TableSize; i++ {
			t := float32(i) / TableSize
			basicShapes[ShapeSine][i] = float32(sine[i])
			basicShapes[ShapeTriangle][i] = triangle(t)
			basicShapes[ShapeSaw][i] = saw(t)
			if t < 0.5 {
				basicShapes[ShapeSquare][i] = 1
			} else {
				basicShapes[ShapeSquare][i] = -1
			}
		}
	})
	return basicShapes
}

func triangle(t float32) float32 {
	switch {
	case t < 0.25:
		return 4 * t
	case t < 0.75:
		return 2 - 4*t
	default:
		return 4*t - 4
	}
}

func saw(t float32) float32 {
	if t < 0.5 {
		return 2 * t
	}
	return 2*t - 2
}

// BasicShapes returns a bank with sine, triangle, saw and square frames, in
// that order.
func BasicShapes() (*Bank, error) {
	tables := shapeTables()
	return FromFrames(tables[:])
}

// Sine returns a single-frame sine bank.
func Sine() (*Bank, error) {
	tables := shapeTables()
	return FromFrames([][]float32{tables[ShapeSine]})
}
