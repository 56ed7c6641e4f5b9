package wavetable

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-dsp/dsp/spectrum"
)

func tableMagnitudes(t *testing.T, table []float32) []float64 {
	t.Helper()
	plan, err := algofft.NewPlan64(len(table))
	if err != nil {
		t.Fatalf("NewPlan64: %v", err)
	}
	in := make([]complex128, len(table))
	for i, v := range table {
		in[i] = complex(float64(v), 0)
	}
	out := make([]complex128, len(table))
	if err := plan.Forward(out, in); err != nil {
		t.Fatalf("Forward: %v", err)
	}
	return spectrum.Magnitude(out[:len(table)/2+1])
}

func sawFrame() []float32 {
	f := make([]float32, TableSize)
	for i := range f {
		f[i] = saw(float32(i) / TableSize)
	}
	return f
}

func sineFrame(harmonic int) []float32 {
	f := make([]float32, TableSize)
	for i := range f {
		f[i] = float32(math.Sin(2 * math.Pi * float64(harmonic*i) / TableSize))
	}
	return f
}

// floatWAV builds a 32-bit IEEE float WAV stream by hand.
func floatWAV(samples []float32, channels int) []byte {
	const sampleRate = 48000
	dataLen := 4 * len(samples)
	var b bytes.Buffer
	w := func(v any) { _ = binary.Write(&b, binary.LittleEndian, v) }

	b.WriteString("RIFF")
	w(uint32(36 + dataLen))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	w(uint32(16))
	w(uint16(wavFormatIEEEFloat))
	w(uint16(channels))
	w(uint32(sampleRate))
	w(uint32(sampleRate * channels * 4))
	w(uint16(channels * 4))
	w(uint16(32))
	b.WriteString("data")
	w(uint32(dataLen))
	for _, s := range samples {
		w(math.Float32bits(s))
	}
	return b.Bytes()
}
