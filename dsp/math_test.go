package dsp

import (
	"math"
	"testing"
)

func TestFixedPointConversion(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want uint32
	}{
		{name: "zero", in: 0, want: 0},
		{name: "quarter", in: 0.25, want: 1 << 30},
		{name: "half", in: 0.5, want: 1 << 31},
		{name: "wraps", in: 1.25, want: 1 << 30},
		{name: "negative", in: -0.5, want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FlpToFxp(Splat(tc.in))[0]
			if got != tc.want {
				t.Fatalf("got=%#x want=%#x", got, tc.want)
			}
		})
	}

	back := FxpToFlp(SplatU(3 << 30))[0]
	if back != 0.75 {
		t.Fatalf("FxpToFlp: got=%f want=0.75", back)
	}
}

func TestSemitonesToRatio(t *testing.T) {
	in := Float{0, 12, -12, 7}
	want := []float64{1, 2, 0.5, math.Pow(2, 7.0/12)}
	got := SemitonesToRatio(in)
	for i, w := range want {
		if math.Abs(float64(got[i])-w)/w > 2e-3 {
			t.Fatalf("lane %d: got=%f want=%f", i, got[i], w)
		}
	}
}

func TestMidiNoteToFreq(t *testing.T) {
	if got := MidiNoteToFreq(69); math.Abs(float64(got)-440) > 1 {
		t.Fatalf("A4: got=%f want=440", got)
	}
	if got := MidiNoteToFreq(57); math.Abs(float64(got)-220) > 0.5 {
		t.Fatalf("A3: got=%f want=220", got)
	}
}

func TestTriangularPanWeights(t *testing.T) {
	pan := Float{0, 0, 0.5, 0.5, 1, 1}
	w := TriangularPanWeights(pan)
	want := []float32{2, 0, 1, 1, 0, 2}
	for i, x := range want {
		if w[i] != x {
			t.Fatalf("lane %d: got=%f want=%f", i, w[i], x)
		}
	}
	for i := 0; i < FloatsPerVector; i += 2 {
		if w[i]+w[i+1] != 2 {
			t.Fatalf("pair %d does not sum to 2: got=%f", i/2, w[i]+w[i+1])
		}
	}
}

func TestLerpAndSqrt(t *testing.T) {
	got := Lerp(Splat(1), Splat(3), Splat(0.25))[0]
	if got != 1.5 {
		t.Fatalf("Lerp: got=%f want=1.5", got)
	}
	s := Sqrt(Float{4, -1, 0})
	if s[0] != 2 || s[1] != 0 || s[2] != 0 {
		t.Fatalf("Sqrt: got=%v", s[:3])
	}
}
