package analysis

import (
	"math"
	"testing"
)

func stereoSine(freq float64, sampleRate, n int, ampL, ampR float64) []float32 {
	out := make([]float32, 2*n)
	for i := 0; i < n; i++ {
		v := math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
		out[2*i] = float32(ampL * v)
		out[2*i+1] = float32(ampR * v)
	}
	return out
}

func TestMeasureSine(t *testing.T) {
	const sr = 48000
	m := Measure(stereoSine(440, sr, sr/2, 1, 0.5), sr)

	if m.Frames != sr/2 {
		t.Fatalf("frames mismatch: got=%d want=%d", m.Frames, sr/2)
	}
	if math.Abs(m.PeakLeft-1) > 1e-3 || math.Abs(m.PeakRight-0.5) > 1e-3 {
		t.Fatalf("unexpected peaks: left=%f right=%f", m.PeakLeft, m.PeakRight)
	}
	if math.Abs(m.RMSLeft-1/math.Sqrt2) > 1e-3 {
		t.Fatalf("left rms mismatch: got=%f want=%f", m.RMSLeft, 1/math.Sqrt2)
	}
	if math.Abs(m.BalanceDB-6.0206) > 0.01 {
		t.Fatalf("balance mismatch: got=%f want=6.02", m.BalanceDB)
	}
	if math.Abs(m.FundamentalHz-440) > 1 {
		t.Fatalf("fundamental mismatch: got=%f want=440", m.FundamentalHz)
	}
	if math.Abs(m.SpectralCentroidHz-440) > 25 {
		t.Fatalf("centroid mismatch: got=%f want~440", m.SpectralCentroidHz)
	}
	if m.EnvelopeStepDB > 1 {
		t.Fatalf("steady sine should have a flat envelope: step=%f dB", m.EnvelopeStepDB)
	}
}

func TestMeasureDetectsLevelJump(t *testing.T) {
	const sr = 48000
	buf := stereoSine(440, sr, sr/4, 1, 1)
	for i := len(buf) / 2; i < len(buf); i++ {
		buf[i] *= 0.25
	}
	m := Measure(buf, sr)
	if m.EnvelopeStepDB < 3 {
		t.Fatalf("expected a level jump to be reported, got step=%f dB", m.EnvelopeStepDB)
	}
}

func TestMeasureEmpty(t *testing.T) {
	m := Measure(nil, 48000)
	if m.Frames != 0 || m.FundamentalHz != 0 || m.RMSLeft != 0 {
		t.Fatalf("empty input should give zero metrics: %+v", m)
	}
}

func TestSplitAndMixMono(t *testing.T) {
	left, right := SplitStereo([]float32{1, 3, -2, 2, 0.5, 0.5})
	if len(left) != 3 || len(right) != 3 {
		t.Fatalf("split length mismatch: left=%d right=%d", len(left), len(right))
	}
	mono := MixMono(left, right)
	want := []float64{2, 0, 0.5}
	for i := range want {
		if math.Abs(mono[i]-want[i]) > 1e-12 {
			t.Fatalf("mono[%d] mismatch: got=%f want=%f", i, mono[i], want[i])
		}
	}
}

func TestEstimatePeriod(t *testing.T) {
	tests := []struct {
		name     string
		period   float64
		partials int
	}{
		{name: "sine 50", period: 50, partials: 1},
		{name: "sine 100.5", period: 100.5, partials: 1},
		{name: "sine 237.25", period: 237.25, partials: 1},
		{name: "sine A4 at 48k", period: 48000.0 / 440, partials: 1},
		{name: "bright 100.5", period: 100.5, partials: 6},
		{name: "bright 237.25", period: 237.25, partials: 6},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x := make([]float64, 8192)
			for i := range x {
				for k := 1; k <= tc.partials; k++ {
					x[i] += math.Sin(2*math.Pi*float64(k*i)/tc.period) / float64(k)
				}
			}
			got := EstimatePeriod(x, 10, 1000)
			if math.Abs(got-tc.period) > 0.02 {
				t.Fatalf("period mismatch: got=%f want=%f", got, tc.period)
			}
		})
	}
	if got := EstimatePeriod(make([]float64, 8), 1, 100); got != 0 {
		t.Fatalf("short input should give 0, got=%f", got)
	}
	if got := EstimatePeriod(make([]float64, 4096), 10, 1000); got != 0 {
		t.Fatalf("silence should give 0, got=%f", got)
	}
}

func TestHarmonicPower(t *testing.T) {
	const n = 64
	cycle := make([]float32, n)
	for i := range cycle {
		cycle[i] = float32(math.Sin(2 * math.Pi * 3 * float64(i) / n))
	}
	power, err := HarmonicPower(cycle)
	if err != nil {
		t.Fatalf("harmonic power failed: %v", err)
	}
	if len(power) != n/2+1 {
		t.Fatalf("bin count mismatch: got=%d want=%d", len(power), n/2+1)
	}
	if above := PowerAbove(power, 2); math.Abs(above-1) > 1e-6 {
		t.Fatalf("third harmonic should be above 2: got=%f", above)
	}
	if above := PowerAbove(power, 3); above > 1e-6 {
		t.Fatalf("nothing should be above 3: got=%f", above)
	}
	if above := PowerAbove(make([]float64, 8), 1); above != 0 {
		t.Fatalf("silent cycle should report 0, got=%f", above)
	}
}
