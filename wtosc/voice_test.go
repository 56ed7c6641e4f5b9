package wtosc

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-wtosc/dsp"
)

func testVoiceParams(n int, spread float32) *VoiceParams {
	phases := [NumVoiceOscillators]dsp.Float{}
	for i := range phases[0] {
		phases[0][i] = float32(i) / dsp.FloatsPerVector
	}
	return &VoiceParams{
		UnisonVoices:   n,
		DetuneSpread:   spread,
		BasePhaseDelta: 440.0 / testSampleRate,
		MaxFrame:       0,
		Random:         1,
		StartingPhases: &phases,
	}
}

func TestUnisonVoiceLayout(t *testing.T) {
	tests := []struct {
		n     int
		lanes int
	}{
		{n: 0, lanes: 2},
		{n: 1, lanes: 2},
		{n: 2, lanes: 2},
		{n: 5, lanes: 6},
		{n: 16, lanes: 16},
		{n: 40, lanes: 16},
	}
	for _, tc := range tests {
		var v UnisonVoice
		v.Activate(testVoiceParams(tc.n, 0))
		if v.NumOscillators() != 1 {
			t.Fatalf("unison %d: oscillators got=%d want=1", tc.n, v.NumOscillators())
		}
		mask := v.Oscillator(0).ActiveMask()
		count := 0
		for i, set := range mask {
			if set {
				count++
				if i < dsp.FloatsPerVector-tc.lanes {
					t.Fatalf("unison %d: lane %d active outside right-aligned tail", tc.n, i)
				}
			}
		}
		if count != tc.lanes {
			t.Fatalf("unison %d: active lanes got=%d want=%d", tc.n, count, tc.lanes)
		}
	}
}

func TestUnisonVoiceDetunedPhaseDeltas(t *testing.T) {
	var v UnisonVoice
	p := testVoiceParams(16, 12)
	v.Activate(p)

	deltas := v.Oscillator(0).PhaseDelta()
	row := UnisonDetunes[16][0]
	for i, d := range row {
		want := float64(p.BasePhaseDelta) * math.Pow(2, float64(d)*12/12)
		if math.Abs(float64(deltas[i])-want)/want > 2e-3 {
			t.Fatalf("lane %d: delta got=%f want=%f", i, deltas[i], want)
		}
	}
	if deltas[0] > deltas[1] {
		t.Fatalf("outermost pair should straddle the note: got=(%f,%f)", deltas[0], deltas[1])
	}
}

func TestUnisonVoiceTranspose(t *testing.T) {
	var v UnisonVoice
	p := testVoiceParams(1, 0)
	p.Transpose = 12
	v.Activate(p)
	got := v.Oscillator(0).PhaseDelta()[dsp.FloatsPerVector-1]
	want := 2 * p.BasePhaseDelta
	if math.Abs(float64(got-want))/float64(want) > 2e-3 {
		t.Fatalf("octave transpose: got=%f want=%f", got, want)
	}
}

func TestUnisonVoiceRaisingCountStartsNewLanes(t *testing.T) {
	var v UnisonVoice
	p := testVoiceParams(2, 0)
	v.Activate(p)
	bank := sineBank(t)
	for i := 0; i < 10; i++ {
		v.Process(bank)
	}
	before := v.Oscillator(0).Phase()

	p.UnisonVoices = 4
	v.SetParamsSmoothed(p, 1)
	after := v.Oscillator(0).Phase()

	w := dsp.FloatsPerVector
	for _, lane := range []int{w - 2, w - 1} {
		if after[lane] != before[lane] {
			t.Fatalf("running lane %d restarted: got=%d want=%d", lane, after[lane], before[lane])
		}
	}
	for _, lane := range []int{w - 4, w - 3} {
		want := dsp.FlpToFxp(p.StartingPhases[0])[lane]
		if after[lane] != want {
			t.Fatalf("new lane %d: phase got=%d want=%d", lane, after[lane], want)
		}
	}
}

func TestUnisonVoiceProcessFoldsChannels(t *testing.T) {
	var v UnisonVoice
	p := testVoiceParams(1, 0)
	p.Random = 0
	v.Activate(p)
	bank := sineBank(t)
	for i := 0; i < 200; i++ {
		s := v.Process(bank)
		if s[0] != s[1] {
			t.Fatalf("sample %d: centered single voice differs: L=%f R=%f", i, s[0], s[1])
		}
		if math.Abs(float64(s[0])) > 1.0001 {
			t.Fatalf("sample %d: amplitude %f exceeds one sine", i, s[0])
		}
	}
}

func TestUnisonVoiceResetPhases(t *testing.T) {
	var v UnisonVoice
	p := testVoiceParams(4, 0.5)
	v.Activate(p)
	bank := sineBank(t)
	for i := 0; i < 33; i++ {
		v.Process(bank)
	}
	p.Random = 0
	v.ResetPhases(p)
	for i, ph := range v.Oscillator(0).Phase() {
		if ph != 0 {
			t.Fatalf("lane %d: phase got=%d want=0", i, ph)
		}
	}
}
