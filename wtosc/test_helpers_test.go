package wtosc

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-wtosc/dsp"
	"github.com/cwbudde/algo-wtosc/wavetable"
)

const testSampleRate = 48000

func newTestEngine(t testing.TB, clusters int) *Engine {
	t.Helper()
	bank, err := wavetable.Sine()
	if err != nil {
		t.Fatalf("Sine: %v", err)
	}
	e := NewEngine(NewDefaultParams())
	e.ReplaceWaveTable(bank)
	if err := e.Initialize(testSampleRate, 256, clusters); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return e
}

func mustSet(t testing.TB, e *Engine, cluster int, mask dsp.Mask, id ParamID, v float32) {
	t.Helper()
	if err := e.SetParam(cluster, mask, id, v); err != nil {
		t.Fatalf("SetParam(%v): %v", id, err)
	}
}

// renderVoice processes n samples in blocks and returns the two channels of
// one voice.
func renderVoice(e *Engine, cluster, voice, n, block int) (left, right []float32) {
	out := make([]dsp.Float, block)
	left = make([]float32, 0, n)
	right = make([]float32, 0, n)
	for len(left) < n {
		m := block
		if rem := n - len(left); rem < m {
			m = rem
		}
		e.Process(out[:m], cluster, dsp.VoiceMask(voice))
		for _, v := range out[:m] {
			s := v.Stereo(voice)
			left = append(left, s[0])
			right = append(right, s[1])
		}
	}
	return left, right
}

func measureFundamentalFreq(samples []float32, sampleRate float32) float32 {
	startIdx := len(samples) / 10
	crossings := 0
	for i := startIdx + 1; i < len(samples); i++ {
		if (samples[i-1] < 0 && samples[i] >= 0) || (samples[i-1] >= 0 && samples[i] < 0) {
			crossings++
		}
	}
	if crossings == 0 {
		return 0
	}
	duration := float32(len(samples)-startIdx) / sampleRate
	return float32(crossings) / (2.0 * duration)
}

func windowRMS(samples []float32) float64 {
	var sum float64
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}

func energy(samples []float32) float64 {
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return sum
}
