// Package analysis measures rendered oscillator output.
package analysis

import (
	"math"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-dsp/dsp/spectrum"
	"github.com/cwbudde/algo-dsp/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

// Metrics summarizes a stereo render.
type Metrics struct {
	SampleRate int `json:"sample_rate"`
	Frames     int `json:"frames"`

	PeakLeft  float64 `json:"peak_left"`
	PeakRight float64 `json:"peak_right"`
	RMSLeft   float64 `json:"rms_left"`
	RMSRight  float64 `json:"rms_right"`
	BalanceDB float64 `json:"balance_db"`

	PeriodSamples      float64 `json:"period_samples"`
	FundamentalHz      float64 `json:"fundamental_hz"`
	SpectralCentroidHz float64 `json:"spectral_centroid_hz"`

	// EnvelopeStepDB is the largest level jump between neighbouring RMS
	// envelope frames; clicks and zipper noise show up here.
	EnvelopeStepDB float64 `json:"envelope_step_db"`
}

const (
	envelopeFrame = 256
	envelopeHop   = 128
	spectrumSize  = 4096
	minPeriodHz   = 20
	maxPeriodHz   = 4000
)

// Measure computes level, balance, pitch and spectral metrics of an
// interleaved stereo buffer.
func Measure(interleaved []float32, sampleRate int) Metrics {
	left, right := SplitStereo(interleaved)
	m := Metrics{
		SampleRate: sampleRate,
		Frames:     len(left),
	}
	if sampleRate <= 0 || len(left) == 0 {
		return m
	}

	m.PeakLeft = peak(left)
	m.PeakRight = peak(right)
	m.RMSLeft = rms1(left)
	m.RMSRight = rms1(right)
	m.BalanceDB = linToDB(m.RMSLeft) - linToDB(m.RMSRight)

	mono := MixMono(left, right)
	m.PeriodSamples = EstimatePeriod(mono, sampleRate/maxPeriodHz, sampleRate/minPeriodHz)
	if m.PeriodSamples > 0 {
		m.FundamentalHz = float64(sampleRate) / m.PeriodSamples
	}

	if mags, err := Spectrum(mono, spectrumSize); err == nil {
		m.SpectralCentroidHz = SpectralCentroid(mags, sampleRate, spectrumSize)
	}

	env := rmsEnvelope(mono, envelopeFrame, envelopeHop)
	for i := 1; i < len(env); i++ {
		step := math.Abs(linToDB(env[i]) - linToDB(env[i-1]))
		if step > m.EnvelopeStepDB {
			m.EnvelopeStepDB = step
		}
	}
	return m
}

// SplitStereo deinterleaves a stereo buffer.
func SplitStereo(interleaved []float32) (left, right []float64) {
	n := len(interleaved) / 2
	left = make([]float64, n)
	right = make([]float64, n)
	for i := 0; i < n; i++ {
		left[i] = float64(interleaved[2*i])
		right[i] = float64(interleaved[2*i+1])
	}
	return left, right
}

// MixMono averages two channels.
func MixMono(left, right []float64) []float64 {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	out := make([]float64, n)
	copy(out, left[:n])
	vecmath.AddBlockInPlace(out, right[:n])
	vecmath.ScaleBlock(out, out, 0.5)
	return out
}

// yinThreshold is the normalized difference below which a dip is accepted as
// the period.
const yinThreshold = 0.1

// EstimatePeriod returns the period in samples, with sub-sample precision,
// of x between minLag and maxLag. It returns 0 when no period can be found.
//
// The lag is picked on the cumulative mean normalized difference function
// (YIN) and refined by a parabola through the raw squared difference, whose
// minimum sits at the true period even when it is not a whole number of
// samples.
func EstimatePeriod(x []float64, minLag, maxLag int) float64 {
	if minLag < 1 {
		minLag = 1
	}
	if maxLag > len(x)/2 {
		maxLag = len(x) / 2
	}
	if maxLag-minLag < 2 {
		return 0
	}
	w := len(x) - maxLag - 1
	if w <= 0 {
		return 0
	}

	diff := make([]float64, maxLag+2)
	for lag := 1; lag <= maxLag+1; lag++ {
		var sum float64
		for i := 0; i < w; i++ {
			d := x[i] - x[i+lag]
			sum += d * d
		}
		diff[lag] = sum
	}

	cmnd := make([]float64, maxLag+2)
	var running float64
	for lag := 1; lag <= maxLag+1; lag++ {
		running += diff[lag]
		if running == 0 {
			cmnd[lag] = 1
			continue
		}
		cmnd[lag] = diff[lag] * float64(lag) / running
	}

	best := -1
	for lag := minLag; lag <= maxLag; lag++ {
		if cmnd[lag] < yinThreshold {
			for lag < maxLag && cmnd[lag+1] < cmnd[lag] {
				lag++
			}
			best = lag
			break
		}
	}
	if best < 0 {
		for lag := minLag; lag <= maxLag; lag++ {
			if best < 0 || cmnd[lag] < cmnd[best] {
				best = lag
			}
		}
	}
	if running == 0 || cmnd[best] >= 1 {
		return 0
	}

	a, b, c := diff[best-1], diff[best], diff[best+1]
	den := a - 2*b + c
	if den <= 0 {
		return float64(best)
	}
	offset := 0.5 * (a - c) / den
	if offset < -1 || offset > 1 {
		return float64(best)
	}
	return float64(best) + offset
}

// Spectrum returns the Hann-windowed magnitude spectrum of the first size
// samples of x (zero padded), bins 0..size/2.
func Spectrum(x []float64, size int) ([]float64, error) {
	plan, err := algofft.NewPlanReal64(size)
	if err != nil {
		return nil, err
	}
	buf := make([]float64, size)
	copy(buf, x)
	window.Apply(window.TypeHann, buf)
	bins := make([]complex128, size/2+1)
	plan.Forward(bins, buf)
	return spectrum.Magnitude(bins), nil
}

// SpectralCentroid returns the magnitude-weighted mean frequency of a
// spectrum produced by Spectrum.
func SpectralCentroid(mags []float64, sampleRate, size int) float64 {
	var weighted, total float64
	for k := 1; k < len(mags); k++ {
		f := float64(k) * float64(sampleRate) / float64(size)
		weighted += f * mags[k]
		total += mags[k]
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// HarmonicPower returns the power of every harmonic 0..len(cycle)/2 of one
// waveform period.
func HarmonicPower(cycle []float32) ([]float64, error) {
	n := len(cycle)
	plan, err := algofft.NewPlanReal64(n)
	if err != nil {
		return nil, err
	}
	buf := make([]float64, n)
	for i, v := range cycle {
		buf[i] = float64(v)
	}
	bins := make([]complex128, n/2+1)
	plan.Forward(bins, buf)
	mags := spectrum.Magnitude(bins)
	for i, m := range mags {
		mags[i] = m * m
	}
	return mags, nil
}

// PowerAbove returns the share of AC power held by harmonics above limit.
func PowerAbove(power []float64, limit int) float64 {
	var above, total float64
	for k := 1; k < len(power); k++ {
		total += power[k]
		if k > limit {
			above += power[k]
		}
	}
	if total == 0 {
		return 0
	}
	return above / total
}

func peak(x []float64) float64 {
	var p float64
	for _, v := range x {
		p = math.Max(p, math.Abs(v))
	}
	return p
}

func rms1(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

func rmsEnvelope(x []float64, frame int, hop int) []float64 {
	if frame <= 0 || hop <= 0 || len(x) < frame {
		return nil
	}
	n := 1 + (len(x)-frame)/hop
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		start := i * hop
		out[i] = rms1(x[start : start+frame])
	}
	return out
}

func linToDB(x float64) float64 {
	if x < 1e-12 {
		x = 1e-12
	}
	return core.LinearToDB(x)
}
