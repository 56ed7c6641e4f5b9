package wtosc

import (
	"github.com/cwbudde/algo-wtosc/dsp"
	"github.com/cwbudde/algo-wtosc/wavetable"
)

// VoiceParams is the parameter snapshot of one cluster lane handed to its
// UnisonVoice.
type VoiceParams struct {
	UnisonVoices int
	// DetuneSpread is the detune of the outermost unison pair in semitones.
	DetuneSpread float32
	// Transpose is added to every lane, in semitones.
	Transpose float32
	// Frame is the frame position in [0, NumFrames-1].
	Frame float32
	// FrameSpread offsets outer lanes' frames proportionally to their detune.
	FrameSpread float32
	// MaxFrame is the last valid frame position.
	MaxFrame float32
	// Random scales the starting phases; 0 starts every lane at phase 0.
	Random float32
	// BasePhaseDelta is the note's phase increment in cycles per sample.
	BasePhaseDelta float32
	// StartingPhases holds per-lane starting phases as cycle fractions.
	StartingPhases *[NumVoiceOscillators]dsp.Float
}

// UnisonVoice stacks detuned oscillators playing one note.
type UnisonVoice struct {
	oscs          [NumVoiceOscillators]Oscillator
	unison        int
	numOscs       int
	remainderMask dsp.Mask
}

// Unison returns the number of stacked copies.
func (v *UnisonVoice) Unison() int {
	return v.unison
}

// NumOscillators returns the number of oscillator groups in use.
func (v *UnisonVoice) NumOscillators() int {
	return v.numOscs
}

// Oscillator returns oscillator group i.
func (v *UnisonVoice) Oscillator(i int) *Oscillator {
	return &v.oscs[i]
}

// Activate starts the voice from scratch with p.
func (v *UnisonVoice) Activate(p *VoiceParams) {
	*v = UnisonVoice{}
	v.SetParamsInstantly(p)
}

// SetParamsInstantly jumps every oscillator to the targets derived from p.
func (v *UnisonVoice) SetParamsInstantly(p *VoiceParams) {
	v.setUnison(p.UnisonVoices)
	var t OscTarget
	for i := 0; i < v.numOscs; i++ {
		v.target(p, i, &t)
		v.oscs[i].SetParamsInstantly(&t)
	}
}

// SetParamsSmoothed glides every oscillator to the targets derived from p,
// arriving after 1/inc samples.
func (v *UnisonVoice) SetParamsSmoothed(p *VoiceParams, inc float32) {
	v.setUnison(p.UnisonVoices)
	var t OscTarget
	for i := 0; i < v.numOscs; i++ {
		v.target(p, i, &t)
		v.oscs[i].SetParamsSmoothed(&t, inc)
	}
}

func (v *UnisonVoice) setUnison(n int) {
	if n < 1 {
		n = 1
	} else if n > MaxUnison {
		n = MaxUnison
	}
	groups, _ := groupLayout(n, dsp.FloatsPerVector)
	// Groups dropped by a lower count go silent so a later raise restarts
	// them at their starting phases.
	for i := groups; i < v.numOscs; i++ {
		v.oscs[i].activeMask = dsp.Mask{}
	}
	v.numOscs = groups
	v.remainderMask = remainderMask(n)
	v.unison = n
}

func (v *UnisonVoice) groupMask(i int) dsp.Mask {
	if i == v.numOscs-1 {
		return v.remainderMask
	}
	return dsp.AllVoices()
}

func (v *UnisonVoice) target(p *VoiceParams, i int, t *OscTarget) {
	detunes := UnisonDetunes[v.unison][i]
	semitones := detunes.Scale(p.DetuneSpread).Add(dsp.Splat(p.Transpose))
	t.PhaseDelta = dsp.SemitonesToRatio(semitones).Scale(p.BasePhaseDelta)

	frame := detunes.Scale(p.FrameSpread).Add(dsp.Splat(p.Frame))
	for j, f := range frame {
		if f < 0 {
			frame[j] = 0
		} else if f > p.MaxFrame {
			frame[j] = p.MaxFrame
		}
	}
	t.Frame = frame
	t.Mask = v.groupMask(i)
	t.StartingPhases = startingPhases(p, i)
}

func startingPhases(p *VoiceParams, i int) dsp.UInt {
	if p.StartingPhases == nil {
		return dsp.UInt{}
	}
	return dsp.FlpToFxp(p.StartingPhases[i].Scale(p.Random))
}

// ResetPhases restarts every sounding lane at its starting phase.
func (v *UnisonVoice) ResetPhases(p *VoiceParams) {
	for i := 0; i < v.numOscs; i++ {
		v.oscs[i].SetPhase(startingPhases(p, i), dsp.AllVoices())
	}
}

// ScaleFrames multiplies every oscillator's frame position by ratio.
func (v *UnisonVoice) ScaleFrames(ratio float32) {
	for i := range v.oscs {
		v.oscs[i].ScaleFrames(ratio)
	}
}

// ScalePhaseDelta retunes every oscillator by ratio.
func (v *UnisonVoice) ScalePhaseDelta(ratio float32) {
	for i := range v.oscs {
		v.oscs[i].ScalePhaseDelta(ratio)
	}
}

// Process renders one sample of every unison lane and folds them into one
// stereo pair: even lanes to the left, odd lanes to the right.
func (v *UnisonVoice) Process(bank *wavetable.Bank) [2]float32 {
	var sum dsp.Float
	for i := 0; i < v.numOscs; i++ {
		sum = sum.Add(v.oscs[i].AdvanceAndResample(bank))
	}
	return dsp.SumToStereo(sum)
}
