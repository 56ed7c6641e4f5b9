package wtosc

import (
	"github.com/cwbudde/algo-wtosc/dsp"
	"github.com/cwbudde/algo-wtosc/wavetable"
)

// OscTarget is the set of values an Oscillator glides or jumps to.
type OscTarget struct {
	// PhaseDelta is the per-sample phase increment in cycles.
	PhaseDelta dsp.Float
	// Frame is the (fractional) frame position.
	Frame dsp.Float
	// Mask selects the sounding lanes.
	Mask dsp.Mask
	// StartingPhases are applied to lanes that switch on.
	StartingPhases dsp.UInt
}

// Oscillator is one vector of fixed-point phase accumulators reading a
// wavetable bank. The zero value is inert.
type Oscillator struct {
	phaseDelta dsp.LogSmoother
	frame      dsp.LinearSmoother
	phase      dsp.UInt
	activeMask dsp.Mask
}

// Phase returns the current 0.32 fixed-point phases.
func (o *Oscillator) Phase() dsp.UInt {
	return o.phase
}

// ActiveMask returns the sounding lanes.
func (o *Oscillator) ActiveMask() dsp.Mask {
	return o.activeMask
}

// PhaseDelta returns the current phase increments in cycles per sample.
func (o *Oscillator) PhaseDelta() dsp.Float {
	return o.phaseDelta.Current()
}

// Frame returns the current frame positions.
func (o *Oscillator) Frame() dsp.Float {
	return o.frame.Current()
}

// SetPhase overwrites the phase of the selected lanes.
func (o *Oscillator) SetPhase(phase dsp.UInt, mask dsp.Mask) {
	o.phase = mask.SelectU(phase, o.phase)
}

func (o *Oscillator) updateMask(t *OscTarget) {
	switchedOn := t.Mask.And(o.activeMask.Xor(t.Mask))
	o.phase = switchedOn.SelectU(t.StartingPhases, o.phase)
	o.activeMask = t.Mask
}

// SetParamsInstantly jumps to t without gliding.
func (o *Oscillator) SetParamsInstantly(t *OscTarget) {
	o.updateMask(t)
	o.phaseDelta.SetInstantly(nonNegative(t.PhaseDelta))
	o.frame.SetInstantly(nonNegative(t.Frame))
}

// SetParamsSmoothed glides to t, arriving after 1/inc samples. The phase
// increment glides in the log domain, the frame linearly.
func (o *Oscillator) SetParamsSmoothed(t *OscTarget, inc float32) {
	o.updateMask(t)
	o.phaseDelta.SetIncrement(nonNegative(t.PhaseDelta), inc)
	o.frame.SetIncrement(nonNegative(t.Frame), inc)
}

// AdvanceAndResample steps every smoother and phase by one sample and reads
// the bank at the new phases. Inactive lanes read as zero.
func (o *Oscillator) AdvanceAndResample(bank *wavetable.Bank) dsp.Float {
	o.phaseDelta.Tick1()
	o.frame.Tick1()

	delta := dsp.FlpToFxp(o.phaseDelta.Value)
	lastFrame := uint32(bank.NumFrames() - 1)
	var frame dsp.UInt
	for i, f := range o.frame.Value {
		idx := uint32(f)
		if idx > lastFrame {
			idx = lastFrame
		}
		frame[i] = idx
	}
	for i := range o.phase {
		o.phase[i] += delta[i]
	}
	return bank.ResampleSelect(delta, frame, o.phase, o.activeMask)
}

// ScaleFrames multiplies the frame positions by ratio, used when a bank with
// a different frame count is swapped in.
func (o *Oscillator) ScaleFrames(ratio float32) {
	o.frame.Scale(dsp.Splat(ratio))
}

// ScalePhaseDelta multiplies the phase increments by ratio.
func (o *Oscillator) ScalePhaseDelta(ratio float32) {
	o.phaseDelta.Scale(dsp.Splat(ratio))
}

func nonNegative(v dsp.Float) dsp.Float {
	for i, x := range v {
		if !(x > 0) {
			v[i] = 0
		}
	}
	return v
}
