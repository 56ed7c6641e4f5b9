package wtosc

import (
	"github.com/cwbudde/algo-wtosc/dsp"
	"github.com/cwbudde/algo-wtosc/wavetable"
)

// globalState is shared by every cluster of an engine.
type globalState struct {
	sampleRate     float32
	numFrames      int
	frameSpread    float32
	startingPhases [NumVoiceOscillators]dsp.Float
}

func (g *globalState) setStartingPhases(phases [MaxUnison]float32) {
	for i, ph := range phases {
		g.startingPhases[i/dsp.FloatsPerVector][i%dsp.FloatsPerVector] = ph
	}
}

// ClusterParams holds the per-lane parameter vectors of a cluster. Both lanes
// of a stereo voice always carry the same values.
type ClusterParams struct {
	detune      dsp.LinearSmoother
	detuneRange dsp.LinearSmoother
	transpose   dsp.LinearSmoother
	frame       dsp.LinearSmoother
	random      dsp.LinearSmoother
	level       dsp.LinearSmoother
	stereo      dsp.LinearSmoother
	pan         dsp.LinearSmoother
	numVoices   dsp.UInt
	phaseDelta  dsp.Float
}

func (p *ClusterParams) smoother(id ParamID) *dsp.LinearSmoother {
	switch id {
	case ParamDetune:
		return &p.detune
	case ParamDetuneRange:
		return &p.detuneRange
	case ParamTranspose:
		return &p.transpose
	case ParamFrame:
		return &p.frame
	case ParamRandom:
		return &p.random
	case ParamLevel:
		return &p.level
	case ParamStereo:
		return &p.stereo
	case ParamPan:
		return &p.pan
	}
	return nil
}

func (p *ClusterParams) smoothers() [8]*dsp.LinearSmoother {
	return [8]*dsp.LinearSmoother{
		&p.detune, &p.detuneRange, &p.transpose, &p.frame,
		&p.random, &p.level, &p.stereo, &p.pan,
	}
}

// SetParam jumps the selected lanes of one parameter. Unknown ids are ignored.
func (p *ClusterParams) SetParam(id ParamID, norm float32, mask dsp.Mask) {
	p.SetParamSmoothed(id, norm, 0, mask)
}

// SetParamSmoothed ramps the selected lanes of one parameter to norm over
// smoothSamples samples. The unison count never glides.
func (p *ClusterParams) SetParamSmoothed(id ParamID, norm, smoothSamples float32, mask dsp.Mask) {
	if id == ParamUnisonVoices {
		p.numVoices = mask.SelectU(dsp.SplatU(UnisonCount(norm)), p.numVoices)
		return
	}
	s := p.smoother(id)
	if s == nil {
		return
	}
	s.SetTarget(dsp.Splat(mapParam(id, norm)), smoothSamples, mask)
}

// Value returns the current value of a parameter on a lane in the unit the
// cluster holds it (semitones for detune range and transpose).
func (p *ClusterParams) Value(id ParamID, lane int) float32 {
	if id == ParamUnisonVoices {
		return float32(p.numVoices[lane])
	}
	s := p.smoother(id)
	if s == nil {
		return 0
	}
	return s.Value[lane]
}

// TickN advances every parameter smoother by n samples.
func (p *ClusterParams) TickN(n int) {
	f := float32(n)
	for _, s := range p.smoothers() {
		s.Tick(f)
	}
}

// SampleWeights returns the gains applied to the voice output and to its
// L/R-swapped copy. Pan uses triangular power weights divided by the unison
// count so stacking copies does not raise the level.
func (p *ClusterParams) SampleWeights() (normal, flipped dsp.Float) {
	var norm dsp.Float
	for i, n := range p.numVoices {
		if n < 1 {
			n = 1
		}
		norm[i] = 1 / float32(n)
	}
	panWeights := dsp.TriangularPanWeights(p.pan.Value).Mul(norm)
	one := dsp.Splat(1)
	level := p.level.Value
	stereo := p.stereo.Value
	normal = dsp.Sqrt(panWeights.Mul(one.Add(stereo))).Mul(level)
	flipped = dsp.Sqrt(panWeights.Mul(one.Sub(stereo))).Mul(level)
	return normal, flipped
}

func (p *ClusterParams) voiceParams(voice int, g *globalState, out *VoiceParams) {
	lane := 2 * voice
	maxFrame := float32(g.numFrames - 1)
	if maxFrame < 0 {
		maxFrame = 0
	}
	frame := p.frame.Value[lane] * float32(g.numFrames)
	if frame > maxFrame {
		frame = maxFrame
	}
	*out = VoiceParams{
		UnisonVoices:   int(p.numVoices[lane]),
		DetuneSpread:   p.detune.Value[lane] * p.detuneRange.Value[lane],
		Transpose:      p.transpose.Value[lane],
		Frame:          frame,
		FrameSpread:    g.frameSpread,
		MaxFrame:       maxFrame,
		Random:         p.random.Value[lane],
		BasePhaseDelta: p.phaseDelta[lane],
		StartingPhases: &g.startingPhases,
	}
}

// copyStereoLane copies the stereo pair of voice from in src to voice to in
// dst. src and dst may be the same vector.
func copyStereoLane(src *dsp.Float, from int, dst *dsp.Float, to int) {
	l, r := src[2*from], src[2*from+1]
	dst[2*to], dst[2*to+1] = l, r
}

func copyStereoLaneU(src *dsp.UInt, from int, dst *dsp.UInt, to int) {
	l, r := src[2*from], src[2*from+1]
	dst[2*to], dst[2*to+1] = l, r
}

func copySmootherLane(src *dsp.LinearSmoother, from int, dst *dsp.LinearSmoother, to int) {
	copyStereoLane(&src.Value, from, &dst.Value, to)
	copyStereoLane(&src.Increment, from, &dst.Increment, to)
	copyStereoLane(&src.Target, from, &dst.Target, to)
}

func moveParams(src *ClusterParams, from int, dst *ClusterParams, to int) {
	in, out := src.smoothers(), dst.smoothers()
	for i := range in {
		copySmootherLane(in[i], from, out[i], to)
	}
	copyStereoLaneU(&src.numVoices, from, &dst.numVoices, to)
	copyStereoLane(&src.phaseDelta, from, &dst.phaseDelta, to)
}

// VoiceCluster packs StereoVoicesPerVector voices into one lane vector.
// Voice v owns lanes 2v and 2v+1 of every parameter and output vector.
type VoiceCluster struct {
	Params ClusterParams

	voices         [dsp.StereoVoicesPerVector]UnisonVoice
	active         [dsp.StereoVoicesPerVector]bool
	normalWeights  dsp.LinearSmoother
	flippedWeights dsp.LinearSmoother
	scratch        VoiceParams
}

// Active reports whether voice v is sounding.
func (c *VoiceCluster) Active(v int) bool {
	return c.active[v]
}

// Voice returns the voice in slot v.
func (c *VoiceCluster) Voice(v int) *UnisonVoice {
	return &c.voices[v]
}

// Weights returns the current normal and flipped mix weights.
func (c *VoiceCluster) Weights() (normal, flipped dsp.Float) {
	return c.normalWeights.Value, c.flippedWeights.Value
}

// AnyActive reports whether any voice is sounding.
func (c *VoiceCluster) AnyActive() bool {
	for _, a := range c.active {
		if a {
			return true
		}
	}
	return false
}

// SetGainsInstantly snaps both mix weight smoothers to the current params.
func (c *VoiceCluster) SetGainsInstantly() {
	normal, flipped := c.Params.SampleWeights()
	c.normalWeights.SetInstantly(normal)
	c.flippedWeights.SetInstantly(flipped)
}

func (c *VoiceCluster) activate() {
	c.SetGainsInstantly()
}

func (c *VoiceCluster) deactivate() {
	c.normalWeights.SetInstantly(dsp.Float{})
	c.flippedWeights.SetInstantly(dsp.Float{})
}

// SetParamsSmoothed advances the cluster parameters by a block of n samples
// and starts every voice and mix weight gliding toward the block's end value.
func (c *VoiceCluster) SetParamsSmoothed(n int, g *globalState) {
	if n <= 0 {
		return
	}
	inc := 1 / float32(n)
	c.Params.TickN(n)

	normal, flipped := c.Params.SampleWeights()
	c.normalWeights.SetIncrement(normal, inc)
	c.flippedWeights.SetIncrement(flipped, inc)

	for v := range c.voices {
		if !c.active[v] {
			continue
		}
		c.Params.voiceParams(v, g, &c.scratch)
		c.voices[v].SetParamsSmoothed(&c.scratch, inc)
	}
}

// SetParamsInstantly jumps the active voices selected by mask and their mix
// weight lanes to the current parameter values. Other voices keep gliding.
func (c *VoiceCluster) SetParamsInstantly(mask dsp.Mask, g *globalState) {
	normal, flipped := c.Params.SampleWeights()
	c.normalWeights.SetInstantlyMasked(normal, mask)
	c.flippedWeights.SetInstantlyMasked(flipped, mask)
	for v := range c.voices {
		if !c.active[v] || !mask.Voice(v) {
			continue
		}
		c.Params.voiceParams(v, g, &c.scratch)
		c.voices[v].SetParamsInstantly(&c.scratch)
	}
}

// Process renders one sample of the voices selected by mask and applies the
// mix weights. Voice v's output lands in lanes 2v and 2v+1.
func (c *VoiceCluster) Process(bank *wavetable.Bank, mask dsp.Mask) dsp.Float {
	var out dsp.Float
	for v := range c.voices {
		if c.active[v] && mask.Voice(v) {
			out.SetStereo(v, c.voices[v].Process(bank))
		}
	}
	flipped := dsp.SwapStereo(out)

	c.normalWeights.Tick1()
	c.flippedWeights.Tick1()

	return c.normalWeights.Value.MulAdd(out, c.flippedWeights.Value.Mul(flipped))
}

// ActivateVoice starts voice v playing a MIDI note. It reports false when v
// is out of range.
func (c *VoiceCluster) ActivateVoice(v int, note float32, g *globalState) bool {
	if v < 0 || v >= dsp.StereoVoicesPerVector {
		return false
	}
	base := dsp.MidiNoteToFreq(note) / g.sampleRate
	c.Params.phaseDelta[2*v] = base
	c.Params.phaseDelta[2*v+1] = base

	if !c.AnyActive() {
		c.activate()
	} else {
		normal, flipped := c.Params.SampleWeights()
		lane := dsp.VoiceMask(v)
		c.normalWeights.SetInstantlyMasked(normal, lane)
		c.flippedWeights.SetInstantlyMasked(flipped, lane)
	}

	c.Params.voiceParams(v, g, &c.scratch)
	c.voices[v].Activate(&c.scratch)
	c.active[v] = true
	return true
}

// DeactivateVoice silences voice v. It reports false when v is out of range
// or was not sounding.
func (c *VoiceCluster) DeactivateVoice(v int) bool {
	if v < 0 || v >= dsp.StereoVoicesPerVector || !c.active[v] {
		return false
	}
	c.active[v] = false
	if !c.AnyActive() {
		c.deactivate()
	}
	return true
}

// SetVoiceNote retunes the selected sounding voices to note, keeping their
// phases and unison layout.
func (c *VoiceCluster) SetVoiceNote(mask dsp.Mask, note float32, g *globalState) {
	base := dsp.MidiNoteToFreq(note) / g.sampleRate
	for v := range c.voices {
		if !mask.Voice(v) {
			continue
		}
		old := c.Params.phaseDelta[2*v]
		c.Params.phaseDelta[2*v] = base
		c.Params.phaseDelta[2*v+1] = base
		if c.active[v] && old > 0 {
			c.voices[v].ScalePhaseDelta(base / old)
		}
	}
}

// ResetPhases restarts the selected sounding voices at their starting
// phases scaled by the random parameter.
func (c *VoiceCluster) ResetPhases(mask dsp.Mask, g *globalState) {
	for v := range c.voices {
		if !c.active[v] || !mask.Voice(v) {
			continue
		}
		c.Params.voiceParams(v, g, &c.scratch)
		c.voices[v].ResetPhases(&c.scratch)
	}
}

// ScaleFrames rescales the frame position of every voice by ratio.
func (c *VoiceCluster) ScaleFrames(ratio float32) {
	for v := range c.voices {
		c.voices[v].ScaleFrames(ratio)
	}
}

// MoveState copies everything voice from of src owns to voice to of dst:
// parameter lanes, mix weight lanes, the unison voice and its active flag.
// Sibling lanes of dst are untouched. src and dst may be the same cluster.
// The source voice keeps sounding until it is deactivated.
func MoveState(src *VoiceCluster, from int, dst *VoiceCluster, to int) {
	moveParams(&src.Params, from, &dst.Params, to)
	copySmootherLane(&src.normalWeights, from, &dst.normalWeights, to)
	copySmootherLane(&src.flippedWeights, from, &dst.flippedWeights, to)
	dst.voices[to] = src.voices[from]
	dst.active[to] = src.active[from]
	if !dst.AnyActive() {
		dst.deactivate()
	}
}
