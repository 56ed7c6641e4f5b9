// Package wtosc implements a polyphonic band-limited wavetable oscillator
// with unison stacks packed into vector lanes.
package wtosc

import (
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-wtosc/dsp"
	"github.com/cwbudde/algo-wtosc/wavetable"
)

// LaneRef addresses one stereo voice slot of one cluster.
type LaneRef struct {
	Cluster int
	Lane    int
}

// Engine runs a fixed pool of voice clusters over a shared wavetable bank.
// Every method except ReplaceWaveTable and WaveTable must be called from the
// goroutine that calls Process.
type Engine struct {
	params   *Params
	config   core.ProcessorConfig
	bank     atomic.Pointer[wavetable.Bank]
	clusters []VoiceCluster
	global   globalState
}

// NewEngine creates an engine with params; nil selects the defaults.
func NewEngine(params *Params) *Engine {
	if params == nil {
		params = NewDefaultParams()
	}
	return &Engine{params: params}
}

// Initialize allocates maxClusters clusters for the given sample rate and
// block size. All allocation happens here.
func (e *Engine) Initialize(sampleRate float32, maxBlockSize, maxClusters int) error {
	if !(sampleRate > 0) {
		return fmt.Errorf("wtosc: invalid sample rate %v", sampleRate)
	}
	if maxBlockSize <= 0 {
		return fmt.Errorf("wtosc: invalid block size %d", maxBlockSize)
	}
	if maxClusters <= 0 {
		return fmt.Errorf("wtosc: invalid cluster count %d", maxClusters)
	}
	if e.params == nil {
		e.params = NewDefaultParams()
	}
	e.config = core.ApplyProcessorOptions(
		core.WithSampleRate(float64(sampleRate)),
		core.WithBlockSize(maxBlockSize),
	)
	e.global = globalState{
		sampleRate:  float32(e.config.SampleRate),
		numFrames:   e.bank.Load().NumFrames(),
		frameSpread: e.params.FrameSpread,
	}
	phases := DefaultStartingPhases()
	copy(phases[:], e.params.StartingPhases)
	e.global.setStartingPhases(phases)

	e.clusters = make([]VoiceCluster, maxClusters)
	all := dsp.AllVoices()
	for i := range e.clusters {
		for id, v := range e.params.Values {
			e.clusters[i].Params.SetParam(ParamID(id), v, all)
		}
	}
	return nil
}

// Config returns the processing configuration set by Initialize.
func (e *Engine) Config() core.ProcessorConfig {
	return e.config
}

// SampleRate returns the sample rate set by Initialize.
func (e *Engine) SampleRate() float32 {
	return float32(e.config.SampleRate)
}

// NumClusters returns the size of the cluster pool.
func (e *Engine) NumClusters() int {
	return len(e.clusters)
}

// Cluster returns cluster i for inspection.
func (e *Engine) Cluster(i int) *VoiceCluster {
	return &e.clusters[i]
}

// SmoothingSamples returns the default ramp length in samples.
func (e *Engine) SmoothingSamples() float32 {
	return e.params.SmoothingSamples(e.global.sampleRate)
}

// WaveTable returns the bank currently published to Process.
func (e *Engine) WaveTable() *wavetable.Bank {
	return e.bank.Load()
}

// ReplaceWaveTable publishes bank to Process and returns the previous one.
// It is safe to call from any goroutine; a block already running keeps the
// bank it started with.
func (e *Engine) ReplaceWaveTable(bank *wavetable.Bank) *wavetable.Bank {
	return e.bank.Swap(bank)
}

// Process renders len(out) samples of one cluster in chunks of at most the
// block size given to Initialize, so parameter ramps are refreshed at least
// once per block. Only voices selected by voiceMask are rendered. Lane 2v
// of each output vector holds the left and lane 2v+1 the right channel of
// voice v. Without a bank the output is silent.
func (e *Engine) Process(out []dsp.Float, cluster int, voiceMask dsp.Mask) {
	for i := range out {
		out[i] = dsp.Float{}
	}
	if len(out) == 0 {
		return
	}
	bank := e.syncBank()
	if bank.NumFrames() == 0 {
		return
	}

	c := &e.clusters[cluster]
	block := e.config.BlockSize
	if block <= 0 {
		block = len(out)
	}
	for len(out) > 0 {
		n := len(out)
		if n > block {
			n = block
		}
		c.SetParamsSmoothed(n, &e.global)
		for i := range out[:n] {
			out[i] = c.Process(bank, voiceMask)
		}
		out = out[n:]
	}
}

// syncBank loads the published bank and adopts its frame count.
func (e *Engine) syncBank() *wavetable.Bank {
	bank := e.bank.Load()
	if n := bank.NumFrames(); n != 0 && n != e.global.numFrames {
		e.rescaleFrames(n)
	}
	return bank
}

// rescaleFrames keeps frame positions proportional after a bank with a
// different frame count was published.
func (e *Engine) rescaleFrames(numFrames int) {
	old := e.global.numFrames
	e.global.numFrames = numFrames
	if old <= 0 {
		return
	}
	ratio := float32(numFrames) / float32(old)
	for i := range e.clusters {
		e.clusters[i].ScaleFrames(ratio)
	}
}

func (e *Engine) cluster(i int) (*VoiceCluster, error) {
	if e.clusters == nil {
		return nil, ErrNotInitialized
	}
	if i < 0 || i >= len(e.clusters) {
		return nil, fmt.Errorf("%w: %d of %d", ErrClusterIndex, i, len(e.clusters))
	}
	return &e.clusters[i], nil
}

func checkLane(lane int) error {
	if lane < 0 || lane >= dsp.StereoVoicesPerVector {
		return fmt.Errorf("%w: %d", ErrLaneIndex, lane)
	}
	return nil
}

// SetParam jumps a parameter on the voices selected by voiceMask. Unknown
// ids are ignored.
func (e *Engine) SetParam(cluster int, voiceMask dsp.Mask, id ParamID, norm float32) error {
	return e.SetParamSmoothed(cluster, voiceMask, id, norm, 0)
}

// SetParamSmoothed ramps a parameter on the voices selected by voiceMask over
// smoothSamples samples. Unknown ids are ignored.
func (e *Engine) SetParamSmoothed(cluster int, voiceMask dsp.Mask, id ParamID, norm, smoothSamples float32) error {
	c, err := e.cluster(cluster)
	if err != nil {
		return err
	}
	c.Params.SetParamSmoothed(id, norm, smoothSamples, stereoMask(voiceMask))
	return nil
}

// SetAllParams jumps every parameter of the selected voices and snaps their
// oscillators and mix weights to the new values. Unselected voices are left
// untouched.
func (e *Engine) SetAllParams(cluster int, voiceMask dsp.Mask, values [NumParams]float32) error {
	c, err := e.cluster(cluster)
	if err != nil {
		return err
	}
	e.syncBank()
	mask := stereoMask(voiceMask)
	for id, v := range values {
		c.Params.SetParam(ParamID(id), v, mask)
	}
	c.SetParamsInstantly(mask, &e.global)
	return nil
}

// ActivateVoice starts lane playing a (fractional) MIDI note.
func (e *Engine) ActivateVoice(cluster, lane int, note float32) error {
	c, err := e.cluster(cluster)
	if err != nil {
		return err
	}
	if err := checkLane(lane); err != nil {
		return err
	}
	e.syncBank()
	c.ActivateVoice(lane, note, &e.global)
	return nil
}

// DeactivateVoice silences lane. Deactivating a silent lane is a no-op.
func (e *Engine) DeactivateVoice(cluster, lane int) error {
	c, err := e.cluster(cluster)
	if err != nil {
		return err
	}
	if err := checkLane(lane); err != nil {
		return err
	}
	c.DeactivateVoice(lane)
	return nil
}

// MoveState copies the complete state of one voice slot to another, which
// may live in the same cluster. The source keeps sounding until the caller
// deactivates it.
func (e *Engine) MoveState(from, to LaneRef) error {
	src, err := e.cluster(from.Cluster)
	if err != nil {
		return err
	}
	dst, err := e.cluster(to.Cluster)
	if err != nil {
		return err
	}
	if err := checkLane(from.Lane); err != nil {
		return err
	}
	if err := checkLane(to.Lane); err != nil {
		return err
	}
	MoveState(src, from.Lane, dst, to.Lane)
	return nil
}

// Reset restarts the phases of the selected voices using the cluster's
// random parameter.
func (e *Engine) Reset(cluster int, voiceMask dsp.Mask) error {
	c, err := e.cluster(cluster)
	if err != nil {
		return err
	}
	c.ResetPhases(voiceMask, &e.global)
	return nil
}

// SetVoiceNote retunes the selected voices without restarting them.
func (e *Engine) SetVoiceNote(cluster int, voiceMask dsp.Mask, note float32) error {
	c, err := e.cluster(cluster)
	if err != nil {
		return err
	}
	c.SetVoiceNote(voiceMask, note, &e.global)
	return nil
}

// SetStartingPhases replaces the per-unison-lane starting phases used by
// later activations and resets.
func (e *Engine) SetStartingPhases(phases [MaxUnison]float32) {
	e.global.setStartingPhases(phases)
}

// stereoMask widens a voice mask so both lanes of a selected voice are set.
func stereoMask(m dsp.Mask) dsp.Mask {
	for v := 0; v < dsp.StereoVoicesPerVector; v++ {
		if m.Voice(v) {
			m[2*v] = true
			m[2*v+1] = true
		}
	}
	return m
}

// MixDown sums every voice of src into interleaved stereo samples added to
// dst, which must hold 2*len(src) values.
func MixDown(dst []float32, src []dsp.Float) {
	for i, v := range src {
		s := dsp.SumToStereo(v)
		dst[2*i] += s[0]
		dst[2*i+1] += s[1]
	}
}
