package main

import (
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-wtosc/dsp"
	"github.com/cwbudde/algo-wtosc/internal/wavio"
	"github.com/cwbudde/algo-wtosc/preset"
	"github.com/cwbudde/algo-wtosc/wavetable"
	"github.com/cwbudde/algo-wtosc/wtosc"
	"github.com/ebitengine/oto/v3"
)

func main() {
	sampleRate := flag.Int("sample-rate", 48000, "Playback sample rate in Hz")
	blockSize := flag.Int("block", 256, "Processing block size in samples")
	bufferMs := flag.Int("buffer-ms", 40, "Output buffer length in milliseconds")
	duration := flag.Float64("duration", 10, "Play for this many seconds (0 = until interrupted)")
	presetPath := flag.String("preset", "", "Preset JSON file path (defaults when empty)")
	bankSrc := flag.String("wavetable", "", "Initial wavetable: shapes, sine, cycle:<wav> or a float WAV path")
	morphFrames := flag.Int("morph-frames", 8, "Frames per generated morph bank")
	swapEvery := flag.Float64("swap-every", 2, "Rebuild and swap the wavetable every N seconds (0 = never)")
	frameRate := flag.Float64("frame-lfo", 0.25, "Frame sweep rate in Hz")
	unison := flag.Int("unison", 7, "Unison voices 1-16")
	flag.Parse()

	params := wtosc.NewDefaultParams()
	if *presetPath != "" {
		var err error
		params, err = preset.LoadJSON(*presetPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading preset %q: %v\n", *presetPath, err)
			os.Exit(1)
		}
	}
	params.Values[wtosc.ParamUnisonVoices] = wtosc.UnisonNorm(*unison)

	src := params.WaveTableWavPath
	if *bankSrc != "" {
		src = *bankSrc
	}
	bank, err := wavio.LoadBank(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading wavetable: %v\n", err)
		os.Exit(1)
	}

	e := wtosc.NewEngine(params)
	if err := e.Initialize(float32(*sampleRate), *blockSize, 1); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing engine: %v\n", err)
		os.Exit(1)
	}
	e.ReplaceWaveTable(bank)

	s := newSource(e, *sampleRate, *blockSize, float32(*frameRate))
	for i, note := range []float32{57, 60, 64} {
		if err := e.ActivateVoice(0, i, note); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting note: %v\n", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(*duration*float64(time.Second)))
		defer cancel()
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   *sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(*bufferMs) * time.Millisecond,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening audio output: %v\n", err)
		os.Exit(1)
	}
	<-ready

	player := otoCtx.NewPlayer(s)
	player.Play()
	defer player.Close()

	fmt.Printf("Playing at %d Hz, unison %d (wavetable: %d frame(s)); Ctrl-C to stop\n", *sampleRate, *unison, bank.NumFrames())

	if *swapEvery > 0 {
		go swapBanks(ctx, e, *morphFrames, time.Duration(*swapEvery*float64(time.Second)))
	}
	<-ctx.Done()

	fmt.Printf("Stopped after %.2fs\n", float64(s.frames.Load())/float64(*sampleRate))
}

// source pulls stereo blocks from the engine for the audio device. Read runs
// on the device goroutine; only the wavetable is touched from elsewhere.
type source struct {
	engine    *wtosc.Engine
	block     []dsp.Float
	buf       []float32
	pending   []float32
	lfoInc    float64
	lfoPhase  float64
	frames    atomic.Int64
	blockSize int
	warned    bool
}

func newSource(e *wtosc.Engine, sampleRate, blockSize int, lfoHz float32) *source {
	return &source{
		engine:    e,
		block:     make([]dsp.Float, blockSize),
		buf:       make([]float32, 2*blockSize),
		blockSize: blockSize,
		lfoInc:    float64(lfoHz) * float64(blockSize) / float64(sampleRate),
	}
}

func (s *source) Read(p []byte) (int, error) {
	n := 0
	for n+8 <= len(p) {
		if len(s.pending) == 0 {
			s.render()
		}
		binary.LittleEndian.PutUint32(p[n:], math.Float32bits(s.pending[0]))
		binary.LittleEndian.PutUint32(p[n+4:], math.Float32bits(s.pending[1]))
		s.pending = s.pending[2:]
		n += 8
	}
	return n, nil
}

func (s *source) render() {
	// Sweep the frame once per block and ramp across it.
	frame := 0.5 - 0.5*math.Cos(2*math.Pi*s.lfoPhase)
	s.lfoPhase = math.Mod(s.lfoPhase+s.lfoInc, 1)
	err := s.engine.SetParamSmoothed(0, dsp.AllVoices(), wtosc.ParamFrame, float32(frame), float32(s.blockSize))
	if err != nil && !s.warned {
		fmt.Fprintf(os.Stderr, "frame sweep: %v\n", err)
		s.warned = true
	}

	out := s.buf
	clear(out)
	s.engine.Process(s.block, 0, dsp.AllVoices())
	wtosc.MixDown(out, s.block)
	for i := range out {
		out[i] *= 0.25
	}
	s.pending = out
	s.frames.Add(int64(s.blockSize))
}

// swapBanks rebuilds a morph bank on every tick, alternating the target
// shape and frame count, and hands it to the engine.
func swapBanks(ctx context.Context, e *wtosc.Engine, frames int, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	shapes, err := wavetable.BasicShapes()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building shapes: %v\n", err)
		return
	}
	targets := []int{wavetable.ShapeSaw, wavetable.ShapeSquare, wavetable.ShapeTriangle}
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		n := frames + i%2*frames
		target := targets[i%len(targets)]
		bank, err := wavetable.Morph(
			shapes.Table(wavetable.ShapeSine, wavetable.NumOctaves),
			shapes.Table(target, wavetable.NumOctaves),
			n,
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building morph bank: %v\n", err)
			return
		}
		e.ReplaceWaveTable(bank)
		fmt.Printf("Swapped wavetable: %d frames toward shape %d\n", n, target)
	}
}
