package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-wtosc/analysis"
	"github.com/cwbudde/algo-wtosc/dsp"
	"github.com/cwbudde/algo-wtosc/internal/wavio"
	"github.com/cwbudde/algo-wtosc/preset"
	"github.com/cwbudde/algo-wtosc/wtosc"
)

func main() {
	notesFlag := flag.String("notes", "69", "Comma-separated MIDI notes, fractional allowed (69 = A4 = 440 Hz)")
	duration := flag.Float64("duration", 2.0, "Duration in seconds")
	glide := flag.Float64("glide", 0, "Retune every note by this many semitones halfway through the render")
	sampleRate := flag.Int("sample-rate", 48000, "Render sample rate in Hz")
	blockSize := flag.Int("block", 128, "Processing block size in samples")
	presetPath := flag.String("preset", "", "Preset JSON file path (defaults when empty)")
	bankSrc := flag.String("wavetable", "", "Wavetable source: shapes, sine, cycle:<wav> or a float WAV path (overrides preset)")
	unison := flag.Int("unison", 0, "Unison voices 1-16 (0 keeps the preset value)")
	set := flag.String("set", "", "Parameter overrides, e.g. detune=0.3,frame=0.5")
	gainDB := flag.Float64("gain-db", -6, "Output gain in dB")
	output := flag.String("output", "output.wav", "Output WAV file path")
	metricsPath := flag.String("metrics", "", "Write render metrics JSON to this path ('-' for stdout)")
	flag.Parse()

	notes, err := parseNotes(*notesFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -notes: %v\n", err)
		os.Exit(1)
	}

	params := wtosc.NewDefaultParams()
	if *presetPath != "" {
		params, err = preset.LoadJSON(*presetPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading preset %q: %v\n", *presetPath, err)
			os.Exit(1)
		}
	}
	if *unison > 0 {
		params.Values[wtosc.ParamUnisonVoices] = wtosc.UnisonNorm(*unison)
	}
	if err := applyOverrides(params, *set); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -set: %v\n", err)
		os.Exit(1)
	}

	src := params.WaveTableWavPath
	if *bankSrc != "" {
		src = *bankSrc
	}
	bank, err := wavio.LoadBank(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading wavetable: %v\n", err)
		os.Exit(1)
	}

	numClusters := (len(notes) + dsp.StereoVoicesPerVector - 1) / dsp.StereoVoicesPerVector
	e := wtosc.NewEngine(params)
	if err := e.Initialize(float32(*sampleRate), *blockSize, numClusters); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing engine: %v\n", err)
		os.Exit(1)
	}
	e.ReplaceWaveTable(bank)

	if src == "" {
		src = wavio.BankShapes
	}
	fmt.Printf("Rendering %d note(s) for %.2f seconds at %d Hz (wavetable: %s, %d frame(s), unison %d)...\n",
		len(notes), *duration, *sampleRate, src, bank.NumFrames(), wtosc.UnisonCount(params.Values[wtosc.ParamUnisonVoices]))

	for i, n := range notes {
		if err := e.ActivateVoice(i/dsp.StereoVoicesPerVector, i%dsp.StereoVoicesPerVector, n); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting note %g: %v\n", n, err)
			os.Exit(1)
		}
	}

	totalFrames := int(float64(*sampleRate) * (*duration))
	if totalFrames < 1 {
		totalFrames = 1
	}
	glideAt := totalFrames / 2
	glided := *glide == 0

	gain := float32(core.DBToLinear(*gainDB))
	samples := make([]float32, totalFrames*2)
	block := make([]dsp.Float, *blockSize)
	all := dsp.AllVoices()

	framesRendered := 0
	for framesRendered < totalFrames {
		framesToRender := *blockSize
		if framesRendered+framesToRender > totalFrames {
			framesToRender = totalFrames - framesRendered
		}
		if !glided && framesRendered >= glideAt {
			for i, n := range notes {
				mask := dsp.VoiceMask(i % dsp.StereoVoicesPerVector)
				if err := e.SetVoiceNote(i/dsp.StereoVoicesPerVector, mask, n+float32(*glide)); err != nil {
					fmt.Fprintf(os.Stderr, "Error retuning note %g: %v\n", n, err)
					os.Exit(1)
				}
			}
			glided = true
		}

		out := samples[framesRendered*2 : (framesRendered+framesToRender)*2]
		for c := 0; c < numClusters; c++ {
			e.Process(block[:framesToRender], c, all)
			wtosc.MixDown(out, block[:framesToRender])
		}
		for i := range out {
			out[i] *= gain
		}
		framesRendered += framesToRender
	}

	if err := wavio.WriteStereo(*output, samples, *sampleRate); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing WAV file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully wrote %s (%d frames)\n", *output, totalFrames)

	if *metricsPath != "" {
		if err := writeMetrics(*metricsPath, analysis.Measure(samples, *sampleRate)); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing metrics: %v\n", err)
			os.Exit(1)
		}
	}
}

func parseNotes(raw string) ([]float32, error) {
	var notes []float32
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 32)
		if err != nil {
			return nil, fmt.Errorf("%q is not a note number", part)
		}
		if v < 0 || v > 127 {
			return nil, fmt.Errorf("note %g out of range 0-127", v)
		}
		notes = append(notes, float32(v))
	}
	if len(notes) == 0 {
		return nil, fmt.Errorf("no notes given")
	}
	return notes, nil
}

func applyOverrides(p *wtosc.Params, raw string) error {
	for _, kv := range strings.Split(raw, ",") {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("%q is not key=value", kv)
		}
		id, ok := wtosc.ParamByName(strings.TrimSpace(key))
		if !ok {
			return fmt.Errorf("unknown parameter %q", key)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 32)
		if err != nil {
			return fmt.Errorf("%s: %v", key, err)
		}
		if v < 0 || v > 1 {
			return fmt.Errorf("%s=%g outside [0,1]", key, v)
		}
		p.Values[id] = float32(v)
	}
	return nil
}

func writeMetrics(path string, m analysis.Metrics) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if path == "-" {
		_, err = os.Stdout.Write(b)
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
