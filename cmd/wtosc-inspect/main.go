package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-wtosc/analysis"
	"github.com/cwbudde/algo-wtosc/internal/wavio"
	"github.com/cwbudde/algo-wtosc/wavetable"
)

func main() {
	bankSrc := flag.String("wavetable", wavio.BankShapes, "Wavetable: shapes, sine, cycle:<wav> or a float WAV path")
	frameFlag := flag.Int("frame", -1, "Only inspect this frame (-1 = all)")
	sampleRate := flag.Int("sample-rate", 48000, "Sample rate used to report the highest note per level")
	dumpDir := flag.String("dump", "", "Write every mip level of the inspected frames as mono WAVs into this directory")
	flag.Parse()

	bank, err := wavio.LoadBank(*bankSrc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading wavetable: %v\n", err)
		os.Exit(1)
	}

	first, last := 0, bank.NumFrames()-1
	if *frameFlag >= 0 {
		if *frameFlag > last {
			fmt.Fprintf(os.Stderr, "Frame %d out of range (bank has %d)\n", *frameFlag, bank.NumFrames())
			os.Exit(1)
		}
		first, last = *frameFlag, *frameFlag
	}

	fmt.Printf("Wavetable %s: %d frame(s), %d levels of %d samples\n\n", *bankSrc, bank.NumFrames(), wavetable.NumMipmaps, wavetable.TableSize)

	for frame := first; frame <= last; frame++ {
		fmt.Printf("Frame %d\n", frame)
		fmt.Printf("  %-5s  %-9s  %-12s  %-9s  %-9s  %s\n", "level", "harmonics", "max f0 (Hz)", "peak", "rms", "leak (dB)")
		for level := 0; level < wavetable.NumMipmaps; level++ {
			table := bank.Table(frame, level)
			power, err := analysis.HarmonicPower(table)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error analysing frame %d level %d: %v\n", frame, level, err)
				os.Exit(1)
			}
			limit := harmonicLimit(level)
			peak, rms := levelStats(table)
			fmt.Printf("  %-5d  %-9d  %-12.1f  %-9.4f  %-9.4f  %s\n",
				level, limit, maxFundamental(level, *sampleRate), peak, rms, leakDB(analysis.PowerAbove(power, limit)))

			if *dumpDir != "" {
				path := filepath.Join(*dumpDir, fmt.Sprintf("frame%03d_level%02d.wav", frame, level))
				if err := wavio.WriteMono(path, table, *sampleRate); err != nil {
					fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
					os.Exit(1)
				}
			}
		}
		fmt.Println()
	}
	if *dumpDir != "" {
		fmt.Printf("Wrote level tables to %s\n", *dumpDir)
	}
}

// harmonicLimit is the highest harmonic a level keeps.
func harmonicLimit(level int) int {
	if level >= wavetable.NumOctaves {
		return wavetable.TableSize / 2
	}
	if level == 0 {
		return 0
	}
	return 1 << (level - 1)
}

// maxFundamental is the highest fundamental that still reads this level.
// Level k serves phase increments below 2^(32-k), i.e. fundamentals below
// sampleRate / 2^k.
func maxFundamental(level, sampleRate int) float64 {
	return float64(sampleRate) / math.Exp2(float64(level))
}

func levelStats(table []float32) (peak, rms float64) {
	var sum float64
	for _, v := range table {
		a := math.Abs(float64(v))
		peak = math.Max(peak, a)
		sum += a * a
	}
	return peak, math.Sqrt(sum / float64(len(table)))
}

func leakDB(share float64) string {
	if share <= 0 {
		return "-inf"
	}
	return fmt.Sprintf("%.1f", 10*math.Log10(share))
}
