package wavio

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-wtosc/wavetable"
)

// Built-in bank names accepted by LoadBank.
const (
	BankShapes = "shapes"
	BankSine   = "sine"

	cyclePrefix = "cycle:"
)

// LoadBank resolves a bank source given on the command line:
//
//	shapes          sine, triangle, saw and square frames
//	sine            a single sine frame
//	cycle:<file>    one waveform period of any length in any WAV format
//	<file>          a mono 32-bit float WAV of whole frames
func LoadBank(src string) (*wavetable.Bank, error) {
	src = strings.TrimSpace(src)
	switch {
	case src == "" || src == BankShapes:
		return wavetable.BasicShapes()
	case src == BankSine:
		return wavetable.Sine()
	case strings.HasPrefix(src, cyclePrefix):
		path := strings.TrimPrefix(src, cyclePrefix)
		cycle, _, err := ReadMono(path)
		if err != nil {
			return nil, err
		}
		bank, err := wavetable.FromCycle(cycle)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return bank, nil
	default:
		return wavetable.FromWAV(src)
	}
}
