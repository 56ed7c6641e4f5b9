package wavetable

import (
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/wav"
)

// wavFormatIEEEFloat is the WAVE format tag for IEEE float samples.
const wavFormatIEEEFloat = 3

// FromWAV loads a bank from a single-channel IEEE float WAV file. The sample
// count must be a non-zero multiple of TableSize; each TableSize block is one
// frame.
func FromWAV(path string) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Decode reads a bank from WAV data. See FromWAV for the accepted format.
func Decode(r io.ReadSeeker) (*Bank, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid wav stream", ErrSampleFormat)
	}
	if dec.WavAudioFormat != wavFormatIEEEFloat {
		return nil, fmt.Errorf("%w: format tag %d, want IEEE float", ErrSampleFormat, dec.WavAudioFormat)
	}
	if dec.NumChans != 1 {
		return nil, fmt.Errorf("%w: %d channels, want 1", ErrSampleFormat, dec.NumChans)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("%w: empty pcm buffer", ErrSampleFormat)
	}
	return FromSamples(buf.Data)
}
