package wavetable

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"
)

func TestDecodeFloatWAV(t *testing.T) {
	samples := append(sineFrame(1), sineFrame(2)...)
	b, err := Decode(bytes.NewReader(floatWAV(samples, 1)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b.NumFrames() != 2 {
		t.Fatalf("NumFrames: got=%d want=2", b.NumFrames())
	}
}

func TestDecodeRejectsStereo(t *testing.T) {
	_, err := Decode(bytes.NewReader(floatWAV(make([]float32, 2*TableSize), 2)))
	if !errors.Is(err, ErrSampleFormat) {
		t.Fatalf("got err=%v want=%v", err, ErrSampleFormat)
	}
}

func TestDecodeRejectsPartialFrame(t *testing.T) {
	_, err := Decode(bytes.NewReader(floatWAV(make([]float32, TableSize+100), 1)))
	if !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("got err=%v want=%v", err, ErrInvalidLength)
	}
}

func TestFromWAVRejectsIntegerPCM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pcm16.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	enc := wav.NewEncoder(f, 48000, 16, 1, 1)
	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  48000,
			NumChannels: 1,
		},
		Data:           sineFrame(1),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("wav write: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("wav close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	_, err = FromWAV(path)
	if !errors.Is(err, ErrSampleFormat) {
		t.Fatalf("got err=%v want=%v", err, ErrSampleFormat)
	}
}

func TestFromWAVMissingFile(t *testing.T) {
	if _, err := FromWAV(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
