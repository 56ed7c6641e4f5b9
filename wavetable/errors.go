package wavetable

import "errors"

var (
	// ErrNoFrames is returned when a bank would contain no frames.
	ErrNoFrames = errors.New("wavetable: no frames")
	// ErrInvalidLength is returned when input is not a whole number of tables.
	ErrInvalidLength = errors.New("wavetable: invalid length")
	// ErrSampleFormat is returned when imported audio is not single-channel float PCM.
	ErrSampleFormat = errors.New("wavetable: unsupported sample format")
)
