package audio

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultSampleRate = 44100
	DefaultChannels   = 2
	DefaultBlockSize  = 64 // frames per mix tick, about 1.5ms at 44.1kHz
)

var (
	ErrNoOutputDevice    = errors.New("no output device")
	ErrFormatNegotiation = errors.New("output format rejected")
)

// Format is the sample rate and channel count of a PCM stream.
type Format struct {
	SampleRate int
	Channels   int
}

var DefaultFormat = Format{SampleRate: DefaultSampleRate, Channels: DefaultChannels}

func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch/s16", f.SampleRate, f.Channels)
}

// BlockDuration returns the wall time covered by a block of the given number of frames.
func (f Format) BlockDuration(frames int) time.Duration {
	if f.SampleRate <= 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate)
}

func (f Format) valid() bool {
	return f.SampleRate > 0 && f.Channels > 0
}
