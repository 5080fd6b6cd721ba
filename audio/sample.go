package audio

import "time"

// peakBlock is the granularity of the remaining-peak table.
const peakBlock = 512

// Sample is decoded PCM audio. It is shared by every voice that plays it and must not be
// modified after NewSample returns.
type Sample struct {
	PCM        []int16 // interleaved by channel
	SampleRate int
	Channels   int

	// tailPeak[i] is the largest absolute amplitude in PCM[i*peakBlock:].
	tailPeak []int32
}

func NewSample(pcm []int16, sampleRate, channels int) *Sample {
	s := &Sample{PCM: pcm, SampleRate: sampleRate, Channels: channels}
	s.tailPeak = make([]int32, (len(pcm)+peakBlock-1)/peakBlock)
	var peak int32
	for b := len(s.tailPeak) - 1; b >= 0; b-- {
		end := min((b+1)*peakBlock, len(pcm))
		for _, v := range pcm[b*peakBlock : end] {
			if a := abs32(int32(v)); a > peak {
				peak = a
			}
		}
		s.tailPeak[b] = peak
	}
	return s
}

func (s *Sample) Format() Format {
	return Format{SampleRate: s.SampleRate, Channels: s.Channels}
}

// Frames returns the number of frames in the sample.
func (s *Sample) Frames() int {
	if s.Channels == 0 {
		return 0
	}
	return len(s.PCM) / s.Channels
}

func (s *Sample) Duration() time.Duration {
	if s.SampleRate == 0 {
		return 0
	}
	return time.Duration(s.Frames()) * time.Second / time.Duration(s.SampleRate)
}

// PeakFrom returns an upper bound of the absolute amplitude of PCM[pos:], accurate to
// the start of the enclosing block.
func (s *Sample) PeakFrom(pos int) int32 {
	if pos < 0 {
		pos = 0
	}
	b := pos / peakBlock
	if b >= len(s.tailPeak) {
		return 0
	}
	return s.tailPeak[b]
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
