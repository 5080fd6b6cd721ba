package audio

import (
	"math"
)

// saturate clips a sum to the int16 range. It reports whether clipping happened.
func saturate(s int32) (int16, bool) {
	switch {
	case s > math.MaxInt16:
		return math.MaxInt16, true
	case s < math.MinInt16:
		return math.MinInt16, true
	}
	return int16(s), false
}

// mixDirect adds a voice that already matches the output format into out, sample for
// sample, and advances it by the number of samples consumed. It returns the number of
// clipped samples.
func mixDirect(out []int16, v *Voice) int {
	n := min(v.remaining(), len(out))
	var clipped int
	for i, s := range v.pcm[v.pos : v.pos+n] {
		sum, c := saturate(int32(out[i]) + int32(s))
		out[i] = sum
		if c {
			clipped++
		}
	}
	v.pos += n
	return clipped
}

// mixResampled adds a voice whose rate or channel count differs from the output using
// nearest-neighbour resampling. Only the first min(outChannels, voice channels) channels
// are mixed. It returns the number of clipped samples.
func mixResampled(out []int16, f Format, v *Voice) int {
	frames := len(out) / f.Channels
	ratio := float64(v.rate) / float64(f.SampleRate)
	start := float64(v.pos) / float64(v.channels)
	total := v.length / v.channels
	chans := min(f.Channels, v.channels)

	var clipped int
	for frame := 0; frame < frames; frame++ {
		src := int(start + float64(frame)*ratio)
		if src >= total {
			break
		}
		for c := 0; c < chans; c++ {
			i := frame*f.Channels + c
			sum, cl := saturate(int32(out[i]) + int32(v.pcm[src*v.channels+c]))
			out[i] = sum
			if cl {
				clipped++
			}
		}
	}
	// always advance so that a voice at an extreme ratio still finishes
	step := max(int(math.Round(float64(frames)*ratio*float64(v.channels))), 1)
	v.pos = min(v.pos+step, v.length)
	return clipped
}

// mixVoice picks the direct or the resampling path for v.
func mixVoice(out []int16, f Format, v *Voice) int {
	if v.rate == f.SampleRate && v.channels == f.Channels {
		return mixDirect(out, v)
	}
	return mixResampled(out, f, v)
}
