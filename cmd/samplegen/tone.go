package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/mrdg/piano/audio"
	"github.com/youpy/go-wav"
)

// partials are the relative amplitudes of the harmonics of each tone.
var partials = []float64{1, 0.5, 0.3, 0.15, 0.08}

const (
	peak   = 0.3 * math.MaxInt16
	attack = 0.005 // seconds
	decay  = 3.0   // per second
)

type generator struct {
	dir      string
	prefix   string
	rate     int
	channels int
	seconds  float64
}

func (g generator) validate() error {
	if g.rate < 1000 || g.rate > 384000 {
		return fmt.Errorf("sample rate out of range: %d", g.rate)
	}
	if g.channels < 1 || g.channels > 2 {
		return fmt.Errorf("channels must be 1 or 2, got %d", g.channels)
	}
	if g.seconds <= 0 || g.seconds > 60 {
		return fmt.Errorf("length out of range: %vs", g.seconds)
	}
	return nil
}

// write renders the tone for the note and returns the path of the new file.
func (g generator) write(id string) (string, error) {
	n, err := audio.ParseNote(id)
	if err != nil {
		return "", err
	}
	path := filepath.Join(g.dir, n.FileName(g.prefix, "wav"))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	samples := g.tone(n.Frequency())
	w := wav.NewWriter(f, uint32(len(samples)), uint16(g.channels), uint32(g.rate), 16)
	if err := w.WriteSamples(samples); err != nil {
		f.Close()
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, f.Close()
}

// tone is an additive sine with a short linear attack and an exponential decay.
// Harmonics above the Nyquist frequency are left out.
func (g generator) tone(freq float64) []wav.Sample {
	frames := int(g.seconds * float64(g.rate))
	samples := make([]wav.Sample, frames)
	for i := range samples {
		t := float64(i) / float64(g.rate)
		var v float64
		for k, amp := range partials {
			f := freq * float64(k+1)
			if f >= float64(g.rate)/2 {
				break
			}
			v += amp * math.Sin(2*math.Pi*f*t)
		}
		env := math.Exp(-decay * t)
		if t < attack {
			env *= t / attack
		}
		s := int(math.Round(peak * env * v / 2))
		samples[i].Values = [2]int{s, s}
	}
	return samples
}
