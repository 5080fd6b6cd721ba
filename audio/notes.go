package audio

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var pitchClasses = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// flats maps sharp spellings to the flat spelling used in sample file names.
var flats = map[string]string{
	"C#": "Db",
	"D#": "Eb",
	"F#": "Gb",
	"G#": "Ab",
	"A#": "Bb",
}

// Note is a parsed note identifier such as "C#4".
type Note struct {
	Pitch  string // pitch class as written, e.g. "C#" or "Db"
	Octave int
}

// ParseNote splits a note identifier into pitch class and octave. Identifiers are
// case-sensitive: "c4" is not a note.
func ParseNote(id string) (Note, error) {
	i := len(id)
	for i > 0 && id[i-1] >= '0' && id[i-1] <= '9' {
		i--
	}
	if i == len(id) || i == 0 {
		return Note{}, fmt.Errorf("invalid note %q", id)
	}
	pitch := id[:i]
	if pitchIndex(pitch) < 0 {
		return Note{}, fmt.Errorf("invalid pitch %q in note %q", pitch, id)
	}
	octave, err := strconv.Atoi(id[i:])
	if err != nil {
		return Note{}, fmt.Errorf("invalid octave in note %q: %w", id, err)
	}
	return Note{Pitch: pitch, Octave: octave}, nil
}

func (n Note) String() string {
	return n.Pitch + strconv.Itoa(n.Octave)
}

// Flat returns the pitch class spelled with a flat where the note is a sharp.
func (n Note) Flat() string {
	if f, ok := flats[n.Pitch]; ok {
		return f
	}
	return n.Pitch
}

// FileName formats the sample file name for the note, e.g. "Piano.ff.Db4.wav".
func (n Note) FileName(prefix, ext string) string {
	return prefix + "." + n.Flat() + strconv.Itoa(n.Octave) + "." + strings.TrimPrefix(ext, ".")
}

// Frequency returns the equal-tempered pitch of the note with A4 at 440Hz.
func (n Note) Frequency() float64 {
	return 440 * math.Pow(2, float64(n.semitone()-57)/12)
}

// semitone returns the number of semitones above C0.
func (n Note) semitone() int {
	return n.Octave*12 + pitchIndex(n.Pitch)
}

func pitchIndex(pitch string) int {
	for i, p := range pitchClasses {
		if p == pitch {
			return i
		}
	}
	for sharp, flat := range flats {
		if flat == pitch {
			return pitchIndex(sharp)
		}
	}
	return -1
}

// NoteRange returns the chromatic note identifiers from low to high inclusive, using sharps.
func NoteRange(low, high string) ([]string, error) {
	lo, err := ParseNote(low)
	if err != nil {
		return nil, err
	}
	hi, err := ParseNote(high)
	if err != nil {
		return nil, err
	}
	if lo.semitone() > hi.semitone() {
		return nil, fmt.Errorf("note range %s-%s is empty", low, high)
	}
	var ids []string
	for s := lo.semitone(); s <= hi.semitone(); s++ {
		ids = append(ids, pitchClasses[s%12]+strconv.Itoa(s/12))
	}
	return ids, nil
}
