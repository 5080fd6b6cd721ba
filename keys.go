package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mrdg/piano/audio"
	"golang.org/x/term"
)

// homeRow maps keys to semitones above C, laid out like a piano keyboard.
var homeRow = map[byte]int{
	'a': 0, 'w': 1, 's': 2, 'e': 3, 'd': 4, 'f': 5, 't': 6,
	'g': 7, 'y': 8, 'h': 9, 'u': 10, 'j': 11, 'k': 12,
}

var pitchNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

const ctrlC = 3

// keymap turns key presses into notes.
type keymap struct {
	octave, low, high int
}

func newKeymap(low, high, octave int) *keymap {
	return &keymap{octave: octave, low: low, high: high}
}

// note returns the note for key in the current octave.
func (k *keymap) note(key byte) (string, bool) {
	semi, ok := homeRow[key]
	if !ok {
		return "", false
	}
	s := k.octave*12 + semi
	return pitchNames[s%12] + strconv.Itoa(s/12), true
}

// shift moves the octave by d, staying within [low, high].
func (k *keymap) shift(d int) {
	k.octave = min(max(k.octave+d, k.low), k.high)
}

// playKeys reads single key presses from the terminal until q, Ctrl-C, EOF or ctx is
// done.
func playKeys(ctx context.Context, env *env, in *os.File, out io.Writer) error {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("--keys needs a terminal")
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("can't set raw mode: %w", err)
	}
	defer term.Restore(fd, old)

	low, high := octaveRange(env.notes)
	km := newKeymap(low, high, min(max(4, low), high))
	fmt.Fprintf(out, "a w s e d f t g y h u j k play, z/x change octave, q quits\r\n")
	fmt.Fprintf(out, "octave %d\r\n", km.octave)

	keys := make(chan byte)
	errc := make(chan error, 1)
	go func() {
		r := bufio.NewReader(in)
		for {
			b, err := r.ReadByte()
			if err != nil {
				errc <- err
				return
			}
			keys <- b
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			if err == io.EOF {
				return nil
			}
			return err
		case b := <-keys:
			if quit := handleKey(env, km, b, out); quit {
				return nil
			}
		}
	}
}

func handleKey(env *env, km *keymap, b byte, out io.Writer) bool {
	switch b {
	case 'q', ctrlC:
		return true
	case 'z':
		km.shift(-1)
		fmt.Fprintf(out, "octave %d\r\n", km.octave)
	case 'x':
		km.shift(1)
		fmt.Fprintf(out, "octave %d\r\n", km.octave)
	default:
		if note, ok := km.note(b); ok {
			env.piano.PlayNote(note)
		}
	}
	return false
}

// octaveRange returns the lowest and highest octave on the keyboard.
func octaveRange(notes []string) (int, int) {
	low, high := 4, 4
	first := true
	for _, id := range notes {
		n, err := audio.ParseNote(id)
		if err != nil {
			continue
		}
		if first || n.Octave < low {
			low = n.Octave
		}
		if first || n.Octave > high {
			high = n.Octave
		}
		first = false
	}
	return low, high
}
