package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mrdg/piano/audio"
)

// renderKeyboard draws one row per octave. Sounding notes are yellow, notes with a
// sample blue and notes without one red.
func renderKeyboard(w io.Writer, notes []string, lib *audio.Library, voices []audio.VoiceInfo) {
	sounding := make(map[string]int)
	for _, v := range voices {
		sounding[v.Note]++
	}

	octave := -1
	var row strings.Builder
	flush := func() {
		if row.Len() > 0 {
			fmt.Fprintln(w, strings.TrimRight(row.String(), " "))
			row.Reset()
		}
	}
	for _, id := range notes {
		n, err := audio.ParseNote(id)
		if err != nil {
			continue
		}
		if n.Octave != octave {
			flush()
			octave = n.Octave
			row.WriteString(colorize(strconv.Itoa(octave), colorMagenta) + "  ")
		}
		row.WriteString(noteCell(id, n.Pitch, lib, sounding[id]))
	}
	flush()
}

func noteCell(id, pitch string, lib *audio.Library, voices int) string {
	label := pitch + strings.Repeat(" ", 3-len(pitch))
	switch _, ok := lib.Lookup(id); {
	case voices > 0:
		return colorize(label, colorYellow)
	case ok:
		return colorize(label, colorBlue)
	default:
		return colorize(label, colorRed)
	}
}

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
)

func colorize(text string, color int) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, text)
}
