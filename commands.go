package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/mrdg/piano/audio"
	"github.com/mrdg/piano/dub"
)

type command struct {
	name  string
	run   func(*env, []dub.Node) (string, error)
	arity int // -n means len(args) must be >= n
	usage string
}

var commands []command

func init() {
	commands = []command{
		{"play", playCommand, -1, "play C4 E4 G4 | play C4,E4,G4   strike notes, commas make a chord"},
		{"notes", notesCommand, 0, "notes                           list the keyboard and missing samples"},
		{"voices", voicesCommand, 0, "voices                          list sounding voices"},
		{"stats", statsCommand, 0, "stats                           show engine counters"},
		{"set", setCommand, 2, "set <property> <value>          change a runtime property"},
		{"get", getCommand, 1, "get <property>                  show a runtime property"},
		{"preset", presetCommand, 1, "preset <name>                   apply a voice limit preset"},
		{"keys", keysCommand, 0, "keys                            draw the keyboard"},
		{"help", helpCommand, 0, "help                            show this help"},
	}
}

func playCommand(env *env, args []dub.Node) (string, error) {
	if ok, err := env.piano.Active(); !ok {
		return "", fmt.Errorf("playback disabled: %w", err)
	}
	// validate everything first so a typo doesn't play half a phrase
	var chords [][]string
	for _, arg := range args {
		switch v := arg.(type) {
		case dub.Chord:
			chords = append(chords, v)
		case dub.Identifier:
			chords = append(chords, []string{string(v)})
		default:
			return "", fmt.Errorf("argument error: expected a note, got %v", v)
		}
	}
	var unknown []string
	for _, chord := range chords {
		for _, note := range chord {
			if _, ok := env.lib.Lookup(note); !ok {
				unknown = append(unknown, note)
			}
			env.piano.PlayNote(note)
		}
	}
	if len(unknown) > 0 {
		return "no sample for " + strings.Join(unknown, ", "), nil
	}
	return "", nil
}

func notesCommand(env *env, args []dub.Node) (string, error) {
	var b strings.Builder
	loaded := env.lib.Notes()
	fmt.Fprintf(&b, "%d of %d notes loaded: %s", len(loaded), len(env.notes), strings.Join(loaded, " "))
	missing := env.lib.Missing()
	ids := make([]string, 0, len(missing))
	for id := range missing {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(&b, "\nmissing %-4s %s", id, missing[id])
	}
	return b.String(), nil
}

func voicesCommand(env *env, args []dub.Node) (string, error) {
	voices := env.piano.Voices()
	if len(voices) == 0 {
		return "no voices", nil
	}
	s := make([]string, len(voices))
	for i, v := range voices {
		s[i] = v.String()
	}
	return strings.Join(s, "\n"), nil
}

func statsCommand(env *env, args []dub.Node) (string, error) {
	st := env.piano.Stats()
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	rows := []struct {
		name string
		v    uint64
	}{
		{"ticks", st.Ticks},
		{"frames", st.Frames},
		{"voices started", st.VoicesStarted},
		{"voices retired", st.VoicesRetired},
		{"voices evicted", st.VoicesEvicted},
		{"clipped samples", st.Clipped},
		{"contended ticks", st.Contended},
		{"dropped events", st.DroppedEvents},
		{"ignored triggers", st.IgnoredTrigger},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\n", r.name, r.v)
	}
	w.Flush()
	return strings.TrimSuffix(b.String(), "\n"), nil
}

func setCommand(env *env, args []dub.Node) (string, error) {
	var prop string
	if err := readArgs(args[:1], &prop); err != nil {
		return "", err
	}
	switch v := args[1].(type) {
	case dub.Int:
		return "", env.piano.Set(prop, int(v))
	case dub.Float:
		return "", env.piano.Set(prop, float64(v))
	case dub.String:
		return "", env.piano.Set(prop, string(v))
	case dub.Identifier:
		return "", env.piano.Set(prop, string(v))
	default:
		return "", fmt.Errorf("unsupported property type: %v", v)
	}
}

func getCommand(env *env, args []dub.Node) (string, error) {
	var prop string
	if err := readArgs(args, &prop); err != nil {
		return "", err
	}
	v, err := env.piano.Get(prop)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

func presetCommand(env *env, args []dub.Node) (string, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return "", err
	}
	if err := audio.LoadPreset(name, env.piano); err != nil {
		return "", err
	}
	return "", nil
}

func keysCommand(env *env, args []dub.Node) (string, error) {
	var b strings.Builder
	renderKeyboard(&b, env.notes, env.lib, env.piano.Voices())
	return strings.TrimSuffix(b.String(), "\n"), nil
}

func helpCommand(env *env, args []dub.Node) (string, error) {
	s := make([]string, len(commands))
	for i, cmd := range commands {
		s[i] = cmd.usage
	}
	return strings.Join(s, "\n"), nil
}

func readArgs(args []dub.Node, slots ...interface{}) error {
	if len(args) != len(slots) {
		return errors.New("not enough arguments")
	}
	for n, arg := range args {
		dest := slots[n]
		switch p := dest.(type) {
		case *string:
			switch s := arg.(type) {
			case dub.String:
				*p = string(s)
			case dub.Identifier:
				*p = string(s)
			default:
				return fmt.Errorf("argument error: expected a string or identifier")
			}
		case *int:
			n, ok := arg.(dub.Int)
			if !ok {
				return fmt.Errorf("argument error: expected an integer")
			}
			*p = int(n)
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}
