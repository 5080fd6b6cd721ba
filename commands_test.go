package main

import (
	"bytes"
	"errors"
	"io"
	"log"
	"reflect"
	"strings"
	"testing"

	"github.com/mrdg/piano/audio"
)

func testEnv(t *testing.T) (*env, *audio.Engine) {
	t.Helper()
	notes, err := audio.NoteRange("C4", "B4")
	if err != nil {
		t.Fatal(err)
	}
	samples := map[string]*audio.Sample{}
	for _, id := range []string{"C4", "E4", "G4"} {
		samples[id] = audio.NewSample(make([]int16, 1024), 44100, 2)
	}
	lib := audio.NewLibrary(notes, samples)
	engine := audio.NewEngine(lib, audio.DefaultFormat, audio.Options{
		MaxVoices: 16,
		Logger:    log.New(io.Discard, "", 0),
	})
	return &env{piano: engine, lib: lib, notes: notes}, engine
}

func voiceNotes(e *audio.Engine) []string {
	var notes []string
	for _, v := range e.Voices() {
		notes = append(notes, v.Note)
	}
	return notes
}

func TestPlayCommand(t *testing.T) {
	env, engine := testEnv(t)
	if _, err := env.eval("play C4,E4,G4 C4"); err != nil {
		t.Fatal(err)
	}
	if want, got := []string{"C4", "E4", "G4", "C4"}, voiceNotes(engine); !reflect.DeepEqual(want, got) {
		t.Errorf("want voices %v, got %v", want, got)
	}

	result, err := env.eval("play D4 Z9")
	if err != nil {
		t.Fatal(err)
	}
	if want := "no sample for D4, Z9"; result != want {
		t.Errorf("want %q, got %q", want, result)
	}
	if want, got := 4, engine.ActiveVoices(); want != got {
		t.Errorf("want %d voices, got %d", want, got)
	}
}

func TestPlayCommandInactive(t *testing.T) {
	env, engine := testEnv(t)
	engine.Deactivate(audio.ErrNoOutputDevice)
	_, err := env.eval("play C4")
	if !errors.Is(err, audio.ErrNoOutputDevice) {
		t.Errorf("want %v, got %v", audio.ErrNoOutputDevice, err)
	}
}

func TestSetGetCommands(t *testing.T) {
	env, engine := testEnv(t)
	for _, line := range []string{"set max-voices 2", "set eviction quietest"} {
		if _, err := env.eval(line); err != nil {
			t.Fatalf("%s: %v", line, err)
		}
	}
	result, err := env.eval("get eviction")
	if err != nil {
		t.Fatal(err)
	}
	if want := "quietest"; result != want {
		t.Errorf("want %q, got %q", want, result)
	}

	env.eval("play C4 E4 G4")
	if want, got := 2, engine.ActiveVoices(); want != got {
		t.Errorf("want %d voices, got %d", want, got)
	}

	if _, err := env.eval("set max-voices -3"); err == nil {
		t.Errorf("expected error for negative voice limit")
	}
	if _, err := env.eval("get volume"); err == nil {
		t.Errorf("expected error for unknown property")
	}
}

func TestEvalErrors(t *testing.T) {
	env, _ := testEnv(t)
	for _, line := range []string{
		"dance",
		"play",
		"notes C4",
		"set max-voices",
		"play 12",
		"play C4,",
	} {
		if _, err := env.eval(line); err == nil {
			t.Errorf("%q: expected error", line)
		}
	}
}

func TestListCommands(t *testing.T) {
	env, _ := testEnv(t)
	env.eval("play C4")

	result, err := env.eval("notes")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(result, "3 of 12 notes loaded: C4 E4 G4") {
		t.Errorf("unexpected notes output %q", result)
	}

	result, err = env.eval("voices")
	if err != nil {
		t.Fatal(err)
	}
	if want := "#1 C4 0%"; result != want {
		t.Errorf("want %q, got %q", want, result)
	}

	result, err = env.eval("stats")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result, "voices started") {
		t.Errorf("unexpected stats output %q", result)
	}

	result, err = env.eval("help")
	if err != nil {
		t.Fatal(err)
	}
	if want, got := len(commands), len(strings.Split(result, "\n")); want != got {
		t.Errorf("want %d help lines, got %d", want, got)
	}
}

func TestRenderKeyboard(t *testing.T) {
	env, engine := testEnv(t)
	engine.PlayNote("E4")

	var buf bytes.Buffer
	renderKeyboard(&buf, append(env.notes, "C5"), env.lib, engine.Voices())
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if want, got := 2, len(lines); want != got {
		t.Fatalf("want %d rows, got %d: %q", want, got, buf.String())
	}
	for _, cell := range []string{
		colorize("C  ", colorBlue),
		colorize("E  ", colorYellow),
		colorize("C# ", colorRed),
	} {
		if !strings.Contains(lines[0], cell) {
			t.Errorf("expected %q in %q", cell, lines[0])
		}
	}
}

func TestKeymap(t *testing.T) {
	km := newKeymap(3, 6, 4)
	tests := map[byte]string{
		'a': "C4",
		'w': "C#4",
		'j': "B4",
		'k': "C5",
	}
	for key, want := range tests {
		got, ok := km.note(key)
		if !ok || got != want {
			t.Errorf("%c: want %s, got %s", key, want, got)
		}
	}
	if _, ok := km.note('b'); ok {
		t.Errorf("b should not be mapped")
	}

	km.shift(-5)
	if want, got := 3, km.octave; want != got {
		t.Errorf("want octave %d, got %d", want, got)
	}
	km.shift(10)
	if want, got := 6, km.octave; want != got {
		t.Errorf("want octave %d, got %d", want, got)
	}
}

func TestHandleKey(t *testing.T) {
	env, engine := testEnv(t)
	km := newKeymap(3, 6, 4)
	var out bytes.Buffer
	for _, b := range []byte("adg") {
		if handleKey(env, km, b, &out) {
			t.Fatalf("%c should not quit", b)
		}
	}
	if want, got := []string{"C4", "E4", "G4"}, voiceNotes(engine); !reflect.DeepEqual(want, got) {
		t.Errorf("want voices %v, got %v", want, got)
	}
	if !handleKey(env, km, 'q', &out) {
		t.Errorf("q should quit")
	}
	if low, high := octaveRange(env.notes); low != 4 || high != 4 {
		t.Errorf("want octave range 4-4, got %d-%d", low, high)
	}
}

func TestPresetCommand(t *testing.T) {
	env, engine := testEnv(t)
	if _, err := env.eval("preset economy"); err != nil {
		t.Fatal(err)
	}
	v, err := engine.Get(audio.PropMaxVoices)
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 16, v.(int); want != got {
		t.Errorf("want max voices %d, got %d", want, got)
	}
	if _, err := env.eval("preset loud"); err == nil {
		t.Errorf("expected error for unknown preset")
	}
}
