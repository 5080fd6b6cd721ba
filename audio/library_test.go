package audio

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParseNote(t *testing.T) {
	tests := []struct {
		id   string
		want Note
		ok   bool
	}{
		{"C4", Note{"C", 4}, true},
		{"C#3", Note{"C#", 3}, true},
		{"Db5", Note{"Db", 5}, true},
		{"B10", Note{"B", 10}, true},
		{"c4", Note{}, false},
		{"H4", Note{}, false},
		{"C", Note{}, false},
		{"4", Note{}, false},
		{"", Note{}, false},
	}
	for _, test := range tests {
		got, err := ParseNote(test.id)
		if (err == nil) != test.ok {
			t.Errorf("ParseNote(%q): unexpected error %v", test.id, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseNote(%q): want %v, got %v", test.id, test.want, got)
		}
	}
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"C4":  "Piano.ff.C4.wav",
		"C#4": "Piano.ff.Db4.wav",
		"A#3": "Piano.ff.Bb3.wav",
		"Eb5": "Piano.ff.Eb5.wav",
	}
	for id, want := range tests {
		n, err := ParseNote(id)
		if err != nil {
			t.Fatal(err)
		}
		if got := n.FileName("Piano.ff", "wav"); got != want {
			t.Errorf("%s: want %s, got %s", id, want, got)
		}
	}
}

func TestNoteRange(t *testing.T) {
	ids, err := NoteRange("C3", "C6")
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 37, len(ids); want != got {
		t.Fatalf("want %d notes, got %d", want, got)
	}
	if want, got := []string{"C3", "C#3", "D3"}, ids[:3]; !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
	if want, got := []string{"B5", "C6"}, ids[35:]; !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
	if _, err := NoteRange("C6", "C3"); err == nil {
		t.Errorf("expected error for reversed range")
	}
}

func TestSearchDirs(t *testing.T) {
	got := SearchDirs("", "/opt/piano/bin", "/home/me", "src/NotesFF")
	want := []string{
		"/opt/piano/src/NotesFF",
		"/opt/piano/bin/NotesFF",
		"src/NotesFF",
		"/home/me/src/NotesFF",
		"/home/src/NotesFF",
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}

	got = SearchDirs("/samples", "/opt/piano/bin", "/home/me", "src/NotesFF")
	if want, got := "/samples", got[0]; want != got {
		t.Errorf("want override first, got %v", got)
	}
}

func writeSample(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolvePriority(t *testing.T) {
	root := t.TempDir()
	high := filepath.Join(root, "high")
	low := filepath.Join(root, "low")
	writeSample(t, low, "Piano.ff.C4.wav", wave(44100, 2, 1, 1))
	writeSample(t, high, "Piano.ff.C4.wav", wave(44100, 2, 2, 2))
	writeSample(t, low, "Piano.ff.Db4.wav", wave(44100, 2, 3, 3))

	r := &Resolver{Prefix: "Piano.ff", Ext: "wav", Dirs: []string{high, low}}

	path, ok := r.Resolve("C4")
	if !ok || path != filepath.Join(high, "Piano.ff.C4.wav") {
		t.Errorf("C4: want the higher priority file, got %s %v", path, ok)
	}
	path, ok = r.Resolve("C#4")
	if !ok || path != filepath.Join(low, "Piano.ff.Db4.wav") {
		t.Errorf("C#4: want the fallback file, got %s %v", path, ok)
	}
	path, ok = r.Resolve("D4")
	if ok || path != filepath.Join(high, "Piano.ff.D4.wav") {
		t.Errorf("D4: want the first candidate and false, got %s %v", path, ok)
	}
}

func TestLoadLibrary(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "Piano.ff.C4.wav", wave(22050, 1, 1, 2, 3))
	writeSample(t, dir, "Piano.ff.D4.wav", wave(44100, 2, 4, 5))
	writeSample(t, dir, "Piano.ff.E4.wav", []byte("not a wave file"))

	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)
	r := &Resolver{Prefix: "Piano.ff", Ext: "wav", Dirs: []string{dir}}
	lib := LoadLibrary([]string{"C4", "D4", "E4", "F4", "C4"}, r, logger)

	if want, got := []string{"C4", "D4"}, lib.Notes(); !reflect.DeepEqual(want, got) {
		t.Errorf("want notes %v, got %v", want, got)
	}
	f, derived := lib.Format()
	if want := (Format{SampleRate: 22050, Channels: 1}); !derived || f != want {
		t.Errorf("want format %v taken from the first sample, got %v (derived %v)", want, f, derived)
	}
	missing := lib.Missing()
	if _, ok := missing["E4"]; !ok {
		t.Errorf("want E4 missing, got %v", missing)
	}
	if _, ok := missing["F4"]; !ok {
		t.Errorf("want F4 missing, got %v", missing)
	}
	if !strings.Contains(buf.String(), "library: skipping E4") {
		t.Errorf("expected decode failure to be logged, got %q", buf.String())
	}
	if _, ok := lib.Lookup("E4"); ok {
		t.Errorf("E4 should not be in the library")
	}
}

func TestLoadLibraryDuplicateFailures(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "Piano.ff.E4.wav", []byte("not a wave file"))

	var buf bytes.Buffer
	r := &Resolver{Prefix: "Piano.ff", Ext: "wav", Dirs: []string{dir}}
	lib := LoadLibrary([]string{"E4", "F4", "E4", "F4"}, r, log.New(&buf, "", 0))

	if want, got := 1, strings.Count(buf.String(), "library: skipping E4"); want != got {
		t.Errorf("want E4 decoded %d time, got %d: %q", want, got, buf.String())
	}
	if want, got := 1, strings.Count(buf.String(), "library: no sample for F4"); want != got {
		t.Errorf("want F4 resolved %d time, got %d: %q", want, got, buf.String())
	}
	if want, got := 2, len(lib.Missing()); want != got {
		t.Errorf("want %d missing notes, got %d", want, got)
	}
}

func TestLoadLibraryEmpty(t *testing.T) {
	r := &Resolver{Prefix: "Piano.ff", Ext: "wav", Dirs: []string{t.TempDir()}}
	lib := LoadLibrary([]string{"C4"}, r, log.New(io.Discard, "", 0))
	if want, got := 0, lib.Len(); want != got {
		t.Errorf("want %d samples, got %d", want, got)
	}
	f, derived := lib.Format()
	if derived || f != DefaultFormat {
		t.Errorf("want default format, got %v (derived %v)", f, derived)
	}
}
