package audio

import (
	"log"
	"os"
	"path/filepath"
	"sort"
)

// Resolver maps note identifiers to sample files.
type Resolver struct {
	Prefix string // e.g. "Piano.ff"
	Ext    string // e.g. "wav"

	// Dirs are the candidate directories, in priority order.
	Dirs []string
}

// SearchDirs returns the candidate directories for sampleDir relative to the executable
// directory and the working directory, highest priority first. An explicit override,
// if not empty, is tried before all of them.
func SearchDirs(override, exeDir, cwd, sampleDir string) []string {
	var dirs []string
	if override != "" {
		dirs = append(dirs, override)
	}
	return append(dirs,
		filepath.Join(exeDir, "..", sampleDir),
		filepath.Join(exeDir, filepath.Base(sampleDir)),
		sampleDir,
		filepath.Join(cwd, sampleDir),
		filepath.Join(cwd, "..", sampleDir),
	)
}

// Resolve returns the first existing file for the note. If no candidate exists it
// returns the highest priority candidate and false.
func (r *Resolver) Resolve(id string) (string, bool) {
	note, err := ParseNote(id)
	if err != nil {
		return "", false
	}
	name := note.FileName(r.Prefix, r.Ext)
	var first string
	for i, dir := range r.Dirs {
		path := filepath.Join(dir, name)
		if i == 0 {
			first = path
		}
		if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
			return filepath.Clean(path), true
		}
	}
	if first == "" {
		first = name
	}
	return first, false
}

// Library holds the decoded sample of every available note. It is built once and is
// read-only afterwards.
type Library struct {
	samples map[string]*Sample
	paths   map[string]string
	missing map[string]string // note -> most likely path, for diagnostics
	format  Format
	derived bool
}

// LoadLibrary decodes the sample of every note in ids. Notes whose file is missing or
// cannot be decoded are logged and left out. The output format is taken from the first
// sample decoded, or DefaultFormat if none decodes.
func LoadLibrary(ids []string, r *Resolver, logger *log.Logger) *Library {
	lib := &Library{
		samples: make(map[string]*Sample),
		paths:   make(map[string]string),
		missing: make(map[string]string),
		format:  DefaultFormat,
	}
	for _, id := range ids {
		if _, ok := lib.samples[id]; ok {
			continue
		}
		if _, ok := lib.missing[id]; ok {
			continue
		}
		path, ok := r.Resolve(id)
		if !ok {
			logger.Printf("library: no sample for %s (looked for %s)", id, path)
			lib.missing[id] = path
			continue
		}
		snd, err := DecodeFile(path)
		if err != nil {
			logger.Printf("library: skipping %s: %v", id, err)
			lib.missing[id] = path
			continue
		}
		lib.add(id, path, snd)
	}
	logger.Printf("library: loaded %d of %d notes, output format %v", len(lib.samples), len(lib.samples)+len(lib.missing), lib.format)
	return lib
}

// NewLibrary builds a library from already decoded samples, in the order of ids.
func NewLibrary(ids []string, samples map[string]*Sample) *Library {
	lib := &Library{
		samples: make(map[string]*Sample),
		paths:   make(map[string]string),
		missing: make(map[string]string),
		format:  DefaultFormat,
	}
	for _, id := range ids {
		if snd, ok := samples[id]; ok {
			lib.add(id, "", snd)
		}
	}
	return lib
}

func (l *Library) add(id, path string, snd *Sample) {
	if !l.derived {
		l.format = snd.Format()
		l.derived = true
	}
	l.samples[id] = snd
	l.paths[id] = path
	delete(l.missing, id)
}

func (l *Library) Lookup(id string) (*Sample, bool) {
	snd, ok := l.samples[id]
	return snd, ok
}

// Format returns the output format established at load time and whether it was taken
// from a decoded sample rather than the default.
func (l *Library) Format() (Format, bool) {
	return l.format, l.derived
}

func (l *Library) Len() int { return len(l.samples) }

// Notes returns the loaded note identifiers in pitch order.
func (l *Library) Notes() []string {
	return sortedNotes(l.samples)
}

// Missing returns the notes that could not be loaded and the path looked at for each.
func (l *Library) Missing() map[string]string {
	m := make(map[string]string, len(l.missing))
	for k, v := range l.missing {
		m[k] = v
	}
	return m
}

func (l *Library) Path(id string) string { return l.paths[id] }

func sortedNotes(m map[string]*Sample) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := ParseNote(ids[i])
		b, errB := ParseNote(ids[j])
		if errA != nil || errB != nil || a.semitone() == b.semitone() {
			return ids[i] < ids[j]
		}
		return a.semitone() < b.semitone()
	})
	return ids
}
