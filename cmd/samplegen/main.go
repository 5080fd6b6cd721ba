// Command samplegen writes a set of placeholder piano samples, one decaying tone per
// note, named the way the piano looks them up.
package main

import (
	"log"
	"os"

	"github.com/mrdg/piano/audio"
	"github.com/spf13/pflag"
)

func main() {
	logger := log.New(os.Stderr, "", log.Ldate|log.Ltime)

	var (
		out      = pflag.StringP("out", "o", "src/NotesFF", "output directory")
		prefix   = pflag.String("prefix", "Piano.ff", "file name prefix")
		low      = pflag.String("low", "C3", "lowest note")
		high     = pflag.String("high", "C6", "highest note")
		rate     = pflag.IntP("rate", "r", audio.DefaultSampleRate, "sample rate")
		channels = pflag.IntP("channels", "c", audio.DefaultChannels, "channel count, 1 or 2")
		seconds  = pflag.Float64P("seconds", "t", 2, "length of each tone")
	)
	pflag.Parse()

	ids, err := audio.NoteRange(*low, *high)
	if err != nil {
		logger.Fatalf("note range: %v", err)
	}
	g := generator{
		dir:      *out,
		prefix:   *prefix,
		rate:     *rate,
		channels: *channels,
		seconds:  *seconds,
	}
	if err := g.validate(); err != nil {
		logger.Fatal(err)
	}
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		logger.Fatalf("failed to create %s: %v", g.dir, err)
	}
	for _, id := range ids {
		path, err := g.write(id)
		if err != nil {
			logger.Fatalf("%s: %v", id, err)
		}
		logger.Printf("wrote %s", path)
	}
}
