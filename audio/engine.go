package audio

import (
	"context"
	"log"
	"sync/atomic"
	"time"
)

// Source produces interleaved output samples on demand. Output drivers call Mix from
// the audio callback.
type Source interface {
	Mix(out []int16)
}

type Options struct {
	MaxVoices int            // 0 means unbounded
	Eviction  EvictionPolicy // used when MaxVoices is reached
	Logger    *log.Logger
	Debug     bool // log every retired voice
}

// Stats are engine counters. They are updated without locks and may be read at any time.
type Stats struct {
	Ticks          uint64
	Frames         uint64
	VoicesStarted  uint64
	VoicesRetired  uint64
	VoicesEvicted  uint64
	Clipped        uint64
	Contended      uint64
	DroppedEvents  uint64
	IgnoredTrigger uint64
}

type counters struct {
	ticks, frames               atomic.Uint64
	started, retired, evicted   atomic.Uint64
	clipped, contended, dropped atomic.Uint64
	ignored                     atomic.Uint64
}

// Engine mixes every sounding voice into the output stream. PlayNote is the only entry
// point for the UI; Mix is driven by the output driver.
type Engine struct {
	*Props
	lib    *Library
	format Format
	pool   *pool
	events *eventBuffer
	logger *log.Logger
	debug  bool

	inactive atomic.Pointer[error]
	stats    counters
}

// NewEngine creates an engine producing output in format f, which is fixed for the
// lifetime of the engine.
func NewEngine(lib *Library, f Format, opts Options) *Engine {
	if !f.valid() {
		f = DefaultFormat
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	props := NewProps()
	e := &Engine{
		Props:  props,
		lib:    lib,
		format: f,
		events: newEventBuffer(1024),
		logger: logger,
		debug:  opts.Debug,
	}
	e.pool = newPool(
		props.MustRegister(PropMaxVoices, setMaxVoices, opts.MaxVoices),
		props.MustRegister(PropEviction, setEviction, opts.Eviction),
	)
	return e
}

func (e *Engine) Format() Format { return e.format }

func (e *Engine) Library() *Library { return e.lib }

// PlayNote starts a new voice for the note. Unknown notes and an inactive engine are
// logged and ignored; nothing is reported to the caller. A note that is already
// sounding gets an additional, independent voice.
func (e *Engine) PlayNote(note string) {
	if err := e.inactive.Load(); err != nil {
		e.stats.ignored.Add(1)
		return
	}
	snd, ok := e.lib.Lookup(note)
	if !ok {
		e.stats.ignored.Add(1)
		e.logger.Printf("trigger: no sample for note %q", note)
		return
	}
	_, evicted := e.pool.insert(note, snd)
	e.stats.started.Add(1)
	for _, v := range evicted {
		e.stats.evicted.Add(1)
		e.logger.Printf("trigger: voice limit reached, evicted #%d %s", v.id, v.note)
	}
}

// Mix fills out with the next block of output. len(out) should be a multiple of the
// output channel count. Finished voices are retired before Mix returns.
func (e *Engine) Mix(out []int16) {
	for i := range out {
		out[i] = 0
	}
	frames := len(out) / e.format.Channels
	if frames == 0 {
		return
	}
	out = out[:frames*e.format.Channels]

	contended := e.pool.lock()
	var clipped int
	for _, v := range e.pool.voices {
		clipped += mixVoice(out, e.format, v)
	}
	e.pool.retire(e.onRetire)
	e.pool.unlock()

	if contended {
		e.stats.contended.Add(1)
		e.report(event{kind: eventContended})
	}
	e.stats.ticks.Add(1)
	e.stats.frames.Add(uint64(frames))
	e.stats.clipped.Add(uint64(clipped))
}

// NextBlock mixes and returns a new block of the given number of frames.
func (e *Engine) NextBlock(frames int) []int16 {
	out := make([]int16, frames*e.format.Channels)
	e.Mix(out)
	return out
}

func (e *Engine) onRetire(v *Voice) {
	e.stats.retired.Add(1)
	if e.debug {
		e.report(event{kind: eventRetired, voice: v.id, note: v.note})
	}
}

func (e *Engine) report(ev event) {
	if !e.events.tryPush(ev) {
		e.stats.dropped.Add(1)
	}
}

// Run logs events reported by the mix path until ctx is done.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			e.flushEvents()
			return
		case <-ticker.C:
			e.flushEvents()
		}
	}
}

func (e *Engine) flushEvents() {
	var contended int
	e.events.drain(func(ev event) {
		switch ev.kind {
		case eventRetired:
			e.logger.Printf("mixer: retired #%d %s", ev.voice, ev.note)
		case eventContended:
			contended++
		}
	})
	if contended > 0 && e.debug {
		e.logger.Printf("mixer: waited for the voice lock in %d ticks", contended)
	}
}

// Deactivate permanently turns PlayNote into a no-op, e.g. when no output device could
// be opened.
func (e *Engine) Deactivate(err error) {
	if e.inactive.CompareAndSwap(nil, &err) {
		e.logger.Printf("trigger: playback disabled: %v", err)
	}
}

// Active reports whether triggers start voices, and if not, why.
func (e *Engine) Active() (bool, error) {
	if err := e.inactive.Load(); err != nil {
		return false, *err
	}
	return true, nil
}

// ActiveVoices returns the number of sounding voices.
func (e *Engine) ActiveVoices() int { return e.pool.len() }

// Voices returns a snapshot of the sounding voices, oldest first.
func (e *Engine) Voices() []VoiceInfo { return e.pool.snapshot() }

func (e *Engine) Stats() Stats {
	return Stats{
		Ticks:          e.stats.ticks.Load(),
		Frames:         e.stats.frames.Load(),
		VoicesStarted:  e.stats.started.Load(),
		VoicesRetired:  e.stats.retired.Load(),
		VoicesEvicted:  e.stats.evicted.Load(),
		Clipped:        e.stats.clipped.Load(),
		Contended:      e.stats.contended.Load(),
		DroppedEvents:  e.stats.dropped.Load(),
		IgnoredTrigger: e.stats.ignored.Load(),
	}
}
