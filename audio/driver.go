package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"sync"
	"time"
)

// Driver delivers blocks pulled from a Source to an output. The output format is
// negotiated when the driver is opened and does not change afterwards.
type Driver interface {
	Format() Format
	Start(src Source) error
	Close() error
}

// Open opens the named driver. want is the preferred format; the driver may settle on
// a different one, reported by Format.
func Open(kind string, want Format, frames int, logger *log.Logger) (Driver, error) {
	if frames <= 0 {
		frames = DefaultBlockSize
	}
	switch kind {
	case "portaudio":
		d, err := OpenPortAudio(want, frames, logger)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "oto":
		d, err := OpenOto(want, frames, logger)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "null", "":
		return NewTimerDriver(want, frames, Discard, logger), nil
	default:
		return nil, fmt.Errorf("unknown driver %q", kind)
	}
}

// BlockWriter accepts output samples. It returns how many samples it took; taking fewer
// than offered, without an error, means the output is full for now.
type BlockWriter interface {
	WriteBlock(samples []int16) (int, error)
}

type discard struct{}

func (discard) WriteBlock(samples []int16) (int, error) { return len(samples), nil }

// Discard is a BlockWriter that accepts everything.
var Discard BlockWriter = discard{}

func appendLE(dst []byte, samples []int16) []byte {
	for _, v := range samples {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(v))
	}
	return dst
}

// TimerDriver is a software clock standing in for audio hardware: every block duration
// it pulls one block from the source and hands it to a BlockWriter. A block the writer
// only partly accepts is finished on later ticks before a new block is mixed.
type TimerDriver struct {
	format Format
	w      BlockWriter
	logger *log.Logger

	src     Source
	block   []int16
	pending []int16

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewTimerDriver(f Format, frames int, w BlockWriter, logger *log.Logger) *TimerDriver {
	if !f.valid() {
		f = DefaultFormat
	}
	return &TimerDriver{
		format: f,
		w:      w,
		logger: logger,
		block:  make([]int16, frames*f.Channels),
	}
}

func (d *TimerDriver) Format() Format { return d.format }

func (d *TimerDriver) Start(src Source) error {
	if d.cancel != nil {
		return fmt.Errorf("driver already started")
	}
	d.src = src
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.wg.Add(1)
	go d.run(ctx)
	return nil
}

func (d *TimerDriver) run(ctx context.Context) {
	defer d.wg.Done()
	period := d.format.BlockDuration(len(d.block) / d.format.Channels)
	if period <= 0 {
		period = time.Millisecond
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.tick(); err != nil {
				d.logger.Printf("driver: write failed, stopping output: %v", err)
				return
			}
		}
	}
}

// tick delivers the rest of a partly written block, or else mixes and writes a new one.
func (d *TimerDriver) tick() error {
	if len(d.pending) > 0 {
		n, err := d.w.WriteBlock(d.pending)
		d.pending = d.pending[n:]
		return err
	}
	d.src.Mix(d.block)
	n, err := d.w.WriteBlock(d.block)
	if n < len(d.block) {
		d.pending = d.block[n:]
	}
	return err
}

func (d *TimerDriver) Close() error {
	if d.cancel != nil {
		d.cancel()
		d.wg.Wait()
	}
	return nil
}

// blockReader serves a Source as a byte stream of little-endian int16 samples. It mixes
// whole blocks and keeps the bytes a short read leaves over for the next Read.
type blockReader struct {
	src   Source
	block []int16
	buf   []byte
	carry []byte
}

func newBlockReader(f Format, frames int) *blockReader {
	n := frames * f.Channels
	return &blockReader{
		block: make([]int16, n),
		buf:   make([]byte, 0, n*2),
	}
}

func (r *blockReader) Read(p []byte) (int, error) {
	if r.src == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	var n int
	for n < len(p) {
		if len(r.carry) == 0 {
			r.src.Mix(r.block)
			r.carry = appendLE(r.buf[:0], r.block)
		}
		c := copy(p[n:], r.carry)
		r.carry = r.carry[c:]
		n += c
	}
	return n, nil
}
