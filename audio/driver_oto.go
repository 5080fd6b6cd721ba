//go:build !headless

package audio

import (
	"fmt"
	"log"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// OtoDriver plays through oto. The platform player pulls bytes with Read on its own
// goroutine; mixing happens inside those reads.
type OtoDriver struct {
	ctx    *oto.Context
	player *oto.Player
	format Format
	reader *blockReader
	logger *log.Logger
	mu     sync.Mutex // only for setup/control operations
}

func OpenOto(want Format, frames int, logger *log.Logger) (*OtoDriver, error) {
	op := &oto.NewContextOptions{
		SampleRate:   want.SampleRate,
		ChannelCount: want.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   4 * want.BlockDuration(frames),
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %v", ErrFormatNegotiation, want, err)
	}
	<-ready
	logger.Printf("driver: oto, %v, %d frames per block", want, frames)
	return &OtoDriver{
		ctx:    ctx,
		format: want,
		reader: newBlockReader(want, frames),
		logger: logger,
	}, nil
}

func (d *OtoDriver) Format() Format { return d.format }

func (d *OtoDriver) Start(src Source) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.player != nil {
		return fmt.Errorf("driver already started")
	}
	d.reader.src = src
	d.player = d.ctx.NewPlayer(d.reader)
	d.player.Play()
	return nil
}

func (d *OtoDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.player == nil {
		return nil
	}
	err := d.player.Close()
	d.player = nil
	return err
}
