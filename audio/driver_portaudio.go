//go:build !headless

package audio

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
)

// PortAudioDriver plays through the default PortAudio output device. The device's
// callback pulls every block straight from the source.
type PortAudioDriver struct {
	stream *portaudio.Stream
	format Format
	src    atomic.Value // sourceHolder
	logger *log.Logger
}

type sourceHolder struct{ Source }

// OpenPortAudio opens the default output device. It tries want first, then fewer
// channels if the device has fewer, then the device's default sample rate.
func OpenPortAudio(want Format, frames int, logger *log.Logger) (*PortAudioDriver, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoOutputDevice, err)
	}
	dev, err := portaudio.DefaultOutputDevice()
	if err != nil || dev == nil || dev.MaxOutputChannels < 1 {
		portaudio.Terminate()
		if err == nil {
			err = fmt.Errorf("default device has no outputs")
		}
		return nil, fmt.Errorf("%w: %v", ErrNoOutputDevice, err)
	}

	d := &PortAudioDriver{logger: logger}
	f := want
	if f.Channels > dev.MaxOutputChannels {
		logger.Printf("driver: %s has %d output channels, using %d", dev.Name, dev.MaxOutputChannels, dev.MaxOutputChannels)
		f.Channels = dev.MaxOutputChannels
	}
	stream, err := portaudio.OpenDefaultStream(0, f.Channels, float64(f.SampleRate), frames, d.process)
	if err != nil {
		alt := Format{SampleRate: int(dev.DefaultSampleRate), Channels: f.Channels}
		if alt.SampleRate == f.SampleRate || alt.SampleRate <= 0 {
			portaudio.Terminate()
			return nil, fmt.Errorf("%w: %v: %v", ErrFormatNegotiation, f, err)
		}
		logger.Printf("driver: %v not supported (%v), trying %v", f, err, alt)
		stream, err = portaudio.OpenDefaultStream(0, alt.Channels, float64(alt.SampleRate), frames, d.process)
		if err != nil {
			portaudio.Terminate()
			return nil, fmt.Errorf("%w: %v: %v", ErrFormatNegotiation, alt, err)
		}
		f = alt
	}
	d.stream = stream
	d.format = f
	logger.Printf("driver: portaudio on %s, %v, %d frames per block", dev.Name, f, frames)
	return d, nil
}

func (d *PortAudioDriver) Format() Format { return d.format }

func (d *PortAudioDriver) Start(src Source) error {
	d.src.Store(sourceHolder{src})
	return d.stream.Start()
}

func (d *PortAudioDriver) process(out []int16) {
	h, ok := d.src.Load().(sourceHolder)
	if !ok {
		for i := range out {
			out[i] = 0
		}
		return
	}
	h.Mix(out)
}

func (d *PortAudioDriver) Close() error {
	d.stream.Stop()
	err := d.stream.Close()
	portaudio.Terminate()
	return err
}
