//go:build headless

package audio

import "log"

type PortAudioDriver struct{ TimerDriver }

func OpenPortAudio(want Format, frames int, logger *log.Logger) (*PortAudioDriver, error) {
	return nil, ErrNoOutputDevice
}

type OtoDriver struct{ TimerDriver }

func OpenOto(want Format, frames int, logger *log.Logger) (*OtoDriver, error) {
	return nil, ErrNoOutputDevice
}
