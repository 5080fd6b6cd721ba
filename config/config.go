package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mrdg/piano/audio"
)

const defaultConfig = `
{
	"sampleDir": "src/NotesFF",
	"samplePrefix": "Piano.ff",
	"sampleExt": "wav",
	"lowNote": "C3",
	"highNote": "C6",
	"driver": "portaudio",
	"blockFrames": 64,
	"defaultSampleRate": 44100,
	"defaultChannels": 2,
	"watchConfig": false,
	"maxVoices": 64,
	"eviction": "oldest"
}
`

// StaticConfig is read once at startup.
type StaticConfig struct {
	SampleDir         string `json:"sampleDir"`
	SamplePrefix      string `json:"samplePrefix"`
	SampleExt         string `json:"sampleExt"`
	LowNote           string `json:"lowNote"`
	HighNote          string `json:"highNote"`
	Driver            string `json:"driver"`
	BlockFrames       int    `json:"blockFrames"`
	DefaultSampleRate int    `json:"defaultSampleRate"`
	DefaultChannels   int    `json:"defaultChannels"`
	WatchConfig       bool   `json:"watchConfig"`
}

// DynamicConfig can be changed while the piano is running.
type DynamicConfig struct {
	MaxVoices int    `json:"maxVoices"`
	Eviction  string `json:"eviction"`
}

type Config struct {
	StaticConfig
	DynamicConfig
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c, err := parse([]byte(defaultConfig))
	if err != nil {
		panic(err)
	}
	return c
}

// ReadConfig reads the config at p, writing the default config there first if the file
// does not exist.
func ReadConfig(p string) (*Config, error) {
	if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
		err = os.WriteFile(p, []byte(defaultConfig), 0644)
		if err != nil {
			return nil, fmt.Errorf("can't write default config: %w", err)
		}
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("can't read config: %w", err)
	}
	c, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return c, nil
}

// parse unmarshals data over the defaults, so keys missing from the file keep their
// default value.
func parse(data []byte) (*Config, error) {
	var c Config
	if err := json.Unmarshal([]byte(defaultConfig), &c); err != nil {
		return nil, fmt.Errorf("unmarshalling defaults: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshalling: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

var drivers = map[string]bool{"portaudio": true, "oto": true, "null": true}

func (c *Config) Validate() error {
	if !drivers[c.Driver] {
		return fmt.Errorf("invalid driver %q (want portaudio, oto or null)", c.Driver)
	}
	if c.BlockFrames < 1 || c.BlockFrames > 8192 {
		return fmt.Errorf("blockFrames must be in 1 - 8192, got %d", c.BlockFrames)
	}
	if c.DefaultSampleRate < 1000 || c.DefaultSampleRate > 384000 {
		return fmt.Errorf("defaultSampleRate must be in 1000 - 384000, got %d", c.DefaultSampleRate)
	}
	if c.DefaultChannels < 1 || c.DefaultChannels > 8 {
		return fmt.Errorf("defaultChannels must be in 1 - 8, got %d", c.DefaultChannels)
	}
	if c.SamplePrefix == "" || c.SampleExt == "" {
		return fmt.Errorf("samplePrefix and sampleExt must not be empty")
	}
	if _, err := c.Notes(); err != nil {
		return err
	}
	return c.DynamicConfig.Validate()
}

func (d DynamicConfig) Validate() error {
	if d.MaxVoices < 0 || d.MaxVoices > 4096 {
		return fmt.Errorf("maxVoices must be in 0 - 4096, got %d", d.MaxVoices)
	}
	if _, err := audio.ParseEvictionPolicy(d.Eviction); err != nil {
		return err
	}
	return nil
}

// Notes returns the note identifiers of the keyboard, low to high.
func (c *Config) Notes() ([]string, error) {
	return audio.NoteRange(c.LowNote, c.HighNote)
}

// Format returns the output format used when no sample could be decoded.
func (c *Config) Format() audio.Format {
	return audio.Format{SampleRate: c.DefaultSampleRate, Channels: c.DefaultChannels}
}

// Apply sets the dynamic configuration on a running device.
func (d DynamicConfig) Apply(dev audio.Device) error {
	if err := dev.Set(audio.PropMaxVoices, d.MaxVoices); err != nil {
		return err
	}
	return dev.Set(audio.PropEviction, d.Eviction)
}
