package audio

import (
	"fmt"
	"sort"
)

type preset map[string]interface{}

var presets = map[string]preset{
	"default": {
		PropMaxVoices: 64,
		PropEviction:  "oldest",
	},
	"unbounded": {
		PropMaxVoices: 0,
		PropEviction:  "oldest",
	},
	"economy": {
		PropMaxVoices: 16,
		PropEviction:  "quietest",
	},
	"staccato": {
		PropMaxVoices: 24,
		PropEviction:  "shortest",
	},
}

// LoadPreset applies a named set of properties to d.
func LoadPreset(name string, d Device) error {
	p, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown preset: %v", name)
	}
	for k, v := range p {
		if err := d.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
