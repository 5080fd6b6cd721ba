package audio

import (
	"fmt"
	"sort"
	"sync/atomic"
)

const (
	PropMaxVoices = "max-voices"
	PropEviction  = "eviction"
)

// Device is anything with runtime properties.
type Device interface {
	Set(key string, val interface{}) error
	Get(key string) (interface{}, error)
}

// Props stores device configuration that can be updated without locks. All properties
// should be registered before any reads take place.
type Props struct {
	properties map[string]*atomic.Value
	setters    map[string]setter
}

func NewProps() *Props {
	return &Props{
		properties: make(map[string]*atomic.Value),
		setters:    make(map[string]setter),
	}
}

// Set updates the property with value. The key has to be registered first using Register.
func (p *Props) Set(key string, value interface{}) error {
	prop, ok := p.properties[key]
	if !ok {
		return fmt.Errorf("unknown property %s", key)
	}
	set, ok := p.setters[key]
	if !ok {
		return fmt.Errorf("unknown property %s", key)
	}
	if err := set(value, prop); err != nil {
		return fmt.Errorf("set property %s: %w", key, err)
	}
	return nil
}

func (p *Props) Get(key string) (interface{}, error) {
	prop, ok := p.properties[key]
	if !ok {
		return nil, fmt.Errorf("unknown property %s", key)
	}
	return prop.Load(), nil
}

// Keys returns the registered property names.
func (p *Props) Keys() []string {
	keys := make([]string, 0, len(p.properties))
	for k := range p.properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Register adds a new property.
func (p *Props) Register(key string, set setter, init interface{}) (*atomic.Value, error) {
	var prop atomic.Value
	p.properties[key] = &prop
	p.setters[key] = set
	return &prop, set(init, &prop)
}

func (p *Props) MustRegister(key string, set setter, init interface{}) *atomic.Value {
	if prop, err := p.Register(key, set, init); err != nil {
		panic(err)
	} else {
		return prop
	}
}

type setter func(val interface{}, dest *atomic.Value) error

const maxVoiceLimit = 4096

var setMaxVoices = setIntRange(0, maxVoiceLimit)

func setIntRange(min, max int) setter {
	return func(v interface{}, dest *atomic.Value) error {
		var n int
		switch x := v.(type) {
		case int:
			n = x
		case float64:
			if x != float64(int(x)) {
				return fmt.Errorf("value is not an integer: %v", v)
			}
			n = int(x)
		default:
			return fmt.Errorf("value is not an int: %v", v)
		}
		if n < min || n > max {
			return fmt.Errorf("property value is not in valid range %v - %v: %v", min, max, n)
		}
		dest.Store(n)
		return nil
	}
}

func setEviction(v interface{}, dest *atomic.Value) error {
	switch x := v.(type) {
	case EvictionPolicy:
		dest.Store(x)
		return nil
	case string:
		policy, err := ParseEvictionPolicy(x)
		if err != nil {
			return err
		}
		dest.Store(policy)
		return nil
	default:
		return fmt.Errorf("value is not an eviction policy: %v", v)
	}
}
