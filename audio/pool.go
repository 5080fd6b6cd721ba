package audio

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// EvictionPolicy picks the voice to drop when the pool is full.
type EvictionPolicy int

const (
	EvictOldest   EvictionPolicy = iota // earliest started
	EvictQuietest                       // lowest peak amplitude left to play
	EvictShortest                       // fewest samples left to play
)

var policyNames = map[EvictionPolicy]string{
	EvictOldest:   "oldest",
	EvictQuietest: "quietest",
	EvictShortest: "shortest",
}

func (p EvictionPolicy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("EvictionPolicy(%d)", int(p))
}

func ParseEvictionPolicy(s string) (EvictionPolicy, error) {
	for p, name := range policyNames {
		if strings.EqualFold(s, name) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown eviction policy %q (want oldest, quietest or shortest)", s)
}

// pool is the registry of sounding voices. Triggers insert under mu; the mix path holds
// mu for the whole tick while it advances and retires voices.
type pool struct {
	mu     sync.Mutex
	voices []*Voice
	nextID uint64

	size      atomic.Int64 // len(voices), readable without mu
	maxVoices *atomic.Value
	policy    *atomic.Value
}

func newPool(maxVoices, policy *atomic.Value) *pool {
	return &pool{
		voices:    make([]*Voice, 0, 64),
		maxVoices: maxVoices,
		policy:    policy,
	}
}

// insert adds a voice for snd and returns it, plus the voices evicted to stay within
// the cap.
func (p *pool) insert(note string, snd *Sample) (*Voice, []*Voice) {
	limit := p.maxVoices.Load().(int)
	policy := p.policy.Load().(EvictionPolicy)

	p.mu.Lock()
	defer p.mu.Unlock()

	var evicted []*Voice
	for limit > 0 && len(p.voices) >= limit {
		evicted = append(evicted, p.removeAt(p.victim(policy)))
	}
	p.nextID++
	v := newVoice(p.nextID, note, snd)
	p.voices = append(p.voices, v)
	p.size.Store(int64(len(p.voices)))
	return v, evicted
}

// victim returns the index of the voice to evict. mu must be held and the pool must not
// be empty.
func (p *pool) victim(policy EvictionPolicy) int {
	best := 0
	for i, v := range p.voices[1:] {
		b := p.voices[best]
		var better bool
		switch policy {
		case EvictQuietest:
			better = v.peak() < b.peak() || (v.peak() == b.peak() && v.id < b.id)
		case EvictShortest:
			better = v.remaining() < b.remaining() || (v.remaining() == b.remaining() && v.id < b.id)
		default:
			better = v.id < b.id
		}
		if better {
			best = i + 1
		}
	}
	return best
}

// removeAt removes the voice at i keeping the order of the rest. mu must be held.
func (p *pool) removeAt(i int) *Voice {
	v := p.voices[i]
	copy(p.voices[i:], p.voices[i+1:])
	p.voices[len(p.voices)-1] = nil
	p.voices = p.voices[:len(p.voices)-1]
	return v
}

// retire removes every finished voice, calling fn for each. mu must be held.
func (p *pool) retire(fn func(*Voice)) {
	n := 0
	for _, v := range p.voices {
		if v.done() {
			fn(v)
			continue
		}
		p.voices[n] = v
		n++
	}
	for i := n; i < len(p.voices); i++ {
		p.voices[i] = nil
	}
	p.voices = p.voices[:n]
	p.size.Store(int64(n))
}

// lock acquires mu from the audio callback. It returns true if the lock was contended.
func (p *pool) lock() bool {
	if p.mu.TryLock() {
		return false
	}
	p.mu.Lock()
	return true
}

func (p *pool) unlock() { p.mu.Unlock() }

func (p *pool) len() int { return int(p.size.Load()) }

func (p *pool) snapshot() []VoiceInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	infos := make([]VoiceInfo, len(p.voices))
	for i, v := range p.voices {
		infos[i] = v.info()
	}
	return infos
}
