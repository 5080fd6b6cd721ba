package audio

import (
	"sync/atomic"
)

type eventKind int

const (
	eventRetired eventKind = iota
	eventContended
)

// event is something the mix path wants reported outside the audio callback.
type event struct {
	kind  eventKind
	voice uint64
	note  string
}

// eventBuffer is a lock-free spsc queue. The producer is the audio callback, which must
// never wait, so a full buffer rejects the event instead of blocking.
type eventBuffer struct {
	events      []event
	read, write *uint32
}

func newEventBuffer(size int) *eventBuffer {
	if size <= 0 || size&(size-1) != 0 {
		panic("event buffer size must be a power of 2")
	}
	return &eventBuffer{
		events: make([]event, size),
		read:   new(uint32),
		write:  new(uint32),
	}
}

// tryPush appends ev and reports whether there was room for it.
func (b *eventBuffer) tryPush(ev event) bool {
	write := atomic.LoadUint32(b.write)
	if write-atomic.LoadUint32(b.read) == uint32(len(b.events)) {
		return false
	}
	b.events[write%uint32(len(b.events))] = ev
	atomic.StoreUint32(b.write, write+1)
	return true
}

// drain calls f for every queued event, oldest first, and returns how many it consumed.
func (b *eventBuffer) drain(f func(event)) int {
	read := atomic.LoadUint32(b.read)
	write := atomic.LoadUint32(b.write)
	n := int(write - read)
	for read != write {
		f(b.events[read%uint32(len(b.events))])
		read++
	}
	atomic.StoreUint32(b.read, read)
	return n
}
