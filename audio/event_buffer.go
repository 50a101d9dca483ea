package audio

import (
	"runtime"
	"sync/atomic"
)

type eventKind uint8

const (
	eventNoteOn eventKind = iota
	eventNoteOff
	eventParam
	eventPitchWheel
	eventModWheel
	eventSustainOn
	eventSustainOff
	eventAllNotesOff
	eventAllSoundOff
)

type event struct {
	kind   eventKind
	offset int // samples into the next processed buffer
	note   int
	param  ParamID
	value  float32
}

// eventBuffer is a lock-free spsc queue. The producer only writes tail and the consumer
// only writes head; both counters wrap and are masked into the slice.
type eventBuffer struct {
	events []event
	mask   uint32
	head   atomic.Uint32
	tail   atomic.Uint32
}

func newEventBuffer(size int) *eventBuffer {
	if size <= 0 || size&(size-1) != 0 {
		panic("event buffer size must be a power of 2")
	}
	return &eventBuffer{
		events: make([]event, size),
		mask:   uint32(size - 1),
	}
}

// push blocks while the buffer is full.
func (b *eventBuffer) push(ev event) {
	tail := b.tail.Load()
	for tail-b.head.Load() == uint32(len(b.events)) {
		runtime.Gosched()
	}
	b.events[tail&b.mask] = ev
	b.tail.Store(tail + 1)
}

// iter consumes events with an offset below untilOffset, in push order. An untilOffset
// of -1 consumes everything.
func (b *eventBuffer) iter(untilOffset int, f func(event)) {
	head, tail := b.head.Load(), b.tail.Load()
	for ; head != tail; head++ {
		ev := b.events[head&b.mask]
		if untilOffset != -1 && ev.offset >= untilOffset {
			break
		}
		f(ev)
	}
	b.head.Store(head)
}

func (b *eventBuffer) len() int {
	return int(b.tail.Load() - b.head.Load())
}
