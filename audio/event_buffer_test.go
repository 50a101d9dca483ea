package audio

import (
	"context"
	"reflect"
	"runtime"
	"testing"
	"time"
)

func TestEventBufferOffset(t *testing.T) {
	buf := newEventBuffer(8)
	buf.push(event{kind: eventNoteOn, offset: 2, note: 60})
	buf.push(event{kind: eventNoteOff, offset: 3, note: 60})

	var events []event
	buf.iter(2, func(ev event) {
		events = append(events, ev)
	})
	if want, got := 0, len(events); want != got {
		t.Errorf("expected zero events, got %v", got)
	}

	buf.iter(4, func(ev event) {
		events = append(events, ev)
	})
	if want, got := 2, len(events); want != got {
		t.Fatalf("expected %v events, got %v", want, got)
	}
	if want, got := eventNoteOff, events[1].kind; want != got {
		t.Errorf("want event kind %v, got %v", want, got)
	}
	if want, got := 0, buf.len(); want != got {
		t.Errorf("want %v pending events, got %v", want, got)
	}
}

func TestEventBufferFull(t *testing.T) {
	buf := newEventBuffer(4)
	for n := 0; n < 4; n++ {
		buf.push(event{kind: eventParam, param: ParamID(n)})
	}

	pushed := make(chan struct{})
	go func() {
		buf.push(event{kind: eventAllSoundOff})
		close(pushed)
	}()
	select {
	case <-pushed:
		t.Fatal("push returned while the buffer was full")
	case <-time.After(10 * time.Millisecond):
	}

	var kinds []eventKind
	buf.iter(-1, func(ev event) { kinds = append(kinds, ev.kind) })
	<-pushed
	buf.iter(-1, func(ev event) { kinds = append(kinds, ev.kind) })
	want := []eventKind{eventParam, eventParam, eventParam, eventParam, eventAllSoundOff}
	if !reflect.DeepEqual(want, kinds) {
		t.Errorf("want %v, got %v", want, kinds)
	}
}

func TestEventBufferConcurrent(t *testing.T) {
	buf := newEventBuffer(8)

	done := make(chan []event)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		var events []event
		collect := func(ev event) { events = append(events, ev) }
		for {
			select {
			case <-ctx.Done():
				buf.iter(-1, collect)
				done <- events
				return
			default:
				buf.iter(-1, collect)
				runtime.Gosched()
			}
		}
	}()

	const numEvents = 100_000
	for n := 0; n < numEvents; n++ {
		buf.push(event{kind: eventNoteOn, note: n % 128, offset: n})
	}
	cancel()
	events := <-done

	if want, got := numEvents, len(events); want != got {
		t.Fatalf("want %v events, got %v", want, got)
	}
	for i, ev := range events {
		if ev.offset != i || ev.note != i%128 {
			t.Fatalf("event %d out of order: %+v", i, ev)
		}
	}
}
