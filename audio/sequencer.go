package audio

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Pulses per quarter note
const PPQN = 960.

const defaultVelocity = 0.8

type Clip struct {
	Length     int
	instrument Playable
	notes      []note
}

func NewClip(length float64, p Playable) *Clip {
	return &Clip{
		Length:     int(length * PPQN),
		instrument: p,
	}
}

// Playable receives notes at sample offsets into the buffer being rendered. *Input
// implements it.
type Playable interface {
	NoteOnAt(offset, note int, velocity float32)
	NoteOffAt(offset, note int)
}

func (c *Clip) AddNote(position float64, pitch int, length float64) {
	c.AddNoteVelocity(position, pitch, length, defaultVelocity)
}

func (c *Clip) AddNoteVelocity(position float64, pitch int, length float64, velocity float32) {
	if pitch < 1 || pitch > 127 {
		return
	}
	c.notes = append(c.notes, note{
		pos:      int(position * PPQN),
		pitch:    pitch,
		velocity: velocity,
		length:   length,
	})
}

type note struct {
	pos      int // position of the note measured in PPQN from the start of a clip
	pitch    int // pitch as a midi note number
	velocity float32
	length   float64 // note length in beats
}

// scheduled is a note event waiting to be sent. offset counts samples from the start of
// the current buffer.
type scheduled struct {
	target Playable
	offset int
	pitch  int
	vel    float32
	on     bool
}

type Sequencer struct {
	*Props
	bpm         *atomic.Value
	clips       *atomic.Value
	sampleRate  float64
	totalPulses uint64
	started     bool
	hadClips    bool

	pending []scheduled // note offs beyond the current buffer
	out     []scheduled
}

func NewSequencer(props *Props, sampleRate float64) *Sequencer {
	clips := make(map[string]*Clip)
	seq := &Sequencer{
		Props:      props,
		sampleRate: sampleRate,
		clips:      props.MustRegister("clips", setClips, clips),
		bpm:        props.MustRegister("bpm", setFloat64(20, 500), 120.0),
		pending:    make([]scheduled, 0, 256),
		out:        make([]scheduled, 0, 256),
	}
	return seq
}

// PlayHead returns the tempo and the position in quarter notes. reset is true for the
// first buffer after the sequencer starts, and while it is stopped after all clips were
// removed.
func (s *Sequencer) PlayHead() (bpm, ppq float64, reset bool) {
	return s.bpm.Load().(float64), float64(s.totalPulses) / PPQN, !s.started
}

func (s *Sequencer) Tick(numSamples int) {
	bpm := s.bpm.Load().(float64)
	clips := s.clips.Load().(map[string]*Clip)

	// The number of pulses to schedule for each buffer will be fractional,
	// because the PPQN is not a multiple of the buffer size. Truncating it
	// causes the next pulse to be a few samples early, but it's not noticeable.
	numPulses := int(math.Floor(PPQN * (bpm / 60.) / (s.sampleRate / float64(numSamples))))
	samplesPerPulse := s.sampleRate / ((bpm * PPQN) / 60.)

	s.out = s.out[:0]
	kept := s.pending[:0]
	for _, ev := range s.pending {
		if ev.offset < numSamples {
			s.out = append(s.out, ev)
		} else {
			ev.offset -= numSamples
			kept = append(kept, ev)
		}
	}
	s.pending = kept

	for _, clip := range clips {
		pos := int(s.totalPulses % uint64(clip.Length)) // current position within the clip
		nextPos := pos + numPulses                      // next position within the clip

		for _, note := range clip.notes {
			duration := int(note.length * s.sampleRate / (bpm / 60.))

			if nextPos > clip.Length {
				// We've reached the end of the clip so also check start of clip for notes to schedule.
				if note.pos >= pos || note.pos < nextPos-clip.Length {
					offset := int(math.Round(float64(clip.Length-pos+note.pos) * samplesPerPulse))
					if note.pos >= pos {
						offset = int(math.Round(float64(note.pos-pos) * samplesPerPulse))
					}
					s.schedule(clip.instrument, offset, note, duration, numSamples)
				}
			} else {
				if note.pos >= pos && note.pos < nextPos {
					offset := int(math.Round(float64(note.pos-pos) * samplesPerPulse))
					s.schedule(clip.instrument, offset, note, duration, numSamples)
				}
			}
		}
	}
	s.send()
	s.totalPulses += uint64(numPulses)
	switch {
	case len(clips) > 0:
		s.hadClips = true
		s.started = true
	case s.hadClips:
		// stopped, the next clip starts from the top with a fresh play head
		s.started = false
		s.totalPulses = 0
	default:
		s.started = true
	}
}

func (s *Sequencer) schedule(p Playable, offset int, n note, duration, numSamples int) {
	s.out = append(s.out, scheduled{target: p, offset: offset, pitch: n.pitch, vel: n.velocity, on: true})
	off := scheduled{target: p, offset: offset + duration, pitch: n.pitch}
	if off.offset < numSamples {
		s.out = append(s.out, off)
	} else {
		off.offset -= numSamples
		s.pending = append(s.pending, off)
	}
}

// send delivers this buffer's events ordered by offset, since a target applies them in
// the order it receives them.
func (s *Sequencer) send() {
	for i := 1; i < len(s.out); i++ {
		for j := i; j > 0 && s.out[j].offset < s.out[j-1].offset; j-- {
			s.out[j], s.out[j-1] = s.out[j-1], s.out[j]
		}
	}
	for _, ev := range s.out {
		if ev.on {
			ev.target.NoteOnAt(ev.offset, ev.pitch, ev.vel)
		} else {
			ev.target.NoteOffAt(ev.offset, ev.pitch)
		}
	}
}

func setClips(v interface{}, dest *atomic.Value) error {
	if c, ok := v.(map[string]*Clip); ok {
		dest.Store(c)
		return nil
	}
	return fmt.Errorf("value is not a map of clips: %v", v)
}
