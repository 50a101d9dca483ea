// Package tuning maps MIDI keys to fractional note numbers for the synth engine.
package tuning

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
)

const numKeys = 128

// EqualTemperament is standard 12-tone tuning with A4 on key 69.
type EqualTemperament struct{}

func (EqualTemperament) TunedMidiNote(note int) float64 { return float64(note) }

// Table is a retunable key map. It can be updated by one goroutine while the audio
// thread reads from it.
type Table struct {
	notes [numKeys]atomic.Uint64
}

func NewTable() *Table {
	t := &Table{}
	t.Reset()
	return t
}

// Reset restores equal temperament.
func (t *Table) Reset() {
	for k := range t.notes {
		t.notes[k].Store(math.Float64bits(float64(k)))
	}
}

// TunedMidiNote returns the tuned pitch of key as a fractional MIDI note number. Keys
// outside the table stay equal tempered.
func (t *Table) TunedMidiNote(note int) float64 {
	if note < 0 || note >= numKeys {
		return float64(note)
	}
	return math.Float64frombits(t.notes[note].Load())
}

// Set retunes key to the fractional note number pitch.
func (t *Table) Set(key int, pitch float64) error {
	if key < 0 || key >= numKeys {
		return fmt.Errorf("key out of range: %d", key)
	}
	if math.IsNaN(pitch) || pitch < 0 || pitch >= numKeys {
		return fmt.Errorf("pitch out of range: %v", pitch)
	}
	t.notes[key].Store(math.Float64bits(pitch))
	return nil
}

// SetCents detunes key from its equal tempered pitch.
func (t *Table) SetCents(key int, cents float64) error {
	return t.Set(key, float64(key)+cents/100)
}

const (
	sysexStart    = 0xf0
	sysexEnd      = 0xf7
	universalNRT  = 0x7e
	universalRT   = 0x7f
	subIDTuning   = 0x08
	singleNote    = 0x02 // real-time single note tuning change
	singleNoteBnk = 0x07 // single note tuning change with bank
	scaleOctave   = 0x08 // scale/octave tuning, 1 byte form
)

var ErrNotTuning = errors.New("not a MIDI tuning message")

// ApplySysEx applies a MIDI Tuning Standard message to the table and returns the number
// of keys changed. The framing bytes F0 and F7 are optional. Supported are the single
// note tuning change (real-time, and with bank select) and the 1 byte scale/octave
// tuning.
func (t *Table) ApplySysEx(msg []byte) (int, error) {
	if len(msg) > 0 && msg[0] == sysexStart {
		msg = msg[1:]
	}
	if len(msg) > 0 && msg[len(msg)-1] == sysexEnd {
		msg = msg[:len(msg)-1]
	}
	if len(msg) < 4 || (msg[0] != universalNRT && msg[0] != universalRT) || msg[2] != subIDTuning {
		return 0, ErrNotTuning
	}
	switch body := msg[4:]; msg[3] {
	case singleNote:
		if msg[0] != universalRT || len(body) < 2 {
			return 0, ErrNotTuning
		}
		return t.applyNotes(body[1:]) // skip tuning program
	case singleNoteBnk:
		if len(body) < 3 {
			return 0, ErrNotTuning
		}
		return t.applyNotes(body[2:]) // skip bank and tuning program
	case scaleOctave:
		return t.applyScale(body)
	default:
		return 0, fmt.Errorf("unsupported tuning message: %#02x", msg[3])
	}
}

// applyNotes reads a key count followed by [key, semitone, msb, lsb] entries.
func (t *Table) applyNotes(data []byte) (int, error) {
	count := int(data[0])
	data = data[1:]
	if len(data) < count*4 {
		return 0, fmt.Errorf("truncated tuning message: want %d keys, got %d bytes", count, len(data))
	}
	changed := 0
	for i := 0; i < count; i++ {
		e := data[i*4 : i*4+4]
		key := int(e[0] & 0x7f)
		if e[1] == 0x7f && e[2] == 0x7f && e[3] == 0x7f {
			continue // no change
		}
		frac := int(e[2]&0x7f)<<7 | int(e[3]&0x7f)
		pitch := float64(e[1]&0x7f) + float64(frac)/16384
		if err := t.Set(key, pitch); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

// applyScale reads a 3 byte channel mask followed by 12 cent offsets, 0x40 being no
// offset. The offsets repeat in every octave.
func (t *Table) applyScale(data []byte) (int, error) {
	if len(data) < 3+12 {
		return 0, fmt.Errorf("truncated scale/octave tuning message: %d bytes", len(data))
	}
	offsets := data[3 : 3+12]
	for k := 0; k < numKeys; k++ {
		cents := float64(int(offsets[k%12]&0x7f) - 0x40)
		pitch := math.Max(0, float64(k)+cents/100)
		t.notes[k].Store(math.Float64bits(pitch))
	}
	return numKeys, nil
}
