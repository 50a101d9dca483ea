// Package control turns MIDI messages into synth engine calls.
package control

import (
	"fmt"

	"github.com/mrdg/polysynth/audio"
	"github.com/mrdg/polysynth/tuning"
	"gitlab.com/gomidi/midi/v2"
)

// Target receives decoded events. *audio.Input implements it.
type Target interface {
	NoteOn(note int, velocity float32, channel int)
	NoteOff(note int, velocity float32, channel int)
	PitchWheel(x float32)
	ModWheel(x float32)
	SustainOn()
	SustainOff()
	AllNotesOff()
	AllSoundOff()
	SetParam(id audio.ParamID, x float32)
}

// Controller numbers with a fixed meaning.
const (
	CCModWheel    = 1
	CCSustain     = 64
	CCAllSoundOff = 120
	CCAllNotesOff = 123
)

// Omni makes a Dispatcher listen on all channels.
const Omni = -1

// Dispatcher decodes MIDI messages and forwards them to a Target. Controllers listed in
// CC are mapped to engine parameters. MIDI Tuning Standard messages update Tuning when
// it is set.
type Dispatcher struct {
	Target  Target
	Channel int
	CC      map[uint8]audio.ParamID
	Tuning  *tuning.Table
}

func NewDispatcher(t Target) *Dispatcher {
	return &Dispatcher{
		Target:  t,
		Channel: Omni,
		CC:      DefaultCCMap(),
	}
}

// DefaultCCMap binds the usual sound controllers to filter and envelope parameters.
func DefaultCCMap() map[uint8]audio.ParamID {
	return map[uint8]audio.ParamID{
		7:  audio.ParamVolume,
		5:  audio.ParamPortamento,
		71: audio.ParamResonance,
		72: audio.ParamAmpRelease,
		73: audio.ParamAmpAttack,
		74: audio.ParamCutoff,
		75: audio.ParamAmpDecay,
		76: audio.ParamVibratoRate,
		77: audio.ParamFltEnvAmount,
	}
}

func (d *Dispatcher) listening(ch uint8) bool {
	return d.Channel == Omni || int(ch) == d.Channel
}

// Dispatch handles one message. Messages on other channels and message types without a
// meaning for the synth are ignored. Only malformed tuning messages return an error.
func (d *Dispatcher) Dispatch(msg midi.Message) error {
	var ch, key, vel, cc, val uint8
	var rel int16
	var abs uint16
	var data []byte

	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		if d.listening(ch) {
			d.Target.NoteOn(int(key), float32(vel)/127, int(ch))
		}
	case msg.GetNoteOff(&ch, &key, &vel):
		if d.listening(ch) {
			d.Target.NoteOff(int(key), float32(vel)/127, int(ch))
		}
	case msg.GetNoteOn(&ch, &key, &vel):
		// note on with velocity 0
		if d.listening(ch) {
			d.Target.NoteOff(int(key), 0, int(ch))
		}
	case msg.GetControlChange(&ch, &cc, &val):
		if d.listening(ch) {
			d.controlChange(cc, val)
		}
	case msg.GetPitchBend(&ch, &rel, &abs):
		if d.listening(ch) {
			d.Target.PitchWheel(bendValue(rel))
		}
	case msg.GetSysEx(&data):
		if d.Tuning == nil {
			return nil
		}
		if _, err := d.Tuning.ApplySysEx(data); err != nil && err != tuning.ErrNotTuning {
			return fmt.Errorf("tuning message: %w", err)
		}
	}
	return nil
}

func (d *Dispatcher) controlChange(cc, val uint8) {
	switch cc {
	case CCModWheel:
		d.Target.ModWheel(float32(val) / 127)
	case CCSustain:
		if val >= 64 {
			d.Target.SustainOn()
		} else {
			d.Target.SustainOff()
		}
	case CCAllSoundOff:
		d.Target.AllSoundOff()
	case CCAllNotesOff:
		d.Target.AllNotesOff()
	default:
		if id, ok := d.CC[cc]; ok {
			d.Target.SetParam(id, float32(val)/127)
		}
	}
}

// bendValue scales a 14 bit bend around the center to [-1, 1].
func bendValue(rel int16) float32 {
	if rel < 0 {
		return float32(rel) / 8192
	}
	return float32(rel) / 8191
}
