package audio

import (
	"math"
	"sync/atomic"
)

const (
	blockSize      = 16 // this gives about 0.35ms accuracy for sequenced events
	inputQueueSize = 512
)

// Engine is the synthesizer seen from the outside: normalized parameters, note and
// controller events in, stereo samples out.
//
// Engine methods run on the audio thread. Other goroutines talk to it through an Input.
type Engine struct {
	mb     *Motherboard
	params [numParams]float32

	cutoff   Smoother
	bend     Smoother
	modWheel Smoother

	inputs     []*Input
	apply      func(event)
	sampleRate float32
	status     [MaxVoices]voiceStatus
}

func NewEngine(sampleRate float32, seed int64) *Engine {
	e := &Engine{mb: NewMotherboard(seed)}
	e.apply = e.applyEvent
	e.SetSampleRate(sampleRate)
	for id := range paramTable {
		e.SetParam(ParamID(id), paramTable[id].def)
	}
	e.cutoff.Jump(e.cutoff.target)
	e.bend.Jump(0)
	e.modWheel.Jump(0)
	return e
}

func (e *Engine) SetSampleRate(sr float32) {
	e.sampleRate = sr
	e.cutoff.SetSampleRate(sr)
	e.bend.SetSampleRate(sr)
	e.modWheel.SetSampleRate(sr)
	e.mb.SetSampleRate(sr)
}

func (e *Engine) SampleRate() float32 { return e.sampleRate }

func (e *Engine) Motherboard() *Motherboard { return e.mb }

func (e *Engine) SetTuning(t Tuning) {
	e.mb.ForEachVoice(func(v *Voice) { v.SetTuning(t) })
}

// NewInput returns a queue for one producing goroutine. Inputs must be created before
// the engine starts processing.
func (e *Engine) NewInput() *Input {
	in := &Input{events: newEventBuffer(inputQueueSize)}
	e.inputs = append(e.inputs, in)
	return in
}

func (e *Engine) NoteOn(note int, velocity float32, channel int) {
	e.mb.NoteOn(note, velocity)
}

func (e *Engine) NoteOff(note int, velocity float32, channel int) {
	e.mb.NoteOff(note)
}

// PitchWheel takes a bend in [-1, 1].
func (e *Engine) PitchWheel(x float32) {
	e.bend.SetTarget(clamp(x, -1, 1))
}

func (e *Engine) ModWheel(x float32) {
	e.modWheel.SetTarget(clamp(x, 0, 1))
}

func (e *Engine) SustainOn()  { e.mb.SustainOn() }
func (e *Engine) SustainOff() { e.mb.SustainOff() }

func (e *Engine) AllNotesOff() { e.mb.AllNotesOff() }
func (e *Engine) AllSoundOff() { e.mb.AllSoundOff() }

// SetPlayHead passes the host tempo and position (in quarter notes) to tempo synced LFOs.
// reset realigns their phase, used when the transport starts.
func (e *Engine) SetPlayHead(bpm, ppq float64, reset bool) {
	b, q := float32(bpm), float32(math.Mod(ppq, 1<<16))
	e.mb.lfo.HostSync(b, q, reset)
	for i := range e.mb.voices {
		e.mb.voices[i].lfo2.HostSync(b, q, reset)
	}
}

func (e *Engine) applyEvent(ev event) {
	switch ev.kind {
	case eventNoteOn:
		e.NoteOn(ev.note, ev.value, 0)
	case eventNoteOff:
		e.NoteOff(ev.note, ev.value, 0)
	case eventParam:
		e.SetParam(ev.param, ev.value)
	case eventPitchWheel:
		e.PitchWheel(ev.value)
	case eventModWheel:
		e.ModWheel(ev.value)
	case eventSustainOn:
		e.SustainOn()
	case eventSustainOff:
		e.SustainOff()
	case eventAllNotesOff:
		e.AllNotesOff()
	case eventAllSoundOff:
		e.AllSoundOff()
	}
}

func (e *Engine) ProcessSample() (float32, float32) {
	cutoff := e.cutoff.Step()
	bend := e.bend.Step()
	for i := range e.mb.voices {
		v := &e.mb.voices[i]
		v.cutoff = cutoff
		v.bend = bend
	}
	e.mb.modWheel = e.modWheel.Step()
	return e.mb.ProcessSample()
}

// Process renders len(samples[0]) frames into the left and right channels, applying queued
// events at the start of the block their offset falls in.
func (e *Engine) Process(samples [][]float32) {
	size := len(samples[0])
	for n := 0; n < size; n += blockSize {
		end := n + blockSize
		if end > size {
			end = size
		}
		for _, in := range e.inputs {
			in.events.iter(end, e.apply)
		}
		for i := n; i < end; i++ {
			samples[0][i], samples[1][i] = e.ProcessSample()
		}
	}
	// events scheduled past this buffer are late, apply them now instead of blocking the queue
	for _, in := range e.inputs {
		in.events.iter(-1, e.apply)
	}
	e.publishStatus()
}

// Input is a single producer event queue into an Engine. It has the same note and
// controller methods as the Engine, but they may be called from any one goroutine.
type Input struct {
	events *eventBuffer
}

func (in *Input) NoteOn(note int, velocity float32, channel int) {
	in.NoteOnAt(0, note, velocity)
}

func (in *Input) NoteOff(note int, velocity float32, channel int) {
	in.NoteOffAt(0, note)
}

// NoteOnAt schedules a note offset samples into the next processed buffer.
func (in *Input) NoteOnAt(offset, note int, velocity float32) {
	in.events.push(event{kind: eventNoteOn, offset: offset, note: note, value: velocity})
}

func (in *Input) NoteOffAt(offset, note int) {
	in.events.push(event{kind: eventNoteOff, offset: offset, note: note})
}

func (in *Input) PitchWheel(x float32)           { in.PitchWheelAt(0, x) }
func (in *Input) ModWheel(x float32)             { in.ModWheelAt(0, x) }
func (in *Input) SustainOn()                     { in.SustainOnAt(0) }
func (in *Input) SustainOff()                    { in.SustainOffAt(0) }
func (in *Input) AllNotesOff()                   { in.AllNotesOffAt(0) }
func (in *Input) AllSoundOff()                   { in.AllSoundOffAt(0) }
func (in *Input) SetParam(id ParamID, x float32) { in.SetParamAt(0, id, x) }

// The At variants schedule controller messages like NoteOnAt. Messages from one Input
// are applied in order, so offsets should not decrease.
func (in *Input) PitchWheelAt(offset int, x float32) {
	in.events.push(event{kind: eventPitchWheel, offset: offset, value: x})
}

func (in *Input) ModWheelAt(offset int, x float32) {
	in.events.push(event{kind: eventModWheel, offset: offset, value: x})
}

func (in *Input) SustainOnAt(offset int)   { in.events.push(event{kind: eventSustainOn, offset: offset}) }
func (in *Input) SustainOffAt(offset int)  { in.events.push(event{kind: eventSustainOff, offset: offset}) }
func (in *Input) AllNotesOffAt(offset int) { in.events.push(event{kind: eventAllNotesOff, offset: offset}) }
func (in *Input) AllSoundOffAt(offset int) { in.events.push(event{kind: eventAllSoundOff, offset: offset}) }

func (in *Input) SetParamAt(offset int, id ParamID, x float32) {
	in.events.push(event{kind: eventParam, offset: offset, param: id, value: x})
}

// Pending returns the number of events not yet consumed by the engine.
func (in *Input) Pending() int { return in.events.len() }

// VoiceStatus is a snapshot of one voice for display.
type VoiceStatus struct {
	Note   int
	Gated  bool
	Active bool
	Level  float32
}

type voiceStatus struct {
	note  atomic.Int32
	flags atomic.Uint32
	level atomic.Uint32
}

const (
	statusGated = 1 << iota
	statusActive
)

func (e *Engine) publishStatus() {
	for i := range e.mb.voices {
		v := &e.mb.voices[i]
		var flags uint32
		if v.gated {
			flags |= statusGated
		}
		if v.ampEnv.IsActive() {
			flags |= statusActive
		}
		s := &e.status[i]
		s.note.Store(int32(v.note))
		s.flags.Store(flags)
		s.level.Store(math.Float32bits(v.ampEnv.Value()))
	}
}

// Status returns the voice states as of the last processed buffer. Safe to call from any
// goroutine.
func (e *Engine) Status() []VoiceStatus {
	out := make([]VoiceStatus, MaxVoices)
	for i := range e.status {
		s := &e.status[i]
		flags := s.flags.Load()
		out[i] = VoiceStatus{
			Note:   int(s.note.Load()),
			Gated:  flags&statusGated != 0,
			Active: flags&statusActive != 0,
			Level:  math.Float32frombits(s.level.Load()),
		}
	}
	return out
}
