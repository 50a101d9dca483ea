// Package render plays Standard MIDI Files through the engine without an audio device.
package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"time"

	"github.com/mrdg/polysynth/audio"
	"github.com/mrdg/polysynth/control"
	wav "github.com/youpy/go-wav"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	blockSize     = 256
	bitsPerSample = 16
	defaultBPM    = 120.0
	maxQueued     = 256 // events per input queue before a block is cut short
)

// Event is a MIDI message at an absolute position in seconds.
type Event struct {
	Time float64
	Msg  midi.Message
}

type timedEvent struct {
	ticks uint64
	track int
	msg   smf.Message
}

// Load reads a Standard MIDI File and returns its channel and system exclusive
// messages in playing order, with tempo changes applied. It also returns the tempo map
// as (time, bpm) pairs, always starting at time 0.
func Load(path string) ([]Event, []Tempo, error) {
	s, err := smf.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, nil, fmt.Errorf("%s: SMPTE time code is not supported", path)
	}

	var all []timedEvent
	for i, track := range s.Tracks {
		var abs uint64
		for _, ev := range track {
			abs += uint64(ev.Delta)
			all = append(all, timedEvent{ticks: abs, track: i, msg: ev.Message})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].ticks != all[j].ticks {
			return all[i].ticks < all[j].ticks
		}
		return all[i].track < all[j].track
	})

	resolution := float64(ticks.Resolution())
	tempos := []Tempo{{Time: 0, BPM: defaultBPM}}
	var (
		events   []Event
		bpm      = defaultBPM
		lastTick uint64
		now      float64
	)
	for _, ev := range all {
		now += float64(ev.ticks-lastTick) / resolution * 60 / bpm
		lastTick = ev.ticks

		var tempo float64
		if ev.msg.GetMetaTempo(&tempo) && tempo > 0 {
			bpm = tempo
			if now == 0 {
				tempos[0].BPM = bpm
			} else {
				tempos = append(tempos, Tempo{Time: now, BPM: bpm})
			}
			continue
		}
		if ev.msg.IsMeta() {
			continue
		}
		events = append(events, Event{Time: now, Msg: midi.Message(ev.msg)})
	}
	return events, tempos, nil
}

// Tempo is a tempo change at Time seconds.
type Tempo struct {
	Time float64
	BPM  float64
}

// Options control an offline render.
type Options struct {
	// Tail is rendered after the last event so that releases can finish.
	Tail time.Duration
	// Setup, when set, is called with the dispatcher before rendering, for example to
	// install a tuning table or a different controller map.
	Setup func(d *control.Dispatcher)
}

// Render plays events through e and returns the interleaved stereo output. Events are
// placed with sample accuracy and the tempo map drives tempo synced LFOs.
func Render(e *audio.Engine, events []Event, tempos []Tempo, opts Options) ([]float32, error) {
	sr := float64(e.SampleRate())
	target := &offsetTarget{in: e.NewInput()}
	d := control.NewDispatcher(target)
	if opts.Setup != nil {
		opts.Setup(d)
	}

	var end float64
	if len(events) > 0 {
		end = events[len(events)-1].Time
	}
	total := int(math.Ceil((end+opts.Tail.Seconds())*sr)) + 1

	out := make([]float32, 0, total*2)
	buf := [][]float32{make([]float32, blockSize), make([]float32, blockSize)}
	next := 0
	for pos, n := 0, 0; pos < total; pos += n {
		n = min(blockSize, total-pos)
		for ; next < len(events); next++ {
			at := int(math.Round(events[next].Time * sr))
			if at >= pos+n {
				break
			}
			if target.in.Pending() >= maxQueued {
				// cut the block short so the engine drains the queue
				n = max(at-pos, 1)
				break
			}
			target.offset = max(at-pos, 0)
			if err := d.Dispatch(events[next].Msg); err != nil {
				return nil, err
			}
		}
		bpm, ppq := playHead(tempos, float64(pos)/sr)
		e.SetPlayHead(bpm, ppq, pos == 0)

		block := [][]float32{buf[0][:n], buf[1][:n]}
		e.Process(block)
		for i := 0; i < n; i++ {
			out = append(out, block[0][i], block[1][i])
		}
	}
	return out, nil
}

// playHead returns the tempo and the position in quarter notes at time t.
func playHead(tempos []Tempo, t float64) (bpm, ppq float64) {
	bpm = tempos[0].BPM
	prev := 0.0
	for _, tc := range tempos[1:] {
		if tc.Time > t {
			break
		}
		ppq += (tc.Time - prev) * bpm / 60
		prev, bpm = tc.Time, tc.BPM
	}
	ppq += (t - prev) * bpm / 60
	return bpm, ppq
}

// offsetTarget places every message at a sample offset in the next processed block.
type offsetTarget struct {
	in     *audio.Input
	offset int
}

func (t *offsetTarget) NoteOn(note int, vel float32, ch int)  { t.in.NoteOnAt(t.offset, note, vel) }
func (t *offsetTarget) NoteOff(note int, vel float32, ch int) { t.in.NoteOffAt(t.offset, note) }
func (t *offsetTarget) PitchWheel(x float32)                  { t.in.PitchWheelAt(t.offset, x) }
func (t *offsetTarget) ModWheel(x float32)                    { t.in.ModWheelAt(t.offset, x) }
func (t *offsetTarget) SustainOn()                            { t.in.SustainOnAt(t.offset) }
func (t *offsetTarget) SustainOff()                           { t.in.SustainOffAt(t.offset) }
func (t *offsetTarget) AllNotesOff()                          { t.in.AllNotesOffAt(t.offset) }
func (t *offsetTarget) AllSoundOff()                          { t.in.AllSoundOffAt(t.offset) }
func (t *offsetTarget) SetParam(id audio.ParamID, x float32)  { t.in.SetParamAt(t.offset, id, x) }

// WriteWAV writes interleaved stereo samples as 16 bit PCM.
func WriteWAV(w io.Writer, samples []float32, sampleRate int) error {
	frames := len(samples) / 2
	ww := wav.NewWriter(w, uint32(frames), 2, uint32(sampleRate), bitsPerSample)
	out := make([]wav.Sample, frames)
	for i := range out {
		out[i].Values[0] = toPCM(samples[i*2])
		out[i].Values[1] = toPCM(samples[i*2+1])
	}
	if err := ww.WriteSamples(out); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	return nil
}

func toPCM(x float32) int {
	const scale = 1<<15 - 1
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	return int(math.Round(float64(x) * scale))
}

// File renders the MIDI file at midiPath to a WAV file at wavPath.
func File(e *audio.Engine, midiPath, wavPath string, opts Options) error {
	events, tempos, err := Load(midiPath)
	if err != nil {
		return err
	}
	samples, err := Render(e, events, tempos, opts)
	if err != nil {
		return err
	}
	f, err := os.Create(wavPath)
	if err != nil {
		return err
	}
	if err := WriteWAV(f, samples, int(e.SampleRate())); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
