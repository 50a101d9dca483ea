package render

import (
	"bytes"
	"io"
	"math"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/mrdg/polysynth/audio"
	"github.com/mrdg/polysynth/control"
	wav "github.com/youpy/go-wav"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func writeSMF(t *testing.T, tracks ...smf.Track) string {
	t.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)
	for _, tr := range tracks {
		tr.Close(0)
		if err := s.Add(tr); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "test.mid")
	if err := s.WriteFile(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	var tempo, notes smf.Track
	tempo.Add(0, smf.MetaTempo(120))
	tempo.Add(960, smf.MetaTempo(60)) // after one second
	notes.Add(480, midi.NoteOn(0, 60, 100))
	notes.Add(960, midi.NoteOff(0, 60))

	events, tempos, err := Load(writeSMF(t, tempo, notes))
	if err != nil {
		t.Fatal(err)
	}
	if want, got := []Tempo{{0, 120}, {1, 60}}, tempos; !reflect.DeepEqual(want, got) {
		t.Errorf("want tempo map %v, got %v", want, got)
	}
	if want, got := 2, len(events); want != got {
		t.Fatalf("want %d events, got %d: %v", want, got, events)
	}
	// a quarter note at 120bpm, then another at 120bpm and one at 60bpm
	for i, want := range []float64{0.5, 2} {
		if got := events[i].Time; math.Abs(got-want) > 1e-9 {
			t.Errorf("event %d: want time %v, got %v", i, want, got)
		}
	}
	var ch, key, vel uint8
	if !events[0].Msg.GetNoteStart(&ch, &key, &vel) || key != 60 {
		t.Errorf("want note on 60, got %v", events[0].Msg)
	}
}

func TestPlayHead(t *testing.T) {
	tempos := []Tempo{{0, 120}, {1, 60}}
	tests := []struct {
		t        float64
		bpm, ppq float64
	}{
		{0, 120, 0},
		{0.5, 120, 1},
		{1, 60, 2},
		{2, 60, 3},
	}
	for _, tt := range tests {
		bpm, ppq := playHead(tempos, tt.t)
		if bpm != tt.bpm || math.Abs(ppq-tt.ppq) > 1e-9 {
			t.Errorf("at %vs: want %v bpm at %v, got %v bpm at %v", tt.t, tt.bpm, tt.ppq, bpm, ppq)
		}
	}
}

func TestRender(t *testing.T) {
	const sr = 22050
	e := audio.NewEngine(sr, 1)
	events := []Event{
		{Time: 0.1, Msg: midi.NoteOn(0, 57, 127)},
		{Time: 0.5, Msg: midi.NoteOff(0, 57)},
	}
	out, err := Render(e, events, []Tempo{{0, 120}}, Options{Tail: 500 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 2*(sr+1), len(out); want != got {
		t.Fatalf("want %d samples, got %d", want, got)
	}

	// events are applied at the start of the engine's 16 sample block
	start := int(0.1*sr) - 16
	for i := 0; i < start*2; i++ {
		if out[i] != 0 {
			t.Fatalf("sample %d: want silence before the first note, got %v", i/2, out[i])
		}
	}
	var energy float64
	for _, x := range out[start*2 : sr] {
		energy += float64(x * x)
	}
	if energy == 0 {
		t.Errorf("note did not sound")
	}
	if l, r := out[len(out)-2], out[len(out)-1]; l != 0 || r != 0 {
		t.Errorf("want silence at the end of the tail, got %v %v", l, r)
	}
}

func TestControllerKeepsItsOffset(t *testing.T) {
	const sr = 22050
	e := audio.NewEngine(sr, 1)
	// both land in the first block, the controller after the note
	events := []Event{
		{Time: 10.0 / sr, Msg: midi.NoteOn(0, 57, 127)},
		{Time: 200.0 / sr, Msg: midi.ControlChange(0, control.CCAllSoundOff, 0)},
	}
	out, err := Render(e, events, []Tempo{{0, 120}}, Options{Tail: 10 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	var energy float64
	for _, x := range out[16*2 : 192*2] {
		energy += float64(x * x)
	}
	if energy == 0 {
		t.Errorf("note was silenced before the controller's position")
	}
}

func TestWriteWAV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWAV(&buf, []float32{0.5, -0.5, 1.5, -2}, 48000); err != nil {
		t.Fatal(err)
	}

	r := wav.NewReader(bytes.NewReader(buf.Bytes()))
	format, err := r.Format()
	if err != nil {
		t.Fatal(err)
	}
	if format.NumChannels != 2 || format.SampleRate != 48000 || format.BitsPerSample != 16 {
		t.Errorf("unexpected format: %+v", format)
	}
	var got [][2]int
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		for _, s := range samples {
			got = append(got, s.Values)
		}
	}
	want := [][2]int{{16384, -16384}, {32767, -32767}}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestFile(t *testing.T) {
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 60, 100))
	tr.Add(240, midi.NoteOff(0, 60))
	in := writeSMF(t, tr)
	out := filepath.Join(t.TempDir(), "out.wav")

	e := audio.NewEngine(22050, 1)
	if err := File(e, in, out, Options{Tail: 100 * time.Millisecond}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(filepath.Join(t.TempDir(), "missing.mid")); err == nil {
		t.Errorf("want error for a missing file")
	}
}
