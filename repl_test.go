package main

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/mrdg/polysynth/audio"
	"github.com/mrdg/polysynth/dub"
	"github.com/mrdg/polysynth/tuning"
)

func newTestEnv() (*env, *bytes.Buffer) {
	engine := audio.NewEngine(44100, 1)
	props := audio.NewProps()
	synth := audio.Synth(props, engine)
	audio.NewSequencer(props, 44100)
	var out bytes.Buffer
	return &env{
		props:  props,
		synth:  synth,
		seq:    engine.NewInput(),
		engine: engine,
		tuning: tuning.NewTable(),
		out:    &out,
	}, &out
}

func process(e *audio.Engine) {
	e.Process([][]float32{make([]float32, 64), make([]float32, 64)})
}

func gatedNotes(e *audio.Engine) []int {
	var notes []int
	for _, v := range e.Status() {
		if v.Gated {
			notes = append(notes, v.Note)
		}
	}
	return notes
}

func TestEvalSetGet(t *testing.T) {
	env, _ := newTestEnv()
	if _, err := env.eval("set cutoff 0.25"); err != nil {
		t.Fatal(err)
	}
	got, err := env.eval("get cutoff")
	if err != nil {
		t.Fatal(err)
	}
	if want := dub.Float(0.25); want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	process(env.engine)
	if want, got := float32(0.25), env.engine.Param(audio.ParamCutoff); want != got {
		t.Errorf("want engine cutoff %v, got %v", want, got)
	}

	for _, input := range []string{
		"set cutoff 2",
		"set cutoff",
		"set nothing 0.5",
		"get cutoff 1",
		"bogus",
		"set 1 2",
	} {
		if _, err := env.eval(input); err == nil {
			t.Errorf("expected error for input: %q", input)
		}
	}
}

func TestNoteCommands(t *testing.T) {
	env, _ := newTestEnv()
	if _, err := env.eval("chord (60 64 67) 1"); err != nil {
		t.Fatal(err)
	}
	process(env.engine)
	if want, got := 3, len(gatedNotes(env.engine)); want != got {
		t.Fatalf("want %d gated voices, got %d", want, got)
	}
	if _, err := env.eval("off (60 64)"); err != nil {
		t.Fatal(err)
	}
	process(env.engine)
	if want, got := []int{67}, gatedNotes(env.engine); !reflect.DeepEqual(want, got) {
		t.Errorf("want gated %v, got %v", want, got)
	}
	if _, err := env.eval("panic"); err != nil {
		t.Fatal(err)
	}
	process(env.engine)
	if got := gatedNotes(env.engine); len(got) != 0 {
		t.Errorf("want no gated voices after panic, got %v", got)
	}

	for _, input := range []string{
		"on 200",
		"on 60 2",
		"on 60 1 1",
		"chord (60 x)",
		"off",
	} {
		if _, err := env.eval(input); err == nil {
			t.Errorf("expected error for input: %q", input)
		}
	}
}

func clipNames(t *testing.T, env *env) []string {
	t.Helper()
	v, err := env.props.Get("clips")
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for name := range v.(map[string]*audio.Clip) {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func TestLoopCommands(t *testing.T) {
	env, _ := newTestEnv()
	for _, input := range []string{
		"loop bass 4 [36 [48 0] (36 43)]",
		"rhythm hats 42 '*/2",
		"rhythm kick 36 '1,3",
		"bpm 90",
	} {
		if _, err := env.eval(input); err != nil {
			t.Fatalf("%s: %v", input, err)
		}
	}
	if want, got := []string{"bass", "hats", "kick"}, clipNames(t, env); !reflect.DeepEqual(want, got) {
		t.Errorf("want loops %v, got %v", want, got)
	}
	if v, _ := env.props.Get("bpm"); v != 90.0 {
		t.Errorf("want bpm 90, got %v", v)
	}

	env.eval("stop hats kick")
	if want, got := []string{"bass"}, clipNames(t, env); !reflect.DeepEqual(want, got) {
		t.Errorf("want loops %v, got %v", want, got)
	}
	env.eval("stop")
	if got := clipNames(t, env); len(got) != 0 {
		t.Errorf("want no loops, got %v", got)
	}

	for _, input := range []string{
		"loop a 0 [1]",
		"loop a 4 [1 x]",
		"loop a 4 36",
		"rhythm a 36 '*///*",
		"rhythm a 36 [1]",
		"bpm 1000",
	} {
		if _, err := env.eval(input); err == nil {
			t.Errorf("expected error for input: %q", input)
		}
	}
}

type recorder struct {
	ons []string
}

func (r *recorder) NoteOnAt(offset, note int, vel float32) {
	r.ons = append(r.ons, fmt.Sprintf("%d@%d", note, offset))
}

func (r *recorder) NoteOffAt(offset, note int) {}

// playClip runs clip once through a sequencer at 120bpm and 1000 samples per second,
// so a beat is 500 samples.
func playClip(t *testing.T, clip *audio.Clip, beats float64) {
	t.Helper()
	props := audio.NewProps()
	seq := audio.NewSequencer(props, 1000)
	if err := props.Set("clips", map[string]*audio.Clip{"test": clip}); err != nil {
		t.Fatal(err)
	}
	seq.Tick(int(beats * 500))
}

func TestEvalPattern(t *testing.T) {
	rec := &recorder{}
	clip := audio.NewClip(3, rec)
	cmd, err := dub.Parse("loop x 3 [36 [48 50] (36 43)]")
	if err != nil {
		t.Fatal(err)
	}
	if err := evalPattern(cmd.Args[2].(dub.Array), clip, 3, new(float64)); err != nil {
		t.Fatal(err)
	}
	playClip(t, clip, 3)
	want := []string{"36@0", "48@500", "50@750", "36@1000", "43@1000"}
	if !reflect.DeepEqual(want, rec.ons) {
		t.Errorf("want %v, got %v", want, rec.ons)
	}
}

func TestRhythmClip(t *testing.T) {
	rec := &recorder{}
	cmd, err := dub.Parse("rhythm x 38 '2,4")
	if err != nil {
		t.Fatal(err)
	}
	clip, err := rhythmClip(cmd.Args[2].(dub.MatchExpr), 38, rec)
	if err != nil {
		t.Fatal(err)
	}
	playClip(t, clip, 4)
	if want := []string{"38@500", "38@1500"}; !reflect.DeepEqual(want, rec.ons) {
		t.Errorf("want %v, got %v", want, rec.ons)
	}
}

func TestTuneCommand(t *testing.T) {
	env, _ := newTestEnv()
	if _, err := env.eval("tune 61 -10"); err != nil {
		t.Fatal(err)
	}
	if want, got := 60.9, env.tuning.TunedMidiNote(61); math.Abs(want-got) > 1e-9 {
		t.Errorf("want %v, got %v", want, got)
	}
	if _, err := env.eval("tune reset"); err != nil {
		t.Fatal(err)
	}
	if want, got := 61.0, env.tuning.TunedMidiNote(61); want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	for _, input := range []string{"tune", "tune 61", "tune other", "tune 200 0", "tune 61 x"} {
		if _, err := env.eval(input); err == nil {
			t.Errorf("expected error for input: %q", input)
		}
	}
}

func TestPresetCommands(t *testing.T) {
	env, _ := newTestEnv()
	if _, err := env.eval("preset lame-bass"); err != nil {
		t.Fatal(err)
	}
	if v, _ := env.props.Get("fourpole"); v != 1.0 {
		t.Errorf("want fourpole 1, got %v", v)
	}
	if _, err := env.eval("preset nothing"); err == nil {
		t.Errorf("want error for unknown preset")
	}
	list, err := env.eval("presets")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(list.(dub.String)), "lame-bass") {
		t.Errorf("want lame-bass in %q", list)
	}
	params, err := env.eval("params")
	if err != nil {
		t.Fatal(err)
	}
	if want, got := len(audio.ParamNames()), len(strings.Split(string(params.(dub.String)), "\n")); want != got {
		t.Errorf("want %d params, got %d", want, got)
	}
}

func TestScript(t *testing.T) {
	env, out := newTestEnv()
	input := "# set up\nset cutoff 0.5\n\nbogus\nget cutoff\n"
	if err := script(env, strings.NewReader(input)); err != nil {
		t.Fatal(err)
	}
	if want, got := "unknown command: bogus\n0.5\n", out.String(); want != got {
		t.Errorf("want output %q, got %q", want, got)
	}
}

func TestStatus(t *testing.T) {
	env, out := newTestEnv()
	env.eval("on 60")
	process(env.engine)
	if _, err := env.eval("status"); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if want, got := audio.MaxVoices, len(lines); want != got {
		t.Fatalf("want %d lines, got %d", want, got)
	}
	if !strings.Contains(out.String(), "C4") {
		t.Errorf("want a voice playing C4 in\n%s", out.String())
	}
}

func TestNoteName(t *testing.T) {
	tests := []struct {
		note int
		want string
	}{
		{60, "C4 "},
		{61, "C#4"},
		{21, "A0 "},
		{0, "C-1"},
		{128, "---"},
	}
	for _, tt := range tests {
		if got := noteName(tt.note); tt.want != got {
			t.Errorf("note %d: want %q, got %q", tt.note, tt.want, got)
		}
	}
	if want, got := "██████████··········", meter(0.5); want != got {
		t.Errorf("want %q, got %q", want, got)
	}
}
