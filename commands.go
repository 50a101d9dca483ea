package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mrdg/polysynth/audio"
	"github.com/mrdg/polysynth/dub"
)

const defaultVelocity = 0.8

var commands = []command{
	{"set", setCommand, 2, 2},
	{"get", getCommand, 1, 1},
	{"on", noteOnCommand, 1, 2},
	{"off", noteOffCommand, 1, 1},
	{"chord", noteOnCommand, 1, 2},
	{"loop", loopCommand, 3, 3},
	{"rhythm", rhythmCommand, 3, 3},
	{"stop", stopCommand, 0, -1},
	{"bpm", bpmCommand, 1, 1},
	{"preset", presetCommand, 1, 1},
	{"presets", presetsCommand, 0, 0},
	{"panic", panicCommand, 0, 0},
	{"status", statusCommand, 0, 0},
	{"params", paramsCommand, 0, 0},
	{"tune", tuneCommand, 1, 2},
}

func setCommand(env *env, args []dub.Node) (dub.Node, error) {
	var name string
	var v float64
	if err := readArgs(args, &name, &v); err != nil {
		return nil, err
	}
	return nil, env.props.Set(name, v)
}

func getCommand(env *env, args []dub.Node) (dub.Node, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return nil, err
	}
	v, err := env.props.Get(name)
	if err != nil {
		return nil, err
	}
	if f, ok := v.(float64); ok {
		return dub.Float(f), nil
	}
	return dub.String(fmt.Sprint(v)), nil
}

// noteOnCommand starts a note or a chord, with an optional velocity between 0 and 1.
func noteOnCommand(env *env, args []dub.Node) (dub.Node, error) {
	var notes []int
	vel := defaultVelocity
	var err error
	if len(args) == 1 {
		err = readArgs(args, &notes)
	} else {
		err = readArgs(args, &notes, &vel)
	}
	if err != nil {
		return nil, err
	}
	if vel < 0 || vel > 1 {
		return nil, fmt.Errorf("velocity out of range 0-1: %v", vel)
	}
	for _, n := range notes {
		if err := checkNote(n); err != nil {
			return nil, err
		}
	}
	for _, n := range notes {
		env.synth.NoteOn(n, float32(vel), 0)
	}
	return nil, nil
}

func noteOffCommand(env *env, args []dub.Node) (dub.Node, error) {
	var notes []int
	if err := readArgs(args, &notes); err != nil {
		return nil, err
	}
	for _, n := range notes {
		if err := checkNote(n); err != nil {
			return nil, err
		}
		env.synth.NoteOff(n, 0, 0)
	}
	return nil, nil
}

func checkNote(n int) error {
	if n < 0 || n > 127 {
		return fmt.Errorf("note out of range 0-127: %d", n)
	}
	return nil
}

// loopCommand sets a named loop of length beats, e.g. loop bass 4 [36 [48 36] 0 (36 43)].
func loopCommand(env *env, args []dub.Node) (dub.Node, error) {
	var name string
	var length float64
	var pattern dub.Array
	if err := readArgs(args, &name, &length, &pattern); err != nil {
		return nil, err
	}
	if length <= 0 {
		return nil, fmt.Errorf("loop length must be positive: %v", length)
	}
	clip := audio.NewClip(length, env.seq)
	if err := evalPattern(pattern, clip, length, new(float64)); err != nil {
		return nil, err
	}
	return nil, env.updateClips(func(clips map[string]*audio.Clip) { clips[name] = clip })
}

// rhythmCommand plays a note on the 16th notes of a bar selected by a match expression,
// e.g. rhythm hats 42 '*/2.
func rhythmCommand(env *env, args []dub.Node) (dub.Node, error) {
	var name string
	var note int
	var expr dub.MatchExpr
	if err := readArgs(args, &name, &note, &expr); err != nil {
		return nil, err
	}
	if err := checkNote(note); err != nil {
		return nil, err
	}
	clip, err := rhythmClip(expr, note, env.seq)
	if err != nil {
		return nil, err
	}
	return nil, env.updateClips(func(clips map[string]*audio.Clip) { clips[name] = clip })
}

// stopCommand removes the named loops, or all of them.
func stopCommand(env *env, args []dub.Node) (dub.Node, error) {
	names := make([]string, len(args))
	for i := range args {
		if err := readArgs(args[i:i+1], &names[i]); err != nil {
			return nil, err
		}
	}
	return nil, env.updateClips(func(clips map[string]*audio.Clip) {
		if len(names) == 0 {
			for k := range clips {
				delete(clips, k)
			}
		}
		for _, name := range names {
			delete(clips, name)
		}
	})
}

// updateClips applies f to a copy of the loops so the sequencer never sees a map that
// is being modified.
func (e *env) updateClips(f func(map[string]*audio.Clip)) error {
	v, err := e.props.Get("clips")
	if err != nil {
		return err
	}
	old := v.(map[string]*audio.Clip)
	clips := make(map[string]*audio.Clip, len(old))
	for k, v := range old {
		clips[k] = v
	}
	f(clips)
	return e.props.Set("clips", clips)
}

func bpmCommand(env *env, args []dub.Node) (dub.Node, error) {
	var bpm float64
	if err := readArgs(args, &bpm); err != nil {
		return nil, err
	}
	return nil, env.props.Set("bpm", bpm)
}

func presetCommand(env *env, args []dub.Node) (dub.Node, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return nil, err
	}
	return nil, audio.LoadPreset(name, env.props)
}

func presetsCommand(env *env, args []dub.Node) (dub.Node, error) {
	return dub.String(strings.Join(audio.Presets(), "\n")), nil
}

func panicCommand(env *env, args []dub.Node) (dub.Node, error) {
	env.synth.AllSoundOff()
	return nil, nil
}

func statusCommand(env *env, args []dub.Node) (dub.Node, error) {
	renderStatus(env.engine.Status(), env.out)
	return nil, nil
}

func paramsCommand(env *env, args []dub.Node) (dub.Node, error) {
	names := audio.ParamNames()
	sort.Strings(names)
	var b strings.Builder
	for i, name := range names {
		v, err := env.props.Get(name)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-16s %.3f", name, v)
	}
	return dub.String(b.String()), nil
}

// tuneCommand detunes a key by cents, or restores equal temperament with tune reset.
func tuneCommand(env *env, args []dub.Node) (dub.Node, error) {
	if len(args) == 1 {
		var s string
		if err := readArgs(args, &s); err != nil || s != "reset" {
			return nil, fmt.Errorf("usage: tune reset | tune <key> <cents>")
		}
		env.tuning.Reset()
		return nil, nil
	}
	var key int
	var cents float64
	if err := readArgs(args, &key, &cents); err != nil {
		return nil, err
	}
	return nil, env.tuning.SetCents(key, cents)
}
