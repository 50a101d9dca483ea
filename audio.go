package main

import (
	"fmt"

	"github.com/mrdg/polysynth/audio"
	"github.com/mrdg/polysynth/dub"
)

// transport advances the sequencer once per buffer and tells the engine where the
// buffer starts, so that tempo synced LFOs follow the loops.
type transport struct {
	seq    *audio.Sequencer
	engine *audio.Engine
}

func (t *transport) Tick(numSamples int) {
	bpm, ppq, reset := t.seq.PlayHead()
	t.seq.Tick(numSamples)
	t.engine.SetPlayHead(bpm, ppq, reset)
}

const (
	beatsPerBar = 4
	beatUnit    = 4
	stepSize    = 16 // rhythm steps are 16th notes
)

// evalPattern adds the notes of pattern to clip, dividing divLength beats evenly between
// its items. Nested arrays subdivide their slot, tuples sound together and 0 is a rest.
func evalPattern(pattern dub.Array, clip *audio.Clip, divLength float64, pos *float64) error {
	noteLength := divLength / float64(len(pattern))
	for _, item := range pattern {
		switch v := item.(type) {
		case dub.Int:
			clip.AddNote(*pos, int(v), noteLength)
			*pos += noteLength
		case dub.Tuple:
			for _, item := range v {
				i, ok := item.(dub.Int)
				if !ok {
					return fmt.Errorf("invalid %v in chord %v", item, v)
				}
				clip.AddNote(*pos, int(i), noteLength)
			}
			*pos += noteLength
		case dub.Array:
			if err := evalPattern(v, clip, noteLength, pos); err != nil {
				return err
			}
		default:
			return fmt.Errorf("invalid %v in pattern %v", v, pattern)
		}
	}
	return nil
}

// rhythmClip plays note on every step of a 4/4 bar selected by expr.
func rhythmClip(expr dub.MatchExpr, note int, p audio.Playable) (*audio.Clip, error) {
	steps, err := dub.EvalMatchExpr(expr, beatsPerBar, beatUnit, stepSize)
	if err != nil {
		return nil, err
	}
	stepLength := float64(beatUnit) / stepSize
	clip := audio.NewClip(float64(len(steps))*stepLength, p)
	for i, on := range steps {
		if on != 0 {
			clip.AddNote(float64(i)*stepLength, note, stepLength/2)
		}
	}
	return clip, nil
}
