package audio

import (
	"fmt"
	"sort"
)

type Device interface {
	Set(key string, val interface{}) error
	Get(key string) (interface{}, error)
}

// preset values are normalized parameter values.
type preset map[string]interface{}

var presets = map[string]preset{
	"lame-bass": {
		"osc1.saw":    1.,
		"osc2.saw":    1.,
		"osc2.pitch":  0.25,
		"cutoff":      0.45,
		"resonance":   0.3,
		"fourpole":    1.,
		"flt.env":     0.35,
		"flt.decay":   0.25,
		"flt.sustain": 0.,
		"amp.decay":   0.3,
		"amp.sustain": 0.,
		"polyphony":   0.,
	},
	"brass": {
		"osc1.saw":    1.,
		"osc2.saw":    1.,
		"osc2.detune": 0.3,
		"cutoff":      0.5,
		"flt.env":     0.3,
		"flt.attack":  0.25,
		"flt.decay":   0.35,
		"flt.sustain": 0.6,
		"amp.attack":  0.2,
		"amp.release": 0.25,
		"vel.flt":     0.5,
	},
	"strings": {
		"osc1.pulse":  1.,
		"osc1.saw":    0.,
		"osc2.saw":    1.,
		"pw":          0.3,
		"lfo1.pw1":    1.,
		"lfo1.amt2":   0.4,
		"lfo1.rate":   0.15,
		"osc2.detune": 0.4,
		"cutoff":      0.7,
		"amp.attack":  0.45,
		"amp.release": 0.45,
		"brightness":  0.6,
	},
	"pluck": {
		"osc1.saw":    0.,
		"osc1.pulse":  0.,
		"osc2.mix":    0.,
		"cutoff":      0.35,
		"flt.env":     0.5,
		"flt.decay":   0.2,
		"flt.sustain": 0.,
		"amp.decay":   0.35,
		"amp.sustain": 0.,
		"amp.release": 0.3,
		"vel.amp":     0.7,
	},
	"sync-lead": {
		"sync":       1.,
		"osc2.pitch": 0.7,
		"env.pitch":  0.4,
		"osc1.mix":   0.,
		"cutoff":     0.8,
		"unison":     1.,
		"detune":     0.5,
		"polyphony":  0.25,
		"portamento": 0.3,
		"flt.decay":  0.3,
	},
}

// Presets returns the names of the built-in presets.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func LoadPreset(name string, d Device) error {
	p, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown preset: %v", name)
	}
	for k, v := range p {
		if err := d.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}
