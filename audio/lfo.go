package audio

import (
	"math/rand"

	"github.com/chewxy/math32"
)

// tempo synced rates, in cycles per quarter note
var lfoSyncRatios = [...]float32{1.0 / 8, 1.0 / 4, 1.0 / 3, 1.0 / 2, 1, 3.0 / 2, 2, 3, 4}

const lfoSmoothing = 3000 // Hz

// LFO blends six shapes with three signed knobs. Negative knob values select the first
// shape of a pair and positive values the second: sine/triangle, saw/square and
// sample-and-hold/sample-and-glide.
type LFO struct {
	phase    float32 // [-pi, pi]
	phaseInc float32 // Hz
	freq     float32
	rawRate  float32
	synced   bool
	waves    [3]float32

	held, heldPrev float32
	smooth         float32
	smoothG        float32
	out            float32

	sampleRate, sampleRateInv float32
	rng                       *rand.Rand
}

func NewLFO(seed int64) LFO {
	l := LFO{
		freq:     1,
		phaseInc: 1,
		rng:      rand.New(rand.NewSource(seed)),
	}
	l.SetSampleRate(44100)
	return l
}

func (l *LFO) SetSampleRate(sr float32) {
	l.sampleRate = sr
	l.sampleRateInv = 1 / sr
	// below a quarter of the sample rate the smoother's pole stays positive and it
	// cannot overshoot the raw blend
	l.smoothG = math32.Tan(math32.Min(lfoSmoothing, 0.24*sr) * pi * l.sampleRateInv)
}

// SetFrequency sets the free running rate in Hz.
func (l *LFO) SetFrequency(hz float32) {
	l.freq = hz
	if !l.synced {
		l.phaseInc = hz
	}
}

// SetRawRate keeps the normalized rate knob, which picks the tempo ratio in sync mode.
func (l *LFO) SetRawRate(x float32) {
	l.rawRate = clamp(x, 0, 1)
}

func (l *LFO) syncRatio() float32 {
	return lfoSyncRatios[int(l.rawRate*float32(len(lfoSyncRatios)-1))]
}

func (l *LFO) SetSynced(on bool) {
	l.synced = on
	if !on {
		l.phaseInc = l.freq
	}
}

func (l *LFO) SetWave(i int, knob float32) {
	l.waves[i] = clamp(knob, -1, 1)
}

// HostSync follows the host tempo. With retrigger set, the phase is realigned to the
// position in quarter notes.
func (l *LFO) HostSync(bpm, ppq float32, retrigger bool) {
	if !l.synced {
		return
	}
	ratio := l.syncRatio()
	l.phaseInc = bpm / 60 * ratio
	if retrigger {
		cycles := ppq*ratio + 0.5
		l.phase = (cycles-math32.Floor(cycles))*twoPi - pi
	}
}

func (l *LFO) ResetPhase() {
	l.phase = 0
}

// Update advances the LFO by one sample.
func (l *LFO) Update() {
	l.phase += l.phaseInc * twoPi * l.sampleRateInv
	if l.phase > pi {
		l.phase -= twoPi
		l.heldPrev = l.held
		l.held = l.rng.Float32()*2 - 1
	}
	l.out = tptpc(&l.smooth, l.raw()+dc, l.smoothG)
}

func (l *LFO) Value() float32 { return l.out }

func blend(knob, neg, pos float32) float32 {
	if knob < 0 {
		return -knob * neg
	}
	return knob * pos
}

func (l *LFO) raw() float32 {
	var v float32
	if k := l.waves[0]; k != 0 {
		tri := 1 - 2*math32.Abs(l.phase)/pi
		v += blend(k, math32.Sin(l.phase), tri)
	}
	if k := l.waves[1]; k != 0 {
		square := float32(-1)
		if l.phase > 0 {
			square = 1
		}
		v += blend(k, l.phase/pi, square)
	}
	if k := l.waves[2]; k != 0 {
		t := (l.phase + pi) / twoPi
		glide := l.heldPrev + (l.held-l.heldPrev)*t
		v += blend(k, l.held, glide)
	}
	return v
}
