package audio

import (
	"math/rand"

	"github.com/chewxy/math32"

	"github.com/mrdg/polysynth/tuning"
)

// Tuning maps a MIDI note number to a fractional note number. Implementations must be
// safe to call from the audio thread. Voices start out with tuning.EqualTemperament.
type Tuning interface {
	TunedMidiNote(note int) float64
}

// Velocity is an optional velocity for NoteOn. Voices that are handed back to a held key
// after a steal keep the velocity they were playing with.
type Velocity struct {
	value float32
	set   bool
}

func NewVelocity(v float32) Velocity { return Velocity{value: clamp(v, 0, 1), set: true} }

var KeepVelocity = Velocity{}

const (
	slopPortamento = iota
	slopCutoff
	slopEnvelope
	slopLevel
	slopLFO
	numSlop
)

const (
	modDelay     = 2 * blepSamples // oscillator block latency
	dcBlockFreq  = 12
	minCutoff    = 10
	nyquistGuard = 120
	pushCutoff   = 19000
	pushCutoffHQ = 21000
)

type lfoRouting struct {
	amt1, amt2 float32 // pitch and filter in semitones; pulse width and volume
	osc1, osc2 bool
	filter     bool
	pw1, pw2   bool
	volume     bool
}

// Voice is one note of polyphony. It is never freed: voices are retriggered and released
// by the Motherboard.
type Voice struct {
	note          int
	gated         bool
	sustainHold   bool
	shouldProcess bool
	velocity      float32

	slop [numSlop]float32

	osc    OscillatorBlock
	ampEnv Envelope
	fltEnv Envelope
	filter Filter
	lfo2   LFO
	noise  noise

	fltEnvDelay DelayLine[float32]
	ampEnvDelay DelayLine[float32]
	lfo1Delay   DelayLine[float32]
	lfo2Delay   DelayLine[float32]

	// modulation from the Motherboard, written every sample
	lfo1In    float32
	vibratoIn float32

	routes [2]lfoRouting

	portamento   float32
	cutoff       float32
	keyFollow    float32
	fltEnvAmt    float32
	invertFltEnv bool
	fourPole     bool
	velAmp       float32
	velFlt       float32
	pwEnv        float32
	pwEnvBoth    bool
	pwOfs        float32
	envPitch     float32
	envPitchBoth bool
	bend         float32
	bendUp       float32
	bendDown     float32
	bendOsc2Only bool
	envSlopAmt   float32
	fltSlopAmt   float32
	portaSlopAmt float32
	levelSlopAmt float32
	legato       int
	hq           bool

	brightness float32
	brightCoef float32
	hpState    float32
	lpState    float32
	portaState float32

	tuning        Tuning
	sampleRate    float32
	sampleRateInv float32
}

func newVoice(seed int64) Voice {
	rng := rand.New(rand.NewSource(seed))
	v := Voice{
		osc:         newOscillatorBlock(seed + 100),
		ampEnv:      NewEnvelope(),
		fltEnv:      NewEnvelope(),
		filter:      NewFilter(),
		lfo2:        NewLFO(seed + 200),
		noise:       newNoise(seed + 300),
		fltEnvDelay: NewDelayLine[float32](modDelay),
		ampEnvDelay: NewDelayLine[float32](modDelay),
		lfo1Delay:   NewDelayLine[float32](modDelay),
		lfo2Delay:   NewDelayLine[float32](modDelay),
		portamento:  1000,
		cutoff:      120,
		brightness:  26000,
		bendUp:      2,
		bendDown:    2,
		velocity:    1,
		tuning:      tuning.EqualTemperament{},
	}
	for i := range v.slop {
		v.slop[i] = rng.Float32() - 0.5
	}
	v.SetSampleRate(44100)
	return v
}

func (v *Voice) SetSampleRate(sr float32) {
	v.sampleRate = sr
	v.sampleRateInv = 1 / sr
	v.osc.SetSampleRate(sr)
	v.ampEnv.SetSampleRate(sr)
	v.fltEnv.SetSampleRate(sr)
	v.filter.SetSampleRate(sr)
	v.lfo2.SetSampleRate(sr)
	v.SetBrightness(v.brightness)
}

// SetHQ switches the oscillators to the tables for 2x oversampled operation.
func (v *Voice) SetHQ(on bool) {
	v.hq = on
	v.osc.setDecimation(on)
}

func (v *Voice) SetBrightness(hz float32) {
	v.brightness = hz
	v.brightCoef = math32.Tan(math32.Min(hz, v.sampleRate*0.5-10) * v.sampleRateInv * pi)
}

// SetEnvelopeSlop scales the envelope times of this voice by its own random offset.
func (v *Voice) SetEnvelopeSlop(amt float32) {
	v.envSlopAmt = amt
	m := 1 + v.slop[slopEnvelope]*amt
	v.ampEnv.SetUniqueOffset(m)
	v.fltEnv.SetUniqueOffset(m)
}

func (v *Voice) SetTuning(t Tuning) { v.tuning = t }

func (v *Voice) Note() int { return v.note }

// Active reports whether the voice is gated by a held key.
func (v *Voice) Active() bool { return v.gated }

func (v *Voice) NoteOn(note int, vel Velocity) {
	if !v.ampEnv.IsActive() {
		// starting from silence, drop modulation left over from the previous note
		v.fltEnvDelay.Fill(0)
		v.ampEnvDelay.Fill(0)
		v.ResetEnvelopes()
	}
	v.shouldProcess = true
	if vel.set {
		v.velocity = vel.value
	}
	v.note = note
	if !v.gated || v.legato&1 != 0 {
		v.ampEnv.TriggerAttack()
	}
	if !v.gated || v.legato&2 != 0 {
		v.fltEnv.TriggerAttack()
	}
	v.gated = true
	v.lfo2.ResetPhase()
}

func (v *Voice) NoteOff() {
	if !v.sustainHold {
		v.ampEnv.TriggerRelease()
		v.fltEnv.TriggerRelease()
	}
	v.gated = false
}

func (v *Voice) SustainOn() { v.sustainHold = true }

func (v *Voice) SustainOff() {
	v.sustainHold = false
	if !v.gated {
		v.ampEnv.TriggerRelease()
		v.fltEnv.TriggerRelease()
	}
}

func (v *Voice) ResetEnvelopes() {
	v.ampEnv.Reset()
	v.fltEnv.Reset()
}

// checkADSRState refreshes the economy flag: a voice whose amplitude envelope has finished
// can be skipped.
func (v *Voice) checkADSRState() {
	v.shouldProcess = v.ampEnv.IsActive()
}

func (v *Voice) lfoSum(lfo1, lfo2 float32, pick func(r *lfoRouting) bool, amt func(r *lfoRouting) float32) float32 {
	var sum float32
	if r := &v.routes[0]; pick(r) {
		sum += lfo1 * amt(r)
	}
	if r := &v.routes[1]; pick(r) {
		sum += lfo2 * amt(r)
	}
	return sum
}

func amt1(r *lfoRouting) float32 { return r.amt1 }
func amt2(r *lfoRouting) float32 { return r.amt2 }

func routeOsc1(r *lfoRouting) bool   { return r.osc1 }
func routeOsc2(r *lfoRouting) bool   { return r.osc2 }
func routeFilter(r *lfoRouting) bool { return r.filter }
func routePW1(r *lfoRouting) bool    { return r.pw1 }
func routePW2(r *lfoRouting) bool    { return r.pw2 }
func routeVolume(r *lfoRouting) bool { return r.volume }

func (v *Voice) ProcessSample() float32 {
	tuned := float32(v.tuning.TunedMidiNote(v.note)) - 69
	portaRate := v.portamento * (1 + v.slop[slopPortamento]*v.portaSlopAmt)
	note := tptlpupw(&v.portaState, tuned, portaRate, v.sampleRateInv)
	v.osc.notePlaying = note

	v.lfo2.Update()
	lfo1, lfo2 := v.lfo1In, v.lfo2.Value()
	lfo1d := v.lfo1Delay.FeedReturn(lfo1)
	lfo2d := v.lfo2Delay.FeedReturn(lfo2)

	envm := v.fltEnv.ProcessSample() * (1 - (1-v.velocity)*v.velFlt)
	if v.invertFltEnv {
		envm = -envm
	}
	envd := v.fltEnvDelay.FeedReturn(envm)

	// the filter runs after the oscillators, so it sees delayed modulation
	index := v.cutoff + v.slop[slopCutoff]*v.fltSlopAmt + v.fltEnvAmt*envd - 45 + v.keyFollow*(note+28)
	index += v.lfoSum(lfo1d, lfo2d, routeFilter, amt1)
	cutoff := pitchToFreq(index) + v.noise.white()*3.5
	cutoff = math32.Min(cutoff, v.sampleRate*0.5-nyquistGuard)
	if v.filter.push {
		if v.hq {
			cutoff = math32.Min(cutoff, pushCutoffHQ)
		} else {
			cutoff = math32.Min(cutoff, pushCutoff)
		}
	}
	cutoff = math32.Max(cutoff, minCutoff)

	v.osc.pw1 = v.lfoSum(lfo1, lfo2, routePW1, amt2)
	v.osc.pw2 = v.lfoSum(lfo1, lfo2, routePW2, amt2) + v.pwEnv*envm + v.pwOfs
	if v.pwEnvBoth {
		v.osc.pw1 += v.pwEnv * envm
	}

	bend := v.bend * v.bendDown
	if v.bend > 0 {
		bend = v.bend * v.bendUp
	}
	v.osc.pto1 = v.lfoSum(lfo1, lfo2, routeOsc1, amt1) + v.vibratoIn
	if !v.bendOsc2Only {
		v.osc.pto1 += bend
	}
	if v.envPitchBoth {
		v.osc.pto1 += v.envPitch * envm
	}
	v.osc.pto2 = v.lfoSum(lfo1, lfo2, routeOsc2, amt1) + v.vibratoIn + bend + v.envPitch*envm

	amp := v.ampEnvDelay.FeedReturn(v.ampEnv.ProcessSample() * (1 - (1-v.velocity)*v.velAmp))

	x := v.osc.ProcessSample() * (1 - v.slop[slopLevel]*v.levelSlopAmt)
	x -= tptlpupw(&v.hpState, x, dcBlockFreq, v.sampleRateInv)
	x = tptpc(&v.lpState, x, v.brightCoef)
	if v.fourPole {
		x = v.filter.apply4Pole(x, cutoff)
	} else {
		x = v.filter.apply2Pole(x, cutoff)
	}

	// volume modulation never raises the level
	if vol := v.lfoSum(lfo1d, lfo2d, routeVolume, amt2); vol < 0 {
		x *= 1 + vol
	} else {
		x *= 1 - vol*0.5
	}
	return x * amp
}
