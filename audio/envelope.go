package audio

import "github.com/chewxy/math32"

type envelopeState int

const (
	stateAttack envelopeState = iota + 1
	stateDecay
	stateSustain
	stateRelease
	stateSilent
)

const (
	atkTarget      = 1.3  // attack aims past full scale, like a charging capacitor
	atkValueEnd    = 0.1  // attack ends at 1-atkValueEnd
	atkClamp       = 0.99 // peak value handed to decay
	sustainCap     = 0.9
	decayEpsilon   = 1e-5
	releaseFloor   = 2e-5
	releaseTarget  = 1e-5
	minSegmentSize = 1
)

// Envelope is an exponential ADSR. Times are in milliseconds, sustain is a level in
// [0, 1]. Changing the time of the running segment takes effect on the next sample.
type Envelope struct {
	attack, decay, sustain, release float32
	uniqueOffset                    float32

	value      float32
	coef       float32
	state      envelopeState
	sampleRate float32
}

func NewEnvelope() Envelope {
	return Envelope{
		attack:       4,
		decay:        4,
		sustain:      1,
		release:      8,
		uniqueOffset: 1,
		state:        stateSilent,
		sampleRate:   44100,
	}
}

func (e *Envelope) samples(ms float32) float32 {
	return math32.Max(e.sampleRate*ms*e.uniqueOffset*0.001, minSegmentSize)
}

func (e *Envelope) attackCoef() float32 {
	c := (math32.Log(atkTarget-1+atkValueEnd) - math32.Log(atkTarget)) / e.samples(e.attack)
	return math32.Max(c, -1)
}

func (e *Envelope) decayCoef() float32 {
	c := math32.Log(math32.Min(e.sustain+1e-4, atkClamp)) / e.samples(e.decay)
	return math32.Max(c, -1)
}

func (e *Envelope) releaseCoef() float32 {
	c := (math32.Log(releaseTarget) - math32.Log(e.value+1e-4)) / e.samples(e.release)
	return math32.Max(c, -1)
}

func (e *Envelope) recalculate() {
	switch e.state {
	case stateAttack:
		e.coef = e.attackCoef()
	case stateDecay:
		e.coef = e.decayCoef()
	case stateRelease:
		e.coef = e.releaseCoef()
	}
}

func (e *Envelope) SetAttack(ms float32) {
	e.attack = ms
	e.recalculate()
}

func (e *Envelope) SetDecay(ms float32) {
	e.decay = ms
	e.recalculate()
}

func (e *Envelope) SetSustain(level float32) {
	e.sustain = level
	e.recalculate()
}

func (e *Envelope) SetRelease(ms float32) {
	e.release = ms
	e.recalculate()
}

// SetUniqueOffset scales all segment times, giving every voice a slightly different feel.
func (e *Envelope) SetUniqueOffset(m float32) {
	e.uniqueOffset = m
	e.recalculate()
}

func (e *Envelope) SetSampleRate(sr float32) {
	e.sampleRate = sr
	e.recalculate()
}

// TriggerAttack starts the attack from the current value, so retriggering a sounding
// envelope does not click.
func (e *Envelope) TriggerAttack() {
	e.state = stateAttack
	e.coef = e.attackCoef()
}

func (e *Envelope) TriggerRelease() {
	e.state = stateRelease
	e.coef = e.releaseCoef()
}

func (e *Envelope) Reset() {
	e.state = stateSilent
	e.value = 0
}

func (e *Envelope) IsActive() bool { return e.state != stateSilent }

func (e *Envelope) Value() float32 { return e.value }

func (e *Envelope) ProcessSample() float32 {
	switch e.state {
	case stateAttack:
		if e.value > 1-atkValueEnd {
			e.value = math32.Min(e.value, atkClamp)
			e.state = stateDecay
			e.coef = e.decayCoef()
			e.processDecay()
		} else {
			e.value -= (atkTarget - e.value) * e.coef
		}
	case stateDecay:
		e.processDecay()
	case stateSustain:
		e.value = math32.Min(e.sustain, sustainCap)
	case stateRelease:
		if e.value > releaseFloor {
			e.value += e.value*e.coef + dc
		} else {
			e.state = stateSilent
			e.value = 0
		}
	case stateSilent:
		e.value = 0
	}
	return e.value
}

func (e *Envelope) processDecay() {
	if e.value-e.sustain < decayEpsilon {
		e.state = stateSustain
		return
	}
	e.value = math32.Max(e.value+e.value*e.coef, e.sustain)
}
