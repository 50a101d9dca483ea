package audio

import (
	"math/rand"

	"github.com/chewxy/math32"
)

const (
	maxPhaseIncrement = 0.45
	makeupGain        = 3
	pitchDirt         = 0.1 // semitones of per sample pitch noise
)

// OscillatorBlock holds the two oscillators of a voice. Oscillator 1 leads: when it wraps
// with hard sync on, oscillator 2 is reset. Oscillator 2 runs blepSamples behind
// oscillator 1 so that it sees the band limited output of oscillator 1 for cross
// modulation, and oscillator 1 is delayed once more before mixing.
type OscillatorBlock struct {
	// per sample modulation, written by the voice
	notePlaying float32 // semitones relative to A4
	pto1, pto2  float32
	pw1, pw2    float32

	osc1Pitch, osc2Pitch float32
	osc2Detune           float32
	tune, octave         float32
	detune               float32
	xmod                 float32
	pulseWidth           float32
	osc1Mix, osc2Mix     float32
	ringMix, noiseMix    float32
	noiseColor           NoiseColor
	osc1Saw, osc1Pulse   bool
	osc2Saw, osc2Pulse   bool
	hardSync, quantize   bool

	slop1, slop2 float32

	x1, x2           float32
	pw1Prev, pw2Prev float32
	sampleRateInv    float32

	saw1, saw2     sawOsc
	pulse1, pulse2 pulseOsc
	tri1, tri2     triangleOsc

	syncDelay     DelayLine[bool]
	syncFracDelay DelayLine[float32]
	pitchDelay    DelayLine[float32]
	xmodDelay     DelayLine[float32]

	noise noise
	rng   *rand.Rand
}

func newOscillatorBlock(seed int64) OscillatorBlock {
	return OscillatorBlock{
		osc1Saw:       true,
		osc2Saw:       true,
		osc1Mix:       1,
		osc2Mix:       1,
		sampleRateInv: 1.0 / 44100,
		saw1:          newSawOsc(),
		saw2:          newSawOsc(),
		pulse1:        newPulseOsc(),
		pulse2:        newPulseOsc(),
		tri1:          newTriangleOsc(),
		tri2:          newTriangleOsc(),
		syncDelay:     NewDelayLine[bool](blepSamples),
		syncFracDelay: NewDelayLine[float32](blepSamples),
		pitchDelay:    NewDelayLine[float32](blepSamples),
		xmodDelay:     NewDelayLine[float32](blepSamples),
		noise:         newNoise(seed + 1),
		rng:           rand.New(rand.NewSource(seed)),
	}
}

// SetSampleRate also draws the tuning slop of this block. It stays fixed until the next
// sample rate change.
func (b *OscillatorBlock) SetSampleRate(sr float32) {
	b.sampleRateInv = 1 / sr
	b.slop1 = b.rng.Float32()*2 - 1
	b.slop2 = b.rng.Float32()*2 - 1
}

func (b *OscillatorBlock) setDecimation(on bool) {
	for _, o := range []interface {
		setDecimation()
		removeDecimation()
	}{&b.saw1, &b.saw2, &b.pulse1, &b.pulse2, &b.tri1, &b.tri2} {
		if on {
			o.setDecimation()
		} else {
			o.removeDecimation()
		}
	}
}

func (b *OscillatorBlock) phaseIncrement(index float32) float32 {
	return math32.Min(pitchToFreq(index)*b.sampleRateInv, maxPhaseIncrement)
}

func pulseWidth(base, mod float32) float32 {
	return clamp((base+mod)*0.5+0.5, 0.1, 1)
}

func (b *OscillatorBlock) ProcessSample() float32 {
	pto1, pto2 := b.pto1, b.pto2
	if b.quantize {
		pto1 = float32(roundToInt(pto1))
		pto2 = float32(roundToInt(pto2))
	}
	common := b.notePlaying + b.tune + b.octave

	// oscillator 1
	fs1 := b.phaseIncrement(common + b.osc1Pitch + pto1 + b.detune*b.slop1 + b.noise.white()*pitchDirt)
	pw1 := pulseWidth(b.pulseWidth, b.pw1)
	b.x1 += fs1
	if b.osc1Pulse {
		b.pulse1.processLeader(b.x1, fs1, pw1, b.pw1Prev)
	}
	if b.osc1Saw {
		b.saw1.processLeader(b.x1, fs1)
	}
	if !b.osc1Pulse && !b.osc1Saw {
		b.tri1.processLeader(b.x1, fs1)
	}
	var syncFrac float32
	sync := false
	if b.x1 >= 1 {
		b.x1 -= 1
		syncFrac = b.x1 / fs1
		sync = b.hardSync
	}
	sync = b.syncDelay.FeedReturn(sync)
	syncFrac = b.syncFracDelay.FeedReturn(syncFrac)

	var osc1 float32
	if b.osc1Pulse {
		osc1 += b.pulse1.value(b.x1, pw1) + b.pulse1.aliasReduction()
	}
	if b.osc1Saw {
		osc1 += b.saw1.value(b.x1) + b.saw1.aliasReduction()
	}
	if !b.osc1Pulse && !b.osc1Saw {
		osc1 = b.tri1.value(b.x1) + b.tri1.aliasReduction()
	}

	// oscillator 2, one kernel behind and modulated by oscillator 1
	cv2 := b.pitchDelay.FeedReturn(common + b.osc2Pitch + pto2 + b.osc2Detune + b.detune*b.slop2 + b.noise.white()*pitchDirt)
	fs2 := b.phaseIncrement(cv2 + osc1*b.xmod)
	pw2 := pulseWidth(b.pulseWidth, b.pw2)
	b.x2 += fs2
	if b.osc2Pulse {
		b.pulse2.processFollower(b.x2, fs2, pw2, b.pw2Prev, sync, syncFrac)
	}
	if b.osc2Saw {
		b.saw2.processFollower(b.x2, fs2, sync, syncFrac)
	}
	if !b.osc2Pulse && !b.osc2Saw {
		b.tri2.processFollower(b.x2, fs2, sync, syncFrac)
	}
	if b.x2 >= 1 {
		b.x2 -= 1
	}
	if sync {
		b.x2 = fs2 * syncFrac
	}

	var osc2 float32
	if b.osc2Pulse {
		osc2 += b.pulse2.value(b.x2, pw2) + b.pulse2.aliasReduction()
	}
	if b.osc2Saw {
		osc2 += b.saw2.value(b.x2) + b.saw2.aliasReduction()
	}
	if !b.osc2Pulse && !b.osc2Saw {
		osc2 = b.tri2.value(b.x2) + b.tri2.aliasReduction()
	}
	b.pw1Prev, b.pw2Prev = pw1, pw2

	osc1 = b.xmodDelay.FeedReturn(osc1)
	out := osc1*b.osc1Mix + osc2*b.osc2Mix + osc1*osc2*b.ringMix + b.noise.next(b.noiseColor)*b.noiseMix
	return out * makeupGain
}
