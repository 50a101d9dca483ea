package audio

import (
	"math"

	"github.com/chewxy/math32"
)

const (
	pi    = math.Pi
	twoPi = 2 * math.Pi

	// ln(2)/12, one semitone in the exponent of the pitch law.
	semitone = 0.057762265046662105

	// added to recursive filters and envelopes to keep values out of the denormal range
	dc = 1e-18
)

// pitchToFreq maps a semitone index relative to A4 (index 0 = 440Hz) to a frequency.
func pitchToFreq(index float32) float32 {
	return 440 * math32.Exp(semitone*index)
}

func linsc(x, min, max float32) float32 {
	return min + x*(max-min)
}

// logsc maps x in [0, 1] onto [min, max] along an exponential curve. A larger rolloff
// moves the midpoint of the knob closer to min.
func logsc(x, min, max, rolloff float32) float32 {
	return (math32.Exp(x*math32.Log(rolloff+1))-1)/rolloff*(max-min) + min
}

// tptlpupw is a trapezoidal one-pole lowpass without frequency prewarping. Fine for
// cutoffs well below Nyquist.
func tptlpupw(state *float32, in, cutoff, srInv float32) float32 {
	g := cutoff * srInv * pi
	v := (in - *state) * g / (1 + g)
	out := v + *state
	*state = out + v
	return out
}

// tptlp is a trapezoidal one-pole lowpass with the cutoff prewarped through tan.
func tptlp(state *float32, in, cutoff, srInv float32) float32 {
	g := math32.Tan(cutoff * srInv * pi)
	return tptpc(state, in, g)
}

// tptpc is a trapezoidal one-pole lowpass with a precomputed (warped) coefficient.
func tptpc(state *float32, in, g float32) float32 {
	v := (in - *state) * g / (1 + g)
	out := v + *state
	*state = out + v
	return out
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func roundToInt(x float32) int {
	return int(math32.Floor(x + 0.5))
}

func boolParam(x float32) bool {
	return x > 0.5
}
