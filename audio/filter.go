package audio

import "github.com/chewxy/math32"

// Filter is a zero delay feedback state variable filter (2-pole) and transistor ladder
// (4-pole) pair sharing one set of states. Feedback nonlinearities are resolved
// analytically, so nothing is iterated per sample.
type Filter struct {
	s1, s2, s3, s4 float32

	r   float32 // 2-pole damping, 1-resonance
	r24 float32 // 4-pole feedback

	rcor, rcorInv     float32
	rcor24, rcor24Inv float32

	multimode float32
	mmch      int
	mmt       float32
	bandpass  bool
	push      bool

	sampleRate, sampleRateInv float32
}

func NewFilter() Filter {
	f := Filter{r: 1}
	f.SetSampleRate(44100)
	return f
}

func (f *Filter) SetSampleRate(sr float32) {
	f.sampleRate = sr
	f.sampleRateInv = 1 / sr
	rcrate := math32.Sqrt(44000 / sr)
	f.rcor = 500.0 / 44000 * rcrate
	f.rcor24 = 970.0 / 44000 * rcrate
	f.rcorInv = 1 / f.rcor
	f.rcor24Inv = 1 / f.rcor24
}

func (f *Filter) SetResonance(res float32) {
	f.r = 1 - res
	f.r24 = 3.5 * res
}

func (f *Filter) SetMultimode(m float32) {
	f.multimode = m
	f.mmch = int(m * 3)
	f.mmt = m*3 - float32(f.mmch)
}

func (f *Filter) Reset() {
	f.s1, f.s2, f.s3, f.s4 = 0, 0, 0, 0
}

// diodePairResistanceApprox is a polynomial fit of the resistance of a diode pair.
func diodePairResistanceApprox(x float32) float32 {
	return (((0.0103592*x+0.00920833)*x+0.185)*x+0.05)*x + 1
}

// resolveFeedback2Pole solves the implicit feedback equation of the state variable
// filter with the damping linearized at the current state.
func (f *Filter) resolveFeedback2Pole(in, g float32) float32 {
	push := float32(-1)
	if f.push {
		push = -1.035
	}
	tCfb := diodePairResistanceApprox(f.s1*0.0876) + push
	d := f.r + tCfb
	return (in - 2*f.s1*d - g*f.s1 - f.s2) / (1 + g*(2*d+g))
}

func (f *Filter) apply2Pole(in, cutoff float32) float32 {
	g := math32.Tan(cutoff * f.sampleRateInv * pi)
	v := f.resolveFeedback2Pole(in, g)
	y1 := v*g + f.s1
	f.s1 = v*g + y1
	y2 := y1*g + f.s2
	f.s2 = y1*g + y2

	mm := f.multimode
	if !f.bandpass {
		return (1-mm)*y2 + mm*v
	}
	if mm < 0.5 {
		return 2 * ((0.5-mm)*y2 + mm*y1)
	}
	return 2 * ((1-mm)*y1 + (mm-0.5)*v)
}

// resolveFeedback4Pole returns the ladder input that satisfies the feedback loop.
func (f *Filter) resolveFeedback4Pole(in, g, lpc, k float32) float32 {
	ml := 1 / (1 + g)
	s := (lpc*(lpc*(lpc*f.s1+f.s2)+f.s3) + f.s4) * ml
	gg := lpc * lpc * lpc * lpc
	return (in - k*s) / (1 + k*gg)
}

func (f *Filter) apply4Pole(in, cutoff float32) float32 {
	g := math32.Tan(cutoff * f.sampleRateInv * pi)
	lpc := g / (1 + g)
	k := f.r24
	if f.push {
		k *= 1.2
	}
	y0 := f.resolveFeedback4Pole(in, g, lpc, k)

	// first stage saturates
	v := (y0 - f.s1) * lpc
	y1 := v + f.s1
	f.s1 = y1 + v
	f.s1 = math32.Atan(f.s1*f.rcor24) * f.rcor24Inv

	y2 := tptpc(&f.s2, y1, g)
	y3 := tptpc(&f.s3, y2, g)
	y4 := tptpc(&f.s4, y3, g)

	var out float32
	switch f.mmch {
	case 0:
		out = (1-f.mmt)*y4 + f.mmt*y3
	case 1:
		out = (1-f.mmt)*y3 + f.mmt*y2
	case 2:
		out = (1-f.mmt)*y2 + f.mmt*y1
	default:
		out = y1
	}
	return out * (1 + k*0.45)
}
