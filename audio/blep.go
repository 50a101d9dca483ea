package audio

import "math"

const (
	blepOversampling = 64 // table entries per sample
	blepSamples      = 4  // half width of a correction kernel, also the oscillator latency
	blepTaps         = 2 * blepSamples
	blepTableLen     = blepTaps*blepOversampling + 1
)

// blepRate selects the correction tables. Decimated tables are band limited to half the
// running sample rate and are used when the engine is oversampled 2x.
type blepRate int

const (
	rateNormal blepRate = iota
	rateDecimated
)

// blepTable holds residuals of a band limited step and ramp. step is stored mirrored around
// the discontinuity so that it stays continuous: for t < 0 it is S(t), for t >= 0 it is
// 1-S(t), with S the integrated windowed sinc. ramp is the integral of the signed step
// residual S(t)-H(t), in samples.
type blepTable struct {
	step [blepTableLen]float32
	ramp [blepTableLen]float32
}

var blepTables [2]blepTable

func init() {
	blepTables[rateNormal] = makeBlepTable(1)
	blepTables[rateDecimated] = makeBlepTable(0.5)
}

// makeBlepTable integrates a Blackman windowed sinc with the given cutoff (relative to
// Nyquist) over blepTaps samples.
func makeBlepTable(cutoff float64) blepTable {
	const (
		sub   = 16 // integration sub steps per table entry
		dt    = 1.0 / (blepOversampling * sub)
		steps = (blepTableLen - 1) * sub
	)
	impulse := func(t float64) float64 {
		w := 0.42 + 0.5*math.Cos(math.Pi*t/blepSamples) + 0.08*math.Cos(2*math.Pi*t/blepSamples)
		x := math.Pi * cutoff * t
		if x == 0 {
			return cutoff * w
		}
		return cutoff * math.Sin(x) / x * w
	}

	integral := make([]float64, blepTableLen)
	var acc float64
	for n := 0; n < steps; n++ {
		t := float64(n)*dt - blepSamples
		acc += 0.5 * (impulse(t) + impulse(t+dt)) * dt
		if (n+1)%sub == 0 {
			integral[(n+1)/sub] = acc
		}
	}

	var tab blepTable
	var ramp float64
	prev := 0.0
	for j := range integral {
		t := float64(j)/blepOversampling - blepSamples
		s := integral[j] / acc
		residual := s
		if t >= 0 {
			residual = s - 1
			tab.step[j] = float32(1 - s)
		} else {
			tab.step[j] = float32(s)
		}
		if j > 0 {
			ramp += 0.5 * (prev + residual) / blepOversampling
		}
		tab.ramp[j] = float32(ramp)
		prev = residual
	}
	return tab
}

// blepBuffer accumulates corrections for the next blepTaps output samples.
type blepBuffer struct {
	buf  [blepTaps]float32
	pos  int
	rate blepRate
}

// tableIndex returns the table position for an impulse injected offset samples ago, and
// the interpolation fraction. Offsets are clamped so lookups stay inside the table.
func tableIndex(offset float32) (int, float32) {
	if !(offset >= 0) {
		offset = 0
	}
	if offset > 1 {
		offset = 1
	}
	pos := offset * blepOversampling
	i := int(pos)
	frac := pos - float32(i)
	return i, frac
}

func safeIndex(i int) int {
	if i > blepTableLen-2 {
		return blepTableLen - 2
	}
	return i
}

// mixStep adds the residual of a step of the given height that happened offset samples
// before the current sample.
func (b *blepBuffer) mixStep(offset, height float32) {
	tab := &blepTables[b.rate].step
	lp, frac := tableIndex(offset)
	for i := 0; i < blepTaps; i++ {
		j := safeIndex(lp + i*blepOversampling)
		v := tab[j]*(1-frac) + tab[j+1]*frac
		if i >= blepSamples {
			v = -v
		}
		b.buf[(b.pos+i)&(blepTaps-1)] += v * height
	}
}

// mixRamp adds the residual of a change in slope (per sample) that happened offset samples
// before the current sample.
func (b *blepBuffer) mixRamp(offset, slope float32) {
	tab := &blepTables[b.rate].ramp
	lp, frac := tableIndex(offset)
	for i := 0; i < blepTaps; i++ {
		j := safeIndex(lp + i*blepOversampling)
		v := tab[j]*(1-frac) + tab[j+1]*frac
		b.buf[(b.pos+i)&(blepTaps-1)] += v * slope
	}
}

// next drains the correction for the current output sample.
func (b *blepBuffer) next() float32 {
	v := b.buf[b.pos]
	b.buf[b.pos] = 0
	b.pos = (b.pos + 1) & (blepTaps - 1)
	return v
}
