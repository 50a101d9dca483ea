package audio

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/mjibson/go-dsp/fft"
)

func TestBlepTableEnds(t *testing.T) {
	for _, rate := range []blepRate{rateNormal, rateDecimated} {
		tab := &blepTables[rate]
		last := blepTableLen - 1
		for _, v := range []float32{tab.step[0], tab.step[last], tab.ramp[0], tab.ramp[last]} {
			if math.Abs(float64(v)) > 1e-3 {
				t.Errorf("rate %v: residual does not vanish at the kernel edges: %v", rate, v)
			}
		}
		// the step residual is +-0.5 right at the discontinuity
		mid := blepSamples * blepOversampling
		if want, got := 0.5, float64(tab.step[mid]); math.Abs(want-got) > 1e-3 {
			t.Errorf("rate %v: want %v at the discontinuity, got %v", rate, want, got)
		}
	}
}

// aliasPower sums the spectrum below a quarter of the sample rate, leaving out the bins
// around harmonics of the fundamental bin.
func aliasPower(signal []float64, fundamental int) float64 {
	n := len(signal)
	windowed := make([]float64, n)
	for i, x := range signal {
		windowed[i] = x * (0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n)))
	}
	spectrum := fft.FFTReal(windowed)
	var power float64
	for k := 0; k < n/4; k++ {
		d := k % fundamental
		if d <= 2 || d >= fundamental-2 {
			continue
		}
		power += math.Pow(cmplx.Abs(spectrum[k]), 2)
	}
	return power
}

func TestSawAliasing(t *testing.T) {
	const (
		n   = 8192
		bin = 229 // the fundamental sits exactly on a bin, around 1.2kHz at 44.1kHz
	)
	delta := float32(bin) / n

	saw := newSawOsc()
	var x float32
	blep := make([]float64, n)
	naive := make([]float64, n)
	// settle the delay line first
	for i := 0; i < n+blepTaps; i++ {
		x += delta
		saw.processLeader(x, delta)
		if x >= 1 {
			x -= 1
		}
		v := saw.value(x) + saw.aliasReduction()
		if i >= blepTaps {
			blep[i-blepTaps] = float64(v)
			naive[i-blepTaps] = float64(x - 0.5)
		}
	}

	a, b := aliasPower(blep, bin), aliasPower(naive, bin)
	if a >= b/10 {
		t.Errorf("band limited saw aliases too much: %v, naive %v", a, b)
	}
}

func TestTriangleIsContinuous(t *testing.T) {
	tri := newTriangleOsc()
	const delta = 0.013
	var x, prev float32
	for i := 0; i < 2000; i++ {
		x += delta
		tri.processLeader(x, delta)
		if x >= 1 {
			x -= 1
		}
		v := tri.value(x) + tri.aliasReduction()
		if i > blepTaps && math.Abs(float64(v-prev)) > 4*delta {
			t.Fatalf("sample %d jumps from %v to %v", i, prev, v)
		}
		prev = v
	}
}

func TestPulseHasNoDC(t *testing.T) {
	p := newPulseOsc()
	const (
		delta = 0.01
		pw    = 0.3
	)
	var x float32
	var sum float64
	const n = 10000 // 100 full cycles
	for i := 0; i < n+blepSamples; i++ {
		x += delta
		p.processLeader(x, delta, pw, pw)
		if x >= 1 {
			x -= 1
		}
		v := p.value(x, pw) + p.aliasReduction()
		if i >= blepSamples {
			sum += float64(v)
		}
	}
	if mean := sum / n; math.Abs(mean) > 0.01 {
		t.Errorf("pulse wave has a DC offset of %v", mean)
	}
}
