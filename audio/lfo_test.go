package audio

import (
	"math"
	"testing"
)

func TestLFOBounded(t *testing.T) {
	l := NewLFO(1)
	l.SetSampleRate(1000)
	l.SetFrequency(7)
	l.SetWave(0, 1)
	l.SetWave(1, 1)
	l.SetWave(2, -1)
	for i := 0; i < 10000; i++ {
		l.Update()
		if v := l.Value(); !finite(v) || math.Abs(float64(v)) > 3 {
			t.Fatalf("sample %d: LFO out of range: %v", i, v)
		}
	}
}

func TestLFOSquareNoOvershoot(t *testing.T) {
	for _, sr := range []float32{1000, 4000, 44100} {
		l := NewLFO(1)
		l.SetSampleRate(sr)
		l.SetFrequency(13)
		l.SetWave(1, 1)
		var peak float64
		for i := 0; i < int(sr)*3; i++ {
			l.Update()
			peak = math.Max(peak, math.Abs(float64(l.Value())))
		}
		if peak > 1+1e-5 {
			t.Errorf("sample rate %v: square peak %v, want at most 1", sr, peak)
		}
		if peak < 0.99 {
			t.Errorf("sample rate %v: square peak %v, want the smoother to settle near 1", sr, peak)
		}
	}
}

func TestLFOFrequency(t *testing.T) {
	l := NewLFO(1)
	l.SetSampleRate(1000)
	l.SetFrequency(1)
	wraps := 0
	for i := 0; i < 10000; i++ {
		prev := l.phase
		l.Update()
		if l.phase < prev {
			wraps++
		}
	}
	if wraps < 9 || wraps > 11 {
		t.Errorf("want about 10 cycles in 10s at 1Hz, got %d", wraps)
	}
}

func TestLFOSyncRatio(t *testing.T) {
	tests := []struct {
		raw  float32
		want float32
	}{
		{0, 1.0 / 8},
		{0.5, 1},
		{1, 4},
	}
	l := NewLFO(1)
	for _, tt := range tests {
		l.SetRawRate(tt.raw)
		if got := l.syncRatio(); got != tt.want {
			t.Errorf("raw rate %v: want ratio %v, got %v", tt.raw, tt.want, got)
		}
	}
}

func TestLFOHostSync(t *testing.T) {
	l := NewLFO(1)
	l.SetRawRate(0.5)

	// free running LFOs ignore the host
	l.HostSync(120, 0.25, true)
	if l.phase != 0 {
		t.Fatalf("unsynced LFO moved to phase %v", l.phase)
	}

	l.SetSynced(true)
	l.HostSync(120, 0.25, true)
	if want, got := float32(2), l.phaseInc; want != got {
		t.Errorf("want rate %v Hz at 120bpm, got %v", want, got)
	}
	if want := math.Pi / 2; math.Abs(float64(l.phase)-want) > 1e-5 {
		t.Errorf("want phase %v, got %v", want, l.phase)
	}

	l.SetSynced(false)
	if want, got := l.freq, l.phaseInc; want != got {
		t.Errorf("want free rate %v restored, got %v", want, got)
	}

	l.ResetPhase()
	if l.phase != 0 {
		t.Errorf("want phase reset, got %v", l.phase)
	}
}
