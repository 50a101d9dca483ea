package audio

import (
	"math"
	"testing"
)

func TestPitchToFreq(t *testing.T) {
	tests := []struct {
		index float32
		want  float64
	}{
		{0, 440},
		{12, 880},
		{-12, 220},
		{-9, 261.6256},
	}
	for _, tt := range tests {
		if got := float64(pitchToFreq(tt.index)); math.Abs(got-tt.want) > 1e-2 {
			t.Errorf("pitchToFreq(%v): want %v, got %v", tt.index, tt.want, got)
		}
	}
}

func TestScaling(t *testing.T) {
	if want, got := float32(5), linsc(0.5, 0, 10); want != got {
		t.Errorf("linsc: want %v, got %v", want, got)
	}
	for _, x := range []float32{0, 1} {
		want := linsc(x, 4, 60000)
		got := logsc(x, 4, 60000, 900)
		if math.Abs(float64(want-got)) > 0.01*float64(want) {
			t.Errorf("logsc(%v) should hit the end of the range: want %v, got %v", x, want, got)
		}
	}
	if mid := logsc(0.5, 0, 100, 19); mid >= 50 {
		t.Errorf("logsc midpoint should be below the arithmetic mean, got %v", mid)
	}
}

func TestDelayLine(t *testing.T) {
	d := NewDelayLine[float32](4)
	var got []float32
	for i := 1; i <= 6; i++ {
		got = append(got, d.FeedReturn(float32(i)))
	}
	want := []float32{0, 0, 0, 0, 1, 2}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("want %v, got %v", want, got)
		}
	}

	d.Fill(0)
	if v := d.FeedReturn(7); v != 0 {
		t.Errorf("want flushed delay line, got %v", v)
	}

	b := NewDelayLine[bool](2)
	b.FeedReturn(true)
	b.FeedReturn(false)
	if !b.FeedReturn(false) {
		t.Errorf("bool delay lost its value")
	}
}

func TestDelayLineLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic for a length that is not a power of 2")
		}
	}()
	NewDelayLine[float32](3)
}

func TestOnePoleConverges(t *testing.T) {
	var s1, s2 float32
	var y1, y2 float32
	for i := 0; i < 44100; i++ {
		y1 = tptlpupw(&s1, 1, 100, 1.0/44100)
		y2 = tptlp(&s2, 1, 100, 1.0/44100)
	}
	if math.Abs(float64(y1-1)) > 1e-4 || math.Abs(float64(y2-1)) > 1e-4 {
		t.Errorf("one-pole filters should settle at the input, got %v and %v", y1, y2)
	}
}

func TestDecimatorDCGain(t *testing.T) {
	var d Decimator17
	var y float32
	for i := 0; i < 100; i++ {
		y = d.Calc(1, 1)
	}
	if math.Abs(float64(y-1)) > 1e-3 {
		t.Errorf("want unity DC gain, got %v", y)
	}
}

func TestDecimatorRejectsNyquist(t *testing.T) {
	var d Decimator17
	var y float32
	// alternating samples at the oversampled rate are exactly at its Nyquist frequency
	for i := 0; i < 100; i++ {
		y = d.Calc(1, -1)
	}
	if math.Abs(float64(y)) > 1e-3 {
		t.Errorf("want Nyquist rejected, got %v", y)
	}
}

func TestSmoother(t *testing.T) {
	s := NewSmoother(44000)
	s.SetTarget(1)
	first := s.Step()
	if want := float32(smoothingCoef); math.Abs(float64(first-want)) > 1e-6 {
		t.Errorf("want first step %v, got %v", want, first)
	}
	for i := 0; i < 44000; i++ {
		s.Step()
	}
	if math.Abs(float64(s.value-1)) > 1e-4 {
		t.Errorf("smoother did not reach its target: %v", s.value)
	}

	s.Jump(0.25)
	if want, got := float32(0.25), s.Step(); math.Abs(float64(want-got)) > 1e-6 {
		t.Errorf("want %v after jump, got %v", want, got)
	}
}
