package audio

import "testing"

func TestEnvelopeSegments(t *testing.T) {
	env := NewEnvelope()
	env.SetSampleRate(48000)
	env.SetAttack(10)
	env.SetDecay(50)
	env.SetSustain(0.5)
	env.SetRelease(100)
	env.TriggerAttack()

	var prev float32
	peak := false
	for i := 0; i < 48000/10; i++ {
		v := env.ProcessSample()
		if !peak {
			if v < prev {
				peak = true
			}
		} else if v > prev {
			t.Fatalf("sample %d: envelope rises after the peak: %v > %v", i, v, prev)
		}
		if v > atkClamp {
			t.Fatalf("sample %d: envelope exceeds %v: %v", i, atkClamp, v)
		}
		prev = v
	}
	if want, got := stateSustain, env.state; want != got {
		t.Fatalf("want state %v after 100ms, got %v", want, got)
	}
	if want, got := float32(0.5), env.Value(); want != got {
		t.Errorf("want sustain level %v, got %v", want, got)
	}

	env.TriggerRelease()
	for i := 0; i < 48000; i++ {
		v := env.ProcessSample()
		if v > prev {
			t.Fatalf("sample %d: release rises: %v > %v", i, v, prev)
		}
		prev = v
	}
	if env.IsActive() {
		t.Errorf("envelope still active one second after a 100ms release")
	}
	if want, got := float32(0), env.Value(); want != got {
		t.Errorf("want silent envelope, got %v", got)
	}
}

func TestEnvelopeAttackTime(t *testing.T) {
	env := NewEnvelope()
	env.SetSampleRate(44100)
	env.SetAttack(100)
	env.TriggerAttack()

	n := 0
	for env.state == stateAttack {
		env.ProcessSample()
		n++
	}
	// the attack ends when the value crosses 1-atkValueEnd, about the attack time
	if n < 4300 || n > 4500 {
		t.Errorf("want attack of about 4410 samples, got %d", n)
	}
}

func TestEnvelopeSustainCap(t *testing.T) {
	env := NewEnvelope()
	env.SetSustain(1)
	env.TriggerAttack()
	for i := 0; i < 10000; i++ {
		env.ProcessSample()
	}
	if want, got := float32(sustainCap), env.Value(); want != got {
		t.Errorf("want sustain capped at %v, got %v", want, got)
	}
}

func TestEnvelopeRetimeRelease(t *testing.T) {
	env := NewEnvelope()
	env.SetSampleRate(44100)
	env.SetRelease(10000)
	env.TriggerAttack()
	for i := 0; i < 2000; i++ {
		env.ProcessSample()
	}
	env.TriggerRelease()
	env.ProcessSample()
	slow := env.coef

	// shortening the release applies to the running segment
	env.SetRelease(10)
	if env.coef >= slow {
		t.Errorf("release coefficient not updated: %v, was %v", env.coef, slow)
	}
	for i := 0; i < 44100/10; i++ {
		env.ProcessSample()
	}
	if env.IsActive() {
		t.Errorf("want silent envelope after shortened release, got %v", env.Value())
	}
}

func TestEnvelopeReset(t *testing.T) {
	env := NewEnvelope()
	env.TriggerAttack()
	env.ProcessSample()
	env.Reset()
	if env.IsActive() || env.Value() != 0 {
		t.Errorf("want silent envelope after reset, got state %v value %v", env.state, env.Value())
	}
}
