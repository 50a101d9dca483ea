package audio

const smoothingCoef = 0.003 // at 44kHz

// Smoother is a one-pole glide toward the last target, used for controls that arrive in
// coarse steps.
type Smoother struct {
	target, value float32
	coef          float32
}

func NewSmoother(sr float32) Smoother {
	s := Smoother{}
	s.SetSampleRate(sr)
	return s
}

func (s *Smoother) SetSampleRate(sr float32) {
	s.coef = smoothingCoef * 44000 / sr
}

func (s *Smoother) SetTarget(x float32) { s.target = x }

// Jump moves the smoother to x without gliding.
func (s *Smoother) Jump(x float32) {
	s.target = x
	s.value = x
}

func (s *Smoother) Step() float32 {
	s.value += (s.target-s.value)*s.coef + dc
	return s.value
}
