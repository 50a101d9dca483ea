package audio

import "math/rand"

type NoiseColor int

const (
	NoiseWhite NoiseColor = iota
	NoisePink
	NoiseRed
)

func (c NoiseColor) String() string {
	switch c {
	case NoisePink:
		return "pink"
	case NoiseRed:
		return "red"
	default:
		return "white"
	}
}

// noise produces white, pink or red noise in roughly [-0.5, 0.5]. Pink uses Paul Kellet's
// filter bank, red a leaky integrator.
type noise struct {
	rng  *rand.Rand
	pink [7]float32
	red  float32
}

func newNoise(seed int64) noise {
	return noise{rng: rand.New(rand.NewSource(seed))}
}

func (n *noise) white() float32 {
	return n.rng.Float32() - 0.5
}

func (n *noise) next(color NoiseColor) float32 {
	w := n.white()
	switch color {
	case NoisePink:
		p := &n.pink
		p[0] = 0.99886*p[0] + w*0.0555179
		p[1] = 0.99332*p[1] + w*0.0750759
		p[2] = 0.96900*p[2] + w*0.1538520
		p[3] = 0.86650*p[3] + w*0.3104856
		p[4] = 0.55000*p[4] + w*0.5329522
		p[5] = -0.7616*p[5] - w*0.0168980
		out := p[0] + p[1] + p[2] + p[3] + p[4] + p[5] + p[6] + w*0.5362
		p[6] = w * 0.115926
		return out * 0.22
	case NoiseRed:
		n.red = (n.red+0.02*w)/1.02 + dc
		return n.red * 3.5
	default:
		return w
	}
}
