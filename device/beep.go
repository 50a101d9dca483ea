package device

import (
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Streamer adapts a Graph to beep. It never runs out of samples.
type Streamer struct {
	g     *Graph
	buf   [][]float32
	block [][]float32
}

func NewStreamer(g *Graph, bufferSize int) *Streamer {
	return &Streamer{g: g, buf: planar(bufferSize), block: make([][]float32, 2)}
}

func (s *Streamer) Stream(samples [][2]float64) (int, bool) {
	for done := 0; done < len(samples); {
		n := min(len(samples)-done, len(s.buf[0]))
		block := s.block
		block[0], block[1] = s.buf[0][:n], s.buf[1][:n]
		s.g.Process(block)
		for i := 0; i < n; i++ {
			samples[done+i] = [2]float64{float64(block[0][i]), float64(block[1][i])}
		}
		done += n
	}
	return len(samples), true
}

func (s *Streamer) Err() error { return nil }

type Beep struct {
	streamer *Streamer
}

func NewBeep(g *Graph, sampleRate, bufferSize int) (*Beep, error) {
	if err := speaker.Init(beep.SampleRate(sampleRate), bufferSize); err != nil {
		return nil, err
	}
	return &Beep{streamer: NewStreamer(g, bufferSize)}, nil
}

func (b *Beep) Start() error {
	speaker.Play(b.streamer)
	return nil
}

func (b *Beep) Stop() error {
	speaker.Clear()
	speaker.Close()
	return nil
}
