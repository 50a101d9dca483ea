package device

import (
	"github.com/gordonklaus/portaudio"
)

type PortAudio struct {
	stream *portaudio.Stream
}

func NewPortAudio(g *Graph, sampleRate, bufferSize int) (*PortAudio, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, float64(sampleRate), bufferSize, g.Process)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	return &PortAudio{stream: stream}, nil
}

func (p *PortAudio) Start() error {
	return p.stream.Start()
}

func (p *PortAudio) Stop() error {
	p.stream.Close()
	portaudio.Terminate()
	return nil
}
