// Package device connects the engine to audio outputs and MIDI inputs.
package device

import "fmt"

type Source interface {
	Process([][]float32)
}

type Ticker interface {
	Tick(numSamples int)
}

// Graph is pulled by an output once per buffer. Tickers run first so that a sequencer
// can queue the events of the buffer before the source renders it.
type Graph struct {
	sources []Source
	tickers []Ticker
}

func (g *Graph) AddSources(sources ...Source) {
	g.sources = append(g.sources, sources...)
}

func (g *Graph) AddTicker(ticker Ticker) {
	g.tickers = append(g.tickers, ticker)
}

func (g *Graph) Process(samples [][]float32) {
	for i := range samples {
		for j := range samples[i] {
			samples[i][j] = 0.
		}
	}
	for _, ticker := range g.tickers {
		ticker.Tick(len(samples[0]))
	}
	for _, source := range g.sources {
		source.Process(samples)
	}
}

// Sink is a running audio output.
type Sink interface {
	Start() error
	Stop() error
}

// Backends lists the names accepted by Open.
var Backends = []string{"portaudio", "oto", "beep"}

// Open creates the named output, pulling bufferSize frames at a time from g.
func Open(backend string, g *Graph, sampleRate, bufferSize int) (Sink, error) {
	switch backend {
	case "portaudio":
		return NewPortAudio(g, sampleRate, bufferSize)
	case "oto":
		return NewOto(g, sampleRate, bufferSize)
	case "beep":
		return NewBeep(g, sampleRate, bufferSize)
	default:
		return nil, fmt.Errorf("unknown audio backend %q", backend)
	}
}

func planar(n int) [][]float32 {
	return [][]float32{make([]float32, n), make([]float32, n)}
}
