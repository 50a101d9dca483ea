package device

import (
	"encoding/binary"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// pcmReader renders the graph as interleaved 32 bit float little endian frames.
type pcmReader struct {
	g     *Graph
	buf   [][]float32
	block [][]float32 // resliced views of buf, Read runs on the audio thread
}

func newPCMReader(g *Graph, bufferSize int) *pcmReader {
	return &pcmReader{g: g, buf: planar(bufferSize), block: make([][]float32, 2)}
}

const frameBytes = 2 * 4

func (r *pcmReader) Read(p []byte) (int, error) {
	frames := len(p) / frameBytes
	out := p
	for frames > 0 {
		n := min(frames, len(r.buf[0]))
		block := r.block
		block[0], block[1] = r.buf[0][:n], r.buf[1][:n]
		r.g.Process(block)
		for i := 0; i < n; i++ {
			binary.LittleEndian.PutUint32(out[i*frameBytes:], math.Float32bits(block[0][i]))
			binary.LittleEndian.PutUint32(out[i*frameBytes+4:], math.Float32bits(block[1][i]))
		}
		out = out[n*frameBytes:]
		frames -= n
	}
	return len(p) - len(out), nil
}

type Oto struct {
	ctx     *oto.Context
	player  *oto.Player
	mu      sync.Mutex
	started bool
}

func NewOto(g *Graph, sampleRate, bufferSize int) (*Oto, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(bufferSize) * time.Second / time.Duration(sampleRate),
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready
	return &Oto{
		ctx:    ctx,
		player: ctx.NewPlayer(newPCMReader(g, bufferSize)),
	}, nil
}

func (o *Oto) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.started {
		o.player.Play()
		o.started = true
	}
	return nil
}

func (o *Oto) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = false
	return o.player.Close()
}
