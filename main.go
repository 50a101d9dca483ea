package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mrdg/polysynth/audio"
	"github.com/mrdg/polysynth/control"
	"github.com/mrdg/polysynth/device"
	"github.com/mrdg/polysynth/render"
	"github.com/mrdg/polysynth/tuning"
)

func main() {
	var (
		rate       = flag.Int("rate", 44100, "sample rate")
		buffer     = flag.Int("buffer", 256, "audio buffer size in frames")
		backend    = flag.String("backend", "portaudio", "audio output: "+strings.Join(device.Backends, ", "))
		midiFile   = flag.String("render", "", "render a MIDI file to WAV and exit")
		out        = flag.String("out", "out.wav", "output file for -render")
		tail       = flag.Duration("tail", 2*time.Second, "time rendered after the last MIDI event")
		live       = flag.Bool("midi", false, "play from a MIDI input device")
		midiDevice = flag.Int("midi-device", -1, "portmidi input device id, -1 for the default")
		preset     = flag.String("preset", "", "preset to load on start")
		run        = flag.String("run", "", "file with commands to run on start")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "seed for oscillator drift and noise")
	)
	flag.Parse()

	engine := audio.NewEngine(float32(*rate), *seed)
	tbl := tuning.NewTable()
	engine.SetTuning(tbl)

	props := audio.NewProps()
	synth := audio.Synth(props, engine)
	if *preset != "" {
		if err := audio.LoadPreset(*preset, props); err != nil {
			log.Fatal(err)
		}
	}

	if *midiFile != "" {
		opts := render.Options{
			Tail:  *tail,
			Setup: func(d *control.Dispatcher) { d.Tuning = tbl },
		}
		if err := render.File(engine, *midiFile, *out, opts); err != nil {
			log.Fatal(err)
		}
		return
	}

	seq := audio.NewSequencer(props, float64(*rate))
	env := &env{
		props:  props,
		synth:  synth,
		seq:    engine.NewInput(),
		engine: engine,
		tuning: tbl,
		out:    os.Stdout,
	}

	var midiIn *device.MIDIInput
	if *live {
		d := control.NewDispatcher(engine.NewInput())
		d.Tuning = tbl
		in, err := device.OpenMIDIInput(d, *midiDevice)
		if err != nil {
			log.Fatal(err)
		}
		midiIn = in
	}

	graph := &device.Graph{}
	graph.AddTicker(&transport{seq: seq, engine: engine})
	graph.AddSources(engine)
	sink, err := device.Open(*backend, graph, *rate, *buffer)
	if err != nil {
		log.Fatal(err)
	}
	if err := sink.Start(); err != nil {
		log.Fatal(err)
	}
	defer sink.Stop()

	if midiIn != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			if err := midiIn.Run(ctx); err != nil {
				log.Printf("midi input stopped: %v", err)
			}
		}()
		defer midiIn.Close()
	}

	if *run != "" {
		if err := runFile(env, *run); err != nil {
			log.Fatal(err)
		}
	}

	if err := repl(env, os.Stdin); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runFile(env *env, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, err := env.eval(line); err != nil {
			return fmt.Errorf("%s:%d: %w", path, n, err)
		}
	}
	return scanner.Err()
}
