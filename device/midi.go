package device

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mrdg/polysynth/control"
	"github.com/rakyll/portmidi"
	"gitlab.com/gomidi/midi/v2"
)

const (
	midiBufferSize = 1024
	pollInterval   = 2 * time.Millisecond
)

// MIDIInput forwards messages from a portmidi input device to a Dispatcher.
type MIDIInput struct {
	stream *portmidi.Stream
	d      *control.Dispatcher
}

// OpenMIDIInput opens input device id, or the default input when id is negative.
func OpenMIDIInput(d *control.Dispatcher, id int) (*MIDIInput, error) {
	if err := portmidi.Initialize(); err != nil {
		return nil, err
	}
	dev := portmidi.DeviceID(id)
	if id < 0 {
		dev = portmidi.DefaultInputDeviceID()
	}
	if dev < 0 {
		portmidi.Terminate()
		return nil, fmt.Errorf("no MIDI input device")
	}
	stream, err := portmidi.NewInputStream(dev, midiBufferSize)
	if err != nil {
		portmidi.Terminate()
		return nil, err
	}
	return &MIDIInput{stream: stream, d: d}, nil
}

// Run reads and dispatches messages until ctx is done.
func (m *MIDIInput) Run(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		ok, err := m.stream.Poll()
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		events, err := m.stream.Read(midiBufferSize)
		if err != nil {
			return err
		}
		for _, ev := range events {
			if err := m.d.Dispatch(eventMessage(ev)); err != nil {
				log.Printf("midi: %v", err)
			}
		}
	}
}

func (m *MIDIInput) Close() error {
	err := m.stream.Close()
	portmidi.Terminate()
	return err
}

// eventMessage converts a short portmidi event to a channel message.
func eventMessage(ev portmidi.Event) midi.Message {
	status := byte(ev.Status)
	switch status & 0xf0 {
	case 0xc0, 0xd0:
		return midi.Message{status, byte(ev.Data1)}
	default:
		return midi.Message{status, byte(ev.Data1), byte(ev.Data2)}
	}
}

// MIDIInputs lists the input devices known to portmidi by id.
func MIDIInputs() ([]string, error) {
	if err := portmidi.Initialize(); err != nil {
		return nil, err
	}
	defer portmidi.Terminate()
	var names []string
	for id := 0; id < portmidi.CountDevices(); id++ {
		info := portmidi.Info(portmidi.DeviceID(id))
		if info != nil && info.IsInputAvailable {
			names = append(names, fmt.Sprintf("%d: %s (%s)", id, info.Name, info.Interface))
		}
	}
	return names, nil
}
