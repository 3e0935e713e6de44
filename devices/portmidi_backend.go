package devices

import (
	"fmt"

	"github.com/rakyll/portmidi"
)

// PortMIDIBackend implements MIDIBackend on top of
// github.com/rakyll/portmidi: devices are enumerated by count plus
// per-index Info lookup, and a port is opened, closed, and reopened as
// a single input stream with software-side filtering of ignored
// message types.
type PortMIDIBackend struct {
	stream *portmidi.Stream
	open   bool

	ignoreSysex         bool
	ignoreTiming        bool
	ignoreActiveSensing bool

	stop chan struct{}
}

// NewPortMIDIBackend initializes the PortMIDI library. Callers must
// call Terminate when done with every backend instance.
func NewPortMIDIBackend() (*PortMIDIBackend, error) {
	if err := portmidi.Initialize(); err != nil {
		return nil, fmt.Errorf("devices: portmidi init: %w", err)
	}
	return &PortMIDIBackend{}, nil
}

func (b *PortMIDIBackend) Terminate() error {
	return portmidi.Terminate()
}

func (b *PortMIDIBackend) Ports() ([]MIDIDevice, error) {
	count := portmidi.CountDevices()
	var out []MIDIDevice
	for i := 0; i < count; i++ {
		info := portmidi.Info(portmidi.DeviceID(i))
		if info == nil || !info.IsInputAvailable {
			continue
		}
		out = append(out, MIDIDevice{PortNumber: i, Name: info.Name})
	}
	return out, nil
}

func (b *PortMIDIBackend) IgnoreTypes(sysex, timing, activeSensing bool) {
	b.ignoreSysex = sysex
	b.ignoreTiming = timing
	b.ignoreActiveSensing = activeSensing
}

func (b *PortMIDIBackend) OpenPort(n int, cb MIDICallback) error {
	if b.open {
		if err := b.ClosePort(); err != nil {
			return err
		}
	}

	stream, err := portmidi.NewInputStream(portmidi.DeviceID(n), 1024)
	if err != nil {
		return fmt.Errorf("devices: open MIDI port %d: %w", n, err)
	}

	b.stream = stream
	b.open = true
	b.stop = make(chan struct{})

	go b.dispatch(stream, cb, b.stop)
	return nil
}

func (b *PortMIDIBackend) dispatch(stream *portmidi.Stream, cb MIDICallback, stop chan struct{}) {
	events := stream.Listen()
	for {
		select {
		case <-stop:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if b.shouldIgnore(byte(ev.Status)) {
				continue
			}
			cb([]byte{byte(ev.Status), byte(ev.Data1), byte(ev.Data2)})
		}
	}
}

// shouldIgnore filters sysex/timing/active-sensing messages in
// software, since not every backend exposes that natively.
func (b *PortMIDIBackend) shouldIgnore(status byte) bool {
	switch {
	case status == 0xF0:
		return b.ignoreSysex
	case status == 0xF8 || status == 0xFA || status == 0xFB || status == 0xFC:
		return b.ignoreTiming
	case status == 0xFE:
		return b.ignoreActiveSensing
	default:
		return false
	}
}

func (b *PortMIDIBackend) ClosePort() error {
	if !b.open {
		return nil
	}
	close(b.stop)
	err := b.stream.Close()
	b.stream = nil
	b.open = false
	return err
}

func (b *PortMIDIBackend) IsPortOpen() bool {
	return b.open
}
