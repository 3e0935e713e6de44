package devices

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// RtMidiBackend is an alternate MIDIBackend implementation built on
// gomidi/midi/v2's RtMidi driver, for platforms or setups where
// PortMIDI isn't available.
type RtMidiBackend struct {
	drv    *rtmididrv.Driver
	inPort drivers.In
	stop   func()
	open   bool

	ignoreSysex, ignoreTiming, ignoreActiveSensing bool
}

func NewRtMidiBackend() (*RtMidiBackend, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	return &RtMidiBackend{drv: drv}, nil
}

func (b *RtMidiBackend) Terminate() error {
	if b.open {
		_ = b.ClosePort()
	}
	return b.drv.Close()
}

// Ports implements MIDIBackend.Ports.
func (b *RtMidiBackend) Ports() ([]MIDIDevice, error) {
	ins, err := b.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("list MIDI inputs: %w", err)
	}
	out := make([]MIDIDevice, len(ins))
	for i, in := range ins {
		out[i] = MIDIDevice{PortNumber: int(in.Number()), Name: in.String()}
	}
	return out, nil
}

func (b *RtMidiBackend) IgnoreTypes(sysex, timing, activeSensing bool) {
	b.ignoreSysex, b.ignoreTiming, b.ignoreActiveSensing = sysex, timing, activeSensing
}

// OpenPort implements MIDIBackend.OpenPort, matching one input by its
// reported port number.
func (b *RtMidiBackend) OpenPort(n int, cb MIDICallback) error {
	if b.open {
		if err := b.ClosePort(); err != nil {
			return err
		}
	}

	ins, err := b.drv.Ins()
	if err != nil {
		return fmt.Errorf("list MIDI inputs: %w", err)
	}
	var found drivers.In
	for _, in := range ins {
		if int(in.Number()) == n {
			found = in
			break
		}
	}
	if found == nil {
		return fmt.Errorf("no MIDI input numbered %d", n)
	}
	if err := found.Open(); err != nil {
		return fmt.Errorf("open MIDI input %d: %w", n, err)
	}

	stop, err := midi.ListenTo(found, func(msg midi.Message, timestampms int32) {
		raw := []byte(msg)
		if b.shouldIgnore(raw) {
			return
		}
		cb(raw)
	})
	if err != nil {
		_ = found.Close()
		return fmt.Errorf("listen on MIDI input %d: %w", n, err)
	}

	b.inPort = found
	b.stop = stop
	b.open = true
	return nil
}

func (b *RtMidiBackend) ClosePort() error {
	if !b.open {
		return nil
	}
	if b.stop != nil {
		b.stop()
		b.stop = nil
	}
	err := b.inPort.Close()
	b.inPort = nil
	b.open = false
	return err
}

func (b *RtMidiBackend) IsPortOpen() bool { return b.open }

func (b *RtMidiBackend) shouldIgnore(raw []byte) bool {
	if len(raw) == 0 {
		return false
	}
	status := raw[0]
	switch {
	case b.ignoreSysex && status == 0xF0:
		return true
	case b.ignoreTiming && (status == 0xF8 || status == 0xFA || status == 0xFB || status == 0xFC):
		return true
	case b.ignoreActiveSensing && status == 0xFE:
		return true
	default:
		return false
	}
}
