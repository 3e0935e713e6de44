package trackengine

import (
	"sync"

	"github.com/halcyonaudio/trackengine/devices"
)

// MidiController owns the single shared MIDI input port: whichever
// tracks are currently bound to a MIDI device receive every message
// the physical port produces, fanned out from one backend callback.
type MidiController struct {
	backend devices.MIDIBackend
	logger  func(string, ...any)

	mu          sync.Mutex
	portOpen    bool
	portNumber  int
	subscribers []*Track
}

func NewMidiController(backend devices.MIDIBackend, logger func(string, ...any)) *MidiController {
	return &MidiController{backend: backend, logger: logger}
}

// Ports enumerates the backend's MIDI input ports.
func (c *MidiController) Ports() ([]devices.MIDIDevice, error) {
	return c.backend.Ports()
}

// Acquire opens the shared port for dev if it is not already open and
// registers track as a subscriber of whatever the port produces. Before
// opening, it asks the backend to ignore sysex, timing and
// active-sensing messages.
// Opening a different device while the port is already serving one is
// a backend reconfiguration: close and reopen, which drops any other
// current subscribers' device assumption, since the backend is
// single-port.
func (c *MidiController) Acquire(track *Track, dev devices.MIDIDevice) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ports, err := c.backend.Ports()
	if err != nil {
		return newError(KindBackendFailure, "MidiController.Acquire", err)
	}
	if dev.PortNumber < 0 || dev.PortNumber >= len(ports) {
		return newError(KindOutOfRange, "MidiController.Acquire", ErrOutOfRange)
	}

	if c.portOpen && c.portNumber != dev.PortNumber {
		if err := c.backend.ClosePort(); err != nil {
			return newError(KindBackendFailure, "MidiController.Acquire", err)
		}
		c.portOpen = false
		c.subscribers = nil
	}

	if !c.portOpen {
		c.backend.IgnoreTypes(true, true, true)
		if err := c.backend.OpenPort(dev.PortNumber, c.dispatch); err != nil {
			return newError(KindBackendFailure, "MidiController.Acquire", err)
		}
		c.portOpen = true
		c.portNumber = dev.PortNumber
	}

	for _, sub := range c.subscribers {
		if sub == track {
			return nil
		}
	}
	c.subscribers = append(c.subscribers, track)
	return nil
}

// Release drops track from the subscriber list, closing the physical
// port once no track needs it anymore.
func (c *MidiController) Release(track *Track) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, sub := range c.subscribers {
		if sub == track {
			copy(c.subscribers[i:], c.subscribers[i+1:])
			c.subscribers = c.subscribers[:len(c.subscribers)-1]
			break
		}
	}

	if len(c.subscribers) == 0 && c.portOpen {
		if err := c.backend.ClosePort(); err != nil && c.logger != nil {
			c.logger("MidiController.Release: close port: %v", err)
		}
		c.portOpen = false
	}
}

// dispatch is the backend's MIDICallback: fan the raw message out to
// every current subscriber.
func (c *MidiController) dispatch(raw []byte) {
	c.mu.Lock()
	subs := append([]*Track(nil), c.subscribers...)
	c.mu.Unlock()

	for _, t := range subs {
		t.HandleMidiMessage(raw)
	}
}
