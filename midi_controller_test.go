package trackengine

import (
	"testing"

	"github.com/halcyonaudio/trackengine/devices"
	"github.com/halcyonaudio/trackengine/internal/testutil"
)

func TestMidiControllerFansOutToSubscribers(t *testing.T) {
	backend := testutil.NewFakeMIDIBackend([]devices.MIDIDevice{{PortNumber: 0, Name: "fake"}})
	c := NewMidiController(backend, nil)

	track := NewTrack(nil, c)
	track.Midi.Start()

	if err := c.Acquire(track, devices.MIDIDevice{PortNumber: 0}); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	backend.Feed([]byte{0x92, 60, 100})

	if track.Midi.MessageCount != 1 {
		t.Fatalf("expected the subscribed track to receive the message, got count %d", track.Midi.MessageCount)
	}

	c.Release(track)
	if backend.IsPortOpen() {
		t.Fatalf("expected the port to close once the last subscriber releases it")
	}
}

func TestMidiControllerReopensForDifferentDevice(t *testing.T) {
	backend := testutil.NewFakeMIDIBackend([]devices.MIDIDevice{{PortNumber: 0, Name: "a"}, {PortNumber: 1, Name: "b"}})
	c := NewMidiController(backend, nil)

	t1 := NewTrack(nil, c)
	t2 := NewTrack(nil, c)
	t1.Midi.Start()
	t2.Midi.Start()

	if err := c.Acquire(t1, devices.MIDIDevice{PortNumber: 0}); err != nil {
		t.Fatalf("Acquire t1: %v", err)
	}
	if err := c.Acquire(t2, devices.MIDIDevice{PortNumber: 1}); err != nil {
		t.Fatalf("Acquire t2: %v", err)
	}

	backend.Feed([]byte{0x92, 60, 100})

	if t1.Midi.MessageCount != 0 {
		t.Fatalf("expected t1 to have been dropped when the port reopened for a different device")
	}
	if t2.Midi.MessageCount != 1 {
		t.Fatalf("expected t2 to receive the message on the reopened port")
	}
}
