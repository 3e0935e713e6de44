package trackengine

import (
	"testing"

	"github.com/halcyonaudio/trackengine/midi"
)

func TestMidiDataPlaneIgnoresInputWhenStopped(t *testing.T) {
	var dp MidiDataPlane
	dp.Process([]byte{0x92, 60, 100})
	if dp.MessageCount != 0 {
		t.Fatalf("expected no dispatch while stopped, got count %d", dp.MessageCount)
	}
}

func TestMidiDataPlaneDecodesAndForwards(t *testing.T) {
	var dp MidiDataPlane
	dp.Start()

	var got midi.Event
	dp.OnEvent = func(ev midi.Event) { got = ev }

	dp.Process([]byte{0x92, 60, 100})

	if dp.MessageCount != 1 {
		t.Fatalf("MessageCount = %d, want 1", dp.MessageCount)
	}
	if got.Kind != midi.KindNoteOn || got.Channel != 2 || got.NoteNumber() != 60 || got.Velocity() != 100 {
		t.Fatalf("unexpected decoded event: %+v", got)
	}
}
