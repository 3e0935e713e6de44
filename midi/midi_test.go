package midi

import "testing"

func TestDecodeNoteOn(t *testing.T) {
	ev := Decode([]byte{0x92, 60, 100})

	if ev.Kind != KindNoteOn {
		t.Fatalf("kind = %v, want NoteOn", ev.Kind)
	}
	if ev.Channel != 2 {
		t.Fatalf("channel = %d, want 2", ev.Channel)
	}
	if ev.NoteNumber() != 60 {
		t.Fatalf("note = %d, want 60", ev.NoteNumber())
	}
	if ev.Velocity() != 100 {
		t.Fatalf("velocity = %d, want 100", ev.Velocity())
	}
}

func TestDecodeControlChange(t *testing.T) {
	ev := Decode([]byte{0xB0, byte(LaunchkeyMini.Play), LaunchkeyMini.Pressed})
	if ev.Kind != KindControlChange {
		t.Fatalf("kind = %v, want ControlChange", ev.Kind)
	}
	if ev.ControllerNumber() != LaunchkeyMini.Play {
		t.Fatalf("controller = %d, want %d", ev.ControllerNumber(), LaunchkeyMini.Play)
	}
	if ev.ControllerValue() != LaunchkeyMini.Pressed {
		t.Fatalf("value = %d, want %d", ev.ControllerValue(), LaunchkeyMini.Pressed)
	}
}

func TestDecodeMissingDataBytes(t *testing.T) {
	ev := Decode([]byte{0x90})
	if ev.Data1 != 0 || ev.Data2 != 0 {
		t.Fatalf("expected zeroed data bytes, got %d %d", ev.Data1, ev.Data2)
	}
}

func TestNoteName(t *testing.T) {
	if got := NoteName(69); got != "A4" {
		t.Fatalf("NoteName(69) = %q, want A4", got)
	}
	if got := NoteName(60); got != "C4" {
		t.Fatalf("NoteName(60) = %q, want C4", got)
	}
}
