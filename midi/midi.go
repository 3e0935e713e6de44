// Package midi decodes raw MIDI wire bytes into typed events and
// carries the note-name and controller-name tables used by the demo
// programs.
package midi

import "fmt"

// Kind is the decoded message kind, keyed by the high nibble of the
// status byte for channel messages and by the full status byte for
// system messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindNoteOff
	KindNoteOn
	KindPolyKeyPressure
	KindControlChange
	KindProgramChange
	KindChannelPressure
	KindPitchBend
	KindSystemExclusive
	KindSystemCommon
	KindSystemRealTime
)

func (k Kind) String() string {
	switch k {
	case KindNoteOff:
		return "NoteOff"
	case KindNoteOn:
		return "NoteOn"
	case KindPolyKeyPressure:
		return "PolyphonicKeyPressure"
	case KindControlChange:
		return "ControlChange"
	case KindProgramChange:
		return "ProgramChange"
	case KindChannelPressure:
		return "ChannelPressure"
	case KindPitchBend:
		return "PitchBend"
	case KindSystemExclusive:
		return "SystemExclusive"
	case KindSystemCommon:
		return "SystemCommon"
	case KindSystemRealTime:
		return "SystemRealTime"
	default:
		return "Unknown"
	}
}

// kindByStatusNibble is the channel-message lookup table: the status
// nibble drives the kind, channel is the low nibble.
var kindByStatusNibble = map[byte]Kind{
	0x80: KindNoteOff,
	0x90: KindNoteOn,
	0xA0: KindPolyKeyPressure,
	0xB0: KindControlChange,
	0xC0: KindProgramChange,
	0xD0: KindChannelPressure,
	0xE0: KindPitchBend,
}

// Event is a decoded MIDI message. DeltaTime is populated by callers
// that track inter-message timing (the data plane itself only decodes
// one message at a time and does not own a clock).
type Event struct {
	DeltaTime float64
	Status    byte
	Kind      Kind
	Channel   int
	Data1     byte
	Data2     byte
}

// Decode parses a raw status+data byte sequence. Missing data bytes
// default to zero.
func Decode(raw []byte) Event {
	if len(raw) == 0 {
		return Event{Kind: KindUnknown}
	}
	status := raw[0]

	if status >= 0xF0 {
		kind := KindSystemCommon
		if status >= 0xF8 {
			kind = KindSystemRealTime
		}
		if status == 0xF0 {
			kind = KindSystemExclusive
		}
		ev := Event{Status: status, Kind: kind}
		if len(raw) > 1 {
			ev.Data1 = raw[1]
		}
		if len(raw) > 2 {
			ev.Data2 = raw[2]
		}
		return ev
	}

	nibble := status & 0xF0
	kind, ok := kindByStatusNibble[nibble]
	if !ok {
		kind = KindUnknown
	}

	ev := Event{
		Status:  status,
		Kind:    kind,
		Channel: int(status & 0x0F),
	}
	if len(raw) > 1 {
		ev.Data1 = raw[1]
	}
	if len(raw) > 2 {
		ev.Data2 = raw[2]
	}
	return ev
}

// NoteNumber returns data1 for Note On/Off/PolyKeyPressure events.
func (e Event) NoteNumber() byte { return e.Data1 }

// Velocity returns data2 for Note On/Off events.
func (e Event) Velocity() byte { return e.Data2 }

// ControllerNumber returns data1 for Control Change events.
func (e Event) ControllerNumber() byte { return e.Data1 }

// ControllerValue returns data2 for Control Change events.
func (e Event) ControllerValue() byte { return e.Data2 }

func (e Event) String() string {
	return fmt.Sprintf("%s ch=%d data1=%d data2=%d", e.Kind, e.Channel, e.Data1, e.Data2)
}

// noteNames holds the standard 0-127 note-number to name mapping.
var noteNames = buildNoteNames()

func buildNoteNames() [128]string {
	names := [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	var table [128]string
	for n := 0; n < 128; n++ {
		octave := n/12 - 1
		table[n] = fmt.Sprintf("%s%d", names[n%12], octave)
	}
	return table
}

// NoteName returns the standard name for a MIDI note number (0-127).
// Out-of-range input returns an empty string.
func NoteName(note byte) string {
	if int(note) >= len(noteNames) {
		return ""
	}
	return noteNames[note]
}

// LaunchkeyMini names the controller numbers of the Launchkey-Mini
// dialect, for demo program convenience.
var LaunchkeyMini = struct {
	Play             byte
	Record           byte
	ModulationWheel  byte
	Pot1, Pot2, Pot3 byte
	Pot4, Pot5, Pot6 byte
	Pot7, Pot8       byte
	PreviousTrack    byte
	NextTrack        byte
	Up               byte
	Down             byte
	Pressed          byte
	Released         byte
}{
	Play:            115,
	Record:          117,
	ModulationWheel: 1,
	Pot1:            21,
	Pot2:            22,
	Pot3:            23,
	Pot4:            24,
	Pot5:            25,
	Pot6:            26,
	Pot7:            27,
	Pot8:            28,
	PreviousTrack:   103,
	NextTrack:       102,
	Up:              104,
	Down:            105,
	Pressed:         127,
	Released:        0,
}
