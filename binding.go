package trackengine

import (
	"github.com/halcyonaudio/trackengine/devices"
	"github.com/halcyonaudio/trackengine/wavfile"
)

// AudioInputKind tags the variant held by an AudioInputBinding: a
// track's audio input is either a live device, a preloaded file, or
// nothing at all.
type AudioInputKind int

const (
	AudioInputNone AudioInputKind = iota
	AudioInputDevice
	AudioInputFile
)

// AudioInputBinding is a track's audio input variant.
type AudioInputBinding struct {
	Kind   AudioInputKind
	Device devices.AudioDevice
	File   *wavfile.File
}

func (b AudioInputBinding) String() string {
	switch b.Kind {
	case AudioInputDevice:
		return "AudioInput(Device=" + b.Device.Name + ")"
	case AudioInputFile:
		return "AudioInput(File)"
	default:
		return "AudioInput(None)"
	}
}

// MidiInputKind tags the variant held by a MidiInputBinding.
type MidiInputKind int

const (
	MidiInputNone MidiInputKind = iota
	MidiInputDevice
)

// MidiInputBinding is a track's MIDI input variant. Only the device
// variant is implemented; file-based MIDI input isn't supported.
type MidiInputBinding struct {
	Kind   MidiInputKind
	Device devices.MIDIDevice
}
