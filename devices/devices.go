// Package devices declares the opaque audio/MIDI backend contracts.
// Concrete hardware access lives behind the AudioBackend/MIDIBackend
// interfaces so the core engine never depends on a specific driver.
package devices

import "github.com/google/uuid"

// AudioDevice is an audio device descriptor. IDs are opaque and only
// unique within their kind. InstanceID is a field for telling apart
// devices that report the same backend index across re-enumeration;
// PortAudioBackend.Devices does not fill it in, so devices it reports
// carry the zero UUID.
type AudioDevice struct {
	ID             int
	InstanceID     uuid.UUID
	Name           string
	InputChannels  int
	OutputChannels int
	DuplexChannels int
	SampleRates    []int
	PreferredRate  int
	DefaultInput   bool
	DefaultOutput  bool
}

func (d AudioDevice) CanInput() bool  { return d.InputChannels > 0 }
func (d AudioDevice) CanOutput() bool { return d.OutputChannels > 0 }

// MIDIDevice is a MIDI device descriptor.
type MIDIDevice struct {
	PortNumber int
	Name       string
}

// AudioStreamParams mirror the backend's open-stream contract: device
// id, output channel count, a first channel offset, and a requested
// buffer size the backend may adjust.
type AudioStreamParams struct {
	DeviceID       int
	OutputChannels int
	FirstChannel   int
	SampleRate     int
	BufferFrames   int
}

// AudioCallback is the real-time device callback signature. out is the
// interleaved float32 device output buffer to be filled in place;
// status carries backend-reported over/underflow flags.
type AudioCallback func(out []float32, nFrames int, streamTime float64, status StreamStatus)

// StreamStatus carries the backend status flags passed into the audio
// callback.
type StreamStatus struct {
	InputUnderflow  bool
	InputOverflow   bool
	OutputUnderflow bool
	OutputOverflow  bool
}

// AudioBackend is the opaque audio backend contract.
type AudioBackend interface {
	Devices() ([]AudioDevice, error)
	OpenStream(params AudioStreamParams, cb AudioCallback) error
	StartStream() error
	StopStream() error
	CloseStream() error
	IsStreamRunning() bool
	IsStreamOpen() bool
}

// MIDICallback is the per-message dispatch entry point: the backend
// hands the data plane the raw bytes of one message.
type MIDICallback func(raw []byte)

// MIDIBackend is the opaque MIDI backend contract.
type MIDIBackend interface {
	Ports() ([]MIDIDevice, error)
	OpenPort(n int, cb MIDICallback) error
	ClosePort() error
	IsPortOpen() bool
	IgnoreTypes(sysex, timing, activeSensing bool)
}
