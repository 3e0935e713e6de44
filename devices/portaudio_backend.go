package devices

import (
	"fmt"
	"unsafe"

	"github.com/drgolem/go-portaudio/portaudio"
)

// PortAudioBackend implements AudioBackend on top of
// github.com/drgolem/go-portaudio/portaudio, grounded on
// other_examples/drgolem-go-portaudio's callback-mode player: a
// PaStream opened with OpenCallback, fed float32 buffers cast from the
// raw byte slice PortAudio hands the callback.
type PortAudioBackend struct {
	stream *portaudio.PaStream
	open   bool
	params AudioStreamParams
}

// NewPortAudioBackend initializes the PortAudio library. Callers must
// call Terminate when done with every backend instance.
func NewPortAudioBackend() (*PortAudioBackend, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("devices: portaudio init: %w", err)
	}
	return &PortAudioBackend{}, nil
}

// Terminate releases the PortAudio library.
func (b *PortAudioBackend) Terminate() error {
	return portaudio.Terminate()
}

func (b *PortAudioBackend) Devices() ([]AudioDevice, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("devices: enumerate: %w", err)
	}

	out := make([]AudioDevice, 0, len(infos))
	for i, info := range infos {
		out = append(out, AudioDevice{
			ID:             i,
			Name:           info.Name,
			InputChannels:  info.MaxInputChannels,
			OutputChannels: info.MaxOutputChannels,
			PreferredRate:  int(info.DefaultSampleRate),
			SampleRates:    []int{int(info.DefaultSampleRate)},
		})
	}
	return out, nil
}

func (b *PortAudioBackend) OpenStream(params AudioStreamParams, cb AudioCallback) error {
	if b.open {
		return fmt.Errorf("devices: stream already open")
	}

	stream, err := portaudio.NewCallbackStream(params.DeviceID, params.OutputChannels, portaudio.SampleFmtFloat32, float64(params.SampleRate))
	if err != nil {
		return fmt.Errorf("devices: create stream: %w", err)
	}

	bridge := func(input, output []byte, frameCount uint, timeInfo *portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) portaudio.StreamCallbackResult {
		nFrames := int(frameCount)
		out := bytesToFloat32(output)

		status := StreamStatus{
			InputUnderflow:  flags&portaudio.InputUnderflow != 0,
			InputOverflow:   flags&portaudio.InputOverflow != 0,
			OutputUnderflow: flags&portaudio.OutputUnderflow != 0,
			OutputOverflow:  flags&portaudio.OutputOverflow != 0,
		}

		streamTime := 0.0
		if timeInfo != nil {
			streamTime = float64(timeInfo.CurrentTime)
		}

		cb(out, nFrames, streamTime, status)
		return portaudio.Continue
	}

	if err := stream.OpenCallback(params.BufferFrames, bridge); err != nil {
		return fmt.Errorf("devices: open callback: %w", err)
	}

	b.stream = stream
	b.open = true
	b.params = params
	return nil
}

func (b *PortAudioBackend) StartStream() error {
	if b.stream == nil {
		return fmt.Errorf("devices: no stream open")
	}
	return b.stream.StartStream()
}

func (b *PortAudioBackend) StopStream() error {
	if b.stream == nil {
		return nil
	}
	return b.stream.StopStream()
}

func (b *PortAudioBackend) CloseStream() error {
	if b.stream == nil {
		return nil
	}
	err := b.stream.CloseCallback()
	b.stream = nil
	b.open = false
	return err
}

func (b *PortAudioBackend) IsStreamRunning() bool {
	return b.stream != nil && b.stream.IsStreamRunning()
}

func (b *PortAudioBackend) IsStreamOpen() bool {
	return b.open
}

// bytesToFloat32 views a PortAudio float32-format byte buffer as a
// float32 slice without copying. Safe because the callback's output
// buffer is laid out as native-endian float32 samples by construction
// (SampleFmtFloat32 was requested at OpenStream time).
func bytesToFloat32(b []byte) []float32 {
	if len(b) == 0 {
		return nil
	}
	n := len(b) / 4
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), n)
}
