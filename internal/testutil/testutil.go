// Package testutil provides fakes and small helpers shared by the
// engine's tests so control-plane and callback-dispatch tests never
// need real hardware.
package testutil

import (
	"os"
	"sync"
	"testing"

	"github.com/halcyonaudio/trackengine/devices"
)

// SkipUnlessEnv skips the test unless the given env var equals the wanted value.
func SkipUnlessEnv(t *testing.T, key, want string) {
	t.Helper()
	if os.Getenv(key) != want {
		t.Skipf("skipped: set %s=%s to run", key, want)
	}
}

// IsCI reports whether running under common CI environments.
func IsCI() bool {
	return os.Getenv("CI") == "true" || os.Getenv("GITHUB_ACTIONS") == "true"
}

// FakeAudioBackend is an in-process devices.AudioBackend that drives
// its callback manually via Pump, standing in for a real audio device
// stream in control-plane and callback-dispatch tests.
type FakeAudioBackend struct {
	mu       sync.Mutex
	devs     []devices.AudioDevice
	cb       devices.AudioCallback
	open     bool
	running  bool
	OpenErr  error
	StartErr error
}

func NewFakeAudioBackend(devs []devices.AudioDevice) *FakeAudioBackend {
	return &FakeAudioBackend{devs: devs}
}

func (f *FakeAudioBackend) Devices() ([]devices.AudioDevice, error) { return f.devs, nil }

func (f *FakeAudioBackend) OpenStream(params devices.AudioStreamParams, cb devices.AudioCallback) error {
	if f.OpenErr != nil {
		return f.OpenErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cb = cb
	f.open = true
	return nil
}

func (f *FakeAudioBackend) StartStream() error {
	if f.StartErr != nil {
		return f.StartErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = true
	return nil
}

func (f *FakeAudioBackend) StopStream() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = false
	return nil
}

func (f *FakeAudioBackend) CloseStream() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
	f.cb = nil
	return nil
}

func (f *FakeAudioBackend) IsStreamRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *FakeAudioBackend) IsStreamOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// Pump invokes the registered callback once, as a real backend would
// do from its own callback thread.
func (f *FakeAudioBackend) Pump(out []float32, nFrames int, streamTime float64) {
	f.mu.Lock()
	cb := f.cb
	f.mu.Unlock()
	if cb != nil {
		cb(out, nFrames, streamTime, devices.StreamStatus{})
	}
}

// FakeMIDIBackend is an in-process devices.MIDIBackend that drives its
// callback manually via Feed.
type FakeMIDIBackend struct {
	mu    sync.Mutex
	ports []devices.MIDIDevice
	cb    devices.MIDICallback
	open  bool
}

func NewFakeMIDIBackend(ports []devices.MIDIDevice) *FakeMIDIBackend {
	return &FakeMIDIBackend{ports: ports}
}

func (f *FakeMIDIBackend) Ports() ([]devices.MIDIDevice, error) { return f.ports, nil }

func (f *FakeMIDIBackend) OpenPort(n int, cb devices.MIDICallback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cb = cb
	f.open = true
	return nil
}

func (f *FakeMIDIBackend) ClosePort() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
	f.cb = nil
	return nil
}

func (f *FakeMIDIBackend) IsPortOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

func (f *FakeMIDIBackend) IgnoreTypes(sysex, timing, activeSensing bool) {}

// Feed delivers one raw MIDI message to the registered callback.
func (f *FakeMIDIBackend) Feed(raw []byte) {
	f.mu.Lock()
	cb := f.cb
	f.mu.Unlock()
	if cb != nil {
		cb(raw)
	}
}
