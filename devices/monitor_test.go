package devices

import (
	"sync"
	"testing"
	"time"
)

type fakeAudioBackend struct {
	mu    sync.Mutex
	count int
}

func (f *fakeAudioBackend) Devices() ([]AudioDevice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return make([]AudioDevice, f.count), nil
}
func (f *fakeAudioBackend) OpenStream(AudioStreamParams, AudioCallback) error { return nil }
func (f *fakeAudioBackend) StartStream() error                               { return nil }
func (f *fakeAudioBackend) StopStream() error                                { return nil }
func (f *fakeAudioBackend) CloseStream() error                               { return nil }
func (f *fakeAudioBackend) IsStreamRunning() bool                            { return false }
func (f *fakeAudioBackend) IsStreamOpen() bool                               { return false }

func (f *fakeAudioBackend) setCount(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count = n
}

func TestMonitorReportsDeviceCountChange(t *testing.T) {
	backend := &fakeAudioBackend{count: 1}
	m := NewMonitor(backend, nil)
	m.baseInterval = time.Millisecond
	m.maxInterval = 5 * time.Millisecond

	changed := make(chan int, 4)
	m.OnChange = func(audioCount, midiCount int) { changed <- audioCount }

	m.Start()
	defer m.Stop()

	backend.setCount(2)

	select {
	case n := <-changed:
		if n != 2 {
			t.Fatalf("got count %d, want 2", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
}
