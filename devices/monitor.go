package devices

import (
	"sync"
	"time"
)

// Monitor polls an AudioBackend and MIDIBackend for device-list
// changes on an adaptive interval: polling backs off from a base
// interval toward a max interval after consecutive no-change polls,
// and resets to the base interval the moment a change is observed.
// This is a control-plane convenience; it never touches data-plane
// state and is not required for playback.
type Monitor struct {
	audio AudioBackend
	midi  MIDIBackend

	mu      sync.Mutex
	running bool
	stop    chan struct{}

	baseInterval time.Duration
	maxInterval  time.Duration

	lastAudioCount int
	lastMIDICount  int

	OnChange func(audioCount, midiCount int)
}

// NewMonitor constructs a monitor over the given backends. Either
// backend may be nil if that kind isn't being watched.
func NewMonitor(audio AudioBackend, midi MIDIBackend) *Monitor {
	return &Monitor{
		audio:        audio,
		midi:         midi,
		baseInterval: 50 * time.Millisecond,
		maxInterval:  200 * time.Millisecond,
	}
}

// Start begins polling in a background goroutine. Idempotent.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.running = true
	m.stop = make(chan struct{})
	go m.loop(m.stop)
}

// Stop halts polling. Idempotent.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	close(m.stop)
}

func (m *Monitor) loop(stop chan struct{}) {
	interval := m.baseInterval
	noChange := 0

	for {
		select {
		case <-stop:
			return
		case <-time.After(interval):
		}

		audioCount, midiCount := m.poll()
		if audioCount != m.lastAudioCount || midiCount != m.lastMIDICount {
			m.lastAudioCount = audioCount
			m.lastMIDICount = midiCount
			interval = m.baseInterval
			noChange = 0
			if m.OnChange != nil {
				m.OnChange(audioCount, midiCount)
			}
			continue
		}

		noChange++
		if noChange > 3 {
			interval *= 2
			if interval > m.maxInterval {
				interval = m.maxInterval
			}
		}
	}
}

func (m *Monitor) poll() (audioCount, midiCount int) {
	if m.audio != nil {
		if devs, err := m.audio.Devices(); err == nil {
			audioCount = len(devs)
		}
	}
	if m.midi != nil {
		if ports, err := m.midi.Ports(); err == nil {
			midiCount = len(ports)
		}
	}
	return audioCount, midiCount
}
