package trackengine

import (
	"sync"
	"sync/atomic"

	"github.com/halcyonaudio/trackengine/devices"
)

// AudioState is the audio controller's state machine.
type AudioState int

const (
	AudioIdle AudioState = iota
	AudioPlaying
	AudioStopped
)

func (s AudioState) String() string {
	switch s {
	case AudioPlaying:
		return "Playing"
	case AudioStopped:
		return "Stopped"
	default:
		return "Idle"
	}
}

// AudioController owns the single physical output stream shared by an
// entire track tree. activeTracks is rebuilt only while the controller
// is stopped, never while Playing, and published through an atomic
// pointer so the audio callback can read it without locking or
// allocating.
type AudioController struct {
	backend devices.AudioBackend
	config  EngineConfig
	logger  func(string, ...any)

	mu          sync.RWMutex
	state       AudioState
	device      devices.AudioDevice
	deviceBound bool

	activeTracks atomic.Pointer[[]*Track]
}

func NewAudioController(backend devices.AudioBackend, config EngineConfig, logger func(string, ...any)) *AudioController {
	c := &AudioController{backend: backend, config: config, logger: logger, state: AudioIdle}
	empty := []*Track{}
	c.activeTracks.Store(&empty)
	return c
}

func (c *AudioController) State() AudioState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// SetOutputDevice binds the output device to stream to. Must be
// called while Idle or Stopped.
func (c *AudioController) SetOutputDevice(dev devices.AudioDevice) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == AudioPlaying {
		return newError(KindPreconditionViolated, "AudioController.SetOutputDevice", ErrPreconditionViolated)
	}
	c.device = dev
	c.deviceBound = true
	return nil
}

// SetActiveTracks rebuilds the flat list of tracks the callback mixes
// every invocation. Only valid while the controller is not Playing.
func (c *AudioController) SetActiveTracks(tracks []*Track) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == AudioPlaying {
		return newError(KindPreconditionViolated, "AudioController.SetActiveTracks", ErrPreconditionViolated)
	}
	snapshot := append([]*Track(nil), tracks...)
	c.activeTracks.Store(&snapshot)
	return nil
}

// Start runs the 4-step start_stream algorithm:
// 1. reject if already Playing
// 2. reject if no output device bound, or no active track registered
// 3. bind each active track's output channel count to the device's,
//    rejecting a mismatch against a count a caller already set
// 4. open the stream, start it, and transition to Playing
func (c *AudioController) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == AudioPlaying {
		return newError(KindPreconditionViolated, "AudioController.Start", ErrPreconditionViolated)
	}
	if !c.deviceBound {
		return newError(KindPreconditionViolated, "AudioController.Start", ErrPreconditionViolated)
	}

	tracks := *c.activeTracks.Load()
	if len(tracks) == 0 {
		return newError(KindPreconditionViolated, "AudioController.Start", ErrPreconditionViolated)
	}
	for _, t := range tracks {
		if t.Audio.OutputChannels == 0 {
			t.Audio.OutputChannels = c.device.OutputChannels
		} else if t.Audio.OutputChannels != c.device.OutputChannels {
			return newError(KindIncompatibleDevice, "AudioController.Start", ErrIncompatibleDevice)
		}
	}

	params := devices.AudioStreamParams{
		DeviceID:       c.device.ID,
		OutputChannels: c.device.OutputChannels,
		SampleRate:     c.config.SampleRate,
		BufferFrames:   c.config.BufferFrames,
	}

	if err := c.backend.OpenStream(params, c.callback); err != nil {
		return newError(KindBackendFailure, "AudioController.Start", err)
	}
	if err := c.backend.StartStream(); err != nil {
		return newError(KindBackendFailure, "AudioController.Start", err)
	}

	c.state = AudioPlaying
	return nil
}

// Stop stops and closes the backend stream, stops every active track's
// audio data plane (clearing its preloaded buffer), and transitions to
// Stopped. MIDI data planes are not touched.
func (c *AudioController) Stop() error {
	tracks := *c.activeTracks.Load()

	if err := c.backend.StopStream(); err != nil {
		return newError(KindBackendFailure, "AudioController.Stop", err)
	}
	if err := c.backend.CloseStream(); err != nil {
		return newError(KindBackendFailure, "AudioController.Stop", err)
	}

	for _, t := range tracks {
		t.Audio.Stop()
	}

	c.mu.Lock()
	c.state = AudioStopped
	c.mu.Unlock()
	return nil
}

// callback is the real-time dispatch entry point handed to the
// backend: silence the device buffer, process and mix every active
// track's output into it. It never locks and never allocates —
// activeTracks is read through an atomic pointer published only while
// the controller is stopped, and each track's processor chain comes
// from its own pre-published snapshot.
func (c *AudioController) callback(out []float32, nFrames int, streamTime float64, status devices.StreamStatus) {
	tracks := *c.activeTracks.Load()
	sampleRate := c.config.SampleRate

	for i := range out {
		out[i] = 0
	}

	for _, t := range tracks {
		buf := t.Audio.Process(nFrames, streamTime, status, t.processorsForCallback(), sampleRate)
		if buf == nil {
			continue
		}
		mixInto(out, buf)
	}
}

// mixInto mixes src into dst by plain addition. No clipping.
func mixInto(dst, src []float32) {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i] += src[i]
	}
}
