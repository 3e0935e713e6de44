package trackengine

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/halcyonaudio/trackengine/devices"
	"github.com/halcyonaudio/trackengine/logging"
)

// Engine is the top-level facade wiring the backends, the shared
// controllers, and the track tree together.
type Engine struct {
	id uuid.UUID

	mu        sync.RWMutex
	isRunning bool

	audioBackend devices.AudioBackend
	midiBackend  devices.MIDIBackend

	audioController *AudioController
	midiController  *MidiController
	tracks          *TrackManager
	structure       *StructureQueue

	log *logging.Logger

	config EngineConfig
}

// NewEngine constructs an Engine over the given backends, resolving
// config defaults.
func NewEngine(audioBackend devices.AudioBackend, midiBackend devices.MIDIBackend, config EngineConfig, log *logging.Logger) *Engine {
	if log == nil {
		log = logging.Default()
	}
	resolved := ResolveConfig(config)

	logf := func(format string, args ...any) { log.Info(nil, fmt.Sprintf(format, args...)) }

	audioController := NewAudioController(audioBackend, resolved, logf)
	midiController := NewMidiController(midiBackend, logf)

	tracks := NewTrackManager(audioController, midiController)
	structure := NewStructureQueue(tracks)
	structure.Start()

	return &Engine{
		id:              uuid.New(),
		audioBackend:    audioBackend,
		midiBackend:     midiBackend,
		audioController: audioController,
		midiController:  midiController,
		tracks:          tracks,
		structure:       structure,
		log:             log,
		config:          resolved,
	}
}

// Structure returns the serialized track-topology mutation queue.
// CreateTrack/CreateChildTrack/RemoveTrack/ClearTracks should be
// issued through it rather than directly through Tracks() whenever
// more than one goroutine can mutate the tree concurrently.
func (e *Engine) Structure() *StructureQueue { return e.structure }

func (e *Engine) ID() uuid.UUID                      { return e.id }
func (e *Engine) Tracks() *TrackManager              { return e.tracks }
func (e *Engine) AudioController() *AudioController  { return e.audioController }
func (e *Engine) MidiController() *MidiController    { return e.midiController }
func (e *Engine) Config() EngineConfig               { return e.config }

// SetOutputDevice binds the single physical output device the entire
// tree streams through: one stream serves the whole tree.
func (e *Engine) SetOutputDevice(dev devices.AudioDevice) error {
	return e.audioController.SetOutputDevice(dev)
}

// Start rebuilds the active-tracks snapshot — every track whose Play
// has been called — while the controller is still not Playing, then
// starts the stream.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isRunning {
		return newError(KindPreconditionViolated, "Engine.Start", ErrPreconditionViolated)
	}

	var active []*Track
	for _, t := range e.tracks.GetAllTracks() {
		if t.Audio.Running {
			active = append(active, t)
		}
	}

	if err := e.audioController.SetActiveTracks(active); err != nil {
		return err
	}
	if err := e.audioController.Start(); err != nil {
		return err
	}

	e.isRunning = true
	return nil
}

// Stop stops the stream and every currently active track's audio data
// plane.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isRunning {
		return nil
	}

	if err := e.audioController.Stop(); err != nil {
		return err
	}
	e.isRunning = false
	return nil
}

func (e *Engine) IsRunning() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.isRunning
}

// Close shuts down the engine's background worker. It does not stop
// an active audio stream; call Stop first.
func (e *Engine) Close() {
	e.structure.Stop()
}
