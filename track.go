package trackengine

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/halcyonaudio/trackengine/devices"
	"github.com/halcyonaudio/trackengine/midi"
)

// Track is the mixing-tree node: every track owns an audio data plane,
// a MIDI data plane, a processor chain, and a set of child tracks.
// MainTrack is the distinguished root.
type Track struct {
	id     uuid.UUID
	isMain bool

	mu       sync.RWMutex
	parent   *Track // back-reference only; the parent's children slice holds the child
	children []*Track

	Audio AudioDataPlane
	Midi  MidiDataPlane

	processors         []Processor
	processorsSnapshot atomic.Pointer[[]Processor]

	audioInput AudioInputBinding
	midiInput  MidiInputBinding

	audioController *AudioController
	midiController  *MidiController

	logger func(string, ...any)
}

// NewTrack constructs a non-main track. audioController/midiController
// are the shared controllers the whole tree plays through: one
// physical audio stream serves an entire tree, so every track is wired
// to the same controller pair at construction.
func NewTrack(audioController *AudioController, midiController *MidiController) *Track {
	t := &Track{
		id:              uuid.New(),
		audioController: audioController,
		midiController:  midiController,
	}
	empty := []Processor{}
	t.processorsSnapshot.Store(&empty)
	return t
}

func (t *Track) ID() uuid.UUID { return t.id }
func (t *Track) IsMain() bool  { return t.isMain }

// Parent returns the current parent, or nil for an unattached or main
// track.
func (t *Track) Parent() *Track {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.parent
}

// Children returns a snapshot slice of this track's children, safe to
// range over after the lock is released.
func (t *Track) Children() []*Track {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Track, len(t.children))
	copy(out, t.children)
	return out
}

// AddChild attaches child under this track: reject a cycle (child is
// an ancestor of this track, or child is this track), detach the child
// from any existing parent, then attach.
func (t *Track) AddChild(child *Track) error {
	if child == nil {
		return newError(KindPreconditionViolated, "Track.AddChild", ErrPreconditionViolated)
	}
	if child == t || wouldCycle(t, child) {
		return newError(KindCycleDetected, "Track.AddChild", ErrCycleDetected)
	}

	child.RemoveFromParent()

	t.mu.Lock()
	t.children = append(t.children, child)
	t.mu.Unlock()

	child.mu.Lock()
	child.parent = t
	child.mu.Unlock()

	return nil
}

// wouldCycle reports whether attaching child under t would create a
// cycle, i.e. t is child or a descendant of child.
func wouldCycle(t, child *Track) bool {
	for cur := t; cur != nil; cur = cur.Parent() {
		if cur == child {
			return true
		}
	}
	return false
}

// RemoveChild detaches child from this track's child list, if present.
func (t *Track) RemoveChild(child *Track) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, c := range t.children {
		if c == child {
			copy(t.children[i:], t.children[i+1:])
			t.children = t.children[:len(t.children)-1]
			return
		}
	}
}

// RemoveFromParent detaches this track from its current parent, if
// any.
func (t *Track) RemoveFromParent() {
	parent := t.Parent()
	if parent == nil {
		return
	}
	parent.RemoveChild(t)

	t.mu.Lock()
	t.parent = nil
	t.mu.Unlock()
}

// AddAudioInput binds a device or file as this track's audio source.
// Rebinding while already bound is a DuplicateBinding error; callers
// must RemoveAudioInput first. A device with no input channels can't
// feed a track and is rejected as an incompatible device.
func (t *Track) AddAudioInput(b AudioInputBinding) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.audioInput.Kind != AudioInputNone {
		return newError(KindDuplicateBinding, "Track.AddAudioInput", ErrDuplicateBinding)
	}
	if b.Kind == AudioInputDevice && b.Device.InputChannels == 0 {
		return newError(KindIncompatibleDevice, "Track.AddAudioInput", ErrIncompatibleDevice)
	}
	t.audioInput = b

	switch b.Kind {
	case AudioInputFile:
		t.Audio.PreloadFile(b.File, b.File.TotalFrames, b.File.Channels, t.logger)
	case AudioInputDevice:
		t.Audio.InputChannels = b.Device.InputChannels
	}
	return nil
}

// RemoveAudioInput clears the track's audio source binding.
func (t *Track) RemoveAudioInput() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.audioInput = AudioInputBinding{}
}

// AddMidiInput records a MIDI device binding. The physical port is
// opened lazily by Play, not here.
func (t *Track) AddMidiInput(dev devices.MIDIDevice) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.midiInput.Kind != MidiInputNone {
		return newError(KindDuplicateBinding, "Track.AddMidiInput", ErrDuplicateBinding)
	}
	t.midiInput = MidiInputBinding{Kind: MidiInputDevice, Device: dev}
	return nil
}

// RemoveMidiInput clears the binding, closing the shared input port
// first if this track had it open.
func (t *Track) RemoveMidiInput() {
	t.mu.Lock()
	wasRunning := t.Midi.Running
	t.midiInput = MidiInputBinding{}
	t.mu.Unlock()

	if wasRunning && t.midiController != nil {
		t.midiController.Release(t)
	}
}

// AddProcessor appends a Processor to this track's chain; order is
// preserved. Publishes a fresh snapshot so the audio and MIDI callback
// threads never need to lock or allocate to read the current chain.
func (t *Track) AddProcessor(p Processor) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.processors = append(t.processors, p)
	snapshot := append([]Processor(nil), t.processors...)
	t.processorsSnapshot.Store(&snapshot)
}

// Processors returns a snapshot of the processor chain, for
// control-plane callers.
func (t *Track) Processors() []Processor {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Processor, len(t.processors))
	copy(out, t.processors)
	return out
}

// processorsForCallback returns the current processor chain without
// locking or allocating, for use from the audio and MIDI backend
// callback threads.
func (t *Track) processorsForCallback() []Processor {
	p := t.processorsSnapshot.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Play starts this track's data planes and, if bound, opens the shared
// MIDI input port.
func (t *Track) Play() error {
	t.mu.Lock()
	midiBound := t.midiInput.Kind == MidiInputDevice
	dev := t.midiInput.Device
	t.mu.Unlock()

	t.Audio.Start()
	t.Midi.Start()
	t.Midi.OnEvent = t.dispatchMidiEvent

	if midiBound && t.midiController != nil {
		return t.midiController.Acquire(t, dev)
	}
	return nil
}

// Stop stops both data planes and releases the shared MIDI port if
// this track held it.
func (t *Track) Stop() {
	t.Audio.Stop()
	t.Midi.Stop()

	t.mu.RLock()
	midiBound := t.midiInput.Kind == MidiInputDevice
	t.mu.RUnlock()

	if midiBound && t.midiController != nil {
		t.midiController.Release(t)
	}
}

// IsPlaying derives a track's playing state from the shared
// AudioController rather than a per-track flag, since one physical
// stream serves the whole tree.
func (t *Track) IsPlaying() bool {
	if t.audioController == nil {
		return false
	}
	return t.audioController.State() == AudioPlaying
}

// HandleMidiMessage is the MidiController's dispatch entry point: it
// is called with raw bytes for whichever track currently holds the
// input port.
func (t *Track) HandleMidiMessage(raw []byte) {
	t.Midi.Process(raw)
}

func (t *Track) dispatchMidiEvent(ev midi.Event) {
	for _, p := range t.processorsForCallback() {
		if sp, ok := p.(*SamplePlayer); ok {
			sp.HandleMidiEvent(ev)
		}
	}
}
