package trackengine

import "sync"

// TrackManager owns the track tree rooted at MainTrack. It is the only
// component allowed to mutate the tree's structure; Track itself only
// knows how to attach/detach given an explicit parent.
type TrackManager struct {
	main *Track

	audioController *AudioController
	midiController  *MidiController

	mu     sync.RWMutex
	tracks []*Track // every track currently managed, including main; removed tracks are dropped
}

// NewTrackManager constructs the manager with its MainTrack already
// created and registered.
func NewTrackManager(audioController *AudioController, midiController *MidiController) *TrackManager {
	main := NewTrack(audioController, midiController)
	main.isMain = true

	return &TrackManager{
		main:            main,
		audioController: audioController,
		midiController:  midiController,
		tracks:          []*Track{main},
	}
}

func (m *TrackManager) MainTrack() *Track { return m.main }

// CreateTrack creates a new track attached directly under MainTrack.
func (m *TrackManager) CreateTrack() (*Track, error) {
	return m.CreateChildTrack(m.main)
}

// CreateChildTrack attaches the new track under parent, with a
// single-level fallback: only MainTrack and its direct children may
// take further children, so a request to nest beneath a grandchild
// falls back to attaching under MainTrack instead of building
// arbitrarily deep trees.
func (m *TrackManager) CreateChildTrack(parent *Track) (*Track, error) {
	if parent == nil {
		parent = m.main
	}

	target := parent
	if !parent.isMain {
		if gp := parent.Parent(); gp != nil && !gp.isMain {
			target = m.main
		}
	}

	child := NewTrack(m.audioController, m.midiController)
	if err := target.AddChild(child); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.tracks = append(m.tracks, child)
	m.mu.Unlock()

	return child, nil
}

// RemoveTrack detaches the track from its parent and drops it from the
// manager's registry. Removing MainTrack is rejected.
func (m *TrackManager) RemoveTrack(t *Track) error {
	if t == nil {
		return newError(KindPreconditionViolated, "TrackManager.RemoveTrack", ErrPreconditionViolated)
	}
	if t.isMain {
		return newError(KindPreconditionViolated, "TrackManager.RemoveTrack", ErrPreconditionViolated)
	}

	t.Stop()
	t.RemoveFromParent()

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cur := range m.tracks {
		if cur == t {
			copy(m.tracks[i:], m.tracks[i+1:])
			m.tracks = m.tracks[:len(m.tracks)-1]
			break
		}
	}
	return nil
}

// GetAllTracks returns a snapshot of every track under management,
// including MainTrack.
func (m *TrackManager) GetAllTracks() []*Track {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Track, len(m.tracks))
	copy(out, m.tracks)
	return out
}

// ClearTracks takes a snapshot of every non-main track under the lock,
// releases the lock, then stops and detaches each one without holding
// it, so a track's Stop (which itself takes the MidiController's
// lock) can never deadlock against
// TrackManager's own lock.
func (m *TrackManager) ClearTracks() {
	m.mu.Lock()
	snapshot := make([]*Track, 0, len(m.tracks))
	for _, t := range m.tracks {
		if !t.isMain {
			snapshot = append(snapshot, t)
		}
	}
	m.tracks = []*Track{m.main}
	m.mu.Unlock()

	for _, t := range snapshot {
		t.Stop()
		t.RemoveFromParent()
	}
}

// GetTrackAudioDataplanes returns the per-track audio data plane
// pointers of every currently managed track, for components (e.g. a
// demo CLI reporting stats) that want to inspect them without walking
// the tree themselves.
func (m *TrackManager) GetTrackAudioDataplanes() []*AudioDataPlane {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*AudioDataPlane, len(m.tracks))
	for i, t := range m.tracks {
		out[i] = &t.Audio
	}
	return out
}

// GetTrackMidiDataplanes mirrors GetTrackAudioDataplanes for MIDI.
func (m *TrackManager) GetTrackMidiDataplanes() []*MidiDataPlane {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*MidiDataPlane, len(m.tracks))
	for i, t := range m.tracks {
		out[i] = &t.Midi
	}
	return out
}
