package trackengine

import (
	"errors"
	"testing"

	"github.com/halcyonaudio/trackengine/devices"
	"github.com/halcyonaudio/trackengine/internal/testutil"
)

func newTestEngine(t *testing.T) (*AudioController, *MidiController) {
	t.Helper()
	audioBackend := testutil.NewFakeAudioBackend(nil)
	midiBackend := testutil.NewFakeMIDIBackend(nil)
	audioCtl := NewAudioController(audioBackend, ResolveConfig(EngineConfig{}), nil)
	midiCtl := NewMidiController(midiBackend, nil)
	return audioCtl, midiCtl
}

func TestAddChildAttachesAndDetachesFromPreviousParent(t *testing.T) {
	audioCtl, midiCtl := newTestEngine(t)
	a := NewTrack(audioCtl, midiCtl)
	b := NewTrack(audioCtl, midiCtl)
	c := NewTrack(audioCtl, midiCtl)

	if err := a.AddChild(c); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if c.Parent() != a {
		t.Fatalf("expected c's parent to be a")
	}

	if err := b.AddChild(c); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if c.Parent() != b {
		t.Fatalf("expected c's parent to move to b")
	}
	if len(a.Children()) != 0 {
		t.Fatalf("expected a to no longer list c as a child")
	}
}

func TestAddChildRejectsDirectCycle(t *testing.T) {
	audioCtl, midiCtl := newTestEngine(t)
	a := NewTrack(audioCtl, midiCtl)
	b := NewTrack(audioCtl, midiCtl)

	if err := a.AddChild(b); err != nil {
		t.Fatalf("AddChild: %v", err)
	}

	err := b.AddChild(a)
	if err == nil {
		t.Fatalf("expected cycle rejection, got nil")
	}
	if !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected, got %v", err)
	}
}

func TestAddChildRejectsSelfAttach(t *testing.T) {
	audioCtl, midiCtl := newTestEngine(t)
	a := NewTrack(audioCtl, midiCtl)

	if err := a.AddChild(a); !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected for self-attach, got %v", err)
	}
}

func TestIsPlayingReflectsSharedAudioController(t *testing.T) {
	audioCtl, midiCtl := newTestEngine(t)
	track := NewTrack(audioCtl, midiCtl)

	if track.IsPlaying() {
		t.Fatalf("expected not playing before controller starts")
	}

	audioCtl.mu.Lock()
	audioCtl.state = AudioPlaying
	audioCtl.mu.Unlock()

	if !track.IsPlaying() {
		t.Fatalf("expected IsPlaying to follow the shared controller's state")
	}
}

func TestAddAudioInputRejectsDuplicateBinding(t *testing.T) {
	audioCtl, midiCtl := newTestEngine(t)
	track := NewTrack(audioCtl, midiCtl)

	dev := devices.AudioDevice{InputChannels: 2}
	if err := track.AddAudioInput(AudioInputBinding{Kind: AudioInputDevice, Device: dev}); err != nil {
		t.Fatalf("first AddAudioInput: %v", err)
	}
	err := track.AddAudioInput(AudioInputBinding{Kind: AudioInputDevice, Device: dev})
	if !errors.Is(err, ErrDuplicateBinding) {
		t.Fatalf("expected ErrDuplicateBinding, got %v", err)
	}
}

func TestAddAudioInputRejectsOutputOnlyDevice(t *testing.T) {
	audioCtl, midiCtl := newTestEngine(t)
	track := NewTrack(audioCtl, midiCtl)

	outputOnly := devices.AudioDevice{Name: "speakers", OutputChannels: 2, InputChannels: 0}
	err := track.AddAudioInput(AudioInputBinding{Kind: AudioInputDevice, Device: outputOnly})
	if !errors.Is(err, ErrIncompatibleDevice) {
		t.Fatalf("expected ErrIncompatibleDevice for a zero-input device, got %v", err)
	}
}
