package trackengine

import "github.com/halcyonaudio/trackengine/midi"

// MidiDataPlane is the per-track MIDI sink: it decodes raw bytes handed
// to it by the shared MidiController and dispatches the resulting
// event to whatever wants to observe it (usually a SamplePlayer
// processor).
type MidiDataPlane struct {
	Running bool

	MessageCount  uint64
	LastEvent     midi.Event
	HasLastEvent  bool

	OnEvent func(midi.Event)
}

// Start/Stop mirror AudioDataPlane's lifecycle so Track.Play/Stop can
// treat both data planes uniformly.
func (dp *MidiDataPlane) Start() { dp.Running = true }
func (dp *MidiDataPlane) Stop()  { dp.Running = false }

// Process ignores input while not running, otherwise decodes the raw
// bytes, counts it, remembers it, and forwards it to the registered
// observer.
func (dp *MidiDataPlane) Process(raw []byte) {
	if !dp.Running || len(raw) == 0 {
		return
	}

	ev := midi.Decode(raw)
	dp.MessageCount++
	dp.LastEvent = ev
	dp.HasLastEvent = true

	if dp.OnEvent != nil {
		dp.OnEvent(ev)
	}
}
