package trackengine

import "github.com/halcyonaudio/trackengine/midi"

const samplePlayerMaxVoices = 16

// voice is one active playback of a Sample triggered by a NoteOn.
type voice struct {
	active bool
	note   byte
	sample *Sample
	cursor int
	gain   float32
}

// SamplePlayer is a processor generator keyed by MIDI note number:
// NoteOn starts a voice playing the sample bound to that note, NoteOff
// stops it, and ProcessAudio mixes every active voice into the buffer
// with the same channel remap rules the audio data plane applies to
// its own source.
type SamplePlayer struct {
	baseProcessor

	samples map[byte]*Sample
	voices  [samplePlayerMaxVoices]voice
}

func NewSamplePlayer() *SamplePlayer {
	return &SamplePlayer{samples: make(map[byte]*Sample)}
}

// BindSample assigns a sample to a MIDI note number, replacing any
// sample previously bound to that note.
func (sp *SamplePlayer) BindSample(note byte, s *Sample) {
	sp.samples[note] = s
}

// HandleMidiEvent is wired as a MidiDataPlane's OnEvent callback to
// trigger and release voices from NoteOn/NoteOff messages.
func (sp *SamplePlayer) HandleMidiEvent(ev midi.Event) {
	switch ev.Kind {
	case midi.KindNoteOn:
		if ev.Velocity() == 0 {
			sp.noteOff(ev.NoteNumber())
			return
		}
		sp.noteOn(ev.NoteNumber(), ev.Velocity())
	case midi.KindNoteOff:
		sp.noteOff(ev.NoteNumber())
	}
}

func (sp *SamplePlayer) noteOn(note, velocity byte) {
	s, ok := sp.samples[note]
	if !ok || s == nil {
		return
	}

	for i := range sp.voices {
		if !sp.voices[i].active {
			sp.voices[i] = voice{
				active: true,
				note:   note,
				sample: s,
				cursor: 0,
				gain:   float32(velocity) / 127.0,
			}
			return
		}
	}
	// No free voice: drop the trigger. No voice stealing.
}

func (sp *SamplePlayer) noteOff(note byte) {
	for i := range sp.voices {
		if sp.voices[i].active && sp.voices[i].note == note {
			sp.voices[i].active = false
		}
	}
}

// ProcessAudio mixes every active voice's remaining frames into
// buffer, remapping each sample's channel count to the buffer's, and
// deactivates voices that reach the end of their sample.
func (sp *SamplePlayer) ProcessAudio(buffer []float32, channels, nFrames, sampleRate int) {
	if sp.IsBypassed() {
		return
	}

	for i := range sp.voices {
		v := &sp.voices[i]
		if !v.active {
			continue
		}

		remaining := v.sample.TotalFrames - v.cursor
		if remaining <= 0 {
			v.active = false
			continue
		}
		toMix := nFrames
		if toMix > remaining {
			toMix = remaining
		}

		ci := v.sample.Channels
		start := v.cursor * ci
		end := start + toMix*ci
		mixRemapped(v.sample.Data[start:end], buffer, ci, channels, toMix, v.gain)

		v.cursor += toMix
		if v.cursor >= v.sample.TotalFrames {
			v.active = false
		}
	}
}

func (sp *SamplePlayer) Reset() {
	for i := range sp.voices {
		sp.voices[i] = voice{}
	}
}

// mixRemapped applies the same remap rules as remapFrames, but adds
// (scaled by gain) into dst instead of overwriting it, since multiple
// voices share one buffer.
func mixRemapped(src, dst []float32, ci, co, frames int, gain float32) {
	if ci <= 0 || co <= 0 {
		return
	}
	switch {
	case ci == co:
		for i := 0; i < frames*co; i++ {
			dst[i] += src[i] * gain
		}
	case ci == 1 && co > 1:
		for f := 0; f < frames; f++ {
			v := src[f] * gain
			base := f * co
			for c := 0; c < co; c++ {
				dst[base+c] += v
			}
		}
	case ci > co:
		for f := 0; f < frames; f++ {
			for c := 0; c < co; c++ {
				dst[f*co+c] += src[f*ci+c] * gain
			}
		}
	default: // ci < co, ci != 1
		for f := 0; f < frames; f++ {
			for c := 0; c < ci; c++ {
				dst[f*co+c] += src[f*ci+c] * gain
			}
		}
	}
}
