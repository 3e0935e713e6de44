package trackengine

import "math"

// Oscillator is a phase-accumulating sine generator. It adds its
// signal into every channel of the buffer rather than overwriting it,
// so it composes with processors ahead of it in the chain.
type Oscillator struct {
	baseProcessor

	FrequencyHz float64
	Amplitude   float64

	phase float64
}

func NewOscillator(frequencyHz, amplitude float64) *Oscillator {
	return &Oscillator{FrequencyHz: frequencyHz, Amplitude: amplitude}
}

func (o *Oscillator) ProcessAudio(buffer []float32, channels, nFrames, sampleRate int) {
	if o.IsBypassed() || channels <= 0 || sampleRate <= 0 {
		return
	}

	step := 2 * math.Pi * o.FrequencyHz / float64(sampleRate)
	for f := 0; f < nFrames; f++ {
		v := float32(o.Amplitude * math.Sin(o.phase))
		base := f * channels
		for c := 0; c < channels; c++ {
			buffer[base+c] += v
		}
		o.phase += step
		if o.phase > 2*math.Pi {
			o.phase -= 2 * math.Pi
		}
	}
}

func (o *Oscillator) Reset() {
	o.phase = 0
}
