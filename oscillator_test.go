package trackengine

import "testing"

func TestOscillatorAddsToBothChannels(t *testing.T) {
	osc := NewOscillator(440, 0.5)
	buf := make([]float32, 8) // 4 frames, 2 channels
	osc.ProcessAudio(buf, 2, 4, 48000)

	for f := 0; f < 4; f++ {
		if buf[f*2] != buf[f*2+1] {
			t.Fatalf("frame %d: channels diverged, got %v and %v", f, buf[f*2], buf[f*2+1])
		}
	}
}

func TestOscillatorBypassProducesSilence(t *testing.T) {
	osc := NewOscillator(440, 0.5)
	osc.SetBypass(true)
	buf := make([]float32, 8)
	osc.ProcessAudio(buf, 2, 4, 48000)

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("sample %d: expected silence while bypassed, got %v", i, v)
		}
	}
}

func TestOscillatorResetZeroesPhase(t *testing.T) {
	osc := NewOscillator(440, 0.5)
	buf := make([]float32, 4)
	osc.ProcessAudio(buf, 1, 4, 48000)
	osc.Reset()

	buf2 := make([]float32, 4)
	osc.ProcessAudio(buf2, 1, 4, 48000)

	for i := range buf {
		if buf[i] != buf2[i] {
			t.Fatalf("expected identical output after Reset, sample %d: %v vs %v", i, buf[i], buf2[i])
		}
	}
}
