package wavfile

import "testing"

func TestSeekAndReadFramesClampsToLength(t *testing.T) {
	f := &File{
		SampleRate:  44100,
		Channels:    2,
		TotalFrames: 4,
		data:        []float32{0.1, 0.1, 0.2, 0.2, 0.3, 0.3, 0.4, 0.4},
	}

	dst := make([]float32, 8)
	n := f.ReadFrames(dst, 4)
	if n != 4 {
		t.Fatalf("read %d frames, want 4", n)
	}

	f.SeekToFrame(3)
	n = f.ReadFrames(dst, 4)
	if n != 1 {
		t.Fatalf("read %d frames after seek near EOF, want 1", n)
	}
	if dst[0] != 0.4 || dst[1] != 0.4 {
		t.Fatalf("unexpected trailing frame: %v", dst[:2])
	}

	f.SeekToFrame(100)
	n = f.ReadFrames(dst, 1)
	if n != 0 {
		t.Fatalf("read past end returned %d, want 0", n)
	}
}
