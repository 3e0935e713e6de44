package trackengine

import (
	"testing"

	"github.com/halcyonaudio/trackengine/devices"
	"github.com/halcyonaudio/trackengine/ring"
)

// fakeReader is a minimal stand-in for *wavfile.File satisfying the
// interface PreloadFile needs.
type fakeReader struct {
	data     []float32
	channels int
	cursor   int
}

func (r *fakeReader) SeekToFrame(frame int) { r.cursor = frame }

func (r *fakeReader) ReadFrames(dst []float32, n int) int {
	available := len(r.data)/r.channels - r.cursor
	if n > available {
		n = available
	}
	start := r.cursor * r.channels
	copy(dst[:n*r.channels], r.data[start:start+n*r.channels])
	r.cursor += n
	return n
}

func TestPreloadedPlaybackMonoToStereoRemap(t *testing.T) {
	src := &fakeReader{data: []float32{0.1, 0.2, 0.3}, channels: 1}

	var dp AudioDataPlane
	dp.OutputChannels = 2
	dp.Start()
	dp.PreloadFile(src, 3, 1, nil)

	buf := dp.Process(3, 1.0, devices.StreamStatus{}, nil, 48000)
	want := []float32{0.1, 0.1, 0.2, 0.2, 0.3, 0.3}
	if len(buf) != len(want) {
		t.Fatalf("got %d samples, want %d", len(buf), len(want))
	}
	for i, v := range want {
		if buf[i] != v {
			t.Fatalf("sample %d: got %v want %v", i, buf[i], v)
		}
	}

	if dp.Stats.TotalFramesRead != 3 {
		t.Fatalf("TotalFramesRead = %d, want 3", dp.Stats.TotalFramesRead)
	}
}

func TestPreloadedPlaybackZeroFillsPastEnd(t *testing.T) {
	src := &fakeReader{data: []float32{1, 1}, channels: 2}

	var dp AudioDataPlane
	dp.OutputChannels = 2
	dp.Start()
	dp.PreloadFile(src, 1, 2, nil)

	buf := dp.Process(4, 1.0, devices.StreamStatus{}, nil, 48000)
	if buf[0] != 1 || buf[1] != 1 {
		t.Fatalf("first frame should carry the sample: %v", buf[:2])
	}
	for i := 2; i < len(buf); i++ {
		if buf[i] != 0 {
			t.Fatalf("sample %d should be zero-filled past end, got %v", i, buf[i])
		}
	}
}

func TestStreamingUnderrunIsCounted(t *testing.T) {
	r := ring.New(8)
	r.TryPush(1)
	r.TryPush(2)

	var dp AudioDataPlane
	dp.OutputChannels = 1
	dp.Start()
	dp.UseStreaming(r, 1)

	dp.Process(4, 1.0, devices.StreamStatus{}, nil, 48000)

	if dp.Stats.UnderrunCount == 0 {
		t.Fatalf("expected underrun to be counted when ring has fewer samples than requested")
	}
}

func TestRemapFramesTruncatesExtraChannels(t *testing.T) {
	src := []float32{1, 2, 3, 4} // one frame, 4 channels
	dst := make([]float32, 2)    // one frame, 2 channels
	remapFrames(src, dst, 4, 2)
	if dst[0] != 1 || dst[1] != 2 {
		t.Fatalf("expected truncation to first 2 channels, got %v", dst)
	}
}

func TestNotRunningProcessReturnsNil(t *testing.T) {
	var dp AudioDataPlane
	if buf := dp.Process(4, 1.0, devices.StreamStatus{}, nil, 48000); buf != nil {
		t.Fatalf("expected nil output for a stopped data plane, got %v", buf)
	}
}
