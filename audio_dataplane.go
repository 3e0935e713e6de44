package trackengine

import (
	"time"

	"github.com/halcyonaudio/trackengine/devices"
	"github.com/halcyonaudio/trackengine/ring"
)

// AudioStats holds the rolling statistics updated at the end of every
// Process call except the silent early-exit branch.
type AudioStats struct {
	TotalFramesRead uint64
	TotalBatches    uint64
	MinBatchMs      float64
	MaxBatchMs      float64
	TotalReadTimeMs float64
	ThroughputFPS   float64
	UnderrunCount   uint64
	OverrunCount    uint64 // not updated by Process; nothing in this module increments it
}

// AudioDataPlane is the per-track real-time pull source. All fields
// below InputChannels/OutputChannels are touched only from the audio
// callback thread once the track is playing; the control plane only
// reaches them through Start/Stop/Preload while the track is not
// playing.
type AudioDataPlane struct {
	InputChannels  int
	OutputChannels int
	Running        bool

	preloaded   []float32 // interleaved, empty when not using a preloaded source
	totalFrames int
	readCursor  int

	streaming   *ring.Buffer // non-nil when using a streaming source
	ringScratch []float32    // reused across Process calls, sized to nFrames*InputChannels

	outputBuffer []float32

	Stats AudioStats

	startedAt time.Time
}

// Start marks this data plane running and resets the read cursor.
// Called by Track.Play.
func (dp *AudioDataPlane) Start() {
	dp.Running = true
	dp.readCursor = 0
	dp.startedAt = time.Now()
}

// Stop implements the "stop" transition: mark not running, clear the
// preloaded buffer. Must not be called while the audio stream backing
// this track is still running.
func (dp *AudioDataPlane) Stop() {
	dp.Running = false
	dp.preloaded = nil
	dp.totalFrames = 0
	dp.readCursor = 0
}

// PreloadFile reads every frame of the source into memory before
// Play hands control to the audio callback.
func (dp *AudioDataPlane) PreloadFile(f interface {
	SeekToFrame(int)
	ReadFrames([]float32, int) int
}, totalFrames, channels int, logf func(string, ...any)) {
	f.SeekToFrame(0)
	dp.readCursor = 0
	dp.InputChannels = channels

	buf := make([]float32, totalFrames*channels)
	n := f.ReadFrames(buf, totalFrames)
	if n < totalFrames && logf != nil {
		logf("AudioDataPlane: preload read %d of %d expected frames, keeping short buffer", n, totalFrames)
	}

	dp.preloaded = buf[:n*channels]
	dp.totalFrames = n
	dp.streaming = nil
}

// UseStreaming attaches an SPSC ring as this data plane's streaming
// source, replacing any preloaded buffer.
func (dp *AudioDataPlane) UseStreaming(r *ring.Buffer, inputChannels int) {
	dp.streaming = r
	dp.preloaded = nil
	dp.totalFrames = 0
	dp.InputChannels = inputChannels
}

// Process runs the source read, channel remap, and processor chain for
// one callback invocation. It does NOT mix into the device buffer;
// that's done by the audio callback dispatch in audio_controller.go
// against every active track's output buffer. Returns the track-local
// output buffer.
func (dp *AudioDataPlane) Process(nFrames int, streamTime float64, status devices.StreamStatus, processors []Processor, sampleRate int) []float32 {
	if !dp.Running {
		return nil
	}

	start := time.Now()

	need := nFrames * dp.OutputChannels
	if len(dp.outputBuffer) != need {
		dp.outputBuffer = make([]float32, need)
	}
	for i := range dp.outputBuffer {
		dp.outputBuffer[i] = 0
	}

	switch {
	case dp.preloaded != nil:
		dp.readPreloaded(nFrames)
	case dp.streaming != nil:
		dp.readStreaming(nFrames)
	}

	for _, p := range processors {
		if p == nil || p.IsBypassed() {
			continue
		}
		p.ProcessAudio(dp.outputBuffer, dp.OutputChannels, nFrames, sampleRate)
	}

	dp.updateStats(nFrames, streamTime, time.Since(start))
	return dp.outputBuffer
}

// readPreloaded reads nFrames from the preloaded buffer starting at
// the read cursor, applying the channel remap rules and zero-filling
// whatever is short.
func (dp *AudioDataPlane) readPreloaded(nFrames int) {
	available := dp.totalFrames - dp.readCursor
	if available < 0 {
		available = 0
	}
	toRead := nFrames
	if toRead > available {
		toRead = available
	}

	if toRead > 0 {
		start := dp.readCursor * dp.InputChannels
		end := start + toRead*dp.InputChannels
		remapFrames(dp.preloaded[start:end], dp.outputBuffer[:toRead*dp.OutputChannels], dp.InputChannels, dp.OutputChannels)
	}
	dp.readCursor += toRead
	// Remaining frames in dp.outputBuffer are already zero from Process.
}

// readStreaming pops nFrames*InputChannels samples from the SPSC ring,
// counting underruns for whatever the consumer could not fill, then
// remaps.
func (dp *AudioDataPlane) readStreaming(nFrames int) {
	need := nFrames * dp.InputChannels
	if len(dp.ringScratch) < need {
		dp.ringScratch = make([]float32, need)
	}
	raw := dp.ringScratch[:need]
	got := dp.streaming.PopN(raw)
	if got < need {
		dp.Stats.UnderrunCount += uint64(need - got)
	}
	remapFrames(raw[:got], dp.outputBuffer, dp.InputChannels, dp.OutputChannels)
}

// remapFrames implements the channel remap rules: Ci==Co straight
// copy; Ci==1,Co>1 mono duplication; Ci>Co truncation; Ci<Co (Ci!=1)
// copy-then-zero-fill. dst is assumed pre-zeroed; src
// holds complete or partial frames (possibly fewer than dst's frame
// count, in which case the trailing dst frames stay zero).
func remapFrames(src, dst []float32, ci, co int) {
	if ci <= 0 || co <= 0 {
		return
	}
	srcFrames := len(src) / ci
	dstFrames := len(dst) / co
	frames := srcFrames
	if frames > dstFrames {
		frames = dstFrames
	}

	switch {
	case ci == co:
		copy(dst[:frames*co], src[:frames*ci])
	case ci == 1 && co > 1:
		for f := 0; f < frames; f++ {
			v := src[f]
			base := f * co
			for c := 0; c < co; c++ {
				dst[base+c] = v
			}
		}
	case ci > co:
		for f := 0; f < frames; f++ {
			copy(dst[f*co:f*co+co], src[f*ci:f*ci+co])
		}
	default: // ci < co, ci != 1
		for f := 0; f < frames; f++ {
			copy(dst[f*co:f*co+ci], src[f*ci:f*ci+ci])
			// dst[f*co+ci : f*co+co] stays zero.
		}
	}
}

func (dp *AudioDataPlane) updateStats(nFrames int, streamTime float64, batchDuration time.Duration) {
	s := &dp.Stats
	s.TotalFramesRead += uint64(nFrames)
	s.TotalBatches++

	ms := float64(batchDuration) / float64(time.Millisecond)
	s.TotalReadTimeMs += ms
	if s.TotalBatches == 1 || ms < s.MinBatchMs {
		s.MinBatchMs = ms
	}
	if ms > s.MaxBatchMs {
		s.MaxBatchMs = ms
	}

	elapsed := streamTime
	if elapsed < 0.001 {
		elapsed = 0.001
	}
	s.ThroughputFPS = float64(s.TotalFramesRead) / elapsed
}
