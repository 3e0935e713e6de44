// Package wavfile loads WAV files into interleaved float32 frames on
// top of github.com/go-audio/wav.
package wavfile

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// File is a fully decoded WAV file: interleaved float32 samples held
// in memory, with a frame cursor for sequential reads. This backs the
// track's preload path (read everything once); SeekToFrame lets reads
// start from any frame.
type File struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	TotalFrames   int

	data   []float32 // interleaved, len == TotalFrames*Channels
	cursor int        // in frames
}

// Load decodes the WAV file at path fully into memory. Matches the
// go-audio/wav decode pattern used by the AIFF reference decoder:
// NewDecoder, ReadInfo, then PCMBuffer into an IntBuffer normalized to
// float32 by bit depth.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavfile: open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("wavfile: %s is not a valid WAV file", path)
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil {
		return nil, fmt.Errorf("wavfile: %s has no usable format chunk", path)
	}

	buf := &goaudio.IntBuffer{
		Format: format,
		Data:   make([]int, 0, 4096),
	}

	var samples []float32
	maxVal := maxValueForBitDepth(int(dec.BitDepth))

	chunk := make([]int, 4096)
	for {
		buf.Data = chunk
		n, err := dec.PCMBuffer(buf)
		for i := 0; i < n; i++ {
			samples = append(samples, float32(buf.Data[i])/maxVal)
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("wavfile: reading %s: %w", path, err)
		}
		if n == 0 || err == io.EOF {
			break
		}
	}

	channels := format.NumChannels
	if channels <= 0 {
		channels = 1
	}

	return &File{
		SampleRate:    format.SampleRate,
		Channels:      channels,
		BitsPerSample: int(dec.BitDepth),
		TotalFrames:   len(samples) / channels,
		data:          samples,
	}, nil
}

func maxValueForBitDepth(bits int) float32 {
	switch bits {
	case 8:
		return 128.0
	case 16:
		return 32768.0
	case 24:
		return 8388608.0
	case 32:
		return 2147483648.0
	default:
		return 32768.0
	}
}

// SeekToFrame repositions the read cursor. Out-of-range values clamp
// to [0, TotalFrames].
func (f *File) SeekToFrame(frame int) {
	if frame < 0 {
		frame = 0
	}
	if frame > f.TotalFrames {
		frame = f.TotalFrames
	}
	f.cursor = frame
}

// ReadFrames copies up to n frames of interleaved samples into dst
// (which must be at least n*Channels long) starting at the current
// cursor, advances the cursor, and returns the number of frames
// actually copied.
func (f *File) ReadFrames(dst []float32, n int) int {
	available := f.TotalFrames - f.cursor
	if n > available {
		n = available
	}
	if n <= 0 {
		return 0
	}
	start := f.cursor * f.Channels
	end := start + n*f.Channels
	copy(dst, f.data[start:end])
	f.cursor += n
	return n
}

func (f *File) String() string {
	return fmt.Sprintf("WavFile(sr=%d, ch=%d, frames=%d)", f.SampleRate, f.Channels, f.TotalFrames)
}
