// Package analysis provides signal-level measurement (RMS, stereo
// balance, gain change in dB) over plain interleaved float32 buffers,
// without relying on real device taps.
package analysis

import "math"

// RMS computes the root-mean-square level of an interleaved buffer
// restricted to one channel out of channels total.
func RMS(buf []float32, channels, channel int) float64 {
	if channels <= 0 || channel < 0 || channel >= channels {
		return 0
	}
	var sumSquares float64
	count := 0
	for i := channel; i < len(buf); i += channels {
		v := float64(buf[i])
		sumSquares += v * v
		count++
	}
	if count == 0 {
		return 0
	}
	return math.Sqrt(sumSquares / float64(count))
}

// StereoBalance is the result of AnalyzeStereo on a two-channel
// interleaved buffer: per-channel and overall RMS, and a balance equal
// to (right-left)/(right+left) of the channel RMS levels, measured
// directly from the buffer instead of a live tap.
type StereoBalance struct {
	LeftRMS     float64
	RightRMS    float64
	TotalRMS    float64
	Balance     float64 // -1 (hard left) .. +1 (hard right)
	MonoCompat  bool    // true when the channel levels are close enough to sum cleanly
}

// AnalyzeStereo measures a two-channel interleaved buffer.
func AnalyzeStereo(buf []float32) StereoBalance {
	left := RMS(buf, 2, 0)
	right := RMS(buf, 2, 1)
	total := RMS(buf, 1, 0)

	var balance float64
	if left+right > 0 {
		balance = (right - left) / (right + left)
	}

	return StereoBalance{
		LeftRMS:    left,
		RightRMS:   right,
		TotalRMS:   total,
		Balance:    balance,
		MonoCompat: math.Abs(left-right) < 1e-6,
	}
}

// GainChangeDB returns the dB change between an input and output RMS
// level, 0 when either level is non-positive (no signal to compare).
func GainChangeDB(inputRMS, outputRMS float64) float64 {
	if inputRMS <= 0 || outputRMS <= 0 {
		return 0
	}
	return 20 * math.Log10(outputRMS/inputRMS)
}
