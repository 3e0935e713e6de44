package analysis

import "testing"

func TestRMSOfConstantSignal(t *testing.T) {
	buf := []float32{0.5, 0.5, 0.5, 0.5}
	if got := RMS(buf, 1, 0); got < 0.49 || got > 0.51 {
		t.Fatalf("RMS = %v, want ~0.5", got)
	}
}

func TestAnalyzeStereoHardLeftImbalance(t *testing.T) {
	buf := []float32{1, 0, 1, 0, 1, 0}
	res := AnalyzeStereo(buf)
	if res.Balance >= 0 {
		t.Fatalf("expected negative (left-leaning) balance, got %v", res.Balance)
	}
	if res.MonoCompat {
		t.Fatalf("expected MonoCompat false for a hard-left signal")
	}
}

func TestGainChangeDBUnityIsZero(t *testing.T) {
	if got := GainChangeDB(0.5, 0.5); got != 0 {
		t.Fatalf("GainChangeDB unity = %v, want 0", got)
	}
}
