package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(false, &buf)
	l.SetLevel(Warning)

	l.Info(nil, "should not appear")
	l.Warning(nil, "should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Fatalf("Info line leaked through Warning filter: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Fatalf("Warning line missing: %q", out)
	}
}

func TestThreadNameTag(t *testing.T) {
	var buf bytes.Buffer
	l := New(false, &buf)
	token := "audio"
	l.SetThreadName(token, "audio-callback")
	l.Info(token, "started")

	if !strings.Contains(buf.String(), "[audio-callback]") {
		t.Fatalf("expected thread name tag in output, got %q", buf.String())
	}
}

func TestUntaggedThreadOmitsBrackets(t *testing.T) {
	var buf bytes.Buffer
	l := New(false, &buf)
	l.Info(nil, "hello")

	if strings.Count(buf.String(), "[") != 2 {
		t.Fatalf("expected exactly timestamp+level brackets, got %q", buf.String())
	}
}
