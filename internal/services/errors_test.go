package services_test

import (
	"errors"
	"strings"
	"testing"

	"astrasub/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrRecognition, "recognizer", "transcribe", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrRecognition) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"recognizer", "transcribe", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "pipeline", "run", "unexpected", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestFatalClassification(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"nil", nil, false},
		{"translation", services.Wrap(services.ErrTranslation, "translate", "batch", "fr failed", nil), false},
		{"export", services.Wrap(services.ErrExport, "export", "write", "ass failed", nil), false},
		{"no audio", services.Wrap(services.ErrNoAudioTrack, "audio", "extract", "no stream", nil), true},
		{"malformed", services.Wrap(services.ErrMalformedCue, "cue", "validate", "cue 3", nil), true},
		{"recognition", services.Wrap(services.ErrRecognition, "recognizer", "transcribe", "timeout", nil), true},
	}
	for _, tc := range tests {
		if got := services.Fatal(tc.err); got != tc.fatal {
			t.Fatalf("%s: expected fatal=%v, got %v", tc.name, tc.fatal, got)
		}
	}
}
