package cue

import (
	"errors"
	"testing"

	"astrasub/internal/services"
)

func validCue(start, end int64, text string) Cue {
	return Cue{Text: text, StartMs: start, EndMs: end, Confidence: 0.9, Language: DefaultLanguage}
}

func TestValidateAcceptsWellFormedCue(t *testing.T) {
	if err := Validate(validCue(0, 1500, "Hello")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsDefects(t *testing.T) {
	tests := []struct {
		name string
		cue  Cue
	}{
		{"negative start", validCue(-1, 100, "hi")},
		{"end before start", validCue(200, 100, "hi")},
		{"end equals start", validCue(100, 100, "hi")},
		{"blank text", validCue(0, 100, "   ")},
		{"confidence above one", Cue{Text: "hi", StartMs: 0, EndMs: 100, Confidence: 1.5}},
		{"confidence below zero", Cue{Text: "hi", StartMs: 0, EndMs: 100, Confidence: -0.1}},
	}
	for _, tc := range tests {
		err := Validate(tc.cue)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !errors.Is(err, services.ErrMalformedCue) {
			t.Fatalf("%s: expected malformed cue marker, got %v", tc.name, err)
		}
	}
}

func TestValidateSetReportsOffendingIndex(t *testing.T) {
	set := Set{
		validCue(0, 1000, "one"),
		validCue(1000, 2000, "two"),
		validCue(1500, 2500, "overlaps"),
	}
	err := ValidateSet(set)
	if err == nil {
		t.Fatal("expected error")
	}
	var malformed *MalformedCueError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedCueError, got %v", err)
	}
	if malformed.Index != 2 {
		t.Fatalf("expected index 2, got %d", malformed.Index)
	}
}

func TestValidateSetRejectsDuplicates(t *testing.T) {
	a := validCue(0, 1000, "same")
	b := validCue(0, 1000, "same")
	err := ValidateSet(Set{a, b})
	if err == nil {
		t.Fatal("expected duplicate error")
	}
}

func TestValidateSetAllowsTouchingCues(t *testing.T) {
	set := Set{
		validCue(0, 1000, "one"),
		validCue(1000, 2000, "two"),
	}
	if err := ValidateSet(set); err != nil {
		t.Fatalf("adjacent cues should be legal: %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := Set{validCue(0, 1000, "one")}
	cloned := orig.Clone()
	cloned[0].Text = "changed"
	if orig[0].Text != "one" {
		t.Fatal("clone mutated original")
	}
}

func TestDurationAndWordCount(t *testing.T) {
	c := validCue(500, 2500, "three little words")
	if c.DurationMs() != 2000 {
		t.Fatalf("expected 2000ms, got %d", c.DurationMs())
	}
	if c.WordCount() != 3 {
		t.Fatalf("expected 3 words, got %d", c.WordCount())
	}
	set := Set{c, validCue(3000, 4000, "two more")}
	if set.TotalWords() != 5 {
		t.Fatalf("expected 5 total words, got %d", set.TotalWords())
	}
}
