package subexport

import (
	"errors"
	"strings"
	"testing"

	"astrasub/internal/cue"
	"astrasub/internal/services"
)

func TestParseSRTRoundTrip(t *testing.T) {
	set := cue.Set{
		{Text: "Hello", StartMs: 0, EndMs: 1500, Confidence: 1, Language: "en"},
		{Text: "Two\nlines", StartMs: 2000, EndMs: 4000, Confidence: 1, Language: "en"},
	}
	exported, err := Export(set, FormatSRT)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	parsed, err := ParseSRT(exported, "en")
	if err != nil {
		t.Fatalf("ParseSRT: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("cue count = %d, want 2", len(parsed))
	}
	for i := range set {
		if parsed[i].Text != set[i].Text {
			t.Errorf("cue %d text = %q, want %q", i, parsed[i].Text, set[i].Text)
		}
		if parsed[i].StartMs != set[i].StartMs || parsed[i].EndMs != set[i].EndMs {
			t.Errorf("cue %d timing = %d..%d, want %d..%d",
				i, parsed[i].StartMs, parsed[i].EndMs, set[i].StartMs, set[i].EndMs)
		}
	}
}

func TestParseSRTToleratesCRLFAndMissingNumbers(t *testing.T) {
	content := "00:00:00,000 --> 00:00:01,000\r\nHi\r\n\r\n2\r\n00:00:02,000 --> 00:00:03,000\r\nBye\r\n"
	parsed, err := ParseSRT(content, "")
	if err != nil {
		t.Fatalf("ParseSRT: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("cue count = %d, want 2", len(parsed))
	}
	if parsed[0].Language != cue.DefaultLanguage {
		t.Fatalf("language = %q, want default", parsed[0].Language)
	}
	if parsed[1].Text != "Bye" {
		t.Fatalf("second text = %q", parsed[1].Text)
	}
}

func TestParseSRTRejectsMalformed(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"garbage timing", "1\nnot a timing line\nText\n\n"},
		{"missing text", "1\n00:00:00,000 --> 00:00:01,000\n\n"},
		{"overlapping cues", strings.Join([]string{
			"1", "00:00:00,000 --> 00:00:02,000", "A", "",
			"2", "00:00:01,000 --> 00:00:03,000", "B", "",
		}, "\n")},
	}
	for _, tc := range cases {
		if _, err := ParseSRT(tc.content, "en"); err == nil {
			t.Errorf("%s: expected error", tc.name)
		} else if !errors.Is(err, services.ErrMalformedCue) {
			t.Errorf("%s: unexpected error class: %v", tc.name, err)
		}
	}
}
