package cue

import (
	"strings"
)

// DefaultLanguage is used for cues whose language was never set explicitly.
const DefaultLanguage = "en"

// RawTranscriptSegment is a single segment as produced by the recognizer.
// Segments are immutable once produced.
type RawTranscriptSegment struct {
	Text       string  `json:"text"`
	StartMs    int64   `json:"start_ms"`
	EndMs      int64   `json:"end_ms"`
	Confidence float32 `json:"confidence"`
	SpeakerID  string  `json:"speaker_id,omitempty"`
}

// Cue is a single subtitle entry. Cues are created by the timing optimizer
// and updated copy-on-write by the enhancement, translation, and scoring
// stages; after a pipeline run completes they are read-only.
type Cue struct {
	Text             string  `json:"text"`
	StartMs          int64   `json:"start_ms"`
	EndMs            int64   `json:"end_ms"`
	Confidence       float32 `json:"confidence"`
	SpeakerID        string  `json:"speaker_id,omitempty"`
	Language         string  `json:"language"`
	IsTranslated     bool    `json:"is_translated"`
	ReadabilityScore float32 `json:"readability_score"`
	QualityScore     float32 `json:"quality_score"`
}

// DurationMs returns the display duration of the cue.
func (c Cue) DurationMs() int64 {
	return c.EndMs - c.StartMs
}

// WordCount returns the number of whitespace-separated words in the cue text.
func (c Cue) WordCount() int {
	return len(strings.Fields(c.Text))
}

// StreamingCue is a cue emitted by the streaming generator. IsFinal is false
// while the recognizer may still revise the text for the same time window.
type StreamingCue struct {
	Cue
	IsFinal bool `json:"is_final"`
}

// Set is an ordered sequence of cues for one language track, sorted by
// StartMs ascending. A finalized set has no overlapping cues.
type Set []Cue

// Clone returns a deep copy of the set. Stages that modify cues operate on a
// clone so concurrently running pipeline invocations never share mutable
// state.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	copy(out, s)
	return out
}

// TotalWords returns the total word count across all cues.
func (s Set) TotalWords() int {
	total := 0
	for _, c := range s {
		total += c.WordCount()
	}
	return total
}
