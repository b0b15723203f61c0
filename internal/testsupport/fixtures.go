package testsupport

import (
	"astrasub/internal/audio"
	"astrasub/internal/cue"
)

// Segment builds a raw transcript segment with full confidence.
func Segment(text string, startMs, endMs int64) cue.RawTranscriptSegment {
	return cue.RawTranscriptSegment{
		Text:       text,
		StartMs:    startMs,
		EndMs:      endMs,
		Confidence: 1,
	}
}

// Cue builds a valid cue in the default language.
func Cue(text string, startMs, endMs int64) cue.Cue {
	return cue.Cue{
		Text:       text,
		StartMs:    startMs,
		EndMs:      endMs,
		Confidence: 1,
		Language:   cue.DefaultLanguage,
	}
}

// Audio builds a silent mono context of the given duration at the
// extraction sample rate.
func Audio(durationMs int64) audio.Context {
	samples := make([]float32, durationMs*int64(audio.ExtractSampleRate)/1000)
	return audio.Context{Samples: samples, SampleRate: audio.ExtractSampleRate}
}
