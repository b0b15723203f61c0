package timing

import (
	"fmt"
	"sort"
	"strings"

	"astrasub/internal/audio"
	"astrasub/internal/cue"
	"astrasub/internal/services"
)

// Options bounds the shape of optimized cues. All fields are required.
type Options struct {
	MinDurationMs      int64
	MaxDurationMs      int64
	MaxWordsPerSegment int
	// Language is stamped onto produced cues; defaults to cue.DefaultLanguage.
	Language string
}

// Validate checks option consistency once at pipeline start.
func (o Options) Validate() error {
	if o.MinDurationMs <= 0 {
		return services.Wrap(services.ErrConfiguration, "timing", "validate", fmt.Sprintf("min duration %dms must be positive", o.MinDurationMs), nil)
	}
	if o.MaxDurationMs < o.MinDurationMs {
		return services.Wrap(services.ErrConfiguration, "timing", "validate", fmt.Sprintf("max duration %dms below min %dms", o.MaxDurationMs, o.MinDurationMs), nil)
	}
	if o.MaxWordsPerSegment <= 0 {
		return services.Wrap(services.ErrConfiguration, "timing", "validate", fmt.Sprintf("max words %d must be positive", o.MaxWordsPerSegment), nil)
	}
	return nil
}

func (o Options) language() string {
	if strings.TrimSpace(o.Language) == "" {
		return cue.DefaultLanguage
	}
	return o.Language
}

// Optimize shapes recognizer segments into a finalized cue set. Blank
// segments are discarded, overlong segments split on word-count boundaries,
// durations clamped into [MinDurationMs, MaxDurationMs], and the result is
// sorted by start time with no overlaps.
//
// The final cue may legitimately end up to one MinDurationMs past the end of
// the audio; callers must tolerate that rather than treat it as an error.
func Optimize(segments []cue.RawTranscriptSegment, audioCtx audio.Context, opts Options) (cue.Set, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	working := make([]cue.RawTranscriptSegment, 0, len(segments))
	for _, seg := range segments {
		if strings.TrimSpace(seg.Text) == "" {
			continue
		}
		working = append(working, splitSegment(seg, opts.MaxWordsPerSegment)...)
	}

	sort.SliceStable(working, func(i, j int) bool {
		return working[i].StartMs < working[j].StartMs
	})

	clampDurations(working, opts)
	working = resolveOverlaps(working)

	set := make(cue.Set, 0, len(working))
	for _, seg := range working {
		set = append(set, cue.Cue{
			Text:       strings.TrimSpace(seg.Text),
			StartMs:    seg.StartMs,
			EndMs:      seg.EndMs,
			Confidence: seg.Confidence,
			SpeakerID:  seg.SpeakerID,
			Language:   opts.language(),
		})
	}

	if err := cue.ValidateSet(set); err != nil {
		return nil, err
	}
	return set, nil
}

// splitSegment divides a segment whose word count exceeds maxWords into
// consecutive sub-segments, greedily packing words and distributing the
// original time span proportionally to each sub-segment's word share. The
// split never crosses the original segment's time bounds.
func splitSegment(seg cue.RawTranscriptSegment, maxWords int) []cue.RawTranscriptSegment {
	words := strings.Fields(seg.Text)
	if len(words) <= maxWords {
		return []cue.RawTranscriptSegment{seg}
	}

	total := len(words)
	span := seg.EndMs - seg.StartMs

	var out []cue.RawTranscriptSegment
	consumed := 0
	for consumed < total {
		count := maxWords
		if remaining := total - consumed; remaining < count {
			count = remaining
		}
		startMs := seg.StartMs + span*int64(consumed)/int64(total)
		endMs := seg.StartMs + span*int64(consumed+count)/int64(total)
		out = append(out, cue.RawTranscriptSegment{
			Text:       strings.Join(words[consumed:consumed+count], " "),
			StartMs:    startMs,
			EndMs:      endMs,
			Confidence: seg.Confidence,
			SpeakerID:  seg.SpeakerID,
		})
		consumed += count
	}
	return out
}

// resolveOverlaps finalizes a start-sorted slice: recognizer input may carry
// transient overlaps, which are legal during construction but not in the
// returned set. The earlier cue is truncated to the successor's start; cues
// squeezed to nothing and exact duplicates are dropped.
func resolveOverlaps(segments []cue.RawTranscriptSegment) []cue.RawTranscriptSegment {
	out := segments[:0]
	seen := make(map[string]struct{}, len(segments))
	for i := range segments {
		seg := segments[i]
		if i+1 < len(segments) && seg.EndMs > segments[i+1].StartMs {
			seg.EndMs = segments[i+1].StartMs
		}
		if seg.EndMs <= seg.StartMs {
			continue
		}
		key := fmt.Sprintf("%d/%d/%s", seg.StartMs, seg.EndMs, seg.Text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, seg)
	}
	return out
}

// clampDurations enforces duration bounds in place on a start-sorted slice.
// A short cue is extended toward MinDurationMs but capped at the next cue's
// start; landing exactly on the next start is legal adjacency. An overlong
// cue is truncated to MaxDurationMs.
func clampDurations(segments []cue.RawTranscriptSegment, opts Options) {
	for i := range segments {
		seg := &segments[i]
		duration := seg.EndMs - seg.StartMs
		if duration < opts.MinDurationMs {
			extended := seg.StartMs + opts.MinDurationMs
			if i+1 < len(segments) && extended > segments[i+1].StartMs {
				// Close the gap instead of overlapping the successor.
				extended = segments[i+1].StartMs
			}
			if extended > seg.EndMs {
				seg.EndMs = extended
			}
		}
		if seg.EndMs-seg.StartMs > opts.MaxDurationMs {
			seg.EndMs = seg.StartMs + opts.MaxDurationMs
		}
	}
}
