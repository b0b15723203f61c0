package cue

import (
	"fmt"
	"strings"

	"astrasub/internal/services"
)

// MalformedCueError identifies the first cue in a set that violates the cue
// invariants. It always indicates a programming or data defect, never a
// user-recoverable condition.
type MalformedCueError struct {
	Index  int
	Reason string
}

func (e *MalformedCueError) Error() string {
	return fmt.Sprintf("cue %d: %s", e.Index, e.Reason)
}

// Validate checks a single cue against the cue invariants: non-negative
// start, end strictly after start, non-blank text, confidence in [0,1].
func Validate(c Cue) error {
	if reason := invalidReason(c); reason != "" {
		return services.Wrap(services.ErrMalformedCue, "cue", "validate", reason, nil)
	}
	return nil
}

// ValidateSet checks that every cue is valid, the set is sorted by StartMs,
// no two cues overlap, and no two cues share identical (start, end, text).
func ValidateSet(s Set) error {
	seen := make(map[string]struct{}, len(s))
	for i, c := range s {
		if reason := invalidReason(c); reason != "" {
			return wrapIndex(i, reason)
		}
		if i > 0 {
			prev := s[i-1]
			if c.StartMs < prev.StartMs {
				return wrapIndex(i, fmt.Sprintf("start %dms precedes previous start %dms", c.StartMs, prev.StartMs))
			}
			if c.StartMs < prev.EndMs {
				return wrapIndex(i, fmt.Sprintf("start %dms overlaps previous end %dms", c.StartMs, prev.EndMs))
			}
		}
		key := fmt.Sprintf("%d/%d/%s", c.StartMs, c.EndMs, c.Text)
		if _, dup := seen[key]; dup {
			return wrapIndex(i, "duplicate cue")
		}
		seen[key] = struct{}{}
	}
	return nil
}

func wrapIndex(index int, reason string) error {
	return services.Wrap(services.ErrMalformedCue, "cue", "validate set", "", &MalformedCueError{Index: index, Reason: reason})
}

func invalidReason(c Cue) string {
	switch {
	case c.StartMs < 0:
		return fmt.Sprintf("negative start %dms", c.StartMs)
	case c.EndMs <= c.StartMs:
		return fmt.Sprintf("end %dms not after start %dms", c.EndMs, c.StartMs)
	case strings.TrimSpace(c.Text) == "":
		return "blank text"
	case c.Confidence < 0 || c.Confidence > 1:
		return fmt.Sprintf("confidence %v outside [0,1]", c.Confidence)
	default:
		return ""
	}
}
