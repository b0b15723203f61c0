package subexport

import (
	"strings"

	"astrasub/internal/cue"
	"astrasub/internal/services"
	"astrasub/internal/timecode"
)

// ParseSRT reads SubRip content back into a cue set, tolerating CRLF line
// endings and blank-line padding. Cues get full confidence; the caller stamps
// the language. The returned set is validated.
func ParseSRT(content, language string) (cue.Set, error) {
	if strings.TrimSpace(language) == "" {
		language = cue.DefaultLanguage
	}
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	blocks := strings.Split(normalized, "\n\n")

	var set cue.Set
	for _, block := range blocks {
		lines := nonEmptyLines(block)
		if len(lines) == 0 {
			continue
		}
		// Leading sequence number is optional in the wild.
		if len(lines) > 1 && isSequenceNumber(lines[0]) {
			lines = lines[1:]
		}
		if len(lines) < 2 {
			return nil, services.Wrap(services.ErrMalformedCue, "subexport", "parse-srt",
				"cue block missing timing or text: "+strings.Join(lines, " "), nil)
		}
		startMs, endMs, ok := parseTimingLine(lines[0])
		if !ok {
			return nil, services.Wrap(services.ErrMalformedCue, "subexport", "parse-srt",
				"invalid timing line: "+lines[0], nil)
		}
		set = append(set, cue.Cue{
			Text:       strings.Join(lines[1:], "\n"),
			StartMs:    startMs,
			EndMs:      endMs,
			Confidence: 1,
			Language:   language,
		})
	}

	if err := cue.ValidateSet(set); err != nil {
		return nil, err
	}
	return set, nil
}

func parseTimingLine(line string) (int64, int64, bool) {
	parts := strings.Split(line, "-->")
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, ok := timecode.Decode(strings.TrimSpace(parts[0]), timecode.FormatSRT)
	if !ok {
		return 0, 0, false
	}
	end, ok := timecode.Decode(strings.TrimSpace(parts[1]), timecode.FormatSRT)
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

func nonEmptyLines(block string) []string {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func isSequenceNumber(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
