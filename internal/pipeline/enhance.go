package pipeline

import (
	"strings"

	"astrasub/internal/cue"
)

// enhance cleans recognizer text artifacts on a cloned set: runs of
// whitespace collapse to single spaces and cues that consist solely of a
// non-speech annotation such as "[Music]" or "(inaudible)" are dropped.
func enhance(set cue.Set) cue.Set {
	enhanced := make(cue.Set, 0, len(set))
	for _, c := range set.Clone() {
		c.Text = collapseWhitespace(c.Text)
		if c.Text == "" || isAnnotation(c.Text) {
			continue
		}
		enhanced = append(enhanced, c)
	}
	return enhanced
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func isAnnotation(text string) bool {
	if len(text) < 2 {
		return false
	}
	first, last := text[0], text[len(text)-1]
	if (first == '[' && last == ']') || (first == '(' && last == ')') {
		inner := text[1 : len(text)-1]
		return !strings.ContainsAny(inner, "[]()")
	}
	return false
}
