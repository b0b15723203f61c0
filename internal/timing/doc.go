// Package timing converts raw transcript segments into subtitle cues that
// honor duration bounds and per-cue word limits. Overlong segments are split
// with the original time span distributed proportionally to word count; short
// cues are extended up to the next cue's start, never into it.
package timing
