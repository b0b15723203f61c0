// Package scoring computes per-cue readability and quality metrics plus
// aggregate statistics for a whole cue set.
//
// Readability is the ratio of available display time to the time a viewer
// needs to read the text at the configured reading speed. Quality blends
// recognizer confidence, readability, and a text-length fitness term with
// equal weight.
package scoring
