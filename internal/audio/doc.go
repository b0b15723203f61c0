// Package audio defines the in-memory audio representation consumed by the
// recognizer and the ffmpeg-backed extraction adapter that produces it.
package audio
