// Package subexport serializes finalized cue sets into the SRT, WebVTT, ASS,
// and TTML container formats. Serialization is deterministic: exporting the
// same set twice yields byte-identical output.
package subexport
