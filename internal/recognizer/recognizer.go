package recognizer

import (
	"context"

	"astrasub/internal/audio"
	"astrasub/internal/cue"
)

// Batch transcribes a complete audio context into timestamped segments.
type Batch interface {
	Transcribe(ctx context.Context, audioCtx audio.Context, language string, diarization bool) ([]cue.RawTranscriptSegment, error)
}

// Chunk transcribes a short sample window during streaming playback. An
// empty string means "no speech"; it is not an error.
type Chunk interface {
	TranscribeChunk(ctx context.Context, samples []float32) (string, error)
}
