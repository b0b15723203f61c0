package audio

import "context"

// Context holds decoded mono audio normalized to [-1, 1]. It is owned
// exclusively by the stage that produced it and never shared mutable.
type Context struct {
	Samples    []float32
	SampleRate int
}

// DurationMs returns the audio duration derived from sample count and rate.
func (c Context) DurationMs() int64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return int64(len(c.Samples)) * 1000 / int64(c.SampleRate)
}

// ChunkSource supplies raw audio chunks for streaming subtitle generation.
// NextChunk returns ok=false when no data is currently available; the caller
// skips the tick rather than treating that as an error.
type ChunkSource interface {
	NextChunk(ctx context.Context, durationMs int64) (samples []float32, ok bool)
}
