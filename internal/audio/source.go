package audio

import (
	"context"
	"sync"
)

// PlaybackSource replays a decoded Context chunk by chunk, simulating a live
// capture feed. It is safe for use from a single consumer goroutine plus
// Remaining callers.
type PlaybackSource struct {
	mu     sync.Mutex
	ctx    Context
	offset int
}

// NewPlaybackSource wraps an already-decoded audio context.
func NewPlaybackSource(audioCtx Context) *PlaybackSource {
	return &PlaybackSource{ctx: audioCtx}
}

// NextChunk returns the next durationMs worth of samples. The final chunk may
// be shorter. Returns ok=false once the source is exhausted.
func (p *PlaybackSource) NextChunk(_ context.Context, durationMs int64) ([]float32, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if durationMs <= 0 || p.ctx.SampleRate <= 0 {
		return nil, false
	}
	if p.offset >= len(p.ctx.Samples) {
		return nil, false
	}

	count := int(durationMs * int64(p.ctx.SampleRate) / 1000)
	if count <= 0 {
		return nil, false
	}
	end := p.offset + count
	if end > len(p.ctx.Samples) {
		end = len(p.ctx.Samples)
	}
	chunk := make([]float32, end-p.offset)
	copy(chunk, p.ctx.Samples[p.offset:end])
	p.offset = end
	return chunk, true
}

// Remaining reports whether the source still has samples to deliver.
func (p *PlaybackSource) Remaining() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.offset < len(p.ctx.Samples)
}
