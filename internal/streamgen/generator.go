// Package streamgen emits partial subtitle cues for actively playing media.
//
// A Generator runs one cancellable background loop per playback session. Each
// tick pulls the newest audio chunk from the source, accumulates it in a
// bounded RingWindow, and once enough chunks are buffered invokes the chunk
// recognizer on the concatenated window, emitting a non-final StreamingCue
// when speech is found. Per-tick recognition errors are logged and swallowed;
// the loop never dies on a transient backend failure.
package streamgen

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"astrasub/internal/audio"
	"astrasub/internal/cue"
	"astrasub/internal/logging"
	"astrasub/internal/recognizer"
	"astrasub/internal/services"
)

// Options tunes the streaming loop.
type Options struct {
	// BufferSize is the ring capacity in chunks.
	BufferSize int
	// ChunkDurationMs is the duration requested from the source per tick.
	ChunkDurationMs int64
	// MinimumProcessingChunks is the accumulation threshold before the
	// recognizer is invoked on the concatenated window.
	MinimumProcessingChunks int
	// OverlapChunks seeds the next accumulation window from the tail of the
	// ring, preserving cross-boundary speech context.
	OverlapChunks int
	// ProcessingInterval is the sleep between ticks.
	ProcessingInterval time.Duration
}

// Validate checks option consistency.
func (o Options) Validate() error {
	switch {
	case o.BufferSize <= 0:
		return services.Wrap(services.ErrConfiguration, "streamgen", "validate", "buffer size must be positive", nil)
	case o.ChunkDurationMs <= 0:
		return services.Wrap(services.ErrConfiguration, "streamgen", "validate", "chunk duration must be positive", nil)
	case o.MinimumProcessingChunks <= 0:
		return services.Wrap(services.ErrConfiguration, "streamgen", "validate", "minimum processing chunks must be positive", nil)
	case o.MinimumProcessingChunks > o.BufferSize:
		return services.Wrap(services.ErrConfiguration, "streamgen", "validate", "minimum processing chunks exceeds buffer size", nil)
	case o.OverlapChunks < 0 || o.OverlapChunks >= o.BufferSize:
		return services.Wrap(services.ErrConfiguration, "streamgen", "validate", "overlap chunks must be in [0, buffer size)", nil)
	case o.ProcessingInterval <= 0:
		return services.Wrap(services.ErrConfiguration, "streamgen", "validate", "processing interval must be positive", nil)
	}
	return nil
}

// CueSink receives streaming cues as they are produced.
type CueSink interface {
	HandleStreamingCue(cue.StreamingCue)
}

// CueFunc adapts a plain function to the CueSink interface.
type CueFunc func(cue.StreamingCue)

// HandleStreamingCue calls f(c).
func (f CueFunc) HandleStreamingCue(c cue.StreamingCue) {
	f(c)
}

// drainable is the optional "still playing" signal a chunk source may expose.
// When NextChunk reports no data and Remaining is false, the session ends
// cleanly instead of idling forever.
type drainable interface {
	Remaining() bool
}

// Generator drives one streaming subtitle session at a time.
type Generator struct {
	opts     Options
	source   audio.ChunkSource
	chunkRec recognizer.Chunk
	sink     CueSink
	logger   *slog.Logger
	language string

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// New assembles a Generator. The sink is required; language defaults to
// cue.DefaultLanguage.
func New(opts Options, source audio.ChunkSource, chunkRec recognizer.Chunk, sink CueSink, language string, logger *slog.Logger) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, services.Wrap(services.ErrConfiguration, "streamgen", "new", "chunk source is required", nil)
	}
	if chunkRec == nil {
		return nil, services.Wrap(services.ErrConfiguration, "streamgen", "new", "chunk recognizer is required", nil)
	}
	if sink == nil {
		return nil, services.Wrap(services.ErrConfiguration, "streamgen", "new", "cue sink is required", nil)
	}
	if strings.TrimSpace(language) == "" {
		language = cue.DefaultLanguage
	}
	return &Generator{
		opts:     opts,
		source:   source,
		chunkRec: chunkRec,
		sink:     sink,
		language: language,
		logger:   logging.NewComponentLogger(logger, "streamgen"),
	}, nil
}

// Start launches the session loop. Starting while a session is active is a
// no-op.
func (g *Generator) Start(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		g.logger.Debug("start ignored, session already active")
		return
	}
	sessionCtx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.running = true
	g.wg.Add(1)

	sessionID := uuid.NewString()
	go func() {
		defer g.wg.Done()
		defer func() {
			g.mu.Lock()
			g.running = false
			g.mu.Unlock()
		}()
		g.run(logging.WithSessionID(sessionCtx, sessionID))
	}()
}

// Stop cancels the active session, if any, and waits for the loop to exit.
// No cue is emitted after Stop returns.
func (g *Generator) Stop() {
	g.mu.Lock()
	cancel := g.cancel
	g.cancel = nil
	g.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	g.wg.Wait()
}

// Running reports whether a session loop is active.
func (g *Generator) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}

func (g *Generator) run(ctx context.Context) {
	logger := logging.WithContext(ctx, g.logger)
	logger.Info("streaming session started",
		logging.String(logging.FieldEventType, "stream_start"),
		logging.Int("buffer_size", g.opts.BufferSize),
	)

	ring := NewRingWindow(g.opts.BufferSize)
	var accumulated [][]float32
	started := time.Now()

	for {
		if ctx.Err() != nil {
			logger.Info("streaming session canceled",
				logging.String(logging.FieldEventType, "stream_cancel"))
			return
		}

		chunk, ok := g.source.NextChunk(ctx, g.opts.ChunkDurationMs)
		if !ok {
			if src, drained := g.source.(drainable); drained && !src.Remaining() {
				// Playback ended: flush whatever is still buffered as the
				// one final cue, then acknowledge termination.
				g.flushFinal(ctx, logger, accumulated, started)
				logger.Info("streaming session drained",
					logging.String(logging.FieldEventType, "stream_complete"))
				return
			}
			if !g.sleep(ctx) {
				return
			}
			continue
		}

		ring.Push(chunk)
		accumulated = append(accumulated, chunk)

		if len(accumulated) >= g.opts.MinimumProcessingChunks {
			g.processWindow(ctx, logger, accumulated, started, false)
			accumulated = ring.TailChunks(g.opts.OverlapChunks)
		}

		if !g.sleep(ctx) {
			return
		}
	}
}

// processWindow transcribes the concatenated window and emits one cue when
// speech is found. Recognition errors are logged and swallowed.
func (g *Generator) processWindow(ctx context.Context, logger *slog.Logger, window [][]float32, started time.Time, final bool) {
	if len(window) == 0 {
		return
	}
	text, err := g.chunkRec.TranscribeChunk(ctx, concat(window))
	if err != nil {
		logger.Warn("chunk recognition failed", logging.Error(err))
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	endMs := time.Since(started).Milliseconds()
	startMs := endMs - g.opts.ChunkDurationMs*int64(len(window))
	if startMs < 0 {
		startMs = 0
	}
	if endMs <= startMs {
		endMs = startMs + g.opts.ChunkDurationMs
	}
	g.sink.HandleStreamingCue(cue.StreamingCue{
		Cue: cue.Cue{
			Text:       text,
			StartMs:    startMs,
			EndMs:      endMs,
			Confidence: 1,
			Language:   g.language,
		},
		IsFinal: final,
	})
}

// flushFinal emits the single isFinal cue covering the material still
// buffered when playback ends. Nothing is flushed on cancellation.
func (g *Generator) flushFinal(ctx context.Context, logger *slog.Logger, window [][]float32, started time.Time) {
	if ctx.Err() != nil {
		return
	}
	g.processWindow(ctx, logger, window, started, true)
}

// sleep waits one processing interval, returning false on cancellation.
func (g *Generator) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(g.opts.ProcessingInterval):
		return true
	}
}

func concat(chunks [][]float32) []float32 {
	var total int
	for _, chunk := range chunks {
		total += len(chunk)
	}
	out := make([]float32, 0, total)
	for _, chunk := range chunks {
		out = append(out, chunk...)
	}
	return out
}
