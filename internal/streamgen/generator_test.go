package streamgen

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"astrasub/internal/cue"
)

type scriptedSource struct {
	mu     sync.Mutex
	chunks [][]float32
	// hold keeps Remaining true after the chunks run out, so the loop
	// idles instead of draining.
	hold bool
}

func (s *scriptedSource) NextChunk(_ context.Context, _ int64) ([]float32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.chunks) == 0 {
		return nil, false
	}
	chunk := s.chunks[0]
	s.chunks = s.chunks[1:]
	return chunk, true
}

func (s *scriptedSource) Remaining() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hold || len(s.chunks) > 0
}

type scriptedChunkRecognizer struct {
	mu    sync.Mutex
	texts []string
	errs  int
	calls int
}

func (r *scriptedChunkRecognizer) TranscribeChunk(context.Context, []float32) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.errs > 0 {
		r.errs--
		return "", errors.New("backend hiccup")
	}
	if len(r.texts) == 0 {
		return "", nil
	}
	text := r.texts[0]
	r.texts = r.texts[1:]
	return text, nil
}

type cueCollector struct {
	mu   sync.Mutex
	cues []cue.StreamingCue
}

func (c *cueCollector) HandleStreamingCue(sc cue.StreamingCue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cues = append(c.cues, sc)
}

func (c *cueCollector) snapshot() []cue.StreamingCue {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]cue.StreamingCue(nil), c.cues...)
}

func testOptions() Options {
	return Options{
		BufferSize:              6,
		ChunkDurationMs:         100,
		MinimumProcessingChunks: 3,
		OverlapChunks:           1,
		ProcessingInterval:      time.Millisecond,
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func nChunks(n int) [][]float32 {
	chunks := make([][]float32, n)
	for i := range chunks {
		chunks[i] = make([]float32, 16)
	}
	return chunks
}

func TestGeneratorEmitsCuesAndFlushesFinal(t *testing.T) {
	source := &scriptedSource{chunks: nChunks(3)}
	rec := &scriptedChunkRecognizer{texts: []string{"hello there", "and goodbye"}}
	collector := &cueCollector{}

	gen, err := New(testOptions(), source, rec, collector, "en", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	gen.Start(context.Background())

	waitFor(t, 2*time.Second, func() bool { return !gen.Running() })
	gen.Stop()

	cues := collector.snapshot()
	if len(cues) != 2 {
		t.Fatalf("cue count = %d, want 2 (window + final flush): %+v", len(cues), cues)
	}
	first := cues[0]
	if first.IsFinal {
		t.Fatal("expected first cue to be non-final")
	}
	if first.Text != "hello there" || first.Language != "en" {
		t.Fatalf("unexpected first cue: %+v", first)
	}
	if first.EndMs <= first.StartMs {
		t.Fatalf("invalid cue window: %d..%d", first.StartMs, first.EndMs)
	}
	last := cues[len(cues)-1]
	if !last.IsFinal {
		t.Fatalf("expected final flush cue, got %+v", last)
	}
}

func TestGeneratorSkipsTicksWithoutData(t *testing.T) {
	source := &scriptedSource{hold: true}
	rec := &scriptedChunkRecognizer{}
	collector := &cueCollector{}

	gen, err := New(testOptions(), source, rec, collector, "en", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	gen.Start(context.Background())

	time.Sleep(20 * time.Millisecond)
	if !gen.Running() {
		t.Fatal("expected session to idle while source holds")
	}
	gen.Stop()

	if got := collector.snapshot(); len(got) != 0 {
		t.Fatalf("expected no cues, got %d", len(got))
	}
}

func TestGeneratorSwallowsRecognitionErrors(t *testing.T) {
	source := &scriptedSource{chunks: nChunks(6)}
	rec := &scriptedChunkRecognizer{errs: 1, texts: []string{"recovered"}}
	collector := &cueCollector{}

	gen, err := New(testOptions(), source, rec, collector, "en", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	gen.Start(context.Background())
	waitFor(t, 2*time.Second, func() bool { return !gen.Running() })
	gen.Stop()

	cues := collector.snapshot()
	if len(cues) == 0 {
		t.Fatal("expected loop to survive the failed tick and emit later")
	}
	if cues[0].Text != "recovered" {
		t.Fatalf("first cue text = %q", cues[0].Text)
	}
}

func TestGeneratorStartWhileRunningIsNoOp(t *testing.T) {
	source := &scriptedSource{hold: true}
	gen, err := New(testOptions(), source, &scriptedChunkRecognizer{}, &cueCollector{}, "en", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	gen.Start(context.Background())
	gen.Start(context.Background())
	if !gen.Running() {
		t.Fatal("expected running session")
	}
	gen.Stop()
	if gen.Running() {
		t.Fatal("expected session stopped")
	}
}

func TestGeneratorEmitsNothingAfterStop(t *testing.T) {
	source := &scriptedSource{chunks: nChunks(200), hold: true}
	rec := &scriptedChunkRecognizer{texts: []string{"a", "b", "c", "d", "e", "f"}}
	collector := &cueCollector{}

	gen, err := New(testOptions(), source, rec, collector, "en", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	gen.Start(context.Background())
	waitFor(t, 2*time.Second, func() bool { return len(collector.snapshot()) >= 1 })
	gen.Stop()

	seen := len(collector.snapshot())
	time.Sleep(20 * time.Millisecond)
	if got := len(collector.snapshot()); got != seen {
		t.Fatalf("cues emitted after Stop acknowledgment: %d -> %d", seen, got)
	}
}

func TestOptionsValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Options)
	}{
		{"zero buffer", func(o *Options) { o.BufferSize = 0 }},
		{"zero chunk duration", func(o *Options) { o.ChunkDurationMs = 0 }},
		{"zero min chunks", func(o *Options) { o.MinimumProcessingChunks = 0 }},
		{"min chunks beyond buffer", func(o *Options) { o.MinimumProcessingChunks = o.BufferSize + 1 }},
		{"overlap at capacity", func(o *Options) { o.OverlapChunks = o.BufferSize }},
		{"negative overlap", func(o *Options) { o.OverlapChunks = -1 }},
		{"zero interval", func(o *Options) { o.ProcessingInterval = 0 }},
	}
	for _, tc := range cases {
		opts := testOptions()
		tc.mutate(&opts)
		if err := opts.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
	if err := testOptions().Validate(); err != nil {
		t.Errorf("valid options rejected: %v", err)
	}
}
