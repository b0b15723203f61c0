package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"astrasub/internal/audio"
	"astrasub/internal/cue"
	"astrasub/internal/scoring"
	"astrasub/internal/services"
	"astrasub/internal/subexport"
	"astrasub/internal/timecode"
	"astrasub/internal/timing"
	"astrasub/internal/transcache"
)

type fakeExtractor struct {
	calls   int
	failFor string
}

func (f *fakeExtractor) Extract(_ context.Context, source string) (audio.Context, error) {
	f.calls++
	if f.failFor != "" && source == f.failFor {
		return audio.Context{}, services.Wrap(services.ErrNoAudioTrack, "audio", "extract", "no audio stream", nil)
	}
	return audio.Context{Samples: make([]float32, 10*audio.ExtractSampleRate), SampleRate: audio.ExtractSampleRate}, nil
}

type fakeRecognizer struct {
	calls    int
	segments []cue.RawTranscriptSegment
	err      error
}

func (f *fakeRecognizer) Transcribe(context.Context, audio.Context, string, bool) ([]cue.RawTranscriptSegment, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.segments, nil
}

func (f *fakeRecognizer) TranscribeChunk(context.Context, []float32) (string, error) {
	return "", nil
}

type fakeTranslator struct {
	failFor string
}

func (f *fakeTranslator) TranslateBatch(_ context.Context, texts []string, target, _ string) ([]string, error) {
	if target == f.failFor {
		return nil, services.Wrap(services.ErrTranslation, "translate", "batch", "backend unavailable", nil)
	}
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = "[" + target + "] " + text
	}
	return out, nil
}

func testSegments() []cue.RawTranscriptSegment {
	return []cue.RawTranscriptSegment{
		{Text: "Hello there", StartMs: 0, EndMs: 1500, Confidence: 0.9},
		{Text: "General Kenobi", StartMs: 2000, EndMs: 3500, Confidence: 0.8},
	}
}

func testSettings() Settings {
	return Settings{
		Timing:   timing.Options{MinDurationMs: 1000, MaxDurationMs: 7000, MaxWordsPerSegment: 14},
		Scoring:  scoring.Options{},
		Language: "en",
		Model:    "whisper-1",
	}
}

func newTestPipeline(t *testing.T, settings Settings, deps Dependencies) *Pipeline {
	t.Helper()
	if deps.Extractor == nil {
		deps.Extractor = &fakeExtractor{}
	}
	if deps.Recognizer == nil {
		deps.Recognizer = &fakeRecognizer{segments: testSegments()}
	}
	p, err := New(settings, deps)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestRunEmitsOrderedPhases(t *testing.T) {
	var phases []Phase
	sink := EventFunc(func(e Event) { phases = append(phases, e.Phase) })
	p := newTestPipeline(t, testSettings(), Dependencies{Sink: sink})

	result, err := p.Run(context.Background(), Request{Source: "movie.mkv"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []Phase{
		PhaseStarted, PhaseAudioExtraction, PhaseSpeechRecognition,
		PhaseTimingOptimization, PhaseContentEnhancement,
		PhaseQualityScoring, PhaseCompleted,
	}
	if len(phases) != len(want) {
		t.Fatalf("phase count = %d, want %d (%v)", len(phases), len(want), phases)
	}
	for i, phase := range want {
		if phases[i] != phase {
			t.Errorf("phase[%d] = %q, want %q", i, phases[i], phase)
		}
	}

	original := result.Sets[OriginalKey]
	if len(original) != 2 {
		t.Fatalf("original cue count = %d, want 2", len(original))
	}
	if original[0].QualityScore <= 0 {
		t.Error("expected scored cues")
	}
	if result.Report.CueCount != 2 {
		t.Errorf("report cue count = %d, want 2", result.Report.CueCount)
	}
}

func TestRunFailureEmitsErrorEvent(t *testing.T) {
	var last Event
	sink := EventFunc(func(e Event) { last = e })
	rec := &fakeRecognizer{err: services.Wrap(services.ErrRecognition, "recognizer", "transcribe", "backend down", nil)}
	p := newTestPipeline(t, testSettings(), Dependencies{Recognizer: rec, Sink: sink})

	if _, err := p.Run(context.Background(), Request{Source: "movie.mkv"}); err == nil {
		t.Fatal("expected error")
	} else if !errors.Is(err, services.ErrRecognition) {
		t.Fatalf("unexpected error class: %v", err)
	}
	if last.Phase != PhaseError {
		t.Fatalf("last phase = %q, want %q", last.Phase, PhaseError)
	}
	if last.Payload["failed_phase"] != string(PhaseSpeechRecognition) {
		t.Fatalf("failed phase = %q", last.Payload["failed_phase"])
	}
}

func TestTranslationIsolationKeepsOriginal(t *testing.T) {
	settings := testSettings()
	settings.TargetLanguages = []string{"fr", "de"}
	p := newTestPipeline(t, settings, Dependencies{Translator: &fakeTranslator{failFor: "de"}})

	result, err := p.Run(context.Background(), Request{Source: "movie.mkv"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, ok := result.Sets[OriginalKey]; !ok {
		t.Fatal("result missing reserved original key")
	}
	french, ok := result.Sets["fr"]
	if !ok {
		t.Fatal("expected French set despite German failure")
	}
	if french[0].Text != "[fr] Hello there" || !french[0].IsTranslated || french[0].Language != "fr" {
		t.Fatalf("unexpected French cue: %+v", french[0])
	}
	if _, ok := result.Sets["de"]; ok {
		t.Fatal("did not expect German set")
	}
	if _, ok := result.TranslationFailures["de"]; !ok {
		t.Fatal("expected German failure recorded")
	}
}

func TestRunConsultsTranscriptCache(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "transcripts.json")
	cache := transcache.New(cachePath, time.Hour, nil)
	settings := testSettings()
	key := transcache.Key{MediaID: "movie.mkv", Language: "en", Model: "whisper-1"}
	if err := cache.Put(key, testSegments()); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	rec := &fakeRecognizer{err: errors.New("must not be called")}
	p := newTestPipeline(t, settings, Dependencies{Recognizer: rec, Cache: cache})

	result, err := p.Run(context.Background(), Request{Source: "movie.mkv"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rec.calls != 0 {
		t.Fatalf("recognizer called %d times despite cache hit", rec.calls)
	}
	if result.CueCount() != 2 {
		t.Fatalf("cue count = %d, want 2", result.CueCount())
	}
}

func TestRunWritesExportFiles(t *testing.T) {
	outputDir := t.TempDir()
	settings := testSettings()
	settings.Formats = []subexport.Format{timecode.FormatSRT, timecode.FormatVTT}
	settings.OutputDir = outputDir
	p := newTestPipeline(t, settings, Dependencies{})

	result, err := p.Run(context.Background(), Request{Source: "/media/movie.mkv"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Files) != 2 {
		t.Fatalf("file count = %d, want 2", len(result.Files))
	}
	for _, file := range result.Files {
		if file.Skipped {
			t.Fatalf("unexpected skip: %+v", file)
		}
		if _, err := os.Stat(file.Path); err != nil {
			t.Fatalf("expected output file %q: %v", file.Path, err)
		}
	}
	wantPath := filepath.Join(outputDir, "movie_en.srt")
	if _, err := os.Stat(wantPath); err != nil {
		t.Fatalf("expected %q: %v", wantPath, err)
	}
}

func TestEnhanceDropsAnnotationsAndCollapsesWhitespace(t *testing.T) {
	set := cue.Set{
		{Text: "  Hello   world ", StartMs: 0, EndMs: 1500, Confidence: 1, Language: "en"},
		{Text: "[Music]", StartMs: 2000, EndMs: 3000, Confidence: 1, Language: "en"},
		{Text: "(inaudible)", StartMs: 3000, EndMs: 4000, Confidence: 1, Language: "en"},
		{Text: "Still here", StartMs: 4000, EndMs: 5000, Confidence: 1, Language: "en"},
	}
	enhanced := enhance(set)
	if len(enhanced) != 2 {
		t.Fatalf("enhanced count = %d, want 2", len(enhanced))
	}
	if enhanced[0].Text != "Hello world" {
		t.Fatalf("text = %q", enhanced[0].Text)
	}
	if set[0].Text != "  Hello   world " {
		t.Fatal("enhance mutated its input")
	}
}
