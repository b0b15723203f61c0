package pipeline

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"astrasub/internal/audio"
	"astrasub/internal/cue"
	"astrasub/internal/logging"
	"astrasub/internal/recognizer"
	"astrasub/internal/scoring"
	"astrasub/internal/services"
	"astrasub/internal/subexport"
	"astrasub/internal/timing"
	"astrasub/internal/transcache"
	"astrasub/internal/translate"
)

// OriginalKey is the reserved result-map key for the untranslated cue set.
const OriginalKey = "original"

// AudioExtractor converts a media reference into a mono audio context.
type AudioExtractor interface {
	Extract(ctx context.Context, source string) (audio.Context, error)
}

// Settings carry the per-stage tuning shared by every run of a Pipeline.
type Settings struct {
	Timing          timing.Options
	Scoring         scoring.Options
	Language        string
	Diarization     bool
	Model           string
	TargetLanguages []string
	Formats         []subexport.Format
	OutputDir       string
}

// Dependencies are the collaborators a Pipeline needs. Translator and Cache
// are optional; a nil Sink discards events.
type Dependencies struct {
	Extractor  AudioExtractor
	Recognizer recognizer.Batch
	Translator translate.Translator
	Cache      *transcache.Cache
	Sink       EventSink
	Logger     *slog.Logger
}

// Pipeline runs the batch subtitle workflow for one media file at a time.
// A single Pipeline may serve concurrent runs; it holds no per-run state.
type Pipeline struct {
	settings   Settings
	extractor  AudioExtractor
	recognizer recognizer.Batch
	translator translate.Translator
	cache      *transcache.Cache
	sink       EventSink
	logger     *slog.Logger
}

// New validates the settings and assembles a Pipeline.
func New(settings Settings, deps Dependencies) (*Pipeline, error) {
	if deps.Extractor == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "new", "audio extractor is required", nil)
	}
	if deps.Recognizer == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "new", "recognizer is required", nil)
	}
	if err := settings.Timing.Validate(); err != nil {
		return nil, err
	}
	if len(settings.TargetLanguages) > 0 && deps.Translator == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "new", "target languages configured without a translator", nil)
	}
	if strings.TrimSpace(settings.Language) == "" {
		settings.Language = cue.DefaultLanguage
	}
	sink := deps.Sink
	if sink == nil {
		sink = nopSink{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		settings:   settings,
		extractor:  deps.Extractor,
		recognizer: deps.Recognizer,
		translator: deps.Translator,
		cache:      deps.Cache,
		sink:       sink,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
	}, nil
}

// Request identifies one media file to process.
type Request struct {
	// Source is the media file path or reference handed to the extractor.
	Source string
	// MediaID keys the transcript cache; defaults to Source.
	MediaID string
	// BaseName is the output file stem; defaults to the source basename.
	BaseName string
}

// Result is the successful outcome of one run.
type Result struct {
	// Sets maps language code to its finalized cue set, plus OriginalKey.
	Sets map[string]cue.Set
	// Report aggregates quality metrics for the original-language set.
	Report scoring.Report
	// Files lists written (or skipped) export outputs.
	Files []subexport.FileResult
	// TranslationFailures records languages whose translation failed.
	TranslationFailures map[string]string
}

// CueCount returns the number of cues in the original set.
func (r *Result) CueCount() int {
	if r == nil {
		return 0
	}
	return len(r.Sets[OriginalKey])
}

// Run executes every phase for one media file. Phases are strictly
// sequential; the first failure emits an error event and aborts the run.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Source) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "run", "source is required", nil)
	}
	if req.MediaID == "" {
		req.MediaID = req.Source
	}
	if req.BaseName == "" {
		req.BaseName = baseName(req.Source)
	}

	runCtx := logging.WithVideo(ctx, req.Source)
	logger := logging.WithContext(runCtx, p.logger)
	p.emit(PhaseStarted, map[string]string{"source": req.Source})

	audioCtx, err := p.extractAudio(runCtx, logger, req)
	if err != nil {
		return nil, p.fail(logger, PhaseAudioExtraction, err)
	}

	segments, err := p.recognize(runCtx, logger, req, audioCtx)
	if err != nil {
		return nil, p.fail(logger, PhaseSpeechRecognition, err)
	}

	p.emit(PhaseTimingOptimization, map[string]string{"segments": strconv.Itoa(len(segments))})
	optimized, err := timing.Optimize(segments, audioCtx, p.settings.Timing)
	if err != nil {
		return nil, p.fail(logger, PhaseTimingOptimization, err)
	}

	p.emit(PhaseContentEnhancement, map[string]string{"cues": strconv.Itoa(len(optimized))})
	enhanced := enhance(optimized)

	sets := map[string]cue.Set{OriginalKey: enhanced}
	failures := map[string]string{}
	if len(p.settings.TargetLanguages) > 0 {
		p.translateAll(runCtx, logger, enhanced, sets, failures)
	}

	p.emit(PhaseQualityScoring, map[string]string{"languages": strconv.Itoa(len(sets))})
	for key, set := range sets {
		sets[key] = scoring.Apply(set, p.settings.Scoring)
	}
	report := scoring.Aggregate(sets[OriginalKey])

	files, err := p.export(logger, req, sets)
	if err != nil {
		return nil, p.fail(logger, PhaseExport, err)
	}

	p.emit(PhaseCompleted, map[string]string{
		"cues":  strconv.Itoa(len(enhanced)),
		"files": strconv.Itoa(len(files)),
	})
	logger.Info("pipeline run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("cue_count", len(enhanced)),
		logging.Float64("mean_quality", float64(report.MeanQuality)),
	)
	return &Result{
		Sets:                sets,
		Report:              report,
		Files:               files,
		TranslationFailures: failures,
	}, nil
}

func (p *Pipeline) extractAudio(ctx context.Context, logger *slog.Logger, req Request) (audio.Context, error) {
	p.emit(PhaseAudioExtraction, map[string]string{"source": req.Source})
	audioCtx, err := p.extractor.Extract(ctx, req.Source)
	if err != nil {
		return audio.Context{}, err
	}
	logger.Debug("audio extracted",
		logging.Int64("duration_ms", audioCtx.DurationMs()),
		logging.Int("sample_rate", audioCtx.SampleRate),
	)
	return audioCtx, nil
}

func (p *Pipeline) recognize(ctx context.Context, logger *slog.Logger, req Request, audioCtx audio.Context) ([]cue.RawTranscriptSegment, error) {
	p.emit(PhaseSpeechRecognition, map[string]string{"language": p.settings.Language})

	key := transcache.Key{MediaID: req.MediaID, Language: p.settings.Language, Model: p.settings.Model}
	if p.cache != nil {
		if segments, ok := p.cache.Get(key); ok {
			logger.Debug("transcript cache hit", logging.Int("segments", len(segments)))
			return segments, nil
		}
	}

	segments, err := p.recognizer.Transcribe(ctx, audioCtx, p.settings.Language, p.settings.Diarization)
	if err != nil {
		return nil, err
	}
	if p.cache != nil {
		if err := p.cache.Put(key, segments); err != nil {
			logger.Warn("transcript cache write failed", logging.Error(err))
		}
	}
	return segments, nil
}

// translateAll iterates target languages with per-language isolation: one
// failed language is recorded and skipped, the others still translate.
func (p *Pipeline) translateAll(ctx context.Context, logger *slog.Logger, source cue.Set, sets map[string]cue.Set, failures map[string]string) {
	p.emit(PhaseTranslation, map[string]string{
		"target_languages": strings.Join(p.settings.TargetLanguages, ","),
	})
	texts := make([]string, len(source))
	for i, c := range source {
		texts[i] = c.Text
	}
	for _, target := range p.settings.TargetLanguages {
		if target == OriginalKey || target == p.settings.Language {
			continue
		}
		translated, err := p.translator.TranslateBatch(ctx, texts, target, p.settings.Language)
		if err != nil {
			failures[target] = err.Error()
			logger.Warn("translation failed",
				logging.String(logging.FieldLanguage, target),
				logging.Error(err),
			)
			continue
		}
		set := source.Clone()
		for i := range set {
			if i < len(translated) && strings.TrimSpace(translated[i]) != "" {
				set[i].Text = translated[i]
			}
			set[i].Language = target
			set[i].IsTranslated = true
		}
		sets[target] = set
	}
}

func (p *Pipeline) export(logger *slog.Logger, req Request, sets map[string]cue.Set) ([]subexport.FileResult, error) {
	if len(p.settings.Formats) == 0 || p.settings.OutputDir == "" {
		return nil, nil
	}
	p.emit(PhaseExport, map[string]string{"base_name": req.BaseName})

	named := make(map[string]cue.Set, len(sets))
	for key, set := range sets {
		lang := key
		if key == OriginalKey {
			lang = p.settings.Language
		}
		named[lang] = set
	}
	files, err := subexport.WriteFiles(p.settings.OutputDir, req.BaseName, named, p.settings.Formats)
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		if file.Skipped {
			logger.Warn("export output skipped",
				logging.String(logging.FieldLanguage, file.Language),
				logging.String("format", string(file.Format)),
				logging.String("reason", file.Reason),
			)
		}
	}
	return files, nil
}

func (p *Pipeline) fail(logger *slog.Logger, phase Phase, err error) error {
	p.emit(PhaseError, map[string]string{
		"failed_phase": string(phase),
		"error":        err.Error(),
	})
	logger.Error("pipeline run failed",
		logging.String(logging.FieldPhase, string(phase)),
		logging.Error(err),
	)
	return err
}

func (p *Pipeline) emit(phase Phase, payload map[string]string) {
	p.sink.HandleEvent(Event{Phase: phase, Payload: payload})
}

func baseName(source string) string {
	base := source
	if idx := strings.LastIndexAny(base, `/\`); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	if base == "" {
		return "subtitles"
	}
	return base
}
