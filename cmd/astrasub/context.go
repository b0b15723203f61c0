package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"astrasub/internal/audio"
	"astrasub/internal/config"
	"astrasub/internal/logging"
	"astrasub/internal/pipeline"
	"astrasub/internal/recognizer"
	"astrasub/internal/scoring"
	"astrasub/internal/timing"
	"astrasub/internal/transcache"
	"astrasub/internal/translate"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		format := cfg.Logging.Format
		if format == "console" && !stderrIsTerminal() {
			format = "json"
		}
		logger, err := logging.New(logging.Options{
			Level:            cfg.Logging.Level,
			Format:           format,
			OutputPaths:      []string{"stderr"},
			ErrorOutputPaths: []string{"stderr"},
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// buildPipeline assembles the batch pipeline from configuration. The sink may
// be nil when the caller does not render progress.
func (c *commandContext) buildPipeline(sink pipeline.EventSink) (*pipeline.Pipeline, *config.Config, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}

	deps := pipeline.Dependencies{
		Extractor: audio.NewExtractor(cfg.FFmpegBinary()),
		Recognizer: recognizer.NewWhisper(recognizer.Config{
			BaseURL: cfg.Recognizer.BaseURL,
			APIKey:  cfg.Recognizer.APIKey,
			Model:   cfg.Recognizer.Model,
			Timeout: time.Duration(cfg.Recognizer.TimeoutSeconds) * time.Second,
		}),
		Sink:   sink,
		Logger: logger,
	}
	if cfg.Translation.Enabled && len(cfg.Translation.TargetLanguages) > 0 {
		deps.Translator = translate.NewOpenAI(translate.Config{
			BaseURL:     cfg.Translation.BaseURL,
			APIKey:      cfg.Translation.APIKey,
			Model:       cfg.Translation.Model,
			Temperature: float32(cfg.Translation.Temperature),
			Timeout:     time.Duration(cfg.Translation.TimeoutSeconds) * time.Second,
		})
	}
	if cfg.TranscriptCache.Enabled {
		ttl := time.Duration(cfg.TranscriptCache.TTLHours) * time.Hour
		deps.Cache = transcache.New(cfg.TranscriptCache.Path, ttl, logger)
	}

	settings := pipeline.Settings{
		Timing: timing.Options{
			MinDurationMs:      cfg.Timing.MinDurationMs,
			MaxDurationMs:      cfg.Timing.MaxDurationMs,
			MaxWordsPerSegment: cfg.Timing.MaxWordsPerSegment,
			Language:           cfg.Recognizer.Language,
		},
		Scoring: scoring.Options{
			MsPerWord:           cfg.Scoring.MsPerWord,
			MinComfortableChars: cfg.Scoring.MinComfortableChars,
			MaxComfortableChars: cfg.Scoring.MaxComfortableChars,
		},
		Language:    cfg.Recognizer.Language,
		Diarization: cfg.Recognizer.Diarization,
		Model:       cfg.Recognizer.Model,
		Formats:     cfg.ExportFormats(),
		OutputDir:   cfg.Paths.OutputDir,
	}
	if cfg.Translation.Enabled {
		settings.TargetLanguages = cfg.Translation.TargetLanguages
	}

	p, err := pipeline.New(settings, deps)
	if err != nil {
		return nil, nil, err
	}
	return p, cfg, nil
}
