package config

import (
	"errors"
	"fmt"
	"strings"

	"astrasub/internal/timecode"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRecognizer(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validateTiming(); err != nil {
		return err
	}
	if err := c.validateScoring(); err != nil {
		return err
	}
	if err := c.validateStreaming(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		return errors.New("paths.work_dir must be set")
	}
	return nil
}

func (c *Config) validateRecognizer() error {
	if strings.TrimSpace(c.Recognizer.BaseURL) == "" {
		return errors.New("recognizer.base_url must be set")
	}
	if c.Recognizer.TimeoutSeconds <= 0 {
		return errors.New("recognizer.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateTranslation() error {
	if !c.Translation.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Translation.APIKey) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/astrasub/config.toml"
		}
		return fmt.Errorf("translation.api_key is required when translation.enabled is true. Set OPENAI_API_KEY env var or edit %s (create with 'astrasub config init')", defaultPath)
	}
	if len(c.Translation.TargetLanguages) == 0 {
		return errors.New("translation.target_languages must include at least one language when translation.enabled is true")
	}
	if c.Translation.Temperature < 0 || c.Translation.Temperature > 2 {
		return errors.New("translation.temperature must be between 0 and 2")
	}
	return nil
}

func (c *Config) validateTiming() error {
	if c.Timing.MinDurationMs <= 0 {
		return errors.New("timing.min_duration_ms must be positive")
	}
	if c.Timing.MaxDurationMs <= 0 {
		return errors.New("timing.max_duration_ms must be positive")
	}
	if c.Timing.MaxDurationMs < c.Timing.MinDurationMs {
		return errors.New("timing.max_duration_ms must be >= timing.min_duration_ms")
	}
	if c.Timing.MaxWordsPerSegment <= 0 {
		return errors.New("timing.max_words_per_segment must be positive")
	}
	return nil
}

func (c *Config) validateScoring() error {
	if err := ensurePositiveMap(map[string]int64{
		"scoring.ms_per_word":           c.Scoring.MsPerWord,
		"scoring.min_comfortable_chars": int64(c.Scoring.MinComfortableChars),
		"scoring.max_comfortable_chars": int64(c.Scoring.MaxComfortableChars),
	}); err != nil {
		return err
	}
	if c.Scoring.MaxComfortableChars < c.Scoring.MinComfortableChars {
		return errors.New("scoring.max_comfortable_chars must be >= scoring.min_comfortable_chars")
	}
	return nil
}

func (c *Config) validateStreaming() error {
	if err := ensurePositiveMap(map[string]int64{
		"streaming.buffer_size":               int64(c.Streaming.BufferSize),
		"streaming.chunk_duration_ms":         c.Streaming.ChunkDurationMs,
		"streaming.minimum_processing_chunks": int64(c.Streaming.MinimumProcessingChunks),
		"streaming.processing_interval_ms":    c.Streaming.ProcessingIntervalMs,
	}); err != nil {
		return err
	}
	if c.Streaming.OverlapChunks < 0 {
		return errors.New("streaming.overlap_chunks must be >= 0")
	}
	if c.Streaming.OverlapChunks >= c.Streaming.BufferSize {
		return errors.New("streaming.overlap_chunks must be smaller than streaming.buffer_size")
	}
	if c.Streaming.MinimumProcessingChunks > c.Streaming.BufferSize {
		return errors.New("streaming.minimum_processing_chunks must not exceed streaming.buffer_size")
	}
	return nil
}

func (c *Config) validateExport() error {
	if len(c.Export.Formats) == 0 {
		return errors.New("export.formats must include at least one format")
	}
	for _, name := range c.Export.Formats {
		if _, ok := timecode.ParseFormat(name); !ok {
			return fmt.Errorf("export.formats contains unknown format %q (supported: srt, vtt, ass, ttml)", name)
		}
	}
	return nil
}

func ensurePositiveMap(values map[string]int64) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
