package config

import (
	"fmt"
	"os"
	"strings"

	"astrasub/internal/language"
	"astrasub/internal/timecode"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRecognizer()
	c.normalizeTranslation()
	c.normalizeExport()
	if err := c.normalizeTranscriptCache(); err != nil {
		return err
	}
	if err := c.normalizeJobs(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRecognizer() {
	c.Recognizer.BaseURL = strings.TrimSpace(c.Recognizer.BaseURL)
	if c.Recognizer.BaseURL == "" {
		c.Recognizer.BaseURL = defaultRecognizerBaseURL
	}
	c.Recognizer.Model = strings.TrimSpace(c.Recognizer.Model)
	if c.Recognizer.Model == "" {
		c.Recognizer.Model = defaultRecognizerModel
	}
	c.Recognizer.Language = language.ToISO2(c.Recognizer.Language)
	if c.Recognizer.Language == "" {
		c.Recognizer.Language = defaultRecognizerLanguage
	}
	c.Recognizer.APIKey = strings.TrimSpace(c.Recognizer.APIKey)
	if c.Recognizer.APIKey == "" {
		if value, ok := os.LookupEnv("ASTRASUB_RECOGNIZER_API_KEY"); ok {
			c.Recognizer.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.Recognizer.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Recognizer.TimeoutSeconds <= 0 {
		c.Recognizer.TimeoutSeconds = defaultRecognizerTimeout
	}
}

func (c *Config) normalizeTranslation() {
	c.Translation.BaseURL = strings.TrimSpace(c.Translation.BaseURL)
	if c.Translation.BaseURL == "" {
		c.Translation.BaseURL = c.Recognizer.BaseURL
	}
	c.Translation.Model = strings.TrimSpace(c.Translation.Model)
	if c.Translation.Model == "" {
		c.Translation.Model = defaultTranslationModel
	}
	c.Translation.APIKey = strings.TrimSpace(c.Translation.APIKey)
	if c.Translation.APIKey == "" {
		if value, ok := os.LookupEnv("ASTRASUB_TRANSLATION_API_KEY"); ok {
			c.Translation.APIKey = strings.TrimSpace(value)
		} else {
			c.Translation.APIKey = c.Recognizer.APIKey
		}
	}
	if c.Translation.Temperature <= 0 {
		c.Translation.Temperature = defaultTranslationTemperature
	}
	if c.Translation.TimeoutSeconds <= 0 {
		c.Translation.TimeoutSeconds = defaultTranslationTimeout
	}
	c.Translation.TargetLanguages = language.NormalizeList(c.Translation.TargetLanguages)
}

func (c *Config) normalizeExport() {
	if len(c.Export.Formats) == 0 {
		c.Export.Formats = []string{"srt"}
		return
	}
	formats := make([]string, 0, len(c.Export.Formats))
	seen := make(map[string]struct{}, len(c.Export.Formats))
	for _, raw := range c.Export.Formats {
		normalized := strings.ToLower(strings.TrimSpace(raw))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		formats = append(formats, normalized)
	}
	if len(formats) == 0 {
		formats = []string{"srt"}
	}
	c.Export.Formats = formats
}

func (c *Config) normalizeTranscriptCache() error {
	var err error
	if strings.TrimSpace(c.TranscriptCache.Path) == "" {
		c.TranscriptCache.Path = defaultTranscriptCachePath
	}
	if c.TranscriptCache.Path, err = expandPath(c.TranscriptCache.Path); err != nil {
		return fmt.Errorf("transcript_cache.path: %w", err)
	}
	if c.TranscriptCache.TTLHours <= 0 {
		c.TranscriptCache.TTLHours = defaultTranscriptCacheTTLHours
	}
	return nil
}

func (c *Config) normalizeJobs() error {
	var err error
	if strings.TrimSpace(c.Jobs.DatabasePath) == "" {
		c.Jobs.DatabasePath = defaultJobDatabasePath
	}
	if c.Jobs.DatabasePath, err = expandPath(c.Jobs.DatabasePath); err != nil {
		return fmt.Errorf("jobs.database_path: %w", err)
	}
	if c.Jobs.InterItemDelaySeconds < 0 {
		c.Jobs.InterItemDelaySeconds = 0
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// ExportFormats returns the configured output formats parsed into codec
// format values. Call after Load; unknown names were rejected by Validate.
func (c *Config) ExportFormats() []timecode.Format {
	formats := make([]timecode.Format, 0, len(c.Export.Formats))
	for _, name := range c.Export.Formats {
		if format, ok := timecode.ParseFormat(name); ok {
			formats = append(formats, format)
		}
	}
	return formats
}
