package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	WorkDir   string `toml:"work_dir"`
	LogDir    string `toml:"log_dir"`
}

// Recognizer contains configuration for the speech recognition backend.
// Any OpenAI-compatible transcription endpoint works, including a local
// whisper server.
type Recognizer struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	Language       string `toml:"language"`
	Diarization    bool   `toml:"diarization"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Translation contains configuration for cue translation.
type Translation struct {
	Enabled         bool     `toml:"enabled"`
	BaseURL         string   `toml:"base_url"`
	APIKey          string   `toml:"api_key"`
	Model           string   `toml:"model"`
	Temperature     float64  `toml:"temperature"`
	TargetLanguages []string `toml:"target_languages"`
	TimeoutSeconds  int      `toml:"timeout_seconds"`
}

// Timing contains configuration for the timing optimizer.
type Timing struct {
	MinDurationMs      int64 `toml:"min_duration_ms"`
	MaxDurationMs      int64 `toml:"max_duration_ms"`
	MaxWordsPerSegment int   `toml:"max_words_per_segment"`
}

// Scoring contains configuration for readability and quality scoring.
type Scoring struct {
	MsPerWord           int64 `toml:"ms_per_word"`
	MinComfortableChars int   `toml:"min_comfortable_chars"`
	MaxComfortableChars int   `toml:"max_comfortable_chars"`
}

// Streaming contains configuration for the live streaming generator.
type Streaming struct {
	BufferSize              int   `toml:"buffer_size"`
	ChunkDurationMs         int64 `toml:"chunk_duration_ms"`
	MinimumProcessingChunks int   `toml:"minimum_processing_chunks"`
	OverlapChunks           int   `toml:"overlap_chunks"`
	ProcessingIntervalMs    int64 `toml:"processing_interval_ms"`
}

// Export contains configuration for subtitle serialization.
type Export struct {
	Formats           []string `toml:"formats"`
	OverwriteExisting bool     `toml:"overwrite_existing"`
}

// TranscriptCache contains configuration for the recognition result cache.
type TranscriptCache struct {
	Enabled  bool   `toml:"enabled"`
	Path     string `toml:"path"`
	TTLHours int    `toml:"ttl_hours"`
}

// Jobs contains configuration for batch job persistence.
type Jobs struct {
	DatabasePath          string `toml:"database_path"`
	InterItemDelaySeconds int    `toml:"inter_item_delay_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for astrasub.
//
// Configuration sections by subsystem:
//   - Paths: output, scratch, and log directories
//   - Recognizer: OpenAI-compatible transcription endpoint settings
//   - Translation: chat-based translation endpoint and target languages
//   - Timing: cue duration and word-count bounds
//   - Scoring: reading speed and comfortable length band
//   - Streaming: ring buffer sizing and tick cadence
//   - Export: output formats
//   - TranscriptCache: read-through recognition cache
//   - Jobs: batch job database and pacing
//   - Logging: log format and level
type Config struct {
	Paths           Paths           `toml:"paths"`
	Recognizer      Recognizer      `toml:"recognizer"`
	Translation     Translation     `toml:"translation"`
	Timing          Timing          `toml:"timing"`
	Scoring         Scoring         `toml:"scoring"`
	Streaming       Streaming       `toml:"streaming"`
	Export          Export          `toml:"export"`
	TranscriptCache TranscriptCache `toml:"transcript_cache"`
	Jobs            Jobs            `toml:"jobs"`
	Logging         Logging         `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/astrasub/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("astrasub.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for pipeline operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.WorkDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if dir := filepath.Dir(c.Jobs.DatabasePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create job database directory %q: %w", dir, err)
		}
	}
	if c.TranscriptCache.Enabled && strings.TrimSpace(c.TranscriptCache.Path) != "" {
		if err := os.MkdirAll(filepath.Dir(c.TranscriptCache.Path), 0o755); err != nil {
			return fmt.Errorf("create transcript cache directory: %w", err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name used for audio extraction.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
