package config

const (
	defaultOutputDir               = "~/subtitles"
	defaultWorkDir                 = "~/.local/share/astrasub/work"
	defaultLogDir                  = "~/.local/share/astrasub/logs"
	defaultJobDatabasePath         = "~/.local/share/astrasub/jobs.db"
	defaultTranscriptCachePath     = "~/.cache/astrasub/transcripts.json"
	defaultTranscriptCacheTTLHours = 168
	defaultRecognizerBaseURL       = "https://api.openai.com/v1"
	defaultRecognizerModel         = "whisper-1"
	defaultRecognizerLanguage      = "en"
	defaultRecognizerTimeout       = 300
	defaultTranslationModel        = "gpt-4o-mini"
	defaultTranslationTemperature  = 0.2
	defaultTranslationTimeout      = 120
	defaultMinDurationMs           = 1000
	defaultMaxDurationMs           = 7000
	defaultMaxWordsPerSegment      = 14
	defaultMsPerWord               = 300
	defaultMinComfortableChars     = 8
	defaultMaxComfortableChars     = 84
	defaultStreamBufferSize        = 30
	defaultStreamChunkDurationMs   = 1000
	defaultStreamMinChunks         = 3
	defaultStreamOverlapChunks     = 1
	defaultStreamIntervalMs        = 500
	defaultLogFormat               = "console"
	defaultLogLevel                = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			WorkDir:   defaultWorkDir,
			LogDir:    defaultLogDir,
		},
		Recognizer: Recognizer{
			BaseURL:        defaultRecognizerBaseURL,
			Model:          defaultRecognizerModel,
			Language:       defaultRecognizerLanguage,
			TimeoutSeconds: defaultRecognizerTimeout,
		},
		Translation: Translation{
			Model:          defaultTranslationModel,
			Temperature:    defaultTranslationTemperature,
			TimeoutSeconds: defaultTranslationTimeout,
		},
		Timing: Timing{
			MinDurationMs:      defaultMinDurationMs,
			MaxDurationMs:      defaultMaxDurationMs,
			MaxWordsPerSegment: defaultMaxWordsPerSegment,
		},
		Scoring: Scoring{
			MsPerWord:           defaultMsPerWord,
			MinComfortableChars: defaultMinComfortableChars,
			MaxComfortableChars: defaultMaxComfortableChars,
		},
		Streaming: Streaming{
			BufferSize:              defaultStreamBufferSize,
			ChunkDurationMs:         defaultStreamChunkDurationMs,
			MinimumProcessingChunks: defaultStreamMinChunks,
			OverlapChunks:           defaultStreamOverlapChunks,
			ProcessingIntervalMs:    defaultStreamIntervalMs,
		},
		Export: Export{
			Formats:           []string{"srt"},
			OverwriteExisting: true,
		},
		TranscriptCache: TranscriptCache{
			Enabled:  true,
			Path:     defaultTranscriptCachePath,
			TTLHours: defaultTranscriptCacheTTLHours,
		},
		Jobs: Jobs{
			DatabasePath: defaultJobDatabasePath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
