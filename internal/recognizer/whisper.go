package recognizer

import (
	"bytes"
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"astrasub/internal/audio"
	"astrasub/internal/cue"
	"astrasub/internal/services"
)

// Config captures runtime settings for whisper-compatible transcription.
type Config struct {
	// BaseURL points at an OpenAI-compatible host (typically a local
	// whisper-server). Empty means the upstream OpenAI endpoint.
	BaseURL string
	APIKey  string
	// Model is the transcription model name (e.g. "whisper-1").
	Model string
	// Timeout bounds a single transcription request. Zero means no limit
	// beyond the caller's context.
	Timeout time.Duration
}

const DefaultModel = "whisper-1"

// Whisper talks to a whisper-compatible transcription service. It implements
// both the Batch and Chunk interfaces.
type Whisper struct {
	client *openai.Client
	model  string
}

// NewWhisper builds a recognizer from config.
func NewWhisper(cfg Config) *Whisper {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if strings.TrimSpace(cfg.BaseURL) != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Whisper{client: openai.NewClientWithConfig(clientCfg), model: model}
}

// Transcribe posts the audio as a WAV upload and maps the verbose-JSON
// segment list to raw transcript segments. Diarization is not supported by
// the whisper API; when requested, segments are attributed to a single
// speaker so downstream speaker handling stays uniform.
func (w *Whisper) Transcribe(ctx context.Context, audioCtx audio.Context, language string, diarization bool) ([]cue.RawTranscriptSegment, error) {
	if len(audioCtx.Samples) == 0 {
		return nil, services.Wrap(services.ErrNoAudioTrack, "recognizer", "transcribe", "audio context is empty", nil)
	}

	req := openai.AudioRequest{
		Model:    w.model,
		FilePath: "audio.wav",
		Reader:   bytes.NewReader(audio.EncodeWAV(audioCtx.Samples, audioCtx.SampleRate)),
		Format:   openai.AudioResponseFormatVerboseJSON,
	}
	if lang := strings.TrimSpace(language); lang != "" {
		req.Language = lang
	}

	resp, err := w.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, services.Wrap(services.ErrRecognition, "recognizer", "transcribe", "transcription request failed", err)
	}

	segments := make([]cue.RawTranscriptSegment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		raw := cue.RawTranscriptSegment{
			Text:       text,
			StartMs:    int64(seg.Start * 1000),
			EndMs:      int64(seg.End * 1000),
			Confidence: confidenceFromLogprob(seg.AvgLogprob),
		}
		if diarization {
			raw.SpeakerID = "speaker_0"
		}
		segments = append(segments, raw)
	}

	// Some hosts omit segment granularity; fall back to one segment
	// covering the full audio so the pipeline still produces cues.
	if len(segments) == 0 && strings.TrimSpace(resp.Text) != "" {
		segments = append(segments, cue.RawTranscriptSegment{
			Text:       strings.TrimSpace(resp.Text),
			StartMs:    0,
			EndMs:      audioCtx.DurationMs(),
			Confidence: 0.5,
		})
	}
	return segments, nil
}

// TranscribeChunk transcribes a short streaming window. Empty text is a
// legitimate "no speech" answer.
func (w *Whisper) TranscribeChunk(ctx context.Context, samples []float32) (string, error) {
	if len(samples) == 0 {
		return "", nil
	}
	req := openai.AudioRequest{
		Model:    w.model,
		FilePath: "chunk.wav",
		Reader:   bytes.NewReader(audio.EncodeWAV(samples, audio.ExtractSampleRate)),
		Format:   openai.AudioResponseFormatText,
	}
	resp, err := w.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", services.Wrap(services.ErrRecognition, "recognizer", "transcribe chunk", "transcription request failed", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// confidenceFromLogprob maps whisper's average token log probability into
// [0,1]. exp(avg logprob) is the geometric mean token probability.
func confidenceFromLogprob(avgLogprob float64) float32 {
	p := math.Exp(avgLogprob)
	if p > 1 {
		p = 1
	}
	if p < 0 {
		p = 0
	}
	return float32(p)
}
