package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os/exec"
	"strings"

	"astrasub/internal/services"
)

// ExtractSampleRate is the rate audio is resampled to for recognition.
const ExtractSampleRate = 16000

// Extractor pulls the audio track out of a media container using ffmpeg and
// decodes it into a normalized mono Context.
type Extractor struct {
	FFmpegBinary string
}

// NewExtractor builds an extractor resolving ffmpeg from PATH when no
// explicit binary is configured.
func NewExtractor(ffmpegBinary string) *Extractor {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	return &Extractor{FFmpegBinary: ffmpegBinary}
}

// Extract decodes the first audio stream of source to mono 16 kHz samples.
// A container without an audio stream maps to services.ErrNoAudioTrack.
func (e *Extractor) Extract(ctx context.Context, source string) (Context, error) {
	if strings.TrimSpace(source) == "" {
		return Context{}, services.Wrap(services.ErrConfiguration, "audio", "extract", "source path is required", nil)
	}

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", ExtractSampleRate),
		"-f", "s16le",
		"-",
	}
	cmd := exec.CommandContext(ctx, e.FFmpegBinary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if isMissingAudioStream(detail) {
			return Context{}, services.Wrap(services.ErrNoAudioTrack, "audio", "extract", detail, err)
		}
		return Context{}, services.Wrap(services.ErrExternalTool, "audio", "extract", detail, err)
	}

	raw := stdout.Bytes()
	if len(raw) < 2 {
		return Context{}, services.Wrap(services.ErrNoAudioTrack, "audio", "extract", "decoded stream is empty", nil)
	}

	return Context{Samples: DecodePCM16(raw), SampleRate: ExtractSampleRate}, nil
}

func isMissingAudioStream(stderr string) bool {
	lowered := strings.ToLower(stderr)
	return strings.Contains(lowered, "does not contain any stream") ||
		strings.Contains(lowered, "stream map") && strings.Contains(lowered, "matches no streams") ||
		strings.Contains(lowered, "output file does not contain any stream")
}

// DecodePCM16 converts little-endian signed 16-bit PCM bytes to normalized
// float32 samples. A trailing odd byte is ignored.
func DecodePCM16(raw []byte) []float32 {
	count := len(raw) / 2
	samples := make([]float32, count)
	for i := 0; i < count; i++ {
		v := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		samples[i] = float32(v) / float32(math.MaxInt16+1)
	}
	return samples
}

// EncodePCM16 converts normalized float32 samples back to little-endian
// signed 16-bit PCM bytes, clamping out-of-range values.
func EncodePCM16(samples []float32) []byte {
	raw := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int16(s * math.MaxInt16)
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(v))
	}
	return raw
}
