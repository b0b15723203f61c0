package audio

import (
	"context"
	"math"
	"testing"
)

func TestContextDurationMs(t *testing.T) {
	c := Context{Samples: make([]float32, 16000), SampleRate: 16000}
	if got := c.DurationMs(); got != 1000 {
		t.Fatalf("expected 1000ms, got %d", got)
	}
	empty := Context{}
	if empty.DurationMs() != 0 {
		t.Fatal("expected zero duration for empty context")
	}
}

func TestPCM16RoundTrip(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1, -1}
	decoded := DecodePCM16(EncodePCM16(samples))
	if len(decoded) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(decoded))
	}
	for i, want := range samples {
		if math.Abs(float64(decoded[i]-want)) > 1.0/math.MaxInt16*2 {
			t.Errorf("sample %d: got %v, want %v", i, decoded[i], want)
		}
	}
}

func TestDecodePCM16IgnoresTrailingByte(t *testing.T) {
	if got := DecodePCM16([]byte{0, 0, 0x7f}); len(got) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(got))
	}
}

func TestPlaybackSourceChunks(t *testing.T) {
	src := NewPlaybackSource(Context{Samples: make([]float32, 1600), SampleRate: 16000})

	chunk, ok := src.NextChunk(context.Background(), 50)
	if !ok || len(chunk) != 800 {
		t.Fatalf("expected 800 samples, got %d ok=%v", len(chunk), ok)
	}
	chunk, ok = src.NextChunk(context.Background(), 100)
	if !ok || len(chunk) != 800 {
		t.Fatalf("expected short final chunk of 800 samples, got %d ok=%v", len(chunk), ok)
	}
	if _, ok := src.NextChunk(context.Background(), 50); ok {
		t.Fatal("expected exhausted source")
	}
	if src.Remaining() {
		t.Fatal("expected no samples remaining")
	}
}
