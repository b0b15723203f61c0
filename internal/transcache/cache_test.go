package transcache

import (
	"path/filepath"
	"testing"
	"time"

	"astrasub/internal/cue"
)

func testSegments() []cue.RawTranscriptSegment {
	return []cue.RawTranscriptSegment{
		{Text: "hello", StartMs: 0, EndMs: 1500, Confidence: 0.9},
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := New(path, time.Hour, nil)

	key := Key{MediaID: "movie.mkv", Language: "en", Model: "whisper-1"}
	if err := c.Put(key, testSegments()); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 1 || got[0].Text != "hello" {
		t.Fatalf("unexpected segments: %v", got)
	}
}

func TestGetMissAndKeyIsolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := New(path, time.Hour, nil)

	key := Key{MediaID: "movie.mkv", Language: "en", Model: "whisper-1"}
	if err := c.Put(key, testSegments()); err != nil {
		t.Fatalf("Put: %v", err)
	}

	other := Key{MediaID: "movie.mkv", Language: "fr", Model: "whisper-1"}
	if _, ok := c.Get(other); ok {
		t.Fatal("expected miss for different language")
	}
}

func TestExpiryHonorsTTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := New(path, time.Millisecond, nil)

	key := Key{MediaID: "movie.mkv", Language: "en", Model: "whisper-1"}
	if err := c.Put(key, testSegments()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get(key); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestPersistenceAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	key := Key{MediaID: "movie.mkv", Language: "en", Model: "whisper-1"}

	first := New(path, time.Hour, nil)
	if err := first.Put(key, testSegments()); err != nil {
		t.Fatalf("Put: %v", err)
	}

	second := New(path, time.Hour, nil)
	if _, ok := second.Get(key); !ok {
		t.Fatal("expected persisted entry to load")
	}
}

func TestEmptyPathIsNoop(t *testing.T) {
	c := New("", time.Hour, nil)
	key := Key{MediaID: "movie.mkv", Language: "en", Model: "whisper-1"}
	if err := c.Put(key, testSegments()); err != nil {
		t.Fatalf("Put on disabled cache: %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Fatal("disabled cache should never hit")
	}
}

func TestPutRejectsEmptyMediaID(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "cache.json"), time.Hour, nil)
	if err := c.Put(Key{Language: "en"}, testSegments()); err == nil {
		t.Fatal("expected error for empty media ID")
	}
}
