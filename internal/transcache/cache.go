package transcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"astrasub/internal/cue"
	"astrasub/internal/logging"
)

// Key identifies one cached transcription.
type Key struct {
	MediaID  string
	Language string
	Model    string
}

// Hash returns the stable cache key string.
func (k Key) Hash() string {
	sum := sha256.Sum256([]byte(k.MediaID + "\x00" + k.Language + "\x00" + k.Model))
	return hex.EncodeToString(sum[:16])
}

type entry struct {
	Key      string                     `json:"key"`
	Segments []cue.RawTranscriptSegment `json:"segments"`
	CachedAt time.Time                  `json:"cached_at"`
}

// Cache provides thread-safe access to cached transcripts. If path is empty
// the cache is non-functional and all operations become no-ops.
type Cache struct {
	path   string
	ttl    time.Duration
	logger *slog.Logger
	mu     sync.RWMutex
	byKey  map[string]entry
}

// New creates a cache instance backed by a JSON file, loading existing
// entries when present. A non-positive ttl disables expiry.
func New(path string, ttl time.Duration, logger *slog.Logger) *Cache {
	logger = logging.NewComponentLogger(logger, "transcache")

	c := &Cache{
		path:   path,
		ttl:    ttl,
		logger: logger,
		byKey:  make(map[string]entry),
	}
	if path == "" {
		return c
	}
	if err := c.load(); err != nil {
		logger.Warn("failed to load transcript cache",
			logging.String(logging.FieldEventType, "transcache_load_failed"),
			logging.Error(err))
	}
	return c
}

// Get returns the cached segments for key, honoring the TTL.
func (c *Cache) Get(key Key) ([]cue.RawTranscriptSegment, bool) {
	if c.path == "" {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	found, ok := c.byKey[key.Hash()]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && time.Since(found.CachedAt) > c.ttl {
		return nil, false
	}
	segments := make([]cue.RawTranscriptSegment, len(found.Segments))
	copy(segments, found.Segments)
	return segments, true
}

// Put stores segments for key and persists the cache to disk.
func (c *Cache) Put(key Key, segments []cue.RawTranscriptSegment) error {
	if strings.TrimSpace(key.MediaID) == "" {
		return errors.New("media ID cannot be empty")
	}
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]cue.RawTranscriptSegment, len(segments))
	copy(stored, segments)
	c.byKey[key.Hash()] = entry{Key: key.Hash(), Segments: stored, CachedAt: time.Now().UTC()}

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	return nil
}

// Prune drops expired entries and persists the result.
func (c *Cache) Prune() error {
	if c.path == "" || c.ttl <= 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for hash, e := range c.byKey {
		if time.Since(e.CachedAt) > c.ttl {
			delete(c.byKey, hash)
			removed++
		}
	}
	if removed == 0 {
		return nil
	}
	c.logger.Info("pruned expired transcript cache entries", logging.Int("removed", removed))
	return c.save()
}

func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("decode cache file: %w", err)
	}
	for _, e := range entries {
		c.byKey[e.Key] = e
	}
	return nil
}

func (c *Cache) save() error {
	entries := make([]entry, 0, len(c.byKey))
	for _, e := range c.byKey {
		entries = append(entries, e)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}
