package thumbnails

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"sitekit/internal/fileutil"
	"sitekit/internal/logging"
	"sitekit/internal/services"
)

// ErrCacheLocked reports that another run holds the cache directory.
var ErrCacheLocked = errors.New("response cache is locked by another run")

const cacheLockName = ".sitekit.lock"

// ResponseCache stores raw picture listings, one JSON file per video id.
// The directory is guarded by an advisory lock held from Open until Close so
// two runs never interleave writes.
type ResponseCache struct {
	dir    string
	lock   *flock.Flock
	logger *slog.Logger
}

// OpenResponseCache creates dir if needed and acquires its lock.
func OpenResponseCache(dir string, logger *slog.Logger) (*ResponseCache, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, services.Wrap(services.ErrConfiguration, "thumbnails", "open cache", "cache directory required", nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "thumbnails", "open cache", "create "+dir, err)
	}
	lock := flock.New(filepath.Join(dir, cacheLockName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "thumbnails", "open cache", "acquire lock", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "thumbnails", "open cache", dir, ErrCacheLocked)
	}
	return &ResponseCache{
		dir:    dir,
		lock:   lock,
		logger: logging.NewComponentLogger(logger, "thumbnail-cache"),
	}, nil
}

// Close releases the directory lock.
func (c *ResponseCache) Close() error {
	if c == nil || c.lock == nil {
		return nil
	}
	return c.lock.Unlock()
}

// Path returns the cache file for videoID.
func (c *ResponseCache) Path(videoID string) string {
	return filepath.Join(c.dir, cacheFileName(videoID))
}

// Load returns the cached payload for videoID. Missing, unreadable, or
// malformed files are reported as a miss.
func (c *ResponseCache) Load(videoID string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	path := c.Path(videoID)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Debug("cache read failed; treating as miss",
				logging.String(logging.FieldVideoID, videoID),
				logging.String("path", path),
				logging.Error(err))
		}
		return nil, false
	}
	if !json.Valid(data) {
		c.logger.Debug("cache file malformed; treating as miss",
			logging.String(logging.FieldVideoID, videoID),
			logging.String("path", path))
		return nil, false
	}
	return data, true
}

// Store writes payload for videoID.
func (c *ResponseCache) Store(videoID string, payload []byte) error {
	if c == nil {
		return nil
	}
	if err := fileutil.WriteFileAtomic(c.Path(videoID), payload); err != nil {
		return fmt.Errorf("store cached pictures for %s: %w", videoID, err)
	}
	return nil
}

// cacheFileName maps an identifier to a safe file name.
func cacheFileName(videoID string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(videoID) {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		b.WriteByte('_')
	}
	b.WriteString(".json")
	return b.String()
}
