package thumbnails

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sitekit/internal/logging"
	"sitekit/internal/services/vimeo"
)

// PictureFetcher returns the raw picture listing payload for a video.
type PictureFetcher interface {
	FetchPictures(ctx context.Context, videoID string) ([]byte, error)
}

// Lister produces the candidate set for a video.
type Lister struct {
	fetcher PictureFetcher
	cache   *ResponseCache
	delay   time.Duration
	sleep   func(context.Context, time.Duration) error
	logger  *slog.Logger
}

// NewLister builds a Lister. cache may be nil to disable caching; delay is
// observed after every live fetch.
func NewLister(fetcher PictureFetcher, cache *ResponseCache, delay time.Duration, logger *slog.Logger) *Lister {
	return &Lister{
		fetcher: fetcher,
		cache:   cache,
		delay:   delay,
		sleep:   sleepWithContext,
		logger:  logging.NewComponentLogger(logger, "thumbnail-lister"),
	}
}

// ListCandidates returns one candidate per usable picture of videoID. With
// useCache, a cached payload that parses as a listing is used verbatim
// instead of the network; anything else in the cache is a miss. Live
// payloads are always written to the cache before parsing. Fetch and decode
// errors of live payloads are returned unchanged.
func (l *Lister) ListCandidates(ctx context.Context, videoID string, useCache bool) ([]Candidate, error) {
	if useCache {
		if cached, ok := l.cache.Load(videoID); ok {
			cands, err := CandidatesFromPayload(cached)
			if err == nil {
				l.logger.Debug("using cached picture listing", logging.String(logging.FieldVideoID, videoID))
				return cands, nil
			}
			l.logger.Debug("cached payload is not a picture listing; refetching",
				logging.String(logging.FieldVideoID, videoID),
				logging.Error(err))
		}
	}

	if l.fetcher == nil {
		return nil, fmt.Errorf("list pictures for %s: no fetcher configured", videoID)
	}
	payload, err := l.fetcher.FetchPictures(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("list pictures for %s: %w", videoID, err)
	}
	if err := l.cache.Store(videoID, payload); err != nil {
		logging.WarnWithContext(l.logger, "picture listing not cached", "cache_write_failed",
			logging.String(logging.FieldVideoID, videoID),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the cache directory"),
			logging.String(logging.FieldImpact, "next run will refetch this video"))
	}
	if err := l.sleep(ctx, l.delay); err != nil {
		return nil, err
	}
	return CandidatesFromPayload(payload)
}

// CandidatesFromPayload parses a picture listing. Entries that are not
// pictures, or that have no rendition with a link and positive dimensions,
// are discarded.
func CandidatesFromPayload(payload []byte) ([]Candidate, error) {
	var envelope struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("decode picture listing: %w", err)
	}

	out := make([]Candidate, 0, len(envelope.Data))
	for _, raw := range envelope.Data {
		var pic vimeo.Picture
		if err := json.Unmarshal(raw, &pic); err != nil {
			continue
		}
		size, ok := widestSize(pic.Sizes)
		if !ok {
			continue
		}
		sourceID := strings.TrimSpace(pic.URI)
		if sourceID == "" {
			sourceID = strings.TrimSpace(pic.ResourceKey)
		}
		out = append(out, Candidate{
			URL:      size.Link,
			Width:    size.Width,
			Height:   size.Height,
			Active:   pic.Active,
			SourceID: sourceID,
		})
	}
	return out, nil
}

// widestSize returns the first rendition with the greatest width.
func widestSize(sizes []vimeo.Size) (vimeo.Size, bool) {
	var best vimeo.Size
	found := false
	for _, s := range sizes {
		s.Link = strings.TrimSpace(s.Link)
		if s.Link == "" || s.Width <= 0 || s.Height <= 0 {
			continue
		}
		if !found || s.Width > best.Width {
			best = s
			found = true
		}
	}
	return best, found
}

// sleepWithContext blocks for the given duration, returning early if the
// context is cancelled.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
