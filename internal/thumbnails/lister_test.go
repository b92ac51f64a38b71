package thumbnails

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"sitekit/internal/services"
)

const samplePayload = `{
  "total": 3,
  "data": [
    {"uri": "/videos/1/pictures/10", "active": true, "sizes": [
      {"width": 295, "height": 166, "link": "https://i.vimeocdn.com/10_295.jpg"},
      {"width": 1920, "height": 1080, "link": "https://i.vimeocdn.com/10_1920.jpg"},
      {"width": 2560, "height": 1440, "link": ""}
    ]},
    {"resource_key": "rk-11", "active": false, "sizes": [
      {"width": 640, "height": 360, "link": "https://i.vimeocdn.com/11_640.jpg"}
    ]},
    {"uri": "/videos/1/pictures/12", "sizes": []},
    42
  ]
}`

type fakePictureFetcher struct {
	payload []byte
	err     error
	calls   int
}

func (f *fakePictureFetcher) FetchPictures(context.Context, string) ([]byte, error) {
	f.calls++
	return f.payload, f.err
}

func newTestLister(t *testing.T, fetcher PictureFetcher) (*Lister, *ResponseCache, *[]time.Duration) {
	t.Helper()
	cache, err := OpenResponseCache(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("OpenResponseCache: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })

	lister := NewLister(fetcher, cache, 120*time.Millisecond, nil)
	var sleeps []time.Duration
	lister.sleep = func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	return lister, cache, &sleeps
}

func TestCandidatesFromPayload(t *testing.T) {
	cands, err := CandidatesFromPayload([]byte(samplePayload))
	if err != nil {
		t.Fatalf("CandidatesFromPayload: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %v", len(cands), cands)
	}
	first := cands[0]
	if first.Width != 1920 || first.URL != "https://i.vimeocdn.com/10_1920.jpg" || !first.Active {
		t.Fatalf("unexpected widest variant: %+v", first)
	}
	if first.SourceID != "/videos/1/pictures/10" {
		t.Fatalf("unexpected source id %q", first.SourceID)
	}
	if cands[1].SourceID != "rk-11" {
		t.Fatalf("expected resource key fallback, got %q", cands[1].SourceID)
	}
}

func TestCandidatesFromPayloadRejectsInvalidJSON(t *testing.T) {
	if _, err := CandidatesFromPayload([]byte("{")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestListCandidatesCachesLiveFetch(t *testing.T) {
	fetcher := &fakePictureFetcher{payload: []byte(samplePayload)}
	lister, cache, sleeps := newTestLister(t, fetcher)
	ctx := context.Background()

	if _, err := lister.ListCandidates(ctx, "821754541", true); err != nil {
		t.Fatalf("first ListCandidates: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected one live fetch, got %d", fetcher.calls)
	}
	if len(*sleeps) != 1 || (*sleeps)[0] != 120*time.Millisecond {
		t.Fatalf("expected one paced delay, got %v", *sleeps)
	}
	stored, err := os.ReadFile(cache.Path("821754541"))
	if err != nil {
		t.Fatalf("expected cache file: %v", err)
	}
	if string(stored) != samplePayload {
		t.Fatal("cache must hold the payload verbatim")
	}

	cands, err := lister.ListCandidates(ctx, "821754541", true)
	if err != nil {
		t.Fatalf("cached ListCandidates: %v", err)
	}
	if fetcher.calls != 1 || len(*sleeps) != 1 {
		t.Fatalf("cache hit must not fetch or sleep (calls=%d sleeps=%d)", fetcher.calls, len(*sleeps))
	}
	if len(cands) != 2 {
		t.Fatalf("expected 2 cached candidates, got %d", len(cands))
	}

	if _, err := lister.ListCandidates(ctx, "821754541", false); err != nil {
		t.Fatalf("uncached ListCandidates: %v", err)
	}
	if fetcher.calls != 2 {
		t.Fatalf("disabled cache must refetch, calls=%d", fetcher.calls)
	}
}

func TestListCandidatesMalformedCacheIsMiss(t *testing.T) {
	fetcher := &fakePictureFetcher{payload: []byte(samplePayload)}
	lister, cache, _ := newTestLister(t, fetcher)
	if err := os.WriteFile(cache.Path("7"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	cands, err := lister.ListCandidates(context.Background(), "7", true)
	if err != nil {
		t.Fatalf("ListCandidates: %v", err)
	}
	if fetcher.calls != 1 || len(cands) != 2 {
		t.Fatalf("expected refetch after malformed cache (calls=%d, cands=%d)", fetcher.calls, len(cands))
	}
}

func TestListCandidatesNonListingCacheIsMiss(t *testing.T) {
	for _, seed := range []string{`[]`, `{"data":"x"}`, `"text"`} {
		t.Run(seed, func(t *testing.T) {
			fetcher := &fakePictureFetcher{payload: []byte(samplePayload)}
			lister, cache, _ := newTestLister(t, fetcher)
			if err := os.WriteFile(cache.Path("7"), []byte(seed), 0o644); err != nil {
				t.Fatalf("seed cache: %v", err)
			}
			cands, err := lister.ListCandidates(context.Background(), "7", true)
			if err != nil {
				t.Fatalf("ListCandidates: %v", err)
			}
			if fetcher.calls != 1 || len(cands) != 2 {
				t.Fatalf("expected refetch (calls=%d, cands=%d)", fetcher.calls, len(cands))
			}
			data, err := os.ReadFile(cache.Path("7"))
			if err != nil {
				t.Fatalf("read cache: %v", err)
			}
			if string(data) != samplePayload {
				t.Fatalf("expected cache file replaced by live payload, got %q", data)
			}
		})
	}
}

func TestListCandidatesPropagatesFetchError(t *testing.T) {
	fetcher := &fakePictureFetcher{err: services.Wrap(services.ErrNotFound, "vimeo", "request", "", nil)}
	lister, cache, _ := newTestLister(t, fetcher)
	_, err := lister.ListCandidates(context.Background(), "9", true)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if _, statErr := os.Stat(cache.Path("9")); !os.IsNotExist(statErr) {
		t.Fatal("failed fetch must not create a cache file")
	}
}

func TestOpenResponseCacheRejectsSecondRun(t *testing.T) {
	dir := t.TempDir()
	first, err := OpenResponseCache(dir, nil)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	defer first.Close()

	_, err = OpenResponseCache(dir, nil)
	if !errors.Is(err, ErrCacheLocked) {
		t.Fatalf("expected ErrCacheLocked, got %v", err)
	}
	if services.ExitCode(err) != services.ExitSetup {
		t.Fatalf("expected lock conflict to be a setup error, got exit %d", services.ExitCode(err))
	}

	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	second, err := OpenResponseCache(dir, nil)
	if err != nil {
		t.Fatalf("reopen after close: %v", err)
	}
	_ = second.Close()
}

func TestCacheFileNameSanitizes(t *testing.T) {
	if got := cacheFileName("../etc/passwd"); got != "___etc_passwd.json" {
		t.Fatalf("unexpected file name %q", got)
	}
	if got := cacheFileName("821754541"); got != "821754541.json" {
		t.Fatalf("unexpected file name %q", got)
	}
}
