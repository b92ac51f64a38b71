package overrides_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"sitekit/internal/audit"
	"sitekit/internal/overrides"
	"sitekit/internal/thumbnails"
)

type fakeLister struct {
	mu    sync.Mutex
	cands map[string][]thumbnails.Candidate
	errs  map[string]error
	seen  []string
}

func (f *fakeLister) ListCandidates(_ context.Context, id string, _ bool) ([]thumbnails.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, id)
	if err := f.errs[id]; err != nil {
		return nil, err
	}
	return f.cands[id], nil
}

type fakeRecorder struct {
	mu   sync.Mutex
	rows []audit.Decision
	err  error
}

func (r *fakeRecorder) Record(_ context.Context, d audit.Decision) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, d)
	return r.err
}

func newFixture() (*fakeLister, *thumbnails.Selector) {
	lister := &fakeLister{
		cands: map[string][]thumbnails.Candidate{
			"1": {{URL: "https://new/1-small", Width: 320, Height: 180}, {URL: "https://new/1", Width: 1920, Height: 1080}},
			"2": {{URL: "https://new/2", Width: 640, Height: 360, Active: true}},
			"3": nil,
			"4": {{URL: "https://new/4", Width: 960, Height: 540}},
		},
		errs: map[string]error{"bad": errors.New("http 500")},
	}
	selector := thumbnails.NewSelector(nil, 8, nil)
	return lister, selector
}

func TestBuildMergesAndIsolatesFailures(t *testing.T) {
	lister, selector := newFixture()
	recorder := &fakeRecorder{}
	builder := overrides.NewBuilder(lister, selector, nil, overrides.WithRecorder(recorder), overrides.WithRunID("run-1"))

	existing := overrides.Map{"bad": "https://old/bad", "3": "https://old/3", "9": "https://old/9"}
	res, err := builder.Build(context.Background(), []string{"1", "bad", "2", "3"}, existing, overrides.Options{Fast: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := map[string]string{
		"1":   "https://new/1",
		"2":   "https://new/2",
		"3":   "https://old/3",
		"9":   "https://old/9",
		"bad": "https://old/bad",
	}
	if len(res.Map) != len(want) {
		t.Fatalf("unexpected map %v", res.Map)
	}
	for k, v := range want {
		if res.Map[k] != v {
			t.Fatalf("entry %s = %q, want %q", k, res.Map[k], v)
		}
	}
	if res.Processed != 4 || res.Picked != 2 || len(res.Failures) != 2 {
		t.Fatalf("unexpected counts %+v", res)
	}
	if existing["1"] != "" {
		t.Fatal("Build must not mutate the existing map")
	}
	if len(recorder.rows) != 2 || recorder.rows[0].RunID != "run-1" || recorder.rows[0].Reason != thumbnails.ReasonFastPath {
		t.Fatalf("unexpected ledger rows %+v", recorder.rows)
	}
}

func TestBuildOnlyMissingAndLimit(t *testing.T) {
	lister, selector := newFixture()
	builder := overrides.NewBuilder(lister, selector, nil)

	existing := overrides.Map{"1": "https://old/1"}
	res, err := builder.Build(context.Background(), []string{"1", "2", "4"}, existing, overrides.Options{OnlyMissing: true, Limit: 2})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Total != 2 || res.Skipped != 1 || res.Picked != 1 {
		t.Fatalf("unexpected counts %+v", res)
	}
	if res.Map["1"] != "https://old/1" || res.Map["2"] != "https://new/2" {
		t.Fatalf("unexpected map %v", res.Map)
	}
	if _, ok := res.Map["4"]; ok {
		t.Fatal("limit must exclude ids past the cap")
	}
	if len(lister.seen) != 1 || lister.seen[0] != "2" {
		t.Fatalf("expected only id 2 listed, got %v", lister.seen)
	}
}

func TestBuildWithWorkersMatchesSequential(t *testing.T) {
	ids := []string{"1", "2", "3", "4", "bad", "1"}

	lister, selector := newFixture()
	sequential, err := overrides.NewBuilder(lister, selector, nil).Build(context.Background(), ids, overrides.Map{}, overrides.Options{})
	if err != nil {
		t.Fatalf("sequential Build: %v", err)
	}

	lister, selector = newFixture()
	parallel, err := overrides.NewBuilder(lister, selector, nil).Build(context.Background(), ids, overrides.Map{}, overrides.Options{Workers: 4})
	if err != nil {
		t.Fatalf("parallel Build: %v", err)
	}

	if len(sequential.Map) != len(parallel.Map) || sequential.Picked != parallel.Picked {
		t.Fatalf("results differ: %+v vs %+v", sequential, parallel)
	}
	for k, v := range sequential.Map {
		if parallel.Map[k] != v {
			t.Fatalf("entry %s differs: %q vs %q", k, v, parallel.Map[k])
		}
	}
	if sequential.Total != 5 {
		t.Fatalf("duplicate ids must be processed once, total=%d", sequential.Total)
	}
}

func TestBuildLedgerFailureDoesNotFailPick(t *testing.T) {
	lister, selector := newFixture()
	recorder := &fakeRecorder{err: errors.New("disk full")}
	builder := overrides.NewBuilder(lister, selector, nil, overrides.WithRecorder(recorder))
	res, err := builder.Build(context.Background(), []string{"2"}, nil, overrides.Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Map["2"] != "https://new/2" {
		t.Fatalf("expected pick despite ledger failure, got %v", res.Map)
	}
}

func TestBuildCancelledReturnsPartialMap(t *testing.T) {
	lister, selector := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := overrides.NewBuilder(lister, selector, nil).Build(ctx, []string{"1"}, overrides.Map{"9": "https://old/9"}, overrides.Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if res.Map["9"] != "https://old/9" || res.Processed != 0 {
		t.Fatalf("expected untouched map, got %+v", res)
	}
}

func TestBuildOnlyMissingTwiceIsStable(t *testing.T) {
	lister, selector := newFixture()
	lister.cands["7"] = []thumbnails.Candidate{{URL: "https://new/7", Width: 1280, Height: 720}}
	builder := overrides.NewBuilder(lister, selector, nil)

	seed, err := overrides.Decode([]byte(`{"_meta":{"count":2},"1":"https://old/1","7":null}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	ids := []string{"1", "2", "3", "4", "7"}
	opts := overrides.Options{OnlyMissing: true, Fast: true}

	first, err := builder.Build(context.Background(), ids, seed, opts)
	if err != nil {
		t.Fatalf("first Build: %v", err)
	}
	if first.Map["7"] != "https://new/7" {
		t.Fatalf("null entry must be recomputed, got %q", first.Map["7"])
	}

	lister.seen = nil
	second, err := builder.Build(context.Background(), ids, first.Map, opts)
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}
	if len(lister.seen) != 1 || lister.seen[0] != "3" {
		t.Fatalf("expected only the unresolved id relisted, got %v", lister.seen)
	}

	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	a, err := overrides.Encode(first.Map, overrides.NewMeta("", first.Map, now))
	if err != nil {
		t.Fatalf("Encode first: %v", err)
	}
	b, err := overrides.Encode(second.Map, overrides.NewMeta("", second.Map, now))
	if err != nil {
		t.Fatalf("Encode second: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("second run changed the map:\n%s\nvs\n%s", a, b)
	}
}
