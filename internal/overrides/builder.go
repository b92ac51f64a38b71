package overrides

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"sitekit/internal/audit"
	"sitekit/internal/logging"
	"sitekit/internal/thumbnails"
)

// CandidateLister lists thumbnail candidates for one video.
type CandidateLister interface {
	ListCandidates(ctx context.Context, videoID string, useCache bool) ([]thumbnails.Candidate, error)
}

// Picker selects one candidate.
type Picker interface {
	PickBest(ctx context.Context, cands []thumbnails.Candidate, fast bool) (*thumbnails.Candidate, thumbnails.Decision)
}

// DecisionRecorder receives every successful pick.
type DecisionRecorder interface {
	Record(ctx context.Context, d audit.Decision) error
}

// Options tune a Build run.
type Options struct {
	// OnlyMissing skips ids that already have a non-empty entry.
	OnlyMissing bool
	// UseCache lets the lister answer from cached picture listings.
	UseCache bool
	// Fast selects without downloading image bytes.
	Fast bool
	// Limit caps the number of ids considered; 0 means all.
	Limit int
	// Workers bounds concurrent ids; values below 1 mean sequential.
	Workers int
}

// Failure describes one id that produced no entry.
type Failure struct {
	VideoID string
	Err     error
}

// Result summarizes a Build run.
type Result struct {
	Map       Map
	Total     int
	Processed int
	Picked    int
	Skipped   int
	Failures  []Failure
}

// Builder merges fresh picks into an existing map.
type Builder struct {
	lister   CandidateLister
	picker   Picker
	recorder DecisionRecorder
	runID    string
	logger   *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithRecorder appends each pick to a decision ledger.
func WithRecorder(rec DecisionRecorder) BuilderOption {
	return func(b *Builder) { b.recorder = rec }
}

// WithRunID tags ledger rows with the run identifier.
func WithRunID(id string) BuilderOption {
	return func(b *Builder) { b.runID = id }
}

// NewBuilder wires a Builder.
func NewBuilder(lister CandidateLister, picker Picker, logger *slog.Logger, opts ...BuilderOption) *Builder {
	b := &Builder{
		lister: lister,
		picker: picker,
		logger: logging.NewComponentLogger(logger, "overrides"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build processes ids in order and returns existing merged with the new
// picks. An id that fails keeps its previous entry, if any. When ctx is
// cancelled the picks made so far are returned together with ctx.Err().
func (b *Builder) Build(ctx context.Context, ids []string, existing Map, opts Options) (Result, error) {
	ids = dedupe(ids)
	if opts.Limit > 0 && len(ids) > opts.Limit {
		ids = ids[:opts.Limit]
	}

	merged := existing.Clone()
	result := Result{Total: len(ids)}

	var mu sync.Mutex
	workers := max(opts.Workers, 1)
	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i, id := range ids {
		if ctx.Err() != nil {
			break
		}
		if opts.OnlyMissing {
			if existing[id] != "" {
				mu.Lock()
				result.Skipped++
				mu.Unlock()
				continue
			}
		}
		index := i + 1
		g.Go(func() error {
			url, err := b.process(ctx, index, len(ids), id, opts)
			mu.Lock()
			defer mu.Unlock()
			result.Processed++
			if err != nil {
				result.Failures = append(result.Failures, Failure{VideoID: id, Err: err})
				return nil
			}
			merged[id] = url
			result.Picked++
			return nil
		})
	}
	_ = g.Wait()

	result.Map = merged
	b.logger.Info("override build finished",
		logging.Int("processed", result.Processed),
		logging.Int("picked", result.Picked),
		logging.Int("failed", len(result.Failures)),
		logging.Int("skipped", result.Skipped),
		logging.Int("total_overrides", len(merged)))
	return result, ctx.Err()
}

func (b *Builder) process(ctx context.Context, index, total int, id string, opts Options) (string, error) {
	progress := fmt.Sprintf("[%d/%d]", index, total)
	logger := b.logger.With(logging.String(logging.FieldVideoID, id), logging.String(logging.FieldProgress, progress))

	cands, err := b.lister.ListCandidates(ctx, id, opts.UseCache)
	if err != nil {
		logging.WarnWithContext(logger, "picture listing failed; keeping previous entry", "thumbnail_list_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "re-run later; cached listings are reused"),
			logging.String(logging.FieldImpact, "video keeps its previous thumbnail"))
		return "", err
	}

	winner, decision := b.picker.PickBest(ctx, cands, opts.Fast)
	if winner == nil {
		logger.Info("no candidates", logging.String("reason", decision.Reason))
		return "", fmt.Errorf("%s: %s", id, decision.Reason)
	}

	attrs := []logging.Attr{
		logging.Int("width", winner.Width),
		logging.Int("height", winner.Height),
		logging.Bool("active", winner.Active),
		logging.String("reason", decision.Reason),
	}
	if decision.Picked != nil && decision.Picked.Score != nil {
		attrs = append(attrs, logging.Float64("score", *decision.Picked.Score))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "picked thumbnail", attrs...)
	b.record(ctx, logger, id, winner, decision)
	return winner.URL, nil
}

func (b *Builder) record(ctx context.Context, logger *slog.Logger, id string, winner *thumbnails.Candidate, decision thumbnails.Decision) {
	if b.recorder == nil {
		return
	}
	entry := audit.Decision{
		RunID:   b.runID,
		VideoID: id,
		Reason:  decision.Reason,
		URL:     winner.URL,
		Width:   winner.Width,
		Height:  winner.Height,
		Active:  winner.Active,
	}
	if decision.Picked != nil {
		entry.Score = decision.Picked.Score
	}
	if err := b.recorder.Record(ctx, entry); err != nil {
		logging.WarnWithContext(logger, "decision not recorded", "audit_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the audit ledger path"),
			logging.String(logging.FieldImpact, "thumbnail history is incomplete for this run"))
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
