package thumbnails

import (
	"context"
	"log/slog"
	"math"

	"sitekit/internal/logging"
)

// DefaultMaxScored bounds how many of the largest candidates are scored.
const DefaultMaxScored = 8

// Decision reasons recorded for every pick.
const (
	ReasonNoCandidates = "no_candidates"
	// ReasonFastPath is the fallback rule taken without scoring, either on
	// request or because image analysis is unavailable. The tag value is
	// shared with existing audit logs.
	ReasonFastPath = "fast_or_no_pillow"
	ReasonScored   = "scored"
	ReasonFallback = "fallback"
)

// PickSummary describes the winning candidate.
type PickSummary struct {
	Width       int          `json:"w"`
	Height      int          `json:"h"`
	Active      bool         `json:"active"`
	URL         string       `json:"url"`
	Score       *float64     `json:"score,omitempty"`
	Diagnostics *Diagnostics `json:"diagnostics,omitempty"`
}

// Decision records which path produced a pick.
type Decision struct {
	Reason string       `json:"reason"`
	Picked *PickSummary `json:"picked,omitempty"`
	Scored int          `json:"scored,omitempty"`
}

// Selector picks exactly one candidate per non-empty candidate set.
type Selector struct {
	scorer    *Scorer
	maxScored int
	logger    *slog.Logger
}

// NewSelector builds a Selector. A nil scorer behaves as if image analysis
// were unavailable.
func NewSelector(scorer *Scorer, maxScored int, logger *slog.Logger) *Selector {
	if maxScored <= 0 {
		maxScored = DefaultMaxScored
	}
	return &Selector{
		scorer:    scorer,
		maxScored: maxScored,
		logger:    logging.NewComponentLogger(logger, "thumbnail-selector"),
	}
}

// PickBest returns the winning candidate and the decision that produced it.
// The winner is nil only when cands is empty. With fast set, no image bytes
// are downloaded.
func (s *Selector) PickBest(ctx context.Context, cands []Candidate, fast bool) (*Candidate, Decision) {
	if len(cands) == 0 {
		return nil, Decision{Reason: ReasonNoCandidates}
	}

	if fast || !s.scorer.Capabilities().ImageAnalysis {
		winner := fallbackPick(cands)
		return &winner, Decision{Reason: ReasonFastPath, Picked: summarize(winner, nil)}
	}

	ranked := sortedBySize(cands)
	if len(ranked) > s.maxScored {
		ranked = ranked[:s.maxScored]
	}

	var (
		best      *Candidate
		bestScore ScoreResult
		scored    int
	)
	for i := range ranked {
		if ctx.Err() != nil {
			break
		}
		res := s.scorer.Score(ctx, ranked[i])
		scored++
		if math.IsNaN(res.Score) {
			continue
		}
		if best == nil || res.Score > bestScore.Score {
			best = &ranked[i]
			bestScore = res
		}
	}

	if best == nil {
		winner := fallbackPick(cands)
		s.logger.Debug("scoring produced no winner; using fallback rule",
			logging.Int("scored", scored))
		return &winner, Decision{Reason: ReasonFallback, Picked: summarize(winner, nil), Scored: scored}
	}

	winner := *best
	return &winner, Decision{Reason: ReasonScored, Picked: summarize(winner, &bestScore), Scored: scored}
}

func summarize(c Candidate, res *ScoreResult) *PickSummary {
	summary := &PickSummary{
		Width:  c.Width,
		Height: c.Height,
		Active: c.Active,
		URL:    c.URL,
	}
	if res != nil {
		score := res.Score
		diag := res.Diagnostics
		summary.Score = &score
		summary.Diagnostics = &diag
	}
	return summary
}
