package thumbnails

import (
	"fmt"
	"math"
	"sort"
)

// Candidate is one selectable thumbnail image for a video.
type Candidate struct {
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Active   bool   `json:"active"`
	SourceID string `json:"source_id"`
}

func (c Candidate) String() string {
	return fmt.Sprintf("%dx%d active=%t", c.Width, c.Height, c.Active)
}

const (
	activeBonus    = 5.0
	widthDivisor   = 500.0
	maxWidthReward = 3.0
)

// BaseScore rewards the platform's active thumbnail and larger renditions.
// The width term saturates at 3.0 (width >= 1500).
func BaseScore(c Candidate) float64 {
	score := 0.0
	if c.Active {
		score += activeBonus
	}
	score += WidthReward(c.Width)
	return score
}

// WidthReward is the width component of BaseScore.
func WidthReward(width int) float64 {
	if width <= 0 {
		return 0
	}
	return math.Min(float64(width)/widthDivisor, maxWidthReward)
}

// largerThan orders candidates by (width, height).
func largerThan(a, b Candidate) bool {
	if a.Width != b.Width {
		return a.Width > b.Width
	}
	return a.Height > b.Height
}

// sortedBySize returns a copy ordered by (width, height) descending. Equal
// sizes keep their input order.
func sortedBySize(cands []Candidate) []Candidate {
	out := append([]Candidate(nil), cands...)
	sort.SliceStable(out, func(i, j int) bool {
		return largerThan(out[i], out[j])
	})
	return out
}

// fallbackPick prefers active candidates, then the largest (width, height).
// The first of several equally large candidates wins. cands must be non-empty.
func fallbackPick(cands []Candidate) Candidate {
	pool := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if c.Active {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		pool = cands
	}
	best := pool[0]
	for _, c := range pool[1:] {
		if largerThan(c, best) {
			best = c
		}
	}
	return best
}
