package thumbnails

import (
	"math"
	"testing"
)

func TestBaseScore(t *testing.T) {
	tests := []struct {
		name string
		c    Candidate
		want float64
	}{
		{"active saturated", Candidate{Width: 1920, Active: true}, 8.0},
		{"inactive small", Candidate{Width: 250}, 0.5},
		{"active at cap", Candidate{Width: 1500, Active: true}, 8.0},
		{"zero width", Candidate{Width: 0, Active: true}, 5.0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := BaseScore(tc.c); math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("BaseScore = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBaseScoreMonotonicInWidth(t *testing.T) {
	prev := -1.0
	for w := 0; w <= 2000; w += 50 {
		got := BaseScore(Candidate{Width: w})
		if got < prev {
			t.Fatalf("score decreased at width %d: %v < %v", w, got, prev)
		}
		prev = got
	}
}

func TestFallbackPickPrefersActive(t *testing.T) {
	cands := []Candidate{
		{URL: "big", Width: 1920, Height: 1080},
		{URL: "active-small", Width: 640, Height: 360, Active: true},
		{URL: "active-mid", Width: 960, Height: 540, Active: true},
	}
	if got := fallbackPick(cands); got.URL != "active-mid" {
		t.Fatalf("expected largest active candidate, got %s", got.URL)
	}
}

func TestFallbackPickWithoutActiveUsesLargest(t *testing.T) {
	cands := []Candidate{
		{URL: "a", Width: 640, Height: 360},
		{URL: "b", Width: 640, Height: 480},
		{URL: "c", Width: 640, Height: 480},
	}
	if got := fallbackPick(cands); got.URL != "b" {
		t.Fatalf("expected first of the largest, got %s", got.URL)
	}
}

func TestSortedBySizeIsStable(t *testing.T) {
	cands := []Candidate{
		{URL: "a", Width: 100, Height: 100},
		{URL: "b", Width: 200, Height: 100},
		{URL: "c", Width: 100, Height: 100},
	}
	got := sortedBySize(cands)
	order := []string{got[0].URL, got[1].URL, got[2].URL}
	if order[0] != "b" || order[1] != "a" || order[2] != "c" {
		t.Fatalf("unexpected order %v", order)
	}
	if cands[0].URL != "a" {
		t.Fatal("input slice must not be reordered")
	}
}
