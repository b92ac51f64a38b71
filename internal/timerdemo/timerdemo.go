// Package timerdemo generates the deterministic demo timelines shown by the
// online and gym timer previews.
package timerdemo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"sitekit/internal/fileutil"
)

// GeneratedAt is fixed so regenerating the file is byte-stable.
const GeneratedAt = "2026-02-07"

// Segment kinds.
const (
	KindWork                   = "WORK"
	KindRest                   = "REST"
	KindStationStageTransition = "STATION_STAGE_TRANSITION"
	KindMoveTransitionA        = "MOVE_TRANSITION_A"
)

// Modes.
const (
	ModeOnline = "online"
	ModeGym    = "gym"
)

// ErrEmptyCatalog reports a move catalog without any embed URL.
var ErrEmptyCatalog = errors.New("move catalog has no embed urls")

// Meta decorates a segment. Zero fields are omitted.
type Meta struct {
	Mode              string `json:"mode"`
	StageIndex        int    `json:"stage_index,omitempty"`
	StageCount        int    `json:"stage_count,omitempty"`
	RotationIndex     int    `json:"rotation_index,omitempty"`
	RotationCount     int    `json:"rotation_count,omitempty"`
	RoundIndex        int    `json:"round_index,omitempty"`
	RoundsPerStage    int    `json:"rounds_per_stage,omitempty"`
	RoundsPerMove     int    `json:"rounds_per_move,omitempty"`
	MoveSlotIndex     int    `json:"move_slot_index,omitempty"`
	MoveSlotsPerStage int    `json:"move_slots_per_stage,omitempty"`
	MoveName          string `json:"move_name,omitempty"`
	VideoEmbedURL     string `json:"video_embed_url,omitempty"`
	RestType          string `json:"rest_type,omitempty"`
	FromStage         int    `json:"from_stage,omitempty"`
	ToStage           int    `json:"to_stage,omitempty"`
	FromRotation      int    `json:"from_rotation,omitempty"`
	ToRotation        int    `json:"to_rotation,omitempty"`
	FromMoveSlot      int    `json:"from_move_slot,omitempty"`
	ToMoveSlot        int    `json:"to_move_slot,omitempty"`
}

// Segment is one timed block.
type Segment struct {
	Kind        string `json:"kind"`
	DurationSec int    `json:"duration_sec"`
	Meta        Meta   `json:"meta"`
}

// Station is one gym station assignment.
type Station struct {
	Station int      `json:"station"`
	People  int      `json:"people"`
	Moves   []string `json:"moves"`
}

// Timeline is one demo.
type Timeline struct {
	ID               string     `json:"id"`
	Mode             string     `json:"mode"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	CapSuggestionMin int        `json:"cap_suggestion_min"`
	Stations         []Station  `json:"stations,omitempty"`
	Segments         []Segment  `json:"segments"`
	StageMoves       [][]string `json:"stage_moves,omitempty"`
}

// TotalSeconds sums segment durations.
func (t Timeline) TotalSeconds() int {
	total := 0
	for _, s := range t.Segments {
		total += s.DurationSec
	}
	return total
}

// Count returns how many segments have kind.
func (t Timeline) Count(kind string) int {
	n := 0
	for _, s := range t.Segments {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

// Document is the timer_demos.json envelope.
type Document struct {
	GeneratedAt string     `json:"generated_at"`
	Demos       []Timeline `json:"demos"`
}

// LoadMoves returns the non-empty embed URLs of a videos_moves.json file in
// file order.
func LoadMoves(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read move catalog: %w", err)
	}
	var moves []struct {
		EmbedURL *string `json:"embed_url"`
	}
	if err := json.Unmarshal(data, &moves); err != nil {
		return nil, fmt.Errorf("decode move catalog %s: %w", path, err)
	}
	embeds := make([]string, 0, len(moves))
	for _, m := range moves {
		if m.EmbedURL != nil && *m.EmbedURL != "" {
			embeds = append(embeds, *m.EmbedURL)
		}
	}
	return embeds, nil
}

// Write persists doc atomically.
func Write(path string, doc Document) error {
	return fileutil.WriteJSON(path, doc)
}
