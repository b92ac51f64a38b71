package timerdemo_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"sitekit/internal/testsupport"
	"sitekit/internal/timerdemo"
)

func demoByID(t *testing.T, doc timerdemo.Document, id string) timerdemo.Timeline {
	t.Helper()
	for _, d := range doc.Demos {
		if d.ID == id {
			return d
		}
	}
	t.Fatalf("demo %s missing", id)
	return timerdemo.Timeline{}
}

func TestGenerateShapes(t *testing.T) {
	doc, err := timerdemo.Generate([]string{"e1", "e2", "e3", "e4", "e5"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if doc.GeneratedAt != timerdemo.GeneratedAt || len(doc.Demos) != 3 {
		t.Fatalf("unexpected envelope %+v", doc)
	}

	online := demoByID(t, doc, "online_example2")
	if got := online.Count(timerdemo.KindWork); got != 48 {
		t.Fatalf("online WORK segments = %d, want 48", got)
	}
	if got := online.Count(timerdemo.KindRest); got != 8 {
		t.Fatalf("online REST segments = %d, want 8", got)
	}
	if got := online.Count(timerdemo.KindStationStageTransition); got != 7 {
		t.Fatalf("online transitions = %d, want 7", got)
	}
	if len(online.StageMoves) != 8 {
		t.Fatalf("expected 8 stage move lists, got %d", len(online.StageMoves))
	}

	gym := demoByID(t, doc, "gym_example1")
	if got := gym.Count(timerdemo.KindWork); got != 48 {
		t.Fatalf("gym WORK segments = %d, want 48", got)
	}
	if got := gym.Count(timerdemo.KindMoveTransitionA); got != 6 {
		t.Fatalf("gym move transitions = %d, want 6", got)
	}
	if got := gym.Count(timerdemo.KindStationStageTransition); got != 5 {
		t.Fatalf("gym station transitions = %d, want 5", got)
	}
	if len(gym.Stations) != 6 {
		t.Fatalf("expected 6 stations, got %d", len(gym.Stations))
	}

	quick := demoByID(t, doc, "online_quick")
	if quick.Count(timerdemo.KindWork) != 2 || quick.Count(timerdemo.KindRest) != 1 {
		t.Fatalf("quick demo must be 2 WORK + 1 REST, got %+v", quick.Segments)
	}
	if quick.TotalSeconds() != 25 {
		t.Fatalf("quick demo lasts %ds, want 25", quick.TotalSeconds())
	}

	for _, demo := range doc.Demos {
		for i, seg := range demo.Segments {
			if seg.DurationSec <= 0 {
				t.Fatalf("%s segment %d has non-positive duration", demo.ID, i)
			}
		}
	}
}

func TestGenerateCyclesEmbedsAcrossOnlineDemos(t *testing.T) {
	embeds := []string{"a", "b", "c"}
	doc, err := timerdemo.Generate(embeds)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	online := demoByID(t, doc, "online_example2")
	i := 0
	for _, seg := range online.Segments {
		if seg.Kind != timerdemo.KindWork {
			continue
		}
		if want := embeds[i%len(embeds)]; seg.Meta.VideoEmbedURL != want {
			t.Fatalf("work %d embed = %q, want %q", i, seg.Meta.VideoEmbedURL, want)
		}
		i++
	}

	quick := demoByID(t, doc, "online_quick")
	// 48 online WORK segments consume a full number of cycles.
	if quick.Segments[0].Meta.VideoEmbedURL != "a" || quick.Segments[2].Meta.VideoEmbedURL != "b" {
		t.Fatalf("quick demo must continue the shared iterator, got %+v", quick.Segments)
	}

	gym := demoByID(t, doc, "gym_example1")
	for _, seg := range gym.Segments {
		if seg.Meta.VideoEmbedURL != "" {
			t.Fatal("gym demo segments carry no embed urls")
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.json")
	second := filepath.Join(dir, "b.json")
	for _, path := range []string{first, second} {
		doc, err := timerdemo.Generate([]string{"x", "y"})
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if err := timerdemo.Write(path, doc); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	a, _ := os.ReadFile(first)
	b, _ := os.ReadFile(second)
	if len(a) == 0 || string(a) != string(b) {
		t.Fatal("expected byte-identical output")
	}
}

func TestGenerateRejectsEmptyCatalog(t *testing.T) {
	if _, err := timerdemo.Generate(nil); !errors.Is(err, timerdemo.ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
}

func TestLoadMovesSkipsMissingEmbeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos_moves.json")
	testsupport.WriteFile(t, path, []byte(`[{"title":"A","embed_url":"https://e/1"},{"title":"B","embed_url":null},{"title":"C","embed_url":"https://e/2"}]`))
	embeds, err := timerdemo.LoadMoves(path)
	if err != nil {
		t.Fatalf("LoadMoves: %v", err)
	}
	if len(embeds) != 2 || embeds[0] != "https://e/1" || embeds[1] != "https://e/2" {
		t.Fatalf("unexpected embeds %v", embeds)
	}
}
