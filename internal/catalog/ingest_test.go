package catalog_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"sitekit/internal/catalog"
	"sitekit/internal/services"
	"sitekit/internal/testsupport"
)

const exportCSV = `Title,Video_ID,embed_url,thumbnail_url,vimeo_link
"HIIT56 | Upper Body | Week 3",821754541,https://player.vimeo.com/video/821754541,https://i.vimeocdn.com/a.jpg,https://vimeo.com/821754541
Burpee,700000001.0,https://player.vimeo.com/video/700000001,,https://vimeo.com/700000001
Homepage Hero,n/a,https://player.vimeo.com/video/700000002,,
"Heavy HIIT | Sample",700000003,https://player.vimeo.com/video/700000003,,
Free Sample,700000004,,,
`

func TestReadCSV(t *testing.T) {
	videos, err := catalog.ReadCSV(strings.NewReader(exportCSV))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(videos) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(videos))
	}
	class := videos[0]
	if class.Kind != catalog.KindClass || class.CategorySlug != "hiit56-upper" {
		t.Fatalf("unexpected class row %+v", class)
	}
	if class.VideoID == nil || *class.VideoID != 821754541 {
		t.Fatalf("unexpected video id %v", class.VideoID)
	}
	if videos[1].VideoID == nil || *videos[1].VideoID != 700000001 {
		t.Fatalf("expected float-formatted id to parse, got %v", videos[1].VideoID)
	}
	if videos[2].VideoID != nil || videos[2].Kind != catalog.KindMarketing {
		t.Fatalf("unexpected marketing row %+v", videos[2])
	}
	if videos[3].Kind != catalog.KindCategorySample || videos[4].Kind != catalog.KindSample {
		t.Fatalf("unexpected kinds %q %q", videos[3].Kind, videos[4].Kind)
	}
}

func TestReadCSVNormalizesHeaders(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"spaced", "Title,Video ID,Embed URL,Thumbnail URL,Vimeo Link"},
		{"hyphenated", "TITLE,video-id,embed-url,thumbnail-url,vimeo-link"},
		{"vimeo id alias", "Title,Vimeo ID,Embed URL,Thumbnail URL,Vimeo Link"},
		{"id alias", "\ufeffTitle,ID,Embed URL,Thumbnail URL,Vimeo Link"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			csv := tc.header + "\nPushup,821754543,https://player.vimeo.com/video/821754543,,\n"
			videos, err := catalog.ReadCSV(strings.NewReader(csv))
			if err != nil {
				t.Fatalf("ReadCSV: %v", err)
			}
			if len(videos) != 1 {
				t.Fatalf("expected 1 row, got %d", len(videos))
			}
			v := videos[0]
			if v.VideoID == nil || *v.VideoID != 821754543 {
				t.Fatalf("expected video id 821754543, got %v", v.VideoID)
			}
			if v.EmbedURL != "https://player.vimeo.com/video/821754543" || v.Kind != catalog.KindMoveDemo {
				t.Fatalf("unexpected row %+v", v)
			}
		})
	}
}

func TestReadCSVPrefersVideoIDOverAlias(t *testing.T) {
	videos, err := catalog.ReadCSV(strings.NewReader("id,Title,Video ID\n1,Pushup,821754543\n"))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if videos[0].VideoID == nil || *videos[0].VideoID != 821754543 {
		t.Fatalf("expected video_id column to win, got %v", videos[0].VideoID)
	}
}

func TestReadCSVRequiresTitle(t *testing.T) {
	_, err := catalog.ReadCSV(strings.NewReader("name,video_id\nx,1\n"))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWriteManifests(t *testing.T) {
	videos, err := catalog.ReadCSV(strings.NewReader(exportCSV))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	dir := filepath.Join(t.TempDir(), "data")
	summary, err := catalog.WriteManifests(dir, videos)
	if err != nil {
		t.Fatalf("WriteManifests: %v", err)
	}
	if summary.All != 5 || summary.Classes != 1 || summary.Moves != 1 || summary.Marketing != 1 || summary.CategorySamples != 1 || summary.Samples != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(summary.Files) != 5 {
		t.Fatalf("expected five manifests, got %v", summary.Files)
	}

	var classes []map[string]any
	testsupport.ReadJSON(t, filepath.Join(dir, catalog.FileClasses), &classes)
	if len(classes) != 1 || classes[0]["category_slug"] != "hiit56-upper" {
		t.Fatalf("unexpected classes manifest %v", classes)
	}

	var all []map[string]any
	testsupport.ReadJSON(t, filepath.Join(dir, catalog.FileAll), &all)
	if all[2]["video_id"] != nil || all[2]["kind"] != "marketing" {
		t.Fatalf("expected null id for marketing row, got %v", all[2])
	}
	if _, ok := all[1]["thumbnail_url"]; !ok || all[1]["thumbnail_url"] != nil {
		t.Fatalf("expected explicit null thumbnail_url, got %v", all[1])
	}

	var samples []map[string]any
	testsupport.ReadJSON(t, filepath.Join(dir, catalog.FileCategorySamples), &samples)
	if len(samples) != 1 {
		t.Fatalf("unexpected samples %v", samples)
	}
	if _, ok := samples[0]["thumbnail_url"]; ok {
		t.Fatal("category samples carry only title, video_id and embed_url")
	}

	var marketing []map[string]any
	testsupport.ReadJSON(t, filepath.Join(dir, catalog.FileMarketing), &marketing)
	if len(marketing) != 1 {
		t.Fatalf("unexpected marketing manifest %v", marketing)
	}
}
