package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"sitekit/internal/fileutil"
	"sitekit/internal/services"
)

// Manifest file names written by WriteManifests.
const (
	FileAll             = "videos_all.json"
	FileClasses         = "videos_classes.json"
	FileMoves           = "videos_moves.json"
	FileMarketing       = "videos_marketing.json"
	FileCategorySamples = "videos_category_samples.json"
)

// Video is one row of the export with its derived classification.
type Video struct {
	Title        string
	VideoID      *int64
	EmbedURL     string
	ThumbnailURL string
	VimeoLink    string
	Kind         Kind
	// CategorySlug is set for classes only.
	CategorySlug string
}

var knownColumns = []string{"title", "video_id", "embed_url", "thumbnail_url", "vimeo_link"}

// columnAliases maps alternative header names onto known columns.
var columnAliases = map[string]string{
	"vimeo_id": "video_id",
	"id":       "video_id",
}

// ReadCSV parses the export. Headers are matched after folding case, spaces
// and hyphens, so "Video ID" finds video_id; vimeo_id and id are accepted
// when no video_id column exists. Only title is required. Video ids that are
// not numeric become nil.
func ReadCSV(r io.Reader) ([]Video, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, services.Wrap(services.ErrValidation, "catalog", "read csv", "csv has no header row", nil)
		}
		return nil, services.Wrap(services.ErrValidation, "catalog", "read csv", "header", err)
	}
	columns := sniffColumns(header)
	if _, ok := columns["title"]; !ok {
		return nil, services.Wrap(services.ErrValidation, "catalog", "read csv", "missing title column", nil)
	}

	var videos []Video
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "catalog", "read csv", fmt.Sprintf("line %d", line), err)
		}
		cell := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		v := Video{
			Title:        cell("title"),
			VideoID:      parseVideoID(cell("video_id")),
			EmbedURL:     cell("embed_url"),
			ThumbnailURL: cell("thumbnail_url"),
			VimeoLink:    cell("vimeo_link"),
		}
		v.Kind = KindOf(v.Title)
		if v.Kind == KindClass {
			v.CategorySlug = ClassifyTitle(v.Title)
		}
		videos = append(videos, v)
	}
	return videos, nil
}

// ReadCSVFile opens path and parses it with ReadCSV.
func ReadCSVFile(path string) ([]Video, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "catalog", "open csv", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// sniffColumns maps known columns to header positions. Exact names win over
// aliases; the first occurrence of a name wins over later duplicates.
func sniffColumns(header []string) map[string]int {
	columns := make(map[string]int, len(knownColumns))
	aliased := make(map[string]int)
	for i, raw := range header {
		name := normalizeHeader(raw)
		if slices.Contains(knownColumns, name) {
			if _, dup := columns[name]; !dup {
				columns[name] = i
			}
			continue
		}
		if target, ok := columnAliases[name]; ok {
			if _, dup := aliased[target]; !dup {
				aliased[target] = i
			}
		}
	}
	for name, i := range aliased {
		if _, ok := columns[name]; !ok {
			columns[name] = i
		}
	}
	return columns
}

// normalizeHeader folds "Video ID", "video-id" and "VIDEO_ID" to video_id.
func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
	return strings.Join(strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
}

func parseVideoID(raw string) *int64 {
	if raw == "" {
		return nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil
	}
	n := int64(f)
	return &n
}

type allRecord struct {
	Title        string  `json:"title"`
	VideoID      *int64  `json:"video_id"`
	EmbedURL     *string `json:"embed_url"`
	ThumbnailURL *string `json:"thumbnail_url"`
	VimeoLink    *string `json:"vimeo_link"`
	Kind         Kind    `json:"kind"`
}

type classRecord struct {
	Title        string  `json:"title"`
	VideoID      *int64  `json:"video_id"`
	EmbedURL     *string `json:"embed_url"`
	ThumbnailURL *string `json:"thumbnail_url"`
	VimeoLink    *string `json:"vimeo_link"`
	CategorySlug string  `json:"category_slug"`
}

type mediaRecord struct {
	Title        string  `json:"title"`
	VideoID      *int64  `json:"video_id"`
	EmbedURL     *string `json:"embed_url"`
	ThumbnailURL *string `json:"thumbnail_url"`
	VimeoLink    *string `json:"vimeo_link"`
}

type sampleRecord struct {
	Title    string  `json:"title"`
	VideoID  *int64  `json:"video_id"`
	EmbedURL *string `json:"embed_url"`
}

// Summary counts rows per manifest.
type Summary struct {
	All             int
	Classes         int
	Moves           int
	Marketing       int
	CategorySamples int
	Samples         int
	Files           []string
}

// WriteManifests writes the five manifests into dir, each atomically.
func WriteManifests(dir string, videos []Video) (Summary, error) {
	all := make([]allRecord, 0, len(videos))
	classes := []classRecord{}
	moves := []mediaRecord{}
	marketing := []mediaRecord{}
	samples := []sampleRecord{}
	summary := Summary{All: len(videos)}

	for _, v := range videos {
		all = append(all, allRecord{v.Title, v.VideoID, nullable(v.EmbedURL), nullable(v.ThumbnailURL), nullable(v.VimeoLink), v.Kind})
		media := mediaRecord{v.Title, v.VideoID, nullable(v.EmbedURL), nullable(v.ThumbnailURL), nullable(v.VimeoLink)}
		switch v.Kind {
		case KindClass:
			slug := v.CategorySlug
			if slug == "" {
				slug = ClassifyTitle(v.Title)
			}
			classes = append(classes, classRecord{v.Title, v.VideoID, media.EmbedURL, media.ThumbnailURL, media.VimeoLink, slug})
		case KindMoveDemo:
			moves = append(moves, media)
		case KindMarketing:
			marketing = append(marketing, media)
		case KindCategorySample:
			samples = append(samples, sampleRecord{v.Title, v.VideoID, media.EmbedURL})
		case KindSample:
			summary.Samples++
		}
	}
	summary.Classes = len(classes)
	summary.Moves = len(moves)
	summary.Marketing = len(marketing)
	summary.CategorySamples = len(samples)

	outputs := []struct {
		name string
		v    any
	}{
		{FileAll, all},
		{FileClasses, classes},
		{FileMoves, moves},
		{FileMarketing, marketing},
		{FileCategorySamples, samples},
	}
	for _, out := range outputs {
		path := filepath.Join(dir, out.name)
		if err := fileutil.WriteJSON(path, out.v); err != nil {
			return summary, fmt.Errorf("write manifest %s: %w", out.name, err)
		}
		summary.Files = append(summary.Files, path)
	}
	return summary, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
