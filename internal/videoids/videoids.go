// Package videoids extracts Vimeo video identifiers from manifest JSON or
// vendor CSV exports.
package videoids

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"sitekit/internal/services"
)

// ErrUnsupportedFormat reports an input that is neither .json nor .csv.
var ErrUnsupportedFormat = errors.New("input must be .json or .csv")

var (
	embedPattern  = regexp.MustCompile(`vimeo\.com/video/(\d+)`)
	anyURLPattern = regexp.MustCompile(`vimeo\.com/(?:video/)?(\d{6,})`)
)

var jsonIDKeys = []string{"video_id", "vimeo_id", "id"}

var jsonEmbedKeys = []string{"embed_url", "embed"}

var csvIDColumns = map[string]struct{}{
	"video_id": {},
	"vimeo_id": {},
	"Vimeo ID": {},
	"vimeo":    {},
	"id":       {},
	"ID":       {},
}

// ReadFile dispatches on the file extension. Missing files and unsupported
// formats are validation errors.
func ReadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "videoids", "read input", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		ids, err := ParseJSON(data)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "videoids", "parse json", path, err)
		}
		return ids, nil
	case ".csv":
		ids, err := ParseCSV(bytes.NewReader(data))
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "videoids", "parse csv", path, err)
		}
		return ids, nil
	default:
		return nil, services.Wrap(services.ErrValidation, "videoids", "read input", path, ErrUnsupportedFormat)
	}
}

// ParseJSON reads a list of objects. Each object contributes the first
// non-empty of video_id, vimeo_id or id, else the id embedded in its embed
// URL. Non-objects are ignored; a non-list document is an error.
func ParseJSON(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("json input must be a list of objects: %w", err)
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if id := firstValue(obj, jsonIDKeys); id != "" {
			ids = append(ids, id)
			continue
		}
		embed := firstValue(obj, jsonEmbedKeys)
		if m := embedPattern.FindStringSubmatch(embed); m != nil {
			ids = append(ids, m[1])
		}
	}
	return Dedupe(ids), nil
}

// ParseCSV reads a CSV with a header row. The first known id column with a
// value wins; otherwise any cell holding a Vimeo URL is used.
func ParseCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv has no header row")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	var ids []string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if id := idFromRow(header, row); id != "" {
			ids = append(ids, id)
		}
	}
	return Dedupe(ids), nil
}

func idFromRow(header, row []string) string {
	for i, name := range header {
		if i >= len(row) {
			break
		}
		if _, ok := csvIDColumns[name]; !ok {
			continue
		}
		if v := strings.TrimSpace(row[i]); v != "" {
			return v
		}
	}
	for _, cell := range row {
		if m := anyURLPattern.FindStringSubmatch(cell); m != nil {
			return m[1]
		}
	}
	return ""
}

func firstValue(obj map[string]any, keys []string) string {
	for _, key := range keys {
		switch v := obj[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case json.Number:
			if s := v.String(); s != "0" {
				return s
			}
		}
	}
	return ""
}

// Dedupe drops repeated and empty ids, keeping first occurrences in order.
func Dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
