package overrides

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"time"

	"sitekit/internal/fileutil"
	"sitekit/internal/services"
)

// MetaKey is the reserved top-level key holding the envelope.
const MetaKey = "_meta"

// DefaultSchema tags files written by this package.
const DefaultSchema = "hiit56.thumbnail_overrides.v1"

const defaultNotes = "Map of Vimeo video_id (string) -> preferred thumbnail URL. Generated by sitekit thumbnails."

// Map associates video ids with preferred thumbnail URLs.
type Map map[string]string

// Clone returns an independent copy.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Keys returns the ids in persisted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	SortIDs(keys)
	return keys
}

// Meta is the envelope recomputed on every write.
type Meta struct {
	Schema      string `json:"schema"`
	GeneratedAt string `json:"generated_at"`
	Count       int    `json:"count"`
	Notes       string `json:"notes"`
}

// NewMeta describes m as of now.
func NewMeta(schema string, m Map, now time.Time) Meta {
	if schema == "" {
		schema = DefaultSchema
	}
	return Meta{
		Schema:      schema,
		GeneratedAt: now.Format(time.DateOnly),
		Count:       len(m),
		Notes:       defaultNotes,
	}
}

// Load reads the map at path. A missing file is an empty map. The envelope
// and entries whose value is not a non-empty string are ignored. A file
// that is not a JSON object is a configuration error.
func Load(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Map{}, nil
		}
		return nil, services.Wrap(services.ErrConfiguration, "overrides", "load", path, err)
	}
	return Decode(data)
}

// Decode parses a persisted map.
func Decode(data []byte) (Map, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "overrides", "decode", "existing overrides file is not a JSON object", err)
	}
	out := make(Map, len(raw))
	for key, value := range raw {
		if key == MetaKey {
			continue
		}
		var url *string
		if err := json.Unmarshal(value, &url); err != nil || url == nil || *url == "" {
			continue
		}
		out[key] = *url
	}
	return out, nil
}

// Encode renders m with the envelope first and entries in id order.
func Encode(m Map, meta Meta) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n  ")
	if err := writeJSONString(&buf, MetaKey); err != nil {
		return nil, err
	}
	buf.WriteString(": ")
	metaJSON, err := json.MarshalIndent(meta, "  ", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode overrides meta: %w", err)
	}
	buf.Write(metaJSON)

	for _, key := range m.Keys() {
		buf.WriteString(",\n  ")
		if err := writeJSONString(&buf, key); err != nil {
			return nil, err
		}
		buf.WriteString(": ")
		if err := writeJSONString(&buf, m[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteString("\n}\n")
	return buf.Bytes(), nil
}

// Write persists m atomically with a freshly computed envelope.
func Write(path string, m Map, schema string, now time.Time) error {
	data, err := Encode(m, NewMeta(schema, m, now))
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, data)
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode overrides entry: %w", err)
	}
	// Encoder terminates each value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// SortIDs orders ids numerically when both are all digits, otherwise
// lexicographically. Numeric ids sort before the rest.
func SortIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		return idLess(ids[i], ids[j])
	})
}

func idLess(a, b string) bool {
	na, aNumeric := numericID(a)
	nb, bNumeric := numericID(b)
	switch {
	case aNumeric && bNumeric:
		if na != nb {
			return na < nb
		}
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	case aNumeric:
		return true
	case bNumeric:
		return false
	default:
		return a < b
	}
}

func numericID(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		// Out of range; idLess falls back to length then text.
		return ^uint64(0), true
	}
	return n, true
}
