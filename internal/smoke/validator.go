package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"sitekit/internal/catalog"
	"sitekit/internal/config"
	"sitekit/internal/deps"
	"sitekit/internal/logging"
)

// Site-relative locations of the artifacts every build must carry.
const (
	BuildFile      = "assets/build.json"
	StylesFile     = "assets/css/styles.css"
	ScriptFile     = "assets/js/site.js"
	CategoriesFile = "categories_v1.json"
	TimerDemosFile = "timer_demos.json"
)

const maxListedTeasers = 20

// Options configures a Validator.
type Options struct {
	SiteDir          string
	DataDir          string
	RequiredPages    []string
	RequiredData     []string
	StaleMarkers     []string
	AccentColor      string
	NodeBinary       string
	SkipScriptSyntax bool
}

// OptionsFromConfig maps the smoke section of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SiteDir:          cfg.Paths.SiteDir,
		DataDir:          cfg.Paths.DataDir,
		RequiredPages:    cfg.Smoke.RequiredPages,
		RequiredData:     cfg.Smoke.RequiredData,
		StaleMarkers:     cfg.Smoke.StaleMarkers,
		AccentColor:      cfg.Smoke.AccentColor,
		NodeBinary:       cfg.NodeBinary(),
		SkipScriptSyntax: cfg.Smoke.SkipScriptSyntax,
	}
}

// Validator runs the smoke checks over one site tree.
type Validator struct {
	opts   Options
	logger *slog.Logger
	syntax func(ctx context.Context, node, path string) error
}

// New builds a Validator.
func New(opts Options, logger *slog.Logger) *Validator {
	if opts.DataDir == "" {
		opts.DataDir = filepath.Join(opts.SiteDir, "assets", "data")
	}
	return &Validator{
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "smoke"),
		syntax: deps.CheckScriptSyntax,
	}
}

// documents holds the manifests later checks cross-reference. A nil field
// means the file was missing or did not parse.
type documents struct {
	categories []map[string]any
	classes    []map[string]any
	moves      []any
}

// Validate runs every check and returns the collected report.
func (v *Validator) Validate(ctx context.Context) Report {
	var report Report
	var docs documents

	label, res := v.checkBuildLabel()
	report.Label = label
	report.Checks = append(report.Checks, res)
	report.Checks = append(report.Checks,
		v.checkPresence("Pages", v.opts.SiteDir, v.opts.RequiredPages),
		v.checkPresence("Data manifests", v.opts.DataDir, v.opts.RequiredData),
		v.checkParse(&docs),
		v.checkTimerDemos(),
	)
	slugs, teasers, res := v.checkCategories(&docs)
	report.Checks = append(report.Checks,
		res,
		v.checkClassSlugs(&docs, slugs),
		v.checkTeasers(&docs, teasers),
		v.checkAssets(),
		v.checkScriptSyntax(ctx),
		v.checkStaleMarkers(),
	)

	for _, c := range report.Checks {
		if c.Status == StatusFail {
			v.logger.Debug("smoke check failed", logging.String("check", c.Name), logging.Int("violations", len(c.Failures)))
		}
	}
	return report
}

func (v *Validator) sitePath(rel string) string {
	return filepath.Join(v.opts.SiteDir, filepath.FromSlash(strings.TrimPrefix(rel, "/")))
}

func (v *Validator) dataPath(name string) string {
	return filepath.Join(v.opts.DataDir, name)
}

func (v *Validator) checkBuildLabel() (string, Result) {
	c := &checker{name: "Build label"}
	var build map[string]any
	if err := readJSON(v.sitePath(BuildFile), &build); err != nil {
		c.failf("%s: %v", BuildFile, err)
		return "", c.result()
	}
	label, _ := build["label"].(string)
	if label == "" {
		if cp, ok := build["cp"]; ok && cp != nil {
			label = "CP" + scalarString(cp)
		}
	}
	if label == "" {
		c.failf("%s missing required fields: expected 'label' or 'cp'", BuildFile)
		return "", c.result()
	}
	c.detail = label
	return label, c.result()
}

func (v *Validator) checkPresence(name, root string, rels []string) Result {
	c := &checker{name: name}
	present := 0
	for _, rel := range rels {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
			c.failf("missing %s", rel)
			continue
		}
		present++
	}
	c.detail = fmt.Sprintf("%d of %d present", present, len(rels))
	return c.result()
}

func (v *Validator) checkParse(docs *documents) Result {
	c := &checker{name: "Manifest parsing"}

	var cats map[string]any
	if err := readJSON(v.dataPath(CategoriesFile), &cats); err != nil {
		c.failf("%s: %v", CategoriesFile, err)
	} else if list, ok := cats["categories"].([]any); !ok {
		c.failf("%s missing categories[]", CategoriesFile)
	} else {
		docs.categories = objects(list)
	}

	var classes []any
	if err := readJSON(v.dataPath(catalog.FileClasses), &classes); err != nil {
		c.failf("%s: %v", catalog.FileClasses, err)
	} else if len(classes) == 0 {
		c.failf("%s empty", catalog.FileClasses)
	} else {
		docs.classes = objects(classes)
	}

	var moves []any
	if err := readJSON(v.dataPath(catalog.FileMoves), &moves); err != nil {
		c.failf("%s: %v", catalog.FileMoves, err)
	} else if len(moves) == 0 {
		c.failf("%s empty", catalog.FileMoves)
	} else {
		docs.moves = moves
	}

	c.detail = fmt.Sprintf("categories=%d, classes=%d, moves=%d", len(docs.categories), len(docs.classes), len(docs.moves))
	return c.result()
}

func (v *Validator) checkTimerDemos() Result {
	c := &checker{name: "Timer demos"}
	var doc map[string]any
	if err := readJSON(v.dataPath(TimerDemosFile), &doc); err != nil {
		c.failf("%s: %v", TimerDemosFile, err)
		return c.result()
	}
	demos, ok := doc["demos"].([]any)
	if !ok || len(demos) == 0 {
		c.failf("%s missing demos[]", TimerDemosFile)
		return c.result()
	}
	for _, raw := range demos {
		demo, _ := raw.(map[string]any)
		id, _ := demo["id"].(string)
		if id == "" {
			id = "(missing id)"
		}
		segments, _ := demo["segments"].([]any)
		if len(segments) == 0 {
			c.failf("demo %s has no segments", id)
			continue
		}
		total := 0
		for i, rawSeg := range segments {
			seg, _ := rawSeg.(map[string]any)
			dur, ok := intValue(seg["duration_sec"])
			if !ok || dur <= 0 {
				c.failf("demo %s has non-positive duration at segment %d", id, i)
				continue
			}
			total += int(dur)
		}
		if total <= 0 {
			c.failf("demo %s has zero total duration", id)
		}
		if mode, _ := demo["mode"].(string); mode == "gym" {
			if stations, _ := demo["stations"].([]any); len(stations) == 0 {
				c.failf("demo %s (gym) missing stations[]", id)
			}
		}
	}
	c.detail = fmt.Sprintf("demos=%d", len(demos))
	return c.result()
}

func (v *Validator) checkCategories(docs *documents) (map[string]struct{}, []int64, Result) {
	c := &checker{name: "Categories"}
	if docs.categories == nil {
		c.skip = CategoriesFile + " unavailable"
		return nil, nil, c.result()
	}
	slugs := make(map[string]struct{}, len(docs.categories))
	var teasers []int64
	seen := map[int64]struct{}{}
	for _, cat := range docs.categories {
		slug, _ := cat["slug"].(string)
		if slug == "" {
			c.failf("category missing slug")
			continue
		}
		slugs[slug] = struct{}{}

		poster, _ := cat["hero_poster"].(string)
		switch {
		case !strings.HasPrefix(poster, "/"):
			c.failf("category %s missing hero_poster", slug)
		default:
			if _, err := os.Stat(v.sitePath(poster)); err != nil {
				c.failf("missing hero_poster file for %s: %s", slug, poster)
			}
		}

		ids, _ := cat["teaser_video_ids"].([]any)
		for _, raw := range ids {
			id, ok := intValue(raw)
			if !ok {
				c.failf("non-numeric teaser id in %s: %v", slug, raw)
				continue
			}
			if _, dup := seen[id]; !dup {
				seen[id] = struct{}{}
				teasers = append(teasers, id)
			}
		}
	}
	c.detail = fmt.Sprintf("%d categories, %d teaser ids", len(slugs), len(teasers))
	return slugs, teasers, c.result()
}

func (v *Validator) checkClassSlugs(docs *documents, slugs map[string]struct{}) Result {
	c := &checker{name: "Class categories"}
	if docs.classes == nil || slugs == nil {
		c.skip = "classes or categories unavailable"
		return c.result()
	}
	bad := 0
	for _, class := range docs.classes {
		slug, _ := class["category_slug"].(string)
		if _, ok := slugs[slug]; !ok {
			bad++
		}
	}
	if bad > 0 {
		c.failf("%d class videos reference unknown category_slug", bad)
	}
	c.detail = fmt.Sprintf("%d classes resolved", len(docs.classes))
	return c.result()
}

func (v *Validator) checkTeasers(docs *documents, teasers []int64) Result {
	c := &checker{name: "Teaser ids"}
	if docs.classes == nil || docs.categories == nil {
		c.skip = "classes or categories unavailable"
		return c.result()
	}
	classIDs := make(map[int64]struct{}, len(docs.classes))
	for _, class := range docs.classes {
		if id, ok := intValue(class["video_id"]); ok {
			classIDs[id] = struct{}{}
		}
	}
	var missing []int64
	for _, id := range teasers {
		if _, ok := classIDs[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		c.failf("missing teaser IDs not found in class list: %v", missing[:min(len(missing), maxListedTeasers)])
	}
	c.detail = fmt.Sprintf("%d teaser ids resolved", len(teasers))
	return c.result()
}

func (v *Validator) checkAssets() Result {
	c := &checker{name: "Assets"}
	css, err := os.ReadFile(v.sitePath(StylesFile))
	if err != nil {
		c.failf("missing %s", StylesFile)
	} else if v.opts.AccentColor != "" && !bytes.Contains(css, []byte(v.opts.AccentColor)) {
		c.failf("accent color %s not found in %s", v.opts.AccentColor, StylesFile)
	}
	if _, err := os.Stat(v.sitePath(ScriptFile)); err != nil {
		c.failf("missing %s", ScriptFile)
	}
	c.detail = "styles and script present"
	return c.result()
}

func (v *Validator) checkScriptSyntax(ctx context.Context) Result {
	c := &checker{name: "Script syntax"}
	script := v.sitePath(ScriptFile)
	switch {
	case v.opts.SkipScriptSyntax:
		c.skip = "disabled by configuration"
	case !deps.Available(v.opts.NodeBinary):
		c.skip = fmt.Sprintf("%s not found", v.opts.NodeBinary)
	default:
		if _, err := os.Stat(script); err != nil {
			c.skip = ScriptFile + " missing"
			break
		}
		if err := v.syntax(ctx, v.opts.NodeBinary, script); err != nil {
			c.failf("syntax error in %s: %v", ScriptFile, err)
		}
		c.detail = "node --check ok"
	}
	return c.result()
}

func (v *Validator) checkStaleMarkers() Result {
	c := &checker{name: "Stale build labels"}
	for _, rel := range v.opts.RequiredPages {
		data, err := os.ReadFile(filepath.Join(v.opts.SiteDir, filepath.FromSlash(rel)))
		if err != nil {
			continue
		}
		for _, marker := range v.opts.StaleMarkers {
			if marker != "" && bytes.Contains(data, []byte(marker)) {
				c.failf("found leftover %s in %s", marker, rel)
			}
		}
	}
	c.detail = fmt.Sprintf("%d markers absent", len(v.opts.StaleMarkers))
	return c.result()
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errors.New("missing")
		}
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func objects(list []any) []map[string]any {
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		} else {
			out = append(out, map[string]any{})
		}
	}
	return out
}

// intValue accepts integral JSON numbers and numeric strings.
func intValue(raw any) (int64, bool) {
	switch v := raw.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		f, err := v.Float64()
		if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
			return 0, false
		}
		return int64(f), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func scalarString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
