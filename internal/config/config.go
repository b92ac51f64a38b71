package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains site and cache directory configuration.
type Paths struct {
	SiteDir  string `toml:"site_dir"`
	DataDir  string `toml:"data_dir"`
	CacheDir string `toml:"cache_dir"`
}

// Vimeo contains configuration for the video-hosting API.
type Vimeo struct {
	Token          string `toml:"token"`
	BaseURL        string `toml:"base_url"`
	RequestDelayMS int    `toml:"request_delay_ms"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Thumbnails contains configuration for the thumbnail selection pipeline.
type Thumbnails struct {
	// ImageAnalysis enables downloading and scoring candidate images. When
	// disabled every pick uses the active/largest fallback.
	ImageAnalysis bool `toml:"image_analysis"`
	// FaceCascade points at a pigo "facefinder" cascade file. Face scoring is
	// skipped when empty or unreadable.
	FaceCascade     string  `toml:"face_cascade"`
	FaceMinSize     int     `toml:"face_min_size"`
	FaceMinQuality  float64 `toml:"face_min_quality"`
	MaxScored       int     `toml:"max_scored"`
	Workers         int     `toml:"workers"`
	OverridesSchema string  `toml:"overrides_schema"`
}

// Smoke contains configuration for the site smoke validator.
type Smoke struct {
	RequiredPages    []string `toml:"required_pages"`
	RequiredData     []string `toml:"required_data"`
	StaleMarkers     []string `toml:"stale_markers"`
	AccentColor      string   `toml:"accent_color"`
	NodeBinary       string   `toml:"node_binary"`
	SkipScriptSyntax bool     `toml:"skip_script_syntax"`
}

// Audit contains configuration for the thumbnail decision ledger.
type Audit struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for sitekit.
//
// Configuration sections by subsystem:
//   - Paths: site root, generated data directory, API response cache
//   - Vimeo: API token, endpoint, request pacing
//   - Thumbnails: scoring capabilities and batch sizing
//   - Smoke: site artifacts the validator requires
//   - Audit: SQLite ledger of thumbnail decisions
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Vimeo      Vimeo      `toml:"vimeo"`
	Thumbnails Thumbnails `toml:"thumbnails"`
	Smoke      Smoke      `toml:"smoke"`
	Audit      Audit      `toml:"audit"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load reads the configuration at path, or the first existing default
// location when path is empty, then normalizes and validates it. Unknown keys
// are rejected so typos surface instead of silently falling back to
// defaults. The returned path is the file that was (or would have been)
// read; exists reports whether it was present.
func Load(path string) (cfg *Config, resolved string, exists bool, err error) {
	loaded := Default()

	resolved, exists, err = resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}
	if exists {
		if err := decodeFile(resolved, &loaded); err != nil {
			return nil, resolved, true, err
		}
	}
	if err := loaded.normalize(); err != nil {
		return nil, resolved, exists, err
	}
	if err := loaded.Validate(); err != nil {
		return nil, resolved, exists, err
	}
	return &loaded, resolved, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("config %s: unknown keys:\n%s", path, strict.String())
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// resolveConfigPath returns an explicit path as-is, else the first existing
// file among the user config and ./sitekit.toml, else the user config path.
func resolveConfigPath(path string) (string, bool, error) {
	var candidates []string
	if strings.TrimSpace(path) != "" {
		candidates = []string{path}
	} else {
		candidates = []string{defaultConfigPath, projectConfigName}
	}

	var first string
	for _, candidate := range candidates {
		expanded, err := expandPath(candidate)
		if err != nil {
			return "", false, err
		}
		if first == "" {
			first = expanded
		}
		info, err := os.Stat(expanded)
		switch {
		case err == nil && !info.IsDir():
			return expanded, true, nil
		case err == nil:
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		case !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("stat config: %w", err)
		}
	}
	return first, false, nil
}

// EnsureDirectories creates the cache directory and, when the audit ledger is
// enabled, the directory holding its database.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.CacheDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.CacheDir, err)
	}
	if c.Audit.Enabled && strings.TrimSpace(c.Audit.Path) != "" {
		if err := os.MkdirAll(filepath.Dir(c.Audit.Path), 0o755); err != nil {
			return fmt.Errorf("create audit directory: %w", err)
		}
	}
	return nil
}

// DataPath joins name onto the generated data directory.
func (c *Config) DataPath(name string) string {
	return filepath.Join(c.Paths.DataDir, name)
}

// NodeBinary returns the node executable used for the client script syntax check.
func (c *Config) NodeBinary() string {
	if strings.TrimSpace(c.Smoke.NodeBinary) == "" {
		return defaultNodeBinary
	}
	return c.Smoke.NodeBinary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
