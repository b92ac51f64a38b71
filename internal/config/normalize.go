package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeVimeo()
	if err := c.normalizeThumbnails(); err != nil {
		return err
	}
	c.normalizeSmoke()
	if err := c.normalizeAudit(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.SiteDir) == "" {
		c.Paths.SiteDir = defaultSiteDir
	}
	if c.Paths.SiteDir, err = expandPath(c.Paths.SiteDir); err != nil {
		return fmt.Errorf("paths.site_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = filepath.Join(c.Paths.SiteDir, defaultDataSubdir)
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeVimeo() {
	c.Vimeo.Token = strings.TrimSpace(c.Vimeo.Token)
	if c.Vimeo.Token == "" {
		c.Vimeo.Token = TokenFromEnv()
	}
	c.Vimeo.BaseURL = strings.TrimRight(strings.TrimSpace(c.Vimeo.BaseURL), "/")
	if c.Vimeo.BaseURL == "" {
		c.Vimeo.BaseURL = defaultVimeoBaseURL
	}
	if c.Vimeo.TimeoutSeconds <= 0 {
		c.Vimeo.TimeoutSeconds = defaultVimeoTimeoutSeconds
	}
}

func (c *Config) normalizeThumbnails() error {
	c.Thumbnails.FaceCascade = strings.TrimSpace(c.Thumbnails.FaceCascade)
	if c.Thumbnails.FaceCascade != "" {
		var err error
		if c.Thumbnails.FaceCascade, err = expandPath(c.Thumbnails.FaceCascade); err != nil {
			return fmt.Errorf("thumbnails.face_cascade: %w", err)
		}
	}
	if c.Thumbnails.FaceMinSize <= 0 {
		c.Thumbnails.FaceMinSize = defaultFaceMinSize
	}
	if c.Thumbnails.MaxScored == 0 {
		c.Thumbnails.MaxScored = defaultMaxScored
	}
	if c.Thumbnails.Workers == 0 {
		c.Thumbnails.Workers = defaultWorkers
	}
	c.Thumbnails.OverridesSchema = strings.TrimSpace(c.Thumbnails.OverridesSchema)
	if c.Thumbnails.OverridesSchema == "" {
		c.Thumbnails.OverridesSchema = defaultOverridesSchema
	}
	return nil
}

func (c *Config) normalizeSmoke() {
	c.Smoke.RequiredPages = trimList(c.Smoke.RequiredPages)
	c.Smoke.RequiredData = trimList(c.Smoke.RequiredData)
	c.Smoke.StaleMarkers = trimList(c.Smoke.StaleMarkers)
	c.Smoke.AccentColor = strings.TrimSpace(c.Smoke.AccentColor)
	c.Smoke.NodeBinary = strings.TrimSpace(c.Smoke.NodeBinary)
}

func (c *Config) normalizeAudit() error {
	c.Audit.Path = strings.TrimSpace(c.Audit.Path)
	if c.Audit.Path == "" {
		c.Audit.Path = defaultAuditPath
	}
	var err error
	if c.Audit.Path, err = expandPath(c.Audit.Path); err != nil {
		return fmt.Errorf("audit.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// TokenFromEnv returns the first non-empty token from TokenEnvVars.
func TokenFromEnv() string {
	for _, name := range TokenEnvVars {
		if value := strings.TrimSpace(os.Getenv(name)); value != "" {
			return value
		}
	}
	return ""
}

func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
