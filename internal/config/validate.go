package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable. A missing Vimeo token is not
// a validation error; only the thumbnails command needs one and it reports
// the omission itself.
func (c *Config) Validate() error {
	if err := c.validateVimeo(); err != nil {
		return err
	}
	if err := c.validateThumbnails(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateVimeo() error {
	parsed, err := url.Parse(c.Vimeo.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("vimeo.base_url must be an absolute URL, got %q", c.Vimeo.BaseURL)
	}
	if c.Vimeo.RequestDelayMS < 0 {
		return errors.New("vimeo.request_delay_ms must be >= 0")
	}
	return nil
}

func (c *Config) validateThumbnails() error {
	if c.Thumbnails.MaxScored < 1 {
		return errors.New("thumbnails.max_scored must be >= 1")
	}
	if c.Thumbnails.Workers < 1 {
		return errors.New("thumbnails.workers must be >= 1")
	}
	if c.Thumbnails.FaceMinQuality < 0 {
		return errors.New("thumbnails.face_min_quality must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format must be auto, console, or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
