// Package config loads, normalizes, and validates sitekit configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// VIMEO_TOKEN. The Config type centralizes every knob the CLI needs so the
// site root, generated data directory, and API cache are resolved in one
// pass.
//
// Always obtain settings through this package so downstream code receives
// absolute paths and clear validation errors.
package config
