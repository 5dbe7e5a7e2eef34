// Package config loads, normalizes, and validates reorg configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI and engine need: journal/log directories, worker pool bounds,
// progress throttling, similarity thresholds, and rename truncation limits.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical extension lists, and clear validation errors.
package config
