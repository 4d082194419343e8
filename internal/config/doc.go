// Package config loads, normalizes, and validates savekeeper configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SAVEKEEPER_REGISTRY. The Config type centralizes every knob the CLI and the
// media watcher need: where the title cache lives, which title registry backs
// the device service, which titles are favorites, and how often removable
// media is reconciled.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
