package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.CachePath) == "" {
		return errors.New("paths.cache_path must be set")
	}
	if strings.HasSuffix(c.Paths.CachePath, "/") {
		return fmt.Errorf("paths.cache_path must name a file, got %q", c.Paths.CachePath)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.ReconcileInterval < 0 {
		return errors.New("catalog.reconcile_interval must be positive")
	}
	if _, err := language.Parse(c.Catalog.MetadataLanguage); err != nil {
		return fmt.Errorf("catalog.metadata_language %q: %w", c.Catalog.MetadataLanguage, err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (expected console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
