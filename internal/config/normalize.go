package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeDevice(); err != nil {
		return err
	}
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CachePath) == "" {
		c.Paths.CachePath = defaultCachePath
	}
	if c.Paths.CachePath, err = expandPath(c.Paths.CachePath); err != nil {
		return fmt.Errorf("paths.cache_path: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.BackupDir, err = expandPath(c.Paths.BackupDir); err != nil {
		return fmt.Errorf("paths.backup_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDevice() error {
	if value, ok := os.LookupEnv("SAVEKEEPER_REGISTRY"); ok && strings.TrimSpace(value) != "" {
		c.Device.RegistryPath = strings.TrimSpace(value)
	}
	var err error
	if c.Device.RegistryPath, err = expandPath(strings.TrimSpace(c.Device.RegistryPath)); err != nil {
		return fmt.Errorf("device.registry_path: %w", err)
	}
	c.Device.CardDevice = strings.TrimSpace(c.Device.CardDevice)
	return nil
}

func (c *Config) normalizeCatalog() error {
	c.Catalog.MetadataLanguage = strings.TrimSpace(c.Catalog.MetadataLanguage)
	if c.Catalog.MetadataLanguage == "" {
		c.Catalog.MetadataLanguage = defaultMetadataLanguage
	}

	c.favoriteIDs = make(map[uint64]struct{}, len(c.Catalog.Favorites))
	favorites := make([]string, 0, len(c.Catalog.Favorites))
	for _, raw := range c.Catalog.Favorites {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		id, err := ParseTitleID(value)
		if err != nil {
			return fmt.Errorf("catalog.favorites: %w", err)
		}
		if _, exists := c.favoriteIDs[id]; exists {
			continue
		}
		c.favoriteIDs[id] = struct{}{}
		favorites = append(favorites, fmt.Sprintf("%016X", id))
	}
	c.Catalog.Favorites = favorites
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

// ParseTitleID parses a hexadecimal title id with or without a 0x prefix.
func ParseTitleID(value string) (uint64, error) {
	trimmed := strings.TrimSpace(value)
	trimmed = strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")
	if trimmed == "" || len(trimmed) > 16 {
		return 0, fmt.Errorf("invalid title id %q", value)
	}
	id, err := strconv.ParseUint(trimmed, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid title id %q: %w", value, err)
	}
	return id, nil
}
