package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file locations.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	CachePath string `toml:"cache_path"`
	LogDir    string `toml:"log_dir"`
	BackupDir string `toml:"backup_dir"`
}

// Device contains configuration for the title-management service backend.
type Device struct {
	RegistryPath string `toml:"registry_path"`
	// CardDevice is an optional block device node whose presence decides
	// whether removable media is inserted (e.g. /dev/mmcblk0).
	CardDevice string `toml:"card_device"`
}

// Catalog contains configuration for catalog construction and reconciliation.
type Catalog struct {
	MetadataLanguage  string   `toml:"metadata_language"`
	Favorites         []string `toml:"favorites"`
	ReconcileInterval int      `toml:"reconcile_interval"`
	UseNetlink        bool     `toml:"use_netlink"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for savekeeper.
//
// Configuration sections by subsystem:
//   - Paths: data, cache, log, and backup locations
//   - Device: title registry and removable media probe
//   - Catalog: metadata language, favorites, reconciliation cadence
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Device  Device  `toml:"device"`
	Catalog Catalog `toml:"catalog"`
	Logging Logging `toml:"logging"`

	favoriteIDs map[uint64]struct{}
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("savekeeper.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories plus the parent of
// the cache file. BackupDir is created on a best-effort basis so catalog
// commands keep working when backup storage is unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, filepath.Dir(c.Paths.CachePath)} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.BackupDir) != "" {
		_ = os.MkdirAll(c.Paths.BackupDir, 0o755)
	}
	return nil
}

// LockPath returns the file used to keep a single media watcher running.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "savekeeper.lock")
}

// ReconcileEvery returns the removable media polling interval.
func (c *Config) ReconcileEvery() time.Duration {
	if c.Catalog.ReconcileInterval <= 0 {
		return defaultReconcileInterval * time.Second
	}
	return time.Duration(c.Catalog.ReconcileInterval) * time.Second
}

// IsFavorite reports whether the title id is listed in catalog.favorites.
func (c *Config) IsFavorite(id uint64) bool {
	if c == nil || c.favoriteIDs == nil {
		return false
	}
	_, ok := c.favoriteIDs[id]
	return ok
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
