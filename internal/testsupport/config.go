package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"savekeeper/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The result goes through config.Load so normalization and validation apply
// exactly as they do for a real config file.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.CachePath = filepath.Join(base, "data", "cache.bin")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.BackupDir = filepath.Join(base, "backup")
	cfgVal.Device.RegistryPath = filepath.Join(base, "data", "registry.db")
	cfgVal.Catalog.UseNetlink = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}

	data, err := toml.Marshal(builder.cfg)
	if err != nil {
		t.Fatalf("marshal test config: %v", err)
	}
	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	t.Setenv("SAVEKEEPER_REGISTRY", "")
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("load test config: %v", err)
	}
	return cfg
}

// WithFavorites lists title ids (hex) as favorites.
func WithFavorites(ids ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.Favorites = append(b.cfg.Catalog.Favorites, ids...)
	}
}

// WithCardDevice sets the removable media block node.
func WithCardDevice(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Device.CardDevice = path
	}
}

// WithMetadataLanguage overrides the preferred metadata language.
func WithMetadataLanguage(tag string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.MetadataLanguage = tag
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}

// ConfigPath returns the config file NewConfig wrote for cfg.
func ConfigPath(cfg *config.Config) string {
	return filepath.Join(BaseDir(cfg), "config.toml")
}
