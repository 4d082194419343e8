package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"savekeeper/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SAVEKEEPER_REGISTRY", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantCache := filepath.Join(tempHome, ".local", "share", "savekeeper", "cache.bin")
	if cfg.Paths.CachePath != wantCache {
		t.Fatalf("unexpected cache path: got %q want %q", cfg.Paths.CachePath, wantCache)
	}
	wantRegistry := filepath.Join(tempHome, ".local", "share", "savekeeper", "registry.db")
	if cfg.Device.RegistryPath != wantRegistry {
		t.Fatalf("unexpected registry path: got %q want %q", cfg.Device.RegistryPath, wantRegistry)
	}
	if cfg.Catalog.MetadataLanguage != "en" {
		t.Fatalf("unexpected metadata language: %q", cfg.Catalog.MetadataLanguage)
	}
	if !cfg.Catalog.UseNetlink {
		t.Fatal("expected netlink enabled by default")
	}
	if cfg.ReconcileEvery() != 2*time.Second {
		t.Fatalf("unexpected reconcile interval: %s", cfg.ReconcileEvery())
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")
	t.Setenv("SAVEKEEPER_REGISTRY", "")

	content := `
[paths]
data_dir = "` + filepath.Join(tempDir, "data") + `"
cache_path = "` + filepath.Join(tempDir, "data", "titles.bin") + `"

[device]
registry_path = "` + filepath.Join(tempDir, "registry.db") + `"
card_device = " /dev/mmcblk0 "

[catalog]
metadata_language = "fr"
favorites = ["0x0004000000055D00", "00040000000EE000", "0004000000055d00"]
reconcile_interval = 7

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.CachePath != filepath.Join(tempDir, "data", "titles.bin") {
		t.Fatalf("unexpected cache path: %q", cfg.Paths.CachePath)
	}
	if cfg.Device.CardDevice != "/dev/mmcblk0" {
		t.Fatalf("expected trimmed card device, got %q", cfg.Device.CardDevice)
	}
	if cfg.Catalog.MetadataLanguage != "fr" {
		t.Fatalf("unexpected metadata language: %q", cfg.Catalog.MetadataLanguage)
	}
	if len(cfg.Catalog.Favorites) != 2 {
		t.Fatalf("expected duplicate favorites to collapse, got %v", cfg.Catalog.Favorites)
	}
	if !cfg.IsFavorite(0x0004000000055D00) {
		t.Fatal("expected 0004000000055D00 to be a favorite")
	}
	if cfg.IsFavorite(0x0004000000033500) {
		t.Fatal("unexpected favorite")
	}
	if cfg.ReconcileEvery() != 7*time.Second {
		t.Fatalf("unexpected reconcile interval: %s", cfg.ReconcileEvery())
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected lowercased logging settings, got %+v", cfg.Logging)
	}
}

func TestRegistryEnvOverridesConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")
	envRegistry := filepath.Join(tempDir, "env.db")
	t.Setenv("SAVEKEEPER_REGISTRY", envRegistry)

	content := "[device]\nregistry_path = \"" + filepath.Join(tempDir, "file.db") + "\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Device.RegistryPath != envRegistry {
		t.Fatalf("expected env registry path, got %q", cfg.Device.RegistryPath)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("SAVEKEEPER_REGISTRY", "")
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{name: "bad favorite", content: "[catalog]\nfavorites = [\"not-hex\"]\n", want: "catalog.favorites"},
		{name: "bad language", content: "[catalog]\nmetadata_language = \"!!\"\n", want: "catalog.metadata_language"},
		{name: "negative interval", content: "[catalog]\nreconcile_interval = -1\n", want: "reconcile_interval"},
		{name: "bad format", content: "[logging]\nformat = \"xml\"\n", want: "logging.format"},
		{name: "unknown key", content: "[catalog]\nsort = \"name\"\n", want: "parse config"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("SAVEKEEPER_REGISTRY", "")
	path := filepath.Join(tempDir, "nested", "config.toml")

	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if decoded.Catalog.MetadataLanguage != "en" {
		t.Fatalf("unexpected sample language: %q", decoded.Catalog.MetadataLanguage)
	}

	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
}

func TestParseTitleID(t *testing.T) {
	id, err := config.ParseTitleID("0x00040000000EE000")
	if err != nil {
		t.Fatalf("ParseTitleID returned error: %v", err)
	}
	if id != 0x00040000000EE000 {
		t.Fatalf("unexpected id: %016X", id)
	}
	if _, err := config.ParseTitleID("0x"); err == nil {
		t.Fatal("expected error for empty id")
	}
	if _, err := config.ParseTitleID("00040000000EE0000"); err == nil {
		t.Fatal("expected error for overlong id")
	}
}
