package testsupport

import (
	"context"
	"testing"

	"savekeeper/internal/config"
	"savekeeper/internal/device"
)

// MustOpenRegistry opens the configured device registry and registers cleanup.
func MustOpenRegistry(t testing.TB, cfg *config.Config) *device.Registry {
	t.Helper()

	registry, err := device.OpenRegistry(context.Background(), cfg.Device.RegistryPath)
	if err != nil {
		t.Fatalf("device.OpenRegistry: %v", err)
	}
	t.Cleanup(func() {
		_ = registry.Close()
	})
	return registry
}

// SeedRegistry imports a manifest built from fake titles.
func SeedRegistry(t testing.TB, registry *device.Registry, titles ...FakeTitle) {
	t.Helper()

	manifest := &device.Manifest{}
	for _, ft := range titles {
		entry := device.ManifestTitle{
			Media:       ft.Media.String(),
			ID:          ft.ID.String(),
			ProductCode: ft.ProductCode,
			Name:        ft.Name,
			Publisher:   ft.Publisher,
		}
		for _, s := range ft.Saves {
			entry.Saves = append(entry.Saves, s.String())
		}
		manifest.Titles = append(manifest.Titles, entry)
	}
	if _, err := registry.Import(context.Background(), manifest); err != nil {
		t.Fatalf("registry.Import: %v", err)
	}
}
