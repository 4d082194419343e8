package device_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"savekeeper/internal/device"
	"savekeeper/internal/title"
)

const sampleManifest = `
[[title]]
media = "sd"
id = "0004000000055D00"
product_code = "CTR-P-AREE"
name = "Mario"
long_name = "Super Mario 3D Land"
publisher = "Nintendo"
saves = ["user", "extdata"]

[[title]]
media = "nand"
id = "0x0004001000021000"
saves = ["system"]

[[title]]
media = "card"
id = "000400000008C400"
name = "Card Game"
saves = ["user"]

[card]
inserted = true
kind = "ctr"
id = "000400000008C400"
`

func writeManifestFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestImportManifest(t *testing.T) {
	registry := openTestRegistry(t)
	ctx := context.Background()

	manifest, err := device.LoadManifest(writeManifestFile(t, sampleManifest))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	stats, err := registry.Import(ctx, manifest)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.Titles != 3 || stats.SaveTypes != 4 || !stats.Card {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	mario := title.ID(0x0004000000055D00)
	blob, err := registry.Metadata(ctx, mario, title.InternalSecondary)
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	meta, err := title.DecodeMetadata(blob, title.LangFrench)
	if err != nil {
		t.Fatalf("DecodeMetadata: %v", err)
	}
	if meta.Title.String() != "Mario" || meta.Publisher.String() != "Nintendo" || meta.LongTitle != "Super Mario 3D Land" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
	for _, st := range []title.SaveType{title.SaveUser, title.SaveExtData} {
		has, err := registry.HasSaveData(ctx, mario, title.InternalSecondary, st)
		if err != nil || !has {
			t.Fatalf("expected %s save data, got %v, %v", st, has, err)
		}
	}

	has, err := registry.HasSaveData(ctx, 0x0004001000021000, title.InternalFixed, title.SaveSystem)
	if err != nil || !has {
		t.Fatalf("expected system save data, got %v, %v", has, err)
	}

	inserted, err := registry.CardInserted(ctx)
	if err != nil || !inserted {
		t.Fatalf("expected inserted card, got %v, %v", inserted, err)
	}
	ids, err := registry.ListTitles(ctx, title.RemovableCard, 1)
	if err != nil || len(ids) != 1 || ids[0] != 0x000400000008C400 {
		t.Fatalf("unexpected card listing: %v, %v", ids, err)
	}
}

func TestImportValidatesBeforeWriting(t *testing.T) {
	registry := openTestRegistry(t)
	ctx := context.Background()

	manifest := &device.Manifest{Titles: []device.ManifestTitle{
		{Media: "sd", ID: "0004000000055D00", Saves: []string{"user"}},
		{Media: "sd", ID: "0004000000033500", Saves: []string{"photos"}},
	}}
	_, err := registry.Import(ctx, manifest)
	if err == nil || !strings.Contains(err.Error(), "title[1]") {
		t.Fatalf("expected indexed validation error, got %v", err)
	}
	count, err := registry.CountTitles(ctx, title.InternalSecondary)
	if err != nil || count != 0 {
		t.Fatalf("expected nothing written, got %d, %v", count, err)
	}

	manifest = &device.Manifest{Card: &device.ManifestCard{Inserted: true, Kind: "gba", ID: "1"}}
	if _, err := registry.Import(ctx, manifest); err == nil || !strings.Contains(err.Error(), "card") {
		t.Fatalf("expected card validation error, got %v", err)
	}
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	_, err := device.LoadManifest(writeManifestFile(t, "[[title]]\nmedia = \"sd\"\nshelf = 2\n"))
	if err == nil || !strings.Contains(err.Error(), "parse manifest") {
		t.Fatalf("expected parse error, got %v", err)
	}
	if _, err := device.LoadManifest(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}
