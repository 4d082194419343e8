package title_test

import (
	"context"
	"errors"
	"testing"

	"savekeeper/internal/device"
	"savekeeper/internal/testsupport"
	"savekeeper/internal/title"
)

func TestFromDeviceProbesApplicableCategories(t *testing.T) {
	fake := testsupport.NewFakeDevice().AddTitle(
		testsupport.FakeTitle{
			ID: 0x0004000000055D00, Media: title.InternalSecondary,
			ProductCode: "CTR-P-AMKE", Name: "Mario Kart 7", Publisher: "Nintendo",
			Saves: []title.SaveType{title.SaveUser, title.SaveExtData},
		},
		testsupport.FakeTitle{
			ID: 0x0004001000021000, Media: title.InternalFixed,
			Name: "System Settings", Saves: []title.SaveType{title.SaveSystem},
		},
	)
	ctx := context.Background()

	sd := title.FromDevice(ctx, fake, 0x0004000000055D00, title.InternalSecondary, title.BuildOptions{Language: title.LangEnglish})
	if sd.SaveTypes() != title.SaveTypesOf(title.SaveUser, title.SaveExtData) {
		t.Fatalf("unexpected sd mask %s", sd.SaveTypes())
	}
	if sd.Title().String() != "Mario Kart 7" || sd.Publisher().String() != "Nintendo" {
		t.Fatalf("unexpected metadata %q / %q", sd.Title().String(), sd.Publisher().String())
	}
	if sd.ProductCode().String() != "CTR-P-AMKE" {
		t.Fatalf("unexpected product code %q", sd.ProductCode().String())
	}
	if fake.Probes(0x0004000000055D00) != 3 {
		t.Fatalf("expected user/extdata/boss probes, got %d", fake.Probes(0x0004000000055D00))
	}

	nand := title.FromDevice(ctx, fake, 0x0004001000021000, title.InternalFixed, title.BuildOptions{})
	if nand.SaveTypes() != title.SaveTypesOf(title.SaveSystem) {
		t.Fatalf("unexpected nand mask %s", nand.SaveTypes())
	}
	if nand.Has(title.SaveSharedExtData) {
		t.Fatal("shared extra data must never be probed for device titles")
	}
}

func TestFromDeviceSkipsMetadataWithoutSaves(t *testing.T) {
	fake := testsupport.NewFakeDevice().AddTitle(testsupport.FakeTitle{
		ID: 0x0004000000030800, Media: title.InternalSecondary, Name: "No Saves",
	})
	rec := title.FromDevice(context.Background(), fake, 0x0004000000030800, title.InternalSecondary, title.BuildOptions{})
	if rec.HasSaveData() {
		t.Fatal("expected no save data")
	}
	if fake.MetadataCalls(0x0004000000030800) != 0 {
		t.Fatal("metadata must not be fetched for titles without saves")
	}
}

func TestFromDeviceFallsBackToPlaceholder(t *testing.T) {
	fake := testsupport.NewFakeDevice().AddTitle(testsupport.FakeTitle{
		ID: 0x0004000000164800, Media: title.InternalSecondary, ProductCode: "CTR-N-AAAA",
		Saves: []title.SaveType{title.SaveUser},
	})
	rec := title.FromDevice(context.Background(), fake, 0x0004000000164800, title.InternalSecondary, title.BuildOptions{})
	if rec.Title().String() != "0004000000164800" {
		t.Fatalf("expected hex id title, got %q", rec.Title().String())
	}
	if rec.Icon() != title.PlaceholderIcon() {
		t.Fatal("expected placeholder icon")
	}
	if !rec.Publisher().IsEmpty() {
		t.Fatal("expected empty publisher")
	}
	if rec.ProductCode().String() != "CTR-N-AAAA" {
		t.Fatalf("product code should still be fetched, got %q", rec.ProductCode().String())
	}
}

func TestFromDeviceTreatsProbeErrorsAsAbsent(t *testing.T) {
	fake := testsupport.NewFakeDevice().AddTitle(testsupport.FakeTitle{
		ID: 0x0004000000055D00, Media: title.InternalSecondary, Name: "Mario Kart 7",
		Saves: []title.SaveType{title.SaveUser},
	})
	fake.FailProbe(0x0004000000055D00, &device.ResultError{Op: "has_save_data", Code: device.CodeUnavailable, Err: errors.New("busy")})
	rec := title.FromDevice(context.Background(), fake, 0x0004000000055D00, title.InternalSecondary, title.BuildOptions{})
	if rec.HasSaveData() {
		t.Fatal("probe errors must count as absent")
	}
}
