package title_test

import (
	"fmt"
	"testing"

	"savekeeper/internal/title"
)

func TestSharedBuckets(t *testing.T) {
	buckets := title.SharedBuckets()
	if len(buckets) != title.SharedBucketCount {
		t.Fatalf("expected %d buckets, got %d", title.SharedBucketCount, len(buckets))
	}
	for i, rec := range buckets {
		id := title.SharedBucketIDs()[i]
		if rec.ID() != id {
			t.Fatalf("bucket %d: id %s want %s", i, rec.ID(), id)
		}
		wantTitle := fmt.Sprintf("Shared Extra Data (%08X)", id.Lower())
		if rec.Title().String() != wantTitle {
			t.Fatalf("bucket %d: title %q want %q", i, rec.Title().String(), wantTitle)
		}
		if rec.Media() != title.InternalFixed || !rec.IsSharedBucket() {
			t.Fatalf("bucket %d: unexpected media/source %s/%s", i, rec.Media(), rec.Source())
		}
		if rec.SaveTypes() != title.SaveTypesOf(title.SaveSharedExtData) {
			t.Fatalf("bucket %d: unexpected mask %s", i, rec.SaveTypes())
		}
		if rec.Icon() != title.PlaceholderIcon() {
			t.Fatalf("bucket %d: expected placeholder icon", i)
		}
		if rec.PathSafeTitle() != wantTitle {
			t.Fatalf("bucket %d: unexpected path-safe title %q", i, rec.PathSafeTitle())
		}
	}
}

func TestFromPersistedIsVerbatim(t *testing.T) {
	icon := title.NewIcon([]byte{1, 2, 3, 4})
	p := title.Persisted{
		ID:          0x0004000000055D00,
		Media:       title.InternalSecondary,
		Saves:       title.SaveTypesOf(title.SaveUser, title.SaveExtData),
		ProductCode: title.NewProductCode("CTR-P-AMKE"),
		Title:       title.NewWideText("Mario Kart 7"),
		Publisher:   title.NewWideText("Nintendo"),
		Icon:        icon,
	}
	rec := title.FromPersisted(p)
	if rec.Persisted() != p {
		t.Fatalf("persisted fields changed: %+v", rec.Persisted())
	}
	if rec.IsSharedBucket() || rec.Icon() != icon || !rec.HasSaveData() {
		t.Fatal("unexpected record state")
	}

	bucket := title.FromPersisted(title.Persisted{ID: 0xF000000B, Saves: title.SaveTypesOf(title.SaveSharedExtData)})
	if !bucket.IsSharedBucket() {
		t.Fatal("reserved id should restore shared bucket source")
	}
	if bucket.Icon() != title.PlaceholderIcon() {
		t.Fatal("nil icon should become the placeholder")
	}
}

func TestPathSafeTitle(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{name: "Pokémon X", want: "Pokémon X"},
		{name: "Fire Emblem: Awakening", want: "Fire Emblem- Awakening"},
		{name: "A/B\\C", want: "A-B-C"},
		{name: "???", want: "0004000000055D00"},
		{name: "", want: "0004000000055D00"},
	}
	for _, tc := range cases {
		rec := title.FromPersisted(title.Persisted{
			ID:    0x0004000000055D00,
			Saves: title.SaveTypesOf(title.SaveUser),
			Title: title.NewWideText(tc.name),
		})
		if rec.PathSafeTitle() != tc.want {
			t.Fatalf("PathSafeTitle(%q) = %q, want %q", tc.name, rec.PathSafeTitle(), tc.want)
		}
	}
}

func TestWithFavoriteSharesIcon(t *testing.T) {
	rec := title.FromPersisted(title.Persisted{ID: 0x0004000000055D00, Saves: title.SaveTypesOf(title.SaveUser)})
	fav := rec.WithFavorite(true)
	if !fav.IsFavorite() || rec.IsFavorite() {
		t.Fatal("WithFavorite must not mutate the original")
	}
	if fav.Icon() != rec.Icon() {
		t.Fatal("icon must be shared")
	}
	if fav.WithFavorite(true) != fav {
		t.Fatal("no-op WithFavorite should return the same record")
	}
}

func TestIconPixelsCannotMutateSharedIcon(t *testing.T) {
	ids := title.SharedBucketIDs()
	a := title.SharedBucket(ids[0])
	b := title.SharedBucket(ids[1])
	before := b.Icon().At(0, 0)

	pix := a.Icon().Pixels()
	for i := range pix {
		pix[i] ^= 0xFF
	}
	if got := b.Icon().At(0, 0); got != before {
		t.Fatalf("shared icon changed through Pixels: got %v want %v", got, before)
	}
	if !title.PlaceholderIcon().HasPixels(a.Icon().Pixels()) {
		t.Fatal("placeholder pixels changed")
	}

	dst := make([]byte, title.IconBytes)
	if n := a.Icon().CopyPixels(dst); n != title.IconBytes {
		t.Fatalf("CopyPixels copied %d bytes, want %d", n, title.IconBytes)
	}
	dst[0] ^= 0xFF
	if title.PlaceholderIcon().HasPixels(dst) {
		t.Fatal("CopyPixels must copy, not alias")
	}
}
