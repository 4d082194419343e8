package cachefile

import (
	"bytes"
	"encoding/binary"
	"testing"

	"pgregory.net/rapid"

	"savekeeper/internal/title"
)

func TestRecordLayout(t *testing.T) {
	if RecordSize != 9524 {
		t.Fatalf("unexpected record size %d", RecordSize)
	}
	rec := title.FromPersisted(title.Persisted{
		ID:          0x0004000000055D00,
		Media:       title.InternalSecondary,
		Saves:       title.SaveTypesOf(title.SaveUser, title.SaveExtData),
		ProductCode: title.NewProductCode("CTR-P-AMKE"),
		Title:       title.NewWideText("Mario"),
		Publisher:   title.NewWideText("Nintendo"),
	})
	buf := bytes.Repeat([]byte{0xAA}, RecordSize)
	EncodeRecord(buf, rec)

	if got := binary.LittleEndian.Uint64(buf[0:]); got != 0x0004000000055D00 {
		t.Fatalf("id = %016X", got)
	}
	if got := binary.LittleEndian.Uint32(buf[8:]); got != 1 {
		t.Fatalf("media = %d", got)
	}
	if got := binary.LittleEndian.Uint32(buf[12:]); got != 0b11 {
		t.Fatalf("save bits = %b", got)
	}
	if !bytes.Equal(buf[16:20], make([]byte, 4)) {
		t.Fatalf("padding not zeroed: %x", buf[16:20])
	}
	if string(buf[20:30]) != "CTR-P-AMKE" || buf[30] != 0 {
		t.Fatalf("product code at 20: %q", buf[20:31])
	}
	if got := binary.LittleEndian.Uint16(buf[52:]); got != 'M' {
		t.Fatalf("title does not start at 52: %#x", got)
	}
	if got := binary.LittleEndian.Uint16(buf[180:]); got != 'N' {
		t.Fatalf("publisher does not start at 180: %#x", got)
	}
	if !bytes.Equal(buf[308:], title.PlaceholderIcon().Pixels()) {
		t.Fatal("icon does not occupy the record tail")
	}
}

func TestDecodeRecordIgnoresUnknownSaveBits(t *testing.T) {
	buf := make([]byte, RecordSize)
	binary.LittleEndian.PutUint64(buf, 0x0004000000055D00)
	binary.LittleEndian.PutUint32(buf[12:], 0xFFFFFFE1)
	rec := DecodeRecord(buf)
	if rec.SaveTypes() != title.SaveTypesOf(title.SaveUser) {
		t.Fatalf("unexpected mask %s", rec.SaveTypes())
	}
}

func TestDecodeRecordRestoresSharedBuckets(t *testing.T) {
	buf := make([]byte, RecordSize)
	for _, bucket := range title.SharedBuckets() {
		EncodeRecord(buf, bucket)
		decoded := DecodeRecord(buf)
		if !decoded.IsSharedBucket() {
			t.Fatalf("%s lost shared bucket source", bucket.ID())
		}
		if decoded.Icon() != title.PlaceholderIcon() {
			t.Fatalf("%s should map back to the shared placeholder", bucket.ID())
		}
		if decoded.Title() != bucket.Title() {
			t.Fatalf("%s title changed", bucket.ID())
		}
	}
}

func wideGen() *rapid.Generator[title.WideText] {
	return rapid.Custom(func(t *rapid.T) title.WideText {
		var wt title.WideText
		units := rapid.SliceOfN(rapid.Uint16(), 0, title.WideTextCapacity).Draw(t, "units")
		copy(wt[:], units)
		return wt
	})
}

func TestRecordRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var pc title.ProductCode
		copy(pc[:], rapid.SliceOfN(rapid.Byte(), 0, title.ProductCodeCapacity).Draw(t, "productCode"))
		p := title.Persisted{
			ID:          title.ID(rapid.Uint64().Draw(t, "id")),
			Media:       title.MediaKind(rapid.Uint32Range(0, 2).Draw(t, "media")),
			Saves:       title.SaveTypesFromBits(rapid.Uint32Range(0, 31).Draw(t, "saves")),
			ProductCode: pc,
			Title:       wideGen().Draw(t, "title"),
			Publisher:   wideGen().Draw(t, "publisher"),
			Icon:        title.NewIcon(rapid.SliceOfN(rapid.Byte(), title.IconBytes, title.IconBytes).Draw(t, "icon")),
		}
		original := title.FromPersisted(p)

		buf := make([]byte, RecordSize)
		EncodeRecord(buf, original)
		decoded := DecodeRecord(buf)

		got := decoded.Persisted()
		if got.ID != p.ID || got.Media != p.Media || got.Saves != p.Saves {
			t.Fatalf("scalar fields changed: %+v", got)
		}
		if got.ProductCode != p.ProductCode || got.Title != p.Title || got.Publisher != p.Publisher {
			t.Fatal("text fields changed")
		}
		if !bytes.Equal(got.Icon.Pixels(), p.Icon.Pixels()) {
			t.Fatal("icon changed")
		}
		if decoded.PathSafeTitle() != original.PathSafeTitle() {
			t.Fatalf("path-safe title changed: %q vs %q", decoded.PathSafeTitle(), original.PathSafeTitle())
		}
		if decoded.IsSharedBucket() != original.IsSharedBucket() {
			t.Fatal("source changed")
		}
	})
}
