package title_test

import (
	"strings"
	"testing"

	"savekeeper/internal/title"
)

func TestNewWideTextTruncatesAtCapacity(t *testing.T) {
	long := strings.Repeat("a", 100)
	wt := title.NewWideText(long)
	if wt.Len() != title.WideTextCapacity {
		t.Fatalf("expected %d units, got %d", title.WideTextCapacity, wt.Len())
	}
	if got := wt.String(); got != strings.Repeat("a", title.WideTextCapacity) {
		t.Fatalf("unexpected text %q", got)
	}
	if title.NewWideText(strings.Repeat("a", 70)) != title.NewWideText(strings.Repeat("a", 80)) {
		t.Fatal("expected equality over stored units")
	}
}

func TestNewWideTextKeepsSurrogatePairsWhole(t *testing.T) {
	input := strings.Repeat("a", title.WideTextCapacity-1) + "\U0001F600"
	wt := title.NewWideText(input)
	if wt.Len() != title.WideTextCapacity-1 {
		t.Fatalf("expected split pair to be dropped, got %d units", wt.Len())
	}
	if strings.ContainsRune(wt.String(), '\uFFFD') {
		t.Fatalf("decoded text contains replacement char: %q", wt.String())
	}

	fits := title.NewWideText("Mario \U0001F600")
	if fits.String() != "Mario \U0001F600" {
		t.Fatalf("unexpected round trip: %q", fits.String())
	}
	if fits.Len() != 8 {
		t.Fatalf("expected 8 units, got %d", fits.Len())
	}
}

func TestWideTextEmpty(t *testing.T) {
	var wt title.WideText
	if !wt.IsEmpty() || wt.String() != "" || len(wt.Units()) != 0 {
		t.Fatalf("zero value should be empty: %v", wt.Units())
	}
}

func TestProductCode(t *testing.T) {
	if got := title.NewProductCode("CTR-P-AMKE").String(); got != "CTR-P-AMKE" {
		t.Fatalf("unexpected product code %q", got)
	}
	full := strings.Repeat("X", title.ProductCodeCapacity+4)
	pc := title.NewProductCode(full)
	if got := pc.String(); len(got) != title.ProductCodeCapacity {
		t.Fatalf("expected unterminated code of %d bytes, got %d", title.ProductCodeCapacity, len(got))
	}
}
