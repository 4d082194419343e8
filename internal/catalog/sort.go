package catalog

import (
	"cmp"
	"slices"
	"unicode"
	"unicode/utf16"

	"savekeeper/internal/title"
)

// CompareTitles orders device titles by case-insensitive display title,
// code unit by code unit, with a strict prefix first. Shared buckets sort
// after every device title and compare equal among themselves so a stable
// sort keeps their fixed order.
func CompareTitles(a, b *title.Record) int {
	if a.IsSharedBucket() != b.IsSharedBucket() {
		if a.IsSharedBucket() {
			return 1
		}
		return -1
	}
	if a.IsSharedBucket() {
		return 0
	}
	ua, ub := a.Title().Units(), b.Title().Units()
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ca, cb := lowerUnit(ua[i]), lowerUnit(ub[i]); ca != cb {
			return cmp.Compare(ca, cb)
		}
	}
	return cmp.Compare(len(ua), len(ub))
}

func lowerUnit(u uint16) uint16 {
	if utf16.IsSurrogate(rune(u)) {
		return u
	}
	lowered := unicode.ToLower(rune(u))
	if lowered > 0xFFFF {
		return u
	}
	return uint16(lowered)
}

// SortRecords sorts records in place by CompareTitles.
func SortRecords(records []*title.Record) {
	slices.SortStableFunc(records, CompareTitles)
}
