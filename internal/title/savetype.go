package title

import (
	"fmt"
	"strings"
)

// SaveType is one save-data facility a title may use.
type SaveType int

const (
	SaveUser SaveType = iota
	SaveExtData
	SaveSharedExtData
	SaveBossExtData
	SaveSystem

	SaveTypeTotal = 5
)

var saveTypeNames = [SaveTypeTotal]string{"user", "extdata", "shared", "boss", "system"}

var saveTypeFolders = [SaveTypeTotal]string{
	"User Saves",
	"Extra Data",
	"Shared Extra Data",
	"BOSS Extra Data",
	"System Saves",
}

func (t SaveType) valid() bool { return t >= 0 && t < SaveTypeTotal }

func (t SaveType) String() string {
	if !t.valid() {
		return fmt.Sprintf("savetype(%d)", int(t))
	}
	return saveTypeNames[t]
}

// FolderName is the backup directory name used for this save type.
func (t SaveType) FolderName() string {
	if !t.valid() {
		return ""
	}
	return saveTypeFolders[t]
}

// AllSaveTypes returns every save type in declaration order.
func AllSaveTypes() []SaveType {
	out := make([]SaveType, SaveTypeTotal)
	for i := range out {
		out[i] = SaveType(i)
	}
	return out
}

// ParseSaveType accepts the names produced by String.
func ParseSaveType(value string) (SaveType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for i, name := range saveTypeNames {
		if name == normalized {
			return SaveType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown save type %q (expected one of %s)", value, strings.Join(saveTypeNames[:], ", "))
}

// SaveTypes holds one flag per save type.
type SaveTypes [SaveTypeTotal]bool

// SaveTypesOf builds a set with the given types flagged.
func SaveTypesOf(types ...SaveType) SaveTypes {
	var s SaveTypes
	for _, t := range types {
		if t.valid() {
			s[t] = true
		}
	}
	return s
}

// Any reports whether at least one flag is set.
func (s SaveTypes) Any() bool {
	for _, v := range s {
		if v {
			return true
		}
	}
	return false
}

// Has reports whether t is flagged.
func (s SaveTypes) Has(t SaveType) bool {
	return t.valid() && s[t]
}

// Bits packs the flags into a bitmask, bit i for SaveType(i).
func (s SaveTypes) Bits() uint32 {
	var bits uint32
	for i, v := range s {
		if v {
			bits |= 1 << uint(i)
		}
	}
	return bits
}

// SaveTypesFromBits unpacks a bitmask produced by Bits. Unknown bits are ignored.
func SaveTypesFromBits(bits uint32) SaveTypes {
	var s SaveTypes
	for i := range s {
		s[i] = bits&(1<<uint(i)) != 0
	}
	return s
}

func (s SaveTypes) String() string {
	names := make([]string, 0, SaveTypeTotal)
	for i, v := range s {
		if v {
			names = append(names, saveTypeNames[i])
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}
