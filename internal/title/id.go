package title

import (
	"fmt"
	"strconv"
	"strings"
)

// ID is a 64-bit title identifier laid out as (category:32 | unique:32).
type ID uint64

// Category markers carried in the upper half of installable title ids.
const (
	CategoryApplication uint32 = 0x00040000
	CategoryDemo        uint32 = 0x00040002
)

// sharedBucketIDs are the reserved pseudo ids for the shared extra data
// buckets, in catalog order.
var sharedBucketIDs = [...]ID{
	0x00000000F0000001,
	0x00000000F0000002,
	0x00000000F0000009,
	0x00000000F000000B,
	0x00000000F000000C,
	0x00000000F000000D,
	0x00000000F000000E,
}

// SharedBucketCount is the number of reserved shared-data entries.
const SharedBucketCount = len(sharedBucketIDs)

// SharedBucketIDs returns the reserved shared-data ids in catalog order.
func SharedBucketIDs() []ID {
	out := make([]ID, len(sharedBucketIDs))
	copy(out, sharedBucketIDs[:])
	return out
}

// IsSharedBucketID reports whether id is one of the reserved shared-data ids.
func IsSharedBucketID(id ID) bool {
	return sharedBucketIndex(id) >= 0
}

func sharedBucketIndex(id ID) int {
	for i, reserved := range sharedBucketIDs {
		if reserved == id {
			return i
		}
	}
	return -1
}

// Upper returns the category half of the id.
func (id ID) Upper() uint32 { return uint32(id >> 32) }

// Lower returns the unique half of the id.
func (id ID) Lower() uint32 { return uint32(id) }

// UniqueID returns the 20-bit unique id embedded in the lower half.
func (id ID) UniqueID() uint32 { return (id.Lower() >> 8) & 0x000FFFFF }

// ExtDataID returns the id used to open a title's extra data archive.
func (id ID) ExtDataID() uint32 { return uint32(id>>8) & 0x00FFFFFF }

// IsInstallable reports whether the upper half marks an application or demo.
func (id ID) IsInstallable() bool {
	upper := id.Upper()
	return upper == CategoryApplication || upper == CategoryDemo
}

func (id ID) String() string { return fmt.Sprintf("%016X", uint64(id)) }

// ParseID accepts up to 16 hex digits with an optional 0x prefix.
func ParseID(value string) (ID, error) {
	trimmed := strings.TrimSpace(value)
	trimmed = strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")
	if trimmed == "" || len(trimmed) > 16 {
		return 0, fmt.Errorf("invalid title id %q", value)
	}
	parsed, err := strconv.ParseUint(trimmed, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid title id %q: %w", value, err)
	}
	return ID(parsed), nil
}
