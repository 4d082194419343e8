package title

import (
	"fmt"
	"strings"
)

// MediaKind identifies the store backing a title. The numeric values are
// persisted in the cache.
type MediaKind uint32

const (
	InternalFixed     MediaKind = 0
	InternalSecondary MediaKind = 1
	RemovableCard     MediaKind = 2
)

func (m MediaKind) String() string {
	switch m {
	case InternalFixed:
		return "nand"
	case InternalSecondary:
		return "sd"
	case RemovableCard:
		return "card"
	default:
		return fmt.Sprintf("media(%d)", uint32(m))
	}
}

// ParseMediaKind accepts the names produced by String.
func ParseMediaKind(value string) (MediaKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "nand", "internal", "fixed":
		return InternalFixed, nil
	case "sd", "secondary":
		return InternalSecondary, nil
	case "card", "cart", "removable":
		return RemovableCard, nil
	default:
		return 0, fmt.Errorf("unknown media kind %q", value)
	}
}
