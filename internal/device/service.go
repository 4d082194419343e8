package device

import (
	"context"
	"fmt"
	"strings"

	"savekeeper/internal/title"
)

// Service is the device title-management interface.
type Service interface {
	CountTitles(ctx context.Context, media title.MediaKind) (uint32, error)
	ListTitles(ctx context.Context, media title.MediaKind, count uint32) ([]title.ID, error)
	HasSaveData(ctx context.Context, id title.ID, media title.MediaKind, t title.SaveType) (bool, error)
	ProductCode(ctx context.Context, id title.ID, media title.MediaKind) (string, error)
	Metadata(ctx context.Context, id title.ID, media title.MediaKind) ([]byte, error)
	CardInserted(ctx context.Context) (bool, error)
	CardKind(ctx context.Context) (CardKind, error)
}

// CardKind identifies the family of an inserted card.
type CardKind int

const (
	CardKindCTR CardKind = iota
	CardKindTWL
)

func (k CardKind) String() string {
	switch k {
	case CardKindCTR:
		return "ctr"
	case CardKindTWL:
		return "twl"
	default:
		return fmt.Sprintf("cardkind(%d)", int(k))
	}
}

// Supported reports whether titles on this kind of card can be cataloged.
func (k CardKind) Supported() bool { return k == CardKindCTR }

// ParseCardKind accepts the names produced by String.
func ParseCardKind(value string) (CardKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "ctr", "":
		return CardKindCTR, nil
	case "twl", "nds":
		return CardKindTWL, nil
	default:
		return 0, fmt.Errorf("unknown card kind %q", value)
	}
}
