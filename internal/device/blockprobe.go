package device

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"savekeeper/internal/title"
)

// BlockCardProbe decorates a Service so card presence follows a block device
// node. With no card node present, the removable pool is reported empty.
type BlockCardProbe struct {
	Service
	node string
}

// NewBlockCardProbe wraps svc; node is the card reader's block device path.
func NewBlockCardProbe(svc Service, node string) *BlockCardProbe {
	return &BlockCardProbe{Service: svc, node: node}
}

// Node returns the watched device path.
func (p *BlockCardProbe) Node() string { return p.node }

// CardInserted reports whether the node exists and is a block device, and
// the wrapped service knows a card title.
func (p *BlockCardProbe) CardInserted(ctx context.Context) (bool, error) {
	present, err := p.nodePresent()
	if err != nil || !present {
		return false, err
	}
	return p.Service.CardInserted(ctx)
}

// CountTitles hides the wrapped service's card title while the node is absent.
func (p *BlockCardProbe) CountTitles(ctx context.Context, media title.MediaKind) (uint32, error) {
	if media == title.RemovableCard {
		if present, err := p.nodePresent(); err != nil || !present {
			return 0, err
		}
	}
	return p.Service.CountTitles(ctx, media)
}

// ListTitles hides the wrapped service's card title while the node is absent.
func (p *BlockCardProbe) ListTitles(ctx context.Context, media title.MediaKind, count uint32) ([]title.ID, error) {
	if media == title.RemovableCard {
		if present, err := p.nodePresent(); err != nil || !present {
			return nil, err
		}
	}
	return p.Service.ListTitles(ctx, media, count)
}

func (p *BlockCardProbe) nodePresent() (bool, error) {
	var st unix.Stat_t
	if err := unix.Stat(p.node, &st); err != nil {
		if errors.Is(err, unix.ENOENT) || errors.Is(err, unix.ENXIO) {
			return false, nil
		}
		return false, &ResultError{Op: "card_probe", Code: CodeUnavailable, Err: fmt.Errorf("stat %s: %w", p.node, err)}
	}
	return st.Mode&unix.S_IFMT == unix.S_IFBLK, nil
}
