package device_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"savekeeper/internal/device"
	"savekeeper/internal/title"
)

func TestBlockCardProbeHidesCardWithoutNode(t *testing.T) {
	registry := openTestRegistry(t)
	ctx := context.Background()
	card := title.ID(0x000400000008C400)
	if err := registry.PutTitle(ctx, title.InternalSecondary, 0x0004000000055D00, "", nil); err != nil {
		t.Fatalf("PutTitle: %v", err)
	}
	if err := registry.SetCardSlot(ctx, true, device.CardKindCTR, card); err != nil {
		t.Fatalf("SetCardSlot: %v", err)
	}

	dir := t.TempDir()
	regular := filepath.Join(dir, "not-a-block-device")
	if err := os.WriteFile(regular, nil, 0o644); err != nil {
		t.Fatalf("write node: %v", err)
	}

	for name, node := range map[string]string{
		"missing": filepath.Join(dir, "mmcblk9"),
		"regular": regular,
	} {
		t.Run(name, func(t *testing.T) {
			probe := device.NewBlockCardProbe(registry, node)
			if probe.Node() != node {
				t.Fatalf("unexpected node %q", probe.Node())
			}
			inserted, err := probe.CardInserted(ctx)
			if err != nil || inserted {
				t.Fatalf("expected no card, got %v, %v", inserted, err)
			}
			count, err := probe.CountTitles(ctx, title.RemovableCard)
			if err != nil || count != 0 {
				t.Fatalf("expected empty removable pool, got %d, %v", count, err)
			}
			ids, err := probe.ListTitles(ctx, title.RemovableCard, 1)
			if err != nil || len(ids) != 0 {
				t.Fatalf("expected no card titles, got %v, %v", ids, err)
			}

			// Other pools pass through.
			sd, err := probe.CountTitles(ctx, title.InternalSecondary)
			if err != nil || sd != 1 {
				t.Fatalf("expected sd pool to pass through, got %d, %v", sd, err)
			}
		})
	}
}
