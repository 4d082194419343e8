package device

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"savekeeper/internal/title"
)

// Manifest describes registry contents in TOML, for seeding a registry from
// a dump of a real device.
type Manifest struct {
	Titles []ManifestTitle `toml:"title"`
	Card   *ManifestCard   `toml:"card"`
}

// ManifestTitle is one [[title]] table.
type ManifestTitle struct {
	Media       string   `toml:"media"`
	ID          string   `toml:"id"`
	ProductCode string   `toml:"product_code"`
	Name        string   `toml:"name"`
	LongName    string   `toml:"long_name"`
	Publisher   string   `toml:"publisher"`
	Saves       []string `toml:"saves"`
}

// ManifestCard is the [card] table. Its title is listed under [[title]]
// with media = "card".
type ManifestCard struct {
	Inserted bool   `toml:"inserted"`
	Kind     string `toml:"kind"`
	ID       string `toml:"id"`
}

// ImportStats summarizes an Import call.
type ImportStats struct {
	Titles    int
	SaveTypes int
	Card      bool
}

// LoadManifest reads and strictly decodes a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	var manifest Manifest
	if err := decoder.Decode(&manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &manifest, nil
}

// Import writes every manifest entry into the registry. Entries are validated
// before the first write.
func (r *Registry) Import(ctx context.Context, manifest *Manifest) (ImportStats, error) {
	var stats ImportStats
	if manifest == nil {
		return stats, nil
	}

	type pending struct {
		media title.MediaKind
		id    title.ID
		code  string
		blob  []byte
		saves []title.SaveType
	}
	entries := make([]pending, 0, len(manifest.Titles))
	for i, entry := range manifest.Titles {
		media, err := title.ParseMediaKind(entry.Media)
		if err != nil {
			return stats, fmt.Errorf("title[%d]: %w", i, err)
		}
		id, err := title.ParseID(entry.ID)
		if err != nil {
			return stats, fmt.Errorf("title[%d]: %w", i, err)
		}
		saves := make([]title.SaveType, 0, len(entry.Saves))
		for _, name := range entry.Saves {
			t, err := title.ParseSaveType(name)
			if err != nil {
				return stats, fmt.Errorf("title[%d] %s: %w", i, id, err)
			}
			saves = append(saves, t)
		}
		var blob []byte
		if entry.Name != "" {
			blob = title.EncodeMetadata(title.Metadata{
				Title:     title.NewWideText(entry.Name),
				LongTitle: entry.LongName,
				Publisher: title.NewWideText(entry.Publisher),
			})
		}
		entries = append(entries, pending{media: media, id: id, code: entry.ProductCode, blob: blob, saves: saves})
	}

	var (
		cardKind CardKind
		cardID   title.ID
	)
	if manifest.Card != nil && manifest.Card.Inserted {
		kind, err := ParseCardKind(manifest.Card.Kind)
		if err != nil {
			return stats, fmt.Errorf("card: %w", err)
		}
		id, err := title.ParseID(manifest.Card.ID)
		if err != nil {
			return stats, fmt.Errorf("card: %w", err)
		}
		cardKind, cardID = kind, id
	}

	for _, entry := range entries {
		if err := r.PutTitle(ctx, entry.media, entry.id, entry.code, entry.blob); err != nil {
			return stats, err
		}
		stats.Titles++
		for _, t := range entry.saves {
			if err := r.PutSaveData(ctx, entry.media, entry.id, t); err != nil {
				return stats, err
			}
			stats.SaveTypes++
		}
	}
	if manifest.Card != nil {
		if err := r.SetCardSlot(ctx, manifest.Card.Inserted, cardKind, cardID); err != nil {
			return stats, err
		}
		stats.Card = manifest.Card.Inserted
	}
	return stats, nil
}
