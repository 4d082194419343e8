package title

import (
	"context"
	"log/slog"

	"savekeeper/internal/logging"
)

// DeviceSource is the subset of the device service needed to build a record.
type DeviceSource interface {
	HasSaveData(ctx context.Context, id ID, media MediaKind, t SaveType) (bool, error)
	ProductCode(ctx context.Context, id ID, media MediaKind) (string, error)
	Metadata(ctx context.Context, id ID, media MediaKind) ([]byte, error)
}

// BuildOptions tunes live record construction.
type BuildOptions struct {
	Language MetadataLanguage
	Logger   *slog.Logger
}

// probedTypes lists the categories checked for device titles. Shared extra
// data is never probed per title.
var probedTypes = []SaveType{SaveUser, SaveExtData, SaveBossExtData, SaveSystem}

func appliesTo(t SaveType, media MediaKind) bool {
	switch t {
	case SaveUser:
		return media != InternalFixed
	case SaveSystem:
		return media == InternalFixed
	default:
		return true
	}
}

// FromDevice builds a record from live device queries. It never fails: a
// probe error counts as absent data and unusable metadata yields the
// placeholder icon with the hex id as title. Metadata is only fetched for
// titles that have save data.
func FromDevice(ctx context.Context, src DeviceSource, id ID, media MediaKind, opts BuildOptions) *Record {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	var saves SaveTypes
	for _, t := range probedTypes {
		if !appliesTo(t, media) {
			continue
		}
		present, err := src.HasSaveData(ctx, id, media, t)
		if err != nil {
			logger.Debug("save probe failed; treating as absent",
				logging.TitleID(uint64(id)),
				logging.String(logging.FieldMedia, media.String()),
				logging.String("save_type", t.String()),
				logging.Error(err),
			)
			continue
		}
		saves[t] = present
	}
	if !saves.Any() {
		return newRecord(id, media, saves, SourceDevice, ProductCode{}, NewWideText(id.String()), WideText{}, PlaceholderIcon())
	}

	var productCode ProductCode
	if code, err := src.ProductCode(ctx, id, media); err != nil {
		logger.Debug("product code unavailable", logging.TitleID(uint64(id)), logging.Error(err))
	} else {
		productCode = NewProductCode(code)
	}

	displayTitle := NewWideText(id.String())
	var publisher WideText
	icon := PlaceholderIcon()
	blob, err := src.Metadata(ctx, id, media)
	if err == nil {
		var meta Metadata
		meta, err = DecodeMetadata(blob, opts.Language)
		if err == nil {
			if !meta.Title.IsEmpty() {
				displayTitle = meta.Title
			}
			publisher = meta.Publisher
			icon = meta.Icon
		}
	}
	if err != nil {
		logger.Debug("metadata unavailable; using placeholder",
			logging.TitleID(uint64(id)),
			logging.String(logging.FieldMedia, media.String()),
			logging.Error(err),
		)
	}

	return newRecord(id, media, saves, SourceDevice, productCode, displayTitle, publisher, icon)
}
