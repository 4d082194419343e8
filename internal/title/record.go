package title

import (
	"fmt"

	"savekeeper/internal/textutil"
)

// Source distinguishes device-backed titles from synthetic shared-data buckets.
type Source int

const (
	SourceDevice Source = iota
	SourceSharedBucket
)

func (s Source) String() string {
	if s == SourceSharedBucket {
		return "shared"
	}
	return "device"
}

// Record is one catalog entry. All fields are fixed at construction.
type Record struct {
	id            ID
	media         MediaKind
	saves         SaveTypes
	source        Source
	productCode   ProductCode
	displayTitle  WideText
	pathSafeTitle string
	publisher     WideText
	favorite      bool
	icon          *Icon
}

// Persisted is the flat form of a record as stored in the cache.
type Persisted struct {
	ID          ID
	Media       MediaKind
	Saves       SaveTypes
	ProductCode ProductCode
	Title       WideText
	Publisher   WideText
	Icon        *Icon
}

// FromPersisted rebuilds a record verbatim from cached fields. A nil icon is
// replaced by the placeholder. Reserved shared-data ids restore the shared
// bucket source.
func FromPersisted(p Persisted) *Record {
	icon := p.Icon
	if icon == nil {
		icon = PlaceholderIcon()
	}
	source := SourceDevice
	if IsSharedBucketID(p.ID) {
		source = SourceSharedBucket
	}
	return newRecord(p.ID, p.Media, p.Saves, source, p.ProductCode, p.Title, p.Publisher, icon)
}

// SharedBucket builds the synthetic entry for one reserved shared-data id.
func SharedBucket(id ID) *Record {
	displayTitle := NewWideText(fmt.Sprintf("Shared Extra Data (%08X)", id.Lower()))
	return newRecord(id, InternalFixed, SaveTypesOf(SaveSharedExtData), SourceSharedBucket,
		ProductCode{}, displayTitle, WideText{}, PlaceholderIcon())
}

// SharedBuckets builds every shared-data entry in catalog order.
func SharedBuckets() []*Record {
	out := make([]*Record, 0, SharedBucketCount)
	for _, id := range sharedBucketIDs {
		out = append(out, SharedBucket(id))
	}
	return out
}

func newRecord(id ID, media MediaKind, saves SaveTypes, source Source, productCode ProductCode, displayTitle, publisher WideText, icon *Icon) *Record {
	return &Record{
		id:            id,
		media:         media,
		saves:         saves,
		source:        source,
		productCode:   productCode,
		displayTitle:  displayTitle,
		pathSafeTitle: derivePathSafe(id, displayTitle),
		publisher:     publisher,
		icon:          icon,
	}
}

// derivePathSafe falls back to the hex id when nothing usable survives.
func derivePathSafe(id ID, displayTitle WideText) string {
	if safe := textutil.SanitizePathComponent(displayTitle.String()); safe != "" {
		return safe
	}
	return id.String()
}

// WithFavorite returns a copy with the favorite flag set. The icon is shared.
func (r *Record) WithFavorite(favorite bool) *Record {
	if r.favorite == favorite {
		return r
	}
	clone := *r
	clone.favorite = favorite
	return &clone
}

// Persisted returns the fields written to the cache.
func (r *Record) Persisted() Persisted {
	return Persisted{
		ID:          r.id,
		Media:       r.media,
		Saves:       r.saves,
		ProductCode: r.productCode,
		Title:       r.displayTitle,
		Publisher:   r.publisher,
		Icon:        r.icon,
	}
}

// HasSaveData reports whether any save category is present.
func (r *Record) HasSaveData() bool { return r.saves.Any() }

func (r *Record) ID() ID                   { return r.id }
func (r *Record) LowerID() uint32          { return r.id.Lower() }
func (r *Record) UpperID() uint32          { return r.id.Upper() }
func (r *Record) UniqueID() uint32         { return r.id.UniqueID() }
func (r *Record) ExtDataID() uint32        { return r.id.ExtDataID() }
func (r *Record) Media() MediaKind         { return r.media }
func (r *Record) SaveTypes() SaveTypes     { return r.saves }
func (r *Record) Has(t SaveType) bool      { return r.saves.Has(t) }
func (r *Record) Source() Source           { return r.source }
func (r *Record) IsSharedBucket() bool     { return r.source == SourceSharedBucket }
func (r *Record) ProductCode() ProductCode { return r.productCode }
func (r *Record) Title() WideText          { return r.displayTitle }
func (r *Record) PathSafeTitle() string    { return r.pathSafeTitle }
func (r *Record) Publisher() WideText      { return r.publisher }
func (r *Record) IsFavorite() bool         { return r.favorite }
func (r *Record) Icon() *Icon              { return r.icon }

func (r *Record) String() string {
	return fmt.Sprintf("%s %s %q", r.id, r.media, r.displayTitle.String())
}
