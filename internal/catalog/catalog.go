package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"savekeeper/internal/cachefile"
	"savekeeper/internal/device"
	"savekeeper/internal/enumerator"
	"savekeeper/internal/logging"
	"savekeeper/internal/title"
)

// ErrAlreadyLoaded is reported by a second Load on the same catalog.
var ErrAlreadyLoaded = errors.New("catalog already loaded")

// Progress is the task handle driven by Load.
type Progress interface {
	SetStatus(label string, id uint64)
	Finish()
}

// FavoriteSet reports which titles the user marked as favorites.
type FavoriteSet interface {
	IsFavorite(id uint64) bool
}

// Options wires a Catalog to its collaborators.
type Options struct {
	Store      *cachefile.Store
	Device     device.Service
	Enumerator *enumerator.Enumerator
	Favorites  FavoriteSet
	Language   title.MetadataLanguage
	Logger     *slog.Logger
}

// Path names how a catalog was filled.
type Path int

const (
	PathWarm Path = iota
	PathCold
)

func (p Path) String() string {
	if p == PathWarm {
		return "warm"
	}
	return "cold"
}

// Outcome summarizes a Load call.
type Outcome struct {
	Path          Path
	Records       int
	Degraded      bool
	CorrelationID string
	// Err is the enumeration failure behind a degraded build.
	Err error
	// CacheErr is a cache read or write failure that did not stop the load.
	CacheErr error
}

// Catalog is the ordered list of titles with save data: an optional
// removable-card entry followed by the body.
type Catalog struct {
	store      *cachefile.Store
	device     device.Service
	enumerator *enumerator.Enumerator
	favorites  FavoriteSet
	language   title.MetadataLanguage
	logger     *slog.Logger

	// opMu serializes Load and HotSwapCheck; mu guards the published state.
	opMu        sync.Mutex
	mu          sync.RWMutex
	card        *title.Record
	body        []*title.Record
	initialized bool
	degraded    bool
}

// New returns an empty, uninitialized catalog.
func New(opts Options) *Catalog {
	return &Catalog{
		store:      opts.Store,
		device:     opts.Device,
		enumerator: opts.Enumerator,
		favorites:  opts.Favorites,
		language:   opts.Language,
		logger:     logging.NewComponentLogger(opts.Logger, "catalog"),
	}
}

type nopProgress struct{}

func (nopProgress) SetStatus(string, uint64) {}
func (nopProgress) Finish()                  {}

// Load fills the catalog from the cache or, failing that, from the device.
// progress.Finish is called exactly once on every path.
func (c *Catalog) Load(ctx context.Context, progress Progress) Outcome {
	if progress == nil {
		progress = nopProgress{}
	}
	defer progress.Finish()

	c.opMu.Lock()
	defer c.opMu.Unlock()

	correlationID := uuid.NewString()
	ctx = logging.WithCorrelationID(ctx, correlationID)
	logger := logging.WithContext(ctx, c.logger)

	if c.Initialized() {
		return Outcome{CorrelationID: correlationID, Err: ErrAlreadyLoaded}
	}

	outcome := Outcome{CorrelationID: correlationID}
	records, ok, err := c.store.Load(ctx, progress)
	if err != nil {
		outcome.CacheErr = err
		logging.WarnWithContext(logger, "catalog cache unreadable; rebuilding from device", "cache_load_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "the cache will be rewritten after enumeration"),
			logging.String(logging.FieldImpact, "startup is slower this run"),
			logging.String("path", c.store.Path()))
	}
	if ok {
		c.install(records)
		outcome.Path = PathWarm
		outcome.Records = len(records)
		logger.Info("catalog loaded from cache", logging.Int("records", len(records)))
		return outcome
	}

	outcome.Path = PathCold
	enumErr := c.enumerator.Run(ctx, progress, c.appendRecord)

	c.mu.Lock()
	SortRecords(c.body)
	outcome.Records = len(c.body)
	persisted := make([]*title.Record, len(c.body))
	copy(persisted, c.body)
	c.initialized = true
	c.degraded = enumErr != nil
	c.mu.Unlock()

	if enumErr != nil {
		outcome.Degraded = true
		outcome.Err = enumErr
		attrs := []logging.Attr{
			logging.Error(enumErr),
			logging.String(logging.FieldErrorHint, "check the device service and rerun savekeeper scan"),
			logging.String(logging.FieldImpact, "catalog is incomplete and was not cached"),
			logging.Int("records", outcome.Records),
		}
		var poolErr *enumerator.PoolError
		if errors.As(enumErr, &poolErr) {
			attrs = append(attrs, logging.String(logging.FieldMedia, poolErr.Media.String()))
		}
		logging.WarnWithContext(logger, "title enumeration failed", "enumeration_failed", attrs...)
		return outcome
	}

	if err := c.store.Save(ctx, persisted, progress); err != nil {
		outcome.CacheErr = err
		logging.ErrorWithContext(logger, "failed to write catalog cache", "cache_save_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the cache directory"),
			logging.String(logging.FieldImpact, "next start will enumerate the device again"),
			logging.String("path", c.store.Path()))
	}
	logger.Info("catalog built from device", logging.Int("records", outcome.Records))
	return outcome
}

func (c *Catalog) withFavorite(r *title.Record) *title.Record {
	if c.favorites == nil {
		return r
	}
	return r.WithFavorite(c.favorites.IsFavorite(uint64(r.ID())))
}

func (c *Catalog) install(records []*title.Record) {
	body := make([]*title.Record, 0, len(records))
	for _, r := range records {
		body = append(body, c.withFavorite(r))
	}
	c.mu.Lock()
	c.body = body
	c.initialized = true
	c.mu.Unlock()
}

func (c *Catalog) appendRecord(r *title.Record) {
	r = c.withFavorite(r)
	c.mu.Lock()
	c.body = append(c.body, r)
	c.mu.Unlock()
}

// HotSwapCheck reconciles the removable-card slot with the device and
// reports whether the catalog changed. It does nothing before Load completes
// and treats every device error as "no change".
func (c *Catalog) HotSwapCheck(ctx context.Context) bool {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if !c.Initialized() {
		return false
	}

	inserted, err := c.device.CardInserted(ctx)
	if err != nil {
		c.logger.Debug("card presence probe failed", logging.Error(err))
		return false
	}

	c.mu.RLock()
	current := c.card
	c.mu.RUnlock()

	if current != nil {
		if inserted {
			return false
		}
		c.mu.Lock()
		c.card = nil
		c.mu.Unlock()
		c.logger.Info("removable card removed from catalog",
			logging.TitleID(uint64(current.ID())),
			logging.String("title", current.Title().String()))
		return true
	}
	if !inserted {
		return false
	}

	kind, err := c.device.CardKind(ctx)
	if err != nil {
		c.logger.Debug("card kind probe failed", logging.Error(err))
		return false
	}
	if !kind.Supported() {
		c.logger.Debug("ignoring unsupported card", logging.String("card_kind", kind.String()))
		return false
	}
	ids, err := c.device.ListTitles(ctx, title.RemovableCard, 1)
	if err != nil || len(ids) == 0 {
		if err != nil {
			c.logger.Debug("card title listing failed", logging.Error(err))
		}
		return false
	}

	rec := title.FromDevice(ctx, c.device, ids[0], title.RemovableCard, title.BuildOptions{
		Language: c.language,
		Logger:   c.logger,
	})
	if !rec.HasSaveData() {
		return false
	}
	rec = c.withFavorite(rec)

	c.mu.Lock()
	c.card = rec
	c.mu.Unlock()
	c.logger.Info("removable card added to catalog",
		logging.TitleID(uint64(rec.ID())),
		logging.String("title", rec.Title().String()))
	return true
}

// Initialized reports whether Load has completed.
func (c *Catalog) Initialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// Degraded reports whether the last cold build stopped at a pool failure.
func (c *Catalog) Degraded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.degraded
}

// Card returns the removable-card entry, if any.
func (c *Catalog) Card() *title.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.card
}

// Len returns the number of visible entries, card included.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.card != nil {
		return len(c.body) + 1
	}
	return len(c.body)
}

// At returns the entry at index i of the visible sequence, or nil.
func (c *Catalog) At(i int) *title.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.card != nil {
		if i == 0 {
			return c.card
		}
		i--
	}
	if i < 0 || i >= len(c.body) {
		return nil
	}
	return c.body[i]
}

// Titles returns a snapshot of the visible sequence.
func (c *Catalog) Titles() []*title.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*title.Record, 0, len(c.body)+1)
	if c.card != nil {
		out = append(out, c.card)
	}
	return append(out, c.body...)
}

// Find returns the first entry with the given id.
func (c *Catalog) Find(id title.ID) (*title.Record, bool) {
	for _, r := range c.Titles() {
		if r.ID() == id {
			return r, true
		}
	}
	return nil, false
}

// TitlesWithType returns, in catalog order, every entry with save type t.
func (c *Catalog) TitlesWithType(t title.SaveType) []*title.Record {
	var out []*title.Record
	for _, r := range c.Titles() {
		if r.Has(t) {
			out = append(out, r)
		}
	}
	return out
}
