package enumerator

import (
	"context"
	"fmt"
	"log/slog"

	"savekeeper/internal/device"
	"savekeeper/internal/logging"
	"savekeeper/internal/title"
)

// Pool is one media pool to enumerate.
type Pool struct {
	Media title.MediaKind
	// FilterCategories restricts the pool to application and demo ids.
	FilterCategories bool
	Label            string
}

// DefaultPools returns the installed-application pool followed by the
// system pool.
func DefaultPools() []Pool {
	return []Pool{
		{Media: title.InternalSecondary, FilterCategories: true, Label: "Scanning installed titles"},
		{Media: title.InternalFixed, FilterCategories: false, Label: "Scanning system titles"},
	}
}

// PoolError reports a failed count or list call for one pool.
type PoolError struct {
	Media title.MediaKind
	Op    string
	Err   error
}

func (e *PoolError) Error() string {
	if code, ok := device.ResultCode(e.Err); ok {
		return fmt.Sprintf("%s %s titles (0x%08X): %v", e.Op, e.Media, code, e.Err)
	}
	return fmt.Sprintf("%s %s titles: %v", e.Op, e.Media, e.Err)
}

func (e *PoolError) Unwrap() error { return e.Err }

// Progress receives one update per title id visited.
type Progress interface {
	SetStatus(label string, id uint64)
}

// Options configures an Enumerator.
type Options struct {
	Service  device.Service
	Pools    []Pool
	Language title.MetadataLanguage
	Logger   *slog.Logger
}

// Enumerator builds records from live device queries.
type Enumerator struct {
	svc      device.Service
	pools    []Pool
	language title.MetadataLanguage
	logger   *slog.Logger
}

// New returns an enumerator. Nil Pools means DefaultPools.
func New(opts Options) *Enumerator {
	pools := opts.Pools
	if pools == nil {
		pools = DefaultPools()
	}
	return &Enumerator{
		svc:      opts.Service,
		pools:    pools,
		language: opts.Language,
		logger:   logging.NewComponentLogger(opts.Logger, "enumerator"),
	}
}

// Run emits a record for every title with save data, pool by pool, then the
// shared-data buckets. Records emitted before a PoolError stay emitted.
func (e *Enumerator) Run(ctx context.Context, progress Progress, emit func(*title.Record)) error {
	logger := logging.WithContext(ctx, e.logger)
	for _, pool := range e.pools {
		if err := e.runPool(ctx, logger, pool, progress, emit); err != nil {
			return err
		}
	}
	for _, bucket := range title.SharedBuckets() {
		emit(bucket)
	}
	return nil
}

func (e *Enumerator) runPool(ctx context.Context, logger *slog.Logger, pool Pool, progress Progress, emit func(*title.Record)) error {
	count, err := e.svc.CountTitles(ctx, pool.Media)
	if err != nil {
		return &PoolError{Media: pool.Media, Op: "count", Err: err}
	}
	ids, err := e.svc.ListTitles(ctx, pool.Media, count)
	if err != nil {
		return &PoolError{Media: pool.Media, Op: "list", Err: err}
	}

	opts := title.BuildOptions{Language: e.language, Logger: logger}
	kept, skipped := 0, 0
	for _, id := range ids {
		if progress != nil {
			progress.SetStatus(pool.Label, uint64(id))
		}
		if pool.FilterCategories && !id.IsInstallable() {
			skipped++
			continue
		}
		rec := title.FromDevice(ctx, e.svc, id, pool.Media, opts)
		if !rec.HasSaveData() {
			continue
		}
		emit(rec)
		kept++
	}

	logger.Debug("pool enumerated",
		logging.String(logging.FieldMedia, pool.Media.String()),
		logging.Int("listed", len(ids)),
		logging.Int("kept", kept),
		logging.Int("filtered", skipped))
	return nil
}
