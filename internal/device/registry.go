package device

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"savekeeper/internal/title"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes incompatibly.
const schemaVersion = 1

// ErrSchemaMismatch indicates the registry was created by another schema version.
var ErrSchemaMismatch = errors.New("registry schema version mismatch")

// Registry is a Service backed by a SQLite title database.
type Registry struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	closed bool
}

var _ Service = (*Registry)(nil)

// OpenRegistry opens or creates the registry database at path.
func OpenRegistry(ctx context.Context, path string) (*Registry, error) {
	ctx = ensureContext(ctx)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create registry dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	registry := &Registry{db: db, path: path}
	if err := registry.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return registry, nil
}

func (r *Registry) initSchema(ctx context.Context) error {
	var tableExists int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return r.createSchema(ctx)
	}

	var version int
	if err := r.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s and re-import)",
			ErrSchemaMismatch, version, schemaVersion, r.path)
	}
	return nil
}

func (r *Registry) createSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Path returns the database location.
func (r *Registry) Path() string { return r.path }

// Close closes the database. Later calls return ErrRegistryClosed.
func (r *Registry) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.db.Close()
}

// acquire holds the read lock for the duration of one call.
func (r *Registry) acquire() (func(), error) {
	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return nil, ErrRegistryClosed
	}
	return r.mu.RUnlock, nil
}

// PutTitle inserts or replaces a title entry. Insertion order is the order
// ListTitles reports.
func (r *Registry) PutTitle(ctx context.Context, media title.MediaKind, id title.ID, productCode string, metadata []byte) error {
	release, err := r.acquire()
	if err != nil {
		return err
	}
	defer release()
	err = r.exec(ctx,
		`INSERT INTO titles (media, title_id, product_code, metadata) VALUES (?, ?, ?, ?)
         ON CONFLICT (media, title_id) DO UPDATE SET product_code = excluded.product_code, metadata = excluded.metadata`,
		int64(media), int64(id), productCode, metadata,
	)
	if err != nil {
		return fmt.Errorf("put title %s: %w", id, err)
	}
	return nil
}

// PutSaveData marks a save category present for a title.
func (r *Registry) PutSaveData(ctx context.Context, media title.MediaKind, id title.ID, t title.SaveType) error {
	release, err := r.acquire()
	if err != nil {
		return err
	}
	defer release()
	err = r.exec(ctx,
		"INSERT OR IGNORE INTO save_data (media, title_id, save_type) VALUES (?, ?, ?)",
		int64(media), int64(id), int(t),
	)
	if err != nil {
		return fmt.Errorf("put save data %s/%s: %w", id, t, err)
	}
	return nil
}

// SetCardSlot records the removable slot state. The id is ignored when the
// slot is empty.
func (r *Registry) SetCardSlot(ctx context.Context, inserted bool, kind CardKind, id title.ID) error {
	release, err := r.acquire()
	if err != nil {
		return err
	}
	defer release()
	var titleID any
	if inserted {
		titleID = int64(id)
	}
	err = r.exec(ctx,
		`INSERT INTO card_slot (slot, inserted, kind, title_id) VALUES (0, ?, ?, ?)
         ON CONFLICT (slot) DO UPDATE SET inserted = excluded.inserted, kind = excluded.kind, title_id = excluded.title_id`,
		boolToInt(inserted), int(kind), titleID,
	)
	if err != nil {
		return fmt.Errorf("set card slot: %w", err)
	}
	return nil
}

// CountTitles reports the number of titles on media. The removable pool
// holds at most the inserted card's title.
func (r *Registry) CountTitles(ctx context.Context, media title.MediaKind) (uint32, error) {
	ids, err := r.listTitles(ctx, media, -1, "count_titles")
	if err != nil {
		return 0, err
	}
	return uint32(len(ids)), nil
}

// ListTitles returns up to count ids in insertion order.
func (r *Registry) ListTitles(ctx context.Context, media title.MediaKind, count uint32) ([]title.ID, error) {
	return r.listTitles(ctx, media, int64(count), "list_titles")
}

func (r *Registry) listTitles(ctx context.Context, media title.MediaKind, limit int64, op string) ([]title.ID, error) {
	release, err := r.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	if media == title.RemovableCard {
		id, ok, err := r.cardTitle(ctx, op)
		if err != nil || !ok || limit == 0 {
			return nil, err
		}
		return []title.ID{id}, nil
	}

	ctx = ensureContext(ctx)
	var ids []title.ID
	err = retryOnBusy(ctx, func() error {
		ids = ids[:0]
		rows, err := r.db.QueryContext(ctx,
			"SELECT title_id FROM titles WHERE media = ? ORDER BY seq LIMIT ?",
			int64(media), limit,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var raw int64
			if err := rows.Scan(&raw); err != nil {
				return err
			}
			ids = append(ids, title.ID(uint64(raw)))
		}
		return rows.Err()
	})
	if err != nil {
		return nil, &ResultError{Op: op, Code: CodeUnavailable, Err: err}
	}
	return ids, nil
}

// cardTitle returns the inserted card's title id.
func (r *Registry) cardTitle(ctx context.Context, op string) (title.ID, bool, error) {
	var (
		inserted int
		raw      sql.NullInt64
	)
	err := r.queryRow(ctx, "SELECT inserted, title_id FROM card_slot WHERE slot = 0", nil, &inserted, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, &ResultError{Op: op, Code: CodeUnavailable, Err: err}
	}
	if inserted == 0 || !raw.Valid {
		return 0, false, nil
	}
	return title.ID(uint64(raw.Int64)), true, nil
}

// HasSaveData reports whether a save category is present for the title.
func (r *Registry) HasSaveData(ctx context.Context, id title.ID, media title.MediaKind, t title.SaveType) (bool, error) {
	release, err := r.acquire()
	if err != nil {
		return false, err
	}
	defer release()
	var count int
	err = r.queryRow(ctx,
		"SELECT COUNT(1) FROM save_data WHERE media = ? AND title_id = ? AND save_type = ?",
		[]any{int64(media), int64(id), int(t)}, &count,
	)
	if err != nil {
		return false, &ResultError{Op: "has_save_data", Code: CodeUnavailable, Err: err}
	}
	return count > 0, nil
}

// ProductCode returns the stored product code.
func (r *Registry) ProductCode(ctx context.Context, id title.ID, media title.MediaKind) (string, error) {
	release, err := r.acquire()
	if err != nil {
		return "", err
	}
	defer release()
	var code string
	err = r.queryRow(ctx,
		"SELECT product_code FROM titles WHERE media = ? AND title_id = ?",
		[]any{int64(media), int64(id)}, &code,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return "", &ResultError{Op: "product_code", Code: CodeNotFound}
	}
	if err != nil {
		return "", &ResultError{Op: "product_code", Code: CodeUnavailable, Err: err}
	}
	return code, nil
}

// Metadata returns the stored metadata blob.
func (r *Registry) Metadata(ctx context.Context, id title.ID, media title.MediaKind) ([]byte, error) {
	release, err := r.acquire()
	if err != nil {
		return nil, err
	}
	defer release()
	var blob []byte
	err = r.queryRow(ctx,
		"SELECT metadata FROM titles WHERE media = ? AND title_id = ?",
		[]any{int64(media), int64(id)}, &blob,
	)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && len(blob) == 0) {
		return nil, &ResultError{Op: "metadata", Code: CodeNotFound}
	}
	if err != nil {
		return nil, &ResultError{Op: "metadata", Code: CodeUnavailable, Err: err}
	}
	return blob, nil
}

// CardInserted reports whether the card slot is occupied.
func (r *Registry) CardInserted(ctx context.Context) (bool, error) {
	release, err := r.acquire()
	if err != nil {
		return false, err
	}
	defer release()
	_, ok, err := r.cardTitle(ctx, "card_inserted")
	return ok, err
}

// CardKind reports the kind of the inserted card.
func (r *Registry) CardKind(ctx context.Context) (CardKind, error) {
	release, err := r.acquire()
	if err != nil {
		return 0, err
	}
	defer release()
	var inserted, kind int
	err = r.queryRow(ctx, "SELECT inserted, kind FROM card_slot WHERE slot = 0", nil, &inserted, &kind)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && inserted == 0) {
		return 0, &ResultError{Op: "card_kind", Code: CodeNoCard}
	}
	if err != nil {
		return 0, &ResultError{Op: "card_kind", Code: CodeUnavailable, Err: err}
	}
	return CardKind(kind), nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
