package cachefile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/moby/sys/atomicwriter"

	"savekeeper/internal/logging"
	"savekeeper/internal/title"
)

const (
	lockRetryDelay = 50 * time.Millisecond
	loadStatus     = "Loading cache"
	saveStatus     = "Writing cache"
)

// ErrTooManyRecords is returned when a catalog does not fit the 16-bit count.
var ErrTooManyRecords = errors.New("too many records for cache file")

// Progress receives one status update per record read or written.
type Progress interface {
	SetStatus(label string, id uint64)
}

// Info describes the cache file on disk.
type Info struct {
	Path     string    `json:"path"`
	Exists   bool      `json:"exists"`
	Size     int64     `json:"size"`
	ModTime  time.Time `json:"mod_time"`
	MagicOK  bool      `json:"magic_ok"`
	Revision byte      `json:"revision"`
	Count    int       `json:"count"`
	// Current reports whether Load would accept the file.
	Current bool `json:"current"`
}

// Store reads and writes the catalog cache file.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore returns a store for path. Nothing is touched until Load or Save.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "cachefile"),
	}
}

// Path returns the cache file location.
func (s *Store) Path() string { return s.path }

func (s *Store) lockPath() string { return s.path + ".lock" }

// Load reads the cached catalog. It returns ok=false with a nil error when the
// file is absent or carries a foreign magic or revision. A file shorter than
// its declared record count yields an error wrapping io.ErrUnexpectedEOF.
func (s *Store) Load(ctx context.Context, progress Progress) ([]*title.Record, bool, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, false, fmt.Errorf("create cache dir: %w", err)
	}
	lock := flock.New(s.lockPath())
	if _, err := lock.TryRLockContext(ctx, lockRetryDelay); err != nil {
		return nil, false, fmt.Errorf("lock cache: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info("no catalog cache; enumerating device",
				logging.String(logging.FieldEventType, "cache_absent"),
				logging.String("path", s.path))
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("open cache: %w", err)
	}
	defer f.Close()

	reader := bufio.NewReaderSize(f, RecordSize)
	var hdrBuf [HeaderSize]byte
	if _, err := io.ReadFull(reader, hdrBuf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			s.logger.Warn("catalog cache header truncated; rebuilding",
				logging.String(logging.FieldEventType, "cache_header_truncated"),
				logging.String("path", s.path))
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cache header: %w", err)
	}
	hdr := decodeHeader(hdrBuf[:])
	if hdr.magic != Magic {
		s.logger.Warn("catalog cache magic mismatch; rebuilding",
			logging.String(logging.FieldEventType, "cache_magic_mismatch"),
			logging.String("magic", fmt.Sprintf("0x%08X", hdr.magic)),
			logging.String("path", s.path))
		return nil, false, nil
	}
	if hdr.revision != Revision {
		s.logger.Info("catalog cache revision changed; rebuilding",
			logging.String(logging.FieldEventType, "cache_revision_mismatch"),
			logging.Int("revision", int(hdr.revision)),
			logging.Int("expected_revision", int(Revision)))
		return nil, false, nil
	}

	records := make([]*title.Record, 0, hdr.count)
	buf := make([]byte, RecordSize)
	for i := 0; i < int(hdr.count); i++ {
		if _, err := io.ReadFull(reader, buf); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, false, fmt.Errorf("read cache record %d of %d: %w", i+1, hdr.count, err)
		}
		rec := DecodeRecord(buf)
		records = append(records, rec)
		if progress != nil {
			progress.SetStatus(loadStatus, uint64(rec.ID()))
		}
	}

	s.logger.Debug("catalog cache loaded",
		logging.Int("records", len(records)),
		logging.String("path", s.path))
	return records, true, nil
}

// Save replaces the cache file with records in order. The previous file stays
// intact if any write fails.
func (s *Store) Save(ctx context.Context, records []*title.Record, progress Progress) error {
	if len(records) > math.MaxUint16 {
		return fmt.Errorf("%w: %d records", ErrTooManyRecords, len(records))
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	lock := flock.New(s.lockPath())
	if _, err := lock.TryLockContext(ctx, lockRetryDelay); err != nil {
		return fmt.Errorf("lock cache: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	out, err := atomicwriter.New(s.path, 0o644)
	if err != nil {
		return fmt.Errorf("create cache writer: %w", err)
	}
	writer := bufio.NewWriterSize(out, RecordSize)

	var hdrBuf [HeaderSize]byte
	encodeHeader(hdrBuf[:], uint16(len(records)))
	if _, err := writer.Write(hdrBuf[:]); err != nil {
		_ = out.Close()
		return fmt.Errorf("write cache header: %w", err)
	}

	buf := make([]byte, RecordSize)
	for _, rec := range records {
		EncodeRecord(buf, rec)
		if _, err := writer.Write(buf); err != nil {
			_ = out.Close()
			return fmt.Errorf("write cache record %s: %w", rec.ID(), err)
		}
		if progress != nil {
			progress.SetStatus(saveStatus, uint64(rec.ID()))
		}
	}
	if err := writer.Flush(); err != nil {
		_ = out.Close()
		return fmt.Errorf("flush cache: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("commit cache: %w", err)
	}

	s.logger.Debug("catalog cache written",
		logging.Int("records", len(records)),
		logging.String("path", s.path))
	return nil
}

// Stat inspects the cache file without decoding records.
func (s *Store) Stat() (Info, error) {
	info := Info{Path: s.path}
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return info, nil
		}
		return info, fmt.Errorf("open cache: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return info, fmt.Errorf("stat cache: %w", err)
	}
	info.Exists = true
	info.Size = st.Size()
	info.ModTime = st.ModTime()

	var hdrBuf [HeaderSize]byte
	if _, err := io.ReadFull(f, hdrBuf[:]); err != nil {
		return info, nil
	}
	hdr := decodeHeader(hdrBuf[:])
	info.MagicOK = hdr.magic == Magic
	info.Revision = hdr.revision
	info.Count = int(hdr.count)
	info.Current = info.MagicOK && hdr.revision == Revision &&
		info.Size >= int64(HeaderSize)+int64(hdr.count)*RecordSize
	return info, nil
}

// Remove deletes the cache file so the next load enumerates the device.
func (s *Store) Remove(ctx context.Context) error {
	if _, err := os.Stat(filepath.Dir(s.path)); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	lock := flock.New(s.lockPath())
	if _, err := lock.TryLockContext(ctx, lockRetryDelay); err != nil {
		return fmt.Errorf("lock cache: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove cache: %w", err)
	}
	s.logger.Info("catalog cache removed", logging.String("path", s.path))
	return nil
}
