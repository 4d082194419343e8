package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"savekeeper/internal/logging"
)

// ErrAlreadyRunning is returned when another watcher holds the lock.
var ErrAlreadyRunning = errors.New("another savekeeper watcher is already running")

// Reconciler is the catalog operation the watcher drives.
type Reconciler interface {
	HotSwapCheck(ctx context.Context) bool
}

// Options configures a Watcher.
type Options struct {
	Catalog  Reconciler
	LockPath string
	Interval time.Duration
	// UseNetlink enables udev block events as an extra trigger.
	UseNetlink bool
	// CardDevice limits netlink triggers to one block device.
	CardDevice string
	// OnChange runs after every check that changed the catalog.
	OnChange func(ctx context.Context)
	Logger   *slog.Logger
}

// Watcher runs reconciliation until its context is cancelled.
type Watcher struct {
	opts   Options
	logger *slog.Logger
	lock   *flock.Flock
}

// New returns a watcher. The lock is taken by Run.
func New(opts Options) (*Watcher, error) {
	if opts.Catalog == nil {
		return nil, errors.New("watcher requires a catalog")
	}
	if opts.LockPath == "" {
		return nil, errors.New("watcher requires a lock path")
	}
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	return &Watcher{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "watcher"),
		lock:   flock.New(opts.LockPath),
	}, nil
}

// Run blocks until ctx is cancelled. It returns ErrAlreadyRunning when the
// lock is held elsewhere.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(w.opts.LockPath), 0o755); err != nil {
		return fmt.Errorf("create lock dir: %w", err)
	}
	ok, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}
	defer func() {
		if err := w.lock.Unlock(); err != nil {
			w.logger.Warn("failed to release watcher lock", logging.Error(err))
		}
	}()

	triggers := make(chan string, 1)
	trigger := func(reason string) {
		select {
		case triggers <- reason:
		default:
		}
	}

	group, gctx := errgroup.WithContext(ctx)

	if w.opts.UseNetlink {
		monitor := newNetlinkMonitor(w.opts.CardDevice, w.logger, func(devname string) {
			trigger("netlink " + devname)
		})
		monitor.Start(gctx)
		defer monitor.Stop()
	}

	group.Go(func() error {
		ticker := time.NewTicker(w.opts.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				trigger("poll")
			}
		}
	})

	group.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case reason := <-triggers:
				w.check(gctx, reason)
			}
		}
	})

	w.logger.Info("watching removable media",
		logging.String(logging.FieldEventType, "watcher_started"),
		logging.Duration("interval", w.opts.Interval),
		logging.Bool("netlink", w.opts.UseNetlink),
		logging.String("lock", w.opts.LockPath))
	trigger("startup")

	err = group.Wait()
	w.logger.Info("watcher stopped", logging.String(logging.FieldEventType, "watcher_stopped"))
	return err
}

func (w *Watcher) check(ctx context.Context, reason string) {
	if !w.opts.Catalog.HotSwapCheck(ctx) {
		return
	}
	w.logger.Info("catalog changed",
		logging.String(logging.FieldEventType, "catalog_changed"),
		logging.String("trigger", reason))
	if w.opts.OnChange != nil {
		w.opts.OnChange(ctx)
	}
}
