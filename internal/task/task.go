package task

import (
	"fmt"
	"log/slog"
	"sync"

	"savekeeper/internal/logging"
)

// Task is a progress sink safe for concurrent use.
type Task struct {
	name   string
	logger *slog.Logger

	mu       sync.Mutex
	label    string
	id       uint64
	updates  int
	finished bool
	sampler  *logging.ProgressSampler
	done     chan struct{}
}

// New returns an unfinished task.
func New(name string, logger *slog.Logger) *Task {
	return &Task{
		name:    name,
		logger:  logging.NewComponentLogger(logger, "task"),
		sampler: logging.NewProgressSampler(0),
		done:    make(chan struct{}),
	}
}

// SetStatus records the current step and the title id it concerns.
func (t *Task) SetStatus(label string, id uint64) {
	t.mu.Lock()
	t.label = label
	t.id = id
	t.updates++
	emit := t.sampler.ShouldLog(label)
	seen := t.sampler.Seen()
	t.mu.Unlock()

	if emit {
		t.logger.Debug("task status",
			logging.String("task", t.name),
			logging.String("status", label),
			logging.Int("seen", seen),
			logging.TitleID(id))
	}
}

// Finish marks the task complete. Later calls have no effect.
func (t *Task) Finish() {
	t.mu.Lock()
	if t.finished {
		t.mu.Unlock()
		return
	}
	t.finished = true
	updates := t.updates
	close(t.done)
	t.mu.Unlock()

	t.logger.Debug("task finished",
		logging.String("task", t.name),
		logging.Int("updates", updates))
}

// Finished reports whether Finish has been called.
func (t *Task) Finished() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finished
}

// Done is closed when the task finishes.
func (t *Task) Done() <-chan struct{} { return t.done }

// Updates returns the number of SetStatus calls so far.
func (t *Task) Updates() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updates
}

// Status renders the latest step for display.
func (t *Task) Status() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case t.finished:
		return fmt.Sprintf("%s: done", t.name)
	case t.label == "":
		return fmt.Sprintf("%s: starting", t.name)
	default:
		return fmt.Sprintf("%s: %s %016X", t.name, t.label, t.id)
	}
}
