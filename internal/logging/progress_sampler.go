package logging

import "strings"

// ProgressSampler thins per-item status updates for logging. It emits the
// first update of every label and then one update in every `every` under the
// same label.
type ProgressSampler struct {
	every     int
	lastLabel string
	seen      int
}

// NewProgressSampler returns a sampler emitting every n-th update per label
// (default 25).
func NewProgressSampler(every int) *ProgressSampler {
	if every <= 0 {
		every = 25
	}
	return &ProgressSampler{every: every}
}

// ShouldLog counts one update under label and reports whether it should be
// logged. The label is trimmed before comparison.
func (s *ProgressSampler) ShouldLog(label string) bool {
	if s == nil {
		return true
	}
	label = strings.TrimSpace(label)
	if label != s.lastLabel {
		s.lastLabel = label
		s.seen = 1
		return true
	}
	s.seen++
	return (s.seen-1)%s.every == 0
}

// Seen returns how many updates arrived under the current label.
func (s *ProgressSampler) Seen() int {
	if s == nil {
		return 0
	}
	return s.seen
}
