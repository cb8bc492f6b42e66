// Package filter decides which stream events represent genuine,
// attributable music listens. It is a pure predicate over single events:
// order-independent, side-effect-free, and it never errors, because the
// adapters already guarantee structural validity.
package filter

import (
	"time"

	"github.com/zachstanford/wrapped-reimagined/internal/model"
)

// MinEngagedSkipMs separates an intentional skip from a full play that the
// source captured with a stray "skipped" flag. Skips shorter than this are
// noise, not engagement.
const MinEngagedSkipMs = 30_000

// EarliestValidTime bounds plausible timestamps; streaming exports did not
// exist before this, so anything earlier is a data error.
var EarliestValidTime = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Filter holds the tunable drop thresholds.
type Filter struct {
	// MinSkipMs overrides MinEngagedSkipMs when > 0.
	MinSkipMs int64

	// Now is the processing-time upper bound for timestamps. Zero means
	// time.Now at each call.
	Now time.Time
}

// New returns a filter with the default thresholds.
func New() Filter {
	return Filter{MinSkipMs: MinEngagedSkipMs}
}

// Keep reports whether the event is a genuine music listen.
func (f Filter) Keep(e model.StreamEvent) bool {
	if e.NonMusic {
		return false
	}
	if e.Incognito {
		return false
	}

	minSkip := f.MinSkipMs
	if minSkip <= 0 {
		minSkip = MinEngagedSkipMs
	}
	if e.Skipped && e.MsPlayed < minSkip {
		return false
	}
	if e.MsPlayed <= 0 {
		return false
	}

	now := f.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	if e.Timestamp.IsZero() || e.Timestamp.Before(EarliestValidTime) || e.Timestamp.After(now) {
		return false
	}
	return true
}

// Apply runs the predicate over a batch and returns the kept events along
// with the number dropped. The kept slice is never nil, so it serializes
// as an empty array rather than null when everything is dropped.
func (f Filter) Apply(events []model.StreamEvent) (kept []model.StreamEvent, dropped int) {
	kept = []model.StreamEvent{}
	for _, e := range events {
		if f.Keep(e) {
			kept = append(kept, e)
		} else {
			dropped++
		}
	}
	return kept, dropped
}
