// Package stats derives the three precomputed analytical views from the
// canonical event log: lifetime, annual, and per-artist. Each generator is
// a side-effect-free reduction over the same immutable log; they share no
// state and may run in any order.
package stats

import (
	"sort"
	"time"
)

const (
	msPerSecond = 1000.0
	msPerMinute = 60_000.0
	msPerHour   = 3_600_000.0
)

// Year-keyed views ignore years outside this window; the canonical log is
// already bounded to 2000..now, this trims likely data errors from the
// per-year groupings.
const earliestRecapYear = 2008

// topListSize is how many entries the ranked top lists carry.
const topListSize = 50

// RankedEntry is one row of a ranked top list.
type RankedEntry struct {
	Name  string `json:"name"`
	Plays int    `json:"plays"`
}

// PeriodStat accumulates plays and listening time for one time bucket.
type PeriodStat struct {
	Plays    int   `json:"plays"`
	MsPlayed int64 `json:"ms_played"`
}

// tally counts plays per name and remembers when each name was first
// played, so ranked lists can break play-count ties by seniority.
type tally struct {
	counts map[string]int
	first  map[string]time.Time
}

func newTally() *tally {
	return &tally{counts: make(map[string]int), first: make(map[string]time.Time)}
}

func (t *tally) add(name string, ts time.Time) {
	if name == "" {
		return
	}
	t.counts[name]++
	if seen, ok := t.first[name]; !ok || ts.Before(seen) {
		t.first[name] = ts
	}
}

func (t *tally) len() int {
	return len(t.counts)
}

// top returns the n highest-play names. Ties are broken by earlier
// first-played timestamp, then name, keeping the output deterministic.
func (t *tally) top(n int) []RankedEntry {
	names := make([]string, 0, len(t.counts))
	for name := range t.counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := names[i], names[j]
		if t.counts[a] != t.counts[b] {
			return t.counts[a] > t.counts[b]
		}
		if !t.first[a].Equal(t.first[b]) {
			return t.first[a].Before(t.first[b])
		}
		return a < b
	})
	if n > 0 && len(names) > n {
		names = names[:n]
	}
	entries := make([]RankedEntry, len(names))
	for i, name := range names {
		entries[i] = RankedEntry{Name: name, Plays: t.counts[name]}
	}
	return entries
}

// maxKey returns the highest-count key of a counter, key ascending on
// ties. Empty counters yield "".
func maxKey(counts map[string]int) string {
	best, bestCount := "", -1
	for key, count := range counts {
		if count > bestCount || (count == bestCount && key < best) {
			best, bestCount = key, count
		}
	}
	return best
}

func season(month time.Month) string {
	switch month {
	case time.December, time.January, time.February:
		return "Winter"
	case time.March, time.April, time.May:
		return "Spring"
	case time.June, time.July, time.August:
		return "Summer"
	default:
		return "Fall"
	}
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func ratio(num float64, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// recapYear reports whether a year is inside the window the year-keyed
// views cover.
func recapYear(year int, now time.Time) bool {
	return year >= earliestRecapYear && year <= now.Year()
}

func isoOrEmpty(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
