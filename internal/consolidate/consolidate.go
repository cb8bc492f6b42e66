// Package consolidate merges the filtered, identity-resolved event streams
// from both providers into the single canonical, time-ascending log.
package consolidate

import (
	"sort"

	"github.com/zachstanford/wrapped-reimagined/internal/model"
)

// Merge combines both provider streams into one time-ordered log. The
// merge is deterministic: timestamp ties keep input order, Spotify before
// Apple Music. Either input may be empty; an absent Apple Music stream is
// the supported Spotify-only mode, not an error.
func Merge(spotify, apple []model.StreamEvent) []model.StreamEvent {
	merged := make([]model.StreamEvent, 0, len(spotify)+len(apple))
	merged = append(merged, spotify...)
	merged = append(merged, apple...)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.Before(merged[j].Timestamp)
	})
	return merged
}
