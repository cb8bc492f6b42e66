package resolver

import (
	"sort"

	"github.com/zachstanford/wrapped-reimagined/internal/model"
)

// Entry is one mapping in the diagnostic summary.
type Entry struct {
	OriginalArtist string  `json:"original_artist"`
	ResolvedArtist string  `json:"resolved_artist"`
	Score          float64 `json:"similarity_score"`
	Method         Method  `json:"method"`
	PlayCount      int     `json:"play_count"`
}

// Summary is the observability artifact describing how the run's mapping
// resolved, independent of the main event stream.
type Summary struct {
	ExactCount     int     `json:"exact_count"`
	FuzzyCount     int     `json:"fuzzy_count"`
	UnmatchedCount int     `json:"unmatched_count"`
	Mappings       []Entry `json:"mappings"`

	// UnmatchedHighVolume lists unmatched names that were inside the
	// fuzzy cutoff, i.e. names worth a manual look.
	UnmatchedHighVolume []string `json:"unmatched_high_volume"`
}

// Summarize collapses a mapping plus per-name play counts into the
// diagnostic summary, ordered by play count descending.
func Summarize(mapping Mapping, playCounts map[string]int, topN int) Summary {
	if topN <= 0 {
		topN = DefaultTopN
	}

	var summary Summary
	for name, match := range mapping {
		summary.Mappings = append(summary.Mappings, Entry{
			OriginalArtist: name,
			ResolvedArtist: match.Resolved,
			Score:          match.Score,
			Method:         match.Method,
			PlayCount:      playCounts[name],
		})
		switch match.Method {
		case MethodExact:
			summary.ExactCount++
		case MethodFuzzy:
			summary.FuzzyCount++
		default:
			summary.UnmatchedCount++
		}
	}

	sort.Slice(summary.Mappings, func(i, j int) bool {
		if summary.Mappings[i].PlayCount != summary.Mappings[j].PlayCount {
			return summary.Mappings[i].PlayCount > summary.Mappings[j].PlayCount
		}
		return summary.Mappings[i].OriginalArtist < summary.Mappings[j].OriginalArtist
	})

	for i, entry := range summary.Mappings {
		if i >= topN {
			break
		}
		if entry.Method == MethodUnmatched {
			summary.UnmatchedHighVolume = append(summary.UnmatchedHighVolume, entry.OriginalArtist)
		}
	}
	return summary
}

// PlayCounts tallies plays per distinct artist name.
func PlayCounts(events []model.StreamEvent) map[string]int {
	counts := make(map[string]int)
	for _, e := range events {
		if e.ArtistName != "" {
			counts[e.ArtistName]++
		}
	}
	return counts
}
