// Package resolver reconciles Apple Music artist names against the Spotify
// namespace. Spotify is the reference vocabulary: free-text Apple names
// that diverge in casing, punctuation, or feature-artist formatting are
// rewritten to the canonical Spotify spelling when a confident match
// exists, and kept verbatim otherwise.
package resolver

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/zachstanford/wrapped-reimagined/internal/model"
)

const (
	// DefaultThreshold is the minimum similarity ratio for accepting a
	// fuzzy match.
	DefaultThreshold = 0.8

	// DefaultTopN bounds expensive similarity scoring to the
	// highest-volume unmatched names. A correct match for an artist
	// played twice is worth far less than one played hundreds of times.
	DefaultTopN = 50
)

// Method records how an Apple Music name was resolved.
type Method string

const (
	MethodExact     Method = "exact"
	MethodFuzzy     Method = "fuzzy"
	MethodUnmatched Method = "unmatched"
)

// Match is the resolution outcome for one distinct Apple Music name.
type Match struct {
	Resolved string  `json:"resolved_artist"`
	Score    float64 `json:"similarity_score"`
	Method   Method  `json:"method"`
}

// Scorer computes a similarity ratio in [0, 1] between two artist names.
type Scorer func(a, b string) float64

// Resolver builds and applies artist name mappings.
type Resolver struct {
	Threshold float64
	TopN      int
	Score     Scorer
}

// New returns a resolver with the default threshold, cutoff, and the
// sequence-ratio scorer.
func New() *Resolver {
	return &Resolver{
		Threshold: DefaultThreshold,
		TopN:      DefaultTopN,
		Score:     SequenceRatio,
	}
}

// SequenceRatio is the default scorer: the SequenceMatcher similarity
// ratio over lowercased characters.
func SequenceRatio(a, b string) float64 {
	m := difflib.NewMatcher(
		strings.Split(strings.ToLower(a), ""),
		strings.Split(strings.ToLower(b), ""),
	)
	return m.Ratio()
}

// normalizeName lowercases and collapses whitespace for exact lookup.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Mapping holds the resolution for every distinct Apple Music artist name
// seen in a run.
type Mapping map[string]Match

// BuildMapping resolves each distinct Apple Music artist name against the
// Spotify artist set. Exact (case-insensitive, whitespace-normalized)
// lookup applies to every name; similarity scoring only to the TopN names
// by play count. Names below the cutoff keep their literal spelling.
func (r *Resolver) BuildMapping(spotifyArtists []string, appleEvents []model.StreamEvent) Mapping {
	// Normalized name -> canonical Spotify spelling. Sorted insertion
	// keeps the winner deterministic if two spellings normalize alike.
	distinct := append([]string(nil), spotifyArtists...)
	sort.Strings(distinct)
	index := make(map[string]string, len(distinct))
	for _, name := range distinct {
		key := normalizeName(name)
		if _, ok := index[key]; !ok {
			index[key] = name
		}
	}

	mapping := make(Mapping)
	var fuzzyCandidates []string
	for _, name := range rankByPlayCount(appleEvents) {
		if canonical, ok := index[normalizeName(name)]; ok {
			mapping[name] = Match{Resolved: canonical, Score: 1.0, Method: MethodExact}
			continue
		}
		if len(fuzzyCandidates) < r.topN() {
			fuzzyCandidates = append(fuzzyCandidates, name)
			continue
		}
		mapping[name] = Match{Resolved: name, Method: MethodUnmatched}
	}

	for _, name := range fuzzyCandidates {
		best, score := r.bestMatch(name, distinct)
		if score >= r.threshold() {
			mapping[name] = Match{Resolved: best, Score: score, Method: MethodFuzzy}
		} else {
			mapping[name] = Match{Resolved: name, Score: score, Method: MethodUnmatched}
		}
	}
	return mapping
}

func (r *Resolver) bestMatch(name string, spotifyArtists []string) (string, float64) {
	best, bestScore := name, 0.0
	for _, candidate := range spotifyArtists {
		if score := r.score(name, candidate); score > bestScore {
			best, bestScore = candidate, score
		}
	}
	return best, bestScore
}

// Apply rewrites artist names on a copy of the events according to the
// mapping. Names absent from the mapping pass through untouched.
func (r *Resolver) Apply(events []model.StreamEvent, mapping Mapping) []model.StreamEvent {
	resolved := make([]model.StreamEvent, len(events))
	for i, e := range events {
		if match, ok := mapping[e.ArtistName]; ok && match.Resolved != "" {
			e.ArtistName = match.Resolved
		}
		resolved[i] = e
	}
	return resolved
}

// rankByPlayCount returns the distinct artist names ordered by descending
// play count, name ascending on ties.
func rankByPlayCount(events []model.StreamEvent) []string {
	counts := make(map[string]int)
	for _, e := range events {
		if e.ArtistName != "" {
			counts[e.ArtistName]++
		}
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

func (r *Resolver) threshold() float64 {
	if r.Threshold <= 0 {
		return DefaultThreshold
	}
	return r.Threshold
}

func (r *Resolver) topN() int {
	if r.TopN <= 0 {
		return DefaultTopN
	}
	return r.TopN
}

func (r *Resolver) score(a, b string) float64 {
	if r.Score == nil {
		return SequenceRatio(a, b)
	}
	return r.Score(a, b)
}
