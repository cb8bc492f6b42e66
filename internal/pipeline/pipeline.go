// Package pipeline orchestrates the batch run: provider adapters, quality
// filter, artist resolution, consolidation, and the three analytical
// views, then writes the JSON artifacts. Every stage result is computed
// before anything is written, so a fatal failure leaves no partial output.
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/zachstanford/wrapped-reimagined/internal/adapter"
	"github.com/zachstanford/wrapped-reimagined/internal/consolidate"
	"github.com/zachstanford/wrapped-reimagined/internal/filter"
	"github.com/zachstanford/wrapped-reimagined/internal/model"
	"github.com/zachstanford/wrapped-reimagined/internal/resolver"
	"github.com/zachstanford/wrapped-reimagined/internal/stats"
)

// ErrNoSpotifyInput is returned when a run has no Spotify export to
// process. Spotify is the reference namespace, so there is nothing to
// resolve or consolidate without it.
var ErrNoSpotifyInput = errors.New("no spotify export files given")

// Config carries everything a run needs.
type Config struct {
	SpotifyFiles []string
	AppleFile    string
	OutputDir    string

	FuzzyThreshold float64
	FuzzyTopN      int
	MinSkipMs      int64

	// Now anchors timestamp validation and the year guards. Zero means
	// time.Now.
	Now time.Time

	Log zerolog.Logger
}

func (c Config) now() time.Time {
	if c.Now.IsZero() {
		return time.Now().UTC()
	}
	return c.Now
}

func (c Config) filter() filter.Filter {
	return filter.Filter{MinSkipMs: c.MinSkipMs, Now: c.Now}
}

// StageCounts reports what one adapter+filter stage did with its input.
type StageCounts struct {
	Parsed  int `json:"parsed"`
	Failed  int `json:"failed"`
	Dropped int `json:"dropped"`
	Kept    int `json:"kept"`
}

// Diagnostics summarizes a full run for the CLI's closing report.
type Diagnostics struct {
	Spotify      StageCounts      `json:"spotify"`
	Apple        StageCounts      `json:"apple"`
	SpotifyOnly  bool             `json:"spotify_only"`
	Consolidated int              `json:"consolidated"`
	Resolution   resolver.Summary `json:"resolution"`
}

// ProcessSpotify reads, parses, and quality-filters all configured Spotify
// export files into one clean, time-ordered stream.
func ProcessSpotify(cfg Config) ([]model.StreamEvent, StageCounts, error) {
	if len(cfg.SpotifyFiles) == 0 {
		return nil, StageCounts{}, ErrNoSpotifyInput
	}

	var counts StageCounts
	var events []model.StreamEvent
	for _, path := range cfg.SpotifyFiles {
		f, err := os.Open(path)
		if err != nil {
			return nil, StageCounts{}, fmt.Errorf("opening spotify export: %w", err)
		}
		result, err := adapter.ReadSpotify(f)
		f.Close()
		if err != nil {
			return nil, StageCounts{}, fmt.Errorf("reading spotify export %s: %w", path, err)
		}
		counts.Parsed += result.Parsed
		counts.Failed += result.Failed
		events = append(events, result.Events...)
		cfg.Log.Debug().Str("file", path).Int("parsed", result.Parsed).
			Int("failed", result.Failed).Msg("parsed spotify export")
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	kept, dropped := cfg.filter().Apply(events)
	counts.Dropped = dropped
	counts.Kept = len(kept)
	cfg.Log.Info().Int("parsed", counts.Parsed).Int("failed", counts.Failed).
		Int("dropped", dropped).Int("kept", counts.Kept).Msg("spotify stage complete")
	return kept, counts, nil
}

// ProcessApple reads, parses, and quality-filters the Apple Music export,
// then resolves its artist names against the given Spotify namespace.
func ProcessApple(cfg Config, spotifyArtists []string) ([]model.StreamEvent, StageCounts, resolver.Summary, error) {
	f, err := os.Open(cfg.AppleFile)
	if err != nil {
		return nil, StageCounts{}, resolver.Summary{}, fmt.Errorf("opening apple music export: %w", err)
	}
	defer f.Close()

	result, err := adapter.ReadAppleMusic(f)
	if err != nil {
		return nil, StageCounts{}, resolver.Summary{}, fmt.Errorf("reading apple music export %s: %w", cfg.AppleFile, err)
	}
	counts := StageCounts{Parsed: result.Parsed, Failed: result.Failed}

	kept, dropped := cfg.filter().Apply(result.Events)
	counts.Dropped = dropped
	counts.Kept = len(kept)

	res := resolver.Resolver{
		Threshold: cfg.FuzzyThreshold,
		TopN:      cfg.FuzzyTopN,
	}
	mapping := res.BuildMapping(spotifyArtists, kept)
	summary := resolver.Summarize(mapping, resolver.PlayCounts(kept), cfg.FuzzyTopN)
	resolved := res.Apply(kept, mapping)

	cfg.Log.Info().Int("parsed", counts.Parsed).Int("failed", counts.Failed).
		Int("dropped", dropped).Int("kept", counts.Kept).
		Int("exact", summary.ExactCount).Int("fuzzy", summary.FuzzyCount).
		Int("unmatched", summary.UnmatchedCount).Msg("apple music stage complete")
	return resolved, counts, summary, nil
}

// Insights holds the three analytical views over one canonical log.
type Insights struct {
	Lifetime *stats.LifetimeStats
	Annual   stats.AnnualRecap
	Artists  stats.ArtistSummary
}

// GenerateInsights derives all three views from the consolidated log.
func GenerateInsights(events []model.StreamEvent, now time.Time) Insights {
	return Insights{
		Lifetime: stats.GenerateLifetime(events, now),
		Annual:   stats.GenerateAnnual(events, now),
		Artists:  stats.GenerateArtistSummary(events, now),
	}
}

// WriteInsights serializes the three views into the output directory.
func WriteInsights(dir string, in Insights) error {
	if err := WriteArtifact(dir, LifetimeStatsFile, in.Lifetime); err != nil {
		return err
	}
	if err := WriteArtifact(dir, AnnualRecapsFile, in.Annual); err != nil {
		return err
	}
	return WriteArtifact(dir, ArtistSummaryFile, in.Artists)
}

// Run executes the full pipeline: both providers, resolution,
// consolidation, and insight generation, writing every artifact at the
// end. A missing Apple Music export degrades to Spotify-only mode; a
// missing Spotify export is fatal.
func Run(cfg Config) (*Diagnostics, error) {
	diag := &Diagnostics{}

	spotifyEvents, spotifyCounts, err := ProcessSpotify(cfg)
	if err != nil {
		return nil, err
	}
	diag.Spotify = spotifyCounts

	var appleEvents []model.StreamEvent
	if cfg.AppleFile == "" {
		diag.SpotifyOnly = true
		cfg.Log.Warn().Msg("no apple music export given, running in spotify-only mode")
	} else {
		appleEvents, diag.Apple, diag.Resolution, err = ProcessApple(cfg, ArtistNames(spotifyEvents))
		if err != nil {
			return nil, err
		}
	}

	consolidated := consolidate.Merge(spotifyEvents, appleEvents)
	diag.Consolidated = len(consolidated)

	insights := GenerateInsights(consolidated, cfg.now())

	if err := WriteArtifact(cfg.OutputDir, SpotifyCleanFile, spotifyEvents); err != nil {
		return nil, err
	}
	if !diag.SpotifyOnly {
		if err := WriteArtifact(cfg.OutputDir, AppleCleanFile, appleEvents); err != nil {
			return nil, err
		}
		if err := WriteArtifact(cfg.OutputDir, MappingSummaryFile, diag.Resolution); err != nil {
			return nil, err
		}
	}
	if err := WriteArtifact(cfg.OutputDir, ConsolidatedFile, consolidated); err != nil {
		return nil, err
	}
	if err := WriteInsights(cfg.OutputDir, insights); err != nil {
		return nil, err
	}

	cfg.Log.Info().Int("events", diag.Consolidated).Str("output", cfg.OutputDir).
		Msg("pipeline complete")
	return diag, nil
}

// ArtistNames returns the distinct artist names in the stream, sorted.
func ArtistNames(events []model.StreamEvent) []string {
	seen := make(map[string]struct{})
	for _, e := range events {
		if e.ArtistName != "" {
			seen[e.ArtistName] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
