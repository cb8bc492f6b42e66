package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/zachstanford/wrapped-reimagined/internal/model"
)

// Artifact file names, matching the consolidated-log vocabulary the
// presentation layer reads.
const (
	SpotifyCleanFile   = "spotify_full_streaming_data_clean.json"
	AppleCleanFile     = "apple_music_full_streaming_data_clean.json"
	MappingSummaryFile = "apple_music_artist_mapping_summary.json"
	ConsolidatedFile   = "consolidated_full_streaming_data_clean.json"
	LifetimeStatsFile  = "lifetime_streaming_stats.json"
	AnnualRecapsFile   = "annual_recaps.json"
	ArtistSummaryFile  = "artist_summary.json"
)

// WriteArtifact serializes v as indented JSON into dir/name, creating the
// directory if needed.
func WriteArtifact(dir, name string, v interface{}) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadEvents loads a previously written clean or consolidated event log.
func ReadEvents(path string) ([]model.StreamEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var events []model.StreamEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return events, nil
}
