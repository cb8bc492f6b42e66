package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/zachstanford/wrapped-reimagined/internal/model"
	"github.com/zachstanford/wrapped-reimagined/internal/stats"
)

var pipelineNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

const spotifyExport = `[
	{
		"ts": "2023-04-15T16:30:00Z",
		"platform": "iOS 16.4 (iPhone14,5)",
		"ms_played": 215000,
		"conn_country": "US",
		"master_metadata_track_name": "Centuries",
		"master_metadata_album_artist_name": "Fall Out Boy",
		"master_metadata_album_album_name": "American Beauty/American Psycho",
		"spotify_track_uri": "spotify:track:1",
		"reason_start": "clickrow",
		"reason_end": "trackdone",
		"shuffle": false,
		"skipped": false,
		"offline": false,
		"incognito_mode": false
	},
	{
		"ts": "2023-04-16T10:00:00Z",
		"platform": "android",
		"ms_played": 180000,
		"conn_country": "US",
		"master_metadata_track_name": "Everlong",
		"master_metadata_album_artist_name": "Foo Fighters",
		"master_metadata_album_album_name": "The Colour and the Shape",
		"spotify_track_uri": "spotify:track:2",
		"reason_start": "trackdone",
		"reason_end": "trackdone",
		"shuffle": false,
		"skipped": false,
		"offline": false,
		"incognito_mode": false
	}
]`

const appleExport = "Track Description,Media type,Play Duration Milliseconds,Date Played,Hours,Source Type,Country,End Reason Type,Skip Count\n" +
	"fall out boy - Centuries,AUDIO,204000,20230417,16,IPHONE,United States,NATURAL_END_OF_TRACK,0\n" +
	"Foo Fighter - My Hero,AUDIO,190000,20230418,10,MACOS,United States,NATURAL_END_OF_TRACK,0\n"

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Writing fixture %s: %v", name, err)
	}
	return path
}

func testConfig(t *testing.T, spotifyFiles []string, appleFile string) Config {
	t.Helper()
	return Config{
		SpotifyFiles: spotifyFiles,
		AppleFile:    appleFile,
		OutputDir:    t.TempDir(),
		Now:          pipelineNow,
		Log:          zerolog.Nop(),
	}
}

func TestRun(t *testing.T) {
	inputDir := t.TempDir()
	spotifyPath := writeFixture(t, inputDir, "spotify.json", spotifyExport)
	applePath := writeFixture(t, inputDir, "apple.csv", appleExport)

	cfg := testConfig(t, []string{spotifyPath}, applePath)
	diag, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if diag.Spotify.Kept != 2 {
		t.Errorf("Expected 2 kept spotify events, got %d", diag.Spotify.Kept)
	}
	if diag.Apple.Kept != 2 {
		t.Errorf("Expected 2 kept apple events, got %d", diag.Apple.Kept)
	}
	if diag.Consolidated != 4 {
		t.Errorf("Expected 4 consolidated events, got %d", diag.Consolidated)
	}
	if diag.SpotifyOnly {
		t.Error("Run with an Apple export should not be Spotify-only")
	}

	// "fall out boy" resolves exactly, "Foo Fighter" fuzzily.
	if diag.Resolution.ExactCount != 1 || diag.Resolution.FuzzyCount != 1 {
		t.Errorf("Unexpected resolution counts: exact=%d fuzzy=%d",
			diag.Resolution.ExactCount, diag.Resolution.FuzzyCount)
	}

	for _, name := range []string{
		SpotifyCleanFile, AppleCleanFile, MappingSummaryFile,
		ConsolidatedFile, LifetimeStatsFile, AnnualRecapsFile, ArtistSummaryFile,
	} {
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, name)); err != nil {
			t.Errorf("Expected artifact %s: %v", name, err)
		}
	}

	consolidated, err := ReadEvents(filepath.Join(cfg.OutputDir, ConsolidatedFile))
	if err != nil {
		t.Fatalf("Reading consolidated log: %v", err)
	}
	if len(consolidated) != 4 {
		t.Fatalf("Expected 4 events in consolidated log, got %d", len(consolidated))
	}
	for i := 1; i < len(consolidated); i++ {
		if consolidated[i].Timestamp.Before(consolidated[i-1].Timestamp) {
			t.Fatalf("Consolidated log out of order at %d", i)
		}
	}

	// Apple names are rewritten to the Spotify spelling.
	for _, e := range consolidated {
		if e.ArtistName == "fall out boy" || e.ArtistName == "Foo Fighter" {
			t.Errorf("Artist %q should have been resolved", e.ArtistName)
		}
	}
}

func TestRun_mergesArtistAcrossProviders(t *testing.T) {
	// 50 Spotify plays of "Fall Out Boy" plus 10 Apple Music plays of
	// "fall out boy" must land in one artist summary entry with 60
	// streams, resolved by exact match alone.
	base := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	ms := int64(215000)
	track := "Centuries"
	artist := "Fall Out Boy"
	uri := "spotify:track:1"

	records := make([]model.SpotifyRecord, 50)
	for i := range records {
		records[i] = model.SpotifyRecord{
			Ts:              base.AddDate(0, 0, i).Format(time.RFC3339),
			Platform:        "ios",
			MsPlayed:        &ms,
			TrackName:       &track,
			ArtistName:      &artist,
			SpotifyTrackURI: &uri,
			ReasonEnd:       "trackdone",
		}
	}
	spotifyJSON, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("Marshaling spotify fixture: %v", err)
	}

	var apple strings.Builder
	apple.WriteString("Track Description,Media type,Play Duration Milliseconds,Date Played,Hours,Source Type,Country,End Reason Type,Skip Count\n")
	for day := 1; day <= 10; day++ {
		fmt.Fprintf(&apple, "fall out boy - Centuries,AUDIO,204000,202303%02d,16,IPHONE,United States,NATURAL_END_OF_TRACK,0\n", day)
	}

	inputDir := t.TempDir()
	spotifyPath := writeFixture(t, inputDir, "spotify.json", string(spotifyJSON))
	applePath := writeFixture(t, inputDir, "apple.csv", apple.String())

	cfg := testConfig(t, []string{spotifyPath}, applePath)
	diag, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if diag.Resolution.ExactCount != 1 || diag.Resolution.FuzzyCount != 0 {
		t.Errorf("Expected 1 exact and 0 fuzzy resolutions, got exact=%d fuzzy=%d",
			diag.Resolution.ExactCount, diag.Resolution.FuzzyCount)
	}

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, ArtistSummaryFile))
	if err != nil {
		t.Fatalf("Reading artist summary: %v", err)
	}
	var summary stats.ArtistSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("Decoding artist summary: %v", err)
	}

	if len(summary) != 1 {
		t.Fatalf("Expected one merged artist entry, got %d: %v", len(summary), summary)
	}
	fob, ok := summary["Fall Out Boy"]
	if !ok {
		t.Fatal("Expected the summary to be keyed by the Spotify spelling")
	}
	if fob.TotalStreams != 60 {
		t.Errorf("Expected 60 merged streams, got %d", fob.TotalStreams)
	}
	if fob.ProviderBreakdown[string(model.Spotify)] != 50 ||
		fob.ProviderBreakdown[string(model.AppleMusic)] != 10 {
		t.Errorf("Unexpected provider breakdown: %v", fob.ProviderBreakdown)
	}
}

func TestRun_spotifyOnly(t *testing.T) {
	inputDir := t.TempDir()
	spotifyPath := writeFixture(t, inputDir, "spotify.json", spotifyExport)

	cfg := testConfig(t, []string{spotifyPath}, "")
	diag, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !diag.SpotifyOnly {
		t.Error("Run without an Apple export should be Spotify-only")
	}
	if diag.Consolidated != 2 {
		t.Errorf("Expected 2 consolidated events, got %d", diag.Consolidated)
	}

	if _, err := os.Stat(filepath.Join(cfg.OutputDir, AppleCleanFile)); !os.IsNotExist(err) {
		t.Error("Spotify-only run should not write an Apple Music artifact")
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, ConsolidatedFile)); err != nil {
		t.Errorf("Expected consolidated artifact: %v", err)
	}
}

func TestRun_noSpotifyInput(t *testing.T) {
	cfg := testConfig(t, nil, "")
	if _, err := Run(cfg); err != ErrNoSpotifyInput {
		t.Fatalf("Expected ErrNoSpotifyInput, got %v", err)
	}
}

func TestRun_missingSpotifyFile(t *testing.T) {
	cfg := testConfig(t, []string{filepath.Join(t.TempDir(), "nope.json")}, "")
	if _, err := Run(cfg); err == nil {
		t.Fatal("Expected error for missing spotify file")
	}
	// Nothing may be written on a fatal failure.
	entries, err := os.ReadDir(cfg.OutputDir)
	if err != nil {
		t.Fatalf("Reading output dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Fatal run should write no artifacts, found %d", len(entries))
	}
}

func TestProcessSpotify_dropsJunk(t *testing.T) {
	const export = `[
		{
			"ts": "2023-04-15T16:30:00Z",
			"platform": "ios",
			"ms_played": 215000,
			"master_metadata_track_name": "Centuries",
			"master_metadata_album_artist_name": "Fall Out Boy",
			"spotify_track_uri": "spotify:track:1",
			"reason_end": "trackdone"
		},
		{
			"ts": "2023-04-15T17:00:00Z",
			"platform": "ios",
			"ms_played": 120000,
			"episode_name": "Episode 1",
			"episode_show_name": "Some Podcast",
			"spotify_episode_uri": "spotify:episode:1",
			"reason_end": "endplay"
		}
	]`
	inputDir := t.TempDir()
	path := writeFixture(t, inputDir, "spotify.json", export)

	cfg := testConfig(t, []string{path}, "")
	events, counts, err := ProcessSpotify(cfg)
	if err != nil {
		t.Fatalf("ProcessSpotify: %v", err)
	}
	if counts.Parsed != 2 {
		t.Errorf("Expected 2 parsed records, got %d", counts.Parsed)
	}
	if counts.Dropped != 1 || len(events) != 1 {
		t.Errorf("Podcast should be dropped: dropped=%d kept=%d", counts.Dropped, len(events))
	}
	if events[0].TrackName != "Centuries" {
		t.Errorf("Expected Centuries to survive, got %q", events[0].TrackName)
	}
}

func TestArtistNames(t *testing.T) {
	events := []model.StreamEvent{
		{ArtistName: "B"},
		{ArtistName: "A"},
		{ArtistName: "B"},
		{ArtistName: ""},
	}
	names := ArtistNames(events)
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Errorf("Expected sorted distinct names [A B], got %v", names)
	}
}

func TestWriteAndReadEvents(t *testing.T) {
	dir := t.TempDir()
	events := []model.StreamEvent{
		{
			Timestamp:  pipelineNow,
			ArtistName: "Foo Fighters",
			TrackName:  "Everlong",
			MsPlayed:   180000,
			Provider:   model.Spotify,
		},
	}

	if err := WriteArtifact(dir, "events.json", events); err != nil {
		t.Fatalf("WriteArtifact: %v", err)
	}
	loaded, err := ReadEvents(filepath.Join(dir, "events.json"))
	if err != nil {
		t.Fatalf("ReadEvents: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ArtistName != "Foo Fighters" {
		t.Errorf("Round trip mismatch: %+v", loaded)
	}
	if !loaded[0].Timestamp.Equal(pipelineNow) {
		t.Errorf("Expected timestamp %v, got %v", pipelineNow, loaded[0].Timestamp)
	}
}
