package adapter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/zachstanford/wrapped-reimagined/internal/model"
)

// Column headers of the Apple Music "Play History Daily Tracks" export.
const (
	colTrackDescription = "Track Description"
	colMediaType        = "Media type"
	colPlayDuration     = "Play Duration Milliseconds"
	colDatePlayed       = "Date Played"
	colHours            = "Hours"
	colSourceType       = "Source Type"
	colCountry          = "Country"
	colEndReason        = "End Reason Type"
	colSkipCount        = "Skip Count"
)

// ReadAppleMusic parses the Apple Music play history CSV and converts each
// row. A missing header is fatal (the file is not the expected export);
// a malformed row is a per-record failure.
func ReadAppleMusic(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("reading csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	if _, ok := index[colTrackDescription]; !ok {
		return Result{}, fmt.Errorf("csv is missing the %q column", colTrackDescription)
	}

	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var result Result
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Failed++
			continue
		}

		event, err := appleMusicEvent(model.AppleMusicRow{
			TrackDescription: field(row, colTrackDescription),
			MediaType:        field(row, colMediaType),
			PlayDurationMs:   field(row, colPlayDuration),
			DatePlayed:       field(row, colDatePlayed),
			Hours:            field(row, colHours),
			SourceType:       field(row, colSourceType),
			Country:          field(row, colCountry),
			EndReasonType:    field(row, colEndReason),
			SkipCount:        field(row, colSkipCount),
		})
		if err != nil {
			result.Failed++
			continue
		}
		result.Parsed++
		result.Events = append(result.Events, event)
	}

	sort.SliceStable(result.Events, func(i, j int) bool {
		return result.Events[i].Timestamp.Before(result.Events[j].Timestamp)
	})
	return result, nil
}

func appleMusicEvent(row model.AppleMusicRow) (model.StreamEvent, error) {
	artist, track, err := splitTrackDescription(row.TrackDescription)
	if err != nil {
		return model.StreamEvent{}, err
	}

	msPlayed, err := strconv.ParseInt(row.PlayDurationMs, 10, 64)
	if err != nil {
		return model.StreamEvent{}, fmt.Errorf("parsing play duration %q: %w", row.PlayDurationMs, err)
	}

	ts, err := appleMusicTimestamp(row.DatePlayed, row.Hours)
	if err != nil {
		return model.StreamEvent{}, err
	}

	skipCount := 0
	if row.SkipCount != "" {
		// A garbled skip count is not worth losing the play over.
		skipCount, _ = strconv.Atoi(row.SkipCount)
	}

	return model.StreamEvent{
		Timestamp:  ts,
		Platform:   applePlatform(row.SourceType),
		MsPlayed:   msPlayed,
		Country:    appleCountry(row.Country),
		TrackName:  track,
		ArtistName: artist,
		ReasonEnd:  appleEndReason(row.EndReasonType),
		Skipped:    skipCount > 0,
		// The export has no shuffle, offline, or incognito signals.
		Incognito: false,
		Provider:  model.AppleMusic,
		NonMusic:  row.MediaType != "AUDIO",
	}, nil
}

// splitTrackDescription splits the combined "Artist - Song Title" field on
// the first " - ". Rows without an attributable artist are parse failures:
// the canonical log guarantees a non-empty artist name.
func splitTrackDescription(description string) (artist, track string, err error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", "", fmt.Errorf("empty track description")
	}
	if isAllDigits(description) {
		return "", "", fmt.Errorf("track description %q is not a track", description)
	}

	artist, track, found := strings.Cut(description, " - ")
	if !found {
		return "", "", fmt.Errorf("track description %q has no artist delimiter", description)
	}
	artist = strings.TrimSpace(artist)
	track = strings.TrimSpace(track)
	if artist == "" || track == "" {
		return "", "", fmt.Errorf("track description %q is incomplete", description)
	}
	return artist, track, nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// appleMusicTimestamp combines the YYYYMMDD date and the hour-of-day
// column into a UTC instant. The hours column can hold several values
// ("16, 18"); the first one wins, like the original export tooling.
func appleMusicTimestamp(datePlayed, hours string) (time.Time, error) {
	if len(datePlayed) != 8 {
		return time.Time{}, fmt.Errorf("parsing date played %q", datePlayed)
	}
	day, err := time.Parse("20060102", datePlayed)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date played %q: %w", datePlayed, err)
	}

	hourStr, _, _ := strings.Cut(hours, ",")
	hour, err := strconv.Atoi(strings.TrimSpace(hourStr))
	if err != nil || hour < 0 || hour > 23 {
		hour = 0
	}
	return day.Add(time.Duration(hour) * time.Hour), nil
}

func applePlatform(sourceType string) string {
	switch sourceType {
	case "IPHONE", "IPAD":
		return "iOS"
	case "MACOS":
		return "macOS"
	case "ITUNES":
		return "Windows"
	case "APPLE_TV":
		return "tvOS"
	case "APPLE_WATCH":
		return "Watch"
	default:
		return sourceType
	}
}

func appleEndReason(endReason string) string {
	switch endReason {
	case "NATURAL_END_OF_TRACK":
		return model.ReasonTrackDone
	case "MANUALLY_SELECTED_PLAYBACK_OF_A_DIFF_ITEM", "SCRUBBING_BEGIN":
		return "fwdbtn"
	case "PLAYBACK_MANUALLY_PAUSED", "SCRUBBING_END":
		return "endplay"
	default:
		return "unknown"
	}
}

var appleCountryCodes = map[string]string{
	"United States":  "US",
	"Canada":         "CA",
	"United Kingdom": "GB",
	"Australia":      "AU",
	"Germany":        "DE",
	"France":         "FR",
	"Japan":          "JP",
	"Brazil":         "BR",
	"Mexico":         "MX",
	"Italy":          "IT",
	"Spain":          "ES",
	"Netherlands":    "NL",
	"Sweden":         "SE",
	"Norway":         "NO",
	"Denmark":        "DK",
	"Finland":        "FI",
}

func appleCountry(country string) string {
	if code, ok := appleCountryCodes[country]; ok {
		return code
	}
	return country
}
