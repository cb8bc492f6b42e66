package stats

import (
	"strconv"
	"time"

	"github.com/zachstanford/wrapped-reimagined/internal/model"
)

// ArtistSummary maps a canonical artist name to their summary.
type ArtistSummary map[string]ArtistStats

// ArtistStats holds one artist's lifetime totals plus a per-year
// breakdown.
type ArtistStats struct {
	TotalStreams             int                        `json:"total_streams"`
	TotalMinutes             float64                    `json:"total_minutes"`
	TotalHours               float64                    `json:"total_hours"`
	UniqueTracks             int                        `json:"unique_tracks"`
	UniqueAlbums             int                        `json:"unique_albums"`
	YearsActive              int                        `json:"years_active"`
	DaysActive               int                        `json:"days_active"`
	FirstPlayed              string                     `json:"first_played,omitempty"`
	LastPlayed               string                     `json:"last_played,omitempty"`
	AvgTrackLengthMinutes    float64                    `json:"avg_track_length_minutes"`
	AvgStreamsPerYear        float64                    `json:"avg_streams_per_year"`
	AvgMinutesPerYear        float64                    `json:"avg_minutes_per_year"`
	AvgStreamsPerDay         float64                    `json:"avg_streams_per_day"`
	AvgMinutesPerDay         float64                    `json:"avg_minutes_per_day"`
	SkipRatePercentage       float64                    `json:"skip_rate_percentage"`
	CompletionRatePercentage float64                    `json:"completion_rate_percentage"`
	OfflinePercentage        float64                    `json:"offline_percentage"`
	ShufflePercentage        float64                    `json:"shuffle_percentage"`
	PeakYear                 string                     `json:"peak_year,omitempty"`
	PeakYearStreams          int                        `json:"peak_year_streams"`
	TopTracks                []RankedEntry              `json:"top_tracks"`
	TopAlbums                []RankedEntry              `json:"top_albums"`
	TopPlatform              string                     `json:"top_platform,omitempty"`
	TopProvider              string                     `json:"top_provider,omitempty"`
	CountriesStreamedFrom    int                        `json:"countries_streamed_from"`
	TopCountries             []RankedEntry              `json:"top_countries"`
	PlatformBreakdown        map[string]int             `json:"platform_breakdown"`
	ProviderBreakdown        map[string]int             `json:"provider_breakdown"`
	YearlyBreakdown          map[string]ArtistYearStats `json:"yearly_breakdown"`
}

// ArtistYearStats is one artist's activity within one calendar year.
type ArtistYearStats struct {
	Streams                  int            `json:"streams"`
	Minutes                  float64        `json:"minutes"`
	Hours                    float64        `json:"hours"`
	UniqueTracks             int            `json:"unique_tracks"`
	UniqueAlbums             int            `json:"unique_albums"`
	TopPlatform              string         `json:"top_platform,omitempty"`
	TopProvider              string         `json:"top_provider,omitempty"`
	SkipRatePercentage       float64        `json:"skip_rate_percentage"`
	CompletionRatePercentage float64        `json:"completion_rate_percentage"`
	FirstPlay                string         `json:"first_play,omitempty"`
	LastPlay                 string         `json:"last_play,omitempty"`
	PlatformBreakdown        map[string]int `json:"platform_breakdown"`
	ProviderBreakdown        map[string]int `json:"provider_breakdown"`
}

type artistAccumulator struct {
	streams int
	totalMs int64

	tracks, albums, countries *tally

	platforms, providers map[string]int

	skips, completions, offline, shuffle int

	years map[string]*artistYearAccumulator
	days  map[string]struct{}

	firstPlayed, lastPlayed time.Time
}

type artistYearAccumulator struct {
	streams int
	totalMs int64

	tracks map[string]struct{}
	albums map[string]struct{}

	platforms, providers map[string]int

	skips, completions int

	firstPlay, lastPlay time.Time
}

// GenerateArtistSummary groups the canonical log by resolved artist name
// and computes per-artist lifetime totals with nested per-year breakdowns.
// The same 2008..now year guard as the annual view applies.
func GenerateArtistSummary(events []model.StreamEvent, now time.Time) ArtistSummary {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	artists := map[string]*artistAccumulator{}
	for _, e := range events {
		if e.ArtistName == "" || e.Timestamp.IsZero() || !recapYear(e.Timestamp.Year(), now) {
			continue
		}

		acc, ok := artists[e.ArtistName]
		if !ok {
			acc = &artistAccumulator{
				tracks:    newTally(),
				albums:    newTally(),
				countries: newTally(),
				platforms: map[string]int{},
				providers: map[string]int{},
				years:     map[string]*artistYearAccumulator{},
				days:      map[string]struct{}{},
			}
			artists[e.ArtistName] = acc
		}
		acc.observe(e)
	}

	summary := make(ArtistSummary, len(artists))
	for name, acc := range artists {
		summary[name] = acc.stats()
	}
	return summary
}

func (a *artistAccumulator) observe(e model.StreamEvent) {
	a.streams++
	a.totalMs += e.MsPlayed

	a.tracks.add(e.TrackName, e.Timestamp)
	a.albums.add(e.AlbumName, e.Timestamp)
	if e.Country != "" {
		a.countries.add(e.Country, e.Timestamp)
	}

	a.platforms[model.PlatformFamily(e.Platform)]++
	a.providers[string(e.Provider)]++

	if e.Skipped {
		a.skips++
	}
	if e.ReasonEnd == model.ReasonTrackDone {
		a.completions++
	}
	if e.Offline != nil && *e.Offline {
		a.offline++
	}
	if e.Shuffle != nil && *e.Shuffle {
		a.shuffle++
	}

	a.days[e.Timestamp.Format("2006-01-02")] = struct{}{}
	if a.firstPlayed.IsZero() || e.Timestamp.Before(a.firstPlayed) {
		a.firstPlayed = e.Timestamp
	}
	if a.lastPlayed.IsZero() || e.Timestamp.After(a.lastPlayed) {
		a.lastPlayed = e.Timestamp
	}

	yearKey := strconv.Itoa(e.Timestamp.Year())
	year, ok := a.years[yearKey]
	if !ok {
		year = &artistYearAccumulator{
			tracks:    map[string]struct{}{},
			albums:    map[string]struct{}{},
			platforms: map[string]int{},
			providers: map[string]int{},
		}
		a.years[yearKey] = year
	}
	year.observe(e)
}

func (y *artistYearAccumulator) observe(e model.StreamEvent) {
	y.streams++
	y.totalMs += e.MsPlayed

	if e.TrackName != "" {
		y.tracks[e.TrackName] = struct{}{}
	}
	if e.AlbumName != "" {
		y.albums[e.AlbumName] = struct{}{}
	}
	y.platforms[model.PlatformFamily(e.Platform)]++
	y.providers[string(e.Provider)]++

	if e.Skipped {
		y.skips++
	}
	if e.ReasonEnd == model.ReasonTrackDone {
		y.completions++
	}

	if y.firstPlay.IsZero() || e.Timestamp.Before(y.firstPlay) {
		y.firstPlay = e.Timestamp
	}
	if y.lastPlay.IsZero() || e.Timestamp.After(y.lastPlay) {
		y.lastPlay = e.Timestamp
	}
}

func (a *artistAccumulator) stats() ArtistStats {
	totalMinutes := float64(a.totalMs) / msPerMinute
	yearsActive := len(a.years)
	daysActive := len(a.days)

	yearly := make(map[string]ArtistYearStats, len(a.years))
	peakYear, peakStreams := "", -1
	for key, y := range a.years {
		minutes := float64(y.totalMs) / msPerMinute
		yearly[key] = ArtistYearStats{
			Streams:                  y.streams,
			Minutes:                  minutes,
			Hours:                    float64(y.totalMs) / msPerHour,
			UniqueTracks:             len(y.tracks),
			UniqueAlbums:             len(y.albums),
			TopPlatform:              maxKey(y.platforms),
			TopProvider:              maxKey(y.providers),
			SkipRatePercentage:       percent(y.skips, y.streams),
			CompletionRatePercentage: percent(y.completions, y.streams),
			FirstPlay:                isoOrEmpty(y.firstPlay),
			LastPlay:                 isoOrEmpty(y.lastPlay),
			PlatformBreakdown:        y.platforms,
			ProviderBreakdown:        y.providers,
		}
		if y.streams > peakStreams || (y.streams == peakStreams && key < peakYear) {
			peakYear, peakStreams = key, y.streams
		}
	}

	return ArtistStats{
		TotalStreams:             a.streams,
		TotalMinutes:             totalMinutes,
		TotalHours:               float64(a.totalMs) / msPerHour,
		UniqueTracks:             a.tracks.len(),
		UniqueAlbums:             a.albums.len(),
		YearsActive:              yearsActive,
		DaysActive:               daysActive,
		FirstPlayed:              isoOrEmpty(a.firstPlayed),
		LastPlayed:               isoOrEmpty(a.lastPlayed),
		AvgTrackLengthMinutes:    ratio(totalMinutes, float64(a.streams)),
		AvgStreamsPerYear:        ratio(float64(a.streams), float64(yearsActive)),
		AvgMinutesPerYear:        ratio(totalMinutes, float64(yearsActive)),
		AvgStreamsPerDay:         ratio(float64(a.streams), float64(daysActive)),
		AvgMinutesPerDay:         ratio(totalMinutes, float64(daysActive)),
		SkipRatePercentage:       percent(a.skips, a.streams),
		CompletionRatePercentage: percent(a.completions, a.streams),
		OfflinePercentage:        percent(a.offline, a.streams),
		ShufflePercentage:        percent(a.shuffle, a.streams),
		PeakYear:                 peakYear,
		PeakYearStreams:          maxInt(peakStreams, 0),
		TopTracks:                a.tracks.top(20),
		TopAlbums:                a.albums.top(20),
		TopPlatform:              maxKey(a.platforms),
		TopProvider:              maxKey(a.providers),
		CountriesStreamedFrom:    a.countries.len(),
		TopCountries:             a.countries.top(5),
		PlatformBreakdown:        a.platforms,
		ProviderBreakdown:        a.providers,
		YearlyBreakdown:          yearly,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
