package stats

import (
	"strconv"
	"time"

	"github.com/zachstanford/wrapped-reimagined/internal/model"
)

// LifetimeStats is the scalar/categorical summary across the whole log.
type LifetimeStats struct {
	Metadata          Metadata          `json:"metadata"`
	TimeStats         TimeStats         `json:"time_stats"`
	ContentStats      ContentStats      `json:"content_stats"`
	PlatformStats     PlatformStats     `json:"platform_stats"`
	ProviderStats     ProviderStats     `json:"provider_stats"`
	TemporalPatterns  TemporalPatterns  `json:"temporal_patterns"`
	ListeningBehavior ListeningBehavior `json:"listening_behavior"`
	DiversityMetrics  DiversityMetrics  `json:"diversity_metrics"`
	TopLists          TopLists          `json:"top_lists"`
	Milestones        Milestones        `json:"milestones"`
	GeographicalStats GeographicalStats `json:"geographical_stats"`
	TechnicalStats    TechnicalStats    `json:"technical_stats"`
}

type Metadata struct {
	GeneratedAt  string   `json:"generated_at"`
	TotalRecords int      `json:"total_records"`
	DataSources  []string `json:"data_sources"`
}

type TimeStats struct {
	TotalMilliseconds         int64   `json:"total_milliseconds"`
	TotalSeconds              float64 `json:"total_seconds"`
	TotalMinutes              float64 `json:"total_minutes"`
	TotalHours                float64 `json:"total_hours"`
	TotalDays                 float64 `json:"total_days"`
	TotalWeeks                float64 `json:"total_weeks"`
	TotalMonths               float64 `json:"total_months"`
	TotalYears                float64 `json:"total_years"`
	AverageTrackLengthMs      float64 `json:"average_track_length_ms"`
	AverageTrackLengthSeconds float64 `json:"average_track_length_seconds"`
	AverageTrackLengthMinutes float64 `json:"average_track_length_minutes"`
	EarliestPlay              string  `json:"earliest_play,omitempty"`
	LatestPlay                string  `json:"latest_play,omitempty"`
	TrackingSpanDays          int     `json:"tracking_span_days"`
}

type ContentStats struct {
	UniqueArtists         int     `json:"unique_artists"`
	UniqueTracks          int     `json:"unique_tracks"`
	UniqueAlbums          int     `json:"unique_albums"`
	TotalPlays            int     `json:"total_plays"`
	AveragePlaysPerArtist float64 `json:"average_plays_per_artist"`
	AveragePlaysPerTrack  float64 `json:"average_plays_per_track"`
	AveragePlaysPerAlbum  float64 `json:"average_plays_per_album"`
}

type PlatformStats struct {
	Distribution   map[string]int `json:"distribution"`
	TotalPlatforms int            `json:"total_platforms"`
	TopPlatform    string         `json:"top_platform,omitempty"`
}

type ProviderStats struct {
	Distribution         map[string]int `json:"distribution"`
	TotalProviders       int            `json:"total_providers"`
	SpotifyPercentage    float64        `json:"spotify_percentage"`
	AppleMusicPercentage float64        `json:"apple_music_percentage"`
}

type TemporalPatterns struct {
	YearlyBreakdown     map[string]PeriodStat `json:"yearly_breakdown"`
	MonthlyBreakdown    map[string]PeriodStat `json:"monthly_breakdown"`
	HourlyBreakdown     map[string]PeriodStat `json:"hourly_breakdown"`
	WeekdayBreakdown    map[string]PeriodStat `json:"weekday_breakdown"`
	SeasonalBreakdown   map[string]PeriodStat `json:"seasonal_breakdown"`
	PeakListeningHour   int                   `json:"peak_listening_hour"`
	PeakListeningDay    string                `json:"peak_listening_day,omitempty"`
	PeakListeningSeason string                `json:"peak_listening_season,omitempty"`
}

type ListeningBehavior struct {
	SkipRatePercentage       float64 `json:"skip_rate_percentage"`
	CompletionRatePercentage float64 `json:"completion_rate_percentage"`
	OfflinePercentage        float64 `json:"offline_listening_percentage"`
	ShufflePercentage        float64 `json:"shuffle_usage_percentage"`
	TotalSkips               int     `json:"total_skips"`
	TotalCompletions         int     `json:"total_completions"`
	TotalOfflinePlays        int     `json:"total_offline_plays"`
	TotalShufflePlays        int     `json:"total_shuffle_plays"`
}

type DiversityMetrics struct {
	ArtistDiversityScore     float64 `json:"artist_diversity_score"`
	UniqueArtists            int     `json:"unique_artists"`
	UniqueTracks             int     `json:"unique_tracks"`
	Top1ArtistConcentration  float64 `json:"top_1_artist_concentration"`
	Top5ArtistConcentration  float64 `json:"top_5_artist_concentration"`
	Top10ArtistConcentration float64 `json:"top_10_artist_concentration"`
	PlaysPerArtist           float64 `json:"plays_per_artist"`
	PlaysPerTrack            float64 `json:"plays_per_track"`
}

type TopLists struct {
	TopArtists   []RankedEntry `json:"top_artists"`
	TopTracks    []RankedEntry `json:"top_tracks"`
	TopAlbums    []RankedEntry `json:"top_albums"`
	TopPlatforms []RankedEntry `json:"top_platforms"`
	TopCountries []RankedEntry `json:"top_countries"`
}

type Milestones struct {
	FirstTrackPlayed             TrackMoment `json:"first_track_played"`
	MostRecentTrack              TrackMoment `json:"most_recent_track"`
	LongestTrackPlayed           LongestPlay `json:"longest_track_played"`
	DaysWithListening            int         `json:"days_with_listening"`
	AverageDailyListeningMinutes float64     `json:"average_daily_listening_minutes"`
}

type TrackMoment struct {
	Timestamp string `json:"timestamp,omitempty"`
	Artist    string `json:"artist,omitempty"`
	Track     string `json:"track,omitempty"`
}

type LongestPlay struct {
	Timestamp string `json:"timestamp,omitempty"`
	Artist    string `json:"artist,omitempty"`
	Track     string `json:"track,omitempty"`
	MsPlayed  int64  `json:"ms_played"`
}

type GeographicalStats struct {
	CountriesStreamedFrom int            `json:"countries_streamed_from"`
	TopCountries          []RankedEntry  `json:"top_countries"`
	Distribution          map[string]int `json:"distribution"`
}

type TechnicalStats struct {
	DataQuality            DataQuality `json:"data_quality"`
	AverageDailyTracks     float64     `json:"average_daily_tracks"`
	TracksPerListeningHour float64     `json:"tracks_per_hour_of_listening"`
}

type DataQuality struct {
	RecordsWithTimestamps int `json:"records_with_timestamps"`
	RecordsWithArtists    int `json:"records_with_artists"`
	RecordsWithTracks     int `json:"records_with_tracks"`
	RecordsWithDuration   int `json:"records_with_duration"`
}

// GenerateLifetime computes the lifetime view in a single pass over the
// canonical log. An empty log yields a well-formed zero-valued document.
// now stamps the metadata and is the only non-deterministic output.
func GenerateLifetime(events []model.StreamEvent, now time.Time) *LifetimeStats {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	stats := &LifetimeStats{
		Metadata: Metadata{
			GeneratedAt:  now.UTC().Format(time.RFC3339),
			TotalRecords: len(events),
			DataSources:  []string{string(model.Spotify), string(model.AppleMusic)},
		},
		PlatformStats:     PlatformStats{Distribution: map[string]int{}},
		ProviderStats:     ProviderStats{Distribution: map[string]int{}},
		GeographicalStats: GeographicalStats{Distribution: map[string]int{}},
		TemporalPatterns: TemporalPatterns{
			YearlyBreakdown:   map[string]PeriodStat{},
			MonthlyBreakdown:  map[string]PeriodStat{},
			HourlyBreakdown:   map[string]PeriodStat{},
			WeekdayBreakdown:  map[string]PeriodStat{},
			SeasonalBreakdown: map[string]PeriodStat{},
		},
	}
	if len(events) == 0 {
		return stats
	}

	var (
		totalMs   int64
		artists   = newTally()
		tracks    = newTally()
		albums    = newTally()
		platforms = newTally()
		countries = newTally()

		skips, completions, offline, shuffle int

		earliest, latest     time.Time
		first, last, longest model.StreamEvent

		days = map[string]struct{}{}

		withTs, withArtist, withTrack, withDuration int
	)

	bump := func(m map[string]PeriodStat, key string, ms int64) {
		s := m[key]
		s.Plays++
		s.MsPlayed += ms
		m[key] = s
	}

	for _, e := range events {
		totalMs += e.MsPlayed

		artists.add(e.ArtistName, e.Timestamp)
		tracks.add(e.TrackName, e.Timestamp)
		albums.add(e.AlbumName, e.Timestamp)
		platforms.add(model.PlatformFamily(e.Platform), e.Timestamp)

		country := e.Country
		if country == "" {
			country = "Unknown"
		}
		countries.add(country, e.Timestamp)

		stats.ProviderStats.Distribution[string(e.Provider)]++
		stats.PlatformStats.Distribution[model.PlatformFamily(e.Platform)]++
		stats.GeographicalStats.Distribution[country]++

		if e.Skipped {
			skips++
		}
		if e.ReasonEnd == model.ReasonTrackDone {
			completions++
		}
		if e.Offline != nil && *e.Offline {
			offline++
		}
		if e.Shuffle != nil && *e.Shuffle {
			shuffle++
		}

		ts := e.Timestamp
		if !ts.IsZero() {
			withTs++
			if earliest.IsZero() || ts.Before(earliest) {
				earliest, first = ts, e
			}
			if latest.IsZero() || ts.After(latest) {
				latest, last = ts, e
			}

			bump(stats.TemporalPatterns.YearlyBreakdown, strconv.Itoa(ts.Year()), e.MsPlayed)
			bump(stats.TemporalPatterns.MonthlyBreakdown, ts.Format("2006-01"), e.MsPlayed)
			bump(stats.TemporalPatterns.HourlyBreakdown, strconv.Itoa(ts.Hour()), e.MsPlayed)
			bump(stats.TemporalPatterns.WeekdayBreakdown, ts.Weekday().String(), e.MsPlayed)
			bump(stats.TemporalPatterns.SeasonalBreakdown, season(ts.Month()), e.MsPlayed)

			days[ts.Format("2006-01-02")] = struct{}{}
		}
		if e.ArtistName != "" {
			withArtist++
		}
		if e.TrackName != "" {
			withTrack++
		}
		if e.MsPlayed > 0 {
			withDuration++
		}
		if e.MsPlayed > longest.MsPlayed {
			longest = e
		}
	}

	total := len(events)
	totalMinutes := float64(totalMs) / msPerMinute
	totalHours := float64(totalMs) / msPerHour

	stats.TimeStats = TimeStats{
		TotalMilliseconds:         totalMs,
		TotalSeconds:              float64(totalMs) / msPerSecond,
		TotalMinutes:              totalMinutes,
		TotalHours:                totalHours,
		TotalDays:                 totalHours / 24,
		TotalWeeks:                totalHours / 24 / 7,
		TotalMonths:               totalHours / 24 / 30.44,
		TotalYears:                totalHours / 24 / 365.25,
		AverageTrackLengthMs:      ratio(float64(totalMs), float64(total)),
		AverageTrackLengthSeconds: ratio(float64(totalMs)/msPerSecond, float64(total)),
		AverageTrackLengthMinutes: ratio(totalMinutes, float64(total)),
		EarliestPlay:              isoOrEmpty(earliest),
		LatestPlay:                isoOrEmpty(latest),
	}
	if !earliest.IsZero() && !latest.IsZero() {
		stats.TimeStats.TrackingSpanDays = int(latest.Sub(earliest).Hours() / 24)
	}

	stats.ContentStats = ContentStats{
		UniqueArtists:         artists.len(),
		UniqueTracks:          tracks.len(),
		UniqueAlbums:          albums.len(),
		TotalPlays:            total,
		AveragePlaysPerArtist: ratio(float64(total), float64(artists.len())),
		AveragePlaysPerTrack:  ratio(float64(total), float64(tracks.len())),
		AveragePlaysPerAlbum:  ratio(float64(total), float64(albums.len())),
	}

	stats.PlatformStats.TotalPlatforms = len(stats.PlatformStats.Distribution)
	stats.PlatformStats.TopPlatform = maxKey(stats.PlatformStats.Distribution)

	stats.ProviderStats.TotalProviders = len(stats.ProviderStats.Distribution)
	stats.ProviderStats.SpotifyPercentage = percent(stats.ProviderStats.Distribution[string(model.Spotify)], total)
	stats.ProviderStats.AppleMusicPercentage = percent(stats.ProviderStats.Distribution[string(model.AppleMusic)], total)

	stats.GeographicalStats.CountriesStreamedFrom = countries.len()
	stats.GeographicalStats.TopCountries = countries.top(10)

	stats.ListeningBehavior = ListeningBehavior{
		SkipRatePercentage:       percent(skips, total),
		CompletionRatePercentage: percent(completions, total),
		OfflinePercentage:        percent(offline, total),
		ShufflePercentage:        percent(shuffle, total),
		TotalSkips:               skips,
		TotalCompletions:         completions,
		TotalOfflinePlays:        offline,
		TotalShufflePlays:        shuffle,
	}

	stats.TemporalPatterns.PeakListeningHour = peakHour(stats.TemporalPatterns.HourlyBreakdown)
	stats.TemporalPatterns.PeakListeningDay = peakPeriod(stats.TemporalPatterns.WeekdayBreakdown)
	stats.TemporalPatterns.PeakListeningSeason = peakPeriod(stats.TemporalPatterns.SeasonalBreakdown)

	stats.DiversityMetrics = diversity(artists, tracks, total)

	stats.TopLists = TopLists{
		TopArtists:   artists.top(topListSize),
		TopTracks:    tracks.top(topListSize),
		TopAlbums:    albums.top(topListSize),
		TopPlatforms: platforms.top(0),
		TopCountries: countries.top(0),
	}

	stats.Milestones = Milestones{
		FirstTrackPlayed: TrackMoment{
			Timestamp: isoOrEmpty(earliest),
			Artist:    first.ArtistName,
			Track:     first.TrackName,
		},
		MostRecentTrack: TrackMoment{
			Timestamp: isoOrEmpty(latest),
			Artist:    last.ArtistName,
			Track:     last.TrackName,
		},
		LongestTrackPlayed: LongestPlay{
			Timestamp: isoOrEmpty(longest.Timestamp),
			Artist:    longest.ArtistName,
			Track:     longest.TrackName,
			MsPlayed:  longest.MsPlayed,
		},
		DaysWithListening:            len(days),
		AverageDailyListeningMinutes: ratio(totalMinutes, float64(len(days))),
	}

	spanDays := float64(stats.TimeStats.TrackingSpanDays + 1)
	stats.TechnicalStats = TechnicalStats{
		DataQuality: DataQuality{
			RecordsWithTimestamps: withTs,
			RecordsWithArtists:    withArtist,
			RecordsWithTracks:     withTrack,
			RecordsWithDuration:   withDuration,
		},
		AverageDailyTracks:     ratio(float64(total), spanDays),
		TracksPerListeningHour: ratio(float64(total), totalHours),
	}

	return stats
}

func diversity(artists, tracks *tally, total int) DiversityMetrics {
	top := artists.top(10)
	concentration := func(n int) float64 {
		if len(top) < n {
			return 0
		}
		sum := 0
		for _, entry := range top[:n] {
			sum += entry.Plays
		}
		return percent(sum, total)
	}

	return DiversityMetrics{
		ArtistDiversityScore:     ratio(float64(artists.len()), float64(total)),
		UniqueArtists:            artists.len(),
		UniqueTracks:             tracks.len(),
		Top1ArtistConcentration:  concentration(1),
		Top5ArtistConcentration:  concentration(5),
		Top10ArtistConcentration: concentration(10),
		PlaysPerArtist:           ratio(float64(total), float64(artists.len())),
		PlaysPerTrack:            ratio(float64(total), float64(tracks.len())),
	}
}

func peakHour(hourly map[string]PeriodStat) int {
	best, bestPlays := 0, -1
	for key, stat := range hourly {
		hour, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if stat.Plays > bestPlays || (stat.Plays == bestPlays && hour < best) {
			best, bestPlays = hour, stat.Plays
		}
	}
	if bestPlays < 0 {
		return 0
	}
	return best
}

func peakPeriod(periods map[string]PeriodStat) string {
	best, bestPlays := "", -1
	for key, stat := range periods {
		if stat.Plays > bestPlays || (stat.Plays == bestPlays && key < best) {
			best, bestPlays = key, stat.Plays
		}
	}
	return best
}
