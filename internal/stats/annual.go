package stats

import (
	"strconv"
	"time"

	"github.com/zachstanford/wrapped-reimagined/internal/model"
)

// AnnualRecap maps a calendar year ("2023") to its recap.
type AnnualRecap map[string]YearRecap

// YearRecap is one year's top-50 lists plus year-scoped statistics.
type YearRecap struct {
	Year       int           `json:"year"`
	TopArtists []RankedEntry `json:"top_artists"`
	TopTracks  []RankedEntry `json:"top_tracks"`
	TopAlbums  []RankedEntry `json:"top_albums"`
	YearStats  YearStats     `json:"year_stats"`
}

type YearStats struct {
	TotalPlays                int                  `json:"total_plays"`
	TotalMinutes              float64              `json:"total_minutes"`
	TotalHours                float64              `json:"total_hours"`
	UniqueArtists             int                  `json:"unique_artists"`
	UniqueTracks              int                  `json:"unique_tracks"`
	UniqueAlbums              int                  `json:"unique_albums"`
	UniqueDaysWithListening   int                  `json:"unique_days_with_listening"`
	AverageTrackLengthMinutes float64              `json:"average_track_length_minutes"`
	AverageDailyMinutes       float64              `json:"average_daily_minutes"`
	SkipRatePercentage        float64              `json:"skip_rate_percentage"`
	CompletionRatePercentage  float64              `json:"completion_rate_percentage"`
	OfflinePercentage         float64              `json:"offline_percentage"`
	ShufflePercentage         float64              `json:"shuffle_percentage"`
	FirstPlay                 string               `json:"first_play,omitempty"`
	LastPlay                  string               `json:"last_play,omitempty"`
	PeakMonth                 string               `json:"peak_month,omitempty"`
	PeakMonthPlays            int                  `json:"peak_month_plays"`
	TopPlatform               string               `json:"top_platform,omitempty"`
	TopProvider               string               `json:"top_provider,omitempty"`
	ProviderBreakdown         map[string]int       `json:"provider_breakdown"`
	PlatformBreakdown         map[string]int       `json:"platform_breakdown"`
	MonthlyBreakdown          map[string]MonthStat `json:"monthly_breakdown"`
}

type MonthStat struct {
	Plays   int     `json:"plays"`
	Minutes float64 `json:"minutes"`
	Hours   float64 `json:"hours"`
}

type yearAccumulator struct {
	artists, tracks, albums *tally

	totalPlays int
	totalMs    int64

	skips, completions, offline, shuffle int

	providers map[string]int
	platforms map[string]int
	months    map[time.Month]PeriodStat
	days      map[string]struct{}

	firstPlay, lastPlay time.Time
}

func newYearAccumulator() *yearAccumulator {
	return &yearAccumulator{
		artists:   newTally(),
		tracks:    newTally(),
		albums:    newTally(),
		providers: map[string]int{},
		platforms: map[string]int{},
		months:    map[time.Month]PeriodStat{},
		days:      map[string]struct{}{},
	}
}

// GenerateAnnual groups the canonical log by calendar year and computes
// each year's recap independently. Years outside 2008..now are ignored as
// data errors, matching the lifetime view's temporal guard.
func GenerateAnnual(events []model.StreamEvent, now time.Time) AnnualRecap {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	years := map[string]*yearAccumulator{}
	for _, e := range events {
		if e.Timestamp.IsZero() || !recapYear(e.Timestamp.Year(), now) {
			continue
		}

		key := strconv.Itoa(e.Timestamp.Year())
		acc, ok := years[key]
		if !ok {
			acc = newYearAccumulator()
			years[key] = acc
		}
		acc.observe(e)
	}

	recaps := make(AnnualRecap, len(years))
	for key, acc := range years {
		year, _ := strconv.Atoi(key)
		recaps[key] = acc.recap(year)
	}
	return recaps
}

func (a *yearAccumulator) observe(e model.StreamEvent) {
	a.totalPlays++
	a.totalMs += e.MsPlayed

	a.artists.add(e.ArtistName, e.Timestamp)
	a.tracks.add(e.TrackName, e.Timestamp)
	a.albums.add(e.AlbumName, e.Timestamp)

	a.providers[string(e.Provider)]++
	a.platforms[model.PlatformFamily(e.Platform)]++

	month := a.months[e.Timestamp.Month()]
	month.Plays++
	month.MsPlayed += e.MsPlayed
	a.months[e.Timestamp.Month()] = month

	a.days[e.Timestamp.Format("2006-01-02")] = struct{}{}

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

	if a.firstPlay.IsZero() || e.Timestamp.Before(a.firstPlay) {
		a.firstPlay = e.Timestamp
	}
	if a.lastPlay.IsZero() || e.Timestamp.After(a.lastPlay) {
		a.lastPlay = e.Timestamp
	}
}

func (a *yearAccumulator) recap(year int) YearRecap {
	totalMinutes := float64(a.totalMs) / msPerMinute

	stats := YearStats{
		TotalPlays:                a.totalPlays,
		TotalMinutes:              totalMinutes,
		TotalHours:                float64(a.totalMs) / msPerHour,
		UniqueArtists:             a.artists.len(),
		UniqueTracks:              a.tracks.len(),
		UniqueAlbums:              a.albums.len(),
		UniqueDaysWithListening:   len(a.days),
		AverageTrackLengthMinutes: ratio(totalMinutes, float64(a.totalPlays)),
		AverageDailyMinutes:       ratio(totalMinutes, float64(len(a.days))),
		SkipRatePercentage:        percent(a.skips, a.totalPlays),
		CompletionRatePercentage:  percent(a.completions, a.totalPlays),
		OfflinePercentage:         percent(a.offline, a.totalPlays),
		ShufflePercentage:         percent(a.shuffle, a.totalPlays),
		FirstPlay:                 isoOrEmpty(a.firstPlay),
		LastPlay:                  isoOrEmpty(a.lastPlay),
		TopPlatform:               maxKey(a.platforms),
		TopProvider:               maxKey(a.providers),
		ProviderBreakdown:         a.providers,
		PlatformBreakdown:         a.platforms,
		MonthlyBreakdown:          map[string]MonthStat{},
	}

	var peakMonth time.Month
	peakPlays := -1
	for month, stat := range a.months {
		stats.MonthlyBreakdown[month.String()] = MonthStat{
			Plays:   stat.Plays,
			Minutes: float64(stat.MsPlayed) / msPerMinute,
			Hours:   float64(stat.MsPlayed) / msPerHour,
		}
		if stat.Plays > peakPlays || (stat.Plays == peakPlays && month < peakMonth) {
			peakMonth, peakPlays = month, stat.Plays
		}
	}
	if peakPlays >= 0 {
		stats.PeakMonth = peakMonth.String()
		stats.PeakMonthPlays = peakPlays
	}

	return YearRecap{
		Year:       year,
		TopArtists: a.artists.top(topListSize),
		TopTracks:  a.tracks.top(topListSize),
		TopAlbums:  a.albums.top(topListSize),
		YearStats:  stats,
	}
}
