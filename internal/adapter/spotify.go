package adapter

import (
	"fmt"
	"io"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/zachstanford/wrapped-reimagined/internal/model"
)

// ReadSpotify decodes one Spotify extended streaming history JSON file and
// converts its records. The file must hold a JSON array.
func ReadSpotify(r io.Reader) (Result, error) {
	var records []model.SpotifyRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return Result{}, fmt.Errorf("decoding spotify history: %w", err)
	}
	return ParseSpotify(records), nil
}

// ParseSpotify converts raw Spotify records into stream events, sorted by
// timestamp. Records lacking a timestamp, play duration, or (for music
// content) track and artist names are parse failures.
func ParseSpotify(records []model.SpotifyRecord) Result {
	var result Result
	for _, rec := range records {
		event, err := spotifyEvent(rec)
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
	return result
}

func spotifyEvent(rec model.SpotifyRecord) (model.StreamEvent, error) {
	ts, err := model.ParseTimestamp(rec.Ts)
	if err != nil {
		return model.StreamEvent{}, err
	}
	if rec.MsPlayed == nil {
		return model.StreamEvent{}, fmt.Errorf("record at %s has no play duration", rec.Ts)
	}

	// Episode/audiobook markers mean podcast or audiobook content. Such
	// records still become events so the quality filter owns the content
	// decision; they just fall back to the episode metadata for names.
	nonMusic := rec.EpisodeName != nil || rec.SpotifyEpisodeURI != nil ||
		rec.AudiobookTitle != nil || rec.AudiobookURI != nil ||
		rec.SpotifyTrackURI == nil

	track := stringValue(rec.TrackName)
	artist := stringValue(rec.ArtistName)
	if nonMusic {
		if track == "" {
			track = firstNonEmpty(stringValue(rec.EpisodeName), stringValue(rec.AudiobookTitle))
		}
		if artist == "" {
			artist = stringValue(rec.EpisodeShowName)
		}
	}
	if track == "" || artist == "" {
		return model.StreamEvent{}, fmt.Errorf("record at %s lacks track metadata", rec.Ts)
	}

	return model.StreamEvent{
		Timestamp:   ts,
		Platform:    model.PlatformFamily(rec.Platform),
		MsPlayed:    *rec.MsPlayed,
		Country:     rec.ConnCountry,
		TrackName:   track,
		ArtistName:  artist,
		AlbumName:   stringValue(rec.AlbumName),
		ReasonStart: rec.ReasonStart,
		ReasonEnd:   rec.ReasonEnd,
		Shuffle:     rec.Shuffle,
		Skipped:     boolValue(rec.Skipped),
		Offline:     rec.Offline,
		Incognito:   boolValue(rec.IncognitoMode),
		Provider:    model.Spotify,
		NonMusic:    nonMusic,
	}, nil
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func boolValue(b *bool) bool {
	return b != nil && *b
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
