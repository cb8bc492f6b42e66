package model

import (
	"fmt"
	"time"
)

// Provider identifies the streaming service a record came from.
type Provider string

const (
	Spotify    Provider = "Spotify"
	AppleMusic Provider = "Apple Music"
)

// StreamEvent is the canonical unit of listening history. Adapters create
// one per raw record, the quality filter may drop it, the resolver may
// rewrite ArtistName, and the consolidated log owns it immutably after that.
//
// JSON field names follow the Spotify extended-history vocabulary so the
// consolidated log stays readable by the same presentation layer.
type StreamEvent struct {
	Timestamp   time.Time `json:"ts"`
	Platform    string    `json:"platform"`
	MsPlayed    int64     `json:"ms_played"`
	Country     string    `json:"conn_country,omitempty"`
	TrackName   string    `json:"master_metadata_track_name"`
	ArtistName  string    `json:"master_metadata_album_artist_name"`
	AlbumName   string    `json:"master_metadata_album_album_name,omitempty"`
	ReasonStart string    `json:"reason_start,omitempty"`
	ReasonEnd   string    `json:"reason_end"`
	Shuffle     *bool     `json:"shuffle"`
	Skipped     bool      `json:"skipped"`
	Offline     *bool     `json:"offline"`
	Incognito   bool      `json:"incognito_mode"`
	Provider    Provider  `json:"provider"`

	// NonMusic carries podcast/video/audiobook evidence from the raw
	// record to the quality filter. Never serialized: filtered events
	// don't reach the canonical log.
	NonMusic bool `json:"-"`
}

// ReasonTrackDone is the reason_end value for a natural track completion.
const ReasonTrackDone = "trackdone"

const tsLayoutFractional = "2006-01-02T15:04:05.000Z"

// ParseTimestamp parses the timestamp formats seen in streaming exports:
// RFC 3339 with or without fractional seconds.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(tsLayoutFractional, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("parsing timestamp %q", s)
}
