package model

// SpotifyRecord is one raw record from a Spotify extended streaming
// history JSON file. Pointer fields are nullable in the export.
type SpotifyRecord struct {
	Ts                string  `json:"ts"`
	Platform          string  `json:"platform"`
	MsPlayed          *int64  `json:"ms_played"`
	ConnCountry       string  `json:"conn_country"`
	TrackName         *string `json:"master_metadata_track_name"`
	ArtistName        *string `json:"master_metadata_album_artist_name"`
	AlbumName         *string `json:"master_metadata_album_album_name"`
	SpotifyTrackURI   *string `json:"spotify_track_uri"`
	EpisodeName       *string `json:"episode_name"`
	EpisodeShowName   *string `json:"episode_show_name"`
	SpotifyEpisodeURI *string `json:"spotify_episode_uri"`
	AudiobookTitle    *string `json:"audiobook_title"`
	AudiobookURI      *string `json:"audiobook_uri"`
	ReasonStart       string  `json:"reason_start"`
	ReasonEnd         string  `json:"reason_end"`
	Shuffle           *bool   `json:"shuffle"`
	Skipped           *bool   `json:"skipped"`
	Offline           *bool   `json:"offline"`
	IncognitoMode     *bool   `json:"incognito_mode"`
}

// AppleMusicRow is one row of the Apple Music "Play History Daily Tracks"
// CSV export. All values arrive as strings; the adapter parses them.
type AppleMusicRow struct {
	TrackDescription string
	MediaType        string
	PlayDurationMs   string
	DatePlayed       string
	Hours            string
	SourceType       string
	Country          string
	EndReasonType    string
	SkipCount        string
}
