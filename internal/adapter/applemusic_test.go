package adapter

import (
	"strings"
	"testing"
	"time"

	"github.com/zachstanford/wrapped-reimagined/internal/model"
)

const appleHeader = "Track Description,Media type,Play Duration Milliseconds,Date Played,Hours,Source Type,Country,End Reason Type,Skip Count"

func TestReadAppleMusic(t *testing.T) {
	csv := appleHeader + "\n" +
		"Fall Out Boy - Centuries,AUDIO,204000,20230415,\"16, 18\",IPHONE,United States,NATURAL_END_OF_TRACK,0\n"

	result, err := ReadAppleMusic(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadAppleMusic: %v", err)
	}
	if result.Parsed != 1 || result.Failed != 0 {
		t.Fatalf("Expected 1 parsed record, got parsed=%d failed=%d", result.Parsed, result.Failed)
	}

	e := result.Events[0]
	if e.ArtistName != "Fall Out Boy" || e.TrackName != "Centuries" {
		t.Errorf("Unexpected split: artist=%q track=%q", e.ArtistName, e.TrackName)
	}
	if e.Platform != "iOS" {
		t.Errorf("Expected platform %q, got %q", "iOS", e.Platform)
	}
	if e.Country != "US" {
		t.Errorf("Expected country %q, got %q", "US", e.Country)
	}
	if e.ReasonEnd != model.ReasonTrackDone {
		t.Errorf("Expected reason_end %q, got %q", model.ReasonTrackDone, e.ReasonEnd)
	}
	if e.Provider != model.AppleMusic {
		t.Errorf("Expected provider %q, got %q", model.AppleMusic, e.Provider)
	}
	if e.Skipped {
		t.Error("Skip count 0 should not mark the play skipped")
	}

	expected := time.Date(2023, 4, 15, 16, 0, 0, 0, time.UTC)
	if !e.Timestamp.Equal(expected) {
		t.Errorf("Expected timestamp %v, got %v", expected, e.Timestamp)
	}
}

func TestReadAppleMusic_missingColumn(t *testing.T) {
	csv := "Media type,Play Duration Milliseconds\nAUDIO,1000\n"
	_, err := ReadAppleMusic(strings.NewReader(csv))
	if err == nil {
		t.Fatal("Expected error when Track Description column is missing")
	}
}

func TestReadAppleMusic_malformedRows(t *testing.T) {
	csv := appleHeader + "\n" +
		// Video plays still parse, the filter drops them later.
		"Some Artist - Some Video,VIDEO,60000,20230101,5,IPHONE,Canada,NATURAL_END_OF_TRACK,0\n" +
		// No artist delimiter.
		"JustOneField,AUDIO,60000,20230101,5,IPHONE,Canada,NATURAL_END_OF_TRACK,0\n" +
		// Numeric track description.
		"12345,AUDIO,60000,20230101,5,IPHONE,Canada,NATURAL_END_OF_TRACK,0\n" +
		// Bad date.
		"A - B,AUDIO,60000,202301,5,IPHONE,Canada,NATURAL_END_OF_TRACK,0\n" +
		// Bad duration.
		"A - B,AUDIO,abc,20230101,5,IPHONE,Canada,NATURAL_END_OF_TRACK,0\n"

	result, err := ReadAppleMusic(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadAppleMusic: %v", err)
	}
	if result.Parsed != 1 {
		t.Errorf("Expected 1 parsed record, got %d", result.Parsed)
	}
	if result.Failed != 4 {
		t.Errorf("Expected 4 failed records, got %d", result.Failed)
	}
	if len(result.Events) != 1 || !result.Events[0].NonMusic {
		t.Error("Video play should parse and be marked non-music")
	}
}

func TestReadAppleMusic_skipCount(t *testing.T) {
	csv := appleHeader + "\n" +
		"Foo Fighters - Everlong,AUDIO,15000,20230415,10,MACOS,United Kingdom,MANUALLY_SELECTED_PLAYBACK_OF_A_DIFF_ITEM,2\n"

	result, err := ReadAppleMusic(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadAppleMusic: %v", err)
	}
	e := result.Events[0]
	if !e.Skipped {
		t.Error("Skip count 2 should mark the play skipped")
	}
	if e.ReasonEnd != "fwdbtn" {
		t.Errorf("Expected reason_end %q, got %q", "fwdbtn", e.ReasonEnd)
	}
	if e.Platform != "macOS" || e.Country != "GB" {
		t.Errorf("Unexpected normalization: platform=%q country=%q", e.Platform, e.Country)
	}
}

func TestApplePlatform(t *testing.T) {
	tests := []struct {
		sourceType string
		want       string
	}{
		{"IPHONE", "iOS"},
		{"IPAD", "iOS"},
		{"MACOS", "macOS"},
		{"ITUNES", "Windows"},
		{"APPLE_TV", "tvOS"},
		{"APPLE_WATCH", "Watch"},
	}

	for _, tc := range tests {
		got := applePlatform(tc.sourceType)
		if got != tc.want {
			t.Errorf("applePlatform(%q) = %q, want %q", tc.sourceType, got, tc.want)
		}
		// The aggregators re-bucket platforms, so the adapter's output
		// must already be a stable family name.
		if family := model.PlatformFamily(got); family != got {
			t.Errorf("PlatformFamily(%q) = %q, expected the adapter value to be stable", got, family)
		}
	}
}

func TestSplitTrackDescription(t *testing.T) {
	tests := []struct {
		input   string
		artist  string
		track   string
		wantErr bool
	}{
		{"Fall Out Boy - Centuries", "Fall Out Boy", "Centuries", false},
		{"Tyler, The Creator - EARFQUAKE", "Tyler, The Creator", "EARFQUAKE", false},
		// First delimiter wins.
		{"Nirvana - Smells Like Teen Spirit - Remastered", "Nirvana", "Smells Like Teen Spirit - Remastered", false},
		{"", "", "", true},
		{"12345", "", "", true},
		{"No Delimiter Here", "", "", true},
		{" - Orphan Track", "", "", true},
	}

	for _, tc := range tests {
		artist, track, err := splitTrackDescription(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("splitTrackDescription(%q) expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("splitTrackDescription(%q): %v", tc.input, err)
			continue
		}
		if artist != tc.artist || track != tc.track {
			t.Errorf("splitTrackDescription(%q) = %q, %q; want %q, %q",
				tc.input, artist, track, tc.artist, tc.track)
		}
	}
}

func TestAppleMusicTimestamp(t *testing.T) {
	ts, err := appleMusicTimestamp("20230415", "16, 18")
	if err != nil {
		t.Fatalf("appleMusicTimestamp: %v", err)
	}
	expected := time.Date(2023, 4, 15, 16, 0, 0, 0, time.UTC)
	if !ts.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, ts)
	}

	// Garbled hours fall back to midnight rather than failing the row.
	ts, err = appleMusicTimestamp("20230415", "not-an-hour")
	if err != nil {
		t.Fatalf("appleMusicTimestamp: %v", err)
	}
	if ts.Hour() != 0 {
		t.Errorf("Expected hour 0 for garbled hours, got %d", ts.Hour())
	}

	if _, err := appleMusicTimestamp("2023", "5"); err == nil {
		t.Error("Expected error for short date")
	}
}
