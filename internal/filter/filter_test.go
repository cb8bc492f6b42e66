package filter

import (
	"testing"
	"time"

	"github.com/zachstanford/wrapped-reimagined/internal/model"
)

var testNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func validEvent() model.StreamEvent {
	return model.StreamEvent{
		Timestamp:  time.Date(2023, 4, 15, 16, 0, 0, 0, time.UTC),
		MsPlayed:   180000,
		TrackName:  "Everlong",
		ArtistName: "Foo Fighters",
		Provider:   model.Spotify,
	}
}

func TestKeep(t *testing.T) {
	f := Filter{MinSkipMs: MinEngagedSkipMs, Now: testNow}

	tests := []struct {
		name   string
		modify func(*model.StreamEvent)
		want   bool
	}{
		{"valid play", func(e *model.StreamEvent) {}, true},
		{"non-music", func(e *model.StreamEvent) { e.NonMusic = true }, false},
		{"incognito", func(e *model.StreamEvent) { e.Incognito = true }, false},
		{"short skip", func(e *model.StreamEvent) { e.Skipped = true; e.MsPlayed = 5000 }, false},
		{"engaged skip", func(e *model.StreamEvent) { e.Skipped = true; e.MsPlayed = 45000 }, true},
		{"zero duration", func(e *model.StreamEvent) { e.MsPlayed = 0 }, false},
		{"negative duration", func(e *model.StreamEvent) { e.MsPlayed = -100 }, false},
		{"zero timestamp", func(e *model.StreamEvent) { e.Timestamp = time.Time{} }, false},
		{"prehistoric timestamp", func(e *model.StreamEvent) {
			e.Timestamp = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
		}, false},
		{"future timestamp", func(e *model.StreamEvent) {
			e.Timestamp = testNow.Add(24 * time.Hour)
		}, false},
	}

	for _, tc := range tests {
		e := validEvent()
		tc.modify(&e)
		if got := f.Keep(e); got != tc.want {
			t.Errorf("%s: Keep() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestKeep_customSkipThreshold(t *testing.T) {
	f := Filter{MinSkipMs: 10000, Now: testNow}

	e := validEvent()
	e.Skipped = true
	e.MsPlayed = 15000
	if !f.Keep(e) {
		t.Error("15s skipped play should survive a 10s threshold")
	}

	e.MsPlayed = 5000
	if f.Keep(e) {
		t.Error("5s skipped play should be dropped under a 10s threshold")
	}
}

func TestApply(t *testing.T) {
	f := Filter{MinSkipMs: MinEngagedSkipMs, Now: testNow}

	good := validEvent()
	bad := validEvent()
	bad.NonMusic = true

	kept, dropped := f.Apply([]model.StreamEvent{good, bad, good})
	if len(kept) != 2 {
		t.Errorf("Expected 2 kept events, got %d", len(kept))
	}
	if dropped != 1 {
		t.Errorf("Expected 1 dropped event, got %d", dropped)
	}
}

func TestApply_empty(t *testing.T) {
	kept, dropped := New().Apply(nil)
	if len(kept) != 0 || dropped != 0 {
		t.Errorf("Expected empty result, got kept=%d dropped=%d", len(kept), dropped)
	}
}

func TestApply_allDropped(t *testing.T) {
	f := Filter{MinSkipMs: MinEngagedSkipMs, Now: testNow}

	junk := validEvent()
	junk.NonMusic = true

	kept, dropped := f.Apply([]model.StreamEvent{junk, junk})
	if dropped != 2 {
		t.Errorf("Expected 2 dropped events, got %d", dropped)
	}
	// The kept slice must stay a JSON array, not null, when nothing
	// survives.
	if kept == nil {
		t.Fatal("Expected an empty non-nil slice when every event is dropped")
	}
	if len(kept) != 0 {
		t.Errorf("Expected no kept events, got %d", len(kept))
	}
}
