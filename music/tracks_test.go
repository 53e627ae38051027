package music

import "testing"

func TestTrackByID(t *testing.T) {
	track, ok := TrackByID("upbeat")
	if !ok {
		t.Fatal("expected upbeat track to exist")
	}
	if track.URL == "" {
		t.Error("upbeat track missing URL")
	}

	if _, ok := TrackByID("does-not-exist"); ok {
		t.Error("unknown id should not resolve")
	}
}

func TestNoneTrackHasNoURL(t *testing.T) {
	track, ok := TrackByID("none")
	if !ok {
		t.Fatal("expected none track to exist")
	}
	if track.URL != "" {
		t.Errorf("none track should have empty URL, got %q", track.URL)
	}
}

func TestTracksForStyle(t *testing.T) {
	horror := TracksForStyle("horror")
	foundNone := false
	for _, track := range horror {
		if track.ID == "none" {
			foundNone = true
			continue
		}
		if track.Mood != MoodMysterious && track.Mood != MoodDramatic {
			t.Errorf("horror suggestion has mood %q", track.Mood)
		}
	}
	if !foundNone {
		t.Error("voice-only option missing from suggestions")
	}

	// Unknown styles still get a sensible default set.
	if got := TracksForStyle("vaporwave"); len(got) < 2 {
		t.Errorf("unknown style returned %d tracks", len(got))
	}
}
