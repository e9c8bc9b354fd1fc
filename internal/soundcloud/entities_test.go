package soundcloud

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/desertthunder/sndx/internal/models"
	"github.com/desertthunder/sndx/internal/shared"
)

func rawItems(items ...string) []json.RawMessage {
	raw := make([]json.RawMessage, len(items))
	for i, item := range items {
		raw[i] = json.RawMessage(item)
	}
	return raw
}

func TestMergeTracks(t *testing.T) {
	t.Run("Normalizes Fields", func(t *testing.T) {
		entities, err := MergeTracks(rawItems(
			`{"id": 42, "title": "answer", "user": {"id": 1, "username": "deep thought"}, "duration": 180000, "genre": "ambient", "playback_count": 12, "likes_count": 3}`,
		))
		if err != nil {
			t.Fatalf("MergeTracks failed: %v", err)
		}
		if len(entities) != 1 {
			t.Fatalf("expected 1 entity, got %d", len(entities))
		}

		track, ok := entities[0].(models.Track)
		if !ok {
			t.Fatalf("expected a Track, got %T", entities[0])
		}
		if track.ID != "42" {
			t.Errorf("expected numeric id normalized to string, got %q", track.ID)
		}
		if track.Artist != "deep thought" {
			t.Errorf("expected artist from nested user, got %q", track.Artist)
		}
		if track.PlaybackCnt != 12 || track.LikesCount != 3 {
			t.Errorf("unexpected counts: %+v", track)
		}
	})

	t.Run("Malformed Item", func(t *testing.T) {
		_, err := MergeTracks(rawItems(`{"id": 1}`, `not json`))
		if !errors.Is(err, shared.ErrMalformedResponse) {
			t.Errorf("expected ErrMalformedResponse, got %v", err)
		}
	})
}

func TestMergePlaylists(t *testing.T) {
	entities, err := MergePlaylists(rawItems(
		`{"id": 9, "title": "mix", "track_count": 12, "sharing": "private", "user": {"id": 1, "username": "dj"}}`,
		`{"id": 10, "title": "open mix", "sharing": "public", "user": {"id": 1, "username": "dj"}}`,
	))
	if err != nil {
		t.Fatalf("MergePlaylists failed: %v", err)
	}

	first := entities[0].(models.Playlist)
	if first.Public {
		t.Error("expected sharing=private to normalize to Public=false")
	}
	if first.TrackCount != 12 || first.User != "dj" {
		t.Errorf("unexpected playlist fields: %+v", first)
	}

	if second := entities[1].(models.Playlist); !second.Public {
		t.Error("expected sharing=public to normalize to Public=true")
	}
}

func TestMergeUsers(t *testing.T) {
	entities, err := MergeUsers(rawItems(
		`{"id": 5, "username": "handle", "full_name": "Display Name"}`,
		`{"id": 6, "username": "only_handle"}`,
	))
	if err != nil {
		t.Fatalf("MergeUsers failed: %v", err)
	}

	if entities[0].SortName() != "Display Name" {
		t.Errorf("expected the display name to win, got %q", entities[0].SortName())
	}
	if entities[1].SortName() != "only_handle" {
		t.Errorf("expected fallback to the handle, got %q", entities[1].SortName())
	}
}

func TestMergeActivities(t *testing.T) {
	entities, err := MergeActivities(rawItems(
		`{"type": "track", "origin": {"id": 1, "title": "posted", "user": {"id": 2, "username": "a"}}}`,
		`{"type": "playlist", "origin": {"id": 9, "title": "skipped"}}`,
		`{"type": "track-repost", "origin": {"id": 2, "title": "reposted", "user": {"id": 3, "username": "b"}}}`,
		`{"type": "comment", "origin": {"id": 7}}`,
	))
	if err != nil {
		t.Fatalf("MergeActivities failed: %v", err)
	}

	if len(entities) != 2 {
		t.Fatalf("expected only the 2 track-origin activities, got %d", len(entities))
	}
	if entities[0].EntityID() != "1" || entities[1].EntityID() != "2" {
		t.Errorf("unexpected merged tracks: %v, %v", entities[0], entities[1])
	}
}
