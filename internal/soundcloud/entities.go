// SoundCloud API wire types and the page mergers that normalize them.
//
// Response shapes based on https://developers.soundcloud.com/docs/api/explorer
package soundcloud

import (
	"encoding/json"
	"fmt"

	"github.com/desertthunder/sndx/internal/models"
	"github.com/desertthunder/sndx/internal/shared"
)

// apiUser represents a user resource as returned by the API.
type apiUser struct {
	ID             json.Number `json:"id"`
	Username       string      `json:"username"`
	FullName       string      `json:"full_name"`
	City           string      `json:"city"`
	AvatarURL      string      `json:"avatar_url"`
	PermalinkURL   string      `json:"permalink_url"`
	TrackCount     int         `json:"track_count"`
	FollowersCount int         `json:"followers_count"`
}

// apiTrack represents a track resource as returned by the API.
type apiTrack struct {
	ID            json.Number `json:"id"`
	Title         string      `json:"title"`
	User          apiUser     `json:"user"`
	Duration      int         `json:"duration"`
	PermalinkURL  string      `json:"permalink_url"`
	ArtworkURL    string      `json:"artwork_url"`
	StreamURL     string      `json:"stream_url"`
	Genre         string      `json:"genre"`
	PlaybackCount int         `json:"playback_count"`
	LikesCount    int         `json:"likes_count"`
}

// apiPlaylist represents a playlist (set) resource as returned by the API.
type apiPlaylist struct {
	ID           json.Number `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	TrackCount   int         `json:"track_count"`
	User         apiUser     `json:"user"`
	PermalinkURL string      `json:"permalink_url"`
	ArtworkURL   string      `json:"artwork_url"`
	Sharing      string      `json:"sharing"` // "public" or "private"
}

// apiActivity is one entry of the /me/activities feed. Only track-origin
// activities are merged; reposts of playlists and comments are skipped.
type apiActivity struct {
	Type   string          `json:"type"`
	Origin json.RawMessage `json:"origin"`
}

func (t apiTrack) normalize() models.Track {
	return models.Track{
		ID:           t.ID.String(),
		Title:        t.Title,
		Artist:       t.User.Username,
		Duration:     t.Duration,
		PermalinkURL: t.PermalinkURL,
		ArtworkURL:   t.ArtworkURL,
		StreamURL:    t.StreamURL,
		Genre:        t.Genre,
		PlaybackCnt:  t.PlaybackCount,
		LikesCount:   t.LikesCount,
	}
}

func (p apiPlaylist) normalize() models.Playlist {
	return models.Playlist{
		ID:           p.ID.String(),
		Title:        p.Title,
		Description:  p.Description,
		TrackCount:   p.TrackCount,
		User:         p.User.Username,
		PermalinkURL: p.PermalinkURL,
		ArtworkURL:   p.ArtworkURL,
		Public:       p.Sharing != "private",
	}
}

func (u apiUser) normalize() models.User {
	return models.User{
		ID:             u.ID.String(),
		Username:       u.Username,
		FullName:       u.FullName,
		City:           u.City,
		AvatarURL:      u.AvatarURL,
		PermalinkURL:   u.PermalinkURL,
		TrackCount:     u.TrackCount,
		FollowersCount: u.FollowersCount,
	}
}

// PageMerger transforms one page's raw collection items into zero or more
// normalized entities, in page order.
type PageMerger func(items []json.RawMessage) ([]models.Entity, error)

// MergeTracks decodes a page of track resources.
func MergeTracks(items []json.RawMessage) ([]models.Entity, error) {
	entities := make([]models.Entity, 0, len(items))
	for _, item := range items {
		var t apiTrack
		if err := json.Unmarshal(item, &t); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
		}
		entities = append(entities, t.normalize())
	}
	return entities, nil
}

// MergePlaylists decodes a page of playlist resources.
func MergePlaylists(items []json.RawMessage) ([]models.Entity, error) {
	entities := make([]models.Entity, 0, len(items))
	for _, item := range items {
		var p apiPlaylist
		if err := json.Unmarshal(item, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
		}
		entities = append(entities, p.normalize())
	}
	return entities, nil
}

// MergeUsers decodes a page of user resources.
func MergeUsers(items []json.RawMessage) ([]models.Entity, error) {
	entities := make([]models.Entity, 0, len(items))
	for _, item := range items {
		var u apiUser
		if err := json.Unmarshal(item, &u); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
		}
		entities = append(entities, u.normalize())
	}
	return entities, nil
}

// MergeActivities decodes an activity feed page into the tracks the
// activities originate from. Non-track activities contribute nothing.
func MergeActivities(items []json.RawMessage) ([]models.Entity, error) {
	var entities []models.Entity
	for _, item := range items {
		var a apiActivity
		if err := json.Unmarshal(item, &a); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
		}
		if a.Type != "track" && a.Type != "track-repost" {
			continue
		}

		var t apiTrack
		if err := json.Unmarshal(a.Origin, &t); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
		}
		entities = append(entities, t.normalize())
	}
	return entities, nil
}
