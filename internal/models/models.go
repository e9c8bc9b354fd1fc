// package models defines the normalized entities produced by the API layer
package models

// Entity is the common shape of every normalized resource produced by a page
// merge. Kind discriminates without reflection; SortName backs the
// case-insensitive ordering applied to followings.
type Entity interface {
	EntityID() string
	EntityKind() string
	SortName() string
}

// Track represents a normalized track entity.
type Track struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	Duration     int    `json:"duration"` // milliseconds
	PermalinkURL string `json:"permalink_url"`
	ArtworkURL   string `json:"artwork_url"`
	StreamURL    string `json:"stream_url"`
	Genre        string `json:"genre"`
	PlaybackCnt  int    `json:"playback_count"`
	LikesCount   int    `json:"likes_count"`
}

func (t Track) EntityID() string   { return t.ID }
func (t Track) EntityKind() string { return "track" }
func (t Track) SortName() string   { return t.Title }

// Playlist represents a normalized playlist (set) entity.
type Playlist struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	TrackCount   int    `json:"track_count"`
	User         string `json:"user"`
	PermalinkURL string `json:"permalink_url"`
	ArtworkURL   string `json:"artwork_url"`
	Public       bool   `json:"public"`
}

func (p Playlist) EntityID() string   { return p.ID }
func (p Playlist) EntityKind() string { return "playlist" }
func (p Playlist) SortName() string   { return p.Title }

// User represents a normalized user entity.
type User struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	City           string `json:"city"`
	AvatarURL      string `json:"avatar_url"`
	PermalinkURL   string `json:"permalink_url"`
	TrackCount     int    `json:"track_count"`
	FollowersCount int    `json:"followers_count"`
}

func (u User) EntityID() string   { return u.ID }
func (u User) EntityKind() string { return "user" }

// SortName prefers the display name over the handle, matching how the
// followings list is presented.
func (u User) SortName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
