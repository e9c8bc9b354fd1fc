package soundcloud

import (
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/sndx/internal/models"
	"github.com/desertthunder/sndx/internal/store"
)

// metaTTL is the lifetime of cached entity fields. Every successful write
// refreshes it (sliding expiration); reads never do.
const metaTTL = 30 * 24 * time.Hour

// cachePrefix namespaces entity keys in the shared kv store.
const cachePrefix = "entity"

// EntityCache persists normalized entity fields so repeat lookups skip the
// network.
//
// Each field is a separate TTL'd key under entity.<kind>.<id>.<field>. The
// "id" field is the sentinel, written last: a reader that observes it may
// assume the sibling fields were written in the same generation. Absence of
// the sentinel is a full miss even when stale field keys survive.
type EntityCache struct {
	store store.Store
}

// NewEntityCache creates an EntityCache on the given store.
func NewEntityCache(s store.Store) *EntityCache {
	return &EntityCache{store: s}
}

func cacheKey(kind, id, field string) string {
	return fmt.Sprintf("%s.%s.%s.%s", cachePrefix, kind, id, field)
}

// WriteTrack writes every field of a track, sentinel last.
func (c *EntityCache) WriteTrack(t models.Track) error {
	fields := map[string]string{
		"title":          t.Title,
		"artist":         t.Artist,
		"duration":       strconv.Itoa(t.Duration),
		"permalink_url":  t.PermalinkURL,
		"artwork_url":    t.ArtworkURL,
		"stream_url":     t.StreamURL,
		"genre":          t.Genre,
		"playback_count": strconv.Itoa(t.PlaybackCnt),
		"likes_count":    strconv.Itoa(t.LikesCount),
	}

	for field, value := range fields {
		if err := c.store.Set(cacheKey("track", t.ID, field), value, metaTTL); err != nil {
			return err
		}
	}

	// Sentinel goes last so a crash mid-write reads as a miss.
	return c.store.Set(cacheKey("track", t.ID, "id"), t.ID, metaTTL)
}

// ReadTrack reconstructs a track from cached fields.
//
// Returns ok == false unless the sentinel key is live.
func (c *EntityCache) ReadTrack(id string) (models.Track, bool, error) {
	if _, ok, err := c.store.Get(cacheKey("track", id, "id")); err != nil || !ok {
		return models.Track{}, false, err
	}

	track := models.Track{ID: id}
	read := func(field string) (string, error) {
		value, _, err := c.store.Get(cacheKey("track", id, field))
		return value, err
	}

	var err error
	if track.Title, err = read("title"); err != nil {
		return models.Track{}, false, err
	}
	if track.Artist, err = read("artist"); err != nil {
		return models.Track{}, false, err
	}
	if track.PermalinkURL, err = read("permalink_url"); err != nil {
		return models.Track{}, false, err
	}
	if track.ArtworkURL, err = read("artwork_url"); err != nil {
		return models.Track{}, false, err
	}
	if track.StreamURL, err = read("stream_url"); err != nil {
		return models.Track{}, false, err
	}
	if track.Genre, err = read("genre"); err != nil {
		return models.Track{}, false, err
	}

	duration, err := read("duration")
	if err != nil {
		return models.Track{}, false, err
	}
	track.Duration, _ = strconv.Atoi(duration)

	playback, err := read("playback_count")
	if err != nil {
		return models.Track{}, false, err
	}
	track.PlaybackCnt, _ = strconv.Atoi(playback)

	likes, err := read("likes_count")
	if err != nil {
		return models.Track{}, false, err
	}
	track.LikesCount, _ = strconv.Atoi(likes)

	return track, true, nil
}

// WriteTotal records a collection's accumulated size. Written after every
// member entity so its presence marks a complete generation.
func (c *EntityCache) WriteTotal(scope string, total int) error {
	return c.store.Set(fmt.Sprintf("%s.%s.total", cachePrefix, scope), strconv.Itoa(total), metaTTL)
}

// ReadTotal returns the recorded size of a collection's last full fetch.
func (c *EntityCache) ReadTotal(scope string) (int, bool, error) {
	value, ok, err := c.store.Get(fmt.Sprintf("%s.%s.total", cachePrefix, scope))
	if err != nil || !ok {
		return 0, false, err
	}
	total, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, nil
	}
	return total, true, nil
}
