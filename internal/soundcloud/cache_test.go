package soundcloud

import (
	"testing"
	"time"

	"github.com/desertthunder/sndx/internal/models"
	"github.com/desertthunder/sndx/internal/store"
)

func TestEntityCache(t *testing.T) {
	track := models.Track{
		ID:           "42",
		Title:        "answer",
		Artist:       "deep thought",
		Duration:     180000,
		PermalinkURL: "https://example.com/42",
		Genre:        "ambient",
		PlaybackCnt:  7500000,
		LikesCount:   42,
	}

	t.Run("Round Trip", func(t *testing.T) {
		cache := NewEntityCache(store.NewMemoryStore())

		if err := cache.WriteTrack(track); err != nil {
			t.Fatalf("WriteTrack failed: %v", err)
		}

		got, ok, err := cache.ReadTrack("42")
		if err != nil {
			t.Fatalf("ReadTrack failed: %v", err)
		}
		if !ok {
			t.Fatal("expected a cache hit")
		}
		if got != track {
			t.Errorf("cached track differs:\n got %+v\nwant %+v", got, track)
		}
	})

	t.Run("Miss Without Sentinel", func(t *testing.T) {
		s := store.NewMemoryStore()
		cache := NewEntityCache(s)

		if err := cache.WriteTrack(track); err != nil {
			t.Fatalf("WriteTrack failed: %v", err)
		}

		// Field keys may survive while the sentinel is gone; the read must
		// still be a full miss.
		if err := s.Delete("entity.track.42.id"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		if _, ok, _ := cache.ReadTrack("42"); ok {
			t.Error("expected a miss once the sentinel key is absent")
		}
	})

	t.Run("Unknown ID", func(t *testing.T) {
		cache := NewEntityCache(store.NewMemoryStore())

		if _, ok, err := cache.ReadTrack("nope"); ok || err != nil {
			t.Errorf("expected a clean miss, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("Entries Age Out", func(t *testing.T) {
		s := store.NewMemoryStore()
		now := time.Now()
		s.Now = func() time.Time { return now }

		cache := NewEntityCache(s)
		if err := cache.WriteTrack(track); err != nil {
			t.Fatalf("WriteTrack failed: %v", err)
		}

		now = now.Add(31 * 24 * time.Hour)

		if _, ok, _ := cache.ReadTrack("42"); ok {
			t.Error("expected the entry to expire after 30 days")
		}
	})

	t.Run("Write Slides TTL", func(t *testing.T) {
		s := store.NewMemoryStore()
		now := time.Now()
		s.Now = func() time.Time { return now }

		cache := NewEntityCache(s)
		if err := cache.WriteTrack(track); err != nil {
			t.Fatalf("WriteTrack failed: %v", err)
		}

		// Rewriting near the deadline starts a fresh 30-day window.
		now = now.Add(29 * 24 * time.Hour)
		if err := cache.WriteTrack(track); err != nil {
			t.Fatalf("WriteTrack failed: %v", err)
		}

		now = now.Add(29 * 24 * time.Hour)
		if _, ok, _ := cache.ReadTrack("42"); !ok {
			t.Error("expected the rewritten entry to still be live")
		}
	})

	t.Run("Totals", func(t *testing.T) {
		cache := NewEntityCache(store.NewMemoryStore())

		if _, ok, _ := cache.ReadTotal("likes"); ok {
			t.Fatal("expected no total before a fetch completes")
		}

		if err := cache.WriteTotal("likes", 90); err != nil {
			t.Fatalf("WriteTotal failed: %v", err)
		}

		total, ok, err := cache.ReadTotal("likes")
		if err != nil || !ok {
			t.Fatalf("expected a recorded total, got ok=%v err=%v", ok, err)
		}
		if total != 90 {
			t.Errorf("expected total 90, got %d", total)
		}
	})
}
