package soundcloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/desertthunder/sndx/internal/auth"
	"github.com/desertthunder/sndx/internal/shared"
	"github.com/desertthunder/sndx/internal/store"
)

// newTestClient wires a client with a static API key against a fake API
// server, so no token traffic interferes with the requests under test.
func newTestClient(t *testing.T, handler http.Handler, pageSize int) (*Client, *store.MemoryStore) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := store.NewMemoryStore()
	session := auth.NewSession(
		shared.SoundCloudConfig{APIKey: "test_key"},
		auth.Endpoints{},
		s, srv.Client(), nil,
	)

	client := NewClient(session, s, ClientOpts{
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
		PageSize:   pageSize,
		RateLimit:  10000, // effectively unthrottled under test
	})

	return client, s
}

func trackJSON(id int, title, artist string) string {
	return fmt.Sprintf(`{"id": %d, "title": %q, "user": {"id": 1, "username": %q}, "duration": 180000}`, id, title, artist)
}

func userJSON(id int, username, fullName string) string {
	return fmt.Sprintf(`{"id": %d, "username": %q, "full_name": %q}`, id, username, fullName)
}

func envelope(next string, items ...string) string {
	collection := "[" + join(items) + "]"
	if next == "" {
		return fmt.Sprintf(`{"collection": %s, "next_href": ""}`, collection)
	}
	return fmt.Sprintf(`{"collection": %s, "next_href": %q}`, collection, next)
}

func join(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ","
		}
		out += item
	}
	return out
}

func TestFetchAllCursor(t *testing.T) {
	ctx := context.Background()

	t.Run("Follows Cursors Until Exhausted", func(t *testing.T) {
		// next_href values are followed verbatim, so the fake server hands
		// out URLs pointing back at itself.
		mux := http.NewServeMux()
		var srv *httptest.Server
		mux.HandleFunc("/me/likes/tracks", func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "OAuth test_key" {
				t.Errorf("unexpected authorization header %q", r.Header.Get("Authorization"))
			}

			switch r.URL.Query().Get("cursor") {
			case "":
				if r.URL.Query().Get("linked_partitioning") != "1" {
					t.Errorf("expected linked_partitioning on %s", r.URL.RequestURI())
				}
				fmt.Fprint(w, envelope(srv.URL+"/me/likes/tracks?cursor=p2", trackJSON(1, "one", "a"), trackJSON(2, "two", "b")))
			case "p2":
				fmt.Fprint(w, envelope(srv.URL+"/me/likes/tracks?cursor=p3", trackJSON(3, "three", "c"), trackJSON(4, "four", "d")))
			default:
				fmt.Fprint(w, envelope("", trackJSON(5, "five", "e")))
			}
		})

		srv = httptest.NewServer(mux)
		t.Cleanup(srv.Close)

		s := store.NewMemoryStore()
		session := auth.NewSession(shared.SoundCloudConfig{APIKey: "test_key"}, auth.Endpoints{}, s, srv.Client(), nil)
		client := NewClient(session, s, ClientOpts{BaseURL: srv.URL, HTTPClient: srv.Client(), PageSize: 2, RateLimit: 10000})

		page, err := client.Likes(ctx, 0, 10)
		if err != nil {
			t.Fatalf("Likes failed: %v", err)
		}

		if page.Total != 5 {
			t.Errorf("expected all 5 accumulated entities, got Total %d", page.Total)
		}
		if len(page.Items) != 5 {
			t.Errorf("expected 5 items in the window, got %d", len(page.Items))
		}
		if page.Items[0].EntityID() != "1" || page.Items[4].EntityID() != "5" {
			t.Error("expected page order to be preserved across cursors")
		}
	})

	t.Run("Quantity Is Advisory", func(t *testing.T) {
		// Even with quantity 2 the cursor walk continues to the end; the
		// window is what shrinks.
		pages := 0
		mux := http.NewServeMux()
		var srv *httptest.Server
		mux.HandleFunc("/me/likes/tracks", func(w http.ResponseWriter, r *http.Request) {
			pages++
			if pages < 3 {
				fmt.Fprint(w, envelope(srv.URL+"/me/likes/tracks?page="+strconv.Itoa(pages+1), trackJSON(pages*10, "t", "a"), trackJSON(pages*10+1, "t", "a")))
				return
			}
			fmt.Fprint(w, envelope("", trackJSON(100, "t", "a")))
		})

		srv = httptest.NewServer(mux)
		t.Cleanup(srv.Close)

		s := store.NewMemoryStore()
		session := auth.NewSession(shared.SoundCloudConfig{APIKey: "test_key"}, auth.Endpoints{}, s, srv.Client(), nil)
		client := NewClient(session, s, ClientOpts{BaseURL: srv.URL, HTTPClient: srv.Client(), PageSize: 2, RateLimit: 10000})

		page, err := client.Likes(ctx, 0, 2)
		if err != nil {
			t.Fatalf("Likes failed: %v", err)
		}

		if pages != 3 {
			t.Errorf("expected the walk to visit all 3 pages, got %d", pages)
		}
		if page.Total != 5 {
			t.Errorf("expected Total 5, got %d", page.Total)
		}
		if len(page.Items) != 2 {
			t.Errorf("expected a 2-item window, got %d", len(page.Items))
		}
	})

	t.Run("Aborts Whole Fetch On Page Error", func(t *testing.T) {
		pages := 0
		mux := http.NewServeMux()
		var srv *httptest.Server
		mux.HandleFunc("/me/likes/tracks", func(w http.ResponseWriter, r *http.Request) {
			pages++
			if pages == 1 {
				fmt.Fprint(w, envelope(srv.URL+"/me/likes/tracks?page=2", trackJSON(1, "one", "a")))
				return
			}
			http.Error(w, "upstream broke", http.StatusBadGateway)
		})

		srv = httptest.NewServer(mux)
		t.Cleanup(srv.Close)

		s := store.NewMemoryStore()
		session := auth.NewSession(shared.SoundCloudConfig{APIKey: "test_key"}, auth.Endpoints{}, s, srv.Client(), nil)
		client := NewClient(session, s, ClientOpts{BaseURL: srv.URL, HTTPClient: srv.Client(), PageSize: 2, RateLimit: 10000})

		_, err := client.Likes(ctx, 0, 10)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}

		// Tracks from the completed first page are NOT cached: the fetch
		// failed as a whole.
		if _, ok, _ := client.Cache().ReadTrack("1"); ok {
			t.Error("expected no cache write-through after an aborted fetch")
		}
	})
}

func TestFetchAllLimit(t *testing.T) {
	ctx := context.Background()

	t.Run("Stops At Quantity", func(t *testing.T) {
		var offsets []string
		mux := http.NewServeMux()
		mux.HandleFunc("/tracks/42/related", func(w http.ResponseWriter, r *http.Request) {
			offsets = append(offsets, r.URL.Query().Get("offset"))

			if r.URL.Query().Has("linked_partitioning") {
				t.Error("limit-style fetches must not request linked partitioning")
			}

			offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
			fmt.Fprint(w, envelope("", trackJSON(offset+1, "t", "a"), trackJSON(offset+2, "t", "a")))
		})

		client, _ := newTestClient(t, mux, 2)

		page, err := client.Related(ctx, "42", 0, 3)
		if err != nil {
			t.Fatalf("Related failed: %v", err)
		}

		// Two pages of two reach quantity 3; no third request.
		if len(offsets) != 2 {
			t.Fatalf("expected 2 page requests, got %d (%v)", len(offsets), offsets)
		}
		if offsets[1] != "2" {
			t.Errorf("expected second page at offset 2, got %q", offsets[1])
		}

		if page.Total != 4 {
			t.Errorf("expected Total 4 (accumulated), got %d", page.Total)
		}
		if len(page.Items) != 3 {
			t.Errorf("expected a 3-item window, got %d", len(page.Items))
		}
	})

	t.Run("Stops On Empty Page", func(t *testing.T) {
		pages := 0
		mux := http.NewServeMux()
		mux.HandleFunc("/tracks/42/related", func(w http.ResponseWriter, r *http.Request) {
			pages++
			if pages == 1 {
				fmt.Fprint(w, envelope("", trackJSON(1, "t", "a")))
				return
			}
			fmt.Fprint(w, envelope(""))
		})

		client, _ := newTestClient(t, mux, 2)

		page, err := client.Related(ctx, "42", 0, 10)
		if err != nil {
			t.Fatalf("Related failed: %v", err)
		}

		// A short collection terminates the walk instead of spinning.
		if pages != 2 {
			t.Errorf("expected 2 page requests, got %d", pages)
		}
		if page.Total != 1 {
			t.Errorf("expected Total 1, got %d", page.Total)
		}
	})
}

func TestFetchAllWindow(t *testing.T) {
	ctx := context.Background()

	serveTracks := func(n int) http.Handler {
		mux := http.NewServeMux()
		mux.HandleFunc("/me/likes/tracks", func(w http.ResponseWriter, r *http.Request) {
			items := make([]string, n)
			for i := range items {
				items[i] = trackJSON(i+1, fmt.Sprintf("track %d", i+1), "artist")
			}
			fmt.Fprint(w, envelope("", items...))
		})
		return mux
	}

	t.Run("Slices Index To Quantity", func(t *testing.T) {
		client, _ := newTestClient(t, serveTracks(10), 50)

		page, err := client.Likes(ctx, 4, 3)
		if err != nil {
			t.Fatalf("Likes failed: %v", err)
		}

		if len(page.Items) != 3 {
			t.Fatalf("expected 3 items, got %d", len(page.Items))
		}
		if page.Items[0].EntityID() != "5" {
			t.Errorf("expected window to start at the 5th entity, got id %s", page.Items[0].EntityID())
		}
		if page.Index != 4 || page.Total != 10 {
			t.Errorf("expected Index 4 / Total 10, got %d / %d", page.Index, page.Total)
		}
	})

	t.Run("Index Past End", func(t *testing.T) {
		client, _ := newTestClient(t, serveTracks(3), 50)

		page, err := client.Likes(ctx, 7, 5)
		if err != nil {
			t.Fatalf("Likes failed: %v", err)
		}

		if len(page.Items) != 0 {
			t.Errorf("expected an empty window past the end, got %d items", len(page.Items))
		}
		if page.Total != 3 {
			t.Errorf("expected Total 3, got %d", page.Total)
		}
	})
}

func TestFollowingsSorted(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/me/followings", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, envelope("",
			userJSON(1, "zeta", ""),
			userJSON(2, "someone", "alpha person"),
			userJSON(3, "Beta", ""),
		))
	})

	client, _ := newTestClient(t, mux, 50)

	page, err := client.Followings(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("Followings failed: %v", err)
	}

	got := make([]string, len(page.Items))
	for i, item := range page.Items {
		got[i] = item.SortName()
	}

	want := []string{"alpha person", "Beta", "zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected case-insensitive name order %v, got %v", want, got)
		}
	}
}

func TestFetchAllWriteThrough(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/me/likes/tracks", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, envelope("", trackJSON(7, "cached title", "cached artist")))
	})

	client, _ := newTestClient(t, mux, 50)

	if _, err := client.Likes(context.Background(), 0, 10); err != nil {
		t.Fatalf("Likes failed: %v", err)
	}

	track, ok, err := client.Cache().ReadTrack("7")
	if err != nil {
		t.Fatalf("ReadTrack failed: %v", err)
	}
	if !ok {
		t.Fatal("expected the fetched track to be cached")
	}
	if track.Title != "cached title" || track.Artist != "cached artist" {
		t.Errorf("cached fields do not match: %+v", track)
	}

	total, ok, err := client.Cache().ReadTotal("likes")
	if err != nil || !ok {
		t.Fatalf("expected a recorded total, got ok=%v err=%v", ok, err)
	}
	if total != 1 {
		t.Errorf("expected total 1, got %d", total)
	}
}

func TestTrack(t *testing.T) {
	ctx := context.Background()

	t.Run("Cache Read-Through", func(t *testing.T) {
		requests := 0
		mux := http.NewServeMux()
		mux.HandleFunc("/tracks/42", func(w http.ResponseWriter, r *http.Request) {
			requests++
			fmt.Fprint(w, trackJSON(42, "answer", "deep thought"))
		})

		client, _ := newTestClient(t, mux, 50)

		first, err := client.Track(ctx, "42")
		if err != nil {
			t.Fatalf("Track failed: %v", err)
		}
		second, err := client.Track(ctx, "42")
		if err != nil {
			t.Fatalf("Track failed: %v", err)
		}

		if requests != 1 {
			t.Errorf("expected the second lookup to hit the cache, server saw %d requests", requests)
		}
		if first.Title != second.Title || second.Title != "answer" {
			t.Errorf("cached track differs from fetched: %+v vs %+v", first, second)
		}
	})

	t.Run("Duplicate In-Flight Fetch", func(t *testing.T) {
		mux := http.NewServeMux()
		client, _ := newTestClient(t, mux, 50)

		client.mu.Lock()
		client.inflight["42"] = struct{}{}
		client.mu.Unlock()

		_, err := client.Track(ctx, "42")
		if !errors.Is(err, ErrFetchInProgress) {
			t.Errorf("expected ErrFetchInProgress, got %v", err)
		}
	})
}

func TestMe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id": 99, "username": "listener", "full_name": "A Listener",
		})
	})

	client, _ := newTestClient(t, mux, 50)

	me, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if me.ID != "99" || me.Username != "listener" {
		t.Errorf("unexpected profile: %+v", me)
	}
}
