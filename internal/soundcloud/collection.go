package soundcloud

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/desertthunder/sndx/internal/auth"
	"github.com/desertthunder/sndx/internal/models"
)

// ResourceType identifies a remote collection and selects its pagination
// discipline.
type ResourceType int

const (
	ResourceTracks ResourceType = iota
	ResourcePlaylists
	ResourceLikes
	ResourceStream
	ResourceFollowings
	ResourceRelated
)

func (rt ResourceType) String() string {
	switch rt {
	case ResourceTracks:
		return "tracks"
	case ResourcePlaylists:
		return "playlists"
	case ResourceLikes:
		return "likes"
	case ResourceStream:
		return "stream"
	case ResourceFollowings:
		return "followings"
	case ResourceRelated:
		return "related"
	default:
		return "unknown"
	}
}

// cursorPaged reports whether the resource is walked via server-supplied
// next_href cursors. Related tracks carry no reliable cursor and are fetched
// limit-style instead.
func (rt ResourceType) cursorPaged() bool {
	return rt != ResourceRelated
}

// trackLike reports whether the resource accumulates track entities, which
// are written through to the entity cache on completion.
func (rt ResourceType) trackLike() bool {
	switch rt {
	case ResourceTracks, ResourceLikes, ResourceStream, ResourceRelated:
		return true
	default:
		return false
	}
}

// path returns the collection's default endpoint path.
func (rt ResourceType) path() string {
	switch rt {
	case ResourceTracks:
		return "/tracks"
	case ResourcePlaylists:
		return "/me/playlists"
	case ResourceLikes:
		return "/me/likes/tracks"
	case ResourceStream:
		return "/me/activities"
	case ResourceFollowings:
		return "/me/followings"
	default:
		return ""
	}
}

// merger returns the resource's default page merger.
func (rt ResourceType) merger() PageMerger {
	switch rt {
	case ResourcePlaylists:
		return MergePlaylists
	case ResourceFollowings:
		return MergeUsers
	case ResourceStream:
		return MergeActivities
	default:
		return MergeTracks
	}
}

// FetchRequest describes one logical fetch of a remote collection.
//
// Quantity bounds limit-style fetches and sizes the returned window; for
// cursor-style resources it is advisory and every page is merged. Path and
// Merge default from the resource type.
type FetchRequest struct {
	Resource ResourceType
	Path     string
	Query    url.Values
	Index    int
	Quantity int
	Merge    PageMerger
}

// Page is the caller-facing window over a completed accumulation.
//
// Total is the size of the full accumulated set at termination, not the
// theoretical total available remotely.
type Page struct {
	Items []models.Entity `json:"items"`
	Index int             `json:"index"`
	Total int             `json:"total"`
}

// pageEnvelope is the linked-partitioning response wrapper.
type pageEnvelope struct {
	Collection []json.RawMessage `json:"collection"`
	NextHref   string            `json:"next_href"`
}

// paginationState accumulates one logical fetch. Created fresh per request
// and discarded once the window is handed to the caller.
type paginationState struct {
	resource ResourceType
	items    []models.Entity
	index    int
	quantity int
	next     string
	offset   int
}

// FetchAll walks a remote collection page by page and returns the requested
// window over the merged result.
//
// Cursor-style resources follow next_href until it is empty. Limit-style
// resources stop once the accumulated count reaches the requested quantity or
// the server returns an empty page. Any page error aborts the whole fetch
// with no partial result; cache writes from wholly completed earlier fetches
// remain (at-least-once, not exactly-once).
func (c *Client) FetchAll(ctx context.Context, req FetchRequest) (*Page, error) {
	merge := req.Merge
	if merge == nil {
		merge = req.Resource.merger()
	}

	path := req.Path
	if path == "" {
		path = req.Resource.path()
	}
	if path == "" {
		return nil, fmt.Errorf("no path for resource %s", req.Resource)
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = c.pageSize
	}

	state := &paginationState{
		resource: req.Resource,
		index:    req.Index,
		quantity: quantity,
		next:     c.pageURL(path, req.Query, req.Resource.cursorPaged(), 0),
	}

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		pageURL := state.next
		env, err := auth.Guard(ctx, c.session, func(ctx context.Context) (*pageEnvelope, error) {
			var env pageEnvelope
			if err := c.doRequest(ctx, http.MethodGet, pageURL, &env); err != nil {
				return nil, err
			}
			return &env, nil
		})
		if err != nil {
			return nil, err
		}

		entities, err := merge(env.Collection)
		if err != nil {
			return nil, err
		}
		state.items = append(state.items, entities...)

		c.logger.Debugf("merged page of %d %s entities (total %d)", len(entities), req.Resource, len(state.items))

		if req.Resource.cursorPaged() {
			if env.NextHref == "" {
				break
			}
			state.next = env.NextHref
		} else {
			// Stop on an empty page as well so a short server cannot
			// make the loop spin on the same offset window.
			if len(state.items) >= state.quantity || len(env.Collection) == 0 {
				break
			}
			state.offset += c.pageSize
			state.next = c.pageURL(path, req.Query, false, state.offset)
		}
	}

	if req.Resource == ResourceFollowings {
		sort.SliceStable(state.items, func(i, j int) bool {
			return strings.ToLower(state.items[i].SortName()) < strings.ToLower(state.items[j].SortName())
		})
	}

	if req.Resource.trackLike() {
		if err := c.writeThrough(state); err != nil {
			c.logger.Warnf("entity cache write-through failed: %v", err)
		}
	}

	return state.window(), nil
}

// pageURL builds the first (or offset-advanced) page URL for a collection.
func (c *Client) pageURL(path string, query url.Values, cursor bool, offset int) string {
	q := url.Values{}
	for k, vs := range query {
		q[k] = vs
	}
	q.Set("limit", strconv.Itoa(c.pageSize))
	if cursor {
		q.Set("linked_partitioning", "1")
	} else if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	return c.baseURL + path + "?" + q.Encode()
}

// writeThrough persists accumulated tracks to the entity cache, then the
// collection's total-count sentinel last so readers can trust the generation.
func (c *Client) writeThrough(state *paginationState) error {
	for _, entity := range state.items {
		track, ok := entity.(models.Track)
		if !ok {
			continue
		}
		if err := c.cache.WriteTrack(track); err != nil {
			return err
		}
	}
	return c.cache.WriteTotal(state.resource.String(), len(state.items))
}

// window slices the accumulated items to [index, index+quantity).
func (s *paginationState) window() *Page {
	total := len(s.items)

	start := s.index
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}

	end := start + s.quantity
	if end > total {
		end = total
	}

	return &Page{Items: s.items[start:end], Index: s.index, Total: total}
}

// Tracks searches the track catalog for q.
func (c *Client) Tracks(ctx context.Context, q string, index, quantity int) (*Page, error) {
	query := url.Values{}
	if q != "" {
		query.Set("q", q)
	}
	return c.FetchAll(ctx, FetchRequest{Resource: ResourceTracks, Query: query, Index: index, Quantity: quantity})
}

// Playlists fetches the authenticated user's playlists.
func (c *Client) Playlists(ctx context.Context, index, quantity int) (*Page, error) {
	return c.FetchAll(ctx, FetchRequest{Resource: ResourcePlaylists, Index: index, Quantity: quantity})
}

// Likes fetches the authenticated user's liked tracks.
func (c *Client) Likes(ctx context.Context, index, quantity int) (*Page, error) {
	return c.FetchAll(ctx, FetchRequest{Resource: ResourceLikes, Index: index, Quantity: quantity})
}

// Stream fetches the authenticated user's activity stream as tracks.
func (c *Client) Stream(ctx context.Context, index, quantity int) (*Page, error) {
	return c.FetchAll(ctx, FetchRequest{Resource: ResourceStream, Index: index, Quantity: quantity})
}

// Followings fetches the users the authenticated user follows, ordered
// case-insensitively by display name.
func (c *Client) Followings(ctx context.Context, index, quantity int) (*Page, error) {
	return c.FetchAll(ctx, FetchRequest{Resource: ResourceFollowings, Index: index, Quantity: quantity})
}

// PlaylistTracks fetches the tracks of a playlist.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string, index, quantity int) (*Page, error) {
	return c.FetchAll(ctx, FetchRequest{
		Resource: ResourceTracks,
		Path:     fmt.Sprintf("/playlists/%s/tracks", playlistID),
		Index:    index,
		Quantity: quantity,
	})
}

// Related fetches tracks related to the given track, limit-style.
func (c *Client) Related(ctx context.Context, trackID string, index, quantity int) (*Page, error) {
	return c.FetchAll(ctx, FetchRequest{
		Resource: ResourceRelated,
		Path:     fmt.Sprintf("/tracks/%s/related", trackID),
		Index:    index,
		Quantity: quantity,
	})
}
