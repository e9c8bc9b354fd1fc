package soundcloud

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sndx/internal/auth"
	"github.com/desertthunder/sndx/internal/models"
	"github.com/desertthunder/sndx/internal/shared"
	"github.com/desertthunder/sndx/internal/store"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.soundcloud.com"

// ErrFetchInProgress is returned when a metadata fetch for the same entity is
// already in flight; the duplicate request is suppressed instead of issued.
var ErrFetchInProgress = fmt.Errorf("metadata fetch already in progress")

// Client talks to the SoundCloud REST API.
//
// Every authenticated call goes through [auth.Guard], so token refresh is
// transparent to callers. Page requests are spaced by a rate limiter and
// issued strictly one at a time.
type Client struct {
	baseURL  string
	http     *http.Client
	session  *auth.Session
	cache    *EntityCache
	logger   *log.Logger
	limiter  *rate.Limiter
	pageSize int

	mu       sync.Mutex
	inflight map[string]struct{}
}

// ClientOpts contains configuration options for creating a Client.
type ClientOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *log.Logger
	PageSize   int
	RateLimit  float64 // page requests per second
}

// NewClient creates a Client for the given session, caching entities in s.
func NewClient(session *auth.Session, s store.Store, opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 50
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 8
	}

	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		http:     opts.HTTPClient,
		session:  session,
		cache:    NewEntityCache(s),
		logger:   opts.Logger,
		limiter:  rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		pageSize: opts.PageSize,
		inflight: make(map[string]struct{}),
	}
}

// Cache exposes the client's entity cache.
func (c *Client) Cache() *EntityCache { return c.cache }

// doRequest performs an authenticated HTTP request against rawURL and decodes
// the JSON response into result when result is non-nil.
//
// rawURL is absolute because cursor pagination follows server-supplied
// next_href values verbatim.
func (c *Client) doRequest(ctx context.Context, method, rawURL string, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	headers, err := c.session.Headers()
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status %d for %s %s", shared.ErrAPIRequest, resp.StatusCode, method, rawURL)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
		}
	}

	return nil
}

// Track fetches a single track's metadata, serving from the entity cache when
// the cached generation is complete.
//
// A duplicate request while one is in flight for the same id returns
// [ErrFetchInProgress] without issuing a new request.
func (c *Client) Track(ctx context.Context, id string) (*models.Track, error) {
	if cached, ok, err := c.cache.ReadTrack(id); err != nil {
		c.logger.Warnf("cache read failed for track %s: %v", id, err)
	} else if ok {
		return &cached, nil
	}

	c.mu.Lock()
	if _, busy := c.inflight[id]; busy {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: track %s", ErrFetchInProgress, id)
	}
	c.inflight[id] = struct{}{}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inflight, id)
		c.mu.Unlock()
	}()

	track, err := auth.Guard(ctx, c.session, func(ctx context.Context) (*models.Track, error) {
		var t apiTrack
		if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("%s/tracks/%s", c.baseURL, id), &t); err != nil {
			return nil, err
		}
		normalized := t.normalize()
		return &normalized, nil
	})
	if err != nil {
		return nil, err
	}

	if err := c.cache.WriteTrack(*track); err != nil {
		c.logger.Warnf("cache write failed for track %s: %v", id, err)
	}

	return track, nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	return auth.Guard(ctx, c.session, func(ctx context.Context) (*models.User, error) {
		var u apiUser
		if err := c.doRequest(ctx, http.MethodGet, c.baseURL+"/me", &u); err != nil {
			return nil, err
		}
		normalized := u.normalize()
		return &normalized, nil
	})
}

// LikeTrack marks a track as liked for the authenticated user.
func (c *Client) LikeTrack(ctx context.Context, id string) error {
	return auth.GuardErr(ctx, c.session, func(ctx context.Context) error {
		return c.doRequest(ctx, http.MethodPost, fmt.Sprintf("%s/likes/tracks/%s", c.baseURL, id), nil)
	})
}

// UnlikeTrack removes a like from a track.
func (c *Client) UnlikeTrack(ctx context.Context, id string) error {
	return auth.GuardErr(ctx, c.session, func(ctx context.Context) error {
		return c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("%s/likes/tracks/%s", c.baseURL, id), nil)
	})
}

// FollowUser follows a user on behalf of the authenticated user.
func (c *Client) FollowUser(ctx context.Context, id string) error {
	return auth.GuardErr(ctx, c.session, func(ctx context.Context) error {
		return c.doRequest(ctx, http.MethodPost, fmt.Sprintf("%s/me/followings/%s", c.baseURL, id), nil)
	})
}

// UnfollowUser removes a user from the authenticated user's followings.
func (c *Client) UnfollowUser(ctx context.Context, id string) error {
	return auth.GuardErr(ctx, c.session, func(ctx context.Context) error {
		return c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("%s/me/followings/%s", c.baseURL, id), nil)
	})
}
