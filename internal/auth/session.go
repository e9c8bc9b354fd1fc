// package auth implements the credential lifecycle for the SoundCloud API:
// PKCE challenge generation, token exchange and refresh, logout, and the
// refresh-and-retry guard applied to authenticated operations.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sndx/internal/shared"
	"github.com/desertthunder/sndx/internal/store"
)

const (
	keyAccessToken  = "auth.access_token"
	keyRefreshToken = "auth.refresh_token"
	keyAPIKey       = "auth.api_key"

	// expiryMargin shortens the cached access token's lifetime so it is
	// treated as expired slightly before the server invalidates it.
	expiryMargin = 60 * time.Second
)

// Endpoints holds the token and sign-out URLs of the authorization server.
type Endpoints struct {
	Token   string
	SignOut string
}

// Session manages the credential lifecycle: exactly one of a static API key
// or a refresh token is the basis of "logged in". Access tokens are
// short-lived, cached with a safety margin, and never persisted past expiry.
type Session struct {
	cfg       shared.SoundCloudConfig
	endpoints Endpoints
	store     store.Store
	pkce      *PKCE
	http      *http.Client
	logger    *log.Logger

	// refreshMu serializes refreshes so two callers racing on an expired
	// token cannot overwrite each other's new credentials.
	refreshMu sync.Mutex
}

// NewSession creates a Session. A nil client defaults to a 30s-timeout
// client; the fixed timeout is the only cancellation beyond ctx.
func NewSession(cfg shared.SoundCloudConfig, endpoints Endpoints, s store.Store, client *http.Client, logger *log.Logger) *Session {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	sess := &Session{
		cfg:       cfg,
		endpoints: endpoints,
		store:     s,
		pkce:      NewPKCE(s),
		http:      client,
		logger:    logger,
	}

	// A key from config is authoritative; persist it so LoggedIn holds
	// across restarts without re-reading config.
	if cfg.APIKey != "" {
		if err := s.Set(keyAPIKey, cfg.APIKey, 0); err != nil {
			logger.Warnf("failed to persist api key: %v", err)
		}
	}

	return sess
}

// PKCE exposes the session's challenge generator for the login flow.
func (s *Session) PKCE() *PKCE { return s.pkce }

// tokenResponse is the token endpoint's success payload.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// LoggedIn reports whether a login-basis credential exists: a static API key
// or a refresh token. A cached access token alone does not count.
func (s *Session) LoggedIn() bool {
	if _, ok, _ := s.store.Get(keyAPIKey); ok {
		return true
	}
	_, ok, _ := s.store.Get(keyRefreshToken)
	return ok
}

// AccessTokenExpired reports whether an authenticated call needs a refresh
// first.
//
// Always false with an API key (never expires); false while a live access
// token is cached; true when only a refresh token remains, and true in the
// degenerate no-credential case.
func (s *Session) AccessTokenExpired() bool {
	if _, ok, _ := s.store.Get(keyAPIKey); ok {
		return false
	}
	if _, ok, _ := s.store.Get(keyAccessToken); ok {
		return false
	}
	return true
}

// ExchangeCode redeems a one-time authorization code for tokens using the
// cached PKCE verifier.
//
// Fails with [shared.ErrFlowExpired] before any network call when the
// verifier has aged out. On a failed exchange the credential state is left
// unchanged, so the user simply remains logged out.
func (s *Session) ExchangeCode(ctx context.Context, code string) error {
	verifier, err := s.pkce.Verifier()
	if err != nil {
		return err
	}

	form := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {s.cfg.ClientID},
		"client_secret": {s.cfg.ClientSecret},
		"redirect_uri":  {s.cfg.RedirectURI},
		"code_verifier": {verifier},
		"code":          {code},
	}

	token, err := s.postToken(ctx, form)
	if err != nil {
		s.logger.Errorf("authorization code exchange failed: %v", err)
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := s.storeToken(token); err != nil {
		return err
	}

	// The verifier is single-use once a code has been redeemed.
	if err := s.pkce.Clear(); err != nil {
		s.logger.Warnf("failed to clear pkce state: %v", err)
	}

	s.logger.Info("authorization successful")
	return nil
}

// Refresh mints a new access token from the refresh token.
//
// A no-op while a valid access token exists, so the loser of a concurrent
// refresh race skips its own exchange. A failed exchange removes the refresh
// token — the credential is presumed revoked and the forced logout surfaces
// as [shared.ErrRefreshFailed].
func (s *Session) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if !s.AccessTokenExpired() {
		return nil
	}

	refresh, ok, err := s.store.Get(keyRefreshToken)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no refresh token", shared.ErrNotConfigured)
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {s.cfg.ClientID},
		"client_secret": {s.cfg.ClientSecret},
		"refresh_token": {refresh},
	}

	token, err := s.postToken(ctx, form)
	if err != nil {
		s.logger.Errorf("token refresh failed, forcing logout: %v", err)
		if delErr := s.store.Delete(keyRefreshToken); delErr != nil {
			s.logger.Warnf("failed to remove refresh token: %v", delErr)
		}
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	return s.storeToken(token)
}

// Logout invalidates the session server-side when possible and always clears
// local credential state.
//
// Remote failures are downgraded to warnings: logout is locally
// authoritative.
func (s *Session) Logout(ctx context.Context) error {
	if s.LoggedIn() {
		if s.AccessTokenExpired() {
			if err := s.Refresh(ctx); err != nil {
				s.logger.Warnf("could not refresh before sign-out: %v", err)
			}
		}

		if credential, err := s.currentCredential(); err == nil {
			if err := s.postSignOut(ctx, credential); err != nil {
				s.logger.Warnf("remote sign-out failed: %v", err)
			}
		}
	}

	for _, key := range []string{keyAccessToken, keyRefreshToken, keyAPIKey} {
		if err := s.store.Delete(key); err != nil {
			return err
		}
	}
	if err := s.pkce.Clear(); err != nil {
		return err
	}

	s.logger.Info("logged out")
	return nil
}

// Headers returns the authorization headers for an API request.
//
// An API key uses the OAuth scheme and takes precedence; otherwise the cached
// access token is used as a bearer token. Callers must have ensured
// non-expiry via [Guard] first.
func (s *Session) Headers() (map[string]string, error) {
	if key, ok, err := s.store.Get(keyAPIKey); err != nil {
		return nil, err
	} else if ok {
		return map[string]string{"Authorization": "OAuth " + key}, nil
	}

	if token, ok, err := s.store.Get(keyAccessToken); err != nil {
		return nil, err
	} else if ok {
		return map[string]string{"Authorization": "Bearer " + token}, nil
	}

	return nil, shared.ErrNotConfigured
}

// currentCredential returns the value the sign-out endpoint expects: the API
// key if present, else the access token.
func (s *Session) currentCredential() (string, error) {
	if key, ok, err := s.store.Get(keyAPIKey); err != nil {
		return "", err
	} else if ok {
		return key, nil
	}
	if token, ok, err := s.store.Get(keyAccessToken); err != nil {
		return "", err
	} else if ok {
		return token, nil
	}
	return "", shared.ErrNotConfigured
}

// SetAPIKey stores a static API key as the durable login credential.
func (s *Session) SetAPIKey(key string) error {
	return s.store.Set(keyAPIKey, key, 0)
}

// storeToken caches the access token for its declared lifetime minus the
// safety margin and persists the refresh token durably.
func (s *Session) storeToken(token *tokenResponse) error {
	ttl := time.Duration(token.ExpiresIn)*time.Second - expiryMargin
	if ttl <= 0 {
		// Token already inside the margin; do not cache a dead token.
		s.logger.Warnf("token lifetime %ds inside expiry margin", token.ExpiresIn)
	} else if err := s.store.Set(keyAccessToken, token.AccessToken, ttl); err != nil {
		return err
	}

	if token.RefreshToken != "" {
		if err := s.store.Set(keyRefreshToken, token.RefreshToken, 0); err != nil {
			return err
		}
	}

	return nil
}

// postToken posts a form to the token endpoint and decodes the response.
func (s *Session) postToken(ctx context.Context, form url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoints.Token, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", shared.ErrMalformedResponse)
	}

	return &token, nil
}

// postSignOut notifies the authorization server that the credential should be
// invalidated.
func (s *Session) postSignOut(ctx context.Context, credential string) error {
	body, err := json.Marshal(map[string]string{"access_token": credential})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoints.SignOut, strings.NewReader(string(body)))
	if err != nil {
		return fmt.Errorf("failed to create sign-out request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sign-out endpoint returned status %d", resp.StatusCode)
	}

	return nil
}
