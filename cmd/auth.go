package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/sndx/internal/server"
	"github.com/desertthunder/sndx/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// AuthLogin performs the OAuth2 + PKCE authorization flow.
//
// Generates (or reuses) the cached challenge, starts a local HTTP server on
// the redirect URI, opens the browser, and waits for the callback handler to
// redeem the one-time code.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	sc := r.config.Credentials.SoundCloud
	if sc.ClientID == "" || sc.ClientSecret == "" {
		return fmt.Errorf("%w: client_id and client_secret must be set in config.toml", shared.ErrInvalidArgument)
	}

	if r.session.LoggedIn() && !cmd.Bool("force") {
		r.writePlain("Already logged in. Use --force to reauthorize.\n")
		return nil
	}

	_, challenge, err := r.session.PKCE().Challenge()
	if err != nil {
		return fmt.Errorf("failed to create code challenge: %w", err)
	}

	oauthConfig := &oauth2.Config{
		ClientID:     sc.ClientID,
		ClientSecret: sc.ClientSecret,
		RedirectURL:  sc.RedirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:  r.config.API.AuthBaseURL + "/authorize",
			TokenURL: r.config.API.AuthBaseURL + "/oauth/token",
		},
	}

	state := shared.GenerateState()
	authURL := oauthConfig.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", challenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)

	oauthHandler := server.NewOAuthHandler(r.session, state)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return fmt.Errorf("authorization failed: %w", result.Error())
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("You can now use: sndx tracks likes\n")

	return nil
}

// AuthLogout signs out remotely when possible and always clears local
// credential state.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if !r.session.LoggedIn() {
		r.writePlain("Not logged in.\n")
		return nil
	}

	if err := r.session.Logout(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	r.writePlain("✓ Logged out\n")
	return nil
}

// AuthStatus reports the current credential state.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if !r.session.LoggedIn() {
		r.writePlain("✗ Not logged in\n")
		return nil
	}

	r.writePlain("✓ Logged in\n")
	if r.session.AccessTokenExpired() {
		r.writePlain("Access token: expired (will refresh on next request)\n")
	} else {
		r.writePlain("Access token: valid\n")
	}

	if cmd.Bool("whoami") {
		me, err := r.client.Me(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
		r.writePlain("User: %s (%s)\n", me.Username, me.ID)
	}

	return nil
}

// AuthImport stores a static API key extracted from a browser cURL command.
func (r *Runner) AuthImport(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}
	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	var headers *shared.CurlHeaders
	var err error

	if curlFile != "" {
		headers, err = shared.ParseCurlFile(curlFile)
	} else {
		headers, err = shared.ParseCurlCommand([]byte(curlCmd))
	}
	if err != nil {
		return fmt.Errorf("failed to parse cURL command: %w", err)
	}

	key, err := headers.APIKey()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	if err := r.session.SetAPIKey(key); err != nil {
		return fmt.Errorf("failed to store api key: %w", err)
	}

	r.logger.Info("api key imported")
	r.writePlain("✓ API key stored\n")

	return nil
}
