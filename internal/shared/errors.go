package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	//
	// ErrNotConfigured means no credential exists at all, which is distinct
	// from an expired one. ErrTokenExpired is recoverable via refresh and is
	// handled inside auth.Guard; ErrRefreshFailed is terminal and forces a
	// local logout. ErrFlowExpired means the PKCE verifier aged out before
	// the authorization code came back.
	ErrNotConfigured = fmt.Errorf("no credentials configured")
	ErrTokenExpired  = fmt.Errorf("access token expired")
	ErrRefreshFailed = fmt.Errorf("token refresh failed")
	ErrFlowExpired   = fmt.Errorf("authorization flow expired")
	ErrAuthFailed    = fmt.Errorf("authentication failed")
	ErrTimeout       = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest        = fmt.Errorf("API request failed")
	ErrMalformedResponse = fmt.Errorf("malformed API response")
	ErrTrackNotFound     = fmt.Errorf("track not found")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
