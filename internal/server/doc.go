// Package server implements the short-lived local HTTP server used by the
// CLI's OAuth login flow.
//
// The flow starts in cmd: a PKCE challenge is generated, the browser is
// opened on the provider's authorize URL, and a [BasicRouter] hosting an
// [OAuthHandler] waits on the redirect URI. The handler validates the CSRF
// state, redeems the one-time code through the auth session, and reports
// completion over a single-use result channel. The server is shut down as
// soon as a result arrives or the flow times out.
package server
