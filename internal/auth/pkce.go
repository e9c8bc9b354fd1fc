package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/desertthunder/sndx/internal/shared"
	"github.com/desertthunder/sndx/internal/store"
)

const (
	// verifierLength is the length of the generated PKCE code verifier.
	verifierLength = 56

	// verifierAlphabet is the character set the verifier is drawn from.
	verifierAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_"

	// challengeTTL bounds how long a login page stays usable. The verifier
	// and challenge share one TTL so they expire together.
	challengeTTL = 300 * time.Second

	keyVerifier  = "auth.code_verifier"
	keyChallenge = "auth.code_challenge"
)

// PKCE generates and caches verifier/challenge pairs for the authorization
// step of the OAuth flow.
type PKCE struct {
	store store.Store
}

// NewPKCE creates a PKCE generator backed by the given store.
func NewPKCE(s store.Store) *PKCE {
	return &PKCE{store: s}
}

// Challenge returns the current verifier/challenge pair, generating and
// caching a new one if none is live.
//
// Idempotent within the 300s window: a reloaded login page must not
// invalidate an in-flight flow.
func (p *PKCE) Challenge() (verifier, challenge string, err error) {
	verifier, okV, err := p.store.Get(keyVerifier)
	if err != nil {
		return "", "", err
	}
	challenge, okC, err := p.store.Get(keyChallenge)
	if err != nil {
		return "", "", err
	}
	if okV && okC {
		return verifier, challenge, nil
	}

	verifier, err = randomVerifier()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate code verifier: %w", err)
	}
	challenge = deriveChallenge(verifier)

	if err := p.store.Set(keyVerifier, verifier, challengeTTL); err != nil {
		return "", "", err
	}
	if err := p.store.Set(keyChallenge, challenge, challengeTTL); err != nil {
		return "", "", err
	}

	return verifier, challenge, nil
}

// Verifier returns the cached code verifier for an in-flight flow.
//
// Returns [shared.ErrFlowExpired] when the pair has aged out; the code
// exchange must fail cleanly rather than post a missing verifier.
func (p *PKCE) Verifier() (string, error) {
	verifier, ok, err := p.store.Get(keyVerifier)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: no code verifier cached", shared.ErrFlowExpired)
	}
	return verifier, nil
}

// Clear drops the cached pair. Called after a successful code exchange since
// the verifier is single-use.
func (p *PKCE) Clear() error {
	if err := p.store.Delete(keyVerifier); err != nil {
		return err
	}
	return p.store.Delete(keyChallenge)
}

// randomVerifier draws verifierLength characters from verifierAlphabet.
func randomVerifier() (string, error) {
	buf := make([]byte, verifierLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = verifierAlphabet[int(b)%len(verifierAlphabet)]
	}
	return string(buf), nil
}

// deriveChallenge computes the S256 challenge: unpadded URL-safe base64 of
// SHA-256(verifier).
func deriveChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
