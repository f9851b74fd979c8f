// Package googleauth validates Google Sign-In credentials (ID tokens posted by
// the client) against Google's public OIDC verification keys.
package googleauth

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
)

const googleIssuer = "https://accounts.google.com"

// Identity is the subset of Google ID token claims the service consumes.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// Verifier validates Google ID-token credentials.
type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewVerifier creates a Verifier for credentials issued to the given Google
// OAuth client id. It fetches Google's OIDC discovery document, so it needs
// outbound network access at construction time.
func NewVerifier(ctx context.Context, clientID string) (*Verifier, error) {
	if clientID == "" {
		return nil, errors.New("[NewVerifier] Google client id is required")
	}

	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, errors.Wrap(err, "[NewVerifier] failed to query Google OIDC discovery")
	}

	return &Verifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// VerifyCredential checks the credential's signature, issuer, audience and
// expiry, and returns the identity claims it carries.
func (v *Verifier) VerifyCredential(ctx context.Context, credential string) (*Identity, error) {
	idToken, err := v.verifier.Verify(ctx, credential)
	if err != nil {
		return nil, errors.Wrap(err, "google credential verification failed")
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, errors.Wrap(err, "failed to extract google claims")
	}

	return &Identity{
		Subject:       idToken.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		Picture:       claims.Picture,
	}, nil
}
