package identity

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/jrsteele09/go-identity-service/applications"
)

// ResolveApplication looks up an active application by its public client id.
// Used by flows that authenticate the caller through an access token rather
// than the client secret.
func (s *Service) ResolveApplication(ctx context.Context, clientID string) (*applications.Application, error) {
	app, err := s.repos.Applications.GetByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, applications.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	if !app.IsActive {
		return nil, ErrApplicationInactive
	}
	return app, nil
}

// AuthenticateApplication resolves an active application and validates its
// client secret. The secret comparison runs in constant time with respect to
// the secret contents; a length mismatch short-circuits to failure without
// comparing bytes.
func (s *Service) AuthenticateApplication(ctx context.Context, clientID, clientSecret string) (*applications.Application, error) {
	app, err := s.ResolveApplication(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if !secretsEqual(clientSecret, app.ClientSecret) {
		return nil, ErrClientSecretMismatch
	}

	return app, nil
}

func secretsEqual(supplied, stored string) bool {
	if len(supplied) != len(stored) || stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(stored)) == 1
}
