package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-identity-service/applications"
	"github.com/jrsteele09/go-identity-service/users"
	pkgerrors "github.com/pkg/errors"
)

// Login authenticates a user by email and password within an application and
// returns a fresh token pair. Unknown email, missing password provider and
// wrong password all surface as ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string, app *applications.Application) (*TokenPair, error) {
	user, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, pkgerrors.Wrap(err, "Login GetByEmail")
	}

	provider := user.Provider(users.ProviderPassword)
	if provider == nil || provider.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.CheckPassword(password, provider.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	membership := user.MembershipFor(app.ID)
	if membership == nil {
		return nil, ErrNotAssociated
	}
	if membership.Status != users.StatusActive {
		return nil, ErrBlocked
	}

	return s.issueTokens(ctx, user, app)
}

// LoginGoogle authenticates a user with a Google Sign-In credential. A
// brand-new email auto-creates the user; a first login against an application
// auto-enrolls the membership, unlike the password flow which requires an
// explicit signup.
func (s *Service) LoginGoogle(ctx context.Context, credential string, app *applications.Application) (*TokenPair, error) {
	if s.google == nil {
		return nil, ErrInvalidGoogleCredential
	}

	googleIdentity, err := s.google.VerifyCredential(ctx, credential)
	if err != nil || googleIdentity.Email == "" {
		return nil, ErrInvalidGoogleCredential
	}

	user, err := s.repos.Users.GetByEmail(ctx, googleIdentity.Email)
	if err != nil {
		if !errors.Is(err, users.ErrNotFound) {
			return nil, pkgerrors.Wrap(err, "LoginGoogle GetByEmail")
		}
		user, err = s.createGoogleUser(ctx, googleIdentity.Email, googleIdentity.Subject, app)
	} else {
		user, err = s.enrollGoogleUser(ctx, user, googleIdentity.Subject, app)
	}
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user, app)
}

// createGoogleUser registers a brand-new federated user. The google provider
// and the membership for the presenting application land in the one Create.
func (s *Service) createGoogleUser(ctx context.Context, email, subject string, app *applications.Application) (*users.User, error) {
	now := s.nowTime()
	user, err := s.repos.Users.Create(ctx, &users.User{
		ID:            uuid.New().String(),
		Email:         users.NormalizeEmail(email),
		EmailVerified: true,
		AuthProviders: []users.AuthProvider{{
			Provider:       users.ProviderGoogle,
			ProviderUserID: subject,
			CreatedAt:      now,
		}},
		Applications: []users.Membership{{
			ApplicationID: app.ID,
			Role:          users.DefaultRole,
			Status:        users.StatusActive,
			CreatedAt:     now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "LoginGoogle Create")
	}
	return user, nil
}

// enrollGoogleUser links the google provider and the application membership
// onto an existing account as needed, without touching any password provider
// it may hold. When both are missing they are written together, so a failure
// cannot commit one without the other.
func (s *Service) enrollGoogleUser(ctx context.Context, user *users.User, subject string, app *applications.Application) (*users.User, error) {
	membership := user.MembershipFor(app.ID)
	if membership != nil && membership.Status != users.StatusActive {
		return nil, ErrBlocked
	}

	var providers []users.AuthProvider
	if user.Provider(users.ProviderGoogle) == nil {
		providers = append(user.AuthProviders, users.AuthProvider{
			Provider:       users.ProviderGoogle,
			ProviderUserID: subject,
			CreatedAt:      s.nowTime(),
		})
	}

	newMembership := users.Membership{
		ApplicationID: app.ID,
		Role:          users.DefaultRole,
		Status:        users.StatusActive,
		CreatedAt:     s.nowTime(),
	}

	switch {
	case providers != nil && membership == nil:
		updated, err := s.repos.Users.SetProvidersAddMembership(ctx, user.ID, providers, newMembership)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "LoginGoogle SetProvidersAddMembership")
		}
		return updated, nil

	case providers != nil:
		if err := s.repos.Users.SetProviders(ctx, user.ID, providers); err != nil {
			return nil, pkgerrors.Wrap(err, "LoginGoogle SetProviders")
		}
		user.AuthProviders = providers
		return user, nil

	case membership == nil:
		updated, err := s.repos.Users.AddMembership(ctx, user.ID, newMembership)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "LoginGoogle AddMembership")
		}
		return updated, nil
	}

	return user, nil
}
