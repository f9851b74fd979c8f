package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-identity-service/applications"
	"github.com/jrsteele09/go-identity-service/users"
	pkgerrors "github.com/pkg/errors"
)

// Signup registers a user with a password credential within an application.
// A user known from another application (or from a federated login) joins the
// application under the same global identity; a user already associated with
// the application fails with ErrAlreadyAssociated.
func (s *Service) Signup(ctx context.Context, email, password string, app *applications.Application) (*users.User, error) {
	existing, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, users.ErrNotFound) {
			return nil, pkgerrors.Wrap(err, "Signup GetByEmail")
		}
		return s.signupNewUser(ctx, email, password, app)
	}
	return s.signupExistingUser(ctx, existing, password, app)
}

func (s *Service) signupNewUser(ctx context.Context, email, password string, app *applications.Application) (*users.User, error) {
	passwordHash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Signup HashPassword")
	}

	now := s.nowTime()
	return s.repos.Users.Create(ctx, &users.User{
		ID:            uuid.New().String(),
		Email:         users.NormalizeEmail(email),
		EmailVerified: false,
		AuthProviders: []users.AuthProvider{{
			Provider:     users.ProviderPassword,
			PasswordHash: passwordHash,
			CreatedAt:    now,
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
}

func (s *Service) signupExistingUser(ctx context.Context, user *users.User, password string, app *applications.Application) (*users.User, error) {
	if user.MembershipFor(app.ID) != nil {
		return nil, ErrAlreadyAssociated
	}

	membership := users.Membership{
		ApplicationID: app.ID,
		Role:          users.DefaultRole,
		Status:        users.StatusActive,
		CreatedAt:     s.nowTime(),
	}

	// A user who first registered through a federated provider can add a
	// password here. The provider link and the membership land in one write,
	// so a failed request cannot commit the password without the membership.
	if user.Provider(users.ProviderPassword) == nil {
		passwordHash, err := s.hasher.HashPassword(password)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "Signup HashPassword")
		}

		providers := append(user.AuthProviders, users.AuthProvider{
			Provider:     users.ProviderPassword,
			PasswordHash: passwordHash,
			CreatedAt:    s.nowTime(),
		})
		updated, err := s.repos.Users.SetProvidersAddMembership(ctx, user.ID, providers, membership)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "Signup SetProvidersAddMembership")
		}
		return updated, nil
	}

	updated, err := s.repos.Users.AddMembership(ctx, user.ID, membership)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Signup AddMembership")
	}
	return updated, nil
}
