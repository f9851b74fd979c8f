package identity

import (
	"context"
	"errors"

	"github.com/jrsteele09/go-identity-service/applications"
	"github.com/jrsteele09/go-identity-service/users"
	pkgerrors "github.com/pkg/errors"
)

// Profile is the caller-visible view of a user within an application.
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Me returns the authenticated user's profile, including their role within
// the presenting application.
func (s *Service) Me(ctx context.Context, userID string, app *applications.Application) (*Profile, error) {
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, pkgerrors.Wrap(err, "Me GetByID")
	}

	role := ""
	if membership := user.MembershipFor(app.ID); membership != nil {
		role = membership.Role
	}

	return &Profile{
		ID:    user.ID,
		Email: user.Email,
		Role:  role,
	}, nil
}
