package identity

import (
	"context"
	"errors"

	"github.com/jrsteele09/go-identity-service/sessions"
	"github.com/jrsteele09/go-identity-service/users"
	pkgerrors "github.com/pkg/errors"
)

// Refresh exchanges a valid refresh session for a new access token. The
// caller's identity and audience come from already-verified access-token
// claims; the raw refresh token arrives out-of-band (a cookie). The stored
// session is left unchanged: refresh tokens are not rotated on use.
func (s *Service) Refresh(ctx context.Context, userID, audience, rawRefreshToken string) (string, error) {
	app, err := s.ResolveApplication(ctx, audience)
	if err != nil {
		if errors.Is(err, ErrApplicationNotFound) {
			return "", ErrApplicationInactive
		}
		return "", err
	}

	session, err := s.repos.Sessions.Find(ctx, userID, app.ID)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return "", ErrSessionNotFound
		}
		return "", pkgerrors.Wrap(err, "Refresh Find")
	}

	if session.IsExpiredAt(s.nowTime()) {
		return "", ErrSessionExpired
	}

	if !s.hasher.CheckToken(rawRefreshToken, session.TokenHash) {
		return "", ErrInvalidSession
	}

	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", pkgerrors.Wrap(err, "Refresh GetByID")
	}

	membership := user.MembershipFor(app.ID)
	if membership == nil || membership.Status != users.StatusActive {
		return "", ErrBlocked
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.Email, app.ClientID)
	if err != nil {
		return "", pkgerrors.Wrap(err, "Refresh IssueAccessToken")
	}
	return accessToken, nil
}

// Logout deletes the user's refresh session within an application. Deleting an
// absent session is a no-op success.
func (s *Service) Logout(ctx context.Context, userID, applicationID string) error {
	_, err := s.repos.Sessions.Delete(ctx, userID, applicationID)
	return pkgerrors.Wrap(err, "Logout Delete")
}
