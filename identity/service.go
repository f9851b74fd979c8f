package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-identity-service/applications"
	"github.com/jrsteele09/go-identity-service/crypto"
	"github.com/jrsteele09/go-identity-service/googleauth"
	"github.com/jrsteele09/go-identity-service/sessions"
	"github.com/jrsteele09/go-identity-service/token"
	"github.com/jrsteele09/go-identity-service/users"
	"github.com/pkg/errors"
)

// GoogleVerifier validates a Google Sign-In credential and returns the
// identity it asserts. Implemented by googleauth.Verifier; faked in tests.
type GoogleVerifier interface {
	VerifyCredential(ctx context.Context, credential string) (*googleauth.Identity, error)
}

// Repos holds all repository dependencies for the identity Service
type Repos struct {
	Users        users.Repo        // Repository for user identities
	Applications applications.Repo // Repository for application (tenant) records
	Sessions     sessions.Repo     // Repository for refresh sessions
}

// TokenPair is the result of a successful login: a short-lived access token
// and the raw refresh token whose digest is stored server-side.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service orchestrates the authentication use cases: signup, password and
// Google login, refresh and logout. It holds no state of its own beyond its
// injected collaborators.
type Service struct {
	repos   Repos
	hasher  *crypto.Hasher
	tokens  *token.Issuer
	google  GoogleVerifier
	nowTime func() time.Time // nowTime function (injectable for testing)
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithGoogleVerifier wires the Google credential verifier. Without it,
// LoginGoogle fails with ErrInvalidGoogleCredential.
func WithGoogleVerifier(verifier GoogleVerifier) ServiceOption {
	return func(s *Service) {
		s.google = verifier
	}
}

// NewService initializes the identity Service with its required dependencies.
func NewService(repos Repos, hasher *crypto.Hasher, tokens *token.Issuer, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}
	if repos.Applications == nil {
		return nil, errors.New("[NewService] Applications repo is required")
	}
	if repos.Sessions == nil {
		return nil, errors.New("[NewService] Sessions repo is required")
	}
	if hasher == nil {
		return nil, errors.New("[NewService] hasher is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewService] token issuer is required")
	}

	service := &Service{
		repos:   repos,
		hasher:  hasher,
		tokens:  tokens,
		nowTime: time.Now,
	}

	for _, opt := range options {
		opt(service)
	}

	return service, nil
}

// issueTokens mints an access/refresh token pair and stores the refresh
// session, superseding any previous session for the (user, application) pair.
func (s *Service) issueTokens(ctx context.Context, user *users.User, app *applications.Application) (*TokenPair, error) {
	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.Email, app.ClientID)
	if err != nil {
		return nil, errors.Wrap(err, "issue access token")
	}

	refreshToken, err := s.tokens.IssueRefreshToken(user.ID, app.ClientID)
	if err != nil {
		return nil, errors.Wrap(err, "issue refresh token")
	}

	now := s.nowTime()
	err = s.repos.Sessions.Replace(ctx, &sessions.RefreshSession{
		ID:            uuid.New().String(),
		UserID:        user.ID,
		ApplicationID: app.ID,
		TokenHash:     s.hasher.HashToken(refreshToken),
		ExpiresAt:     now.Add(s.tokens.RefreshTokenExpiry()),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, errors.Wrap(err, "store refresh session")
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
