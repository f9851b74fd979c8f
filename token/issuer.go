package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Default token lifetimes.
const (
	DefaultAccessTokenExpiry  = 30 * time.Minute
	DefaultRefreshTokenExpiry = 3 * 24 * time.Hour
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims are the verified contents of an access or refresh token. The audience
// is the client id of the application the token was issued for.
type Claims struct {
	UserID    string
	Email     string
	Audience  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issuer signs and verifies access and refresh tokens with a single Signer.
type Issuer struct {
	signer             Signer
	issuer             string
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	nowFunc            func() time.Time
}

// IssuerOption defines a function type to modify the Issuer instance.
type IssuerOption func(*Issuer)

// WithTokenExpiry sets the access and refresh token lifetimes.
func WithTokenExpiry(accessTokenExpiry, refreshTokenExpiry time.Duration) IssuerOption {
	return func(i *Issuer) {
		i.accessTokenExpiry = accessTokenExpiry
		i.refreshTokenExpiry = refreshTokenExpiry
	}
}

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowFunc = now
	}
}

// NewIssuer creates a token Issuer. Missing signing material is a startup
// precondition failure, not a per-request error.
func NewIssuer(signer Signer, issuer string, options ...IssuerOption) (*Issuer, error) {
	if signer == nil {
		return nil, errors.New("[NewIssuer] signer is required")
	}

	i := &Issuer{
		signer:             signer,
		issuer:             issuer,
		accessTokenExpiry:  DefaultAccessTokenExpiry,
		refreshTokenExpiry: DefaultRefreshTokenExpiry,
		nowFunc:            time.Now,
	}

	for _, opt := range options {
		opt(i)
	}

	return i, nil
}

// IssueAccessToken creates a signed access token for a user within an
// application. Lifetime is 30 minutes unless configured otherwise.
func (i *Issuer) IssueAccessToken(userID, email, audience string) (string, error) {
	now := i.nowFunc()
	claims := jwt.MapClaims{
		"iss":   i.issuer,
		"sub":   userID,
		"email": email,
		"aud":   audience,
		"iat":   now.Unix(),
		"exp":   now.Add(i.accessTokenExpiry).Unix(),
		"jti":   uuid.New().String(),
	}
	return i.signer.Sign(claims)
}

// IssueRefreshToken creates a signed refresh token. Refresh claims mirror the
// access token without the email. Lifetime is 3 days unless configured
// otherwise.
func (i *Issuer) IssueRefreshToken(userID, audience string) (string, error) {
	now := i.nowFunc()
	claims := jwt.MapClaims{
		"iss": i.issuer,
		"sub": userID,
		"aud": audience,
		"iat": now.Unix(),
		"exp": now.Add(i.refreshTokenExpiry).Unix(),
		"jti": uuid.New().String(),
	}
	return i.signer.Sign(claims)
}

// RefreshTokenExpiry returns the configured refresh token lifetime.
func (i *Issuer) RefreshTokenExpiry() time.Duration {
	return i.refreshTokenExpiry
}

// Verify parses a signed token, checks its signature and expiry, and returns
// its claims.
func (i *Issuer) Verify(raw string) (*Claims, error) {
	return i.verify(raw, true)
}

// VerifyAllowExpired parses a signed token checking the signature but not the
// expiry. The refresh endpoint uses it: the caller's access token may have
// lapsed, which is the reason they are refreshing.
func (i *Issuer) VerifyAllowExpired(raw string) (*Claims, error) {
	return i.verify(raw, false)
}

func (i *Issuer) verify(raw string, enforceExpiry bool) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{i.signer.GetSigningMethod().Alg()}),
		jwt.WithTimeFunc(i.nowFunc),
	}
	if enforceExpiry {
		options = append(options, jwt.WithIssuer(i.issuer))
	} else {
		options = append(options, jwt.WithoutClaimsValidation())
	}

	parsed, err := jwt.Parse(raw, i.signer.GetVerificationKey, options...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	if sub, err := mapClaims.GetSubject(); err == nil {
		claims.UserID = sub
	}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if aud, err := mapClaims.GetAudience(); err == nil && len(aud) > 0 {
		claims.Audience = aud[0]
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	if claims.UserID == "" || claims.Audience == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
