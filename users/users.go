package users

import (
	"strings"
	"time"
)

// ProviderType identifies how a user has proven their identity.
type ProviderType string

const (
	ProviderPassword ProviderType = "password"
	ProviderGoogle   ProviderType = "google"
)

// MembershipStatus is the state of a user within an application.
type MembershipStatus string

const (
	StatusActive  MembershipStatus = "active"
	StatusBlocked MembershipStatus = "blocked"
)

// DefaultRole is assigned when a membership is created through signup or
// first federated login.
const DefaultRole = "user"

// AuthProvider is one authentication method attached to a user. A user holds
// at most one entry per provider type. PasswordHash is set only for the
// password provider; ProviderUserID only for federated providers.
type AuthProvider struct {
	Provider       ProviderType `json:"provider"`
	PasswordHash   string       `json:"-"`
	ProviderUserID string       `json:"providerUserId,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// Membership links a user to an application, carrying their role and status
// within it. Memberships are never deleted; only the status changes.
type Membership struct {
	ApplicationID string           `json:"applicationId"`
	Role          string           `json:"role"`
	Status        MembershipStatus `json:"status"`
	Metadata      map[string]any   `json:"metadata,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// User is a global identity shared across applications. The email is
// normalized to lower case and globally unique.
type User struct {
	ID            string         `json:"id,omitempty"`
	Email         string         `json:"email"`
	EmailVerified bool           `json:"emailVerified"`
	AuthProviders []AuthProvider `json:"-"`
	Applications  []Membership   `json:"applications"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// NormalizeEmail lowercases and trims an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Provider returns the user's auth provider of the given type, or nil.
func (u *User) Provider(provider ProviderType) *AuthProvider {
	for i := range u.AuthProviders {
		if u.AuthProviders[i].Provider == provider {
			return &u.AuthProviders[i]
		}
	}
	return nil
}

// MembershipFor returns the user's membership in an application, or nil.
func (u *User) MembershipFor(applicationID string) *Membership {
	for i := range u.Applications {
		if u.Applications[i].ApplicationID == applicationID {
			return &u.Applications[i]
		}
	}
	return nil
}
