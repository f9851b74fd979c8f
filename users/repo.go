package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// Repo manages User persistence. Implementations must treat the normalized
// email as globally unique and must not commit partial updates: a failed
// Update or AddMembership leaves the stored record untouched.
type Repo interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)

	// SetProviders replaces the user's auth provider list.
	SetProviders(ctx context.Context, userID string, providers []AuthProvider) error

	// AddMembership appends an application membership and returns the
	// updated user.
	AddMembership(ctx context.Context, userID string, membership Membership) (*User, error)

	// SetProvidersAddMembership replaces the provider list and appends an
	// application membership in a single atomic write, returning the updated
	// user. A failure commits neither change.
	SetProvidersAddMembership(ctx context.Context, userID string, providers []AuthProvider, membership Membership) (*User, error)

	// SetMembershipStatus updates the status of an existing membership.
	SetMembershipStatus(ctx context.Context, userID, applicationID string, status MembershipStatus) error
}
