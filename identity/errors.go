package identity

import "errors"

// Error kinds returned by the identity use cases. All are terminal for the
// current request; the transport layer maps each kind to a response status.
var (
	ErrApplicationNotFound  = errors.New("application not found")
	ErrApplicationInactive  = errors.New("application is not active")
	ErrClientSecretMismatch = errors.New("invalid client secret")

	// ErrInvalidCredentials covers unknown email, missing password provider
	// and wrong password identically, so callers cannot tell which occurred.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAssociated      = errors.New("user is not associated with this application")
	ErrBlocked            = errors.New("user is blocked in this application")
	ErrAlreadyAssociated  = errors.New("user already associated with this application")

	ErrSessionNotFound = errors.New("refresh session not found")
	ErrSessionExpired  = errors.New("refresh session expired")
	ErrInvalidSession  = errors.New("invalid refresh token")

	ErrInvalidGoogleCredential = errors.New("invalid google credential")
	ErrUserNotFound            = errors.New("user not found")
)
