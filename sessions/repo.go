package sessions

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("session not found")

// Repo manages server-side refresh sessions, keyed on (userID, applicationID).
type Repo interface {
	// Replace atomically supersedes any existing session for the same
	// (user, application) pair with the given one. Concurrent calls for the
	// same pair must leave exactly one stored session.
	Replace(ctx context.Context, session *RefreshSession) error

	// Find returns the session for the pair, or ErrNotFound.
	Find(ctx context.Context, userID, applicationID string) (*RefreshSession, error)

	// Delete removes the session for the pair. Deleting an absent session is
	// not an error; the bool reports whether a session was present.
	Delete(ctx context.Context, userID, applicationID string) (bool, error)
}
