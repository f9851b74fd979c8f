package sessions

import "time"

// RefreshSession is the server-side record of a user's refresh token within an
// application. Only a one-way digest of the raw token is stored; the raw value
// lives in the client's cookie. At most one session exists per
// (UserID, ApplicationID) pair: a new login supersedes any prior session.
type RefreshSession struct {
	ID            string
	UserID        string
	ApplicationID string
	TokenHash     string
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsExpiredAt returns true if the session would be expired at the given time.
func (s *RefreshSession) IsExpiredAt(t time.Time) bool {
	return t.After(s.ExpiresAt)
}
