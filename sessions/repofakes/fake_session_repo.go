package repofakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-identity-service/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo is an in-memory sessions.Repo. Replace holds a single lock
// across the delete and insert, giving the same atomicity as the production
// upsert.
type FakeSessionRepo struct {
	byPair map[pairKey]*sessions.RefreshSession
	lock   sync.RWMutex
}

type pairKey struct {
	userID        string
	applicationID string
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		byPair: make(map[pairKey]*sessions.RefreshSession),
	}
}

func (sr *FakeSessionRepo) Replace(_ context.Context, session *sessions.RefreshSession) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	stored := *session
	sr.byPair[pairKey{session.UserID, session.ApplicationID}] = &stored
	return nil
}

func (sr *FakeSessionRepo) Find(_ context.Context, userID, applicationID string) (*sessions.RefreshSession, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	session, ok := sr.byPair[pairKey{userID, applicationID}]
	if !ok {
		return nil, sessions.ErrNotFound
	}
	result := *session
	return &result, nil
}

func (sr *FakeSessionRepo) Delete(_ context.Context, userID, applicationID string) (bool, error) {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	key := pairKey{userID, applicationID}
	_, ok := sr.byPair[key]
	delete(sr.byPair, key)
	return ok, nil
}

// Count returns the number of stored sessions. Test helper.
func (sr *FakeSessionRepo) Count() int {
	sr.lock.RLock()
	defer sr.lock.RUnlock()
	return len(sr.byPair)
}
