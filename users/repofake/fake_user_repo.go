package repofake

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-identity-service/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users    map[string]*users.User
	emailIds map[string]string // normalized email to user id
	lock     sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:    make(map[string]*users.User),
		emailIds: make(map[string]string),
	}
}

func (ur *FakeUserRepo) Create(_ context.Context, user *users.User) (*users.User, error) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	email := users.NormalizeEmail(user.Email)
	if _, ok := ur.emailIds[email]; ok {
		return nil, users.ErrDuplicateEmail
	}

	stored := cloneUser(user)
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	stored.Email = email

	ur.users[stored.ID] = stored
	ur.emailIds[email] = stored.ID
	return cloneUser(stored), nil
}

func (ur *FakeUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[users.NormalizeEmail(email)]
	if !ok {
		return nil, users.ErrNotFound
	}
	return cloneUser(ur.users[id]), nil
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return cloneUser(user), nil
}

func (ur *FakeUserRepo) SetProviders(_ context.Context, userID string, providers []users.AuthProvider) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[userID]
	if !ok {
		return users.ErrNotFound
	}
	user.AuthProviders = append([]users.AuthProvider(nil), providers...)
	return nil
}

func (ur *FakeUserRepo) AddMembership(_ context.Context, userID string, membership users.Membership) (*users.User, error) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[userID]
	if !ok {
		return nil, users.ErrNotFound
	}
	user.Applications = append(user.Applications, membership)
	return cloneUser(user), nil
}

func (ur *FakeUserRepo) SetProvidersAddMembership(_ context.Context, userID string, providers []users.AuthProvider, membership users.Membership) (*users.User, error) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[userID]
	if !ok {
		return nil, users.ErrNotFound
	}
	user.AuthProviders = append([]users.AuthProvider(nil), providers...)
	user.Applications = append(user.Applications, membership)
	return cloneUser(user), nil
}

func (ur *FakeUserRepo) SetMembershipStatus(_ context.Context, userID, applicationID string, status users.MembershipStatus) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[userID]
	if !ok {
		return users.ErrNotFound
	}
	for i := range user.Applications {
		if user.Applications[i].ApplicationID == applicationID {
			user.Applications[i].Status = status
			return nil
		}
	}
	return users.ErrNotFound
}

func cloneUser(user *users.User) *users.User {
	clone := *user
	clone.AuthProviders = append([]users.AuthProvider(nil), user.AuthProviders...)
	clone.Applications = append([]users.Membership(nil), user.Applications...)
	return &clone
}
