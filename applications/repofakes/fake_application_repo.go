package repofakes

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-identity-service/applications"
)

var _ applications.Repo = (*FakeApplicationRepo)(nil)

type FakeApplicationRepo struct {
	apps      map[string]*applications.Application
	clientIds map[string]string // client id to application id
	lock      sync.RWMutex
}

func NewFakeApplicationRepo() *FakeApplicationRepo {
	return &FakeApplicationRepo{
		apps:      make(map[string]*applications.Application),
		clientIds: make(map[string]string),
	}
}

func (ar *FakeApplicationRepo) Create(_ context.Context, application *applications.Application) (*applications.Application, error) {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	if _, ok := ar.clientIds[application.ClientID]; ok {
		return nil, applications.ErrDuplicateClientID
	}

	if application.ID == "" {
		application.ID = uuid.New().String()
	}

	stored := *application
	ar.apps[stored.ID] = &stored
	ar.clientIds[stored.ClientID] = stored.ID

	result := stored
	return &result, nil
}

func (ar *FakeApplicationRepo) GetByClientID(_ context.Context, clientID string) (*applications.Application, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	id, ok := ar.clientIds[clientID]
	if !ok {
		return nil, applications.ErrNotFound
	}
	app := *ar.apps[id]
	return &app, nil
}

func (ar *FakeApplicationRepo) GetByID(_ context.Context, id string) (*applications.Application, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	app, ok := ar.apps[id]
	if !ok {
		return nil, applications.ErrNotFound
	}
	result := *app
	return &result, nil
}

func (ar *FakeApplicationRepo) SetActive(_ context.Context, id string, active bool) error {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	app, ok := ar.apps[id]
	if !ok {
		return applications.ErrNotFound
	}
	app.IsActive = active
	return nil
}

func (ar *FakeApplicationRepo) List(_ context.Context, offset, limit int) ([]*applications.Application, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	all := make([]*applications.Application, 0, len(ar.apps))
	for _, app := range ar.apps {
		result := *app
		all = append(all, &result)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })

	if offset >= len(all) {
		return []*applications.Application{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}
