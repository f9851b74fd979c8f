package applications

import "context"

// Repo manages Application persistence. Applications are looked up by their
// public client ID on every tenant-scoped request.
type Repo interface {
	Create(ctx context.Context, application *Application) (*Application, error)
	GetByClientID(ctx context.Context, clientID string) (*Application, error)
	GetByID(ctx context.Context, id string) (*Application, error)
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, offset, limit int) ([]*Application, error)
}
