package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jrsteele09/go-identity-service/applications"
	pkgerrors "github.com/pkg/errors"
)

// DB is the subset of pgxpool.Pool used by the repository. It is satisfied by
// *pgxpool.Pool and by pgxmock pools in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ applications.Repo = (*ApplicationRepo)(nil)

// ApplicationRepo implements applications.Repo using PostgreSQL.
type ApplicationRepo struct {
	db DB
}

// NewApplicationRepo creates a new PostgreSQL-backed application repository.
func NewApplicationRepo(db DB) *ApplicationRepo {
	return &ApplicationRepo{db: db}
}

const applicationColumns = `id, name, client_id, client_secret, scopes, is_active, created_at, updated_at`

func (ar *ApplicationRepo) Create(ctx context.Context, application *applications.Application) (*applications.Application, error) {
	_, err := ar.db.Exec(ctx, `
		INSERT INTO applications (id, name, client_id, client_secret, scopes, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		application.ID,
		application.Name,
		application.ClientID,
		application.ClientSecret,
		application.Scopes,
		application.IsActive,
		application.CreatedAt,
		application.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, applications.ErrDuplicateClientID
		}
		return nil, pkgerrors.Wrap(err, "ApplicationRepo.Create")
	}

	stored := *application
	return &stored, nil
}

func (ar *ApplicationRepo) GetByClientID(ctx context.Context, clientID string) (*applications.Application, error) {
	row := ar.db.QueryRow(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE client_id = $1
	`, clientID)
	return scanApplication(row)
}

func (ar *ApplicationRepo) GetByID(ctx context.Context, id string) (*applications.Application, error) {
	row := ar.db.QueryRow(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE id = $1
	`, id)
	return scanApplication(row)
}

func (ar *ApplicationRepo) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := ar.db.Exec(ctx, `
		UPDATE applications SET is_active = $2, updated_at = now() WHERE id = $1
	`, id, active)
	if err != nil {
		return pkgerrors.Wrap(err, "ApplicationRepo.SetActive")
	}
	if tag.RowsAffected() == 0 {
		return applications.ErrNotFound
	}
	return nil
}

func (ar *ApplicationRepo) List(ctx context.Context, offset, limit int) ([]*applications.Application, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := ar.db.Query(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		ORDER BY created_at
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "ApplicationRepo.List")
	}
	defer rows.Close()

	result := []*applications.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, app)
	}
	return result, rows.Err()
}

func scanApplication(row pgx.Row) (*applications.Application, error) {
	var app applications.Application
	err := row.Scan(
		&app.ID,
		&app.Name,
		&app.ClientID,
		&app.ClientSecret,
		&app.Scopes,
		&app.IsActive,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, applications.ErrNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "scanApplication")
	}
	return &app, nil
}
