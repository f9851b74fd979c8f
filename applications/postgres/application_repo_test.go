package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-identity-service/applications"
	"github.com/jrsteele09/go-identity-service/applications/postgres"
)

var applicationColumns = []string{"id", "name", "client_id", "client_secret", "scopes", "is_active", "created_at", "updated_at"}

func testApplication() *applications.Application {
	now := time.Now().Truncate(time.Second)
	return &applications.Application{
		ID:           "app-1",
		Name:         "Test App",
		ClientID:     "client-id-1",
		ClientSecret: "client-secret-1",
		Scopes:       []string{"read"},
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func applicationRow(app *applications.Application) *pgxmock.Rows {
	return pgxmock.NewRows(applicationColumns).
		AddRow(app.ID, app.Name, app.ClientID, app.ClientSecret, app.Scopes,
			app.IsActive, app.CreatedAt, app.UpdatedAt)
}

func TestCreateInsertsApplication(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	app := testApplication()
	mock.ExpectExec("INSERT INTO applications").
		WithArgs(app.ID, app.Name, app.ClientID, app.ClientSecret, app.Scopes,
			app.IsActive, app.CreatedAt, app.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := postgres.NewApplicationRepo(mock)
	created, err := repo.Create(context.Background(), app)
	require.NoError(t, err)
	require.Equal(t, app, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMapsUniqueViolation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	app := testApplication()
	mock.ExpectExec("INSERT INTO applications").
		WithArgs(app.ID, app.Name, app.ClientID, app.ClientSecret, app.Scopes,
			app.IsActive, app.CreatedAt, app.UpdatedAt).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	repo := postgres.NewApplicationRepo(mock)
	_, err = repo.Create(context.Background(), app)
	require.ErrorIs(t, err, applications.ErrDuplicateClientID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByClientID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	app := testApplication()
	mock.ExpectQuery("SELECT (.+) FROM applications").
		WithArgs(app.ClientID).
		WillReturnRows(applicationRow(app))

	repo := postgres.NewApplicationRepo(mock)
	found, err := repo.GetByClientID(context.Background(), app.ClientID)
	require.NoError(t, err)
	require.Equal(t, app, found)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByClientIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM applications").
		WithArgs("no-such-client").
		WillReturnRows(pgxmock.NewRows(applicationColumns))

	repo := postgres.NewApplicationRepo(mock)
	_, err = repo.GetByClientID(context.Background(), "no-such-client")
	require.ErrorIs(t, err, applications.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetActive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE applications SET is_active").
		WithArgs("app-1", false).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE applications SET is_active").
		WithArgs("no-such-app", false).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := postgres.NewApplicationRepo(mock)
	require.NoError(t, repo.SetActive(context.Background(), "app-1", false))
	require.ErrorIs(t, repo.SetActive(context.Background(), "no-such-app", false), applications.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListPaginates(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	app := testApplication()
	mock.ExpectQuery("SELECT (.+) FROM applications").
		WithArgs(0, 10).
		WillReturnRows(applicationRow(app))

	repo := postgres.NewApplicationRepo(mock)
	listed, err := repo.List(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, app, listed[0])
	require.NoError(t, mock.ExpectationsWereMet())
}
