package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-identity-service/sessions"
	"github.com/jrsteele09/go-identity-service/sessions/postgres"
)

func testSession() *sessions.RefreshSession {
	now := time.Now().Truncate(time.Second)
	return &sessions.RefreshSession{
		ID:            "session-1",
		UserID:        "user-1",
		ApplicationID: "app-1",
		TokenHash:     "token-hash",
		ExpiresAt:     now.Add(72 * time.Hour),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestReplaceUpserts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	session := testSession()
	mock.ExpectExec("INSERT INTO refresh_sessions").
		WithArgs(session.ID, session.UserID, session.ApplicationID, session.TokenHash,
			session.ExpiresAt, session.CreatedAt, session.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := postgres.NewSessionRepo(mock)
	require.NoError(t, repo.Replace(context.Background(), session))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindReturnsSession(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	session := testSession()
	rows := pgxmock.NewRows([]string{"id", "user_id", "application_id", "token_hash", "expires_at", "created_at", "updated_at"}).
		AddRow(session.ID, session.UserID, session.ApplicationID, session.TokenHash,
			session.ExpiresAt, session.CreatedAt, session.UpdatedAt)
	mock.ExpectQuery("SELECT id, user_id, application_id").
		WithArgs(session.UserID, session.ApplicationID).
		WillReturnRows(rows)

	repo := postgres.NewSessionRepo(mock)
	found, err := repo.Find(context.Background(), session.UserID, session.ApplicationID)
	require.NoError(t, err)
	require.Equal(t, session, found)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, user_id, application_id").
		WithArgs("user-1", "app-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "application_id", "token_hash", "expires_at", "created_at", "updated_at"}))

	repo := postgres.NewSessionRepo(mock)
	_, err = repo.Find(context.Background(), "user-1", "app-1")
	require.ErrorIs(t, err, sessions.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReportsPresence(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM refresh_sessions").
		WithArgs("user-1", "app-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM refresh_sessions").
		WithArgs("user-1", "app-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := postgres.NewSessionRepo(mock)

	deleted, err := repo.Delete(context.Background(), "user-1", "app-1")
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = repo.Delete(context.Background(), "user-1", "app-1")
	require.NoError(t, err)
	require.False(t, deleted)

	require.NoError(t, mock.ExpectationsWereMet())
}
