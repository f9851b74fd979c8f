package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jrsteele09/go-identity-service/sessions"
	pkgerrors "github.com/pkg/errors"
)

// DB is the subset of pgxpool.Pool used by the repository. Satisfied by
// *pgxpool.Pool and by pgxmock pools in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ sessions.Repo = (*SessionRepo)(nil)

// SessionRepo implements sessions.Repo using PostgreSQL. The single-session
// invariant rests on a unique index over (user_id, application_id); Replace is
// a single upsert statement, so concurrent logins for the same pair cannot
// leave two rows.
type SessionRepo struct {
	db DB
}

// NewSessionRepo creates a new PostgreSQL-backed session repository.
func NewSessionRepo(db DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (sr *SessionRepo) Replace(ctx context.Context, session *sessions.RefreshSession) error {
	_, err := sr.db.Exec(ctx, `
		INSERT INTO refresh_sessions (id, user_id, application_id, token_hash, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, application_id) DO UPDATE
		SET id = EXCLUDED.id,
		    token_hash = EXCLUDED.token_hash,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = EXCLUDED.updated_at
	`,
		session.ID,
		session.UserID,
		session.ApplicationID,
		session.TokenHash,
		session.ExpiresAt,
		session.CreatedAt,
		session.UpdatedAt,
	)
	return pkgerrors.Wrap(err, "SessionRepo.Replace")
}

func (sr *SessionRepo) Find(ctx context.Context, userID, applicationID string) (*sessions.RefreshSession, error) {
	row := sr.db.QueryRow(ctx, `
		SELECT id, user_id, application_id, token_hash, expires_at, created_at, updated_at
		FROM refresh_sessions
		WHERE user_id = $1 AND application_id = $2
	`, userID, applicationID)

	var session sessions.RefreshSession
	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.ApplicationID,
		&session.TokenHash,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sessions.ErrNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "SessionRepo.Find")
	}
	return &session, nil
}

func (sr *SessionRepo) Delete(ctx context.Context, userID, applicationID string) (bool, error) {
	tag, err := sr.db.Exec(ctx, `
		DELETE FROM refresh_sessions
		WHERE user_id = $1 AND application_id = $2
	`, userID, applicationID)
	if err != nil {
		return false, pkgerrors.Wrap(err, "SessionRepo.Delete")
	}
	return tag.RowsAffected() > 0, nil
}
