package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-identity-service/users"
	"github.com/jrsteele09/go-identity-service/users/postgres"
)

var userColumns = []string{"id", "email", "email_verified", "auth_providers", "memberships", "created_at", "updated_at"}

func TestGetByEmailRestoresDocuments(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().Truncate(time.Second)
	providersDoc := []byte(`[{"provider":"password","passwordHash":"bcrypt-digest","createdAt":"2026-01-02T03:04:05Z"}]`)
	membershipsDoc := []byte(`[{"applicationId":"app-1","role":"user","status":"active","createdAt":"2026-01-02T03:04:05Z"}]`)

	rows := pgxmock.NewRows(userColumns).
		AddRow("user-1", "a@x.com", true, providersDoc, membershipsDoc, now, now)
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("a@x.com").
		WillReturnRows(rows)

	repo := postgres.NewUserRepo(mock)
	user, err := repo.GetByEmail(context.Background(), " A@X.Com ")
	require.NoError(t, err)

	require.Equal(t, "user-1", user.ID)
	require.True(t, user.EmailVerified)

	provider := user.Provider(users.ProviderPassword)
	require.NotNil(t, provider)
	require.Equal(t, "bcrypt-digest", provider.PasswordHash)

	membership := user.MembershipFor("app-1")
	require.NotNil(t, membership)
	require.Equal(t, users.StatusActive, membership.Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmailNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("nobody@x.com").
		WillReturnRows(pgxmock.NewRows(userColumns))

	repo := postgres.NewUserRepo(mock)
	_, err = repo.GetByEmail(context.Background(), "nobody@x.com")
	require.ErrorIs(t, err, users.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMapsDuplicateEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	repo := postgres.NewUserRepo(mock)
	now := time.Now()
	_, err = repo.Create(context.Background(), &users.User{
		ID:        "user-1",
		Email:     "a@x.com",
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.ErrorIs(t, err, users.ErrDuplicateEmail)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetProvidersAddMembershipSingleStatement(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().Truncate(time.Second)
	providers := []users.AuthProvider{
		{Provider: users.ProviderGoogle, ProviderUserID: "google-sub-1", CreatedAt: now},
		{Provider: users.ProviderPassword, PasswordHash: "bcrypt-digest", CreatedAt: now},
	}
	membership := users.Membership{
		ApplicationID: "app-2",
		Role:          users.DefaultRole,
		Status:        users.StatusActive,
		CreatedAt:     now,
	}

	mock.ExpectExec("UPDATE users\\s+SET auth_providers = \\$2, memberships = memberships").
		WithArgs("user-1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	providersDoc := []byte(`[{"provider":"google","providerUserId":"google-sub-1","createdAt":"2026-01-02T03:04:05Z"},{"provider":"password","passwordHash":"bcrypt-digest","createdAt":"2026-01-02T03:04:05Z"}]`)
	membershipsDoc := []byte(`[{"applicationId":"app-2","role":"user","status":"active","createdAt":"2026-01-02T03:04:05Z"}]`)
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow("user-1", "a@x.com", true, providersDoc, membershipsDoc, now, now))

	repo := postgres.NewUserRepo(mock)
	user, err := repo.SetProvidersAddMembership(context.Background(), "user-1", providers, membership)
	require.NoError(t, err)
	require.NotNil(t, user.Provider(users.ProviderPassword))
	require.NotNil(t, user.MembershipFor("app-2"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetProvidersAddMembershipNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE users\\s+SET auth_providers = \\$2, memberships = memberships").
		WithArgs("no-such-user", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := postgres.NewUserRepo(mock)
	_, err = repo.SetProvidersAddMembership(context.Background(), "no-such-user", nil, users.Membership{})
	require.ErrorIs(t, err, users.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetProvidersNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE users SET auth_providers").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := postgres.NewUserRepo(mock)
	err = repo.SetProviders(context.Background(), "no-such-user", nil)
	require.ErrorIs(t, err, users.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
