package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jrsteele09/go-identity-service/users"
	pkgerrors "github.com/pkg/errors"
)

// DB is the subset of pgxpool.Pool used by the repository.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ users.Repo = (*UserRepo)(nil)

// UserRepo implements users.Repo using PostgreSQL. Auth providers and
// application memberships are stored as JSONB documents on the user row, so
// provider-link and membership updates replace a single column atomically.
type UserRepo struct {
	db DB
}

// NewUserRepo creates a new PostgreSQL-backed user repository.
func NewUserRepo(db DB) *UserRepo {
	return &UserRepo{db: db}
}

// providerRecord is the JSONB representation of an AuthProvider. The password
// hash is excluded from the entity's JSON form, so it needs an explicit field
// here.
type providerRecord struct {
	Provider       users.ProviderType `json:"provider"`
	PasswordHash   string             `json:"passwordHash,omitempty"`
	ProviderUserID string             `json:"providerUserId,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
}

const userColumns = `id, email, email_verified, auth_providers, memberships, created_at, updated_at`

func (ur *UserRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	providers, memberships, err := marshalDocuments(user)
	if err != nil {
		return nil, err
	}

	_, err = ur.db.Exec(ctx, `
		INSERT INTO users (id, email, email_verified, auth_providers, memberships, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		user.ID,
		users.NormalizeEmail(user.Email),
		user.EmailVerified,
		providers,
		memberships,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, users.ErrDuplicateEmail
		}
		return nil, pkgerrors.Wrap(err, "UserRepo.Create")
	}

	return ur.GetByID(ctx, user.ID)
}

func (ur *UserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	row := ur.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, users.NormalizeEmail(email))
	return scanUser(row)
}

func (ur *UserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	row := ur.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (ur *UserRepo) SetProviders(ctx context.Context, userID string, providers []users.AuthProvider) error {
	doc, err := marshalProviders(providers)
	if err != nil {
		return err
	}

	tag, err := ur.db.Exec(ctx, `
		UPDATE users SET auth_providers = $2, updated_at = now() WHERE id = $1
	`, userID, doc)
	if err != nil {
		return pkgerrors.Wrap(err, "UserRepo.SetProviders")
	}
	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (ur *UserRepo) AddMembership(ctx context.Context, userID string, membership users.Membership) (*users.User, error) {
	doc, err := json.Marshal(membership)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "UserRepo.AddMembership marshal")
	}

	tag, err := ur.db.Exec(ctx, `
		UPDATE users
		SET memberships = memberships || $2::jsonb, updated_at = now()
		WHERE id = $1
	`, userID, doc)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "UserRepo.AddMembership")
	}
	if tag.RowsAffected() == 0 {
		return nil, users.ErrNotFound
	}

	return ur.GetByID(ctx, userID)
}

func (ur *UserRepo) SetProvidersAddMembership(ctx context.Context, userID string, providers []users.AuthProvider, membership users.Membership) (*users.User, error) {
	providersDoc, err := marshalProviders(providers)
	if err != nil {
		return nil, err
	}
	membershipDoc, err := json.Marshal(membership)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "UserRepo.SetProvidersAddMembership marshal")
	}

	// Both documents live on the same row, so one statement updates them
	// atomically.
	tag, err := ur.db.Exec(ctx, `
		UPDATE users
		SET auth_providers = $2, memberships = memberships || $3::jsonb, updated_at = now()
		WHERE id = $1
	`, userID, providersDoc, membershipDoc)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "UserRepo.SetProvidersAddMembership")
	}
	if tag.RowsAffected() == 0 {
		return nil, users.ErrNotFound
	}

	return ur.GetByID(ctx, userID)
}

func (ur *UserRepo) SetMembershipStatus(ctx context.Context, userID, applicationID string, status users.MembershipStatus) error {
	user, err := ur.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	membership := user.MembershipFor(applicationID)
	if membership == nil {
		return users.ErrNotFound
	}
	membership.Status = status

	doc, err := json.Marshal(user.Applications)
	if err != nil {
		return pkgerrors.Wrap(err, "UserRepo.SetMembershipStatus marshal")
	}

	_, err = ur.db.Exec(ctx, `
		UPDATE users SET memberships = $2, updated_at = now() WHERE id = $1
	`, userID, doc)
	return pkgerrors.Wrap(err, "UserRepo.SetMembershipStatus")
}

func marshalDocuments(user *users.User) (providers, memberships []byte, err error) {
	providers, err = marshalProviders(user.AuthProviders)
	if err != nil {
		return nil, nil, err
	}

	apps := user.Applications
	if apps == nil {
		apps = []users.Membership{}
	}
	memberships, err = json.Marshal(apps)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(err, "marshal memberships")
	}
	return providers, memberships, nil
}

func marshalProviders(providers []users.AuthProvider) ([]byte, error) {
	records := make([]providerRecord, 0, len(providers))
	for _, p := range providers {
		records = append(records, providerRecord(p))
	}
	doc, err := json.Marshal(records)
	return doc, pkgerrors.Wrap(err, "marshal providers")
}

func scanUser(row pgx.Row) (*users.User, error) {
	var (
		user           users.User
		providersDoc   []byte
		membershipsDoc []byte
	)

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.EmailVerified,
		&providersDoc,
		&membershipsDoc,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, users.ErrNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "scanUser")
	}

	var records []providerRecord
	if err := json.Unmarshal(providersDoc, &records); err != nil {
		return nil, pkgerrors.Wrap(err, "scanUser providers")
	}
	user.AuthProviders = make([]users.AuthProvider, 0, len(records))
	for _, r := range records {
		user.AuthProviders = append(user.AuthProviders, users.AuthProvider(r))
	}

	if err := json.Unmarshal(membershipsDoc, &user.Applications); err != nil {
		return nil, pkgerrors.Wrap(err, "scanUser memberships")
	}

	return &user, nil
}
