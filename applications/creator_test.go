package applications_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-identity-service/applications"
	"github.com/jrsteele09/go-identity-service/applications/repofakes"
)

func TestCreateGeneratesCredentials(t *testing.T) {
	creator := applications.NewCreator(repofakes.NewFakeApplicationRepo())

	app, err := creator.Create(context.Background(), "Test App", []string{"read"})
	require.NoError(t, err)

	require.NotEmpty(t, app.ID)
	require.Equal(t, "Test App", app.Name)
	require.Len(t, app.ClientID, 24)
	require.Len(t, app.ClientSecret, 64)
	require.Equal(t, []string{"read"}, app.Scopes)
	require.True(t, app.IsActive)
	require.False(t, app.CreatedAt.IsZero())
}

func TestCreateDefaultsScopes(t *testing.T) {
	creator := applications.NewCreator(repofakes.NewFakeApplicationRepo())

	app, err := creator.Create(context.Background(), "Test App", nil)
	require.NoError(t, err)
	require.NotNil(t, app.Scopes)
	require.Empty(t, app.Scopes)
}

func TestCreateUniqueCredentials(t *testing.T) {
	repo := repofakes.NewFakeApplicationRepo()
	creator := applications.NewCreator(repo)

	first, err := creator.Create(context.Background(), "App One", nil)
	require.NoError(t, err)
	second, err := creator.Create(context.Background(), "App Two", nil)
	require.NoError(t, err)

	require.NotEqual(t, first.ClientID, second.ClientID)
	require.NotEqual(t, first.ClientSecret, second.ClientSecret)
}

// collidingRepo reports every client id as taken, forcing the generator to
// exhaust its draws.
type collidingRepo struct {
	applications.Repo
	lookups int
}

func (cr *collidingRepo) GetByClientID(_ context.Context, clientID string) (*applications.Application, error) {
	cr.lookups++
	return &applications.Application{ClientID: clientID}, nil
}

func TestCreateExhaustsClientIDDraws(t *testing.T) {
	repo := &collidingRepo{Repo: repofakes.NewFakeApplicationRepo()}
	creator := applications.NewCreator(repo)

	_, err := creator.Create(context.Background(), "Test App", nil)
	require.ErrorIs(t, err, applications.ErrClientIDExhausted)
	require.Equal(t, 5, repo.lookups)
}
