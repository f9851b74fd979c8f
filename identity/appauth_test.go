package identity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-identity-service/identity"
)

func TestAuthenticateApplication(t *testing.T) {
	f := setupTestFixture(t)
	app := f.createApplication(t, testClientID, true)
	inactive := f.createApplication(t, "client-id-inactive", false)

	t.Run("valid credentials", func(t *testing.T) {
		authenticated, err := f.service.AuthenticateApplication(context.Background(), app.ClientID, testClientSecret)
		require.NoError(t, err)
		require.Equal(t, app.ID, authenticated.ID)
	})

	t.Run("unknown client id", func(t *testing.T) {
		_, err := f.service.AuthenticateApplication(context.Background(), "no-such-client", testClientSecret)
		require.ErrorIs(t, err, identity.ErrApplicationNotFound)
	})

	t.Run("inactive application", func(t *testing.T) {
		_, err := f.service.AuthenticateApplication(context.Background(), inactive.ClientID, testClientSecret)
		require.ErrorIs(t, err, identity.ErrApplicationInactive)
	})

	t.Run("wrong secret of equal length", func(t *testing.T) {
		wrong := "X" + testClientSecret[1:]
		_, err := f.service.AuthenticateApplication(context.Background(), app.ClientID, wrong)
		require.ErrorIs(t, err, identity.ErrClientSecretMismatch)
	})

	t.Run("wrong secret of different length", func(t *testing.T) {
		_, err := f.service.AuthenticateApplication(context.Background(), app.ClientID, "short")
		require.ErrorIs(t, err, identity.ErrClientSecretMismatch)
	})
}

func TestResolveApplication(t *testing.T) {
	f := setupTestFixture(t)
	app := f.createApplication(t, testClientID, true)

	resolved, err := f.service.ResolveApplication(context.Background(), app.ClientID)
	require.NoError(t, err)
	require.Equal(t, app.ID, resolved.ID)

	_, err = f.service.ResolveApplication(context.Background(), "no-such-client")
	require.ErrorIs(t, err, identity.ErrApplicationNotFound)
}
