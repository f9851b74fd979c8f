package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-identity-service/applications"
	"github.com/jrsteele09/go-identity-service/identity"
	"github.com/jrsteele09/go-identity-service/token"
	"github.com/jrsteele09/go-identity-service/users"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	s := &Server{logger: zerolog.Nop()}

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"application not found", identity.ErrApplicationNotFound, http.StatusUnauthorized},
		{"client secret mismatch", identity.ErrClientSecretMismatch, http.StatusUnauthorized},
		{"application inactive", identity.ErrApplicationInactive, http.StatusForbidden},
		{"invalid credentials", identity.ErrInvalidCredentials, http.StatusUnauthorized},
		{"not associated", identity.ErrNotAssociated, http.StatusUnauthorized},
		{"invalid token", token.ErrInvalidToken, http.StatusUnauthorized},
		{"token expired", token.ErrTokenExpired, http.StatusUnauthorized},
		{"blocked", identity.ErrBlocked, http.StatusForbidden},
		{"already associated", identity.ErrAlreadyAssociated, http.StatusConflict},
		{"duplicate email", users.ErrDuplicateEmail, http.StatusConflict},
		{"client id exhausted", applications.ErrClientIDExhausted, http.StatusConflict},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			s.writeError(recorder, tc.err)
			require.Equal(t, tc.status, recorder.Code)
		})
	}
}

func TestWriteErrorMapsWrappedErrors(t *testing.T) {
	s := &Server{logger: zerolog.Nop()}

	recorder := httptest.NewRecorder()
	s.writeError(recorder, errors.Wrap(users.ErrDuplicateEmail, "Signup Create"))
	require.Equal(t, http.StatusConflict, recorder.Code)
}
