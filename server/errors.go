package server

import (
	"errors"
	"net/http"

	"github.com/jrsteele09/go-identity-service/applications"
	"github.com/jrsteele09/go-identity-service/identity"
	"github.com/jrsteele09/go-identity-service/token"
	"github.com/jrsteele09/go-identity-service/users"
)

// writeError maps a use-case error kind to an HTTP response.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrApplicationNotFound),
		errors.Is(err, identity.ErrClientSecretMismatch):
		writeJSONError(w, "unauthorized", "invalid application credentials", http.StatusUnauthorized)

	case errors.Is(err, identity.ErrApplicationInactive):
		writeJSONError(w, "forbidden", "application is not active", http.StatusForbidden)

	case errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, identity.ErrNotAssociated),
		errors.Is(err, identity.ErrSessionNotFound),
		errors.Is(err, identity.ErrSessionExpired),
		errors.Is(err, identity.ErrInvalidSession),
		errors.Is(err, identity.ErrInvalidGoogleCredential),
		errors.Is(err, identity.ErrUserNotFound),
		errors.Is(err, token.ErrInvalidToken),
		errors.Is(err, token.ErrTokenExpired):
		writeJSONError(w, "unauthorized", err.Error(), http.StatusUnauthorized)

	case errors.Is(err, identity.ErrBlocked):
		writeJSONError(w, "forbidden", err.Error(), http.StatusForbidden)

	case errors.Is(err, identity.ErrAlreadyAssociated),
		errors.Is(err, users.ErrDuplicateEmail),
		errors.Is(err, applications.ErrClientIDExhausted):
		writeJSONError(w, "conflict", err.Error(), http.StatusConflict)

	default:
		s.logger.Error().Err(err).Msg("unhandled error")
		writeJSONError(w, "server_error", "internal server error", http.StatusInternalServerError)
	}
}
