package server

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-identity-service/applications"
	"github.com/jrsteele09/go-identity-service/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyApplication stores the resolved *applications.Application
	ContextKeyApplication ContextKey = "application"
	// ContextKeyUserID stores the authenticated user ID
	ContextKeyUserID ContextKey = "user_id"
	// ContextKeyClaims stores parsed access-token claims
	ContextKeyClaims ContextKey = "claims"
)

func applicationFromContext(ctx context.Context) *applications.Application {
	app, _ := ctx.Value(ContextKeyApplication).(*applications.Application)
	return app
}

func userIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(ContextKeyUserID).(string)
	return userID
}

// RequireApplicationSecret authenticates the calling application with the
// x-client-id and x-client-secret headers and attaches the resolved
// application to the request context.
func (s *Server) RequireApplicationSecret() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			clientID := r.Header.Get(HeaderClientID)
			if clientID == "" {
				writeJSONError(w, "unauthorized", "x-client-id header is required", http.StatusUnauthorized)
				return
			}

			clientSecret := r.Header.Get(HeaderClientSecret)
			if clientSecret == "" {
				writeJSONError(w, "unauthorized", "x-client-secret header is required", http.StatusUnauthorized)
				return
			}

			app, err := s.identity.AuthenticateApplication(r.Context(), clientID, clientSecret)
			if err != nil {
				s.writeError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyApplication, app)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireAccessToken validates a Bearer access token and checks that its
// audience matches the x-client-id header. When allowExpired is true the
// signature must still verify but a lapsed expiry is accepted; the refresh
// endpoint relies on this. The resolved application and the token's subject
// are attached to the request context.
func (s *Server) RequireAccessToken(allowExpired bool) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeJSONError(w, "unauthorized", "missing or malformed Authorization header", http.StatusUnauthorized)
				return
			}

			var (
				claims *token.Claims
				err    error
			)
			if allowExpired {
				claims, err = s.tokens.VerifyAllowExpired(raw)
			} else {
				claims, err = s.tokens.Verify(raw)
			}
			if err != nil {
				s.writeError(w, err)
				return
			}

			clientID := r.Header.Get(HeaderClientID)
			if clientID == "" {
				writeJSONError(w, "unauthorized", "x-client-id header is required", http.StatusUnauthorized)
				return
			}
			if claims.Audience != clientID {
				writeJSONError(w, "unauthorized", "token audience does not match application", http.StatusUnauthorized)
				return
			}

			app, err := s.identity.ResolveApplication(r.Context(), clientID)
			if err != nil {
				s.writeError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyApplication, app)
			ctx = context.WithValue(ctx, ContextKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, ContextKeyClaims, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireAdmin validates the x-admin-pass-key header against the configured
// admin pass key using a constant-time comparison.
func (s *Server) RequireAdmin() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.config.AdminPassKey == "" {
				writeJSONError(w, "unauthorized", "admin pass key not configured on server", http.StatusUnauthorized)
				return
			}

			passKey := r.Header.Get(HeaderAdminPassKey)
			if passKey == "" {
				writeJSONError(w, "unauthorized", "x-admin-pass-key header is required", http.StatusUnauthorized)
				return
			}

			if len(passKey) != len(s.config.AdminPassKey) ||
				subtle.ConstantTimeCompare([]byte(passKey), []byte(s.config.AdminPassKey)) != 1 {
				writeJSONError(w, "unauthorized", "invalid admin pass key", http.StatusUnauthorized)
				return
			}

			next(w, r)
		}
	}
}

// LoggingMiddleware logs each request with its duration.
func (s *Server) LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// RecoverMiddleware converts handler panics into a 500 response.
func (s *Server) RecoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panic")
				writeJSONError(w, "server_error", "internal server error", http.StatusInternalServerError)
			}
		}()
		next(w, r)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
