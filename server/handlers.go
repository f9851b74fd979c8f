package server

import (
	"encoding/json"
	"net/http"
	"time"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"

	refreshCookieName   = "refreshToken"
	refreshCookieMaxAge = 24 * 60 * 60 // 24 hours, in seconds
)

type signupRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginGoogleRequest struct {
	Credential string `json:"credential"`
}

type accessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// SignupHandler registers a user within the authenticated application.
func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if req.Email == "" || req.Password == "" {
			writeJSONError(w, "invalid_request", "email and password are required", http.StatusBadRequest)
			return
		}

		app := applicationFromContext(r.Context())
		user, err := s.identity.Signup(r.Context(), req.Email, req.Password, app)
		if err != nil {
			s.writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"id":            user.ID,
			"email":         user.Email,
			"emailVerified": user.EmailVerified,
			"applications":  user.Applications,
			"createdAt":     user.CreatedAt,
		})
	}
}

// LoginHandler authenticates with email/password, sets the refresh-token
// cookie and returns the access token.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		app := applicationFromContext(r.Context())
		pair, err := s.identity.Login(r.Context(), req.Email, req.Password, app)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.setRefreshCookie(w, pair.RefreshToken, http.SameSiteLaxMode)
		writeJSON(w, http.StatusOK, accessTokenResponse{AccessToken: pair.AccessToken})
	}
}

// LoginGoogleHandler authenticates with a Google Sign-In credential. The
// cookie uses SameSite=Strict in this flow.
func (s *Server) LoginGoogleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginGoogleRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if req.Credential == "" {
			writeJSONError(w, "invalid_request", "credential is required", http.StatusBadRequest)
			return
		}

		app := applicationFromContext(r.Context())
		pair, err := s.identity.LoginGoogle(r.Context(), req.Credential, app)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.setRefreshCookie(w, pair.RefreshToken, http.SameSiteStrictMode)
		writeJSON(w, http.StatusOK, accessTokenResponse{AccessToken: pair.AccessToken})
	}
}

// RefreshHandler issues a new access token against the stored refresh session.
// The refresh session itself is left in place.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(refreshCookieName)
		if err != nil || cookie.Value == "" {
			writeJSONError(w, "unauthorized", "refresh token cookie is required", http.StatusUnauthorized)
			return
		}

		app := applicationFromContext(r.Context())
		accessToken, err := s.identity.Refresh(r.Context(), userIDFromContext(r.Context()), app.ClientID, cookie.Value)
		if err != nil {
			s.writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, accessTokenResponse{AccessToken: accessToken})
	}
}

// LogoutHandler deletes the caller's refresh session and clears the cookie.
// Logging out without an active session succeeds.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app := applicationFromContext(r.Context())
		if err := s.identity.Logout(r.Context(), userIDFromContext(r.Context()), app.ID); err != nil {
			s.writeError(w, err)
			return
		}

		s.clearRefreshCookie(w)
		writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
	}
}

// MeHandler returns the caller's profile within the presenting application.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app := applicationFromContext(r.Context())
		profile, err := s.identity.Me(r.Context(), userIDFromContext(r.Context()), app)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func (s *Server) setRefreshCookie(w http.ResponseWriter, value string, sameSite http.SameSite) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   refreshCookieMaxAge,
		HttpOnly: true,
		Secure:   !s.config.IsDev(),
		SameSite: sameSite,
	})
}

func (s *Server) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   !s.config.IsDev(),
		SameSite: http.SameSiteLaxMode,
	})
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeJSONError(w, "invalid_request", "failed to parse request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             errorCode,
		"error_description": description,
	})
}
