package server

import "net/http"

type createApplicationRequest struct {
	Name   string   `json:"name"`
	Scopes []string `json:"scopes,omitempty"`
}

// CreateApplicationHandler provisions an application with generated
// credentials. The response carries the plaintext client secret; it is not
// retrievable afterwards.
func (s *Server) CreateApplicationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createApplicationRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if req.Name == "" {
			writeJSONError(w, "invalid_request", "name is required", http.StatusBadRequest)
			return
		}

		app, err := s.creator.Create(r.Context(), req.Name, req.Scopes)
		if err != nil {
			s.writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, app)
	}
}
