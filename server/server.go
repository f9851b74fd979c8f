package server

import (
	"net/http"

	"github.com/jrsteele09/go-identity-service/applications"
	"github.com/jrsteele09/go-identity-service/identity"
	"github.com/jrsteele09/go-identity-service/internal/config"
	"github.com/jrsteele09/go-identity-service/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Server is the HTTP surface of the identity service: a JSON API over the
// signup, login, refresh, logout and admin provisioning use cases.
type Server struct {
	mux      *http.ServeMux
	routes   []string
	config   *config.Config
	identity *identity.Service
	tokens   *token.Issuer
	creator  *applications.Creator
	logger   zerolog.Logger
}

// New creates the Server and registers its routes.
func New(cfg *config.Config, identityService *identity.Service, tokens *token.Issuer, creator *applications.Creator, logger zerolog.Logger) (*Server, error) {
	if identityService == nil {
		return nil, errors.New("[Server New] identity service is required")
	}
	if tokens == nil {
		return nil, errors.New("[Server New] token issuer is required")
	}
	if creator == nil {
		return nil, errors.New("[Server New] application creator is required")
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		identity: identityService,
		tokens:   tokens,
		creator:  creator,
		logger:   logger,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if !s.config.IsDev() {
		return // Skip route logging in non-development environments
	}
	for _, route := range s.routes {
		s.logger.Info().Str("route", route).Msg("registered")
	}
}
