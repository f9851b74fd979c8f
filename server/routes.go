package server

import "net/http"

// Route path constants for the JSON API.
const (
	RouteAuthSignup      = "/auth/signup"
	RouteAuthLogin       = "/auth/login"
	RouteAuthLoginGoogle = "/auth/login/google"
	RouteAuthRefresh     = "/auth/refresh"
	RouteAuthLogout      = "/auth/logout"
	RouteAuthMe          = "/auth/me"
	RouteAdminApps       = "/admin/applications"
)

// Header names for application, token and admin authentication.
const (
	HeaderClientID     = "x-client-id"
	HeaderClientSecret = "x-client-secret"
	HeaderAdminPassKey = "x-admin-pass-key"
)

func (s *Server) initRoutes() {
	// Secret-bearing flows: the application authenticates with id + secret.
	s.RegisterRouteFunc("POST "+RouteAuthSignup,
		ChainMiddleware(s.SignupHandler(), s.LoggingMiddleware, s.RecoverMiddleware, s.RequireApplicationSecret()))
	s.RegisterRouteFunc("POST "+RouteAuthLogin,
		ChainMiddleware(s.LoginHandler(), s.LoggingMiddleware, s.RecoverMiddleware, s.RequireApplicationSecret()))
	s.RegisterRouteFunc("POST "+RouteAuthLoginGoogle,
		ChainMiddleware(s.LoginGoogleHandler(), s.LoggingMiddleware, s.RecoverMiddleware, s.RequireApplicationSecret()))

	// Token-bearing flows: the access token's audience must match x-client-id.
	s.RegisterRouteFunc("POST "+RouteAuthRefresh,
		ChainMiddleware(s.RefreshHandler(), s.LoggingMiddleware, s.RecoverMiddleware, s.RequireAccessToken(true)))
	s.RegisterRouteFunc("POST "+RouteAuthLogout,
		ChainMiddleware(s.LogoutHandler(), s.LoggingMiddleware, s.RecoverMiddleware, s.RequireAccessToken(false)))
	s.RegisterRouteFunc("GET "+RouteAuthMe,
		ChainMiddleware(s.MeHandler(), s.LoggingMiddleware, s.RecoverMiddleware, s.RequireAccessToken(false)))

	// Administrative provisioning.
	s.RegisterRouteFunc("POST "+RouteAdminApps,
		ChainMiddleware(s.CreateApplicationHandler(), s.LoggingMiddleware, s.RecoverMiddleware, s.RequireAdmin()))
}

// ChainMiddleware wraps a handler with middleware, applied in reverse order.
func ChainMiddleware(routeFunction http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chainedHandler := routeFunction
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler)
	}
	return chainedHandler
}
