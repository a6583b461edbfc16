// Package middleware provides the HTTP middleware of the portal API:
// session verification, admin and approval gates, request ids, metrics
// and rate limiting.
//
// Session tokens are HS256 JWTs issued by the auth platform, read from the
// Authorization header or the sb-access-token cookie:
//
//	sessions := middleware.NewSessionAuthenticator(config.JWTSecret())
//	api.Use(sessions.Middleware)
//	admin.Use(middleware.RequireAdmin(accounts))
package middleware
