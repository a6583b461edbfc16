package endpoints

import (
	"github.com/pashioya/marnix13/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterMeEndpoints(srv)
	RegisterUserApprovalEndpoints(srv)
	RegisterServicesEndpoints(srv)
}
