// Package server provides the HTTP server of the portal API.
//
// The server uses gorilla/mux for routing, wraps the router in request id,
// recovery and access-log middleware, and holds the stores and services the
// endpoints share.
//
// # Server Setup
//
//	srv := server.NewServer(cfg, db, "0.0.0.0", "8080")
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
//   - Router: HTTP request router
//   - DB: database connection, nil when built from explicit stores
//   - AccountsStore, ApprovalStore, ServicesStore, HealthStore: persistence
//   - Workflow: admin approve and reject actions
//   - Checker, Monitor: service health probing
//   - Sessions: session token verification
//
// The configuration can be swapped at runtime with SetConfig, which also
// rebuilds the mail notifier.
package server
