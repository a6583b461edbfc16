// Package endpoints registers the HTTP API of the portal on a server.
//
//	GET  /                                  status
//	GET  /health                            database connectivity
//	GET  /metrics                           Prometheus metrics
//	GET  /api/me                            signed-in account
//	GET  /api/me/approval-status            approval state of the signed-in account
//	GET  /api/navigation                    sidebar, admin routes only for admins
//	GET  /api/portal                        service links, approved accounts only
//	GET  /api/admin/users/pending           accounts awaiting review
//	GET  /api/admin/users/approved          approved accounts
//	GET  /api/admin/users/statistics        counts per approval state
//	GET  /api/admin/users/{id}/status       approval state of an account
//	POST /api/admin/users/approve           approve (form or JSON: userId)
//	POST /api/admin/users/reject            reject (form or JSON: userId, reason)
//	POST /api/admin/users/review            approve or reject (action, userId, reason)
//	GET  /api/admin/services                services registry
//	POST /api/admin/services                register a service
//	GET  /api/admin/services/catalog        service type presets
//	POST /api/admin/services/test-connection probe an unsaved configuration
//	GET|PATCH|DELETE /api/admin/services/{key}
//	POST /api/admin/services/{key}/check    probe a registered service
//
// Errors are written as {"error": {"code": ..., "message": ...}}.
package endpoints
