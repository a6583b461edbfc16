// Package store provides storage abstractions for the portal server.
//
// Endpoints and the approval workflow depend on these interfaces rather
// than on GORM, so they can be tested with mocks.
//
// # Available Stores
//
//   - AccountsStore: account lookups and role changes
//   - ApprovalStore: the approval stored procedures
//   - ServicesStore: the services registry and health results
//   - HealthStore: database connectivity
//
// # Usage
//
//	err := approvals.ApproveAccount(ctx, accountID, adminID)
//	if errors.Is(err, store.ErrInvalidTransition) {
//	    // account was already reviewed
//	}
package store
