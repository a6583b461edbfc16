// Package model defines the database models for the portal.
//
// Rows are owned by the auth/database platform; these types only shape
// what the portal reads and writes.
//
// # Core Models
//
//   - Account: a signed-up user with its account_type and approval state
//   - PendingUser, ApprovedUser: result rows of the approval listing functions
//   - ApprovalStatusDetails, ApprovalStatistics: approval lookups
//   - Service: a self-hosted service entry with health and provisioning settings
//
// ApprovalStatus and AccountType are generated with enumer and stored as
// their lowercase names.
package model
