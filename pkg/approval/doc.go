// Package approval implements the sign-up approval workflow.
//
// New accounts start as pending. An admin approves or rejects them; both
// transitions happen inside the approve_account and reject_account database
// functions, which also enforce that only pending accounts move and only
// admins move them. Workflow adds request validation, an admin re-check,
// audit records and a best-effort email to the affected user.
package approval
