// Package audit records security-relevant portal operations.
//
// Events are written as RFC5424 syslog lines and, when AUDIT_DATABASE_URL
// is set, persisted into the messages table.
//
// # Event Types
//
//   - ApprovalEvent: an admin approved or rejected a sign-up
//   - ServiceChangeEvent: a service was created, updated or deleted
//   - RoleChangeEvent: an account_type changed
//   - AccessDeniedEvent: a request failed an admin or approval check
//
// # Usage
//
//	audit.Log(audit.ApprovalEvent{AdminID: admin, UserID: user, Action: "approve", Success: true})
package audit
