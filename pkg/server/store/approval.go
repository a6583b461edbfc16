package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/pashioya/marnix13/pkg/model"
)

// ApprovalStore wraps the approval stored procedures. Every method is a
// single function call; the database enforces the transition rules.
type ApprovalStore interface {
	PendingUsers(ctx context.Context) ([]model.PendingUser, error)
	ApprovedUsers(ctx context.Context) ([]model.ApprovedUser, error)

	// ApproveAccount moves a pending account to approved.
	// Returns ErrNotAdmin, ErrAccountNotFound or ErrInvalidTransition.
	ApproveAccount(ctx context.Context, accountID, adminID uuid.UUID) error

	// RejectAccount moves a pending account to rejected. reason may be nil.
	RejectAccount(ctx context.Context, accountID, adminID uuid.UUID, reason *string) error

	// UserApprovalStatus returns ErrAccountNotFound when no row matches.
	UserApprovalStatus(ctx context.Context, userID uuid.UUID) (*model.ApprovalStatusDetails, error)

	ApprovalStatistics(ctx context.Context) (*model.ApprovalStatistics, error)
}
