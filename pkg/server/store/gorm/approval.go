package gorm

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pashioya/marnix13/pkg/model"
	"github.com/pashioya/marnix13/pkg/server/store"
)

// Ensure ApprovalStore implements store.ApprovalStore
var _ store.ApprovalStore = (*ApprovalStore)(nil)

// ApprovalStore implements store.ApprovalStore by calling the approval
// functions defined in db/migrations
type ApprovalStore struct {
	db *gorm.DB
}

// NewApprovalStore creates a new ApprovalStore
func NewApprovalStore(db *gorm.DB) *ApprovalStore {
	return &ApprovalStore{db: db}
}

// PendingUsers calls get_pending_users()
func (s *ApprovalStore) PendingUsers(ctx context.Context) ([]model.PendingUser, error) {
	users := []model.PendingUser{}
	err := s.db.WithContext(ctx).Raw(`SELECT * FROM get_pending_users()`).Scan(&users).Error
	if err != nil {
		return nil, translateError(err)
	}
	return users, nil
}

// ApprovedUsers calls get_approved_users()
func (s *ApprovalStore) ApprovedUsers(ctx context.Context) ([]model.ApprovedUser, error) {
	users := []model.ApprovedUser{}
	err := s.db.WithContext(ctx).Raw(`SELECT * FROM get_approved_users()`).Scan(&users).Error
	if err != nil {
		return nil, translateError(err)
	}
	return users, nil
}

// ApproveAccount calls approve_account(account_id, admin_user_id)
func (s *ApprovalStore) ApproveAccount(ctx context.Context, accountID, adminID uuid.UUID) error {
	err := s.db.WithContext(ctx).Exec(`SELECT approve_account(?, ?)`, accountID, adminID).Error
	return translateError(err)
}

// RejectAccount calls reject_account(account_id, admin_user_id, reason)
func (s *ApprovalStore) RejectAccount(ctx context.Context, accountID, adminID uuid.UUID, reason *string) error {
	err := s.db.WithContext(ctx).Exec(`SELECT reject_account(?, ?, ?)`, accountID, adminID, reason).Error
	return translateError(err)
}

// UserApprovalStatus calls get_user_approval_status(user_id)
func (s *ApprovalStore) UserApprovalStatus(ctx context.Context, userID uuid.UUID) (*model.ApprovalStatusDetails, error) {
	var rows []model.ApprovalStatusDetails
	err := s.db.WithContext(ctx).Raw(`SELECT * FROM get_user_approval_status(?)`, userID).Scan(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	if len(rows) == 0 {
		return nil, store.ErrAccountNotFound
	}
	return &rows[0], nil
}

// ApprovalStatistics calls get_approval_statistics()
func (s *ApprovalStore) ApprovalStatistics(ctx context.Context) (*model.ApprovalStatistics, error) {
	var stats model.ApprovalStatistics
	err := s.db.WithContext(ctx).Raw(`SELECT * FROM get_approval_statistics()`).Scan(&stats).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &stats, nil
}
