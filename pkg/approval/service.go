package approval

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pashioya/marnix13/pkg/logging"
	"github.com/pashioya/marnix13/pkg/model"
	"github.com/pashioya/marnix13/pkg/server/store"
)

const serviceName = "UserApprovalService"

// Service wraps the approval stored procedures.
type Service struct {
	store store.ApprovalStore
}

// NewService creates a Service backed by s.
func NewService(s store.ApprovalStore) *Service {
	return &Service{store: s}
}

// GetPendingUsers lists accounts awaiting approval.
func (s *Service) GetPendingUsers(ctx context.Context) ([]model.PendingUser, error) {
	users, err := s.store.PendingUsers(ctx)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("component", serviceName).Msg("failed to fetch pending users")
		return nil, fmt.Errorf("failed to fetch pending users: %w", err)
	}
	if users == nil {
		users = []model.PendingUser{}
	}
	return users, nil
}

// GetApprovedUsers lists approved accounts with the approving admin.
func (s *Service) GetApprovedUsers(ctx context.Context) ([]model.ApprovedUser, error) {
	users, err := s.store.ApprovedUsers(ctx)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("component", serviceName).Msg("failed to fetch approved users")
		return nil, fmt.Errorf("failed to fetch approved users: %w", err)
	}
	if users == nil {
		users = []model.ApprovedUser{}
	}
	return users, nil
}

// ApproveUser moves a pending account to approved.
func (s *Service) ApproveUser(ctx context.Context, userID, adminID uuid.UUID) error {
	log := logging.Ctx(ctx).With().
		Str("component", serviceName).
		Stringer("userId", userID).
		Stringer("adminUserId", adminID).
		Logger()

	log.Info().Msg("approving user account")
	if err := s.store.ApproveAccount(ctx, userID, adminID); err != nil {
		log.Error().Err(err).Msg("failed to approve user")
		return err
	}
	log.Info().Msg("user account approved successfully")
	return nil
}

// RejectUser moves a pending account to rejected. An empty reason is
// stored as NULL.
func (s *Service) RejectUser(ctx context.Context, userID, adminID uuid.UUID, reason string) error {
	log := logging.Ctx(ctx).With().
		Str("component", serviceName).
		Stringer("userId", userID).
		Stringer("adminUserId", adminID).
		Str("reason", reason).
		Logger()

	var r *string
	if reason != "" {
		r = &reason
	}

	log.Info().Msg("rejecting user account")
	if err := s.store.RejectAccount(ctx, userID, adminID, r); err != nil {
		log.Error().Err(err).Msg("failed to reject user")
		return err
	}
	log.Info().Msg("user account rejected successfully")
	return nil
}

// GetUserApprovalStatus returns the approval details of a user, or nil when
// they cannot be fetched.
func (s *Service) GetUserApprovalStatus(ctx context.Context, userID uuid.UUID) *model.ApprovalStatusDetails {
	details, err := s.store.UserApprovalStatus(ctx, userID)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).
			Str("component", serviceName).
			Stringer("userId", userID).
			Msg("failed to fetch user approval status")
		return nil
	}
	return details
}

// IsUserApproved reports whether the user's status is approved.
func (s *Service) IsUserApproved(ctx context.Context, userID uuid.UUID) bool {
	details := s.GetUserApprovalStatus(ctx, userID)
	return details != nil && details.ApprovalStatus == model.ApprovalStatusApproved
}

// GetApprovalStatistics counts accounts per approval status.
func (s *Service) GetApprovalStatistics(ctx context.Context) (*model.ApprovalStatistics, error) {
	stats, err := s.store.ApprovalStatistics(ctx)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("component", serviceName).Msg("failed to fetch approval statistics")
		return nil, fmt.Errorf("failed to fetch approval statistics: %w", err)
	}
	if stats == nil {
		stats = &model.ApprovalStatistics{}
	}
	return stats, nil
}
