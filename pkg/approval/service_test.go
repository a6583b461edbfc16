package approval

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pashioya/marnix13/pkg/model"
	"github.com/pashioya/marnix13/pkg/server/store/storetest"
)

func TestGetPendingUsersNilBecomesEmpty(t *testing.T) {
	s := &storetest.MockApprovalStore{}
	s.On("PendingUsers", mock.Anything).Return(nil, nil)

	users, err := NewService(s).GetPendingUsers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestGetApprovedUsersError(t *testing.T) {
	s := &storetest.MockApprovalStore{}
	cause := errors.New("connection reset")
	s.On("ApprovedUsers", mock.Anything).Return(nil, cause)

	_, err := NewService(s).GetApprovedUsers(context.Background())
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to fetch approved users")
}

func TestRejectUserEmptyReasonIsNull(t *testing.T) {
	s := &storetest.MockApprovalStore{}
	userID, adminID := uuid.New(), uuid.New()
	s.On("RejectAccount", mock.Anything, userID, adminID, (*string)(nil)).Return(nil)

	require.NoError(t, NewService(s).RejectUser(context.Background(), userID, adminID, ""))
	s.AssertExpectations(t)
}

func TestIsUserApproved(t *testing.T) {
	approved, pending, missing := uuid.New(), uuid.New(), uuid.New()
	s := &storetest.MockApprovalStore{}
	s.On("UserApprovalStatus", mock.Anything, approved).Return(&model.ApprovalStatusDetails{ApprovalStatus: model.ApprovalStatusApproved}, nil)
	s.On("UserApprovalStatus", mock.Anything, pending).Return(&model.ApprovalStatusDetails{ApprovalStatus: model.ApprovalStatusPending}, nil)
	s.On("UserApprovalStatus", mock.Anything, missing).Return(nil, errors.New("boom"))

	svc := NewService(s)
	assert.True(t, svc.IsUserApproved(context.Background(), approved))
	assert.False(t, svc.IsUserApproved(context.Background(), pending))
	assert.False(t, svc.IsUserApproved(context.Background(), missing))
	assert.Nil(t, svc.GetUserApprovalStatus(context.Background(), missing))
}

func TestGetApprovalStatistics(t *testing.T) {
	s := &storetest.MockApprovalStore{}
	s.On("ApprovalStatistics", mock.Anything).Return(nil, nil).Once()
	s.On("ApprovalStatistics", mock.Anything).Return(&model.ApprovalStatistics{Pending: 1, Approved: 2, Total: 3}, nil).Once()

	svc := NewService(s)
	stats, err := svc.GetApprovalStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalStatistics{}, *stats)

	stats, err = svc.GetApprovalStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
}
