package model

import (
	"time"

	"github.com/google/uuid"
)

// PendingUser is a row of get_pending_users()
type PendingUser struct {
	ID               uuid.UUID      `gorm:"column:id" json:"id"`
	Name             string         `gorm:"column:name" json:"name"`
	Email            *string        `gorm:"column:email" json:"email"`
	RequestedAt      time.Time      `gorm:"column:requested_at" json:"requestedAt"`
	ApprovalStatus   ApprovalStatus `gorm:"column:approval_status" json:"approvalStatus"`
	PictureURL       *string        `gorm:"column:picture_url" json:"pictureUrl"`
	EmailConfirmedAt *time.Time     `gorm:"column:email_confirmed_at" json:"emailConfirmedAt"`
	LastSignInAt     *time.Time     `gorm:"column:last_sign_in_at" json:"lastSignInAt"`
}

// ApprovedUser is a row of get_approved_users()
type ApprovedUser struct {
	PendingUser
	ApprovedAt      *time.Time `gorm:"column:approved_at" json:"approvedAt"`
	ApprovedBy      *uuid.UUID `gorm:"column:approved_by" json:"approvedBy"`
	ApprovedByEmail *string    `gorm:"column:approved_by_email" json:"approvedByEmail"`
}

// ApprovalStatusDetails is the result of get_user_approval_status(user_id)
type ApprovalStatusDetails struct {
	ApprovalStatus  ApprovalStatus `gorm:"column:approval_status" json:"approvalStatus"`
	ApprovedAt      *time.Time     `gorm:"column:approved_at" json:"approvedAt"`
	RejectedAt      *time.Time     `gorm:"column:rejected_at" json:"rejectedAt"`
	RejectionReason *string        `gorm:"column:rejection_reason" json:"rejectionReason"`
}

// ApprovalStatistics is the result of get_approval_statistics()
type ApprovalStatistics struct {
	Pending  int64 `gorm:"column:pending" json:"pending"`
	Approved int64 `gorm:"column:approved" json:"approved"`
	Rejected int64 `gorm:"column:rejected" json:"rejected"`
	Total    int64 `gorm:"column:total" json:"total"`
}
