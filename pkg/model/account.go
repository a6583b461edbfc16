package model

//go:generate go run github.com/dmarkham/enumer -type ApprovalStatus -trimprefix ApprovalStatus -transform lower -json -sql -output approvalstatus.gen.go
//go:generate go run github.com/dmarkham/enumer -type AccountType -trimprefix AccountType -transform lower -json -sql -output accounttype.gen.go

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus is the sign-up review state of an account.
// NULL in the database scans as pending.
type ApprovalStatus int

const (
	ApprovalStatusPending ApprovalStatus = iota
	ApprovalStatusApproved
	ApprovalStatusRejected
)

// AccountType is the role string stored on accounts.account_type.
type AccountType int

const (
	AccountTypeUser AccountType = iota
	AccountTypeAdmin
	AccountTypeModerator
)

// Account is a row of public.accounts
type Account struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name            string         `gorm:"column:name" json:"name"`
	Email           *string        `gorm:"column:email" json:"email"`
	PictureURL      *string        `gorm:"column:picture_url" json:"pictureUrl"`
	AccountType     AccountType    `gorm:"column:account_type" json:"accountType"`
	ApprovalStatus  ApprovalStatus `gorm:"column:approval_status" json:"approvalStatus"`
	ApprovedAt      *time.Time     `gorm:"column:approved_at" json:"approvedAt"`
	ApprovedBy      *uuid.UUID     `gorm:"column:approved_by;type:uuid" json:"approvedBy"`
	RejectedAt      *time.Time     `gorm:"column:rejected_at" json:"rejectedAt"`
	RejectedBy      *uuid.UUID     `gorm:"column:rejected_by;type:uuid" json:"rejectedBy"`
	RejectionReason *string        `gorm:"column:rejection_reason" json:"rejectionReason"`
	CreatedAt       time.Time      `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt       time.Time      `gorm:"column:updated_at" json:"updatedAt"`
}

func (Account) TableName() string {
	return "accounts"
}

// IsAdmin reports whether the account may use the admin area.
func (a Account) IsAdmin() bool {
	return a.AccountType == AccountTypeAdmin
}

// IsModerator is true for admins and moderators.
func (a Account) IsModerator() bool {
	return a.AccountType == AccountTypeAdmin || a.AccountType == AccountTypeModerator
}

func (a Account) IsApproved() bool {
	return a.ApprovalStatus == ApprovalStatusApproved
}

// Contact is the subset of an account needed to address a notification.
type Contact struct {
	Name  string  `gorm:"column:name"`
	Email *string `gorm:"column:email"`
}
