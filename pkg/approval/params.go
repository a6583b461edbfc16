package approval

import (
	"github.com/google/uuid"

	"github.com/pashioya/marnix13/pkg/validation"
)

// ApprovalActionParams identifies the account an admin acts on.
type ApprovalActionParams struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Reason string `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

// RejectUserForm is the input of a rejection. A reason is mandatory.
type RejectUserForm struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Reason string `json:"reason" validate:"required,min=1,max=1000"`
}

func (RejectUserForm) ValidationMessages() map[string]string {
	return map[string]string{
		"reason.required": "Reason is required for rejection",
		"reason.min":      "Reason is required for rejection",
	}
}

// UserApprovalForm is a single approve-or-reject submission.
type UserApprovalForm struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	UserID string `json:"userId" validate:"required,uuid"`
	Reason string `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

func parseParams(p *ApprovalActionParams) (uuid.UUID, *validation.RequestValidationError) {
	if verr := validation.ValidateStruct(p); verr != nil {
		return uuid.Nil, verr
	}
	return uuid.MustParse(p.UserID), nil
}

func parseRejectForm(f *RejectUserForm) (uuid.UUID, *validation.RequestValidationError) {
	if verr := validation.ValidateStruct(f); verr != nil {
		return uuid.Nil, verr
	}
	return uuid.MustParse(f.UserID), nil
}

func validateForm(f *UserApprovalForm) *validation.RequestValidationError {
	return validation.ValidateStruct(f)
}
