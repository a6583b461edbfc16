package approval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pashioya/marnix13/pkg/audit"
	"github.com/pashioya/marnix13/pkg/logging"
	"github.com/pashioya/marnix13/pkg/metrics"
	"github.com/pashioya/marnix13/pkg/notify"
	"github.com/pashioya/marnix13/pkg/server/store"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"

	defaultRecipientName = "User"

	// NotifyTimeout bounds the notification sent after a state change.
	NotifyTimeout = 30 * time.Second
)

// ErrForbidden is returned when the acting account is not an admin.
var ErrForbidden = errors.New("admin privileges required")

// Notifier sends the approval outcome to the affected user.
type Notifier interface {
	SendApprovalNotification(ctx context.Context, user notify.Recipient) error
	SendRejectionNotification(ctx context.Context, user notify.Recipient, reason string) error
}

// Actor is the admin performing an action.
type Actor struct {
	ID       uuid.UUID
	ClientIP string
}

// Workflow runs the admin approve and reject actions: validate the input,
// re-check admin privileges, change state, then notify the user. Notification
// problems are logged and never fail the action.
type Workflow struct {
	approvals     *Service
	accounts      store.AccountsStore
	notifier      Notifier
	notifyTimeout time.Duration
}

// NewWorkflow creates a Workflow.
func NewWorkflow(approvals *Service, accounts store.AccountsStore, notifier Notifier) *Workflow {
	return &Workflow{approvals: approvals, accounts: accounts, notifier: notifier, notifyTimeout: NotifyTimeout}
}

// Service returns the underlying approval service.
func (w *Workflow) Service() *Service {
	return w.approvals
}

// Approve approves the account named in params.
func (w *Workflow) Approve(ctx context.Context, actor Actor, params ApprovalActionParams) error {
	log := logging.Ctx(ctx).With().Str("component", "approveUserAction").Stringer("adminUserId", actor.ID).Logger()

	userID, verr := parseParams(&params)
	if verr != nil {
		log.Error().Err(verr).Msg("invalid form data")
		metrics.RecordApprovalAction(ActionApprove, "invalid")
		return verr
	}
	if err := w.requireAdmin(ctx, actor, ActionApprove); err != nil {
		return err
	}

	err := w.approvals.ApproveUser(ctx, userID, actor.ID)
	w.record(actor, ActionApprove, userID, "", err)
	if err != nil {
		return fmt.Errorf("failed to approve user: %w", err)
	}
	log.Info().Stringer("userId", userID).Msg("user approved successfully")

	w.notify(ctx, userID, func(ctx context.Context, r notify.Recipient) error {
		return w.notifier.SendApprovalNotification(ctx, r)
	})
	return nil
}

// Reject rejects the account named in form with the given reason.
func (w *Workflow) Reject(ctx context.Context, actor Actor, form RejectUserForm) error {
	log := logging.Ctx(ctx).With().Str("component", "rejectUserAction").Stringer("adminUserId", actor.ID).Logger()

	userID, verr := parseRejectForm(&form)
	if verr != nil {
		log.Error().Err(verr).Msg("invalid form data")
		metrics.RecordApprovalAction(ActionReject, "invalid")
		return verr
	}
	if err := w.requireAdmin(ctx, actor, ActionReject); err != nil {
		return err
	}

	err := w.approvals.RejectUser(ctx, userID, actor.ID, form.Reason)
	w.record(actor, ActionReject, userID, form.Reason, err)
	if err != nil {
		return fmt.Errorf("failed to reject user: %w", err)
	}
	log.Info().Stringer("userId", userID).Msg("user rejected successfully")

	w.notify(ctx, userID, func(ctx context.Context, r notify.Recipient) error {
		return w.notifier.SendRejectionNotification(ctx, r, form.Reason)
	})
	return nil
}

// Apply dispatches a combined approve-or-reject submission.
func (w *Workflow) Apply(ctx context.Context, actor Actor, form UserApprovalForm) error {
	if verr := validateForm(&form); verr != nil {
		return verr
	}
	if form.Action == ActionReject {
		return w.Reject(ctx, actor, RejectUserForm{UserID: form.UserID, Reason: form.Reason})
	}
	return w.Approve(ctx, actor, ApprovalActionParams{UserID: form.UserID, Reason: form.Reason})
}

func (w *Workflow) requireAdmin(ctx context.Context, actor Actor, action string) error {
	account, err := w.accounts.FetchAccount(ctx, actor.ID)
	if errors.Is(err, store.ErrAccountNotFound) || (err == nil && !account.IsAdmin()) {
		logging.Ctx(ctx).Warn().Stringer("adminUserId", actor.ID).Str("action", action).Msg("non-admin attempted approval action")
		metrics.RecordApprovalAction(action, "forbidden")
		return ErrForbidden
	}
	if err != nil {
		metrics.RecordApprovalAction(action, "error")
		return fmt.Errorf("failed to verify admin privileges: %w", err)
	}
	return nil
}

func (w *Workflow) record(actor Actor, action string, userID uuid.UUID, reason string, err error) {
	event := audit.ApprovalEvent{
		AdminID:  actor.ID.String(),
		UserID:   userID.String(),
		ClientIP: actor.ClientIP,
		Action:   action,
		Reason:   reason,
		Success:  err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
		metrics.RecordApprovalAction(action, "error")
	} else {
		metrics.RecordApprovalAction(action, "success")
	}
	audit.Log(event)
}

// notify looks up the user's contact details and sends a notification.
// Every failure is logged and dropped. The send outlives the caller's
// context but not notifyTimeout.
func (w *Workflow) notify(ctx context.Context, userID uuid.UUID, send func(context.Context, notify.Recipient) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.notifyTimeout)
	defer cancel()
	log := logging.Ctx(ctx).With().Stringer("userId", userID).Logger()

	contact, err := w.accounts.FetchContact(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get account data for notification")
		return
	}
	if contact.Email == nil || *contact.Email == "" {
		log.Error().Msg("Cannot send notification: user email is missing")
		return
	}

	name := contact.Name
	if name == "" {
		name = defaultRecipientName
	}
	if err := send(ctx, notify.Recipient{ID: userID, Name: name, Email: *contact.Email}); err != nil {
		log.Error().Err(err).Msg("failed to send notification")
		return
	}
	log.Info().Msg("notification sent successfully")
}
