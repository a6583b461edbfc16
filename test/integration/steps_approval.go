package integration

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/pashioya/marnix13/pkg/model"
)

// signsUp inserts an auth user; the sign-up trigger creates the pending account.
func (s *StepsContext) signsUp(email string) error {
	var id uuid.UUID
	row := s.tc.RawDB.QueryRow(
		`INSERT INTO auth.users (email, raw_user_meta_data, email_confirmed_at)
		 VALUES ($1, jsonb_build_object('name', $1::text), now())
		 ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		 RETURNING id`,
		email,
	)
	if err := row.Scan(&id); err != nil {
		return fmt.Errorf("failed to sign up %s: %w", email, err)
	}
	s.users[email] = id
	return nil
}

func (s *StepsContext) anAdminExists(email string) error {
	if err := s.signsUp(email); err != nil {
		return err
	}
	if _, err := s.tc.RawDB.Exec(
		`UPDATE public.accounts SET account_type = 'admin' WHERE id = $1`, s.users[email],
	); err != nil {
		return fmt.Errorf("failed to promote %s: %w", email, err)
	}
	s.admin = email
	return nil
}

func (s *StepsContext) theAccountShouldBe(email, status string) error {
	id, ok := s.users[email]
	if !ok {
		return fmt.Errorf("unknown user %q", email)
	}
	var got model.ApprovalStatus
	if err := s.tc.RawDB.QueryRow(
		`SELECT approval_status FROM public.accounts WHERE id = $1`, id,
	).Scan(&got); err != nil {
		return err
	}
	if got.String() != status {
		return fmt.Errorf("expected %s to be %s, got %s", email, status, got)
	}
	return nil
}

func (s *StepsContext) userApproves(actor, email string) error {
	id, ok := s.users[email]
	if !ok {
		return fmt.Errorf("unknown user %q", email)
	}
	return s.do(http.MethodPost, "/api/admin/users/approve", actor, map[string]string{"userId": id.String()})
}

func (s *StepsContext) theAdminApproves(email string) error {
	return s.userApproves(s.admin, email)
}

func (s *StepsContext) theAdminRejects(email, reason string) error {
	id, ok := s.users[email]
	if !ok {
		return fmt.Errorf("unknown user %q", email)
	}
	return s.do(http.MethodPost, "/api/admin/users/reject", s.admin, map[string]string{
		"userId": id.String(),
		"reason": reason,
	})
}
