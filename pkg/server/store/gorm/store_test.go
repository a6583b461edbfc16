package gorm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pashioya/marnix13/pkg/model"
	"github.com/pashioya/marnix13/pkg/server/store"
)

type pgError struct {
	code string
	msg  string
}

func (e *pgError) Error() string    { return e.msg }
func (e *pgError) SQLState() string { return e.code }

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	return gormDB, mock
}

func TestAccountsStore_FetchAccount(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewAccountsStore(db)
	id := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "name", "email", "account_type", "approval_status"}).
		AddRow(id.String(), "Alice", "alice@example.com", "admin", "approved")
	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(rows)

	account, err := s.FetchAccount(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, account.ID)
	assert.True(t, account.IsAdmin())
	assert.True(t, account.IsApproved())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountsStore_FetchAccountNotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewAccountsStore(db)

	mock.ExpectQuery(`SELECT \* FROM "accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.FetchAccount(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
}

func TestAccountsStore_FetchContact(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewAccountsStore(db)

	mock.ExpectQuery(`SELECT name, email FROM "accounts" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "email"}).AddRow("Bob", nil))

	contact, err := s.FetchContact(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "Bob", contact.Name)
	assert.Nil(t, contact.Email)

	mock.ExpectQuery(`SELECT name, email FROM "accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "email"}))

	_, err = s.FetchContact(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
}

func TestAccountsStore_SetAccountType(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewAccountsStore(db)

	mock.ExpectExec(`UPDATE accounts SET account_type = \$1`).
		WithArgs("admin", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, s.SetAccountType(context.Background(), uuid.New(), model.AccountTypeAdmin))

	mock.ExpectExec(`UPDATE accounts SET account_type = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.SetAccountType(context.Background(), uuid.New(), model.AccountTypeUser), store.ErrAccountNotFound)
}

func TestApprovalStore_ApproveAccount(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewApprovalStore(db)

	mock.ExpectExec(`SELECT approve_account\(\$1, \$2\)`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.ApproveAccount(context.Background(), uuid.New(), uuid.New()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApprovalStore_ErrorTranslation(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{sqlStateInsufficientPrivilege, store.ErrNotAdmin},
		{sqlStateNoDataFound, store.ErrAccountNotFound},
		{sqlStateCheckViolation, store.ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			db, mock := setupTestDB(t)
			s := NewApprovalStore(db)

			cause := &pgError{code: tt.code, msg: "raised"}
			mock.ExpectExec(`SELECT approve_account`).WillReturnError(cause)

			err := s.ApproveAccount(context.Background(), uuid.New(), uuid.New())
			assert.ErrorIs(t, err, tt.want)

			var pgErr *pgError
			assert.True(t, errors.As(err, &pgErr), "cause stays in the chain")
		})
	}
}

func TestApprovalStore_RejectAccount(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewApprovalStore(db)

	mock.ExpectExec(`SELECT reject_account\(\$1, \$2, \$3\)`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "spam").
		WillReturnResult(sqlmock.NewResult(0, 1))
	reason := "spam"
	assert.NoError(t, s.RejectAccount(context.Background(), uuid.New(), uuid.New(), &reason))

	mock.ExpectExec(`SELECT reject_account`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, s.RejectAccount(context.Background(), uuid.New(), uuid.New(), nil))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApprovalStore_PendingUsers(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewApprovalStore(db)

	id := uuid.New()
	requested := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "name", "email", "requested_at", "approval_status", "picture_url", "email_confirmed_at", "last_sign_in_at"}).
		AddRow(id.String(), "Carol", "carol@example.com", requested, "pending", nil, nil, nil)
	mock.ExpectQuery(`SELECT \* FROM get_pending_users\(\)`).WillReturnRows(rows)

	users, err := s.PendingUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, id, users[0].ID)
	assert.Equal(t, model.ApprovalStatusPending, users[0].ApprovalStatus)
	assert.Equal(t, requested, users[0].RequestedAt)
}

func TestApprovalStore_ApprovedUsersEmpty(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewApprovalStore(db)

	mock.ExpectQuery(`SELECT \* FROM get_approved_users\(\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	users, err := s.ApprovedUsers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestApprovalStore_UserApprovalStatus(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewApprovalStore(db)

	rows := sqlmock.NewRows([]string{"approval_status", "approved_at", "rejected_at", "rejection_reason"}).
		AddRow("rejected", nil, time.Now(), "duplicate account")
	mock.ExpectQuery(`SELECT \* FROM get_user_approval_status\(\$1\)`).WillReturnRows(rows)

	details, err := s.UserApprovalStatus(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalStatusRejected, details.ApprovalStatus)
	require.NotNil(t, details.RejectionReason)
	assert.Equal(t, "duplicate account", *details.RejectionReason)

	mock.ExpectQuery(`SELECT \* FROM get_user_approval_status`).
		WillReturnRows(sqlmock.NewRows([]string{"approval_status"}))
	_, err = s.UserApprovalStatus(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
}

func TestApprovalStore_ApprovalStatistics(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewApprovalStore(db)

	mock.ExpectQuery(`SELECT \* FROM get_approval_statistics\(\)`).
		WillReturnRows(sqlmock.NewRows([]string{"pending", "approved", "rejected", "total"}).AddRow(2, 5, 1, 8))

	stats, err := s.ApprovalStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalStatistics{Pending: 2, Approved: 5, Rejected: 1, Total: 8}, *stats)
}

func TestServicesStore_FetchServiceNotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewServicesStore(db)

	mock.ExpectQuery(`SELECT \* FROM "services" WHERE service_key = \$1`).
		WithArgs("jellyfin").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.FetchService(context.Background(), "jellyfin")
	assert.ErrorIs(t, err, store.ErrServiceNotFound)
}

func TestServicesStore_DeleteServiceNotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewServicesStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "services" WHERE service_key = \$1`).
		WithArgs("plex").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := s.DeleteService(context.Background(), "plex")
	assert.ErrorIs(t, err, store.ErrServiceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServicesStore_CreateServiceDuplicate(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewServicesStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "services"`).
		WillReturnError(&pgError{code: sqlStateUniqueViolation, msg: "duplicate key"})
	mock.ExpectRollback()

	err := s.CreateService(context.Background(), &model.Service{
		ID:          uuid.New(),
		ServiceKey:  "jellyfin",
		Name:        "Jellyfin",
		URL:         "http://localhost:8096",
		Category:    model.CategoryMedia,
		ServiceType: model.ServiceTypeJellyfin,
		AuthType:    model.AuthTypeAPIKey,
	})
	assert.ErrorIs(t, err, store.ErrServiceExists)
}

func TestServicesStore_RecordHealthCheck(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewServicesStore(db)
	checkedAt := time.Now().UTC()

	mock.ExpectExec(`UPDATE services\s+SET status = \$1`).
		WithArgs("online", checkedAt, 120, nil, "radarr").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.RecordHealthCheck(context.Background(), "radarr", store.HealthResult{
		Status:       model.ServiceStatusOnline,
		ResponseTime: 120 * time.Millisecond,
		CheckedAt:    checkedAt,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthStore_CheckConnectivity(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewHealthStore(db)

	mock.ExpectExec(`SELECT 1`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.NoError(t, s.CheckConnectivity(context.Background()))
}
