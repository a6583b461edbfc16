package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pashioya/marnix13/pkg/model"
	"github.com/pashioya/marnix13/pkg/server/store"
)

// Ensure AccountsStore implements store.AccountsStore
var _ store.AccountsStore = (*AccountsStore)(nil)

// AccountsStore implements store.AccountsStore using GORM
type AccountsStore struct {
	db *gorm.DB
}

// NewAccountsStore creates a new AccountsStore
func NewAccountsStore(db *gorm.DB) *AccountsStore {
	return &AccountsStore{db: db}
}

// FetchAccount returns the account with the given id
func (s *AccountsStore) FetchAccount(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var account model.Account
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// FetchContact returns the name and email of an account
func (s *AccountsStore) FetchContact(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	var contacts []model.Contact
	err := s.db.WithContext(ctx).
		Table("accounts").
		Select("name, email").
		Where("id = ?", id).
		Limit(1).
		Scan(&contacts).Error
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, store.ErrAccountNotFound
	}
	return &contacts[0], nil
}

// FindByEmail returns the account registered with email
func (s *AccountsStore) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	err := s.db.WithContext(ctx).Where("lower(email) = lower(?)", email).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// SetAccountType changes the role of an account
func (s *AccountsStore) SetAccountType(ctx context.Context, id uuid.UUID, accountType model.AccountType) error {
	result := s.db.WithContext(ctx).Exec(
		`UPDATE accounts SET account_type = ?, updated_at = now() WHERE id = ?`,
		accountType.String(), id,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrAccountNotFound
	}
	return nil
}
