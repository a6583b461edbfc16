package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/pashioya/marnix13/pkg/model"
)

// AccountsStore abstracts account lookups
type AccountsStore interface {
	// FetchAccount returns the account with the given id.
	// Returns ErrAccountNotFound if it doesn't exist.
	FetchAccount(ctx context.Context, id uuid.UUID) (*model.Account, error)

	// FetchContact returns the name and email used to notify the account.
	// Returns ErrAccountNotFound if it doesn't exist.
	FetchContact(ctx context.Context, id uuid.UUID) (*model.Contact, error)

	// FindByEmail returns the account registered with email.
	FindByEmail(ctx context.Context, email string) (*model.Account, error)

	// SetAccountType changes the role of an account
	SetAccountType(ctx context.Context, id uuid.UUID, accountType model.AccountType) error
}
