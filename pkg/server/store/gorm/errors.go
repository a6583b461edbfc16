package gorm

import (
	"errors"

	"github.com/pashioya/marnix13/pkg/server/store"
)

// SQLSTATE codes raised by the approval functions and constraints
const (
	sqlStateNoDataFound           = "P0002"
	sqlStateCheckViolation        = "23514"
	sqlStateUniqueViolation       = "23505"
	sqlStateInsufficientPrivilege = "42501"
)

type sqlStater interface {
	SQLState() string
}

func sqlState(err error) string {
	var se sqlStater
	if errors.As(err, &se) {
		return se.SQLState()
	}
	return ""
}

// translateError maps database errors onto store sentinel errors, keeping
// the original error in the chain.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var sentinel error
	switch sqlState(err) {
	case sqlStateNoDataFound:
		sentinel = store.ErrAccountNotFound
	case sqlStateCheckViolation:
		sentinel = store.ErrInvalidTransition
	case sqlStateInsufficientPrivilege:
		sentinel = store.ErrNotAdmin
	default:
		return err
	}
	return &storeError{sentinel: sentinel, cause: err}
}

type storeError struct {
	sentinel error
	cause    error
}

func (e *storeError) Error() string {
	return e.sentinel.Error() + ": " + e.cause.Error()
}

func (e *storeError) Is(target error) bool {
	return target == e.sentinel
}

func (e *storeError) Unwrap() error {
	return e.cause
}
