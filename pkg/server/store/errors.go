package store

import (
	"errors"
)

var (
	// ErrAccountNotFound is returned when an account doesn't exist
	ErrAccountNotFound = errors.New("account not found")

	// ErrNotAdmin is returned when the acting account is not an administrator
	ErrNotAdmin = errors.New("acting account is not an administrator")

	// ErrInvalidTransition is returned when an account is no longer pending review
	ErrInvalidTransition = errors.New("account is not pending approval")

	// ErrServiceNotFound is returned when a service key doesn't exist
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceExists is returned when a service key is already taken
	ErrServiceExists = errors.New("service already exists")
)
