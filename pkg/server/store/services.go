package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pashioya/marnix13/pkg/model"
)

// HealthResult is the outcome of probing a service
type HealthResult struct {
	Status       model.ServiceStatus
	ResponseTime time.Duration
	CheckedAt    time.Time
	Error        string
}

// ServicesStore abstracts the services registry
type ServicesStore interface {
	// ListServices returns all services ordered by name
	ListServices(ctx context.Context) ([]model.Service, error)

	// FetchService returns ErrServiceNotFound if the key doesn't exist
	FetchService(ctx context.Context, key string) (*model.Service, error)

	// CreateService returns ErrServiceExists if the key is taken
	CreateService(ctx context.Context, service *model.Service) error

	// UpdateService writes only the given columns.
	// Returns ErrServiceNotFound if the key doesn't exist.
	UpdateService(ctx context.Context, key string, updatedBy uuid.UUID, columns map[string]interface{}) (*model.Service, error)

	// DeleteService returns ErrServiceNotFound if the key doesn't exist
	DeleteService(ctx context.Context, key string) error

	// RecordHealthCheck stores the latest probe result
	RecordHealthCheck(ctx context.Context, key string, result HealthResult) error
}
