package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pashioya/marnix13/pkg/model"
	"github.com/pashioya/marnix13/pkg/server/store"
)

// Ensure ServicesStore implements store.ServicesStore
var _ store.ServicesStore = (*ServicesStore)(nil)

// ServicesStore implements store.ServicesStore using GORM
type ServicesStore struct {
	db *gorm.DB
}

// NewServicesStore creates a new ServicesStore
func NewServicesStore(db *gorm.DB) *ServicesStore {
	return &ServicesStore{db: db}
}

// ListServices returns all services ordered by name
func (s *ServicesStore) ListServices(ctx context.Context) ([]model.Service, error) {
	services := []model.Service{}
	if err := s.db.WithContext(ctx).Order("name").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// FetchService returns the service registered under key
func (s *ServicesStore) FetchService(ctx context.Context, key string) (*model.Service, error) {
	var service model.Service
	err := s.db.WithContext(ctx).Where("service_key = ?", key).First(&service).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &service, nil
}

// CreateService inserts a new service
func (s *ServicesStore) CreateService(ctx context.Context, service *model.Service) error {
	err := s.db.WithContext(ctx).Create(service).Error
	if sqlState(err) == sqlStateUniqueViolation {
		return store.ErrServiceExists
	}
	return err
}

// UpdateService writes the given columns and returns the updated row
func (s *ServicesStore) UpdateService(ctx context.Context, key string, updatedBy uuid.UUID, columns map[string]interface{}) (*model.Service, error) {
	updates := make(map[string]interface{}, len(columns)+2)
	for k, v := range columns {
		updates[k] = v
	}
	updates["updated_by"] = updatedBy
	updates["updated_at"] = time.Now().UTC()

	result := s.db.WithContext(ctx).
		Model(&model.Service{}).
		Where("service_key = ?", key).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, store.ErrServiceNotFound
	}
	return s.FetchService(ctx, key)
}

// DeleteService removes a service
func (s *ServicesStore) DeleteService(ctx context.Context, key string) error {
	result := s.db.WithContext(ctx).Where("service_key = ?", key).Delete(&model.Service{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrServiceNotFound
	}
	return nil
}

// RecordHealthCheck stores the latest probe result
func (s *ServicesStore) RecordHealthCheck(ctx context.Context, key string, result store.HealthResult) error {
	var lastError *string
	if result.Error != "" {
		lastError = &result.Error
	}
	responseTime := int(result.ResponseTime.Milliseconds())

	return s.db.WithContext(ctx).Exec(`
		UPDATE services
		SET status = ?, last_health_check = ?, response_time_ms = ?, last_error = ?
		WHERE service_key = ?
	`, string(result.Status), result.CheckedAt, responseTime, lastError, key).Error
}
