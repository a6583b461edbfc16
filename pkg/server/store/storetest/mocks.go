// Package storetest provides testify mocks of the store interfaces.
package storetest

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pashioya/marnix13/pkg/model"
	"github.com/pashioya/marnix13/pkg/server/store"
)

var (
	_ store.AccountsStore = (*MockAccountsStore)(nil)
	_ store.ApprovalStore = (*MockApprovalStore)(nil)
	_ store.ServicesStore = (*MockServicesStore)(nil)
	_ store.HealthStore   = (*MockHealthStore)(nil)
)

// MockAccountsStore implements store.AccountsStore using testify/mock
type MockAccountsStore struct {
	mock.Mock
}

func (m *MockAccountsStore) FetchAccount(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountsStore) FetchContact(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}

func (m *MockAccountsStore) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountsStore) SetAccountType(ctx context.Context, id uuid.UUID, accountType model.AccountType) error {
	args := m.Called(ctx, id, accountType)
	return args.Error(0)
}

// MockApprovalStore implements store.ApprovalStore using testify/mock
type MockApprovalStore struct {
	mock.Mock
}

func (m *MockApprovalStore) PendingUsers(ctx context.Context) ([]model.PendingUser, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.PendingUser)
	return users, args.Error(1)
}

func (m *MockApprovalStore) ApprovedUsers(ctx context.Context) ([]model.ApprovedUser, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.ApprovedUser)
	return users, args.Error(1)
}

func (m *MockApprovalStore) ApproveAccount(ctx context.Context, accountID, adminID uuid.UUID) error {
	args := m.Called(ctx, accountID, adminID)
	return args.Error(0)
}

func (m *MockApprovalStore) RejectAccount(ctx context.Context, accountID, adminID uuid.UUID, reason *string) error {
	args := m.Called(ctx, accountID, adminID, reason)
	return args.Error(0)
}

func (m *MockApprovalStore) UserApprovalStatus(ctx context.Context, userID uuid.UUID) (*model.ApprovalStatusDetails, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApprovalStatusDetails), args.Error(1)
}

func (m *MockApprovalStore) ApprovalStatistics(ctx context.Context) (*model.ApprovalStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApprovalStatistics), args.Error(1)
}

// MockServicesStore implements store.ServicesStore using testify/mock
type MockServicesStore struct {
	mock.Mock
}

func (m *MockServicesStore) ListServices(ctx context.Context) ([]model.Service, error) {
	args := m.Called(ctx)
	services, _ := args.Get(0).([]model.Service)
	return services, args.Error(1)
}

func (m *MockServicesStore) FetchService(ctx context.Context, key string) (*model.Service, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Service), args.Error(1)
}

func (m *MockServicesStore) CreateService(ctx context.Context, service *model.Service) error {
	args := m.Called(ctx, service)
	return args.Error(0)
}

func (m *MockServicesStore) UpdateService(ctx context.Context, key string, updatedBy uuid.UUID, columns map[string]interface{}) (*model.Service, error) {
	args := m.Called(ctx, key, updatedBy, columns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Service), args.Error(1)
}

func (m *MockServicesStore) DeleteService(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockServicesStore) RecordHealthCheck(ctx context.Context, key string, result store.HealthResult) error {
	args := m.Called(ctx, key, result)
	return args.Error(0)
}

// MockHealthStore implements store.HealthStore using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
