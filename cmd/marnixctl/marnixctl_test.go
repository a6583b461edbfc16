package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pashioya/marnix13/pkg/model"
	"github.com/pashioya/marnix13/pkg/server/store"
	"github.com/pashioya/marnix13/pkg/server/store/storetest"
)

func TestWithMigrationsTable(t *testing.T) {
	assert.Equal(t, "", withMigrationsTable(""))
	assert.Equal(t,
		"postgres://u:p@db/portal?x-migrations-table=marnix_schema_migrations",
		withMigrationsTable("postgres://u:p@db/portal"))
	assert.Equal(t,
		"postgres://u:p@db/portal?sslmode=disable&x-migrations-table=marnix_schema_migrations",
		withMigrationsTable("postgres://u:p@db/portal?sslmode=disable"))
}

func TestPendingMigrations(t *testing.T) {
	files := []string{
		"20250601000003_create_approval_functions.up.sql",
		"20250601000001_create_auth_users.up.sql",
		"20250601000002_create_accounts.up.sql",
		"README",
	}

	assert.Equal(t, []string{
		"20250601000001_create_auth_users.up.sql",
		"20250601000002_create_accounts.up.sql",
		"20250601000003_create_approval_functions.up.sql",
	}, pendingMigrations(files, 0))

	assert.Equal(t, []string{"20250601000003_create_approval_functions.up.sql"},
		pendingMigrations(files, 20250601000002))
	assert.Empty(t, pendingMigrations(files, 20250601000003))
}

func TestParsePIDs(t *testing.T) {
	self := strconv.Itoa(os.Getpid())

	pids, err := parsePIDs("1234\n" + self + "\n5678\n")
	require.NoError(t, err)
	assert.Equal(t, []int{1234, 5678}, pids)

	_, err = parsePIDs(self + "\n")
	assert.Error(t, err)

	_, err = parsePIDs("abc")
	assert.Error(t, err)
}

func TestResolveAccount(t *testing.T) {
	ctx := context.Background()
	accounts := new(storetest.MockAccountsStore)
	byID := &model.Account{ID: uuid.New()}
	byEmail := &model.Account{ID: uuid.New()}

	accounts.On("FetchAccount", mock.Anything, byID.ID).Return(byID, nil)
	accounts.On("FindByEmail", mock.Anything, "owner@example.com").Return(byEmail, nil)
	accounts.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, store.ErrAccountNotFound)

	got, err := resolveAccount(ctx, accounts, byID.ID.String())
	require.NoError(t, err)
	assert.Equal(t, byID, got)

	got, err = resolveAccount(ctx, accounts, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, byEmail, got)

	_, err = resolveAccount(ctx, accounts, "ghost@example.com")
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
}

func TestFormatPending(t *testing.T) {
	assert.Equal(t, "No accounts awaiting approval\n", formatPending(nil))

	email := "new@example.com"
	out := formatPending([]model.PendingUser{{
		ID:          uuid.MustParse("5b0f7c52-8f5e-4a3c-9a55-7a6b2b1d9e01"),
		Name:        "New User",
		Email:       &email,
		RequestedAt: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
	}, {
		ID:   uuid.MustParse("5b0f7c52-8f5e-4a3c-9a55-7a6b2b1d9e02"),
		Name: "No Email",
	}})
	assert.Contains(t, out, "new@example.com")
	assert.Contains(t, out, "2025-06-01T09:30:00Z")
	assert.Contains(t, out, "No Email")
}

func TestFormatResults(t *testing.T) {
	out, healthy := formatResults(map[string]store.HealthResult{
		"sonarr":   {Status: model.ServiceStatusOnline, ResponseTime: 12 * time.Millisecond},
		"jellyfin": {Status: model.ServiceStatusOnline, ResponseTime: 30 * time.Millisecond},
	})
	assert.True(t, healthy)
	assert.Less(t, strings.Index(out, "jellyfin"), strings.Index(out, "sonarr"))

	out, healthy = formatResults(map[string]store.HealthResult{
		"radarr": {Status: model.ServiceStatusOffline, Error: "connection refused"},
	})
	assert.False(t, healthy)
	assert.Contains(t, out, "connection refused")
}

func TestWaitForServer(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	require.NoError(t, waitForServer(ts.URL+"/health", 5, time.Millisecond))
	assert.Equal(t, int32(3), calls.Load())

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()
	assert.Error(t, waitForServer(down.URL+"/health", 2, time.Millisecond))
}
