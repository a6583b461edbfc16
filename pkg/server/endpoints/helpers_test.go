package endpoints

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pashioya/marnix13/pkg/config"
	"github.com/pashioya/marnix13/pkg/model"
	"github.com/pashioya/marnix13/pkg/server"
	"github.com/pashioya/marnix13/pkg/server/middleware"
	"github.com/pashioya/marnix13/pkg/server/store/storetest"
)

const testJWTSecret = "super-secret-jwt-token-with-at-least-32-characters"

type testEnv struct {
	srv       *server.Server
	accounts  *storetest.MockAccountsStore
	approvals *storetest.MockApprovalStore
	services  *storetest.MockServicesStore
	health    *storetest.MockHealthStore
}

func testConfig() *config.PortalConfig {
	return &config.PortalConfig{
		SiteURL:              "https://portal.example.com",
		ProductName:          "Marnix 13",
		LogLevel:             "error",
		LogFormat:            "json",
		JellyfinURL:          "https://jellyfin.example.com",
		MailTransport:        "log",
		HealthCheckTimeoutMs: 2000,
	}
}

func newTestEnv(t *testing.T, cfg *config.PortalConfig) *testEnv {
	t.Helper()
	t.Setenv("MARNIX_JWT_SECRET", testJWTSecret)
	if cfg == nil {
		cfg = testConfig()
	}

	env := &testEnv{
		accounts:  new(storetest.MockAccountsStore),
		approvals: new(storetest.MockApprovalStore),
		services:  new(storetest.MockServicesStore),
		health:    new(storetest.MockHealthStore),
	}
	env.srv = server.NewServerWithStores(cfg, server.Stores{
		Accounts: env.accounts,
		Approval: env.approvals,
		Services: env.services,
		Health:   env.health,
	}, "127.0.0.1", "0")
	RegisterAll(env.srv)
	t.Cleanup(env.srv.Checker.CloseIdleConnections)
	return env
}

// account registers an account the mocked store will return.
func (e *testEnv) account(accountType model.AccountType, status model.ApprovalStatus) *model.Account {
	email := "someone@example.com"
	a := &model.Account{
		ID:             uuid.New(),
		Name:           "Someone",
		Email:          &email,
		AccountType:    accountType,
		ApprovalStatus: status,
	}
	e.accounts.On("FetchAccount", mock.Anything, a.ID).Return(a, nil)
	return a
}

func (e *testEnv) admin() *model.Account {
	return e.account(model.AccountTypeAdmin, model.ApprovalStatusApproved)
}

type request struct {
	method      string
	path        string
	userID      uuid.UUID
	body        string
	contentType string
	accept      string
}

func (e *testEnv) do(t *testing.T, req request) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if req.body != "" {
		body = strings.NewReader(req.body)
	}
	r := httptest.NewRequest(req.method, req.path, body)
	if req.contentType != "" {
		r.Header.Set("Content-Type", req.contentType)
	}
	if req.accept != "" {
		r.Header.Set("Accept", req.accept)
	}
	if req.userID != uuid.Nil {
		token, err := middleware.SignSessionToken(testJWTSecret, req.userID, "", time.Hour)
		require.NoError(t, err)
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type errorResponse struct {
	Error ErrorBody `json:"error"`
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	decode(t, w, &resp)
	return resp.Error.Code
}

// closedPort returns a local port nothing listens on.
func closedPort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, port, _ := net.SplitHostPort(l.Addr().String())
	require.NoError(t, l.Close())
	p, _ := strconv.Atoi(port)
	return p
}


func newRawRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func serve(e *testEnv, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(w, r)
	return w
}
