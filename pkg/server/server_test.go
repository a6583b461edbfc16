package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pashioya/marnix13/pkg/config"
	"github.com/pashioya/marnix13/pkg/server/middleware"
	"github.com/pashioya/marnix13/pkg/server/store/storetest"
)

func testConfig(siteURL string) *config.PortalConfig {
	return &config.PortalConfig{
		SiteURL:              siteURL,
		ProductName:          "Marnix 13",
		LogLevel:             "error",
		LogFormat:            "json",
		MailTransport:        "log",
		HealthCheckTimeoutMs: 2000,
	}
}

func newTestServer(t *testing.T, cfg *config.PortalConfig) *Server {
	t.Helper()
	t.Setenv("MARNIX_JWT_SECRET", "test-secret")
	s := NewServerWithStores(cfg, Stores{
		Accounts: new(storetest.MockAccountsStore),
		Approval: new(storetest.MockApprovalStore),
		Services: new(storetest.MockServicesStore),
		Health:   new(storetest.MockHealthStore),
	}, "127.0.0.1", "0")
	s.Router.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return s
}

func TestHandlerCORS(t *testing.T) {
	s := newTestServer(t, testConfig("https://portal.example.com"))

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://portal.example.com", true},
		{"https://evil.example.com", false},
		{"http://portal.example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)

			if tt.allowed {
				assert.Equal(t, tt.origin, rec.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestSetConfigSwapsAllowedOrigin(t *testing.T) {
	s := newTestServer(t, testConfig("https://old.example.com"))
	assert.True(t, s.allowedOrigin("https://old.example.com"))

	s.SetConfig(testConfig("https://new.example.com"))
	assert.Equal(t, "https://new.example.com", s.Config().SiteURL)
	assert.False(t, s.allowedOrigin("https://old.example.com"))
	assert.True(t, s.allowedOrigin("https://new.example.com"))
}

func TestSetConfigKeepsMailerWhenTransportUnchanged(t *testing.T) {
	cfg := testConfig("https://portal.example.com")
	cfg.MailTransport = "smtp"
	cfg.SMTPHost = "mail.example.com"
	cfg.SMTPPort = 587
	cfg.SMTPFrom = "noreply@example.com"
	s := newTestServer(t, cfg)
	before := s.notifier.current.Load().Mailer()

	reloaded := *cfg
	reloaded.LogLevel = "warn"
	s.SetConfig(&reloaded)
	assert.Same(t, before, s.notifier.current.Load().Mailer())

	moved := reloaded
	moved.SMTPPort = 2525
	s.SetConfig(&moved)
	assert.NotSame(t, before, s.notifier.current.Load().Mailer())
}

func TestHandlerSetsRequestID(t *testing.T) {
	s := newTestServer(t, testConfig("https://portal.example.com"))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestServeAndShutdown(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s := newTestServer(t, testConfig("https://portal.example.com"))
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Serve(l) }()

	client := &http.Client{Transport: &http.Transport{}}
	resp, err := client.Get("http://" + l.Addr().String() + "/ping")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	client.CloseIdleConnections()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	assert.NoError(t, <-done)
}
