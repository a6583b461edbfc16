package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/pashioya/marnix13/pkg/approval"
	"github.com/pashioya/marnix13/pkg/audit"
	"github.com/pashioya/marnix13/pkg/config"
	"github.com/pashioya/marnix13/pkg/logging"
	"github.com/pashioya/marnix13/pkg/navigation"
	"github.com/pashioya/marnix13/pkg/notify"
	"github.com/pashioya/marnix13/pkg/server/middleware"
	"github.com/pashioya/marnix13/pkg/server/store"
	gormstore "github.com/pashioya/marnix13/pkg/server/store/gorm"
	"github.com/pashioya/marnix13/pkg/services"
)

// Stores groups the persistence the server depends on.
type Stores struct {
	Accounts store.AccountsStore
	Approval store.ApprovalStore
	Services store.ServicesStore
	Health   store.HealthStore
}

// GormStores returns the gorm implementations backed by db.
func GormStores(db *gorm.DB) Stores {
	return Stores{
		Accounts: gormstore.NewAccountsStore(db),
		Approval: gormstore.NewApprovalStore(db),
		Services: gormstore.NewServicesStore(db),
		Health:   gormstore.NewHealthStore(db),
	}
}

type Server struct {
	Router *mux.Router
	DB     *gorm.DB

	AccountsStore store.AccountsStore
	ApprovalStore store.ApprovalStore
	ServicesStore store.ServicesStore
	HealthStore   store.HealthStore

	Workflow   *approval.Workflow
	Checker    *services.Checker
	Monitor    *services.Monitor
	Sessions   *middleware.SessionAuthenticator
	Navigation *navigation.Config

	config   atomic.Pointer[config.PortalConfig]
	notifier *liveNotifier
	srv      *http.Server
}

// NewServer creates a server using the gorm stores.
func NewServer(cfg *config.PortalConfig, db *gorm.DB, host, port string) *Server {
	s := NewServerWithStores(cfg, GormStores(db), host, port)
	s.DB = db
	return s
}

// NewServerWithStores creates a server over the given stores.
func NewServerWithStores(cfg *config.PortalConfig, stores Stores, host, port string) *Server {
	router := mux.NewRouter()
	router.Use(middleware.Metrics)

	s := &Server{
		Router:        router,
		AccountsStore: stores.Accounts,
		ApprovalStore: stores.Approval,
		ServicesStore: stores.Services,
		HealthStore:   stores.Health,
		Sessions:      middleware.NewSessionAuthenticator(config.JWTSecret()),
		Navigation:    navigation.Default(),
		notifier:      &liveNotifier{},
	}
	s.SetConfig(cfg)

	s.Workflow = approval.NewWorkflow(approval.NewService(stores.Approval), stores.Accounts, s.notifier)
	s.Checker = services.NewChecker(cfg.HealthCheckTimeout())
	s.Monitor = services.NewMonitor(stores.Services, s.Checker, services.DefaultMonitorTick)

	s.srv = &http.Server{
		Handler:           s.Handler(),
		Addr:              net.JoinHostPort(host, port),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadTimeout:       15 * time.Second,
	}
	return s
}

// Handler returns the router wrapped in the outer middleware.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Router
	h = handlers.CORS(
		handlers.AllowedOriginValidator(s.allowedOrigin),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", middleware.RequestIDHeader}),
		handlers.AllowCredentials(),
	)(h)
	h = handlers.LoggingHandler(logging.Writer{Level: zerolog.InfoLevel, Field: "http"}, h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(logging.Writer{Level: zerolog.ErrorLevel, Field: "panic"}),
	)(h)
	h = middleware.RequestID(h)
	return h
}

// allowedOrigin accepts cross-origin requests from the dashboard only.
func (s *Server) allowedOrigin(origin string) bool {
	site, err := url.Parse(s.Config().SiteURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(origin, site.Scheme+"://"+site.Host)
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Config returns the current configuration.
func (s *Server) Config() *config.PortalConfig {
	return s.config.Load()
}

// SetConfig swaps the configuration of a running server.
func (s *Server) SetConfig(cfg *config.PortalConfig) {
	s.config.Store(cfg)
	s.notifier.current.Store(notify.Reconfigure(s.notifier.current.Load(), cfg))
	audit.SetEnabled(cfg.AuditEnabled)
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Serve accepts connections on l until Shutdown.
func (s *Server) Serve(l net.Listener) error {
	err := s.srv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.Checker.CloseIdleConnections()
	return s.srv.Shutdown(ctx)
}

// liveNotifier forwards to the notifier of the current configuration.
type liveNotifier struct {
	current atomic.Pointer[notify.Notifier]
}

func (n *liveNotifier) SendApprovalNotification(ctx context.Context, user notify.Recipient) error {
	return n.current.Load().SendApprovalNotification(ctx, user)
}

func (n *liveNotifier) SendRejectionNotification(ctx context.Context, user notify.Recipient, reason string) error {
	return n.current.Load().SendRejectionNotification(ctx, user, reason)
}
