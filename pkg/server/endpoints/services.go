package endpoints

import (
	"net/http"
	"regexp"
	"time"

	"github.com/gorilla/mux"

	"github.com/pashioya/marnix13/pkg/audit"
	"github.com/pashioya/marnix13/pkg/logging"
	"github.com/pashioya/marnix13/pkg/model"
	"github.com/pashioya/marnix13/pkg/server"
	"github.com/pashioya/marnix13/pkg/server/middleware"
	"github.com/pashioya/marnix13/pkg/server/store"
	"github.com/pashioya/marnix13/pkg/services"
	"github.com/pashioya/marnix13/pkg/validation"
)

var serviceKeyPattern = regexp.MustCompile(`^[a-z0-9-]{1,50}$`)

// HealthCheckResponse is the outcome of a service probe
type HealthCheckResponse struct {
	Success        bool                `json:"success"`
	Status         model.ServiceStatus `json:"status"`
	ResponseTimeMs int64               `json:"responseTimeMs"`
	CheckedAt      time.Time           `json:"checkedAt"`
	Error          string              `json:"error,omitempty"`
}

func toHealthResponse(result store.HealthResult) HealthCheckResponse {
	return HealthCheckResponse{
		Success:        result.Status == model.ServiceStatusOnline,
		Status:         result.Status,
		ResponseTimeMs: result.ResponseTime.Milliseconds(),
		CheckedAt:      result.CheckedAt,
		Error:          result.Error,
	}
}

// CatalogResponse lists the presets admins can choose from
type CatalogResponse struct {
	Types      []services.CatalogEntry                         `json:"types"`
	Categories map[model.ServiceCategory]services.CategoryInfo `json:"categories"`
}

// RegisterServicesEndpoints registers the admin services registry endpoints
func RegisterServicesEndpoints(s *server.Server) {
	r := s.Router.PathPrefix("/api/admin/services").Subrouter()
	r.Use(s.Sessions.Middleware, middleware.RequireAdmin(s.AccountsStore))
	limit := middleware.RateLimit(s.Config().AdminRateLimit)

	r.HandleFunc("", handleListServices(s.ServicesStore)).Methods("GET")
	r.Handle("", limit(handleCreateService(s.ServicesStore))).Methods("POST")
	r.HandleFunc("/catalog", handleServiceCatalog()).Methods("GET")
	r.Handle("/test-connection", limit(handleTestConnection(s.Checker))).Methods("POST")

	r.HandleFunc("/{key:[a-z0-9-]+}", handleGetService(s.ServicesStore)).Methods("GET")
	r.Handle("/{key:[a-z0-9-]+}", limit(handleUpdateService(s.ServicesStore))).Methods("PATCH")
	r.Handle("/{key:[a-z0-9-]+}", limit(handleDeleteService(s.ServicesStore))).Methods("DELETE")
	r.Handle("/{key:[a-z0-9-]+}/check", limit(handleCheckService(s.Monitor))).Methods("POST")
}

func auditServiceChange(r *http.Request, key, operation string, err error) {
	event := audit.ServiceChangeEvent{
		UserID:     currentUserID(r).String(),
		ClientIP:   middleware.ClientIP(r),
		ServiceKey: key,
		Operation:  operation,
		Success:    err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	audit.Log(event)
}

func handleListServices(servicesStore store.ServicesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := servicesStore.ListServices(r.Context())
		if err != nil {
			respondWithFailure(w, r, err, "Failed to fetch services")
			return
		}
		respondWithData(w, services.ToViews(rows))
	}
}

func handleCreateService(servicesStore store.ServicesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.CreateRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithFailure(w, r, err, "")
			return
		}
		if verr := validation.ValidateStruct(&req); verr != nil {
			respondWithFailure(w, r, verr, "")
			return
		}

		userID := currentUserID(r)
		svc := req.ToModel(userID, userID)
		if !serviceKeyPattern.MatchString(svc.ServiceKey) {
			respondWithFailure(w, r, validation.NewRequestValidationError("id", "key",
				"id may only contain lowercase letters, digits and dashes"), "")
			return
		}

		err := servicesStore.CreateService(r.Context(), &svc)
		auditServiceChange(r, svc.ServiceKey, "create", err)
		if err != nil {
			respondWithFailure(w, r, err, "Failed to create service")
			return
		}
		respondWithJSON(w, http.StatusCreated, services.ToView(svc))
	}
}

func handleServiceCatalog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, CatalogResponse{
			Types:      services.Catalog(),
			Categories: services.Categories,
		})
	}
}

func handleGetService(servicesStore store.ServicesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc, err := servicesStore.FetchService(r.Context(), mux.Vars(r)["key"])
		if err != nil {
			respondWithFailure(w, r, err, "Failed to fetch service")
			return
		}
		respondWithJSON(w, http.StatusOK, services.ToView(*svc))
	}
}

func handleUpdateService(servicesStore store.ServicesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := mux.Vars(r)["key"]

		var req services.UpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithFailure(w, r, err, "")
			return
		}
		if verr := validation.ValidateStruct(&req); verr != nil {
			respondWithFailure(w, r, verr, "")
			return
		}
		columns := req.Columns()
		if len(columns) == 0 {
			respondWithFailure(w, r, validation.NewRequestValidationError("body", "required", "No fields to update"), "")
			return
		}

		svc, err := servicesStore.UpdateService(r.Context(), key, currentUserID(r), columns)
		auditServiceChange(r, key, "update", err)
		if err != nil {
			respondWithFailure(w, r, err, "Failed to update service")
			return
		}
		respondWithJSON(w, http.StatusOK, services.ToView(*svc))
	}
}

func handleDeleteService(servicesStore store.ServicesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := mux.Vars(r)["key"]
		err := servicesStore.DeleteService(r.Context(), key)
		auditServiceChange(r, key, "delete", err)
		if err != nil {
			respondWithFailure(w, r, err, "Failed to delete service")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleCheckService(monitor *services.Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := monitor.CheckOne(r.Context(), mux.Vars(r)["key"])
		if err != nil {
			if result.CheckedAt.IsZero() {
				respondWithFailure(w, r, err, "Failed to check service")
				return
			}
			logging.Ctx(r.Context()).Warn().Err(err).Msg("health check result not recorded")
		}
		respondWithJSON(w, http.StatusOK, toHealthResponse(result))
	}
}

func handleTestConnection(checker *services.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.ConnectionTest
		if err := decodeJSON(r, &req); err != nil {
			respondWithFailure(w, r, err, "")
			return
		}
		if verr := validation.ValidateStruct(&req); verr != nil {
			respondWithFailure(w, r, verr, "")
			return
		}
		respondWithJSON(w, http.StatusOK, toHealthResponse(checker.TestConnection(r.Context(), req)))
	}
}
