package endpoints

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/pashioya/marnix13/pkg/model"
	"github.com/pashioya/marnix13/pkg/navigation"
	"github.com/pashioya/marnix13/pkg/server"
	"github.com/pashioya/marnix13/pkg/server/middleware"
	"github.com/pashioya/marnix13/pkg/server/store"
	"github.com/pashioya/marnix13/pkg/services"
)

// MeResponse describes the signed-in account
type MeResponse struct {
	ID             uuid.UUID            `json:"id"`
	Name           string               `json:"name"`
	Email          *string              `json:"email"`
	PictureURL     *string              `json:"pictureUrl"`
	AccountType    model.AccountType    `json:"accountType"`
	ApprovalStatus model.ApprovalStatus `json:"approvalStatus"`
	IsAdmin        bool                 `json:"isAdmin"`
}

// NavigationResponse is the sidebar and the flat menu of the signed-in account
type NavigationResponse struct {
	Style            string             `json:"style"`
	SidebarCollapsed bool               `json:"sidebarCollapsed"`
	Routes           []navigation.Route `json:"routes"`
	Items            []navigation.Item  `json:"items"`
}

// PortalResponse lists the service tiles of the dashboard
type PortalResponse struct {
	Product  string                `json:"product"`
	Links    []services.PortalLink `json:"links"`
	Featured []services.PortalLink `json:"featured"`
}

// RegisterMeEndpoints registers the endpoints of the signed-in user
func RegisterMeEndpoints(s *server.Server) {
	api := s.Router.PathPrefix("/api").Subrouter()
	api.Use(s.Sessions.Middleware)

	api.HandleFunc("/me", handleMe(s.AccountsStore)).Methods("GET")
	api.HandleFunc("/me/approval-status", handleMyApprovalStatus(s)).Methods("GET")
	api.HandleFunc("/navigation", handleNavigation(s)).Methods("GET")

	portal := api.PathPrefix("/portal").Subrouter()
	portal.Use(middleware.RequireApproved(s.AccountsStore))
	portal.HandleFunc("", handlePortal(s)).Methods("GET")
}

func currentUserID(r *http.Request) uuid.UUID {
	id, _ := middleware.UserIDFromContext(r.Context())
	return id
}

func handleMe(accounts store.AccountsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, err := accounts.FetchAccount(r.Context(), currentUserID(r))
		if err != nil {
			respondWithFailure(w, r, err, "Failed to load account")
			return
		}
		respondWithJSON(w, http.StatusOK, MeResponse{
			ID:             account.ID,
			Name:           account.Name,
			Email:          account.Email,
			PictureURL:     account.PictureURL,
			AccountType:    account.AccountType,
			ApprovalStatus: account.ApprovalStatus,
			IsAdmin:        account.IsAdmin(),
		})
	}
}

func handleMyApprovalStatus(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		details := s.Workflow.Service().GetUserApprovalStatus(r.Context(), currentUserID(r))
		if details == nil {
			respondWithError(w, http.StatusNotFound, ErrorBody{Code: "NOT_FOUND", Message: "Approval status not found"})
			return
		}
		respondWithJSON(w, http.StatusOK, details)
	}
}

func handleNavigation(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isAdmin := false
		account, err := s.AccountsStore.FetchAccount(r.Context(), currentUserID(r))
		switch {
		case err == nil:
			isAdmin = account.IsAdmin()
		case !errors.Is(err, store.ErrAccountNotFound):
			respondWithFailure(w, r, err, "Failed to load navigation")
			return
		}

		nav := s.Navigation.ForUser(isAdmin)
		respondWithJSON(w, http.StatusOK, NavigationResponse{
			Style:            nav.Style,
			SidebarCollapsed: nav.SidebarCollapsed,
			Routes:           nav.Routes,
			Items:            navigation.FilterByAccess(navigation.Flatten(nav.Routes), isAdmin),
		})
	}
}

func handlePortal(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := s.Config()
		links := services.PortalLinks(cfg)
		respondWithJSON(w, http.StatusOK, PortalResponse{
			Product:  cfg.ProductName,
			Links:    links,
			Featured: services.FeaturedLinks(links),
		})
	}
}
