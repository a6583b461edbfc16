package endpoints

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/pashioya/marnix13/pkg/approval"
	"github.com/pashioya/marnix13/pkg/server"
	"github.com/pashioya/marnix13/pkg/server/middleware"
	"github.com/pashioya/marnix13/pkg/validation"
)

// ActionResponse is the body of a successful approve or reject
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RegisterUserApprovalEndpoints registers the admin user-approval endpoints
func RegisterUserApprovalEndpoints(s *server.Server) {
	users := s.Router.PathPrefix("/api/admin/users").Subrouter()
	users.Use(s.Sessions.Middleware, middleware.RequireAdmin(s.AccountsStore))

	svc := s.Workflow.Service()
	users.HandleFunc("/pending", handlePendingUsers(svc)).Methods("GET")
	users.HandleFunc("/approved", handleApprovedUsers(svc)).Methods("GET")
	users.HandleFunc("/statistics", handleApprovalStatistics(svc)).Methods("GET")
	users.HandleFunc("/{id}/status", handleUserApprovalStatus(svc)).Methods("GET")

	limit := middleware.RateLimit(s.Config().AdminRateLimit)
	users.Handle("/approve", limit(handleApproveUser(s.Workflow))).Methods("POST")
	users.Handle("/reject", limit(handleRejectUser(s.Workflow))).Methods("POST")
	users.Handle("/review", limit(handleReviewUser(s.Workflow))).Methods("POST")
}

func handlePendingUsers(svc *approval.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.GetPendingUsers(r.Context())
		if err != nil {
			respondWithFailure(w, r, err, "Failed to fetch pending users")
			return
		}
		respondWithData(w, users)
	}
}

func handleApprovedUsers(svc *approval.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.GetApprovedUsers(r.Context())
		if err != nil {
			respondWithFailure(w, r, err, "Failed to fetch approved users")
			return
		}
		respondWithData(w, users)
	}
}

func handleApprovalStatistics(svc *approval.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.GetApprovalStatistics(r.Context())
		if err != nil {
			respondWithFailure(w, r, err, "Failed to fetch statistics")
			return
		}
		respondWithData(w, stats)
	}
}

func handleUserApprovalStatus(svc *approval.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			respondWithFailure(w, r, validation.NewRequestValidationError("userId", "uuid", "userId must be a valid UUID"), "")
			return
		}
		details := svc.GetUserApprovalStatus(r.Context(), userID)
		if details == nil {
			respondWithError(w, http.StatusNotFound, ErrorBody{Code: "NOT_FOUND", Message: "Approval status not found"})
			return
		}
		respondWithData(w, details)
	}
}

func actor(r *http.Request) approval.Actor {
	return approval.Actor{ID: currentUserID(r), ClientIP: middleware.ClientIP(r)}
}

func handleApproveUser(wf *approval.Workflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values, err := formValues(r, "userId", "reason")
		if err != nil {
			respondWithFailure(w, r, err, "")
			return
		}
		params := approval.ApprovalActionParams{UserID: values["userId"], Reason: values["reason"]}
		if err := wf.Approve(r.Context(), actor(r), params); err != nil {
			respondWithFailure(w, r, err, "Failed to approve user")
			return
		}
		respondWithJSON(w, http.StatusOK, ActionResponse{Success: true, Message: "User approved successfully"})
	}
}

func handleRejectUser(wf *approval.Workflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values, err := formValues(r, "userId", "reason")
		if err != nil {
			respondWithFailure(w, r, err, "")
			return
		}
		form := approval.RejectUserForm{UserID: values["userId"], Reason: values["reason"]}
		if err := wf.Reject(r.Context(), actor(r), form); err != nil {
			respondWithFailure(w, r, err, "Failed to reject user")
			return
		}
		respondWithJSON(w, http.StatusOK, ActionResponse{Success: true, Message: "User rejected successfully"})
	}
}

func handleReviewUser(wf *approval.Workflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values, err := formValues(r, "action", "userId", "reason")
		if err != nil {
			respondWithFailure(w, r, err, "")
			return
		}
		form := approval.UserApprovalForm{Action: values["action"], UserID: values["userId"], Reason: values["reason"]}
		if err := wf.Apply(r.Context(), actor(r), form); err != nil {
			respondWithFailure(w, r, err, "Failed to update user")
			return
		}
		message := "User approved successfully"
		if form.Action == approval.ActionReject {
			message = "User rejected successfully"
		}
		respondWithJSON(w, http.StatusOK, ActionResponse{Success: true, Message: message})
	}
}
