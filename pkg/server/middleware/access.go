package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/pashioya/marnix13/pkg/audit"
	"github.com/pashioya/marnix13/pkg/logging"
	"github.com/pashioya/marnix13/pkg/model"
	"github.com/pashioya/marnix13/pkg/server/store"
)

// HomePath is where browsers are sent when they may not see a page.
const HomePath = "/home"

// AccountFromContext returns the account loaded by RequireAdmin or
// RequireApproved.
func AccountFromContext(ctx context.Context) (*model.Account, bool) {
	a, ok := ctx.Value(accountKey).(*model.Account)
	return a, ok
}

// ContextWithAccount returns ctx carrying account.
func ContextWithAccount(ctx context.Context, account *model.Account) context.Context {
	return context.WithValue(ctx, accountKey, account)
}

// ClientIP returns the remote address of r without the port.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// wantsHTML reports whether r is a browser page navigation.
func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]errorBody{"error": {Code: code, Message: message}})
}

func loadAccount(w http.ResponseWriter, r *http.Request, accounts store.AccountsStore) (*model.Account, bool) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return nil, false
	}
	account, err := accounts.FetchAccount(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil, true
		}
		logging.Ctx(r.Context()).Error().Err(err).Stringer("userId", userID).Msg("failed to load account")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load account")
		return nil, false
	}
	return account, true
}

func deny(w http.ResponseWriter, r *http.Request, reason string) {
	userID, _ := UserIDFromContext(r.Context())
	audit.Log(audit.AccessDeniedEvent{
		UserID:   userID.String(),
		ClientIP: ClientIP(r),
		Path:     r.URL.Path,
		Reason:   reason,
	})
	if wantsHTML(r) {
		http.Redirect(w, r, HomePath, http.StatusFound)
		return
	}
	writeError(w, http.StatusForbidden, "FORBIDDEN", reason)
}

// RequireAdmin lets through only accounts whose account_type is admin.
// Page navigations are redirected home, API calls get 403.
func RequireAdmin(accounts store.AccountsStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account, ok := loadAccount(w, r, accounts)
			if !ok {
				return
			}
			if account == nil || !account.IsAdmin() {
				deny(w, r, "Admin privileges required")
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithAccount(r.Context(), account)))
		})
	}
}

// RequireApproved lets through approved accounts and admins.
func RequireApproved(accounts store.AccountsStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account, ok := loadAccount(w, r, accounts)
			if !ok {
				return
			}
			if account == nil || !(account.IsApproved() || account.IsAdmin()) {
				deny(w, r, "Account is awaiting approval")
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithAccount(r.Context(), account)))
		})
	}
}
