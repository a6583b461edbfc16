package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookie is the cookie the dashboard stores the access token in.
const SessionCookie = "sb-access-token"

// SessionAudience is the audience of tokens issued to signed-in users.
const SessionAudience = "authenticated"

type contextKey string

const (
	userIDKey  contextKey = "userId"
	accountKey contextKey = "account"
)

var (
	errMissingToken = errors.New("missing session token")
	errInvalidToken = errors.New("invalid session token")
)

// SessionClaims are the claims of a platform access token.
type SessionClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// SessionAuthenticator verifies HS256 access tokens and stores the user id
// from the sub claim in the request context.
type SessionAuthenticator struct {
	secret []byte
	parser *jwt.Parser
}

// NewSessionAuthenticator creates an authenticator for tokens signed with secret.
func NewSessionAuthenticator(secret string) *SessionAuthenticator {
	return &SessionAuthenticator{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(30*time.Second),
		),
	}
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// Verify parses token and returns the user id it was issued for.
func (a *SessionAuthenticator) Verify(token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, errMissingToken
	}
	if len(a.secret) == 0 {
		return uuid.Nil, fmt.Errorf("%w: no signing secret configured", errInvalidToken)
	}

	claims := &SessionClaims{}
	_, err := a.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", errInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: subject is not a user id", errInvalidToken)
	}
	return userID, nil
}

// Middleware rejects requests without a valid session with 401.
func (a *SessionAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := a.Verify(tokenFromRequest(r))
		if err != nil {
			message := "Invalid session"
			if errors.Is(err, errMissingToken) {
				message = "Authentication required"
			}
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
	})
}

// SignSessionToken issues a token for userID valid for ttl.
func SignSessionToken(secret string, userID uuid.UUID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Email: email,
		Role:  SessionAudience,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{SessionAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ContextWithUserID returns ctx carrying the signed-in user id.
func ContextWithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromContext returns the signed-in user id.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}
