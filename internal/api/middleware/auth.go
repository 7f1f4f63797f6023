package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/projectcostai/projectcostai/internal/auth"
	"github.com/projectcostai/projectcostai/internal/pkg/errors"
	"github.com/projectcostai/projectcostai/internal/pkg/utils"
)

const (
	identityKey ContextKey = "identity"

	// TokenCookie is read when no Authorization header is sent
	TokenCookie = "accessToken"
)

// Authenticator verifies bearer tokens. *auth.TokenIssuer implements it.
type Authenticator interface {
	Authenticate(token string) (auth.Identity, error)
}

// RequireAuth rejects requests without a valid token and stores the
// resolved identity in the request context.
func RequireAuth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := tokenFromRequest(r)
			if tokenStr == "" {
				utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
				return
			}

			id, err := authn.Authenticate(tokenStr)
			if err != nil {
				utils.WriteError(w, errors.Unauthorized("Invalid or expired token"))
				return
			}

			AddLogField(r, "user_id", id.UserID)
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RoleSource reports the stored role of an account. user.Service
// implements it.
type RoleSource interface {
	CurrentRole(ctx context.Context, userID string) (string, error)
}

// RefreshRole replaces the role carried by the token with the stored one.
// It must run after RequireAuth. A deleted account is rejected as
// unauthenticated.
func RefreshRole(roles RoleSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok {
				utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
				return
			}

			role, err := roles.CurrentRole(r.Context(), id.UserID)
			if err != nil {
				if errors.Is(err, errors.ErrCodeNotFound) {
					utils.WriteError(w, errors.Unauthorized("Account no longer exists"))
					return
				}
				utils.WriteError(w, err)
				return
			}

			id.Role = role
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAdmin must run after RequireAuth
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok {
			utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
			return
		}
		if !id.IsAdmin() {
			utils.WriteError(w, errors.Forbidden("Admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(TokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// WithIdentity returns a context carrying id
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom extracts the authenticated caller from the context
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}
