package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nextgen/nextgen-api/internal/http/response"
	"github.com/nextgen/nextgen-api/internal/platform/auth"
	"github.com/nextgen/nextgen-api/pkg/logger"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// SessionCookie is both the cookie name and the value prefix scheme:
// the cookie carries "Bearer <token>", same as the Authorization
// header.
const SessionCookie = "Authorization"

// TokenFromRequest pulls the session token from the Authorization
// cookie or, failing that, the Authorization header.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if v, ok := strings.CutPrefix(c.Value, "Bearer "); ok {
			return v
		}
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// RequireAuth verifies the session token and stores its claims in the
// request context.
func RequireAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				response.Fail(w, http.StatusUnauthorized, "No token provided")
				return
			}

			claims, err := auth.Parse(token, secret)
			if err != nil {
				response.Fail(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), logger.UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates mutations on the admin flag carried by the token.
func RequireAdmin(secret string) func(http.Handler) http.Handler {
	requireAuth := RequireAuth(secret)
	return func(next http.Handler) http.Handler {
		return requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil || !claims.IsAdmin {
				response.Fail(w, http.StatusForbidden, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func ClaimsFromContext(ctx context.Context) *auth.Claims {
	if claims, ok := ctx.Value(claimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
