/*
auth.go - Bearer-token authentication middleware

PURPOSE:
  Resolves the Authorization header to a user identity and places it in the
  request context, where the gateway's CurrentUser finds it. Authentication
  itself (issuing tokens) is delegated to the identity provider; this layer
  only verifies the opaque credential.

FAILURE MODES:
  Missing/malformed header or unknown token -> 401 with a JSON error body.
*/
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/warp/attendance/gateway"
)

// TokenResolver verifies an opaque bearer token.
// *sqlite.Store satisfies this.
type TokenResolver interface {
	UserByToken(ctx context.Context, token string) (gateway.UserID, error)
}

// RequireAuth builds middleware that authenticates every request.
func RequireAuth(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeError(w, http.StatusUnauthorized, "Missing Authorization header", nil)
				return
			}

			user, err := resolver.UserByToken(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Authentication failed", err)
				return
			}

			next.ServeHTTP(w, r.WithContext(gateway.WithUser(r.Context(), user)))
		})
	}
}
