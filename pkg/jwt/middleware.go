package jwt

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/rtapi/gateway/pkg/httpx"
	"github.com/rtapi/gateway/pkg/principal"
)

// Middleware authenticates Bearer tokens and attaches the resulting
// principal to the request context. Requests without an Authorization
// header pass through as anonymous; a separate gate decides what anonymous
// requests may do. A present but invalid token is rejected outright.
func Middleware(service *Service) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				httpx.Error(w, http.StatusUnauthorized, "invalid_token", "Authorization header must be a Bearer token.")
				return
			}

			claims, err := service.Verify(tokenString, TokenTypeAccess)
			if err != nil {
				httpx.Error(w, http.StatusUnauthorized, "invalid_token", "Token is invalid or expired.")
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				httpx.Error(w, http.StatusUnauthorized, "invalid_token", "Token is invalid or expired.")
				return
			}

			ctx := principal.WithContext(r.Context(), principal.Authenticated(userID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePrincipal ensures an authenticated principal is present. Mount it
// on routes that must never serve anonymous requests, such as the presign
// endpoint.
func RequirePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !principal.FromContext(r.Context()).Authenticated() {
			httpx.Error(w, http.StatusUnauthorized, "authentication_required", "Authentication required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
