package middleware

import (
	"net/http"

	"github.com/hrms-platform/leave-service-go/internal/handler/http/response"
)

// RequireManager gates routes for managers and HR roles.
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok || !principal.Roles.IsManager() {
			response.Forbidden(w, "Manager role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireHR gates routes for HR roles.
func RequireHR(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok || !principal.Roles.IsHR() {
			response.Forbidden(w, "HR role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
