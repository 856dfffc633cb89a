package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/hrms-platform/leave-service-go/internal/domain/identity"
	"github.com/hrms-platform/leave-service-go/internal/handler/http/response"
	"github.com/hrms-platform/leave-service-go/internal/pkg/token"
	identitysvc "github.com/hrms-platform/leave-service-go/internal/service/identity"
)

type contextKey string

const principalKey contextKey = "principal"

// Authenticate verifies the bearer token and stores the resulting
// Principal in the request context. Role mapping happens here; employee
// resolution is deferred to the operations that need it.
func Authenticate(verifier token.Verifier, resolver *identitysvc.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := jwtauth.TokenFromHeader(r)
			if raw == "" {
				response.Unauthorized(w, "Missing bearer token")
				return
			}

			claims, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				response.HandleError(w, err)
				return
			}

			principal := resolver.PrincipalFromClaims(claims)
			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext retrieves the authenticated caller set by
// Authenticate.
func PrincipalFromContext(ctx context.Context) (identity.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(identity.Principal)
	return principal, ok
}

// WithPrincipal returns a context carrying the given principal. Intended
// for tests that exercise handlers without the full middleware chain.
func WithPrincipal(ctx context.Context, p identity.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
