package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/httpapi"
)

// VerifyFunc validates the incoming JWT and returns its claims.
type VerifyFunc func(ctx context.Context, token string) (*Claims, error)

// ExtractFunc converts verified claims into a Principal.
type ExtractFunc func(claims *Claims) (*Principal, error)

// JWT parses the bearer token, when present, and stores the resulting Principal on the context.
// Requests without a token pass through as anonymous; a present but invalid token is rejected with 401.
func JWT(verify VerifyFunc, extract ExtractFunc) func(http.Handler) http.Handler {
	if verify == nil {
		panic("auth.JWT: verify func must not be nil")
	}
	if extract == nil {
		extract = PrincipalFromClaims
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token, found := ExtractJWTToken(r)
			if token == "" || !found {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verify(r.Context(), token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", fmt.Sprintf(`Bearer realm="api", error="invalid_token", error_description="%s"`, err.Error()))
				writeUnauthenticated(w, err.Error())
				return
			}

			principal, err := extract(claims)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token", error_description="invalid claims"`)
				writeUnauthenticated(w, "invalid claims")
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuthenticated rejects anonymous requests with 401.
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
			writeUnauthenticated(w, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole gates a route group to the given roles: anonymous callers get 401, other roles 403.
func RequireRole(roles ...Role) func(http.Handler) http.Handler {
	allowed := make(map[Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
				writeUnauthenticated(w, "authentication required")
				return
			}

			if _, ok := allowed[p.Role]; !ok {
				httpapi.WriteProblem(w, httpapi.NewProblem("Forbidden", "insufficient role", httpapi.ProblemTypeForbidden, http.StatusForbidden, nil))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthenticated(w http.ResponseWriter, detail string) {
	httpapi.WriteProblem(w, httpapi.NewProblem("Unauthenticated", detail, httpapi.ProblemTypeUnauthenticated, http.StatusUnauthorized, nil))
}
