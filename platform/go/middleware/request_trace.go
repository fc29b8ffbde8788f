package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	platformauth "github.com/zenGate-Global/portfolio-pro-saas/platform/go/auth"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/httpapi"
	platformlogging "github.com/zenGate-Global/portfolio-pro-saas/platform/go/logging"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/requesttrace"
)

// RequestTrace populates the context with request-scoped AuditInfo so services and stores can stamp audit fields.
// It must run after the JWT middleware so the principal is available when present.
func RequestTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := platformlogging.FromRequest(r, nil)
		requestID := middleware.GetReqID(r.Context())

		var audit requesttrace.AuditInfo
		if principal, ok := platformauth.PrincipalFromContext(r.Context()); ok {
			var err error
			audit, err = requesttrace.FromPrincipal(principal, requestID)
			if err != nil {
				if logger != nil {
					logger.Error("build audit info from principal", zap.Error(err))
				}
				httpapi.WriteProblem(w, httpapi.NewProblem("Unauthenticated", "invalid principal", httpapi.ProblemTypeUnauthenticated, http.StatusUnauthorized, nil))
				return
			}
		} else {
			audit = requesttrace.Anonymous(requestID)
		}

		ctx := requesttrace.IntoContext(r.Context(), audit)
		if logger != nil {
			fields := []zap.Field{zap.String("actor_kind", string(audit.ActorKind))}
			if audit.PrincipalID != nil {
				fields = append(fields, zap.String("principal_id", audit.PrincipalID.String()), zap.String("role", string(audit.Role)))
			}
			if audit.TenantID != nil {
				fields = append(fields, zap.String("tenant_id", audit.TenantID.String()))
			}
			logger = logger.With(fields...)
			ctx = platformlogging.WithLogger(ctx, logger)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
