package middleware

import (
	"fmt"
	"net/http"

	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/httpapi"
)

// MaxBodyBytes caps request bodies at limit. Requests that declare a larger
// Content-Length are refused with 413 before anything downstream reads them;
// chunked bodies are cut off by http.MaxBytesReader once they cross the limit.
func MaxBodyBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				httpapi.WriteProblem(w, httpapi.NewProblem(
					"Payload too large",
					fmt.Sprintf("request body exceeds %d bytes", limit),
					httpapi.ProblemTypeValidation,
					http.StatusRequestEntityTooLarge,
					nil,
				))
				return
			}
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
