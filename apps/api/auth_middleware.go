package main

import (
	"net/http"

	platformauth "github.com/zenGate-Global/portfolio-pro-saas/platform/go/auth"
)

// buildAuthMiddleware verifies session tokens issued by this server.
// Claims are turned into a Principal by PrincipalFromClaims, which rejects broken role/tenant bindings.
func buildAuthMiddleware(issuer *platformauth.TokenIssuer) func(http.Handler) http.Handler {
	return platformauth.JWT(issuer.Verify, nil)
}
