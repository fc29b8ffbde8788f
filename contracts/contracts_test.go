package contracts

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadPortfolio(t *testing.T) {
	t.Parallel()

	doc, err := LoadPortfolio()
	require.NoError(t, err)
	require.Contains(t, doc.Components.SecuritySchemes, "bearerAuth")

	cases := []struct {
		path    string
		method  string
		secured bool
	}{
		{"/api/auth/login", http.MethodPost, false},
		{"/api/super/tenant", http.MethodPost, true},
		{"/api/super/admin", http.MethodPost, true},
		{"/api/super/reset-password/{userId}", http.MethodPost, true},
		{"/api/admin/clients", http.MethodPost, true},
		{"/api/admin/clients/{id}/status", http.MethodPatch, true},
		{"/api/client/profile", http.MethodGet, true},
		{"/api/client/personal/{tenantId}", http.MethodGet, false},
		{"/api/client/personal/{tenantId}", http.MethodPut, true},
		{"/api/client/social/{tenantId}", http.MethodPut, true},
		{"/api/client/experience/upload-logo/{tenantId}", http.MethodPost, true},
		{"/api/client/custom/{tenantId}/{sectionId}", http.MethodDelete, true},
		{"/api/public/{slug}", http.MethodGet, false},
		{"/api/upload/profile-image/{tenantId}", http.MethodPost, true},
	}

	for _, tc := range cases {
		item := doc.Paths.Value(tc.path)
		require.NotNil(t, item, tc.path)
		op := item.GetOperation(tc.method)
		require.NotNil(t, op, "%s %s", tc.method, tc.path)
		if tc.secured {
			require.NotNil(t, op.Security, "%s %s", tc.method, tc.path)
			require.NotEmpty(t, *op.Security, "%s %s", tc.method, tc.path)
		} else {
			require.Nil(t, op.Security, "%s %s", tc.method, tc.path)
		}
	}
}
