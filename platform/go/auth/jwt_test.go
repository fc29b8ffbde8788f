package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	tenantID := uuid.New()
	slug := "acme"
	p := Principal{ID: uuid.New(), Username: "client@acme.test", Role: RoleTenantAdmin, TenantID: &tenantID, TenantSlug: &slug}

	token, err := issuer.Issue(p)
	require.NoError(t, err)
	require.NotEmpty(t, token.Value)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), token.ExpiresAt, time.Minute)

	claims, err := issuer.Verify(context.Background(), token.Value)
	require.NoError(t, err)
	require.Equal(t, p.ID.String(), claims.PrincipalID)
	require.Equal(t, RoleTenantAdmin, claims.Role)
	require.Equal(t, tenantID.String(), claims.TenantID)
	require.Equal(t, "acme", claims.TenantSlug)

	got, err := PrincipalFromClaims(claims)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)
	require.Equal(t, tenantID, *got.TenantID)
	require.Equal(t, "acme", *got.TenantSlug)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := issuedAt
	issuer := NewTokenIssuer("test-secret", WithClock(func() time.Time { return clock }))

	token, err := issuer.Issue(Principal{ID: uuid.New(), Role: RolePlatformAdmin})
	require.NoError(t, err)

	clock = issuedAt.Add(23 * time.Hour)
	_, err = issuer.Verify(context.Background(), token.Value)
	require.NoError(t, err)

	clock = issuedAt.Add(24*time.Hour + time.Second)
	_, err = issuer.Verify(context.Background(), token.Value)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyRejectsTamperedAndForeignTokens(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	other := NewTokenIssuer("other-secret")

	token, err := other.Issue(Principal{ID: uuid.New(), Role: RolePlatformAdmin})
	require.NoError(t, err)

	_, err = issuer.Verify(context.Background(), token.Value)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Verify(context.Background(), "not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{PrincipalID: uuid.NewString(), Role: RolePlatformAdmin})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.Verify(context.Background(), raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueRejectsBrokenBinding(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	_, err := issuer.Issue(Principal{ID: uuid.New(), Role: RoleTenantAdmin})
	require.Error(t, err)

	tenantID := uuid.New()
	_, err = issuer.Issue(Principal{ID: uuid.New(), Role: RolePlatformAdmin, TenantID: &tenantID})
	require.Error(t, err)
}

func TestPrincipalFromClaimsValidation(t *testing.T) {
	testCases := []struct {
		name   string
		claims *Claims
	}{
		{"nil claims", nil},
		{"bad id", &Claims{PrincipalID: "nope", Role: RolePlatformAdmin}},
		{"unknown role", &Claims{PrincipalID: uuid.NewString(), Role: Role("EDITOR")}},
		{"tenant admin without tenant", &Claims{PrincipalID: uuid.NewString(), Role: RoleTenantAdmin}},
		{"bad tenant id", &Claims{PrincipalID: uuid.NewString(), Role: RoleTenantAdmin, TenantID: "x"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := PrincipalFromClaims(tc.claims)
			require.ErrorIs(t, err, ErrInvalidClaims)
		})
	}
}

func TestExtractJWTToken(t *testing.T) {
	testCases := []struct {
		header string
		token  string
		found  bool
	}{
		{"", "", false},
		{"Basic abc", "", false},
		{"Bearer abc", "abc", true},
		{"bearer   abc ", "abc", true},
		{"BEARER abc", "abc", true},
	}

	for _, tc := range testCases {
		r := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			r.Header.Set("Authorization", tc.header)
		}
		token, found := ExtractJWTToken(r)
		require.Equal(t, tc.found, found, tc.header)
		require.Equal(t, tc.token, token, tc.header)
	}
}
