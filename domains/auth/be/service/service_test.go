package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	principalrepo "github.com/zenGate-Global/portfolio-pro-saas/domains/principals/be/repo"
	principalsvc "github.com/zenGate-Global/portfolio-pro-saas/domains/principals/be/service"
	tenantrepo "github.com/zenGate-Global/portfolio-pro-saas/domains/tenants/be/repo"
	tenantsvc "github.com/zenGate-Global/portfolio-pro-saas/domains/tenants/be/service"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/apperror"
	platformauth "github.com/zenGate-Global/portfolio-pro-saas/platform/go/auth"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/password"
)

type fixture struct {
	svc        *Service
	issuer     *platformauth.TokenIssuer
	tenants    *tenantrepo.MemoryRepository
	principals principalsvc.Service
	tenant     tenantsvc.Tenant
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	tenants := tenantrepo.NewMemoryRepository()
	tenant, err := tenants.Create(ctx, tenantsvc.Tenant{ID: uuid.New(), CompanyName: "Acme", Slug: "acme", Status: tenantsvc.StatusActive})
	require.NoError(t, err)

	principals := principalsvc.New(principalrepo.NewMemoryRepository(), tenants, password.NewHasher(bcrypt.MinCost))
	issuer := platformauth.NewTokenIssuer("test-secret")

	return fixture{
		svc:        New(principals, tenants, issuer),
		issuer:     issuer,
		tenants:    tenants,
		principals: principals,
		tenant:     tenant,
	}
}

func TestLoginTenantAdmin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	admin, err := f.principals.CreateTenantAdmin(ctx, principalsvc.CreateTenantAdminInput{
		Name: "Owner", Email: "owner@acme.test", Password: "secret-pass", TenantID: f.tenant.ID.String(),
	})
	require.NoError(t, err)

	res, err := f.svc.Login(ctx, "owner@acme.test", "secret-pass")
	require.NoError(t, err)
	require.Equal(t, admin.ID, res.Principal.ID)
	require.Equal(t, "acme", *res.Principal.TenantSlug)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), res.ExpiresAt, time.Minute)

	claims, err := f.issuer.Verify(ctx, res.Token)
	require.NoError(t, err)
	require.Equal(t, admin.ID.String(), claims.PrincipalID)
	require.Equal(t, platformauth.RoleTenantAdmin, claims.Role)
	require.Equal(t, f.tenant.ID.String(), claims.TenantID)
	require.Equal(t, "acme", claims.TenantSlug)
}

func TestLoginPlatformAdmin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.principals.EnsurePlatformAdmin(ctx, "root", "root-pass")
	require.NoError(t, err)

	res, err := f.svc.Login(ctx, "root", "root-pass")
	require.NoError(t, err)
	require.Equal(t, platformauth.RolePlatformAdmin, res.Principal.Role)
	require.Nil(t, res.Principal.TenantID)

	claims, err := f.issuer.Verify(ctx, res.Token)
	require.NoError(t, err)
	require.Empty(t, claims.TenantID)
}

func TestLoginFailures(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	_, err := f.principals.CreateTenantAdmin(ctx, principalsvc.CreateTenantAdminInput{
		Name: "Owner", Email: "owner@acme.test", Password: "secret-pass", TenantID: f.tenant.ID.String(),
	})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "", "")
	require.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.svc.Login(ctx, "owner@acme.test", "nope-nope")
	require.ErrorIs(t, err, principalsvc.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, "nobody", "secret-pass")
	require.ErrorIs(t, err, apperror.ErrUnauthenticated)
}

type missingTenants struct{}

func (missingTenants) Get(context.Context, uuid.UUID) (tenantsvc.Tenant, error) {
	return tenantsvc.Tenant{}, tenantsvc.ErrNotFound
}

func TestLoginBrokenTenantBinding(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	_, err := f.principals.CreateTenantAdmin(ctx, principalsvc.CreateTenantAdminInput{
		Name: "Owner", Email: "owner@acme.test", Password: "secret-pass", TenantID: f.tenant.ID.String(),
	})
	require.NoError(t, err)

	svc := New(f.principals, missingTenants{}, f.issuer)
	_, err = svc.Login(ctx, "owner@acme.test", "secret-pass")
	require.ErrorIs(t, err, ErrTenantNotFound)
	require.ErrorIs(t, err, apperror.ErrNotFound)
}
