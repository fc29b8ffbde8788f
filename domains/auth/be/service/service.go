package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	principalsvc "github.com/zenGate-Global/portfolio-pro-saas/domains/principals/be/service"
	tenantsvc "github.com/zenGate-Global/portfolio-pro-saas/domains/tenants/be/service"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/apperror"
	platformauth "github.com/zenGate-Global/portfolio-pro-saas/platform/go/auth"
)

// ErrTenantNotFound reports a TENANT_ADMIN whose tenant no longer exists.
var ErrTenantNotFound = fmt.Errorf("%w: tenant bound to principal no longer exists", apperror.ErrNotFound)

// CredentialVerifier checks username/password pairs.
type CredentialVerifier interface {
	VerifyCredentials(ctx context.Context, username, plain string) (principalsvc.Principal, error)
}

// TenantLookup resolves the tenant bound to a principal.
type TenantLookup interface {
	Get(ctx context.Context, id uuid.UUID) (tenantsvc.Tenant, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(p platformauth.Principal) (platformauth.Token, error)
}

// Summary is the principal description returned alongside a token.
type Summary struct {
	ID         uuid.UUID         `json:"id"`
	Username   string            `json:"username"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Role       platformauth.Role `json:"role"`
	TenantID   *uuid.UUID        `json:"tenantId,omitempty"`
	TenantSlug *string           `json:"tenantSlug,omitempty"`
}

// LoginResult carries the signed token and who it was issued to.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Principal Summary   `json:"user"`
}

// Service authenticates principals.
type Service struct {
	credentials CredentialVerifier
	tenants     TenantLookup
	issuer      TokenIssuer
}

// New constructs the authentication service.
func New(credentials CredentialVerifier, tenants TenantLookup, issuer TokenIssuer) *Service {
	if credentials == nil {
		panic("credential verifier is required")
	}
	if tenants == nil {
		panic("tenant lookup is required")
	}
	if issuer == nil {
		panic("token issuer is required")
	}
	return &Service{credentials: credentials, tenants: tenants, issuer: issuer}
}

// Login verifies credentials and issues a session token. A TENANT_ADMIN whose
// tenant is gone gets ErrTenantNotFound instead of a token.
func (s *Service) Login(ctx context.Context, username, plain string) (LoginResult, error) {
	fields := apperror.FieldErrors{}
	if strings.TrimSpace(username) == "" {
		fields.Add("username", "username is required")
	}
	if plain == "" {
		fields.Add("password", "password is required")
	}
	if err := apperror.FromFields(fields); err != nil {
		return LoginResult{}, err
	}

	p, err := s.credentials.VerifyCredentials(ctx, username, plain)
	if err != nil {
		return LoginResult{}, err
	}

	principal := platformauth.Principal{ID: p.ID, Username: p.Username, Role: p.Role}
	if p.Role == platformauth.RoleTenantAdmin {
		if p.TenantID == nil {
			return LoginResult{}, ErrTenantNotFound
		}
		t, err := s.tenants.Get(ctx, *p.TenantID)
		if errors.Is(err, tenantsvc.ErrNotFound) {
			return LoginResult{}, ErrTenantNotFound
		}
		if err != nil {
			return LoginResult{}, err
		}
		tenantID := t.ID
		slug := t.Slug
		principal.TenantID = &tenantID
		principal.TenantSlug = &slug
	}

	token, err := s.issuer.Issue(principal)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	return LoginResult{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		Principal: Summary{
			ID:         p.ID,
			Username:   p.Username,
			Name:       p.Name,
			Email:      p.Email,
			Role:       p.Role,
			TenantID:   principal.TenantID,
			TenantSlug: principal.TenantSlug,
		},
	}, nil
}
