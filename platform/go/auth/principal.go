package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Role is the closed set of principal roles.
type Role string

const (
	RolePlatformAdmin Role = "PLATFORM_ADMIN"
	RoleTenantAdmin   Role = "TENANT_ADMIN"
)

// ParseRole converts a stored or claimed role string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePlatformAdmin, RoleTenantAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Principal is the authenticated actor attached to a request.
// A platform admin carries no tenant; a tenant admin carries exactly one.
type Principal struct {
	ID         uuid.UUID
	Username   string
	Role       Role
	TenantID   *uuid.UUID
	TenantSlug *string
}

// IsPlatformAdmin reports whether p is a non-nil platform admin.
func (p *Principal) IsPlatformAdmin() bool {
	return p != nil && p.Role == RolePlatformAdmin
}

// BoundTo reports whether p is a tenant admin bound to tenantID.
func (p *Principal) BoundTo(tenantID uuid.UUID) bool {
	return p != nil && p.Role == RoleTenantAdmin && p.TenantID != nil && *p.TenantID == tenantID
}

// Validate checks the role/tenant binding invariant.
func (p *Principal) Validate() error {
	if p == nil {
		return fmt.Errorf("principal is nil")
	}
	if p.ID == uuid.Nil {
		return fmt.Errorf("principal id is required")
	}
	switch p.Role {
	case RolePlatformAdmin:
		if p.TenantID != nil {
			return fmt.Errorf("platform admin must not carry a tenant")
		}
	case RoleTenantAdmin:
		if p.TenantID == nil || *p.TenantID == uuid.Nil {
			return fmt.Errorf("tenant admin requires a tenant")
		}
	default:
		return fmt.Errorf("unknown role %q", p.Role)
	}
	return nil
}

type ctxKey string

const ctxPrincipal ctxKey = "PORTFOLIO_PRINCIPAL"

// WithPrincipal stores the principal on the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipal, p)
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	v := ctx.Value(ctxPrincipal)
	if v == nil {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok && p != nil
}
