package requesttrace

import (
	"context"
	"errors"

	"github.com/google/uuid"

	platformauth "github.com/zenGate-Global/portfolio-pro-saas/platform/go/auth"
)

type contextKey string

const (
	ctxAuditInfo contextKey = "PORTFOLIO_REQUEST_TRACE"
)

// ActorKind represents who initiated a request.
type ActorKind string

const (
	ActorKindPrincipal ActorKind = "principal"
	ActorKindAnonymous ActorKind = "anonymous"
	ActorKindSystem    ActorKind = "system"
)

// AuditInfo captures request-scoped metadata stamped onto writes.
// PrincipalID is set only when ActorKind is principal; TenantID is nil for platform admins.
type AuditInfo struct {
	ActorKind   ActorKind
	PrincipalID *uuid.UUID
	Role        platformauth.Role
	TenantID    *uuid.UUID
	RequestID   string
}

// Actor renders the audit actor as a single string for updated_by style columns.
func (a AuditInfo) Actor() string {
	if a.ActorKind == ActorKindPrincipal && a.PrincipalID != nil {
		return a.PrincipalID.String()
	}
	return string(a.ActorKind)
}

// IntoContext stores the AuditInfo in the provided context.
func IntoContext(ctx context.Context, audit AuditInfo) context.Context {
	return context.WithValue(ctx, ctxAuditInfo, audit)
}

// FromContext extracts the AuditInfo from context, returning false when not present.
func FromContext(ctx context.Context) (AuditInfo, bool) {
	if ctx == nil {
		return AuditInfo{}, false
	}
	v := ctx.Value(ctxAuditInfo)
	if v == nil {
		return AuditInfo{}, false
	}

	audit, ok := v.(AuditInfo)
	return audit, ok
}

// FromContextOrAnonymous returns the AuditInfo stored on the context, or an anonymous record when absent.
func FromContextOrAnonymous(ctx context.Context) AuditInfo {
	if audit, ok := FromContext(ctx); ok {
		return audit
	}
	return Anonymous("")
}

// FromPrincipal builds an AuditInfo from an authenticated principal and a request ID.
func FromPrincipal(p *platformauth.Principal, requestID string) (AuditInfo, error) {
	if p == nil {
		return AuditInfo{}, errors.New("principal is required to build audit info")
	}
	if p.ID == uuid.Nil {
		return AuditInfo{}, errors.New("principal id is required to build audit info")
	}

	id := p.ID
	return AuditInfo{
		ActorKind:   ActorKindPrincipal,
		PrincipalID: &id,
		Role:        p.Role,
		TenantID:    p.TenantID,
		RequestID:   requestID,
	}, nil
}

// Anonymous builds an AuditInfo for unauthenticated requests such as login or public reads.
func Anonymous(requestID string) AuditInfo {
	return AuditInfo{ActorKind: ActorKindAnonymous, RequestID: requestID}
}

// System builds an AuditInfo for boot-time work such as seeding the platform admin.
func System(requestID string) AuditInfo {
	return AuditInfo{ActorKind: ActorKindSystem, RequestID: requestID}
}
