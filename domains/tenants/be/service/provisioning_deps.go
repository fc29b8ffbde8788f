package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StorageProvisioner prepares and verifies a tenant's asset prefix.
// Ensure is mutating/idempotent, Check is read-only/health verification.
type StorageProvisioner interface {
	Ensure(ctx context.Context, prefix string) (StorageProvisionResult, error)
	Check(ctx context.Context, prefix string) (StorageProvisionResult, error)
}

type StorageProvisionResult struct {
	Ready bool `json:"ready"`
}

type ProvisioningDeps struct {
	Storage StorageProvisioner
}

// Admin is the tenant-facing view of a TENANT_ADMIN principal. It never carries a password hash.
type Admin struct {
	ID        uuid.UUID
	Username  string
	Name      string
	Email     string
	TenantID  uuid.UUID
	Active    bool
	CreatedAt time.Time
}

// AdminInput describes a new TENANT_ADMIN. Username defaults to the lowercased email.
type AdminInput struct {
	TenantID uuid.UUID
	Name     string
	Email    string
	Password string
	Username string
}

// AdminPatch lists the admin fields an update may change; empty values are ignored.
type AdminPatch struct {
	Name   *string
	Email  *string
	Active *bool
}

// AdminProvisioner manages the TENANT_ADMIN principals bound to a tenant.
type AdminProvisioner interface {
	CreateTenantAdmin(ctx context.Context, input AdminInput) (Admin, error)
	ListTenantAdmins(ctx context.Context, tenantID uuid.UUID) ([]Admin, error)
	UpdateTenantAdmin(ctx context.Context, tenantID, adminID uuid.UUID, patch AdminPatch) (Admin, error)
}
