package service

import (
	"context"

	"github.com/google/uuid"

	tenantsvc "github.com/zenGate-Global/portfolio-pro-saas/domains/tenants/be/service"
)

// AdminProvisioner lets the tenants service manage tenant admins without
// depending on the principals domain.
type AdminProvisioner struct {
	svc Service
}

// NewAdminProvisioner adapts svc to tenantsvc.AdminProvisioner.
func NewAdminProvisioner(svc Service) *AdminProvisioner {
	if svc == nil {
		panic("principals service is required")
	}
	return &AdminProvisioner{svc: svc}
}

func (a *AdminProvisioner) CreateTenantAdmin(ctx context.Context, input tenantsvc.AdminInput) (tenantsvc.Admin, error) {
	p, err := a.svc.CreateTenantAdmin(ctx, CreateTenantAdminInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		TenantID: input.TenantID.String(),
		Username: input.Username,
	})
	if err != nil {
		return tenantsvc.Admin{}, err
	}
	return toAdmin(p), nil
}

func (a *AdminProvisioner) ListTenantAdmins(ctx context.Context, tenantID uuid.UUID) ([]tenantsvc.Admin, error) {
	principals, err := a.svc.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]tenantsvc.Admin, 0, len(principals))
	for _, p := range principals {
		out = append(out, toAdmin(p))
	}
	return out, nil
}

// UpdateTenantAdmin refuses admins bound to another tenant with ErrNotFound.
func (a *AdminProvisioner) UpdateTenantAdmin(ctx context.Context, tenantID, adminID uuid.UUID, patch tenantsvc.AdminPatch) (tenantsvc.Admin, error) {
	current, err := a.svc.Get(ctx, adminID)
	if err != nil {
		return tenantsvc.Admin{}, err
	}
	if current.TenantID == nil || *current.TenantID != tenantID {
		return tenantsvc.Admin{}, ErrNotFound
	}

	p, err := a.svc.UpdateAdmin(ctx, adminID, UpdateAdminInput{Name: patch.Name, Email: patch.Email, Active: patch.Active})
	if err != nil {
		return tenantsvc.Admin{}, err
	}
	return toAdmin(p), nil
}

func toAdmin(p Principal) tenantsvc.Admin {
	admin := tenantsvc.Admin{
		ID:        p.ID,
		Username:  p.Username,
		Name:      p.Name,
		Email:     p.Email,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
	}
	if p.TenantID != nil {
		admin.TenantID = *p.TenantID
	}
	return admin
}

var _ tenantsvc.AdminProvisioner = (*AdminProvisioner)(nil)
