package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/zenGate-Global/portfolio-pro-saas/domains/tenants/be/service"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/apperror"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/persistence"
)

// PostgresRepository implements the tenant repository using the shared persistence layer.
type PostgresRepository struct {
	store *persistence.TenantStore
}

// NewPostgresRepository constructs a repository backed by TenantStore.
func NewPostgresRepository(store *persistence.TenantStore) *PostgresRepository {
	if store == nil {
		panic("tenant store is required")
	}
	return &PostgresRepository{store: store}
}

func (r *PostgresRepository) List(ctx context.Context) ([]service.Tenant, error) {
	rows, err := r.store.List(ctx)
	if err != nil {
		return nil, apperror.DataStore("list tenants", err)
	}

	tenants := make([]service.Tenant, 0, len(rows))
	for _, rec := range rows {
		tenants = append(tenants, toServiceTenant(rec))
	}
	return tenants, nil
}

func (r *PostgresRepository) Create(ctx context.Context, t service.Tenant) (service.Tenant, error) {
	out, err := r.store.Create(ctx, toRecord(t))
	if err != nil {
		return service.Tenant{}, mapError("create tenant", err)
	}
	return toServiceTenant(out), nil
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (service.Tenant, error) {
	rec, err := r.store.Get(ctx, id)
	if err != nil {
		return service.Tenant{}, mapError("get tenant", err)
	}
	return toServiceTenant(rec), nil
}

func (r *PostgresRepository) Update(ctx context.Context, t service.Tenant) (service.Tenant, error) {
	out, err := r.store.Update(ctx, toRecord(t))
	if err != nil {
		return service.Tenant{}, mapError("update tenant", err)
	}
	return toServiceTenant(out), nil
}

func (r *PostgresRepository) FindBySlug(ctx context.Context, slug string) (service.Tenant, error) {
	rec, err := r.store.GetBySlug(ctx, slug)
	if err != nil {
		return service.Tenant{}, mapError("find tenant by slug", err)
	}
	return toServiceTenant(rec), nil
}

func (r *PostgresRepository) CountByStatus(ctx context.Context) (map[service.Status]int, error) {
	counts, err := r.store.CountByStatus(ctx)
	if err != nil {
		return nil, apperror.DataStore("count tenants", err)
	}
	out := make(map[service.Status]int, len(counts))
	for status, n := range counts {
		out[service.Status(status)] = n
	}
	return out, nil
}

func toRecord(t service.Tenant) persistence.TenantRecord {
	return persistence.TenantRecord{
		TenantID:    t.ID,
		CompanyName: t.CompanyName,
		Slug:        t.Slug,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toServiceTenant(rec persistence.TenantRecord) service.Tenant {
	return service.Tenant{
		ID:          rec.TenantID,
		CompanyName: rec.CompanyName,
		Slug:        rec.Slug,
		Status:      service.Status(rec.Status),
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

func mapError(op string, err error) error {
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		return service.ErrNotFound
	case errors.Is(err, persistence.ErrConflict):
		return service.ErrDuplicateSlug
	default:
		return apperror.DataStore(op, err)
	}
}

var _ service.Repository = (*PostgresRepository)(nil)
