package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/persistence"
)

// Repository defines the persistence operations required by the principals service.
type Repository interface {
	Create(ctx context.Context, rec persistence.PrincipalRecord) (persistence.PrincipalRecord, error)
	Get(ctx context.Context, id uuid.UUID) (persistence.PrincipalRecord, error)
	GetByUsername(ctx context.Context, username string) (persistence.PrincipalRecord, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]persistence.PrincipalRecord, error)
	CountByRole(ctx context.Context, role string) (int, error)
	Update(ctx context.Context, id uuid.UUID, params persistence.UpdatePrincipalParams) (persistence.PrincipalRecord, error)
}

type postgresRepository struct {
	store *persistence.PrincipalStore
}

// NewPostgresRepository constructs a repository backed by the shared persistence layer.
func NewPostgresRepository(store *persistence.PrincipalStore) Repository {
	if store == nil {
		panic("principal store is required")
	}
	return &postgresRepository{store: store}
}

func (r *postgresRepository) Create(ctx context.Context, rec persistence.PrincipalRecord) (persistence.PrincipalRecord, error) {
	return r.store.Create(ctx, rec)
}

func (r *postgresRepository) Get(ctx context.Context, id uuid.UUID) (persistence.PrincipalRecord, error) {
	return r.store.Get(ctx, id)
}

func (r *postgresRepository) GetByUsername(ctx context.Context, username string) (persistence.PrincipalRecord, error) {
	return r.store.GetByUsername(ctx, username)
}

func (r *postgresRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]persistence.PrincipalRecord, error) {
	return r.store.ListByTenant(ctx, tenantID)
}

func (r *postgresRepository) CountByRole(ctx context.Context, role string) (int, error) {
	return r.store.CountByRole(ctx, role)
}

func (r *postgresRepository) Update(ctx context.Context, id uuid.UUID, params persistence.UpdatePrincipalParams) (persistence.PrincipalRecord, error) {
	return r.store.Update(ctx, id, params)
}
