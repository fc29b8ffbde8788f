package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/zenGate-Global/portfolio-pro-saas/domains/profiles/be/service"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/apperror"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/persistence"
)

// PostgresRepository stores profile documents in the profiles JSONB table.
type PostgresRepository struct {
	store *persistence.ProfileStore
}

// NewPostgresRepository constructs a repository backed by ProfileStore.
func NewPostgresRepository(store *persistence.ProfileStore) *PostgresRepository {
	if store == nil {
		panic("profile store is required")
	}
	return &PostgresRepository{store: store}
}

func (r *PostgresRepository) GetByTenant(ctx context.Context, tenantID uuid.UUID) (service.Profile, error) {
	rec, err := r.store.GetByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return service.Profile{}, service.ErrProfileNotFound
		}
		return service.Profile{}, apperror.DataStore("get profile", err)
	}
	p, err := fromRecord(rec)
	if err != nil {
		return service.Profile{}, apperror.DataStore("get profile", err)
	}
	return p, nil
}

func (r *PostgresRepository) Save(ctx context.Context, p service.Profile) (service.Profile, error) {
	rec, err := toRecord(p)
	if err != nil {
		return service.Profile{}, apperror.DataStore("save profile", err)
	}
	out, err := r.store.Save(ctx, rec)
	if err != nil {
		return service.Profile{}, apperror.DataStore("save profile", err)
	}
	saved, err := fromRecord(out)
	if err != nil {
		return service.Profile{}, apperror.DataStore("save profile", err)
	}
	return saved, nil
}
