package repo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zenGate-Global/portfolio-pro-saas/domains/profiles/be/service"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/persistence"
)

// MemoryRepository keeps encoded profile documents in memory, one per tenant.
// Reads always decode a fresh copy so callers never share state with the store.
type MemoryRepository struct {
	mu       sync.RWMutex
	byTenant map[uuid.UUID]persistence.ProfileRecord
	saves    int
}

// NewMemoryRepository constructs an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byTenant: make(map[uuid.UUID]persistence.ProfileRecord)}
}

func (r *MemoryRepository) GetByTenant(ctx context.Context, tenantID uuid.UUID) (service.Profile, error) {
	r.mu.RLock()
	rec, ok := r.byTenant[tenantID]
	r.mu.RUnlock()
	if !ok {
		return service.Profile{}, service.ErrProfileNotFound
	}
	return fromRecord(rec)
}

func (r *MemoryRepository) Save(ctx context.Context, p service.Profile) (service.Profile, error) {
	rec, err := toRecord(p)
	if err != nil {
		return service.Profile{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.byTenant[rec.TenantID]; ok {
		rec.ProfileID = existing.ProfileID
		if existing.OwnerPrincipalID != uuid.Nil {
			rec.OwnerPrincipalID = existing.OwnerPrincipalID
		}
		rec.CreatedAt = existing.CreatedAt
	} else {
		if rec.ProfileID == uuid.Nil {
			rec.ProfileID = uuid.New()
		}
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	r.byTenant[rec.TenantID] = rec
	r.saves++
	return fromRecord(rec)
}

// Saves reports how many writes reached the store.
func (r *MemoryRepository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}
