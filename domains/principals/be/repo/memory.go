package repo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/persistence"
)

// MemoryRepository mirrors the unique constraints of the principals table in memory.
type MemoryRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]persistence.PrincipalRecord
}

// NewMemoryRepository constructs an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[uuid.UUID]persistence.PrincipalRecord)}
}

func (r *MemoryRepository) Create(ctx context.Context, rec persistence.PrincipalRecord) (persistence.PrincipalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec.Username = strings.ToLower(strings.TrimSpace(rec.Username))
	for _, existing := range r.byID {
		if rec.Role == "PLATFORM_ADMIN" && existing.Role == "PLATFORM_ADMIN" {
			return persistence.PrincipalRecord{}, persistence.ErrPlatformAdminExists
		}
		if existing.Username == rec.Username {
			return persistence.PrincipalRecord{}, persistence.ErrPrincipalConflict
		}
	}

	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	r.byID[rec.PrincipalID] = rec
	return rec, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id uuid.UUID) (persistence.PrincipalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return persistence.PrincipalRecord{}, persistence.ErrNotFound
	}
	return rec, nil
}

func (r *MemoryRepository) GetByUsername(ctx context.Context, username string) (persistence.PrincipalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := strings.ToLower(strings.TrimSpace(username))
	for _, rec := range r.byID {
		if rec.Username == key {
			return rec, nil
		}
	}
	return persistence.PrincipalRecord{}, persistence.ErrNotFound
}

func (r *MemoryRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]persistence.PrincipalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]persistence.PrincipalRecord, 0)
	for _, rec := range r.byID {
		if rec.TenantID != nil && *rec.TenantID == tenantID {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) CountByRole(ctx context.Context, role string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, rec := range r.byID {
		if rec.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) Update(ctx context.Context, id uuid.UUID, params persistence.UpdatePrincipalParams) (persistence.PrincipalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok {
		return persistence.PrincipalRecord{}, persistence.ErrNotFound
	}
	if params.Name != nil {
		rec.Name = strings.TrimSpace(*params.Name)
	}
	if params.Email != nil {
		rec.Email = strings.TrimSpace(*params.Email)
	}
	if params.PasswordHash != nil {
		rec.PasswordHash = *params.PasswordHash
	}
	if params.IsActive != nil {
		rec.IsActive = *params.IsActive
	}
	rec.UpdatedAt = time.Now().UTC()
	r.byID[id] = rec
	return rec, nil
}

var _ Repository = (*MemoryRepository)(nil)
