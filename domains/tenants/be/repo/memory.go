package repo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/zenGate-Global/portfolio-pro-saas/domains/tenants/be/service"
)

// MemoryRepository is a simple in-memory implementation suitable for tests and early development.
type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]service.Tenant
	bySlug map[string]uuid.UUID
}

// NewMemoryRepository constructs a MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[uuid.UUID]service.Tenant), bySlug: make(map[string]uuid.UUID)}
}

func (r *MemoryRepository) List(ctx context.Context) ([]service.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]service.Tenant, 0, len(r.byID))
	for _, t := range r.byID {
		items = append(items, t)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (r *MemoryRepository) Create(ctx context.Context, t service.Tenant) (service.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(t.Slug)
	if _, exists := r.bySlug[key]; exists {
		return service.Tenant{}, service.ErrDuplicateSlug
	}

	r.byID[t.ID] = t
	r.bySlug[key] = t.ID
	return t, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id uuid.UUID) (service.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return service.Tenant{}, service.ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepository) Update(ctx context.Context, t service.Tenant) (service.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[t.ID]
	if !ok {
		return service.Tenant{}, service.ErrNotFound
	}

	oldKey := strings.ToLower(current.Slug)
	newKey := strings.ToLower(t.Slug)
	if oldKey != newKey {
		if owner, exists := r.bySlug[newKey]; exists && owner != t.ID {
			return service.Tenant{}, service.ErrDuplicateSlug
		}
		delete(r.bySlug, oldKey)
		r.bySlug[newKey] = t.ID
	}

	t.CreatedAt = current.CreatedAt
	r.byID[t.ID] = t
	return t, nil
}

func (r *MemoryRepository) FindBySlug(ctx context.Context, slug string) (service.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySlug[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return service.Tenant{}, service.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryRepository) CountByStatus(ctx context.Context) (map[service.Status]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[service.Status]int)
	for _, t := range r.byID {
		counts[t.Status]++
	}
	return counts, nil
}

// Ensure interface compliance.
var _ service.Repository = (*MemoryRepository)(nil)
