package tenant

import (
	"strings"

	"github.com/google/uuid"
)

// Space captures where a tenant's assets live. It is derived from the tenant
// registry entry and never persisted on its own.
type Space struct {
	TenantID      uuid.UUID
	Slug          string
	ShortTenantID string
	BasePrefix    string
}

// NewSpace derives the Space for a tenant in the given environment.
func NewSpace(envKey string, tenantID uuid.UUID, slug string) Space {
	short := ShortID(tenantID)
	return Space{
		TenantID:      tenantID,
		Slug:          slug,
		ShortTenantID: short,
		BasePrefix:    BuildBasePrefix(envKey, short),
	}
}

// Folder returns the asset folder for a logical section, e.g. "dev/tenants/1a2b3c4d/profile".
func (s Space) Folder(section string) string {
	section = strings.Trim(strings.TrimSpace(section), "/")
	prefix := strings.TrimSuffix(s.BasePrefix, "/")
	if section == "" {
		return prefix
	}
	return prefix + "/" + section
}
