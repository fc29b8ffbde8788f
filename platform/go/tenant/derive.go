package tenant

import (
	"strings"

	"github.com/google/uuid"
)

// ShortID returns the first 8 hexadecimal characters of a UUID (without dashes).
func ShortID(id uuid.UUID) string {
	hex := strings.ReplaceAll(id.String(), "-", "")
	if len(hex) < 8 {
		return hex
	}
	return hex[:8]
}

// BuildBasePrefix returns `<envKey>/tenants/<shortTenantId>/`.
// The prefix is keyed on the tenant id rather than the slug because slugs may change.
func BuildBasePrefix(envKey, shortID string) string {
	envKey = strings.Trim(strings.TrimSpace(envKey), "/")
	if envKey == "" {
		return "tenants/" + shortID + "/"
	}
	return envKey + "/tenants/" + shortID + "/"
}
