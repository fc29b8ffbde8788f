package auth

import "github.com/google/uuid"

// Action names what the caller is trying to do with a tenant's resource.
type Action string

const (
	// ActionPublicRead covers the anonymous read paths: public profile by slug and section GETs.
	ActionPublicRead Action = "public_read"
	// ActionWrite covers every mutation of a tenant's profile, including asset uploads.
	ActionWrite Action = "write"
	// ActionRead covers authenticated reads scoped to the caller's tenant.
	ActionRead Action = "read"
)

// Decision is the policy outcome.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "ALLOW"
	}
	return "DENY"
}

// Resource identifies the target of an action. OwnerID is nil until the
// tenant's profile has been written for the first time.
type Resource struct {
	TenantID uuid.UUID
	OwnerID  *uuid.UUID
}

// Authorize is the single tenant-isolation decision used by every profile operation.
//
//   - anonymous callers may only perform ActionPublicRead
//   - a platform admin is always allowed
//   - a tenant admin is allowed only on its own tenant, and only when the
//     resource has no owner yet or is owned by that admin
func Authorize(p *Principal, action Action, res Resource) Decision {
	if p == nil {
		if action == ActionPublicRead {
			return Allow
		}
		return Deny
	}

	switch p.Role {
	case RolePlatformAdmin:
		return Allow
	case RoleTenantAdmin:
		if !p.BoundTo(res.TenantID) {
			return Deny
		}
		if res.OwnerID != nil && *res.OwnerID != p.ID {
			return Deny
		}
		return Allow
	default:
		return Deny
	}
}
