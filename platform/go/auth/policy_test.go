package auth

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func tenantAdmin(tenantID uuid.UUID) *Principal {
	return &Principal{ID: uuid.New(), Username: "client@acme.test", Role: RoleTenantAdmin, TenantID: &tenantID}
}

func platformAdmin() *Principal {
	return &Principal{ID: uuid.New(), Username: "root", Role: RolePlatformAdmin}
}

// expectedDecision restates the policy as a predicate over the inputs.
func expectedDecision(p *Principal, action Action, res Resource) Decision {
	if p == nil {
		if action == ActionPublicRead {
			return Allow
		}
		return Deny
	}
	if p.Role == RolePlatformAdmin {
		return Allow
	}
	if p.Role == RoleTenantAdmin && p.TenantID != nil && *p.TenantID == res.TenantID &&
		(res.OwnerID == nil || *res.OwnerID == p.ID) {
		return Allow
	}
	return Deny
}

func TestAuthorizeMatchesPolicyForAllCombinations(t *testing.T) {
	tenantA := uuid.New()
	tenantB := uuid.New()

	adminA := tenantAdmin(tenantA)
	otherAdminA := tenantAdmin(tenantA)
	adminB := tenantAdmin(tenantB)
	root := platformAdmin()
	unknown := &Principal{ID: uuid.New(), Role: Role("EDITOR"), TenantID: &tenantA}

	principals := map[string]*Principal{
		"anonymous":     nil,
		"platform":      root,
		"tenant-a":      adminA,
		"tenant-a-peer": otherAdminA,
		"tenant-b":      adminB,
		"unknown-role":  unknown,
	}

	owners := map[string]*uuid.UUID{
		"no-owner":         nil,
		"owned-by-a":       &adminA.ID,
		"owned-by-peer":    &otherAdminA.ID,
		"owned-by-b":       &adminB.ID,
		"owned-by-root":    &root.ID,
		"owned-by-unknown": &unknown.ID,
	}

	tenants := map[string]uuid.UUID{"tenant-a": tenantA, "tenant-b": tenantB}
	actions := []Action{ActionPublicRead, ActionRead, ActionWrite}

	for pName, p := range principals {
		for oName, owner := range owners {
			for tName, tenantID := range tenants {
				for _, action := range actions {
					res := Resource{TenantID: tenantID, OwnerID: owner}
					name := fmt.Sprintf("%s/%s/%s/%s", pName, action, tName, oName)
					require.Equal(t, expectedDecision(p, action, res), Authorize(p, action, res), name)
				}
			}
		}
	}
}

func TestAuthorizeExamples(t *testing.T) {
	t.Parallel()

	tenantA := uuid.New()
	tenantB := uuid.New()
	adminA := tenantAdmin(tenantA)
	peer := tenantAdmin(tenantA)

	testCases := []struct {
		name      string
		principal *Principal
		action    Action
		resource  Resource
		want      Decision
	}{
		{"anonymous public read", nil, ActionPublicRead, Resource{TenantID: tenantA}, Allow},
		{"anonymous write denied", nil, ActionWrite, Resource{TenantID: tenantA}, Deny},
		{"anonymous scoped read denied", nil, ActionRead, Resource{TenantID: tenantA}, Deny},
		{"platform admin writes any tenant", platformAdmin(), ActionWrite, Resource{TenantID: tenantB, OwnerID: &adminA.ID}, Allow},
		{"tenant admin first write", adminA, ActionWrite, Resource{TenantID: tenantA}, Allow},
		{"tenant admin owns profile", adminA, ActionWrite, Resource{TenantID: tenantA, OwnerID: &adminA.ID}, Allow},
		{"tenant admin cross tenant", adminA, ActionWrite, Resource{TenantID: tenantB}, Deny},
		{"tenant admin not owner", peer, ActionWrite, Resource{TenantID: tenantA, OwnerID: &adminA.ID}, Deny},
		{"tenant admin without tenant", &Principal{ID: uuid.New(), Role: RoleTenantAdmin}, ActionWrite, Resource{TenantID: tenantA}, Deny},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Authorize(tc.principal, tc.action, tc.resource))
		})
	}
}

func TestDecisionString(t *testing.T) {
	require.Equal(t, "ALLOW", Allow.String())
	require.Equal(t, "DENY", Deny.String())
}
