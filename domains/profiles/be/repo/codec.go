package repo

import (
	"encoding/json"
	"fmt"

	"github.com/zenGate-Global/portfolio-pro-saas/domains/profiles/be/service"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/persistence"
)

// toRecord serialises the sections of p into the JSONB document column.
func toRecord(p service.Profile) (persistence.ProfileRecord, error) {
	doc := p.Document
	doc.Normalize()
	raw, err := json.Marshal(doc)
	if err != nil {
		return persistence.ProfileRecord{}, fmt.Errorf("encode profile document: %w", err)
	}
	return persistence.ProfileRecord{
		ProfileID:        p.ID,
		TenantID:         p.TenantID,
		OwnerPrincipalID: p.OwnerID,
		Slug:             p.Slug,
		Document:         raw,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}, nil
}

func fromRecord(rec persistence.ProfileRecord) (service.Profile, error) {
	var doc service.Document
	if len(rec.Document) > 0 {
		if err := json.Unmarshal(rec.Document, &doc); err != nil {
			return service.Profile{}, fmt.Errorf("decode profile document %s: %w", rec.ProfileID, err)
		}
	}
	doc.Normalize()
	return service.Profile{
		ID:        rec.ProfileID,
		TenantID:  rec.TenantID,
		OwnerID:   rec.OwnerPrincipalID,
		Slug:      rec.Slug,
		Document:  doc,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}
