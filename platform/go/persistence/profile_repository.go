package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/requesttrace"
)

// ProfilesTable holds one JSONB portfolio document per tenant.
const ProfilesTable = "profiles"

// ProfileRecord represents a row in the profiles table.
type ProfileRecord struct {
	ProfileID        uuid.UUID       `db:"profile_id"`
	TenantID         uuid.UUID       `db:"tenant_id"`
	OwnerPrincipalID uuid.UUID       `db:"owner_principal_id"`
	Slug             string          `db:"slug"`
	Document         json.RawMessage `db:"document"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
	UpdatedBy        string          `db:"updated_by"`
}

// ProfileStore persists profile documents.
type ProfileStore struct {
	pool *pgxpool.Pool
}

// NewProfileStore returns a store instance bound to pool.
func NewProfileStore(ctx context.Context, pool *pgxpool.Pool) (*ProfileStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &ProfileStore{pool: pool}, nil
}

const profileColumns = `profile_id, tenant_id, owner_principal_id, slug, document, created_at, updated_at, updated_by`

// GetByTenant fetches the profile of tenantID.
func (s *ProfileStore) GetByTenant(ctx context.Context, tenantID uuid.UUID) (ProfileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE tenant_id = $1`, profileColumns, ProfilesTable)
	return scanProfile(s.pool.QueryRow(ctx, query, tenantID))
}

// Save writes the whole document for rec.TenantID. The first insert fixes the
// profile id, and the owner is fixed by the first save that carries a non-nil
// one. Later saves replace the document and slug, so concurrent writers
// resolve as last-write-wins.
func (s *ProfileStore) Save(ctx context.Context, rec ProfileRecord) (ProfileRecord, error) {
	if rec.TenantID == uuid.Nil {
		return ProfileRecord{}, errors.New("tenant id is required")
	}
	if rec.ProfileID == uuid.Nil {
		rec.ProfileID = uuid.New()
	}
	if len(rec.Document) == 0 {
		rec.Document = json.RawMessage(`{}`)
	}

	audit := requesttrace.FromContextOrAnonymous(ctx)

	query := fmt.Sprintf(`
        INSERT INTO %s AS p (profile_id, tenant_id, owner_principal_id, slug, document, updated_by)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (tenant_id) DO UPDATE
        SET owner_principal_id = CASE
                WHEN p.owner_principal_id = '00000000-0000-0000-0000-000000000000'::uuid THEN EXCLUDED.owner_principal_id
                ELSE p.owner_principal_id
            END,
            slug = EXCLUDED.slug,
            document = EXCLUDED.document,
            updated_at = now(),
            updated_by = EXCLUDED.updated_by
        RETURNING %s
    `, ProfilesTable, profileColumns)

	out, err := scanProfile(s.pool.QueryRow(ctx, query,
		rec.ProfileID, rec.TenantID, rec.OwnerPrincipalID, rec.Slug, []byte(rec.Document), audit.Actor(),
	))
	if err != nil {
		return ProfileRecord{}, fmt.Errorf("save profile: %w", err)
	}
	return out, nil
}

func scanProfile(row pgx.Row) (ProfileRecord, error) {
	var rec ProfileRecord
	var doc []byte
	if err := row.Scan(
		&rec.ProfileID,
		&rec.TenantID,
		&rec.OwnerPrincipalID,
		&rec.Slug,
		&doc,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&rec.UpdatedBy,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfileRecord{}, ErrNotFound
		}
		return ProfileRecord{}, err
	}
	rec.Document = json.RawMessage(doc)
	return rec, nil
}
