package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TenantsTable is the tenant registry table.
const TenantsTable = "tenants"

// TenantRecord represents a tenant row.
type TenantRecord struct {
	TenantID    uuid.UUID `db:"tenant_id"`
	CompanyName string    `db:"company_name"`
	Slug        string    `db:"slug"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// TenantStatusCounts aggregates tenants per status.
type TenantStatusCounts map[string]int

// TenantStore provides access to the tenants table.
type TenantStore struct {
	pool *pgxpool.Pool
}

// NewTenantStore creates a store; assumes BootstrapSchema already created the table.
func NewTenantStore(ctx context.Context, pool *pgxpool.Pool) (*TenantStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &TenantStore{pool: pool}, nil
}

const tenantColumns = `tenant_id, company_name, slug, status, created_at, updated_at`

// Create inserts a tenant. A duplicate slug (case-insensitive) yields ErrConflict.
func (s *TenantStore) Create(ctx context.Context, rec TenantRecord) (TenantRecord, error) {
	if rec.TenantID == uuid.Nil {
		return TenantRecord{}, errors.New("tenant id is required")
	}

	query := fmt.Sprintf(`
        INSERT INTO %s (tenant_id, company_name, slug, status)
        VALUES ($1, $2, lower($3), $4)
        RETURNING %s
    `, TenantsTable, tenantColumns)

	out, err := scanTenantRecord(s.pool.QueryRow(ctx, query,
		rec.TenantID, strings.TrimSpace(rec.CompanyName), rec.Slug, rec.Status,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return TenantRecord{}, ErrConflict
		}
		return TenantRecord{}, err
	}
	return out, nil
}

// Update replaces the mutable columns of a tenant.
func (s *TenantStore) Update(ctx context.Context, rec TenantRecord) (TenantRecord, error) {
	query := fmt.Sprintf(`
        UPDATE %s
        SET company_name = $2, slug = lower($3), status = $4, updated_at = now()
        WHERE tenant_id = $1
        RETURNING %s
    `, TenantsTable, tenantColumns)

	out, err := scanTenantRecord(s.pool.QueryRow(ctx, query,
		rec.TenantID, strings.TrimSpace(rec.CompanyName), rec.Slug, rec.Status,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return TenantRecord{}, ErrConflict
		}
		return TenantRecord{}, err
	}
	return out, nil
}

// Get fetches a tenant by id.
func (s *TenantStore) Get(ctx context.Context, id uuid.UUID) (TenantRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE tenant_id = $1`, tenantColumns, TenantsTable)
	return scanTenantRecord(s.pool.QueryRow(ctx, query, id))
}

// GetBySlug fetches a tenant by slug, ignoring case.
func (s *TenantStore) GetBySlug(ctx context.Context, slug string) (TenantRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE lower(slug) = lower($1)`, tenantColumns, TenantsTable)
	return scanTenantRecord(s.pool.QueryRow(ctx, query, strings.TrimSpace(slug)))
}

// List returns every tenant, newest first.
func (s *TenantStore) List(ctx context.Context) ([]TenantRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at DESC, tenant_id`, tenantColumns, TenantsTable)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	records := make([]TenantRecord, 0)
	for rows.Next() {
		rec, err := scanTenantRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tenants: %w", err)
	}
	return records, nil
}

// CountByStatus returns the number of tenants per status.
func (s *TenantStore) CountByStatus(ctx context.Context) (TenantStatusCounts, error) {
	query := fmt.Sprintf(`SELECT status, COUNT(*) FROM %s GROUP BY status`, TenantsTable)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count tenants: %w", err)
	}
	defer rows.Close()

	counts := TenantStatusCounts{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan tenant count: %w", err)
		}
		counts[status] = n
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tenant counts: %w", err)
	}
	return counts, nil
}

func scanTenantRecord(row pgx.Row) (TenantRecord, error) {
	var rec TenantRecord
	if err := row.Scan(&rec.TenantID, &rec.CompanyName, &rec.Slug, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TenantRecord{}, ErrNotFound
		}
		return TenantRecord{}, err
	}
	return rec, nil
}
