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

// PrincipalsTable is the credential store table.
const PrincipalsTable = "principals"

// PrincipalRecord represents a row in the principals table.
type PrincipalRecord struct {
	PrincipalID  uuid.UUID  `db:"principal_id"`
	Username     string     `db:"username"`
	Name         string     `db:"name"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Role         string     `db:"role"`
	TenantID     *uuid.UUID `db:"tenant_id"`
	IsActive     bool       `db:"is_active"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// UpdatePrincipalParams lists the mutable columns; nil fields are left untouched.
type UpdatePrincipalParams struct {
	Name         *string
	Email        *string
	PasswordHash *string
	IsActive     *bool
}

var (
	// ErrPrincipalConflict indicates a duplicated username.
	ErrPrincipalConflict = fmt.Errorf("%w: username already exists", ErrConflict)
	// ErrPlatformAdminExists is returned when a second platform admin would be inserted.
	ErrPlatformAdminExists = fmt.Errorf("%w: platform admin already exists", ErrConflict)
)

const platformAdminIndex = "principals_single_platform_admin"

// PrincipalStore exposes persistence helpers for the principals table.
type PrincipalStore struct {
	pool *pgxpool.Pool
}

// NewPrincipalStore returns a store instance bound to pool.
func NewPrincipalStore(ctx context.Context, pool *pgxpool.Pool) (*PrincipalStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &PrincipalStore{pool: pool}, nil
}

const principalColumns = `principal_id, username, name, email, password_hash, role, tenant_id, is_active, created_at, updated_at`

// Create inserts a principal and returns the persisted record.
func (s *PrincipalStore) Create(ctx context.Context, rec PrincipalRecord) (PrincipalRecord, error) {
	if rec.PrincipalID == uuid.Nil {
		return PrincipalRecord{}, errors.New("principal id is required")
	}

	query := fmt.Sprintf(`
        INSERT INTO %s (principal_id, username, name, email, password_hash, role, tenant_id, is_active)
        VALUES ($1, lower($2), $3, $4, $5, $6, $7, $8)
        RETURNING %s
    `, PrincipalsTable, principalColumns)

	out, err := scanPrincipal(s.pool.QueryRow(ctx, query,
		rec.PrincipalID,
		strings.TrimSpace(rec.Username),
		strings.TrimSpace(rec.Name),
		strings.TrimSpace(rec.Email),
		rec.PasswordHash,
		rec.Role,
		rec.TenantID,
		rec.IsActive,
	))
	if err != nil {
		if violatedConstraint(err) == platformAdminIndex {
			return PrincipalRecord{}, ErrPlatformAdminExists
		}
		if isUniqueViolation(err) {
			return PrincipalRecord{}, ErrPrincipalConflict
		}
		return PrincipalRecord{}, err
	}
	return out, nil
}

// Get fetches a principal by id.
func (s *PrincipalStore) Get(ctx context.Context, id uuid.UUID) (PrincipalRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE principal_id = $1`, principalColumns, PrincipalsTable)
	return scanPrincipal(s.pool.QueryRow(ctx, query, id))
}

// GetByUsername fetches a principal by username, ignoring case.
func (s *PrincipalStore) GetByUsername(ctx context.Context, username string) (PrincipalRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE lower(username) = lower($1)`, principalColumns, PrincipalsTable)
	return scanPrincipal(s.pool.QueryRow(ctx, query, strings.TrimSpace(username)))
}

// ListByTenant returns the principals bound to tenantID, oldest first.
func (s *PrincipalStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]PrincipalRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE tenant_id = $1 ORDER BY created_at, principal_id`, principalColumns, PrincipalsTable)

	rows, err := s.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list principals: %w", err)
	}
	defer rows.Close()

	out := make([]PrincipalRecord, 0)
	for rows.Next() {
		rec, err := scanPrincipal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan principal: %w", err)
		}
		out = append(out, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate principals: %w", err)
	}
	return out, nil
}

// CountByRole returns how many principals hold role.
func (s *PrincipalStore) CountByRole(ctx context.Context, role string) (int, error) {
	var n int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE role = $1`, PrincipalsTable)
	if err := s.pool.QueryRow(ctx, query, role).Scan(&n); err != nil {
		return 0, fmt.Errorf("count principals: %w", err)
	}
	return n, nil
}

// Update applies the non-nil fields of params and returns the updated record.
func (s *PrincipalStore) Update(ctx context.Context, id uuid.UUID, params UpdatePrincipalParams) (PrincipalRecord, error) {
	setParts := []string{"updated_at = now()"}
	args := []any{id}

	if params.Name != nil {
		args = append(args, strings.TrimSpace(*params.Name))
		setParts = append(setParts, fmt.Sprintf("name = $%d", len(args)))
	}
	if params.Email != nil {
		args = append(args, strings.TrimSpace(*params.Email))
		setParts = append(setParts, fmt.Sprintf("email = $%d", len(args)))
	}
	if params.PasswordHash != nil {
		args = append(args, *params.PasswordHash)
		setParts = append(setParts, fmt.Sprintf("password_hash = $%d", len(args)))
	}
	if params.IsActive != nil {
		args = append(args, *params.IsActive)
		setParts = append(setParts, fmt.Sprintf("is_active = $%d", len(args)))
	}

	query := fmt.Sprintf(`
        UPDATE %s SET %s
        WHERE principal_id = $1
        RETURNING %s
    `, PrincipalsTable, strings.Join(setParts, ", "), principalColumns)

	return scanPrincipal(s.pool.QueryRow(ctx, query, args...))
}

func scanPrincipal(row pgx.Row) (PrincipalRecord, error) {
	var rec PrincipalRecord
	if err := row.Scan(
		&rec.PrincipalID,
		&rec.Username,
		&rec.Name,
		&rec.Email,
		&rec.PasswordHash,
		&rec.Role,
		&rec.TenantID,
		&rec.IsActive,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PrincipalRecord{}, ErrNotFound
		}
		return PrincipalRecord{}, err
	}
	return rec, nil
}
