package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zenGate-Global/portfolio-pro-saas/domains/principals/be/repo"
	tenantsvc "github.com/zenGate-Global/portfolio-pro-saas/domains/tenants/be/service"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/apperror"
	platformauth "github.com/zenGate-Global/portfolio-pro-saas/platform/go/auth"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/password"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/persistence"
)

// Domain sentinel errors.
var (
	ErrNotFound           = fmt.Errorf("%w: principal not found", apperror.ErrNotFound)
	ErrDuplicateUsername  = fmt.Errorf("%w: username already exists", apperror.ErrConflict)
	ErrNotTenantAdmin     = fmt.Errorf("%w: only tenant admin passwords can be reset", apperror.ErrUnauthorized)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", apperror.ErrUnauthenticated)
)

// Principal represents the domain view of a principal record. The password hash never leaves the service.
type Principal struct {
	ID        uuid.UUID
	Username  string
	Name      string
	Email     string
	Role      platformauth.Role
	TenantID  *uuid.UUID
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateTenantAdminInput is the payload to create a TENANT_ADMIN.
type CreateTenantAdminInput struct {
	Name     string
	Email    string
	Password string
	TenantID string
	Username string
}

// UpdateAdminInput lists the fields a platform admin may change on a tenant admin.
type UpdateAdminInput struct {
	Name   *string
	Email  *string
	Active *bool
}

// TenantLookup resolves tenants for binding checks.
type TenantLookup interface {
	Get(ctx context.Context, id uuid.UUID) (tenantsvc.Tenant, error)
}

// Service defines the business operations for the principals domain.
type Service interface {
	CreateTenantAdmin(ctx context.Context, input CreateTenantAdminInput) (Principal, error)
	ResetPassword(ctx context.Context, id uuid.UUID, newPassword string) error
	UpdateAdmin(ctx context.Context, id uuid.UUID, input UpdateAdminInput) (Principal, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]Principal, error)
	Get(ctx context.Context, id uuid.UUID) (Principal, error)
	EnsurePlatformAdmin(ctx context.Context, username, plain string) (Principal, bool, error)
	VerifyCredentials(ctx context.Context, username, plain string) (Principal, error)
}

type service struct {
	repo    repo.Repository
	tenants TenantLookup
	hasher  *password.Hasher
}

// New constructs a principals Service.
func New(r repo.Repository, tenants TenantLookup, hasher *password.Hasher) Service {
	if r == nil {
		panic("principals repository is required")
	}
	if tenants == nil {
		panic("tenant lookup is required")
	}
	if hasher == nil {
		hasher = password.NewHasher(0)
	}
	return &service{repo: r, tenants: tenants, hasher: hasher}
}

func (s *service) CreateTenantAdmin(ctx context.Context, input CreateTenantAdminInput) (Principal, error) {
	fields := apperror.FieldErrors{}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		fields.Add("name", "name is required")
	}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		fields.Add("email", "email is required")
	} else if !strings.Contains(email, "@") {
		fields.Add("email", "email must contain '@'")
	}

	if input.Password == "" {
		fields.Add("password", "password is required")
	} else if err := password.Validate(input.Password); err != nil {
		fields.Add("password", err.Error())
	}

	var tenantID uuid.UUID
	if strings.TrimSpace(input.TenantID) == "" {
		fields.Add("tenantId", "tenantId is required")
	} else if id, err := uuid.Parse(strings.TrimSpace(input.TenantID)); err != nil {
		fields.Add("tenantId", "tenantId must be a UUID")
	} else {
		tenantID = id
	}

	if err := apperror.FromFields(fields); err != nil {
		return Principal{}, err
	}

	if _, err := s.tenants.Get(ctx, tenantID); err != nil {
		return Principal{}, err
	}

	username := strings.ToLower(strings.TrimSpace(input.Username))
	if username == "" {
		username = strings.ToLower(email)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return Principal{}, apperror.Validation("password", err.Error())
	}

	rec, err := s.repo.Create(ctx, persistence.PrincipalRecord{
		PrincipalID:  uuid.New(),
		Username:     username,
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		Role:         string(platformauth.RoleTenantAdmin),
		TenantID:     &tenantID,
		IsActive:     true,
	})
	if err != nil {
		return Principal{}, mapPersistenceError("create tenant admin", err)
	}

	return mapPrincipal(rec), nil
}

func (s *service) ResetPassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	if newPassword == "" {
		return apperror.Validation("newPassword", "newPassword is required")
	}
	if err := password.Validate(newPassword); err != nil {
		return apperror.Validation("newPassword", err.Error())
	}

	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return mapPersistenceError("get principal", err)
	}
	if rec.Role != string(platformauth.RoleTenantAdmin) {
		return ErrNotTenantAdmin
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperror.Validation("newPassword", err.Error())
	}

	if _, err := s.repo.Update(ctx, id, persistence.UpdatePrincipalParams{PasswordHash: &hash}); err != nil {
		return mapPersistenceError("reset password", err)
	}
	return nil
}

func (s *service) UpdateAdmin(ctx context.Context, id uuid.UUID, input UpdateAdminInput) (Principal, error) {
	params := persistence.UpdatePrincipalParams{IsActive: input.Active}
	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		params.Name = input.Name
	}
	if input.Email != nil && strings.TrimSpace(*input.Email) != "" {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if !strings.Contains(email, "@") {
			return Principal{}, apperror.Validation("email", "email must contain '@'")
		}
		params.Email = &email
	}

	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return Principal{}, mapPersistenceError("get principal", err)
	}
	if rec.Role != string(platformauth.RoleTenantAdmin) {
		return Principal{}, ErrNotFound
	}

	updated, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return Principal{}, mapPersistenceError("update principal", err)
	}
	return mapPrincipal(updated), nil
}

func (s *service) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]Principal, error) {
	records, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, mapPersistenceError("list principals", err)
	}

	out := make([]Principal, 0, len(records))
	for _, rec := range records {
		if rec.Role != string(platformauth.RoleTenantAdmin) {
			continue
		}
		out = append(out, mapPrincipal(rec))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (Principal, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return Principal{}, mapPersistenceError("get principal", err)
	}
	return mapPrincipal(rec), nil
}

// EnsurePlatformAdmin creates the platform admin when none exists. The boolean
// reports whether a principal was created by this call.
func (s *service) EnsurePlatformAdmin(ctx context.Context, username, plain string) (Principal, bool, error) {
	fields := apperror.FieldErrors{}
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		fields.Add("username", "username is required")
	}
	if err := password.Validate(plain); err != nil {
		fields.Add("password", err.Error())
	}
	if err := apperror.FromFields(fields); err != nil {
		return Principal{}, false, err
	}

	n, err := s.repo.CountByRole(ctx, string(platformauth.RolePlatformAdmin))
	if err != nil {
		return Principal{}, false, apperror.DataStore("count platform admins", err)
	}
	if n > 0 {
		return Principal{}, false, nil
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return Principal{}, false, apperror.Validation("password", err.Error())
	}

	rec, err := s.repo.Create(ctx, persistence.PrincipalRecord{
		PrincipalID:  uuid.New(),
		Username:     username,
		Name:         "Platform Admin",
		PasswordHash: hash,
		Role:         string(platformauth.RolePlatformAdmin),
		IsActive:     true,
	})
	if errors.Is(err, persistence.ErrPlatformAdminExists) {
		// Another process seeded first.
		return Principal{}, false, nil
	}
	if err != nil {
		return Principal{}, false, mapPersistenceError("seed platform admin", err)
	}
	return mapPrincipal(rec), true, nil
}

// VerifyCredentials checks a username/password pair. Every failure path costs
// one bcrypt comparison and reports ErrInvalidCredentials.
func (s *service) VerifyCredentials(ctx context.Context, username, plain string) (Principal, error) {
	rec, err := s.repo.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, persistence.ErrNotFound) {
		return Principal{}, apperror.DataStore("get principal by username", err)
	}

	if cmpErr := s.hasher.Compare(rec.PasswordHash, plain); cmpErr != nil {
		return Principal{}, ErrInvalidCredentials
	}
	if err != nil || !rec.IsActive {
		return Principal{}, ErrInvalidCredentials
	}
	return mapPrincipal(rec), nil
}

func mapPrincipal(rec persistence.PrincipalRecord) Principal {
	return Principal{
		ID:        rec.PrincipalID,
		Username:  rec.Username,
		Name:      rec.Name,
		Email:     rec.Email,
		Role:      platformauth.Role(rec.Role),
		TenantID:  rec.TenantID,
		Active:    rec.IsActive,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func mapPersistenceError(op string, err error) error {
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrConflict):
		return ErrDuplicateUsername
	default:
		return apperror.DataStore(op, err)
	}
}
