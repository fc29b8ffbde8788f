package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/apperror"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/password"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/persistence"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/tenant"
)

// Errors returned by the service layer.
var (
	ErrNotFound        = fmt.Errorf("%w: tenant not found", apperror.ErrNotFound)
	ErrDuplicateSlug   = fmt.Errorf("%w: tenant slug already exists", apperror.ErrConflict)
	ErrInvalidStatus   = apperror.Validation("status", "must be one of ACTIVE, INACTIVE, SUSPENDED")
	ErrStorageNotReady = errors.New("tenant storage prefix is not ready")
)

// Status is the lifecycle state of a tenant.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

// ParseStatus accepts exactly one of ACTIVE, INACTIVE or SUSPENDED.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusActive, StatusInactive, StatusSuspended:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Tenant represents the domain model for a tenant registry entry.
type Tenant struct {
	ID          uuid.UUID
	CompanyName string
	Slug        string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Space derives the asset space of the tenant for the given environment.
func (t Tenant) Space(envKey string) tenant.Space {
	return tenant.NewSpace(envKey, t.ID, t.Slug)
}

// Stats aggregates tenants per status.
type Stats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Inactive  int `json:"inactive"`
	Suspended int `json:"suspended"`
}

// CreateInput represents the request to create a tenant.
type CreateInput struct {
	CompanyName string
	Slug        string
}

// UpdateInput represents mutable fields for a tenant and, optionally, one of its admins.
type UpdateInput struct {
	CompanyName *string
	Slug        *string
	Status      *string
	AdminID     *uuid.UUID
	Admin       AdminPatch
}

// UpdateResult carries the tenant and the admin touched by Update, if any.
type UpdateResult struct {
	Tenant       Tenant
	UpdatedAdmin *Admin
}

// CreateClientInput creates a tenant together with its first admin.
type CreateClientInput struct {
	CompanyName   string
	Slug          string
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Client is a tenant with its first admin.
type Client struct {
	Tenant Tenant
	Admin  Admin
}

// OverviewStats summarises a tenant's admins.
type OverviewStats struct {
	TotalAdmins  int       `json:"totalAdmins"`
	ActiveAdmins int       `json:"activeAdmins"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Overview is the detailed admin view of a tenant.
type Overview struct {
	Tenant Tenant
	Admins []Admin
	Stats  OverviewStats
}

// Repository abstracts persistence.
type Repository interface {
	Create(ctx context.Context, t Tenant) (Tenant, error)
	Get(ctx context.Context, id uuid.UUID) (Tenant, error)
	FindBySlug(ctx context.Context, slug string) (Tenant, error)
	List(ctx context.Context) ([]Tenant, error)
	Update(ctx context.Context, t Tenant) (Tenant, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

// Service provides tenant registry operations.
type Service struct {
	repo   Repository
	admins AdminProvisioner
	envKey string
	deps   ProvisioningDeps
	logger *zap.Logger
	now    func() time.Time
}

// New constructs a Service with required dependencies.
func New(repo Repository, admins AdminProvisioner, envKey string, deps ProvisioningDeps, logger *zap.Logger) *Service {
	if repo == nil {
		panic("tenants repo is required")
	}
	if admins == nil {
		panic("admin provisioner is required")
	}
	if envKey == "" {
		panic("envKey is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, admins: admins, envKey: envKey, deps: deps, logger: logger, now: time.Now}
}

// List returns every tenant, newest first.
func (s *Service) List(ctx context.Context) ([]Tenant, error) {
	return s.repo.List(ctx)
}

// Stats counts tenants by status.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{
		Active:    counts[StatusActive],
		Inactive:  counts[StatusInactive],
		Suspended: counts[StatusSuspended],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

// Create registers a new ACTIVE tenant after provisioning its asset prefix.
func (s *Service) Create(ctx context.Context, input CreateInput) (Tenant, error) {
	fields := apperror.FieldErrors{}
	companyName, slug := validateCreate(input.CompanyName, input.Slug, fields)
	if err := apperror.FromFields(fields); err != nil {
		return Tenant{}, err
	}
	return s.create(ctx, companyName, slug)
}

func (s *Service) create(ctx context.Context, companyName, slug string) (Tenant, error) {
	if _, err := s.repo.FindBySlug(ctx, slug); err == nil {
		return Tenant{}, ErrDuplicateSlug
	} else if !errors.Is(err, ErrNotFound) {
		return Tenant{}, err
	}

	now := s.now().UTC()
	t := Tenant{
		ID:          uuid.New(),
		CompanyName: companyName,
		Slug:        slug,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.provisionStorage(ctx, t); err != nil {
		return Tenant{}, err
	}

	return s.repo.Create(ctx, t)
}

// CreateClient creates a tenant and its first TENANT_ADMIN. When the admin
// cannot be created the tenant is left INACTIVE.
func (s *Service) CreateClient(ctx context.Context, input CreateClientInput) (Client, error) {
	fields := apperror.FieldErrors{}
	companyName, slug := validateCreate(input.CompanyName, input.Slug, fields)
	if strings.TrimSpace(input.AdminName) == "" {
		fields.Add("adminName", "adminName is required")
	}
	if strings.TrimSpace(input.AdminEmail) == "" {
		fields.Add("adminEmail", "adminEmail is required")
	}
	if err := password.Validate(input.AdminPassword); err != nil {
		fields.Add("adminPassword", err.Error())
	}
	if err := apperror.FromFields(fields); err != nil {
		return Client{}, err
	}

	t, err := s.create(ctx, companyName, slug)
	if err != nil {
		return Client{}, err
	}

	admin, err := s.admins.CreateTenantAdmin(ctx, AdminInput{
		TenantID: t.ID,
		Name:     input.AdminName,
		Email:    input.AdminEmail,
		Password: input.AdminPassword,
	})
	if err != nil {
		t.Status = StatusInactive
		t.UpdatedAt = s.now().UTC()
		if _, rollbackErr := s.repo.Update(ctx, t); rollbackErr != nil {
			s.logger.Error("deactivate tenant after failed admin creation", zap.String("tenant_id", t.ID.String()), zap.Error(rollbackErr))
		}
		return Client{}, err
	}

	return Client{Tenant: t, Admin: admin}, nil
}

// Get returns a tenant by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Tenant, error) {
	return s.repo.Get(ctx, id)
}

// Overview returns a tenant with its admins and admin counts.
func (s *Service) Overview(ctx context.Context, id uuid.UUID) (Overview, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return Overview{}, err
	}
	admins, err := s.admins.ListTenantAdmins(ctx, id)
	if err != nil {
		return Overview{}, err
	}

	active := 0
	for _, a := range admins {
		if a.Active {
			active++
		}
	}

	return Overview{
		Tenant: t,
		Admins: admins,
		Stats: OverviewStats{
			TotalAdmins:  len(admins),
			ActiveAdmins: active,
			Status:       t.Status,
			CreatedAt:    t.CreatedAt,
		},
	}, nil
}

// Admins lists the admins bound to a tenant.
func (s *Service) Admins(ctx context.Context, id uuid.UUID) ([]Admin, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.admins.ListTenantAdmins(ctx, id)
}

// Update modifies mutable fields of a tenant and, when AdminID is set, the
// matching admin of that tenant. Empty strings leave a field untouched.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (UpdateResult, error) {
	fields := apperror.FieldErrors{}
	var status Status
	if input.Status != nil && strings.TrimSpace(*input.Status) != "" {
		st, err := ParseStatus(*input.Status)
		if err != nil {
			fields.Add("status", "must be one of ACTIVE, INACTIVE, SUSPENDED")
		}
		status = st
	}
	var slug string
	if input.Slug != nil && strings.TrimSpace(*input.Slug) != "" {
		normalized, err := persistence.NormalizeSlug(*input.Slug)
		if err != nil {
			fields.Add("slug", err.Error())
		}
		slug = normalized
	}
	if err := apperror.FromFields(fields); err != nil {
		return UpdateResult{}, err
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return UpdateResult{}, err
	}

	next := current
	if input.CompanyName != nil && strings.TrimSpace(*input.CompanyName) != "" {
		next.CompanyName = strings.TrimSpace(*input.CompanyName)
	}
	if slug != "" && slug != current.Slug {
		if existing, err := s.repo.FindBySlug(ctx, slug); err == nil && existing.ID != id {
			return UpdateResult{}, ErrDuplicateSlug
		} else if err != nil && !errors.Is(err, ErrNotFound) {
			return UpdateResult{}, err
		}
		next.Slug = slug
	}
	if status != "" {
		next.Status = status
	}
	next.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		return UpdateResult{}, err
	}

	result := UpdateResult{Tenant: updated}
	if input.AdminID == nil {
		return result, nil
	}

	admin, err := s.admins.UpdateTenantAdmin(ctx, id, *input.AdminID, input.Admin)
	if err != nil {
		return UpdateResult{}, err
	}
	result.UpdatedAdmin = &admin
	return result, nil
}

// ChangeStatus sets the tenant status. Setting the current status again is a no-op.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, status string) (Tenant, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return Tenant{}, err
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Tenant{}, err
	}
	if current.Status == st {
		return current, nil
	}

	current.Status = st
	current.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, current)
}

// Deactivate soft-deletes a tenant by marking it INACTIVE.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) (Tenant, error) {
	return s.ChangeStatus(ctx, id, string(StatusInactive))
}

// FindBySlug resolves a tenant by its public slug.
func (s *Service) FindBySlug(ctx context.Context, slug string) (Tenant, error) {
	return s.repo.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
}

// StorageStatus performs a read-only check of the tenant's asset prefix.
func (s *Service) StorageStatus(ctx context.Context, id uuid.UUID) (StorageProvisionResult, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return StorageProvisionResult{}, err
	}
	if s.deps.Storage == nil {
		return StorageProvisionResult{}, ErrStorageNotReady
	}
	return s.deps.Storage.Check(ctx, t.Space(s.envKey).BasePrefix)
}

func (s *Service) provisionStorage(ctx context.Context, t Tenant) error {
	if s.deps.Storage == nil {
		return nil
	}
	prefix := t.Space(s.envKey).BasePrefix
	res, err := s.deps.Storage.Ensure(ctx, prefix)
	if err != nil {
		return err
	}
	if !res.Ready {
		return apperror.AssetStore("provision tenant prefix", ErrStorageNotReady)
	}
	s.logger.Debug("tenant storage provisioned", zap.String("prefix", prefix))
	return nil
}

func validateCreate(companyName, slug string, fields apperror.FieldErrors) (string, string) {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		fields.Add("companyName", "companyName is required")
	}
	normalized := ""
	if strings.TrimSpace(slug) == "" {
		fields.Add("slug", "slug is required")
	} else if n, err := persistence.NormalizeSlug(slug); err != nil {
		fields.Add("slug", err.Error())
	} else {
		normalized = n
	}
	return companyName, normalized
}
