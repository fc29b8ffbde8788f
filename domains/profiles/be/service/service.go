package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	tenantsvc "github.com/zenGate-Global/portfolio-pro-saas/domains/tenants/be/service"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/apperror"
	platformauth "github.com/zenGate-Global/portfolio-pro-saas/platform/go/auth"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/storage"
)

// Asset folders below the tenant prefix.
const (
	FolderProfile    = "profile"
	FolderExperience = "experience"
)

// Errors returned by the service layer.
var (
	ErrProfileNotFound = fmt.Errorf("%w: profile not found", apperror.ErrNotFound)
	ErrSectionNotFound = fmt.Errorf("%w: custom section not found", apperror.ErrNotFound)
	ErrUnauthenticated = fmt.Errorf("%w: authentication required", apperror.ErrUnauthenticated)
	ErrForbidden       = fmt.Errorf("%w: not allowed to modify this profile", apperror.ErrUnauthorized)
	ErrNoTenant        = fmt.Errorf("%w: principal is not bound to a tenant", apperror.ErrUnauthorized)
)

// Repository persists profile documents, one per tenant.
type Repository interface {
	// GetByTenant returns ErrProfileNotFound when the tenant never wrote a profile.
	GetByTenant(ctx context.Context, tenantID uuid.UUID) (Profile, error)
	// Save replaces the document. The owner of an existing profile is never changed.
	Save(ctx context.Context, p Profile) (Profile, error)
}

// TenantLookup resolves the tenant registry entries profiles hang off.
type TenantLookup interface {
	Get(ctx context.Context, id uuid.UUID) (tenantsvc.Tenant, error)
	FindBySlug(ctx context.Context, slug string) (tenantsvc.Tenant, error)
}

// PersonalInput is a partial update of the personal section; nil fields are left untouched.
type PersonalInput struct {
	Name   *string
	Slogan *string
	Bio    *string
	Image  *storage.Blob
}

// ContactInput is a partial update of the contact section.
type ContactInput struct {
	Email    *string
	Phone    *string
	Location *string
}

// Service implements the profile sections and the public read path.
type Service struct {
	repo      Repository
	tenants   TenantLookup
	assets    storage.AssetStore
	envKey    string
	validator *payloadValidator
	logger    *zap.Logger
	now       func() time.Time
}

// New constructs a Service with required dependencies.
func New(repo Repository, tenants TenantLookup, assets storage.AssetStore, envKey string, logger *zap.Logger) *Service {
	if repo == nil {
		panic("profiles repo is required")
	}
	if tenants == nil {
		panic("tenant lookup is required")
	}
	if assets == nil {
		panic("asset store is required")
	}
	if envKey == "" {
		panic("envKey is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      repo,
		tenants:   tenants,
		assets:    assets,
		envKey:    envKey,
		validator: newPayloadValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

// GetPersonal returns the personal section, or its default shape.
func (s *Service) GetPersonal(ctx context.Context, tenantID string) (Personal, error) {
	p, err := s.read(ctx, tenantID)
	return p.Personal, err
}

// GetContact returns the contact section, or its default shape.
func (s *Service) GetContact(ctx context.Context, tenantID string) (Contact, error) {
	p, err := s.read(ctx, tenantID)
	return p.Contact, err
}

// GetSocial returns the social links, or an empty list.
func (s *Service) GetSocial(ctx context.Context, tenantID string) ([]SocialLink, error) {
	p, err := s.read(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return p.Social.Links, nil
}

// GetExperiences returns the work history, or an empty list.
func (s *Service) GetExperiences(ctx context.Context, tenantID string) ([]Experience, error) {
	p, err := s.read(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return p.Experiences, nil
}

// GetCustomSections returns the custom sections, or an empty list.
func (s *Service) GetCustomSections(ctx context.Context, tenantID string) ([]CustomSection, error) {
	p, err := s.read(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return p.CustomSections, nil
}

// UpsertPersonal merges the provided fields and, when an image is supplied,
// replaces the profile image. The previous image is released only after the
// document has been saved.
func (s *Service) UpsertPersonal(ctx context.Context, tenantID string, principal *platformauth.Principal, input PersonalInput) (Personal, error) {
	validate := func() error {
		if input.Image == nil {
			return nil
		}
		if _, err := storage.ValidateImage(*input.Image); err != nil {
			return apperror.Validation("image", err.Error())
		}
		return nil
	}

	target, err := s.beginWrite(ctx, tenantID, principal, validate)
	if err != nil {
		return Personal{}, err
	}

	var stored *storage.Asset
	previous := target.profile.Personal.ProfileImageAssetID
	if input.Image != nil {
		asset, err := s.assets.Store(ctx, *input.Image, target.space(s.envKey, FolderProfile))
		if err != nil {
			return Personal{}, err
		}
		stored = &asset
	}

	personal := &target.profile.Personal
	if input.Name != nil {
		personal.Name = strings.TrimSpace(*input.Name)
	}
	if input.Slogan != nil {
		personal.Slogan = strings.TrimSpace(*input.Slogan)
	}
	if input.Bio != nil {
		personal.Bio = strings.TrimSpace(*input.Bio)
	}
	if stored != nil {
		personal.ProfileImage = stored.URL
		personal.ProfileImageAssetID = stored.ID
	}

	saved, err := s.save(ctx, target)
	if err != nil {
		if stored != nil {
			s.release(ctx, stored.ID)
		}
		return Personal{}, err
	}
	if stored != nil && previous != "" && previous != stored.ID {
		s.release(ctx, previous)
	}
	return saved.Personal, nil
}

// UpsertContact merges the provided contact fields, trimmed.
func (s *Service) UpsertContact(ctx context.Context, tenantID string, principal *platformauth.Principal, input ContactInput) (Contact, error) {
	target, err := s.beginWrite(ctx, tenantID, principal, nil)
	if err != nil {
		return Contact{}, err
	}

	contact := &target.profile.Contact
	if input.Email != nil {
		contact.Email = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		contact.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Location != nil {
		contact.Location = strings.TrimSpace(*input.Location)
	}

	saved, err := s.save(ctx, target)
	if err != nil {
		return Contact{}, err
	}
	return saved.Contact, nil
}

type rawSocialLink struct {
	Platform *string `json:"platform"`
	URL      *string `json:"url"`
}

// UpsertSocial replaces the social links with the cleaned payload: entries are
// trimmed, an empty platform becomes "website", empty URLs are dropped and
// duplicates per platform collapse to the last one at the first one's position.
func (s *Service) UpsertSocial(ctx context.Context, tenantID string, principal *platformauth.Principal, payload json.RawMessage) ([]SocialLink, error) {
	var links []rawSocialLink
	validate := func() error {
		if err := s.validator.Validate(schemaSocialLinks, "links", payload); err != nil {
			return err
		}
		if err := json.Unmarshal(payload, &links); err != nil {
			return apperror.Validation("links", "must be a list of links")
		}
		return nil
	}

	target, err := s.beginWrite(ctx, tenantID, principal, validate)
	if err != nil {
		return nil, err
	}

	target.profile.Social.Links = cleanSocialLinks(links)

	saved, err := s.save(ctx, target)
	if err != nil {
		return nil, err
	}
	return saved.Social.Links, nil
}

func cleanSocialLinks(in []rawSocialLink) []SocialLink {
	out := make([]SocialLink, 0, len(in))
	index := make(map[string]int, len(in))
	for _, raw := range in {
		link := SocialLink{Platform: DefaultSocialPlatform}
		if raw.Platform != nil {
			if p := strings.TrimSpace(*raw.Platform); p != "" {
				link.Platform = p
			}
		}
		if raw.URL != nil {
			link.URL = strings.TrimSpace(*raw.URL)
		}
		if link.URL == "" {
			continue
		}
		if i, ok := index[link.Platform]; ok {
			out[i] = link
			continue
		}
		index[link.Platform] = len(out)
		out = append(out, link)
	}
	return out
}

// UpsertExperiences replaces the whole work history. The payload must be a
// list; anything else fails validation and leaves the stored list untouched.
func (s *Service) UpsertExperiences(ctx context.Context, tenantID string, principal *platformauth.Principal, payload json.RawMessage) ([]Experience, error) {
	var experiences []Experience
	validate := func() error {
		if err := s.validator.Validate(schemaExperiences, "experiences", payload); err != nil {
			return err
		}
		if err := json.Unmarshal(payload, &experiences); err != nil {
			return apperror.Validation("experiences", "must be a list of experiences")
		}
		return nil
	}

	target, err := s.beginWrite(ctx, tenantID, principal, validate)
	if err != nil {
		return nil, err
	}

	for i := range experiences {
		e := &experiences[i]
		e.Position = strings.TrimSpace(e.Position)
		e.Company = strings.TrimSpace(e.Company)
		e.StartDate = strings.TrimSpace(e.StartDate)
		e.EndDate = strings.TrimSpace(e.EndDate)
	}
	if experiences == nil {
		experiences = []Experience{}
	}
	target.profile.Experiences = experiences

	saved, err := s.save(ctx, target)
	if err != nil {
		return nil, err
	}
	return saved.Experiences, nil
}

// UpsertCustomSection replaces the section with the same id in place, or
// appends it when the id is new.
func (s *Service) UpsertCustomSection(ctx context.Context, tenantID string, principal *platformauth.Principal, sectionID string, payload json.RawMessage) (CustomSection, error) {
	sectionID = strings.TrimSpace(sectionID)
	var section CustomSection
	validate := func() error {
		fields := apperror.FieldErrors{}
		if sectionID == "" {
			fields.Add("sectionId", "is required")
		}
		if err := s.validator.Validate(schemaCustomSection, "section", payload); err != nil {
			var vErr *apperror.ValidationError
			if !errors.As(err, &vErr) {
				return err
			}
			for field, msgs := range vErr.Fields {
				for _, msg := range msgs {
					fields.Add(field, msg)
				}
			}
		}
		if err := apperror.FromFields(fields); err != nil {
			return err
		}
		if err := json.Unmarshal(payload, &section); err != nil {
			return apperror.Validation("section", "invalid custom section")
		}
		return nil
	}

	target, err := s.beginWrite(ctx, tenantID, principal, validate)
	if err != nil {
		return CustomSection{}, err
	}

	section.ID = sectionID
	section.Title = strings.TrimSpace(section.Title)
	if section.Images == nil {
		section.Images = []string{}
	}

	sections := target.profile.CustomSections
	replaced := false
	for i := range sections {
		if sections[i].ID == sectionID {
			sections[i] = section
			replaced = true
			break
		}
	}
	if !replaced {
		sections = append(sections, section)
	}
	target.profile.CustomSections = sections

	if _, err := s.save(ctx, target); err != nil {
		return CustomSection{}, err
	}
	return section, nil
}

// DeleteCustomSection removes the section with the given id.
func (s *Service) DeleteCustomSection(ctx context.Context, tenantID string, principal *platformauth.Principal, sectionID string) error {
	sectionID = strings.TrimSpace(sectionID)
	validate := func() error {
		if sectionID == "" {
			return apperror.Validation("sectionId", "is required")
		}
		return nil
	}

	target, err := s.beginWrite(ctx, tenantID, principal, validate)
	if err != nil {
		return err
	}
	if !target.exists {
		return ErrSectionNotFound
	}

	sections := target.profile.CustomSections
	kept := make([]CustomSection, 0, len(sections))
	for _, section := range sections {
		if section.ID != sectionID {
			kept = append(kept, section)
		}
	}
	if len(kept) == len(sections) {
		return ErrSectionNotFound
	}
	target.profile.CustomSections = kept

	_, err = s.save(ctx, target)
	return err
}

// UploadExperienceLogo stores a logo for a work history entry and returns its
// URL; the caller references it from the experiences payload.
func (s *Service) UploadExperienceLogo(ctx context.Context, tenantID string, principal *platformauth.Principal, blob storage.Blob) (storage.Asset, error) {
	return s.upload(ctx, tenantID, principal, blob, FolderExperience)
}

// UploadProfileImage stores an image under the tenant's profile folder without
// touching the document.
func (s *Service) UploadProfileImage(ctx context.Context, tenantID string, principal *platformauth.Principal, blob storage.Blob) (storage.Asset, error) {
	return s.upload(ctx, tenantID, principal, blob, FolderProfile)
}

func (s *Service) upload(ctx context.Context, tenantID string, principal *platformauth.Principal, blob storage.Blob, folder string) (storage.Asset, error) {
	validate := func() error {
		if _, err := storage.ValidateImage(blob); err != nil {
			return apperror.Validation("file", err.Error())
		}
		return nil
	}

	target, err := s.beginWrite(ctx, tenantID, principal, validate)
	if err != nil {
		return storage.Asset{}, err
	}
	return s.assets.Store(ctx, blob, target.space(s.envKey, folder))
}

// GetOwnProfile returns the full profile of the caller's tenant, or its default shape.
func (s *Service) GetOwnProfile(ctx context.Context, principal *platformauth.Principal) (Profile, error) {
	if principal == nil {
		return Profile{}, ErrUnauthenticated
	}
	if principal.TenantID == nil {
		return Profile{}, ErrNoTenant
	}
	tenantID := *principal.TenantID

	t, err := s.tenants.Get(ctx, tenantID)
	if err != nil {
		return Profile{}, err
	}
	current, exists, err := s.load(ctx, tenantID)
	if err != nil {
		return Profile{}, err
	}

	res := platformauth.Resource{TenantID: tenantID, OwnerID: boundOwner(current, exists)}
	if platformauth.Authorize(principal, platformauth.ActionRead, res) != platformauth.Allow {
		return Profile{}, ErrForbidden
	}

	if !exists {
		return emptyProfile(t.ID, t.Slug), nil
	}
	return current, nil
}

// GetPublicProfile returns the full document of an ACTIVE tenant by slug.
// Nothing is redacted.
func (s *Service) GetPublicProfile(ctx context.Context, slug string) (Profile, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return Profile{}, apperror.Validation("slug", "is required")
	}

	t, err := s.tenants.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return Profile{}, ErrProfileNotFound
		}
		return Profile{}, err
	}
	if t.Status != tenantsvc.StatusActive {
		return Profile{}, ErrProfileNotFound
	}

	p, err := s.repo.GetByTenant(ctx, t.ID)
	if err != nil {
		return Profile{}, err
	}
	p.Normalize()
	return p, nil
}

// writeTarget is a profile loaded for mutation after the caller was authorized.
type writeTarget struct {
	tenant  tenantsvc.Tenant
	profile Profile
	exists  bool
}

func (t writeTarget) space(envKey, folder string) string {
	return t.tenant.Space(envKey).Folder(folder)
}

// beginWrite is the entry point of every mutation: it resolves the tenant,
// loads the current profile and runs the authorization policy. Nothing is
// written before it returns successfully.
func (s *Service) beginWrite(ctx context.Context, rawTenantID string, principal *platformauth.Principal, validate func() error) (writeTarget, error) {
	tenantID, err := parseTenantID(rawTenantID)
	if err != nil {
		return writeTarget{}, err
	}
	if principal == nil {
		return writeTarget{}, ErrUnauthenticated
	}
	if validate != nil {
		if err := validate(); err != nil {
			return writeTarget{}, err
		}
	}

	t, err := s.tenants.Get(ctx, tenantID)
	if err != nil {
		return writeTarget{}, err
	}

	current, exists, err := s.load(ctx, tenantID)
	if err != nil {
		return writeTarget{}, err
	}

	if err := s.authorizeWrite(principal, tenantID, current, exists); err != nil {
		return writeTarget{}, err
	}

	if !exists {
		current = emptyProfile(tenantID, t.Slug)
	}
	if boundOwner(current, exists) == nil && principal.Role == platformauth.RoleTenantAdmin {
		current.OwnerID = principal.ID
	}
	return writeTarget{tenant: t, profile: current, exists: exists}, nil
}

// boundOwner returns the owner the policy must check, or nil while the profile
// is unclaimed. Platform admins write without claiming, so a profile they
// created stays open to the first tenant admin of that tenant.
func boundOwner(p Profile, exists bool) *uuid.UUID {
	if !exists || p.OwnerID == uuid.Nil {
		return nil
	}
	owner := p.OwnerID
	return &owner
}

// authorizeWrite applies the tenant isolation policy to a profile mutation.
func (s *Service) authorizeWrite(principal *platformauth.Principal, tenantID uuid.UUID, current Profile, exists bool) error {
	res := platformauth.Resource{TenantID: tenantID, OwnerID: boundOwner(current, exists)}
	if platformauth.Authorize(principal, platformauth.ActionWrite, res) != platformauth.Allow {
		s.logger.Info("profile write denied",
			zap.String("principal_id", principal.ID.String()),
			zap.String("role", string(principal.Role)),
			zap.String("tenant_id", tenantID.String()),
		)
		return ErrForbidden
	}
	return nil
}

func (s *Service) save(ctx context.Context, target writeTarget) (Profile, error) {
	p := target.profile
	p.UpdatedAt = s.now().UTC()
	if !target.exists {
		p.CreatedAt = p.UpdatedAt
	}
	p.Normalize()

	saved, err := s.repo.Save(ctx, p)
	if err != nil {
		return Profile{}, err
	}
	saved.Normalize()
	return saved, nil
}

func (s *Service) read(ctx context.Context, rawTenantID string) (Profile, error) {
	tenantID, err := parseTenantID(rawTenantID)
	if err != nil {
		return Profile{}, err
	}
	current, exists, err := s.load(ctx, tenantID)
	if err != nil {
		return Profile{}, err
	}
	if !exists {
		return emptyProfile(tenantID, ""), nil
	}
	return current, nil
}

func (s *Service) load(ctx context.Context, tenantID uuid.UUID) (Profile, bool, error) {
	p, err := s.repo.GetByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return Profile{}, false, nil
		}
		return Profile{}, false, err
	}
	p.Normalize()
	return p, true, nil
}

// release drops an asset that is no longer referenced. Failures are only logged.
func (s *Service) release(ctx context.Context, assetID string) {
	if err := s.assets.Delete(ctx, assetID); err != nil {
		s.logger.Warn("release asset failed", zap.String("asset_id", assetID), zap.Error(err))
	}
}

func parseTenantID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apperror.Validation("tenantId", "invalid tenant id")
	}
	return id, nil
}
