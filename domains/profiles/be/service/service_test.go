package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/zenGate-Global/portfolio-pro-saas/domains/profiles/be/repo"
	"github.com/zenGate-Global/portfolio-pro-saas/domains/profiles/be/service"
	tenantrepo "github.com/zenGate-Global/portfolio-pro-saas/domains/tenants/be/repo"
	tenantsvc "github.com/zenGate-Global/portfolio-pro-saas/domains/tenants/be/service"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/apperror"
	platformauth "github.com/zenGate-Global/portfolio-pro-saas/platform/go/auth"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/storage"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/tenant"
)

var pngBlob = storage.Blob{
	Data:        []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01"),
	Filename:    "avatar.png",
	ContentType: "image/png",
}

type fakeAssets struct {
	mu       sync.Mutex
	stored   []string
	deleted  []string
	storeErr error
}

func (f *fakeAssets) Store(_ context.Context, _ storage.Blob, folder string) (storage.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.storeErr != nil {
		return storage.Asset{}, f.storeErr
	}
	id := fmt.Sprintf("%s/asset-%d.png", folder, len(f.stored)+1)
	f.stored = append(f.stored, id)
	return storage.Asset{ID: id, URL: "https://cdn.test/" + id}, nil
}

func (f *fakeAssets) Delete(_ context.Context, assetID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, assetID)
	return nil
}

func (f *fakeAssets) Check(context.Context, string) error { return nil }

func (f *fakeAssets) snapshot() ([]string, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.stored...), append([]string(nil), f.deleted...)
}

type fixture struct {
	svc      *service.Service
	profiles *repo.MemoryRepository
	tenants  *tenantrepo.MemoryRepository
	assets   *fakeAssets
	tenantA  tenantsvc.Tenant
	tenantB  tenantsvc.Tenant
	adminA   *platformauth.Principal
	adminB   *platformauth.Principal
	peerB    *platformauth.Principal
	root     *platformauth.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tenants := tenantrepo.NewMemoryRepository()
	tenantA := createTenant(t, tenants, "acme", tenantsvc.StatusActive)
	tenantB := createTenant(t, tenants, "globex", tenantsvc.StatusActive)

	profiles := repo.NewMemoryRepository()
	assets := &fakeAssets{}

	return &fixture{
		svc:      service.New(profiles, tenants, assets, "dev", zaptest.NewLogger(t)),
		profiles: profiles,
		tenants:  tenants,
		assets:   assets,
		tenantA:  tenantA,
		tenantB:  tenantB,
		adminA:   tenantAdmin(tenantA.ID),
		adminB:   tenantAdmin(tenantB.ID),
		peerB:    tenantAdmin(tenantB.ID),
		root:     &platformauth.Principal{ID: uuid.New(), Username: "root", Role: platformauth.RolePlatformAdmin},
	}
}

func createTenant(t *testing.T, tenants *tenantrepo.MemoryRepository, slug string, status tenantsvc.Status) tenantsvc.Tenant {
	t.Helper()
	now := time.Now().UTC()
	created, err := tenants.Create(context.Background(), tenantsvc.Tenant{
		ID:          uuid.New(),
		CompanyName: strings.ToUpper(slug) + " Inc",
		Slug:        slug,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.NoError(t, err)
	return created
}

func tenantAdmin(tenantID uuid.UUID) *platformauth.Principal {
	return &platformauth.Principal{ID: uuid.New(), Username: uuid.NewString() + "@client.test", Role: platformauth.RoleTenantAdmin, TenantID: &tenantID}
}

func strPtr(s string) *string { return &s }

func (f *fixture) seed(t *testing.T, tenantID uuid.UUID, owner *platformauth.Principal) service.Profile {
	t.Helper()
	ctx := context.Background()
	_, err := f.svc.UpsertContact(ctx, tenantID.String(), owner, service.ContactInput{Email: strPtr("hello@client.test")})
	require.NoError(t, err)
	_, err = f.svc.UpsertCustomSection(ctx, tenantID.String(), owner, "intro", json.RawMessage(`{"title":"Intro"}`))
	require.NoError(t, err)

	p, err := f.profiles.GetByTenant(ctx, tenantID)
	require.NoError(t, err)
	return p
}

func TestGetSectionsDefaultShape(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	id := f.tenantA.ID.String()

	personal, err := f.svc.GetPersonal(ctx, id)
	require.NoError(t, err)
	require.Equal(t, service.Personal{}, personal)

	contact, err := f.svc.GetContact(ctx, id)
	require.NoError(t, err)
	require.Equal(t, service.Contact{}, contact)

	links, err := f.svc.GetSocial(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, links)
	require.Empty(t, links)

	experiences, err := f.svc.GetExperiences(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, experiences)
	require.Empty(t, experiences)

	sections, err := f.svc.GetCustomSections(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, sections)
	require.Empty(t, sections)

	_, err = f.svc.GetPersonal(ctx, "not-a-uuid")
	require.ErrorIs(t, err, apperror.ErrValidation)
}

func TestFirstWriteAssignsOwner(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	id := f.tenantB.ID.String()

	_, err := f.svc.UpsertContact(ctx, id, f.adminB, service.ContactInput{Email: strPtr("  b@globex.test ")})
	require.NoError(t, err)

	stored, err := f.profiles.GetByTenant(ctx, f.tenantB.ID)
	require.NoError(t, err)
	require.Equal(t, f.adminB.ID, stored.OwnerID)
	require.Equal(t, "globex", stored.Slug)
	require.Equal(t, "b@globex.test", stored.Contact.Email)

	_, err = f.svc.UpsertContact(ctx, id, f.peerB, service.ContactInput{Phone: strPtr("555")})
	require.ErrorIs(t, err, service.ErrForbidden)
	require.ErrorIs(t, err, apperror.ErrUnauthorized)

	contact, err := f.svc.UpsertContact(ctx, id, f.root, service.ContactInput{Phone: strPtr("555")})
	require.NoError(t, err)
	require.Equal(t, service.Contact{Email: "b@globex.test", Phone: "555"}, contact)

	stored, err = f.profiles.GetByTenant(ctx, f.tenantB.ID)
	require.NoError(t, err)
	require.Equal(t, f.adminB.ID, stored.OwnerID)
}

func TestPlatformAdminFirstWriteLeavesProfileUnclaimed(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	id := f.tenantA.ID.String()

	_, err := f.svc.UpsertPersonal(ctx, id, f.root, service.PersonalInput{Name: strPtr("Seeded by ops")})
	require.NoError(t, err)

	stored, err := f.profiles.GetByTenant(ctx, f.tenantA.ID)
	require.NoError(t, err)
	require.Equal(t, uuid.Nil, stored.OwnerID)
	require.Equal(t, "Seeded by ops", stored.Personal.Name)

	own, err := f.svc.GetOwnProfile(ctx, f.adminA)
	require.NoError(t, err)
	require.Equal(t, "Seeded by ops", own.Personal.Name)

	_, err = f.svc.UpsertPersonal(ctx, id, f.adminA, service.PersonalInput{Name: strPtr("Jane")})
	require.NoError(t, err)

	stored, err = f.profiles.GetByTenant(ctx, f.tenantA.ID)
	require.NoError(t, err)
	require.Equal(t, f.adminA.ID, stored.OwnerID)
	require.Equal(t, "Jane", stored.Personal.Name)

	peerA := tenantAdmin(f.tenantA.ID)
	_, err = f.svc.UpsertPersonal(ctx, id, peerA, service.PersonalInput{Name: strPtr("Mallory")})
	require.ErrorIs(t, err, service.ErrForbidden)

	_, err = f.svc.UpsertContact(ctx, id, f.root, service.ContactInput{Phone: strPtr("555")})
	require.NoError(t, err)
	stored, err = f.profiles.GetByTenant(ctx, f.tenantA.ID)
	require.NoError(t, err)
	require.Equal(t, f.adminA.ID, stored.OwnerID)
}

type mutation struct {
	name string
	run  func(ctx context.Context, svc *service.Service, tenantID string, p *platformauth.Principal) error
}

func mutations() []mutation {
	return []mutation{
		{"personal", func(ctx context.Context, svc *service.Service, id string, p *platformauth.Principal) error {
			_, err := svc.UpsertPersonal(ctx, id, p, service.PersonalInput{Name: strPtr("Mallory"), Image: &pngBlob})
			return err
		}},
		{"contact", func(ctx context.Context, svc *service.Service, id string, p *platformauth.Principal) error {
			_, err := svc.UpsertContact(ctx, id, p, service.ContactInput{Email: strPtr("mallory@evil.test")})
			return err
		}},
		{"social", func(ctx context.Context, svc *service.Service, id string, p *platformauth.Principal) error {
			_, err := svc.UpsertSocial(ctx, id, p, json.RawMessage(`[{"platform":"x","url":"https://x.test/mallory"}]`))
			return err
		}},
		{"experiences", func(ctx context.Context, svc *service.Service, id string, p *platformauth.Principal) error {
			_, err := svc.UpsertExperiences(ctx, id, p, json.RawMessage(`[{"position":"CEO","company":"Evil","startDate":"2020-01"}]`))
			return err
		}},
		{"custom section upsert", func(ctx context.Context, svc *service.Service, id string, p *platformauth.Principal) error {
			_, err := svc.UpsertCustomSection(ctx, id, p, "intro", json.RawMessage(`{"title":"Owned"}`))
			return err
		}},
		{"custom section delete", func(ctx context.Context, svc *service.Service, id string, p *platformauth.Principal) error {
			return svc.DeleteCustomSection(ctx, id, p, "intro")
		}},
		{"experience logo upload", func(ctx context.Context, svc *service.Service, id string, p *platformauth.Principal) error {
			_, err := svc.UploadExperienceLogo(ctx, id, p, pngBlob)
			return err
		}},
		{"profile image upload", func(ctx context.Context, svc *service.Service, id string, p *platformauth.Principal) error {
			_, err := svc.UploadProfileImage(ctx, id, p, pngBlob)
			return err
		}},
	}
}

func TestEveryMutationIsAuthorized(t *testing.T) {
	t.Parallel()

	for _, op := range mutations() {
		op := op
		t.Run(op.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			ctx := context.Background()
			before := f.seed(t, f.tenantB.ID, f.adminB)
			saves := f.profiles.Saves()
			id := f.tenantB.ID.String()

			callers := []struct {
				name      string
				principal *platformauth.Principal
				want      error
			}{
				{"anonymous", nil, apperror.ErrUnauthenticated},
				{"other tenant admin", f.adminA, apperror.ErrUnauthorized},
				{"same tenant non owner", f.peerB, apperror.ErrUnauthorized},
				{"unknown role", &platformauth.Principal{ID: uuid.New(), Role: platformauth.Role("EDITOR"), TenantID: &f.tenantB.ID}, apperror.ErrUnauthorized},
			}
			for _, caller := range callers {
				err := op.run(ctx, f.svc, id, caller.principal)
				require.ErrorIs(t, err, caller.want, caller.name)
			}

			after, err := f.profiles.GetByTenant(ctx, f.tenantB.ID)
			require.NoError(t, err)
			require.Equal(t, before, after)
			require.Equal(t, saves, f.profiles.Saves())
			stored, deleted := f.assets.snapshot()
			require.Empty(t, stored)
			require.Empty(t, deleted)

			require.NoError(t, op.run(ctx, f.svc, id, f.adminB))
		})
	}
}

func TestCrossTenantWriteLeavesStoreUnchanged(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpsertPersonal(ctx, f.tenantB.ID.String(), f.adminA, service.PersonalInput{Name: strPtr("Mallory")})
	require.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = f.profiles.GetByTenant(ctx, f.tenantB.ID)
	require.ErrorIs(t, err, service.ErrProfileNotFound)
	require.Zero(t, f.profiles.Saves())
}

func TestUpsertRequiresExistingTenant(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.UpsertContact(context.Background(), uuid.NewString(), f.root, service.ContactInput{Email: strPtr("a@b.test")})
	require.ErrorIs(t, err, apperror.ErrNotFound)
	require.Zero(t, f.profiles.Saves())
}

func TestUpsertSocialCleansAndDeduplicates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	id := f.tenantA.ID.String()

	links, err := f.svc.UpsertSocial(ctx, id, f.adminA, json.RawMessage(`[
		{"platform":"x","url":"a"},
		{"platform":"x","url":"b"},
		{"platform":"y","url":""}
	]`))
	require.NoError(t, err)
	require.Equal(t, []service.SocialLink{{Platform: "x", URL: "b"}}, links)

	links, err = f.svc.UpsertSocial(ctx, id, f.adminA, json.RawMessage(`[
		{"platform":" github ","url":" https://github.com/jane "},
		{"url":"https://jane.dev"},
		{"platform":"linkedin","url":"https://linkedin.com/in/jane"},
		{"platform":"github","url":"https://github.com/jane-doe"},
		{"platform":"","url":"https://jane.example"}
	]`))
	require.NoError(t, err)
	require.Equal(t, []service.SocialLink{
		{Platform: "github", URL: "https://github.com/jane-doe"},
		{Platform: "website", URL: "https://jane.example"},
		{Platform: "linkedin", URL: "https://linkedin.com/in/jane"},
	}, links)

	stored, err := f.svc.GetSocial(ctx, id)
	require.NoError(t, err)
	require.Equal(t, links, stored)

	_, err = f.svc.UpsertSocial(ctx, id, f.adminA, json.RawMessage(`{"platform":"x","url":"a"}`))
	require.ErrorIs(t, err, apperror.ErrValidation)
}

func TestUpsertExperiencesRejectsNonList(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	id := f.tenantA.ID.String()

	initial, err := f.svc.UpsertExperiences(ctx, id, f.adminA, json.RawMessage(`[
		{"position":"Engineer","company":"Acme","startDate":"2019-03","endDate":"2021-06"},
		{"position":"CTO","company":"Acme","startDate":"2021-07","isCurrent":true}
	]`))
	require.NoError(t, err)
	require.Len(t, initial, 2)
	saves := f.profiles.Saves()

	payloads := []string{
		`{"position":"CTO","company":"Acme","startDate":"2021-07"}`,
		`"CTO at Acme"`,
		`null`,
		`[{"position":"CTO","startDate":"2021-07"}]`,
	}
	for _, payload := range payloads {
		_, err := f.svc.UpsertExperiences(ctx, id, f.adminA, json.RawMessage(payload))
		require.ErrorIs(t, err, apperror.ErrValidation, payload)
	}

	stored, err := f.svc.GetExperiences(ctx, id)
	require.NoError(t, err)
	require.Equal(t, initial, stored)
	require.Equal(t, saves, f.profiles.Saves())

	replaced, err := f.svc.UpsertExperiences(ctx, id, f.adminA, json.RawMessage(`[]`))
	require.NoError(t, err)
	require.Empty(t, replaced)
}

func TestUpsertExperiencesReportsItemField(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.UpsertExperiences(context.Background(), f.tenantA.ID.String(), f.adminA,
		json.RawMessage(`[{"position":"CTO","company":"Acme","startDate":"2021"},{"position":"CTO","startDate":"2021"}]`))

	var vErr *apperror.ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Contains(t, vErr.Fields, "experiences/1")
}

func TestUpsertCustomSectionReplacesOrAppends(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	id := f.tenantA.ID.String()

	for _, sectionID := range []string{"awards", "talks", "press"} {
		_, err := f.svc.UpsertCustomSection(ctx, id, f.adminA, sectionID, json.RawMessage(`{"title":"`+sectionID+`"}`))
		require.NoError(t, err)
	}

	updated, err := f.svc.UpsertCustomSection(ctx, id, f.adminA, "talks", json.RawMessage(`{"title":"Conference talks","subtitle":"2024","images":["https://cdn.test/t.png"]}`))
	require.NoError(t, err)
	require.Equal(t, "talks", updated.ID)

	sections, err := f.svc.GetCustomSections(ctx, id)
	require.NoError(t, err)
	require.Len(t, sections, 3)
	require.Equal(t, "talks", sections[1].ID)
	require.Equal(t, "Conference talks", sections[1].Title)
	require.Equal(t, []string{"https://cdn.test/t.png"}, sections[1].Images)

	_, err = f.svc.UpsertCustomSection(ctx, id, f.adminA, "books", json.RawMessage(`{"title":"Books"}`))
	require.NoError(t, err)
	sections, err = f.svc.GetCustomSections(ctx, id)
	require.NoError(t, err)
	require.Len(t, sections, 4)
	require.Equal(t, "books", sections[3].ID)

	_, err = f.svc.UpsertCustomSection(ctx, id, f.adminA, "empty", json.RawMessage(`{"subtitle":"no title"}`))
	require.ErrorIs(t, err, apperror.ErrValidation)
	_, err = f.svc.UpsertCustomSection(ctx, id, f.adminA, " ", json.RawMessage(`{"title":"x"}`))
	require.ErrorIs(t, err, apperror.ErrValidation)
}

func TestDeleteCustomSection(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	id := f.tenantA.ID.String()

	err := f.svc.DeleteCustomSection(ctx, id, f.adminA, "intro")
	require.ErrorIs(t, err, service.ErrSectionNotFound)
	require.Zero(t, f.profiles.Saves())

	f.seed(t, f.tenantA.ID, f.adminA)
	_, err = f.svc.UpsertCustomSection(ctx, id, f.adminA, "outro", json.RawMessage(`{"title":"Outro"}`))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteCustomSection(ctx, id, f.adminA, "intro"))
	sections, err := f.svc.GetCustomSections(ctx, id)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	require.Equal(t, "outro", sections[0].ID)

	err = f.svc.DeleteCustomSection(ctx, id, f.adminA, "intro")
	require.ErrorIs(t, err, service.ErrSectionNotFound)
}

func TestUpsertPersonalMergesAndReplacesImage(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	id := f.tenantA.ID.String()
	folder := tenant.NewSpace("dev", f.tenantA.ID, f.tenantA.Slug).Folder(service.FolderProfile)

	personal, err := f.svc.UpsertPersonal(ctx, id, f.adminA, service.PersonalInput{
		Name:   strPtr("Jane Doe"),
		Slogan: strPtr("Building things"),
		Image:  &pngBlob,
	})
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", personal.Name)
	require.True(t, strings.HasPrefix(personal.ProfileImageAssetID, folder+"/"))
	require.Equal(t, "https://cdn.test/"+personal.ProfileImageAssetID, personal.ProfileImage)
	first := personal.ProfileImageAssetID

	personal, err = f.svc.UpsertPersonal(ctx, id, f.adminA, service.PersonalInput{Bio: strPtr("Engineer")})
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", personal.Name)
	require.Equal(t, "Building things", personal.Slogan)
	require.Equal(t, "Engineer", personal.Bio)
	require.Equal(t, first, personal.ProfileImageAssetID)

	personal, err = f.svc.UpsertPersonal(ctx, id, f.adminA, service.PersonalInput{Image: &pngBlob})
	require.NoError(t, err)
	require.NotEqual(t, first, personal.ProfileImageAssetID)

	stored, deleted := f.assets.snapshot()
	require.Len(t, stored, 2)
	require.Equal(t, []string{first}, deleted)

	_, err = f.svc.UpsertPersonal(ctx, id, f.adminA, service.PersonalInput{Image: &storage.Blob{Data: []byte("plain text")}})
	require.ErrorIs(t, err, apperror.ErrValidation)
}

type failingSaves struct {
	*repo.MemoryRepository
}

func (failingSaves) Save(context.Context, service.Profile) (service.Profile, error) {
	return service.Profile{}, apperror.DataStore("save profile", errors.New("connection reset"))
}

func TestUpsertPersonalReleasesNewImageWhenSaveFails(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	svc := service.New(failingSaves{f.profiles}, f.tenants, f.assets, "dev", zaptest.NewLogger(t))

	_, err := svc.UpsertPersonal(context.Background(), f.tenantA.ID.String(), f.adminA, service.PersonalInput{Image: &pngBlob})
	require.ErrorIs(t, err, apperror.ErrDataStore)

	stored, deleted := f.assets.snapshot()
	require.Len(t, stored, 1)
	require.Equal(t, stored, deleted)
}

func TestUpsertPersonalAssetStoreFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.assets.storeErr = apperror.AssetStore("put object", errors.New("bucket unavailable"))

	_, err := f.svc.UpsertPersonal(context.Background(), f.tenantA.ID.String(), f.adminA, service.PersonalInput{Name: strPtr("Jane"), Image: &pngBlob})
	require.ErrorIs(t, err, apperror.ErrAssetStore)
	require.Zero(t, f.profiles.Saves())
}

func TestUploadsStoreUnderTenantFolders(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	space := tenant.NewSpace("dev", f.tenantA.ID, f.tenantA.Slug)

	logo, err := f.svc.UploadExperienceLogo(ctx, f.tenantA.ID.String(), f.adminA, pngBlob)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(logo.ID, space.Folder(service.FolderExperience)+"/"))

	image, err := f.svc.UploadProfileImage(ctx, f.tenantA.ID.String(), f.adminA, pngBlob)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(image.ID, space.Folder(service.FolderProfile)+"/"))

	_, err = f.svc.UploadProfileImage(ctx, f.tenantA.ID.String(), f.adminA, storage.Blob{})
	require.ErrorIs(t, err, apperror.ErrValidation)

	stored, _ := f.assets.snapshot()
	require.Len(t, stored, 2)
	require.Zero(t, f.profiles.Saves())
}

// barrierRepository holds every loader until all expected writers have read
// the profile, so their saves race on the same snapshot.
type barrierRepository struct {
	*repo.MemoryRepository
	loads *sync.WaitGroup
}

func (b barrierRepository) GetByTenant(ctx context.Context, tenantID uuid.UUID) (service.Profile, error) {
	p, err := b.MemoryRepository.GetByTenant(ctx, tenantID)
	b.loads.Done()
	b.loads.Wait()
	return p, err
}

func TestConcurrentPersonalUpsertsLastWriteWins(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	id := f.tenantA.ID.String()

	_, err := f.svc.UpsertPersonal(ctx, id, f.adminA, service.PersonalInput{
		Name:   strPtr("Jane"),
		Slogan: strPtr("Old slogan"),
		Bio:    strPtr("Old bio"),
	})
	require.NoError(t, err)

	loads := &sync.WaitGroup{}
	loads.Add(2)
	racing := service.New(barrierRepository{f.profiles, loads}, f.tenants, f.assets, "dev", zaptest.NewLogger(t))

	inputs := []service.PersonalInput{
		{Name: strPtr("Writer A")},
		{Bio: strPtr("Writer B bio")},
	}
	errs := make([]error, len(inputs))
	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		go func(i int, input service.PersonalInput) {
			defer wg.Done()
			_, errs[i] = racing.UpsertPersonal(ctx, id, f.adminA, input)
		}(i, input)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	final, err := f.svc.GetPersonal(ctx, id)
	require.NoError(t, err)

	onlyA := service.Personal{Name: "Writer A", Slogan: "Old slogan", Bio: "Old bio"}
	onlyB := service.Personal{Name: "Jane", Slogan: "Old slogan", Bio: "Writer B bio"}
	require.Contains(t, []service.Personal{onlyA, onlyB}, final)
}

func TestGetPublicProfile(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetPublicProfile(ctx, "acme")
	require.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.svc.UpsertPersonal(ctx, f.tenantA.ID.String(), f.adminA, service.PersonalInput{Name: strPtr("Jane")})
	require.NoError(t, err)
	_, err = f.svc.UpsertContact(ctx, f.tenantA.ID.String(), f.adminA, service.ContactInput{Phone: strPtr("+1 555 0100")})
	require.NoError(t, err)

	profile, err := f.svc.GetPublicProfile(ctx, "  ACME ")
	require.NoError(t, err)
	require.Equal(t, f.tenantA.ID, profile.TenantID)
	require.Equal(t, "Jane", profile.Personal.Name)
	require.Equal(t, "+1 555 0100", profile.Contact.Phone)
	require.NotNil(t, profile.Experiences)

	_, err = f.svc.GetPublicProfile(ctx, "unknown")
	require.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.svc.GetPublicProfile(ctx, " ")
	require.ErrorIs(t, err, apperror.ErrValidation)

	for _, status := range []tenantsvc.Status{tenantsvc.StatusSuspended, tenantsvc.StatusInactive} {
		suspended := f.tenantA
		suspended.Status = status
		_, err = f.tenants.Update(ctx, suspended)
		require.NoError(t, err)

		_, err = f.svc.GetPublicProfile(ctx, "acme")
		require.ErrorIs(t, err, apperror.ErrNotFound, status)
	}
}

func TestGetOwnProfile(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetOwnProfile(ctx, nil)
	require.ErrorIs(t, err, apperror.ErrUnauthenticated)

	_, err = f.svc.GetOwnProfile(ctx, f.root)
	require.ErrorIs(t, err, service.ErrNoTenant)

	empty, err := f.svc.GetOwnProfile(ctx, f.adminA)
	require.NoError(t, err)
	require.Equal(t, f.tenantA.ID, empty.TenantID)
	require.Equal(t, "acme", empty.Slug)
	require.Empty(t, empty.CustomSections)
	require.Zero(t, f.profiles.Saves())

	f.seed(t, f.tenantA.ID, f.adminA)
	own, err := f.svc.GetOwnProfile(ctx, f.adminA)
	require.NoError(t, err)
	require.Equal(t, f.adminA.ID, own.OwnerID)
	require.Equal(t, "hello@client.test", own.Contact.Email)

	peerA := tenantAdmin(f.tenantA.ID)
	_, err = f.svc.GetOwnProfile(ctx, peerA)
	require.ErrorIs(t, err, apperror.ErrUnauthorized)
}
