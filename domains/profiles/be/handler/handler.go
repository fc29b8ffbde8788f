package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zenGate-Global/portfolio-pro-saas/domains/profiles/be/service"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/apperror"
	platformauth "github.com/zenGate-Global/portfolio-pro-saas/platform/go/auth"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/httpapi"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/storage"
)

// multipartOverhead leaves room for the text fields next to the file part.
const multipartOverhead = 64 << 10

// Service is the subset of the profiles service used over HTTP.
type Service interface {
	GetPersonal(ctx context.Context, tenantID string) (service.Personal, error)
	GetContact(ctx context.Context, tenantID string) (service.Contact, error)
	GetSocial(ctx context.Context, tenantID string) ([]service.SocialLink, error)
	GetExperiences(ctx context.Context, tenantID string) ([]service.Experience, error)
	GetCustomSections(ctx context.Context, tenantID string) ([]service.CustomSection, error)
	UpsertPersonal(ctx context.Context, tenantID string, principal *platformauth.Principal, input service.PersonalInput) (service.Personal, error)
	UpsertContact(ctx context.Context, tenantID string, principal *platformauth.Principal, input service.ContactInput) (service.Contact, error)
	UpsertSocial(ctx context.Context, tenantID string, principal *platformauth.Principal, payload json.RawMessage) ([]service.SocialLink, error)
	UpsertExperiences(ctx context.Context, tenantID string, principal *platformauth.Principal, payload json.RawMessage) ([]service.Experience, error)
	UpsertCustomSection(ctx context.Context, tenantID string, principal *platformauth.Principal, sectionID string, payload json.RawMessage) (service.CustomSection, error)
	DeleteCustomSection(ctx context.Context, tenantID string, principal *platformauth.Principal, sectionID string) error
	UploadExperienceLogo(ctx context.Context, tenantID string, principal *platformauth.Principal, blob storage.Blob) (storage.Asset, error)
	UploadProfileImage(ctx context.Context, tenantID string, principal *platformauth.Principal, blob storage.Blob) (storage.Asset, error)
	GetOwnProfile(ctx context.Context, principal *platformauth.Principal) (service.Profile, error)
	GetPublicProfile(ctx context.Context, slug string) (service.Profile, error)
}

var _ Service = (*service.Service)(nil)

// Handler exposes profile sections, uploads and the public read path.
type Handler struct {
	svc    Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("profiles service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// ClientRoutes serves /api/client. Reads are anonymous; writes need a principal.
func (h *Handler) ClientRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/profile", h.GetOwnProfile)

	r.Get("/personal/{tenantId}", h.GetPersonal)
	r.Put("/personal/{tenantId}", h.UpsertPersonal)
	r.Get("/contact/{tenantId}", h.GetContact)
	r.Put("/contact/{tenantId}", h.UpsertContact)
	r.Get("/social/{tenantId}", h.GetSocial)
	r.Put("/social/{tenantId}", h.UpsertSocial)
	r.Get("/experience/{tenantId}", h.GetExperiences)
	r.Put("/experience/{tenantId}", h.UpsertExperiences)
	r.Post("/experience/upload-logo/{tenantId}", h.UploadExperienceLogo)

	r.Get("/custom/{tenantId}", h.GetCustomSections)
	r.Put("/custom/{tenantId}/{sectionId}", h.UpsertCustomSection)
	r.Delete("/custom/{tenantId}/{sectionId}", h.DeleteCustomSection)
	return r
}

// PublicRoutes serves /api/public.
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{slug}", h.GetPublicProfile)
	return r
}

// UploadRoutes serves /api/upload.
func (h *Handler) UploadRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/profile-image/{tenantId}", h.UploadProfileImage)
	return r
}

type personalRequest struct {
	Name   *string `json:"name"`
	Slogan *string `json:"slogan"`
	Bio    *string `json:"bio"`
}

type contactRequest struct {
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
}

type socialRequest struct {
	Links json.RawMessage `json:"links"`
}

type experiencesRequest struct {
	Experiences json.RawMessage `json:"experiences"`
}

// SocialResponse wraps the social links.
type SocialResponse struct {
	Links []service.SocialLink `json:"links"`
}

// ExperiencesResponse wraps the work history.
type ExperiencesResponse struct {
	Experiences []service.Experience `json:"experiences"`
}

// CustomSectionList is the JSON shape of the custom sections of a tenant.
type CustomSectionList struct {
	Items []service.CustomSection `json:"items"`
	Count int                     `json:"count"`
}

// GetPersonal implements GET /api/client/personal/{tenantId}
func (h *Handler) GetPersonal(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantParam(w, r)
	if !ok {
		return
	}
	personal, err := h.svc.GetPersonal(r.Context(), tenantID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, personal)
}

// UpsertPersonal implements PUT /api/client/personal/{tenantId}; it accepts
// JSON or multipart/form-data with an optional "image" file part.
func (h *Handler) UpsertPersonal(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantParam(w, r)
	if !ok {
		return
	}

	var input service.PersonalInput
	if isMultipart(r) {
		if err := parseMultipart(w, r); err != nil {
			httpapi.WriteError(w, r, h.logger, err)
			return
		}
		input.Name = formValue(r, "name")
		input.Slogan = formValue(r, "slogan")
		input.Bio = formValue(r, "bio")
		blob, err := readBlob(r, "image")
		if err != nil && !errors.Is(err, http.ErrMissingFile) {
			httpapi.WriteError(w, r, h.logger, err)
			return
		}
		input.Image = blob
	} else {
		var body personalRequest
		if err := httpapi.DecodeJSON(r, &body); err != nil {
			httpapi.WriteError(w, r, h.logger, err)
			return
		}
		input = service.PersonalInput{Name: body.Name, Slogan: body.Slogan, Bio: body.Bio}
	}

	personal, err := h.svc.UpsertPersonal(r.Context(), tenantID, principal(r), input)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, personal)
}

// GetContact implements GET /api/client/contact/{tenantId}
func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantParam(w, r)
	if !ok {
		return
	}
	contact, err := h.svc.GetContact(r.Context(), tenantID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, contact)
}

// UpsertContact implements PUT /api/client/contact/{tenantId}
func (h *Handler) UpsertContact(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantParam(w, r)
	if !ok {
		return
	}
	var body contactRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	contact, err := h.svc.UpsertContact(r.Context(), tenantID, principal(r), service.ContactInput{
		Email:    body.Email,
		Phone:    body.Phone,
		Location: body.Location,
	})
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, contact)
}

// GetSocial implements GET /api/client/social/{tenantId}
func (h *Handler) GetSocial(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantParam(w, r)
	if !ok {
		return
	}
	links, err := h.svc.GetSocial(r.Context(), tenantID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, SocialResponse{Links: links})
}

// UpsertSocial implements PUT /api/client/social/{tenantId}
func (h *Handler) UpsertSocial(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantParam(w, r)
	if !ok {
		return
	}
	var body socialRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	links, err := h.svc.UpsertSocial(r.Context(), tenantID, principal(r), body.Links)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, SocialResponse{Links: links})
}

// GetExperiences implements GET /api/client/experience/{tenantId}
func (h *Handler) GetExperiences(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantParam(w, r)
	if !ok {
		return
	}
	experiences, err := h.svc.GetExperiences(r.Context(), tenantID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, ExperiencesResponse{Experiences: experiences})
}

// UpsertExperiences implements PUT /api/client/experience/{tenantId}
func (h *Handler) UpsertExperiences(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantParam(w, r)
	if !ok {
		return
	}
	var body experiencesRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	experiences, err := h.svc.UpsertExperiences(r.Context(), tenantID, principal(r), body.Experiences)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, ExperiencesResponse{Experiences: experiences})
}

// UploadExperienceLogo implements POST /api/client/experience/upload-logo/{tenantId}
func (h *Handler) UploadExperienceLogo(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "logo", h.svc.UploadExperienceLogo)
}

// UploadProfileImage implements POST /api/upload/profile-image/{tenantId}
func (h *Handler) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "image", h.svc.UploadProfileImage)
}

type uploadFunc func(ctx context.Context, tenantID string, principal *platformauth.Principal, blob storage.Blob) (storage.Asset, error)

func (h *Handler) upload(w http.ResponseWriter, r *http.Request, field string, store uploadFunc) {
	tenantID, ok := h.tenantParam(w, r)
	if !ok {
		return
	}
	if !isMultipart(r) {
		httpapi.WriteError(w, r, h.logger, apperror.Validation(field, "multipart/form-data upload is required"))
		return
	}
	if err := parseMultipart(w, r); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	blob, err := readBlob(r, field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			err = apperror.Validation(field, "no file uploaded")
		}
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	asset, err := store(r.Context(), tenantID, principal(r), *blob)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, asset)
}

// GetCustomSections implements GET /api/client/custom/{tenantId}
func (h *Handler) GetCustomSections(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantParam(w, r)
	if !ok {
		return
	}
	sections, err := h.svc.GetCustomSections(r.Context(), tenantID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, CustomSectionList{Items: sections, Count: len(sections)})
}

// UpsertCustomSection implements PUT /api/client/custom/{tenantId}/{sectionId}
func (h *Handler) UpsertCustomSection(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantParam(w, r)
	if !ok {
		return
	}
	sectionID, err := httpapi.PathString(r, "sectionId")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	payload, err := httpapi.ReadRawJSON(r)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	section, err := h.svc.UpsertCustomSection(r.Context(), tenantID, principal(r), sectionID, payload)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, section)
}

// DeleteCustomSection implements DELETE /api/client/custom/{tenantId}/{sectionId}
func (h *Handler) DeleteCustomSection(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantParam(w, r)
	if !ok {
		return
	}
	sectionID, err := httpapi.PathString(r, "sectionId")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	if err := h.svc.DeleteCustomSection(r.Context(), tenantID, principal(r), sectionID); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetOwnProfile implements GET /api/client/profile
func (h *Handler) GetOwnProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.GetOwnProfile(r.Context(), principal(r))
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, profile)
}

// GetPublicProfile implements GET /api/public/{slug}
func (h *Handler) GetPublicProfile(w http.ResponseWriter, r *http.Request) {
	slug, err := httpapi.PathString(r, "slug")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	profile, err := h.svc.GetPublicProfile(r.Context(), slug)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) tenantParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	tenantID, err := httpapi.PathString(r, "tenantId")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return "", false
	}
	return tenantID, true
}

func principal(r *http.Request) *platformauth.Principal {
	p, ok := platformauth.PrincipalFromContext(r.Context())
	if !ok {
		return nil
	}
	return p
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

func parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxBlobBytes+multipartOverhead)
	if err := r.ParseMultipartForm(storage.MaxBlobBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperror.Validation("file", fmt.Sprintf("upload exceeds %d bytes", storage.MaxBlobBytes))
		}
		return apperror.Validation("body", "invalid multipart form")
	}
	return nil
}

// formValue returns nil when the field is absent so partial updates leave it untouched.
func formValue(r *http.Request, field string) *string {
	values, ok := r.MultipartForm.Value[field]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func readBlob(r *http.Request, field string) (*storage.Blob, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxBlobBytes+1))
	if err != nil {
		return nil, apperror.Validation(field, "unable to read file")
	}
	if len(data) > storage.MaxBlobBytes {
		return nil, apperror.Validation(field, fmt.Sprintf("file exceeds %d bytes", storage.MaxBlobBytes))
	}
	return &storage.Blob{
		Data:        data,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}
