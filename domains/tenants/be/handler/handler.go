package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zenGate-Global/portfolio-pro-saas/domains/tenants/be/service"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/httpapi"
)

// Service is the subset of the tenants service used over HTTP.
type Service interface {
	Create(ctx context.Context, input service.CreateInput) (service.Tenant, error)
	CreateClient(ctx context.Context, input service.CreateClientInput) (service.Client, error)
	List(ctx context.Context) ([]service.Tenant, error)
	Stats(ctx context.Context) (service.Stats, error)
	Overview(ctx context.Context, id uuid.UUID) (service.Overview, error)
	Admins(ctx context.Context, id uuid.UUID) ([]service.Admin, error)
	Update(ctx context.Context, id uuid.UUID, input service.UpdateInput) (service.UpdateResult, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status string) (service.Tenant, error)
	Deactivate(ctx context.Context, id uuid.UUID) (service.Tenant, error)
}

// Handler exposes the tenant registry to platform admins.
type Handler struct {
	svc    Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("tenants service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// ClientRoutes serves /api/admin/clients.
func (h *Handler) ClientRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateClient)
	r.Get("/", h.ListClients)
	r.Get("/stats", h.ClientStats)
	r.Get("/{id}", h.GetClient)
	r.Put("/{id}", h.UpdateClient)
	r.Delete("/{id}", h.DeleteClient)
	r.Patch("/{id}/status", h.ChangeStatus)
	r.Get("/{id}/admins", h.ClientAdmins)
	return r
}

// TenantResponse is the JSON shape of a tenant.
type TenantResponse struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"companyName"`
	Slug        string    `json:"slug"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AdminResponse is the JSON shape of a tenant admin; it never includes credentials.
type AdminResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	TenantID  uuid.UUID `json:"tenantId"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

type createTenantRequest struct {
	CompanyName string `json:"companyName"`
	Slug        string `json:"slug"`
}

type createClientRequest struct {
	CompanyName   string `json:"companyName"`
	Slug          string `json:"slug"`
	AdminName     string `json:"adminName"`
	AdminEmail    string `json:"adminEmail"`
	AdminPassword string `json:"adminPassword"`
}

type updateClientRequest struct {
	CompanyName *string    `json:"companyName"`
	Slug        *string    `json:"slug"`
	Status      *string    `json:"status"`
	AdminID     *uuid.UUID `json:"adminId"`
	AdminName   *string    `json:"adminName"`
	AdminEmail  *string    `json:"adminEmail"`
	AdminActive *bool      `json:"adminActive"`
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

// CreateTenant implements POST /api/super/tenant
func (h *Handler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var body createTenantRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	t, err := h.svc.Create(r.Context(), service.CreateInput{CompanyName: body.CompanyName, Slug: body.Slug})
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/admin/clients/%s", t.ID))
	httpapi.WriteJSON(w, http.StatusCreated, toTenantResponse(t))
}

// CreateClient implements POST /api/admin/clients
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var body createClientRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	client, err := h.svc.CreateClient(r.Context(), service.CreateClientInput{
		CompanyName:   body.CompanyName,
		Slug:          body.Slug,
		AdminName:     body.AdminName,
		AdminEmail:    body.AdminEmail,
		AdminPassword: body.AdminPassword,
	})
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/admin/clients/%s", client.Tenant.ID))
	httpapi.WriteJSON(w, http.StatusCreated, map[string]any{
		"tenant": toTenantResponse(client.Tenant),
		"admin":  toAdminResponse(client.Admin),
	})
}

// ListClients implements GET /api/admin/clients
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.svc.List(r.Context())
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	items := make([]TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		items = append(items, toTenantResponse(t))
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

// ClientStats implements GET /api/admin/clients/stats
func (h *Handler) ClientStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, stats)
}

// GetClient implements GET /api/admin/clients/{id}
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	overview, err := h.svc.Overview(r.Context(), id)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"tenant": toTenantResponse(overview.Tenant),
		"admins": toAdminResponses(overview.Admins),
		"stats":  overview.Stats,
	})
}

// UpdateClient implements PUT /api/admin/clients/{id}
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	var body updateClientRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	res, err := h.svc.Update(r.Context(), id, service.UpdateInput{
		CompanyName: body.CompanyName,
		Slug:        body.Slug,
		Status:      body.Status,
		AdminID:     body.AdminID,
		Admin: service.AdminPatch{
			Name:   body.AdminName,
			Email:  body.AdminEmail,
			Active: body.AdminActive,
		},
	})
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	var admin *AdminResponse
	if res.UpdatedAdmin != nil {
		a := toAdminResponse(*res.UpdatedAdmin)
		admin = &a
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"tenant":       toTenantResponse(res.Tenant),
		"updatedAdmin": admin,
	})
}

// DeleteClient implements DELETE /api/admin/clients/{id}; the tenant is only deactivated.
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	t, err := h.svc.Deactivate(r.Context(), id)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toTenantResponse(t))
}

// ChangeStatus implements PATCH /api/admin/clients/{id}/status
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	var body changeStatusRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	t, err := h.svc.ChangeStatus(r.Context(), id, body.Status)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toTenantResponse(t))
}

// ClientAdmins implements GET /api/admin/clients/{id}/admins
func (h *Handler) ClientAdmins(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	admins, err := h.svc.Admins(r.Context(), id)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	items := toAdminResponses(admins)
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func toTenantResponse(t service.Tenant) TenantResponse {
	return TenantResponse{
		ID:          t.ID,
		CompanyName: t.CompanyName,
		Slug:        t.Slug,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toAdminResponse(a service.Admin) AdminResponse {
	return AdminResponse{
		ID:        a.ID,
		Username:  a.Username,
		Name:      a.Name,
		Email:     a.Email,
		TenantID:  a.TenantID,
		IsActive:  a.Active,
		CreatedAt: a.CreatedAt,
	}
}

func toAdminResponses(admins []service.Admin) []AdminResponse {
	out := make([]AdminResponse, 0, len(admins))
	for _, a := range admins {
		out = append(out, toAdminResponse(a))
	}
	return out
}

var _ Service = (*service.Service)(nil)
