package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zenGate-Global/portfolio-pro-saas/domains/principals/be/service"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/httpapi"
)

// Handler exposes principal management to platform admins.
type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

// New constructs a principals HTTP handler.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("principals service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// PrincipalResponse is the JSON shape of a principal.
type PrincipalResponse struct {
	ID        uuid.UUID  `json:"id"`
	Username  string     `json:"username"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	TenantID  *uuid.UUID `json:"tenantId,omitempty"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
}

type createAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	TenantID string `json:"tenantId"`
	Username string `json:"username"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// CreateAdmin implements POST /api/super/admin
func (h *Handler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var body createAdminRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	p, err := h.svc.CreateTenantAdmin(r.Context(), service.CreateTenantAdminInput{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		TenantID: body.TenantID,
		Username: body.Username,
	})
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusCreated, toResponse(p))
}

// ResetPassword implements POST /api/super/reset-password/{userId}
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathUUID(r, "userId")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	var body resetPasswordRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	if err := h.svc.ResetPassword(r.Context(), id, body.NewPassword); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toResponse(p service.Principal) PrincipalResponse {
	return PrincipalResponse{
		ID:        p.ID,
		Username:  p.Username,
		Name:      p.Name,
		Email:     p.Email,
		Role:      string(p.Role),
		TenantID:  p.TenantID,
		IsActive:  p.Active,
		CreatedAt: p.CreatedAt,
	}
}
