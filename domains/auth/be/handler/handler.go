package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/zenGate-Global/portfolio-pro-saas/domains/auth/be/service"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/httpapi"
)

// Service is implemented by the authentication service.
type Service interface {
	Login(ctx context.Context, username, plain string) (service.LoginResult, error)
}

// Handler serves the login endpoint.
type Handler struct {
	svc    Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("auth service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login implements POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	res, err := h.svc.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, res)
}
